package users

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/adfharrison1/go-users/pkg/domain"
	"github.com/adfharrison1/go-users/pkg/query"
)

// TotalCount returns the number of users. An empty collection counts as 0.
func (s *Service) TotalCount(ctx context.Context) (int64, error) {
	cur, err := s.coll.Aggregate(ctx, query.CountAll())
	if err != nil {
		return 0, domain.NewStoreError("aggregate", err)
	}
	total, err := decodeTotal(ctx, cur)
	if err != nil {
		return 0, domain.NewStoreError("aggregate", err)
	}
	return total, nil
}

// CountByCountry returns the number of users per country. Countries without
// users are absent.
func (s *Service) CountByCountry(ctx context.Context) (domain.CountByKey, error) {
	cur, err := s.coll.Aggregate(ctx, query.CountBy(query.FieldCountry))
	if err != nil {
		return nil, domain.NewStoreError("aggregate", err)
	}
	counts, err := decodeCounts(ctx, cur)
	if err != nil {
		return nil, domain.NewStoreError("aggregate", err)
	}
	return counts, nil
}

// AverageAgeByProfession returns the mean age per profession
func (s *Service) AverageAgeByProfession(ctx context.Context) (domain.AverageByKey, error) {
	cur, err := s.coll.Aggregate(ctx, query.AverageBy(query.FieldProfession, query.FieldAge))
	if err != nil {
		return nil, domain.NewStoreError("aggregate", err)
	}
	averages, err := decodeAverages(ctx, cur)
	if err != nil {
		return nil, domain.NewStoreError("aggregate", err)
	}
	return averages, nil
}

// Dashboard runs the three aggregations concurrently. The figures are not a
// consistent snapshot when writes land in between.
func (s *Service) Dashboard(ctx context.Context) (domain.Dashboard, error) {
	var dash domain.Dashboard
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		total, err := s.TotalCount(gctx)
		dash.TotalUsers = total
		return err
	})
	g.Go(func() error {
		counts, err := s.CountByCountry(gctx)
		dash.CountryWithUsersCount = counts
		return err
	})
	g.Go(func() error {
		averages, err := s.AverageAgeByProfession(gctx)
		dash.ProfessionWithAvgAge = averages
		return err
	})

	if err := g.Wait(); err != nil {
		return domain.Dashboard{}, err
	}
	return dash, nil
}
