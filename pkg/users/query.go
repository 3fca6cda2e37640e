package users

import (
	"context"
	"errors"

	"github.com/adfharrison1/go-users/pkg/domain"
	"github.com/adfharrison1/go-users/pkg/query"
)

// GetByID returns the user with the given identifier, or
// domain.ErrNotFound when there is none
func (s *Service) GetByID(ctx context.Context, id string) (domain.User, error) {
	if id == "" {
		return domain.User{}, &domain.ValidationError{Field: "id", Reason: "must not be empty"}
	}

	var entity domain.UserEntity
	err := s.coll.FindOne(ctx, query.ByID(id), &entity)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.User{}, domain.NewStoreError("findOne", err)
	}
	return entity.ToUser(), nil
}

// FilterUsers streams every user aged at most age together with every user
// from country. The two conditions are ORed.
func (s *Service) FilterUsers(ctx context.Context, age int, country string) (*UserCursor, error) {
	cur, err := s.coll.Find(ctx, query.ByAgeOrCountry(age, country), nil)
	if err != nil {
		return nil, domain.NewStoreError("find", err)
	}
	s.log.Debugw("filtering users", "age", age, "country", country)
	return newUserCursor(cur), nil
}

// ListAll returns one page of name and age summaries ordered by ascending
// age. Pages below 1 are treated as page 1.
func (s *Service) ListAll(ctx context.Context, page int) ([]domain.UserSummary, error) {
	skip, limit := query.Page(page, query.PageSize)

	cur, err := s.coll.Find(ctx, query.All(), &domain.FindOptions{
		Projection: query.Include(query.FieldName, query.FieldAge),
		Sort:       query.Ascending(query.FieldAge),
		Skip:       skip,
		Limit:      limit,
	})
	if err != nil {
		return nil, domain.NewStoreError("find", err)
	}

	summaries := []domain.UserSummary{}
	if err := cur.All(ctx, &summaries); err != nil {
		return nil, domain.NewStoreError("find", err)
	}
	return summaries, nil
}

// SearchUsers runs a free-text query against the text index and returns one
// page of matches, most relevant first.
func (s *Service) SearchUsers(ctx context.Context, text string, page int) ([]domain.User, error) {
	if text == "" {
		return nil, &domain.ValidationError{Field: "query", Reason: "must not be empty"}
	}
	skip, limit := query.Page(page, query.PageSize)

	cur, err := s.coll.Find(ctx, query.TextSearch(text), &domain.FindOptions{
		Sort:  query.ByRelevance(),
		Skip:  skip,
		Limit: limit,
	})
	if err != nil {
		return nil, domain.NewStoreError("find", err)
	}
	return newUserCursor(cur).All(ctx)
}
