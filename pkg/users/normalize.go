package users

import (
	"context"
	"fmt"

	"github.com/adfharrison1/go-users/pkg/domain"
)

type countRow struct {
	Key   any   `bson:"_id"`
	Count int64 `bson:"count"`
}

type averageRow struct {
	Key     any      `bson:"_id"`
	Average *float64 `bson:"average"`
}

type totalRow struct {
	Total int64 `bson:"total"`
}

// groupKey renders a $group key as a map key. Records missing the grouped
// field fall under the empty key.
func groupKey(key any) string {
	switch k := key.(type) {
	case nil:
		return ""
	case string:
		return k
	default:
		return fmt.Sprint(k)
	}
}

func decodeCounts(ctx context.Context, cur domain.Cursor) (domain.CountByKey, error) {
	var rows []countRow
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	counts := make(domain.CountByKey, len(rows))
	for _, row := range rows {
		if row.Count > 0 {
			counts[groupKey(row.Key)] += row.Count
		}
	}
	return counts, nil
}

func decodeAverages(ctx context.Context, cur domain.Cursor) (domain.AverageByKey, error) {
	var rows []averageRow
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	averages := make(domain.AverageByKey, len(rows))
	for _, row := range rows {
		if row.Average != nil {
			averages[groupKey(row.Key)] = *row.Average
		}
	}
	return averages, nil
}

// decodeTotal reads a $count result. No row means zero.
func decodeTotal(ctx context.Context, cur domain.Cursor) (int64, error) {
	var rows []totalRow
	if err := cur.All(ctx, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}

func toEntities(users []domain.User) []any {
	docs := make([]any, len(users))
	for i, u := range users {
		docs[i] = u.ToEntity()
	}
	return docs
}
