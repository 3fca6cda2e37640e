package users

import (
	"context"
	"fmt"

	"github.com/adfharrison1/go-users/pkg/domain"
	"github.com/adfharrison1/go-users/pkg/query"
)

// ExecuteBulk submits ops to the store as one ordered batch. Each operation
// sees the effects of those before it. The batch is not atomic: when the
// store rejects an operation the ones before it stay applied, and the
// returned tally counts them.
func (s *Service) ExecuteBulk(ctx context.Context, ops []domain.BulkOp) (domain.BulkTally, error) {
	if len(ops) == 0 {
		return domain.BulkTally{}, &domain.ValidationError{Field: "operations", Reason: "must not be empty"}
	}

	models := make([]domain.WriteModel, 0, len(ops))
	for i, op := range ops {
		model, err := writeModel(op)
		if err != nil {
			return domain.BulkTally{}, fmt.Errorf("operation %d (%s): %w", i, op.Kind, err)
		}
		models = append(models, model)
	}

	res, err := s.coll.BulkWrite(ctx, models, true)
	tally := tallyOf(res)
	if err != nil {
		return tally, domain.NewStoreError("bulkWrite", err)
	}
	s.log.Debugw("bulk write applied", "operations", len(ops), "inserted", tally.Inserted, "updated", tally.Updated, "deleted", tally.Deleted)
	return tally, nil
}

func writeModel(op domain.BulkOp) (domain.WriteModel, error) {
	switch op.Kind {
	case domain.BulkInsert:
		if err := op.User.Validate(); err != nil {
			return domain.WriteModel{}, err
		}
		return domain.WriteModel{Kind: domain.WriteInsertOne, Document: op.User.ToEntity()}, nil

	case domain.BulkReplace:
		if op.ID == "" {
			return domain.WriteModel{}, domain.ErrMissingIdentifier
		}
		if err := op.User.Validate(); err != nil {
			return domain.WriteModel{}, err
		}
		replacement := op.User
		replacement.ID = op.ID
		return domain.WriteModel{Kind: domain.WriteReplaceOne, Filter: query.ByID(op.ID), Document: replacement.ToEntity()}, nil

	case domain.BulkUpdate:
		if op.ID == "" {
			return domain.WriteModel{}, domain.ErrMissingIdentifier
		}
		if err := op.Update.Validate(); err != nil {
			return domain.WriteModel{}, err
		}
		set, err := query.SparseUpdate(op.Update)
		if err != nil {
			return domain.WriteModel{}, err
		}
		return domain.WriteModel{Kind: domain.WriteUpdateOne, Filter: query.ByID(op.ID), Update: set}, nil

	case domain.BulkDelete:
		if op.ID != "" {
			return domain.WriteModel{Kind: domain.WriteDeleteOne, Filter: query.ByID(op.ID)}, nil
		}
		if op.AgeGreaterThan != nil {
			return domain.WriteModel{Kind: domain.WriteDeleteMany, Filter: query.ByAge(*op.AgeGreaterThan, query.GreaterThan)}, nil
		}
		return domain.WriteModel{}, domain.ErrMissingIdentifier

	default:
		return domain.WriteModel{}, &domain.ValidationError{Field: "kind", Reason: fmt.Sprintf("unknown bulk operation %d", uint8(op.Kind))}
	}
}

func tallyOf(res *domain.BulkResult) domain.BulkTally {
	if res == nil {
		return domain.BulkTally{}
	}
	return domain.BulkTally{
		Inserted: res.InsertedCount,
		Updated:  res.ModifiedCount,
		Deleted:  res.DeletedCount,
		Matched:  res.MatchedCount,
		Upserted: res.UpsertedCount,
	}
}
