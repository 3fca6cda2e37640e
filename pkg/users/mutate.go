package users

import (
	"context"
	"fmt"

	"github.com/adfharrison1/go-users/pkg/domain"
	"github.com/adfharrison1/go-users/pkg/query"
)

// InsertUser stores a new user and returns its identifier, assigning one
// when the record has none
func (s *Service) InsertUser(ctx context.Context, user domain.User) (string, error) {
	if err := user.Validate(); err != nil {
		return "", err
	}

	entity := user.ToEntity()
	if _, err := s.coll.InsertOne(ctx, entity); err != nil {
		return "", domain.NewStoreError("insertOne", err)
	}
	s.log.Debugw("inserted user", "id", entity.ID)
	return entity.ID, nil
}

// InsertUsers stores users in order. Every record is validated before any
// is written; on a store failure the records before it stay inserted.
func (s *Service) InsertUsers(ctx context.Context, users []domain.User) ([]string, error) {
	if len(users) == 0 {
		return nil, &domain.ValidationError{Field: "users", Reason: "must not be empty"}
	}
	for i, u := range users {
		if err := u.Validate(); err != nil {
			return nil, fmt.Errorf("user %d: %w", i, err)
		}
	}

	docs := toEntities(users)
	ids := make([]string, len(docs))
	for i, doc := range docs {
		ids[i] = doc.(domain.UserEntity).ID
	}

	res, err := s.coll.InsertMany(ctx, docs)
	if err != nil {
		inserted := 0
		if res != nil {
			inserted = len(res.InsertedIDs)
		}
		return ids[:inserted], domain.NewStoreError("insertMany", err)
	}
	s.log.Debugw("inserted users", "count", len(ids))
	return ids, nil
}

// UpdateUser applies a sparse update to the user with the given identifier.
// When no user has that identifier a new one is created from the update.
func (s *Service) UpdateUser(ctx context.Context, id string, update domain.UserUpdate) (bool, error) {
	if id == "" {
		return false, domain.ErrMissingIdentifier
	}
	if err := update.Validate(); err != nil {
		return false, err
	}
	set, err := query.SparseUpdate(update)
	if err != nil {
		return false, err
	}

	res, err := s.coll.UpdateOne(ctx, query.ByID(id), set, true)
	if err != nil {
		return false, domain.NewStoreError("updateOne", err)
	}
	s.log.Debugw("updated user", "id", id, "matched", res.MatchedCount, "upserted", res.UpsertedCount)
	return res.MatchedCount+res.UpsertedCount > 0, nil
}

// ReplaceByID overwrites the whole record identified by user.ID. It reports
// whether a record was matched.
func (s *Service) ReplaceByID(ctx context.Context, user domain.User) (bool, error) {
	if user.ID == "" {
		return false, domain.ErrMissingIdentifier
	}
	if err := user.Validate(); err != nil {
		return false, err
	}

	res, err := s.coll.ReplaceOne(ctx, query.ByID(user.ID), user.ToEntity())
	if err != nil {
		return false, domain.NewStoreError("replaceOne", err)
	}
	return res.MatchedCount == 1, nil
}

// UpdateManyNameWhereAgeGreaterThan renames every user older than age.
// It reports whether the store acknowledged the write.
func (s *Service) UpdateManyNameWhereAgeGreaterThan(ctx context.Context, age int, name string) (bool, error) {
	if name == "" {
		return false, &domain.ValidationError{Field: "name", Reason: "must not be empty"}
	}

	res, err := s.coll.UpdateMany(ctx, query.ByAge(age, query.GreaterThan), query.SetName(name))
	if err != nil {
		return false, domain.NewStoreError("updateMany", err)
	}
	s.log.Debugw("renamed users", "age_gt", age, "matched", res.MatchedCount, "modified", res.ModifiedCount)
	return res.Acknowledged, nil
}

// DeleteByID removes the user with the given identifier and returns how
// many records were deleted (0 or 1)
func (s *Service) DeleteByID(ctx context.Context, id string) (int64, error) {
	if id == "" {
		return 0, domain.ErrMissingIdentifier
	}

	res, err := s.coll.DeleteOne(ctx, query.ByID(id))
	if err != nil {
		return 0, domain.NewStoreError("deleteOne", err)
	}
	return res.DeletedCount, nil
}

// DeleteWhereAgeGreaterThan removes every user older than age
func (s *Service) DeleteWhereAgeGreaterThan(ctx context.Context, age int) (int64, error) {
	res, err := s.coll.DeleteMany(ctx, query.ByAge(age, query.GreaterThan))
	if err != nil {
		return 0, domain.NewStoreError("deleteMany", err)
	}
	s.log.Debugw("deleted users", "age_gt", age, "count", res.DeletedCount)
	return res.DeletedCount, nil
}

// EnsureTextIndex creates the text index SearchUsers relies on. It is safe
// to call on every start.
func (s *Service) EnsureTextIndex(ctx context.Context) error {
	if err := s.coll.CreateTextIndex(ctx, TextIndexName, TextIndexFields...); err != nil {
		return domain.NewStoreError("createIndex", err)
	}
	return nil
}
