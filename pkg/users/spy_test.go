package users

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/adfharrison1/go-users/pkg/domain"
)

// spyCollection records every call and fails them all with err
type spyCollection struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (s *spyCollection) record(op string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, op)
	return s.err
}

func (s *spyCollection) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *spyCollection) FindOne(ctx context.Context, filter bson.D, out any) error {
	return s.record("FindOne")
}

func (s *spyCollection) Find(ctx context.Context, filter bson.D, opts *domain.FindOptions) (domain.Cursor, error) {
	return nil, s.record("Find")
}

func (s *spyCollection) Aggregate(ctx context.Context, pipeline []bson.D) (domain.Cursor, error) {
	return nil, s.record("Aggregate")
}

func (s *spyCollection) InsertOne(ctx context.Context, doc any) (*domain.InsertResult, error) {
	return nil, s.record("InsertOne")
}

func (s *spyCollection) InsertMany(ctx context.Context, docs []any) (*domain.InsertResult, error) {
	return nil, s.record("InsertMany")
}

func (s *spyCollection) UpdateOne(ctx context.Context, filter, update bson.D, upsert bool) (*domain.UpdateResult, error) {
	return nil, s.record("UpdateOne")
}

func (s *spyCollection) UpdateMany(ctx context.Context, filter, update bson.D) (*domain.UpdateResult, error) {
	return nil, s.record("UpdateMany")
}

func (s *spyCollection) ReplaceOne(ctx context.Context, filter bson.D, replacement any) (*domain.UpdateResult, error) {
	return nil, s.record("ReplaceOne")
}

func (s *spyCollection) DeleteOne(ctx context.Context, filter bson.D) (*domain.DeleteResult, error) {
	return nil, s.record("DeleteOne")
}

func (s *spyCollection) DeleteMany(ctx context.Context, filter bson.D) (*domain.DeleteResult, error) {
	return nil, s.record("DeleteMany")
}

func (s *spyCollection) BulkWrite(ctx context.Context, models []domain.WriteModel, ordered bool) (*domain.BulkResult, error) {
	return nil, s.record("BulkWrite")
}

func (s *spyCollection) CreateTextIndex(ctx context.Context, name string, fields ...string) error {
	return s.record("CreateTextIndex")
}
