package api

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/adfharrison1/go-users/pkg/domain"
)

// failingCollection is a domain.Collection whose every call fails with err
type failingCollection struct {
	err   error
	calls int
}

func (m *failingCollection) fail() error {
	m.calls++
	return m.err
}

func (m *failingCollection) FindOne(context.Context, bson.D, any) error { return m.fail() }

func (m *failingCollection) Find(context.Context, bson.D, *domain.FindOptions) (domain.Cursor, error) {
	return nil, m.fail()
}

func (m *failingCollection) Aggregate(context.Context, []bson.D) (domain.Cursor, error) {
	return nil, m.fail()
}

func (m *failingCollection) InsertOne(context.Context, any) (*domain.InsertResult, error) {
	return nil, m.fail()
}

func (m *failingCollection) InsertMany(context.Context, []any) (*domain.InsertResult, error) {
	return nil, m.fail()
}

func (m *failingCollection) UpdateOne(context.Context, bson.D, bson.D, bool) (*domain.UpdateResult, error) {
	return nil, m.fail()
}

func (m *failingCollection) UpdateMany(context.Context, bson.D, bson.D) (*domain.UpdateResult, error) {
	return nil, m.fail()
}

func (m *failingCollection) ReplaceOne(context.Context, bson.D, any) (*domain.UpdateResult, error) {
	return nil, m.fail()
}

func (m *failingCollection) DeleteOne(context.Context, bson.D) (*domain.DeleteResult, error) {
	return nil, m.fail()
}

func (m *failingCollection) DeleteMany(context.Context, bson.D) (*domain.DeleteResult, error) {
	return nil, m.fail()
}

func (m *failingCollection) BulkWrite(context.Context, []domain.WriteModel, bool) (*domain.BulkResult, error) {
	return nil, m.fail()
}

func (m *failingCollection) CreateTextIndex(context.Context, string, ...string) error {
	return m.fail()
}
