package domain

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Collection is the document-store contract the engine is written against.
// Filters, updates and pipelines are store-level bson expressions.
type Collection interface {
	// FindOne decodes the first match into out, or returns ErrNotFound
	FindOne(ctx context.Context, filter bson.D, out any) error
	Find(ctx context.Context, filter bson.D, opts *FindOptions) (Cursor, error)
	Aggregate(ctx context.Context, pipeline []bson.D) (Cursor, error)
	InsertOne(ctx context.Context, doc any) (*InsertResult, error)
	InsertMany(ctx context.Context, docs []any) (*InsertResult, error)
	UpdateOne(ctx context.Context, filter, update bson.D, upsert bool) (*UpdateResult, error)
	UpdateMany(ctx context.Context, filter, update bson.D) (*UpdateResult, error)
	ReplaceOne(ctx context.Context, filter bson.D, replacement any) (*UpdateResult, error)
	DeleteOne(ctx context.Context, filter bson.D) (*DeleteResult, error)
	DeleteMany(ctx context.Context, filter bson.D) (*DeleteResult, error)
	// BulkWrite submits the models as one batch. On partial failure the
	// result reflects what was applied and is returned alongside the error.
	BulkWrite(ctx context.Context, models []WriteModel, ordered bool) (*BulkResult, error)
	CreateTextIndex(ctx context.Context, name string, fields ...string) error
}

// Cursor is a finite, forward-only sequence of documents. *mongo.Cursor
// satisfies it.
type Cursor interface {
	Next(ctx context.Context) bool
	Decode(val any) error
	All(ctx context.Context, results any) error
	Err() error
	Close(ctx context.Context) error
}

// FindOptions mirrors the subset of find options the engine uses.
// A nil Projection returns whole documents.
type FindOptions struct {
	Projection bson.D
	Sort       bson.D
	Skip       int64
	Limit      int64
}

// WriteKind tags a WriteModel
type WriteKind uint8

const (
	WriteInsertOne WriteKind = iota + 1
	WriteReplaceOne
	WriteUpdateOne
	WriteUpdateMany
	WriteDeleteOne
	WriteDeleteMany
)

func (k WriteKind) String() string {
	switch k {
	case WriteInsertOne:
		return "insertOne"
	case WriteReplaceOne:
		return "replaceOne"
	case WriteUpdateOne:
		return "updateOne"
	case WriteUpdateMany:
		return "updateMany"
	case WriteDeleteOne:
		return "deleteOne"
	case WriteDeleteMany:
		return "deleteMany"
	default:
		return "unknown"
	}
}

// WriteModel is a single store-level write inside a bulk batch.
// Document holds the inserted document or the replacement.
type WriteModel struct {
	Kind     WriteKind
	Filter   bson.D
	Update   bson.D
	Document any
	Upsert   bool
}

type InsertResult struct {
	InsertedIDs  []any
	Acknowledged bool
}

type UpdateResult struct {
	MatchedCount  int64
	ModifiedCount int64
	UpsertedCount int64
	UpsertedID    any
	Acknowledged  bool
}

type DeleteResult struct {
	DeletedCount int64
	Acknowledged bool
}

type BulkResult struct {
	InsertedCount int64
	MatchedCount  int64
	ModifiedCount int64
	DeletedCount  int64
	UpsertedCount int64
	Acknowledged  bool
}
