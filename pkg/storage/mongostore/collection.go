package mongostore

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/adfharrison1/go-users/pkg/domain"
)

// Collection adapts *mongo.Collection to domain.Collection
type Collection struct {
	coll *mongo.Collection
}

var _ domain.Collection = (*Collection)(nil)

func (c *Collection) FindOne(ctx context.Context, filter bson.D, out any) error {
	err := c.coll.FindOne(ctx, filter).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.ErrNotFound
	}
	return err
}

func (c *Collection) Find(ctx context.Context, filter bson.D, opts *domain.FindOptions) (domain.Cursor, error) {
	cur, err := c.coll.Find(ctx, filter, findOptions(opts))
	if err != nil {
		return nil, err
	}
	return cur, nil
}

func (c *Collection) Aggregate(ctx context.Context, pipeline []bson.D) (domain.Cursor, error) {
	cur, err := c.coll.Aggregate(ctx, mongo.Pipeline(pipeline))
	if err != nil {
		return nil, err
	}
	return cur, nil
}

func (c *Collection) InsertOne(ctx context.Context, doc any) (*domain.InsertResult, error) {
	res, err := c.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, err
	}
	return &domain.InsertResult{InsertedIDs: []any{res.InsertedID}, Acknowledged: res.Acknowledged}, nil
}

func (c *Collection) InsertMany(ctx context.Context, docs []any) (*domain.InsertResult, error) {
	res, err := c.coll.InsertMany(ctx, docs)
	if res == nil {
		return nil, err
	}
	return &domain.InsertResult{InsertedIDs: res.InsertedIDs, Acknowledged: res.Acknowledged}, err
}

func (c *Collection) UpdateOne(ctx context.Context, filter, update bson.D, upsert bool) (*domain.UpdateResult, error) {
	res, err := c.coll.UpdateOne(ctx, filter, update, options.UpdateOne().SetUpsert(upsert))
	if err != nil {
		return nil, err
	}
	return updateResult(res), nil
}

func (c *Collection) UpdateMany(ctx context.Context, filter, update bson.D) (*domain.UpdateResult, error) {
	res, err := c.coll.UpdateMany(ctx, filter, update)
	if err != nil {
		return nil, err
	}
	return updateResult(res), nil
}

func (c *Collection) ReplaceOne(ctx context.Context, filter bson.D, replacement any) (*domain.UpdateResult, error) {
	res, err := c.coll.ReplaceOne(ctx, filter, replacement)
	if err != nil {
		return nil, err
	}
	return updateResult(res), nil
}

func (c *Collection) DeleteOne(ctx context.Context, filter bson.D) (*domain.DeleteResult, error) {
	res, err := c.coll.DeleteOne(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &domain.DeleteResult{DeletedCount: res.DeletedCount, Acknowledged: res.Acknowledged}, nil
}

func (c *Collection) DeleteMany(ctx context.Context, filter bson.D) (*domain.DeleteResult, error) {
	res, err := c.coll.DeleteMany(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &domain.DeleteResult{DeletedCount: res.DeletedCount, Acknowledged: res.Acknowledged}, nil
}

// BulkWrite returns the driver's partial result together with a
// mongo.BulkWriteException when some models fail.
func (c *Collection) BulkWrite(ctx context.Context, models []domain.WriteModel, ordered bool) (*domain.BulkResult, error) {
	writes, err := writeModels(models)
	if err != nil {
		return nil, err
	}

	res, err := c.coll.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(ordered))
	return bulkResult(res), err
}

func (c *Collection) CreateTextIndex(ctx context.Context, name string, fields ...string) error {
	_, err := c.coll.Indexes().CreateOne(ctx, textIndexModel(name, fields))
	return err
}
