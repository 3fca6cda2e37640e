package memory

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/adfharrison1/go-users/pkg/domain"
)

// DuplicateKeyError is returned when an insert reuses an existing _id
type DuplicateKeyError struct {
	Collection string
	ID         string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("E11000 duplicate key error collection: %s dup key: { _id: %q }", e.Collection, e.ID)
}

// BulkWriteError reports the model that stopped or failed inside a batch
type BulkWriteError struct {
	Index int
	Kind  domain.WriteKind
	Err   error
}

func (e *BulkWriteError) Error() string {
	return fmt.Sprintf("bulk write model %d (%s): %v", e.Index, e.Kind, e.Err)
}

func (e *BulkWriteError) Unwrap() error { return e.Err }

// Collection is a handle on one named collection of a Store. It implements
// domain.Collection.
type Collection struct {
	store *Store
	name  string
}

var _ domain.Collection = (*Collection)(nil)

func (c *Collection) FindOne(ctx context.Context, filter bson.D, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.store.mu.RLock()
	defer c.store.mu.RUnlock()

	hits, err := c.state().find(filter, 1)
	if err != nil {
		return err
	}
	if len(hits) == 0 {
		return domain.ErrNotFound
	}
	return decodeDoc(hits[0].doc, out)
}

func (c *Collection) Find(ctx context.Context, filter bson.D, opts *domain.FindOptions) (domain.Cursor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts == nil {
		opts = &domain.FindOptions{}
	}

	c.store.mu.RLock()
	defer c.store.mu.RUnlock()

	hits, err := c.state().find(filter, 0)
	if err != nil {
		return nil, err
	}
	if err := sortHits(hits, opts.Sort); err != nil {
		return nil, err
	}
	hits = window(hits, opts.Skip, opts.Limit)

	docs := make([]bson.M, 0, len(hits))
	for _, h := range hits {
		doc, err := project(h.doc, opts.Projection, h.score)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return newCursor(docs), nil
}

func (c *Collection) Aggregate(ctx context.Context, pipeline []bson.D) (domain.Cursor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.store.mu.RLock()
	defer c.store.mu.RUnlock()

	docs, err := c.state().runPipeline(pipeline)
	if err != nil {
		return nil, err
	}
	return newCursor(docs), nil
}

func (c *Collection) InsertOne(ctx context.Context, doc any) (*domain.InsertResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	id, err := c.insertLocked(doc)
	if err != nil {
		return nil, err
	}
	return &domain.InsertResult{InsertedIDs: []any{id}, Acknowledged: true}, nil
}

// InsertMany inserts in order and stops at the first failure, returning
// the identifiers inserted so far alongside the error.
func (c *Collection) InsertMany(ctx context.Context, docs []any) (*domain.InsertResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, errors.New("must provide at least one element in input slice")
	}

	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	result := &domain.InsertResult{Acknowledged: true}
	for i, doc := range docs {
		id, err := c.insertLocked(doc)
		if err != nil {
			return result, &BulkWriteError{Index: i, Kind: domain.WriteInsertOne, Err: err}
		}
		result.InsertedIDs = append(result.InsertedIDs, id)
	}
	return result, nil
}

func (c *Collection) UpdateOne(ctx context.Context, filter, update bson.D, upsert bool) (*domain.UpdateResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	return c.updateLocked(filter, update, upsert, false)
}

func (c *Collection) UpdateMany(ctx context.Context, filter, update bson.D) (*domain.UpdateResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	return c.updateLocked(filter, update, false, true)
}

func (c *Collection) ReplaceOne(ctx context.Context, filter bson.D, replacement any) (*domain.UpdateResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	return c.replaceLocked(filter, replacement)
}

func (c *Collection) DeleteOne(ctx context.Context, filter bson.D) (*domain.DeleteResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	return c.deleteLocked(filter, false)
}

func (c *Collection) DeleteMany(ctx context.Context, filter bson.D) (*domain.DeleteResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	return c.deleteLocked(filter, true)
}

// BulkWrite applies models in submission order, each one seeing the effects
// of those before it. An ordered batch stops at the first failure; an
// unordered batch carries on and reports every failure. Either way the
// result counts what was applied.
func (c *Collection) BulkWrite(ctx context.Context, models []domain.WriteModel, ordered bool) (*domain.BulkResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, errors.New("must provide at least one element in input slice")
	}

	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	result := &domain.BulkResult{Acknowledged: true}
	var errs []error

	for i, model := range models {
		if err := c.applyModelLocked(model, result); err != nil {
			bwErr := &BulkWriteError{Index: i, Kind: model.Kind, Err: err}
			if ordered {
				return result, bwErr
			}
			errs = append(errs, bwErr)
		}
	}
	return result, errors.Join(errs...)
}

func (c *Collection) CreateTextIndex(ctx context.Context, name string, fields ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(fields) == 0 {
		return errors.New("text index requires at least one field")
	}

	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	coll := c.store.getOrCreateCollection(c.name)
	if coll.text != nil {
		if coll.text.Name == name && reflect.DeepEqual(coll.text.Fields, fields) {
			return nil
		}
		return fmt.Errorf("collection %s already has text index %s", c.name, coll.text.Name)
	}
	return c.store.createTextIndex(coll, name, fields)
}

// state returns the collection's in-memory state, or nil when nothing has
// been written to it yet. Callers hold the store lock.
func (c *Collection) state() *collection {
	return c.store.collections[c.name]
}

func (c *Collection) applyModelLocked(model domain.WriteModel, result *domain.BulkResult) error {
	switch model.Kind {
	case domain.WriteInsertOne:
		if _, err := c.insertLocked(model.Document); err != nil {
			return err
		}
		result.InsertedCount++
	case domain.WriteReplaceOne:
		res, err := c.replaceLocked(model.Filter, model.Document)
		if err != nil {
			return err
		}
		result.MatchedCount += res.MatchedCount
		result.ModifiedCount += res.ModifiedCount
	case domain.WriteUpdateOne, domain.WriteUpdateMany:
		res, err := c.updateLocked(model.Filter, model.Update, model.Upsert, model.Kind == domain.WriteUpdateMany)
		if err != nil {
			return err
		}
		result.MatchedCount += res.MatchedCount
		result.ModifiedCount += res.ModifiedCount
		result.UpsertedCount += res.UpsertedCount
	case domain.WriteDeleteOne, domain.WriteDeleteMany:
		res, err := c.deleteLocked(model.Filter, model.Kind == domain.WriteDeleteMany)
		if err != nil {
			return err
		}
		result.DeletedCount += res.DeletedCount
	default:
		return fmt.Errorf("unknown write model kind %d", model.Kind)
	}
	return nil
}

func (c *Collection) insertLocked(doc any) (string, error) {
	if doc == nil {
		return "", errors.New("document is nil")
	}
	m, err := canonical(doc)
	if err != nil {
		return "", err
	}

	id, ok, err := documentID(m)
	if err != nil {
		return "", err
	}
	if !ok {
		id = domain.NewID()
		m["_id"] = id
	}

	coll := c.store.getOrCreateCollection(c.name)
	if _, exists := coll.docs[id]; exists {
		return "", &DuplicateKeyError{Collection: c.name, ID: id}
	}
	if err := c.store.put(coll, id, m); err != nil {
		return "", err
	}
	return id, nil
}

func (c *Collection) updateLocked(filter, update bson.D, upsert, many bool) (*domain.UpdateResult, error) {
	limit := 1
	if many {
		limit = 0
	}

	hits, err := c.state().find(filter, limit)
	if err != nil {
		return nil, err
	}

	result := &domain.UpdateResult{Acknowledged: true}

	if len(hits) == 0 {
		if !upsert {
			return result, nil
		}
		seeded, err := applyUpdate(equalityFields(filter), update)
		if err != nil {
			return nil, err
		}
		id, err := c.insertLocked(seeded)
		if err != nil {
			return nil, err
		}
		result.UpsertedCount = 1
		result.UpsertedID = id
		return result, nil
	}

	coll := c.state()
	for _, h := range hits {
		updated, err := applyUpdate(h.doc, update)
		if err != nil {
			return result, err
		}
		updated, err = canonical(updated)
		if err != nil {
			return result, err
		}
		result.MatchedCount++
		if reflect.DeepEqual(h.doc, updated) {
			continue
		}
		if err := c.store.put(coll, h.id, updated); err != nil {
			return result, err
		}
		result.ModifiedCount++
	}
	return result, nil
}

func (c *Collection) replaceLocked(filter bson.D, replacement any) (*domain.UpdateResult, error) {
	if replacement == nil {
		return nil, errors.New("replacement document is nil")
	}
	doc, err := canonical(replacement)
	if err != nil {
		return nil, err
	}
	for key := range doc {
		if len(key) > 0 && key[0] == '$' {
			return nil, fmt.Errorf("replacement document must not contain update operators")
		}
	}

	hits, err := c.state().find(filter, 1)
	if err != nil {
		return nil, err
	}

	result := &domain.UpdateResult{Acknowledged: true}
	if len(hits) == 0 {
		return result, nil
	}

	h := hits[0]
	if id, ok, err := documentID(doc); err != nil {
		return nil, err
	} else if ok && id != h.id {
		return nil, fmt.Errorf("the _id field cannot be changed from {_id: %q} to {_id: %q}", h.id, id)
	}
	doc["_id"] = h.id

	result.MatchedCount = 1
	if reflect.DeepEqual(h.doc, doc) {
		return result, nil
	}
	if err := c.store.put(c.state(), h.id, doc); err != nil {
		return result, err
	}
	result.ModifiedCount = 1
	return result, nil
}

func (c *Collection) deleteLocked(filter bson.D, many bool) (*domain.DeleteResult, error) {
	limit := 1
	if many {
		limit = 0
	}

	hits, err := c.state().find(filter, limit)
	if err != nil {
		return nil, err
	}

	result := &domain.DeleteResult{Acknowledged: true}
	coll := c.state()
	for _, h := range hits {
		if err := c.store.remove(coll, h.id); err != nil {
			return result, err
		}
		result.DeletedCount++
	}
	return result, nil
}
