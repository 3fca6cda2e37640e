package memory

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// cursor iterates a materialized result set. Documents are decoded through
// bson so callers see the same struct mapping as with a real store.
type cursor struct {
	docs    []bson.M
	pos     int
	current bson.M
	err     error
	closed  bool
}

func newCursor(docs []bson.M) *cursor {
	return &cursor{docs: docs}
}

func (c *cursor) Next(ctx context.Context) bool {
	if c.closed || c.err != nil || c.pos >= len(c.docs) {
		return false
	}
	if err := ctx.Err(); err != nil {
		c.err = err
		return false
	}
	c.current = c.docs[c.pos]
	c.pos++
	return true
}

func (c *cursor) Decode(val any) error {
	if c.current == nil {
		return errors.New("cursor has no current document")
	}
	return decodeDoc(c.current, val)
}

func (c *cursor) All(ctx context.Context, results any) error {
	rv := reflect.ValueOf(results)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("results argument must be a pointer to a slice, but was a %s", rv.Kind())
	}
	defer c.Close(ctx)

	slice := rv.Elem()
	slice.SetLen(0)
	elemType := slice.Type().Elem()
	for c.Next(ctx) {
		elem := reflect.New(elemType)
		if err := c.Decode(elem.Interface()); err != nil {
			return err
		}
		slice = reflect.Append(slice, elem.Elem())
	}
	rv.Elem().Set(slice)
	return c.err
}

func (c *cursor) Err() error {
	return c.err
}

func (c *cursor) Close(context.Context) error {
	c.closed = true
	c.docs = nil
	c.current = nil
	return nil
}

func decodeDoc(doc bson.M, val any) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	return bson.Unmarshal(raw, val)
}
