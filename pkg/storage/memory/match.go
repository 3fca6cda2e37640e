package memory

import (
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
)

var errNoTextIndex = errors.New("text index required for $text query")

// matcher evaluates a filter against documents of one collection. Text
// scores are computed once per query when the filter uses $text.
type matcher struct {
	filter bson.D
	scores map[string]float64
}

// hit is a matched document with its text score
type hit struct {
	id    string
	doc   bson.M
	score float64
}

func (c *collection) newMatcher(filter bson.D) (*matcher, error) {
	m := &matcher{filter: filter}

	text, ok, err := textSearchOf(filter)
	if err != nil {
		return nil, err
	}
	if ok {
		if c == nil || c.text == nil {
			return nil, errNoTextIndex
		}
		m.scores = c.text.Search(text)
	}
	return m, nil
}

// textSearchOf finds a top-level $text clause
func textSearchOf(filter bson.D) (string, bool, error) {
	for _, e := range filter {
		if e.Key != "$text" {
			continue
		}
		opts, err := toDoc(e.Value)
		if err != nil {
			return "", false, fmt.Errorf("$text: %w", err)
		}
		for _, opt := range opts {
			if opt.Key == "$search" {
				s, ok := opt.Value.(string)
				if !ok {
					return "", false, fmt.Errorf("$search must be a string, got %T", opt.Value)
				}
				return s, true, nil
			}
		}
		return "", false, errors.New("$text requires $search")
	}
	return "", false, nil
}

// find returns the documents matching filter in natural order, stopping
// after limit hits when limit > 0.
func (c *collection) find(filter bson.D, limit int) ([]hit, error) {
	m, err := c.newMatcher(filter)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, nil
	}

	var hits []hit
	for _, id := range c.order {
		doc := c.docs[id]
		ok, err := m.match(id, doc, m.filter)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		hits = append(hits, hit{id: id, doc: doc, score: m.scores[id]})
		if limit > 0 && len(hits) == limit {
			break
		}
	}
	return hits, nil
}

func (m *matcher) match(id string, doc bson.M, filter bson.D) (bool, error) {
	for _, e := range filter {
		ok, err := m.matchElem(id, doc, e)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func (m *matcher) matchElem(id string, doc bson.M, e bson.E) (bool, error) {
	switch e.Key {
	case "$or", "$and":
		clauses, err := toList(e.Value)
		if err != nil {
			return false, fmt.Errorf("%s: %w", e.Key, err)
		}
		if len(clauses) == 0 {
			return false, fmt.Errorf("%s requires a non-empty array", e.Key)
		}
		for _, clause := range clauses {
			sub, err := toDoc(clause)
			if err != nil {
				return false, fmt.Errorf("%s: %w", e.Key, err)
			}
			ok, err := m.match(id, doc, sub)
			if err != nil {
				return false, err
			}
			if e.Key == "$or" && ok {
				return true, nil
			}
			if e.Key == "$and" && !ok {
				return false, nil
			}
		}
		return e.Key == "$and", nil
	case "$text":
		if m.scores == nil {
			return false, errNoTextIndex
		}
		_, ok := m.scores[id]
		return ok, nil
	}

	if strings.HasPrefix(e.Key, "$") {
		return false, fmt.Errorf("unknown top level operator: %s", e.Key)
	}

	actual, exists := doc[e.Key]
	if ops, ok := operatorDoc(e.Value); ok {
		for _, op := range ops {
			ok, err := matchOperator(actual, exists, op)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	}

	if !exists {
		return e.Value == nil, nil
	}
	return valuesEqual(actual, e.Value), nil
}

// operatorDoc reports whether value is an operator expression such as
// {$gt: 5} rather than a literal to compare against.
func operatorDoc(value any) (bson.D, bool) {
	var d bson.D
	switch value.(type) {
	case bson.D, bson.M, map[string]any:
		d, _ = toDoc(value)
	default:
		return nil, false
	}
	if len(d) == 0 {
		return nil, false
	}
	for _, e := range d {
		if !strings.HasPrefix(e.Key, "$") {
			return nil, false
		}
	}
	return d, true
}

func matchOperator(actual any, exists bool, op bson.E) (bool, error) {
	switch op.Key {
	case "$eq":
		if !exists {
			return op.Value == nil, nil
		}
		return valuesEqual(actual, op.Value), nil
	case "$ne":
		if !exists {
			return op.Value != nil, nil
		}
		return !valuesEqual(actual, op.Value), nil
	case "$gt", "$gte", "$lt", "$lte":
		if !exists {
			return false, nil
		}
		c, ok := compareValues(actual, op.Value)
		if !ok {
			return false, nil
		}
		switch op.Key {
		case "$gt":
			return c > 0, nil
		case "$gte":
			return c >= 0, nil
		case "$lt":
			return c < 0, nil
		default:
			return c <= 0, nil
		}
	case "$in":
		candidates, err := toList(op.Value)
		if err != nil {
			return false, fmt.Errorf("$in: %w", err)
		}
		for _, candidate := range candidates {
			if !exists && candidate == nil {
				return true, nil
			}
			if exists && valuesEqual(actual, candidate) {
				return true, nil
			}
		}
		return false, nil
	default:
		return false, fmt.Errorf("unknown operator: %s", op.Key)
	}
}

// equalityFields extracts the fields a filter pins to a single value. An
// upsert seeds the new document with them.
func equalityFields(filter bson.D) bson.M {
	seed := bson.M{}
	for _, e := range filter {
		if strings.HasPrefix(e.Key, "$") {
			continue
		}
		if ops, ok := operatorDoc(e.Value); ok {
			for _, op := range ops {
				if op.Key == "$eq" {
					seed[e.Key] = op.Value
				}
			}
			continue
		}
		seed[e.Key] = e.Value
	}
	return seed
}
