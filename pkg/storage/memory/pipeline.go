package memory

import (
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// runPipeline evaluates aggregation stages over the collection's documents
// in natural order.
func (c *collection) runPipeline(pipeline []bson.D) ([]bson.M, error) {
	var hits []hit
	if c != nil {
		hits = make([]hit, 0, len(c.order))
		for _, id := range c.order {
			hits = append(hits, hit{id: id, doc: c.docs[id]})
		}
	}

	for i, stage := range pipeline {
		if len(stage) != 1 {
			return nil, fmt.Errorf("stage %d: a pipeline stage must contain exactly one field", i)
		}
		var err error
		hits, err = c.runStage(stage[0], hits, i)
		if err != nil {
			return nil, fmt.Errorf("stage %d (%s): %w", i, stage[0].Key, err)
		}
	}

	out := make([]bson.M, len(hits))
	for i, h := range hits {
		out[i] = h.doc
	}
	return out, nil
}

func (c *collection) runStage(stage bson.E, hits []hit, position int) ([]hit, error) {
	switch stage.Key {
	case "$match":
		filter, err := toDoc(stage.Value)
		if err != nil {
			return nil, err
		}
		if _, isText, _ := textSearchOf(filter); isText && position != 0 {
			return nil, fmt.Errorf("$match with $text is only allowed as the first pipeline stage")
		}
		m, err := c.newMatcher(filter)
		if err != nil {
			return nil, err
		}
		var out []hit
		for _, h := range hits {
			ok, err := m.match(h.id, h.doc, filter)
			if err != nil {
				return nil, err
			}
			if ok {
				h.score = m.scores[h.id]
				out = append(out, h)
			}
		}
		return out, nil
	case "$group":
		stageDoc, err := toDoc(stage.Value)
		if err != nil {
			return nil, err
		}
		return groupStage(stageDoc, hits)
	case "$count":
		name, ok := stage.Value.(string)
		if !ok || name == "" || strings.HasPrefix(name, "$") {
			return nil, fmt.Errorf("the count field must be a non-empty string not starting with $")
		}
		if len(hits) == 0 {
			return nil, nil
		}
		return []hit{{doc: bson.M{name: int32(len(hits))}}}, nil
	case "$sort":
		stageDoc, err := toDoc(stage.Value)
		if err != nil {
			return nil, err
		}
		if err := sortHits(hits, stageDoc); err != nil {
			return nil, err
		}
		return hits, nil
	case "$skip", "$limit":
		n, ok := toFloat64(stage.Value)
		if !ok || n < 0 {
			return nil, fmt.Errorf("%s requires a non-negative number", stage.Key)
		}
		if stage.Key == "$skip" {
			return window(hits, int64(n), 0), nil
		}
		if n == 0 {
			return nil, fmt.Errorf("$limit must be positive")
		}
		return window(hits, 0, int64(n)), nil
	case "$project":
		stageDoc, err := toDoc(stage.Value)
		if err != nil {
			return nil, err
		}
		out := make([]hit, len(hits))
		for i, h := range hits {
			doc, err := project(h.doc, stageDoc, h.score)
			if err != nil {
				return nil, err
			}
			out[i] = hit{id: h.id, doc: doc, score: h.score}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unrecognized pipeline stage name: %s", stage.Key)
	}
}

// accumulator folds one output field of a $group stage
type accumulator struct {
	op      string
	expr    any
	sum     float64
	count   int64
	allInts bool
}

func (a *accumulator) add(doc bson.M) {
	value := evalExpr(doc, a.expr)
	n, ok := toFloat64(value)
	if !ok {
		return
	}
	if !isIntegral(value) {
		a.allInts = false
	}
	a.sum += n
	a.count++
}

func (a *accumulator) result() any {
	switch a.op {
	case "$avg":
		if a.count == 0 {
			return nil
		}
		return a.sum / float64(a.count)
	default:
		if a.allInts {
			return int64(a.sum)
		}
		return a.sum
	}
}

type group struct {
	key  any
	accs []*accumulator
	name []string
}

// groupStage buckets documents by the _id expression and folds $sum and
// $avg accumulators. Groups are emitted in order of first appearance.
func groupStage(stageDoc bson.D, hits []hit) ([]hit, error) {
	var keyExpr any
	hasKey := false
	type field struct {
		name string
		op   string
		expr any
	}
	var fields []field

	for _, e := range stageDoc {
		if e.Key == "_id" {
			keyExpr = e.Value
			hasKey = true
			continue
		}
		acc, err := toDoc(e.Value)
		if err != nil || len(acc) != 1 {
			return nil, fmt.Errorf("the field '%s' must be an accumulator object", e.Key)
		}
		switch acc[0].Key {
		case "$sum", "$avg":
		default:
			return nil, fmt.Errorf("unknown group operator '%s'", acc[0].Key)
		}
		fields = append(fields, field{name: e.Key, op: acc[0].Key, expr: acc[0].Value})
	}
	if !hasKey {
		return nil, fmt.Errorf("a $group stage must include an _id")
	}

	var groups []*group
	index := make(map[string]*group)
	for _, h := range hits {
		key := evalExpr(h.doc, keyExpr)
		bucket := fmt.Sprintf("%T:%v", key, key)
		g, ok := index[bucket]
		if !ok {
			g = &group{key: key}
			for _, f := range fields {
				g.accs = append(g.accs, &accumulator{op: f.op, expr: f.expr, allInts: true})
				g.name = append(g.name, f.name)
			}
			index[bucket] = g
			groups = append(groups, g)
		}
		for _, acc := range g.accs {
			acc.add(h.doc)
		}
	}

	out := make([]hit, 0, len(groups))
	for _, g := range groups {
		doc := bson.M{"_id": g.key}
		for i, acc := range g.accs {
			doc[g.name[i]] = acc.result()
		}
		out = append(out, hit{doc: doc})
	}
	return out, nil
}

// evalExpr resolves "$field" references against doc; anything else is a
// literal.
func evalExpr(doc bson.M, expr any) any {
	if s, ok := expr.(string); ok && strings.HasPrefix(s, "$") {
		return doc[strings.TrimPrefix(s, "$")]
	}
	return expr
}
