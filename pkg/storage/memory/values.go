package memory

import (
	"fmt"
	"reflect"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// toFloat64 converts the numeric types bson and Go callers produce
func toFloat64(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	default:
		return 0, false
	}
}

func isIntegral(value any) bool {
	switch value.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	default:
		return false
	}
}

// valuesEqual compares two values the way the store's equality match does:
// numbers by value regardless of width, everything else exactly.
func valuesEqual(actual, expected any) bool {
	if actual == nil || expected == nil {
		return actual == nil && expected == nil
	}

	if a, ok := toFloat64(actual); ok {
		if e, ok := toFloat64(expected); ok {
			return a == e
		}
		return false
	}

	if a, ok := actual.(string); ok {
		e, ok := expected.(string)
		return ok && a == e
	}

	return reflect.DeepEqual(actual, expected)
}

// typeRank orders values of different kinds for sorting:
// missing/null < numbers < strings < other < booleans
func typeRank(value any) int {
	if value == nil {
		return 0
	}
	if _, ok := toFloat64(value); ok {
		return 1
	}
	switch value.(type) {
	case string:
		return 2
	case bool:
		return 4
	default:
		return 3
	}
}

// compareValues returns -1, 0 or 1. comparable is false when the two values
// are of kinds that range operators cannot compare.
func compareValues(a, b any) (result int, comparable bool) {
	if af, ok := toFloat64(a); ok {
		bf, ok := toFloat64(b)
		if !ok {
			return 0, false
		}
		switch {
		case af < bf:
			return -1, true
		case af > bf:
			return 1, true
		default:
			return 0, true
		}
	}

	if as, ok := a.(string); ok {
		bs, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(as, bs), true
	}

	return 0, false
}

// sortCompare imposes a total order across kinds for $sort
func sortCompare(a, b any) int {
	ra, rb := typeRank(a), typeRank(b)
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}
	if c, ok := compareValues(a, b); ok {
		return c
	}
	if ab, ok := a.(bool); ok {
		bb := b.(bool)
		switch {
		case ab == bb:
			return 0
		case !ab:
			return -1
		default:
			return 1
		}
	}
	return 0
}

// toDoc accepts the document shapes callers build expressions with
func toDoc(value any) (bson.D, error) {
	switch v := value.(type) {
	case bson.D:
		return v, nil
	case bson.M:
		return mapToDoc(v), nil
	case map[string]any:
		return mapToDoc(v), nil
	default:
		return nil, fmt.Errorf("expected a document, got %T", value)
	}
}

func mapToDoc(m map[string]any) bson.D {
	d := make(bson.D, 0, len(m))
	for k, v := range m {
		d = append(d, bson.E{Key: k, Value: v})
	}
	return d
}

// toList accepts the array shapes callers build expressions with
func toList(value any) ([]any, error) {
	switch v := value.(type) {
	case bson.A:
		return v, nil
	case []any:
		return v, nil
	case []bson.D:
		out := make([]any, len(v))
		for i := range v {
			out[i] = v[i]
		}
		return out, nil
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("expected an array, got %T", value)
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, nil
}

// truthy interprets projection and flag values: non-zero numbers and true
func truthy(value any) bool {
	if b, ok := value.(bool); ok {
		return b
	}
	if f, ok := toFloat64(value); ok {
		return f != 0
	}
	return false
}

// canonical round-trips doc through bson so stored values have the types a
// real store would hand back.
func canonical(doc any) (bson.M, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	var out bson.M
	if err := bson.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return out, nil
}

func cloneDoc(doc bson.M) bson.M {
	out := make(bson.M, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}

// documentID reads the string identifier of doc. ok is false when the
// document has no usable identifier yet.
func documentID(doc bson.M) (id string, ok bool, err error) {
	value, exists := doc["_id"]
	if !exists || value == nil {
		return "", false, nil
	}
	switch v := value.(type) {
	case string:
		if v == "" {
			return "", false, nil
		}
		return v, true, nil
	default:
		return "", false, fmt.Errorf("unsupported _id type %T: identifiers must be strings", value)
	}
}
