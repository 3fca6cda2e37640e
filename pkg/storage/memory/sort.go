package memory

import (
	"fmt"
	"sort"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type sortKey struct {
	field     string
	textScore bool
	direction int
}

func parseSort(order bson.D) ([]sortKey, error) {
	keys := make([]sortKey, 0, len(order))
	for _, e := range order {
		if isTextScoreMeta(e.Value) {
			keys = append(keys, sortKey{field: e.Key, textScore: true, direction: -1})
			continue
		}
		dir, ok := toFloat64(e.Value)
		if !ok || (dir != 1 && dir != -1) {
			return nil, fmt.Errorf("invalid sort direction for %s: %v", e.Key, e.Value)
		}
		keys = append(keys, sortKey{field: e.Key, direction: int(dir)})
	}
	return keys, nil
}

// sortHits orders hits by a sort document. The sort is stable, so ties keep natural
// order.
func sortHits(hits []hit, order bson.D) error {
	if len(order) == 0 {
		return nil
	}
	keys, err := parseSort(order)
	if err != nil {
		return err
	}

	sort.SliceStable(hits, func(i, j int) bool {
		for _, k := range keys {
			var c int
			if k.textScore {
				c = sortCompare(hits[i].score, hits[j].score)
			} else {
				c = sortCompare(hits[i].doc[k.field], hits[j].doc[k.field])
			}
			if c != 0 {
				return c*k.direction < 0
			}
		}
		return false
	})
	return nil
}

// window applies skip and limit. A negative skip is treated as zero.
func window(hits []hit, skip, limit int64) []hit {
	if skip < 0 {
		skip = 0
	}
	if skip >= int64(len(hits)) {
		return nil
	}
	hits = hits[skip:]
	if limit > 0 && limit < int64(len(hits)) {
		hits = hits[:limit]
	}
	return hits
}
