package memory

import (
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// applyUpdate returns a copy of doc with the update operators applied
func applyUpdate(doc bson.M, update bson.D) (bson.M, error) {
	if len(update) == 0 {
		return nil, fmt.Errorf("update document must not be empty")
	}

	out := cloneDoc(doc)
	for _, op := range update {
		switch op.Key {
		case "$set":
			fields, err := toDoc(op.Value)
			if err != nil {
				return nil, fmt.Errorf("$set: %w", err)
			}
			for _, f := range fields {
				if f.Key == "_id" {
					if current, ok := out["_id"]; ok && !valuesEqual(current, f.Value) {
						return nil, fmt.Errorf("performing an update on the path '_id' would modify the immutable field '_id'")
					}
				}
				out[f.Key] = f.Value
			}
		default:
			return nil, fmt.Errorf("unknown update operator: %s", op.Key)
		}
	}
	return out, nil
}

// project applies an inclusion or exclusion projection. Fields set to
// {$meta: "textScore"} receive score.
func project(doc bson.M, projection bson.D, score float64) (bson.M, error) {
	if len(projection) == 0 {
		return cloneDoc(doc), nil
	}

	includeID := true
	var include, exclude, meta []string
	for _, e := range projection {
		if isTextScoreMeta(e.Value) {
			meta = append(meta, e.Key)
			continue
		}
		if e.Key == "_id" {
			includeID = truthy(e.Value)
			continue
		}
		if truthy(e.Value) {
			include = append(include, e.Key)
		} else {
			exclude = append(exclude, e.Key)
		}
	}

	if len(include) > 0 && len(exclude) > 0 {
		return nil, fmt.Errorf("cannot mix inclusion and exclusion in a projection")
	}

	var out bson.M
	if len(include) > 0 {
		out = bson.M{}
		for _, f := range include {
			if v, ok := doc[f]; ok {
				out[f] = v
			}
		}
		if id, ok := doc["_id"]; ok && includeID {
			out["_id"] = id
		}
	} else {
		out = cloneDoc(doc)
		for _, f := range exclude {
			delete(out, f)
		}
	}

	if !includeID {
		delete(out, "_id")
	}
	for _, f := range meta {
		out[f] = score
	}
	return out, nil
}

func isTextScoreMeta(value any) bool {
	d, ok := operatorDoc(value)
	if !ok || len(d) != 1 || d[0].Key != "$meta" {
		return false
	}
	s, ok := d[0].Value.(string)
	return ok && s == "textScore"
}
