package query

import (
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Output field names produced by the aggregation pipelines
const (
	TotalField   = "total"
	CountField   = "count"
	AverageField = "average"
)

// CountAll counts every document. An empty collection yields no row.
func CountAll() []bson.D {
	return []bson.D{
		{{Key: "$count", Value: TotalField}},
	}
}

// CountBy groups documents by field and counts each group
func CountBy(field string) []bson.D {
	return []bson.D{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$" + field},
			{Key: CountField, Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
}

// AverageBy groups documents by groupField and averages valueField
func AverageBy(groupField, valueField string) []bson.D {
	return []bson.D{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$" + groupField},
			{Key: AverageField, Value: bson.D{{Key: "$avg", Value: "$" + valueField}}},
		}}},
	}
}
