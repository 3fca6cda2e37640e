package query

import (
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Field names of the persisted user document
const (
	FieldID         = "_id"
	FieldName       = "name"
	FieldEmail      = "email"
	FieldProfession = "profession"
	FieldAge        = "age"
	FieldCountry    = "country"
)

// Comparator is a store-level comparison operator
type Comparator string

const (
	GreaterThan    Comparator = "$gt"
	GreaterOrEqual Comparator = "$gte"
	LessThan       Comparator = "$lt"
	LessOrEqual    Comparator = "$lte"
)

// ByID matches the record with the given identifier
func ByID(id string) bson.D {
	return bson.D{{Key: FieldID, Value: id}}
}

// ByAge matches records whose age compares to threshold with cmp
func ByAge(threshold int, cmp Comparator) bson.D {
	return bson.D{{Key: FieldAge, Value: bson.D{{Key: string(cmp), Value: threshold}}}}
}

// ByCountry matches records from exactly the given country
func ByCountry(country string) bson.D {
	return bson.D{{Key: FieldCountry, Value: country}}
}

// ByAgeOrCountry is an inclusive filter: a record matches when its age is at
// most age OR its country equals country.
func ByAgeOrCountry(age int, country string) bson.D {
	return Or(ByAge(age, LessOrEqual), ByCountry(country))
}

// Or joins predicates with a logical OR
func Or(filters ...bson.D) bson.D {
	clauses := make(bson.A, 0, len(filters))
	for _, f := range filters {
		clauses = append(clauses, f)
	}
	return bson.D{{Key: "$or", Value: clauses}}
}

// All matches every document
func All() bson.D {
	return bson.D{}
}

// TextSearch matches documents against the collection's text index
func TextSearch(text string) bson.D {
	return bson.D{{Key: "$text", Value: bson.D{{Key: "$search", Value: text}}}}
}

// ByRelevance sorts text search results by descending text score
func ByRelevance() bson.D {
	return bson.D{{Key: "score", Value: bson.D{{Key: "$meta", Value: "textScore"}}}}
}

// Ascending sorts by field, smallest first
func Ascending(field string) bson.D {
	return bson.D{{Key: field, Value: 1}}
}

// Include projects only the given fields and drops the identifier
func Include(fields ...string) bson.D {
	proj := bson.D{{Key: FieldID, Value: 0}}
	for _, f := range fields {
		proj = append(proj, bson.E{Key: f, Value: 1})
	}
	return proj
}
