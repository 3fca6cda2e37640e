package query

import (
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/adfharrison1/go-users/pkg/domain"
)

// SparseUpdate builds a $set expression holding only the fields present in
// update. It returns domain.ErrEmptyUpdate when nothing is present.
func SparseUpdate(update domain.UserUpdate) (bson.D, error) {
	var fields bson.D
	if update.Name != nil {
		fields = append(fields, bson.E{Key: FieldName, Value: *update.Name})
	}
	if update.Email != nil {
		fields = append(fields, bson.E{Key: FieldEmail, Value: *update.Email})
	}
	if update.Profession != nil {
		fields = append(fields, bson.E{Key: FieldProfession, Value: *update.Profession})
	}
	if update.Age != nil {
		fields = append(fields, bson.E{Key: FieldAge, Value: *update.Age})
	}
	if update.Country != nil {
		fields = append(fields, bson.E{Key: FieldCountry, Value: *update.Country})
	}

	if len(fields) == 0 {
		return nil, domain.ErrEmptyUpdate
	}
	return Set(fields), nil
}

// Set wraps fields in a $set operator
func Set(fields bson.D) bson.D {
	return bson.D{{Key: "$set", Value: fields}}
}

// SetName overwrites the name field
func SetName(name string) bson.D {
	return Set(bson.D{{Key: FieldName, Value: name}})
}
