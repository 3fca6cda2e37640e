package domain

import "fmt"

// BulkOpKind tags the payload carried by a BulkOp
type BulkOpKind uint8

const (
	BulkInsert BulkOpKind = iota + 1
	BulkReplace
	BulkUpdate
	BulkDelete
)

var bulkOpKindNames = map[BulkOpKind]string{
	BulkInsert:  "insert",
	BulkReplace: "replace",
	BulkUpdate:  "update",
	BulkDelete:  "delete",
}

func (k BulkOpKind) String() string {
	if name, ok := bulkOpKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("BulkOpKind(%d)", uint8(k))
}

// MarshalText implements encoding.TextMarshaler
func (k BulkOpKind) MarshalText() ([]byte, error) {
	if _, ok := bulkOpKindNames[k]; !ok {
		return nil, fmt.Errorf("unknown bulk operation kind %d", uint8(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (k *BulkOpKind) UnmarshalText(text []byte) error {
	for kind, name := range bulkOpKindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return &ValidationError{Field: "kind", Reason: fmt.Sprintf("unknown bulk operation %q", string(text))}
}

// BulkOp is one entry of a bulk operation set. Which fields are read depends
// on Kind:
//
//	insert:  User
//	replace: ID, User
//	update:  ID, Update
//	delete:  ID, or AgeGreaterThan when ID is empty
type BulkOp struct {
	Kind           BulkOpKind `json:"kind"`
	ID             string     `json:"id,omitempty"`
	User           User       `json:"user,omitempty"`
	Update         UserUpdate `json:"update,omitempty"`
	AgeGreaterThan *int       `json:"ageGreaterThan,omitempty"`
}

func InsertOp(u User) BulkOp {
	return BulkOp{Kind: BulkInsert, User: u}
}

func ReplaceOp(id string, u User) BulkOp {
	return BulkOp{Kind: BulkReplace, ID: id, User: u}
}

func UpdateOp(id string, update UserUpdate) BulkOp {
	return BulkOp{Kind: BulkUpdate, ID: id, Update: update}
}

func DeleteOp(id string) BulkOp {
	return BulkOp{Kind: BulkDelete, ID: id}
}

func DeleteWhereAgeGreaterThanOp(age int) BulkOp {
	return BulkOp{Kind: BulkDelete, AgeGreaterThan: &age}
}

// BulkTally reports what the store actually applied for a bulk operation set
type BulkTally struct {
	Inserted int64 `json:"inserted"`
	Updated  int64 `json:"updated"`
	Deleted  int64 `json:"deleted"`
	Matched  int64 `json:"matched"`
	Upserted int64 `json:"upserted"`
}
