package domain

import (
	"go.mongodb.org/mongo-driver/v2/bson"
)

// User is a user record as exposed to callers
type User struct {
	ID         string `json:"id,omitempty"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Profession string `json:"profession"`
	Age        int    `json:"age"`
	Country    string `json:"country"`
}

// UserEntity is the persisted form of a User. Its identifier is the hex form
// of a store-assigned ObjectID.
type UserEntity struct {
	ID         string `bson:"_id"`
	Name       string `bson:"name"`
	Email      string `bson:"email"`
	Profession string `bson:"profession"`
	Age        int    `bson:"age"`
	Country    string `bson:"country"`
}

// UserSummary is the projected view returned by paginated listings.
// It never carries the identifier.
type UserSummary struct {
	Name string `json:"name" bson:"name"`
	Age  int    `json:"age" bson:"age"`
}

// NewID returns a fresh identifier from the store's ObjectID scheme
func NewID() string {
	return bson.NewObjectID().Hex()
}

// ToEntity converts the record into its persisted form, assigning a new
// identifier when the record does not carry one.
func (u User) ToEntity() UserEntity {
	id := u.ID
	if id == "" {
		id = NewID()
	}
	return UserEntity{
		ID:         id,
		Name:       u.Name,
		Email:      u.Email,
		Profession: u.Profession,
		Age:        u.Age,
		Country:    u.Country,
	}
}

// ToUser converts the persisted form back into a record
func (e UserEntity) ToUser() User {
	return User{
		ID:         e.ID,
		Name:       e.Name,
		Email:      e.Email,
		Profession: e.Profession,
		Age:        e.Age,
		Country:    e.Country,
	}
}

// Validate checks the attribute invariants of a full record
func (u User) Validate() error {
	if u.Name == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if u.Age < 0 {
		return &ValidationError{Field: "age", Reason: "must not be negative"}
	}
	return nil
}
