package domain

// UserUpdate is a sparse patch of a User. A nil field means "leave the
// attribute unchanged"; a non-nil field is written even when it holds the
// zero value, so an explicit age of 0 or an empty email are valid targets.
type UserUpdate struct {
	Name       *string `json:"name,omitempty"`
	Email      *string `json:"email,omitempty"`
	Profession *string `json:"profession,omitempty"`
	Age        *int    `json:"age,omitempty"`
	Country    *string `json:"country,omitempty"`
}

// Ptr returns a pointer to v. Handy for building a UserUpdate.
func Ptr[T any](v T) *T {
	return &v
}

// IsEmpty reports whether the update carries no fields at all
func (u UserUpdate) IsEmpty() bool {
	return u.Name == nil && u.Email == nil && u.Profession == nil && u.Age == nil && u.Country == nil
}

// Validate checks the present fields against the record invariants.
// Name stays non-empty and age non-negative.
func (u UserUpdate) Validate() error {
	if u.Name != nil && *u.Name == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if u.Age != nil && *u.Age < 0 {
		return &ValidationError{Field: "age", Reason: "must not be negative"}
	}
	return nil
}
