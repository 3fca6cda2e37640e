package users

import (
	"context"

	"github.com/adfharrison1/go-users/pkg/domain"
)

// UserCursor is a lazy, forward-only sequence of users. It holds the store
// cursor open until Close or exhaustion; a finished sequence can only be
// restarted by issuing the query again.
type UserCursor struct {
	cur     domain.Cursor
	current domain.User
	err     error
}

func newUserCursor(cur domain.Cursor) *UserCursor {
	return &UserCursor{cur: cur}
}

// Next advances to the next user, returning false at the end of the
// sequence or on error
func (c *UserCursor) Next(ctx context.Context) bool {
	if c.err != nil || !c.cur.Next(ctx) {
		return false
	}

	var entity domain.UserEntity
	if err := c.cur.Decode(&entity); err != nil {
		c.err = domain.NewStoreError("decode", err)
		return false
	}
	c.current = entity.ToUser()
	return true
}

// User returns the user Next advanced to
func (c *UserCursor) User() domain.User {
	return c.current
}

// Err returns the first error hit while iterating
func (c *UserCursor) Err() error {
	if c.err != nil {
		return c.err
	}
	return domain.NewStoreError("cursor", c.cur.Err())
}

// Close releases the store cursor
func (c *UserCursor) Close(ctx context.Context) error {
	return domain.NewStoreError("cursor close", c.cur.Close(ctx))
}

// All drains the rest of the sequence and closes it
func (c *UserCursor) All(ctx context.Context) ([]domain.User, error) {
	defer c.Close(ctx)

	users := []domain.User{}
	for c.Next(ctx) {
		users = append(users, c.User())
	}
	return users, c.Err()
}
