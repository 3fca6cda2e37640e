package users

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/adfharrison1/go-users/pkg/domain"
)

// LoadUsers reads a JSON array of users from path
func LoadUsers(path string) ([]domain.User, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var users []domain.User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, &domain.ValidationError{Field: "seed file", Reason: err.Error()}
	}
	return users, nil
}

// SeedFromFile inserts every user listed in the JSON file at path and
// returns how many were inserted
func (s *Service) SeedFromFile(ctx context.Context, path string) (int, error) {
	users, err := LoadUsers(path)
	if err != nil {
		return 0, err
	}

	ids, err := s.InsertUsers(ctx, users)
	if err != nil {
		return len(ids), err
	}
	s.log.Debugw("seeded users from file", "path", path, "count", len(ids))
	return len(ids), nil
}
