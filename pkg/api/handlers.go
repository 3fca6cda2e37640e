package api

import (
	"context"

	"go.uber.org/zap"

	"github.com/adfharrison1/go-users/pkg/domain"
	"github.com/adfharrison1/go-users/pkg/users"
)

// DefaultSeedFile is read by POST /usersFromFile when no seed file is configured
const DefaultSeedFile = "dummy_data/users.json"

// UserEngine is the engine surface the HTTP handlers call into.
// *users.Service implements it.
type UserEngine interface {
	GetByID(ctx context.Context, id string) (domain.User, error)
	FilterUsers(ctx context.Context, age int, country string) (*users.UserCursor, error)
	ListAll(ctx context.Context, page int) ([]domain.UserSummary, error)
	SearchUsers(ctx context.Context, text string, page int) ([]domain.User, error)
	Dashboard(ctx context.Context) (domain.Dashboard, error)
	InsertUser(ctx context.Context, user domain.User) (string, error)
	InsertUsers(ctx context.Context, users []domain.User) ([]string, error)
	SeedFromFile(ctx context.Context, path string) (int, error)
	ExecuteBulk(ctx context.Context, ops []domain.BulkOp) (domain.BulkTally, error)
	UpdateUser(ctx context.Context, id string, update domain.UserUpdate) (bool, error)
	ReplaceByID(ctx context.Context, user domain.User) (bool, error)
	UpdateManyNameWhereAgeGreaterThan(ctx context.Context, age int, name string) (bool, error)
	DeleteByID(ctx context.Context, id string) (int64, error)
	DeleteWhereAgeGreaterThan(ctx context.Context, age int) (int64, error)
	EnsureTextIndex(ctx context.Context) error
}

// Handler provides HTTP handlers for the users API
type Handler struct {
	users    UserEngine
	seedFile string
	log      *zap.SugaredLogger
}

// HandlerOption configures a Handler
type HandlerOption func(*Handler)

// WithSeedFile sets the file POST /usersFromFile loads
func WithSeedFile(path string) HandlerOption {
	return func(h *Handler) {
		if path != "" {
			h.seedFile = path
		}
	}
}

// NewHandler creates a new API handler with dependency injection
func NewHandler(engine UserEngine, options ...HandlerOption) *Handler {
	h := &Handler{
		users:    engine,
		seedFile: DefaultSeedFile,
		log:      zap.S().Named("api"),
	}
	for _, option := range options {
		option(h)
	}
	return h
}
