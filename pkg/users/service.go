package users

import (
	"go.uber.org/zap"

	"github.com/adfharrison1/go-users/pkg/domain"
)

// TextIndexName is the name of the text index searchUsers relies on
const TextIndexName = "users_text"

// TextIndexFields are the attributes covered by the text index
var TextIndexFields = []string{"name", "profession", "country"}

// Service is the user query and mutation engine
type Service struct {
	coll domain.Collection
	log  *zap.SugaredLogger
}

// Option configures a Service
type Option func(*Service)

// WithLogger sets the logger used for debug tracing
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.log = logger.Sugar().Named("users")
		}
	}
}

// NewService creates an engine over coll
func NewService(coll domain.Collection, options ...Option) *Service {
	s := &Service{
		coll: coll,
		log:  zap.S().Named("users"),
	}
	for _, option := range options {
		option(s)
	}
	return s
}
