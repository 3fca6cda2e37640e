package mongostore

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.uber.org/zap"
)

// Config holds the connection settings
type Config struct {
	URI      string
	Database string
	// ConnectTimeout bounds the retried initial ping
	ConnectTimeout time.Duration
}

// Store owns the driver client
type Store struct {
	client   *mongo.Client
	database *mongo.Database
	log      *zap.SugaredLogger
}

// Connect opens a client and pings the primary until it answers or the
// connect timeout elapses.
func Connect(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("mongo URI is required")
	}
	if cfg.Database == "" {
		return nil, fmt.Errorf("database name is required")
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 30 * time.Second
	}

	log := zap.S().Named("mongo_store")

	client, err := mongo.Connect(options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}

	ping := func() (struct{}, error) {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return struct{}{}, client.Ping(pingCtx, readpref.Primary())
	}
	notify := func(err error, next time.Duration) {
		log.Warnw("mongo not reachable yet", "error", err, "retry_in", next)
	}

	_, err = backoff.Retry(ctx, ping,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxElapsedTime(cfg.ConnectTimeout),
		backoff.WithNotify(notify),
	)
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to reach mongo: %w", err)
	}

	log.Infow("connected to mongo", "database", cfg.Database)

	return &Store{
		client:   client,
		database: client.Database(cfg.Database),
		log:      log,
	}, nil
}

// Collection returns the named collection
func (s *Store) Collection(name string) *Collection {
	return &Collection{coll: s.database.Collection(name)}
}

// Close disconnects the client
func (s *Store) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect from mongo: %w", err)
	}
	s.log.Info("disconnected from mongo")
	return nil
}
