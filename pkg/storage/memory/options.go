package memory

import (
	"time"

	"go.uber.org/zap"
)

// Option configures the store
type Option func(*Store)

// WithDataDir enables persistence under dir. Without it the store is purely
// in memory.
func WithDataDir(dir string) Option {
	return func(s *Store) {
		s.dataDir = dir
	}
}

// WithCheckpointInterval sets how often the background checkpointer runs.
// Zero disables periodic checkpoints; Close still writes a final one.
func WithCheckpointInterval(interval time.Duration) Option {
	return func(s *Store) {
		s.checkpointInterval = interval
	}
}

// WithDurability sets the write-ahead log durability level
func WithDurability(level Durability) Option {
	return func(s *Store) {
		s.durability = level
	}
}

// WithLogger sets the logger used for recovery and checkpoint messages
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		s.log = logger.Sugar().Named("memory_store")
	}
}
