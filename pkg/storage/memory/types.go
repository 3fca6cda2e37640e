package memory

import (
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"

	"github.com/adfharrison1/go-users/pkg/indexing"
)

// Durability is the guarantee given for a write once it returns
type Durability int

const (
	DurabilityNone Durability = iota // snapshot only, no write-ahead log
	DurabilityOS                     // logged to the OS page cache (default)
	DurabilityFull                   // logged and fsynced
)

// ParseDurability maps a config string onto a Durability
func ParseDurability(s string) (Durability, error) {
	switch s {
	case "none":
		return DurabilityNone, nil
	case "os", "":
		return DurabilityOS, nil
	case "full":
		return DurabilityFull, nil
	default:
		return DurabilityNone, fmt.Errorf("unknown durability level %q", s)
	}
}

// Store holds named collections of documents
type Store struct {
	// Configuration
	dataDir            string
	checkpointInterval time.Duration
	durability         Durability
	log                *zap.SugaredLogger

	// State, guarded by mu
	collections map[string]*collection
	wal         *walWriter
	lsn         int64
	mu          sync.RWMutex

	// Background workers
	backgroundWg sync.WaitGroup
	stopChan     chan struct{}
	stopOnce     sync.Once

	stats   Stats
	statsMu sync.Mutex
}

// Stats holds persistence counters
type Stats struct {
	WALEntriesWritten    int64
	WALBytesWritten      int64
	CheckpointsPerformed int64
	LastCheckpoint       time.Time
	RecoveryTime         time.Duration
	RecoveredEntries     int64
}

// collection is the in-memory state of one named collection. order keeps
// insertion order, which is the natural order of scans.
type collection struct {
	name  string
	docs  map[string]bson.M
	order []string
	text  *indexing.TextIndex
}

func newCollection(name string) *collection {
	return &collection{
		name: name,
		docs: make(map[string]bson.M),
	}
}
