package memory

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"

	"github.com/adfharrison1/go-users/pkg/indexing"
)

const (
	walFileName      = "wal.log"
	snapshotFileName = "snapshot.gusr"
)

// Open creates a store and, when a data directory is configured, recovers
// its previous state from disk.
func Open(options ...Option) (*Store, error) {
	s := &Store{
		collections:        make(map[string]*collection),
		checkpointInterval: 30 * time.Second,
		durability:         DurabilityOS,
		log:                zap.S().Named("memory_store"),
		stopChan:           make(chan struct{}),
	}

	for _, option := range options {
		option(s)
	}

	if !s.persistent() {
		return s, nil
	}

	if err := os.MkdirAll(s.dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	if err := s.recoverFromDisk(); err != nil {
		return nil, fmt.Errorf("recovery failed: %w", err)
	}

	if s.durability != DurabilityNone {
		wal, err := openWAL(s.walPath(), s.durability)
		if err != nil {
			return nil, err
		}
		s.wal = wal
	}

	return s, nil
}

// Start launches the background checkpointer
func (s *Store) Start() {
	if !s.persistent() || s.checkpointInterval <= 0 {
		return
	}
	s.backgroundWg.Add(1)
	go s.runCheckpoints()
}

// Close stops background work, writes a final checkpoint and releases the
// write-ahead log.
func (s *Store) Close() error {
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})
	s.backgroundWg.Wait()

	if !s.persistent() {
		return nil
	}

	var errs []error
	if err := s.Checkpoint(); err != nil {
		errs = append(errs, err)
	}

	s.mu.Lock()
	if s.wal != nil {
		if err := s.wal.close(); err != nil {
			errs = append(errs, err)
		}
		s.wal = nil
	}
	s.mu.Unlock()

	return errors.Join(errs...)
}

// Collection returns a handle on the named collection. The collection is
// created on first write.
func (s *Store) Collection(name string) *Collection {
	return &Collection{store: s, name: name}
}

// Stats returns a copy of the persistence counters
func (s *Store) Stats() Stats {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	return s.stats
}

// DocumentCount returns the number of documents across all collections
func (s *Store) DocumentCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0
	for _, coll := range s.collections {
		total += len(coll.docs)
	}
	return total
}

func (s *Store) persistent() bool {
	return s.dataDir != ""
}

func (s *Store) walPath() string {
	return filepath.Join(s.dataDir, walFileName)
}

func (s *Store) snapshotPath() string {
	return filepath.Join(s.dataDir, snapshotFileName)
}

func (s *Store) updateStats(fn func(*Stats)) {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	fn(&s.stats)
}

// Private methods below expect s.mu to be held for writing.

func (s *Store) getOrCreateCollection(name string) *collection {
	if coll, ok := s.collections[name]; ok {
		return coll
	}
	coll := newCollection(name)
	s.collections[name] = coll
	return coll
}

func (s *Store) logEntry(entry *walEntry) error {
	s.lsn++
	entry.LSN = s.lsn
	entry.Timestamp = time.Now().UnixNano()

	if s.wal == nil {
		return nil
	}

	n, err := s.wal.append(entry)
	if err != nil {
		return fmt.Errorf("failed to write WAL entry: %w", err)
	}

	s.updateStats(func(st *Stats) {
		st.WALEntriesWritten++
		st.WALBytesWritten += int64(n)
	})
	return nil
}

// put logs and stores doc under id
func (s *Store) put(coll *collection, id string, doc bson.M) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document %s: %w", id, err)
	}

	if err := s.logEntry(&walEntry{Op: walPut, Collection: coll.name, ID: id, Doc: raw}); err != nil {
		return err
	}

	coll.put(id, doc)
	return nil
}

// remove logs and deletes the document stored under id
func (s *Store) remove(coll *collection, id string) error {
	if err := s.logEntry(&walEntry{Op: walDelete, Collection: coll.name, ID: id}); err != nil {
		return err
	}

	coll.remove(id)
	return nil
}

func (s *Store) createTextIndex(coll *collection, name string, fields []string) error {
	if err := s.logEntry(&walEntry{Op: walCreateIndex, Collection: coll.name, IndexName: name, Fields: fields}); err != nil {
		return err
	}

	coll.buildTextIndex(name, fields)
	return nil
}

func (c *collection) put(id string, doc bson.M) {
	old, exists := c.docs[id]
	if !exists {
		c.order = append(c.order, id)
	}
	c.docs[id] = doc

	if c.text != nil {
		c.text.Update(id, old, doc)
	}
}

func (c *collection) remove(id string) {
	old, exists := c.docs[id]
	if !exists {
		return
	}
	delete(c.docs, id)

	for i, docID := range c.order {
		if docID == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}

	if c.text != nil {
		c.text.Remove(id, old)
	}
}

func (c *collection) buildTextIndex(name string, fields []string) {
	c.text = indexing.NewTextIndex(name, fields...)
	for _, id := range c.order {
		c.text.Add(id, c.docs[id])
	}
}
