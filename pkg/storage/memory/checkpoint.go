package memory

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pierrec/lz4/v4"
	"github.com/vmihailenco/msgpack/v5"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// runCheckpoints is the background checkpoint worker
func (s *Store) runCheckpoints() {
	defer s.backgroundWg.Done()

	ticker := time.NewTicker(s.checkpointInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.Checkpoint(); err != nil {
				s.log.Errorw("checkpoint failed", "error", err)
			}
		case <-s.stopChan:
			return
		}
	}
}

// Checkpoint writes a snapshot of every collection and truncates the
// write-ahead log. It is a no-op for a store without a data directory.
func (s *Store) Checkpoint() error {
	if !s.persistent() {
		return nil
	}

	start := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.buildSnapshot()
	if err != nil {
		return err
	}

	if err := writeSnapshot(s.snapshotPath(), data); err != nil {
		return fmt.Errorf("failed to write checkpoint: %w", err)
	}

	if s.wal != nil {
		if err := s.wal.reset(); err != nil {
			return err
		}
	}

	now := time.Now()
	s.updateStats(func(st *Stats) {
		st.CheckpointsPerformed++
		st.LastCheckpoint = now
	})

	s.log.Debugw("checkpoint completed", "lsn", data.LSN, "collections", len(data.Collections), "duration", time.Since(start))
	return nil
}

func (s *Store) buildSnapshot() (*snapshotData, error) {
	data := &snapshotData{
		LSN:         s.lsn,
		Collections: make(map[string]*collectionSnapshot, len(s.collections)),
	}

	for name, coll := range s.collections {
		snap := &collectionSnapshot{
			Order: append([]string(nil), coll.order...),
			Docs:  make(map[string][]byte, len(coll.docs)),
		}
		for id, doc := range coll.docs {
			raw, err := bson.Marshal(doc)
			if err != nil {
				return nil, fmt.Errorf("failed to encode document %s in collection %s: %w", id, name, err)
			}
			snap.Docs[id] = raw
		}
		if coll.text != nil {
			snap.TextIndex = &textIndexDef{Name: coll.text.Name, Fields: coll.text.Fields}
		}
		data.Collections[name] = snap
	}

	return data, nil
}

// writeSnapshot encodes data and atomically replaces the snapshot at path
func writeSnapshot(path string, data *snapshotData) error {
	payload, err := msgpack.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode MessagePack: %w", err)
	}

	flags := uint8(0)
	body := payload
	compressed := make([]byte, lz4.CompressBlockBound(len(payload)))
	var hashTable [1 << 16]int
	n, err := lz4.CompressBlock(payload, compressed, hashTable[:])
	if err != nil {
		return fmt.Errorf("failed to compress data: %w", err)
	}
	if n > 0 && n < len(payload) {
		flags |= flagCompressed
		body = compressed[:n]
	}

	var buf bytes.Buffer
	if err := writeHeader(&buf, flags, len(payload)); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	buf.Write(body)

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}

// readSnapshot loads the snapshot at path, returning nil when none exists
func readSnapshot(path string) (*snapshotData, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	header, err := readHeader(file)
	if err != nil {
		return nil, fmt.Errorf("invalid file header: %w", err)
	}

	body, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot body: %w", err)
	}

	payload := body
	if header.Flags&flagCompressed != 0 {
		payload = make([]byte, header.RawSize)
		n, err := lz4.UncompressBlock(body, payload)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress data: %w", err)
		}
		payload = payload[:n]
	}

	var data snapshotData
	if err := msgpack.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("failed to decode MessagePack: %w", err)
	}
	return &data, nil
}
