package memory

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// recoverFromDisk restores the snapshot and replays the write-ahead log on top of it
func (s *Store) recoverFromDisk() error {
	start := time.Now()

	snapshot, err := readSnapshot(s.snapshotPath())
	if err != nil {
		return fmt.Errorf("failed to load checkpoint: %w", err)
	}

	if snapshot != nil {
		if err := s.restoreSnapshot(snapshot); err != nil {
			return fmt.Errorf("failed to restore from checkpoint: %w", err)
		}
		s.log.Infow("restored from checkpoint", "lsn", snapshot.LSN, "collections", len(snapshot.Collections))
	}

	entries, torn, err := readWAL(s.walPath())
	if err != nil {
		return fmt.Errorf("failed to replay WAL entries: %w", err)
	}
	if torn {
		s.log.Warnw("ignoring torn record at the end of the WAL", "last_lsn", lastLSN(entries))
	}

	replayed := int64(0)
	for _, entry := range entries {
		if entry.LSN <= s.lsn {
			continue
		}
		if err := s.applyEntry(entry); err != nil {
			return fmt.Errorf("failed to replay LSN %d: %w", entry.LSN, err)
		}
		s.lsn = entry.LSN
		replayed++
	}

	elapsed := time.Since(start)
	s.updateStats(func(st *Stats) {
		st.RecoveryTime = elapsed
		st.RecoveredEntries = replayed
	})

	s.log.Infow("recovery completed", "replayed_entries", replayed, "duration", elapsed)
	return nil
}

func (s *Store) restoreSnapshot(snapshot *snapshotData) error {
	for name, snap := range snapshot.Collections {
		coll := s.getOrCreateCollection(name)
		for _, id := range snap.Order {
			raw, ok := snap.Docs[id]
			if !ok {
				return fmt.Errorf("document %s listed but missing in collection %s", id, name)
			}
			var doc bson.M
			if err := bson.Unmarshal(raw, &doc); err != nil {
				return fmt.Errorf("failed to decode document %s in collection %s: %w", id, name, err)
			}
			coll.put(id, doc)
		}
		if snap.TextIndex != nil {
			coll.buildTextIndex(snap.TextIndex.Name, snap.TextIndex.Fields)
		}
	}
	s.lsn = snapshot.LSN
	return nil
}

func (s *Store) applyEntry(entry *walEntry) error {
	coll := s.getOrCreateCollection(entry.Collection)

	switch entry.Op {
	case walPut:
		var doc bson.M
		if err := bson.Unmarshal(entry.Doc, &doc); err != nil {
			return fmt.Errorf("failed to decode document %s: %w", entry.ID, err)
		}
		coll.put(entry.ID, doc)
	case walDelete:
		coll.remove(entry.ID)
	case walCreateIndex:
		coll.buildTextIndex(entry.IndexName, entry.Fields)
	default:
		return fmt.Errorf("unknown WAL operation %d", entry.Op)
	}
	return nil
}
