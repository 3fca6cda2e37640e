package memory

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"os"

	"github.com/vmihailenco/msgpack/v5"
)

// walOp is the kind of change recorded by a WAL entry
type walOp uint8

const (
	walPut walOp = iota + 1
	walDelete
	walCreateIndex
)

// walEntry records the state after a change rather than the operation that
// caused it, so replay never re-evaluates filters or updates.
type walEntry struct {
	LSN        int64    `msgpack:"lsn"`
	Timestamp  int64    `msgpack:"ts"`
	Op         walOp    `msgpack:"op"`
	Collection string   `msgpack:"coll"`
	ID         string   `msgpack:"id,omitempty"`
	Doc        []byte   `msgpack:"doc,omitempty"` // bson encoded
	IndexName  string   `msgpack:"index,omitempty"`
	Fields     []string `msgpack:"fields,omitempty"`
}

// Each record is framed as: uint32 payload length | uint32 crc32 | payload
const walFrameHeaderSize = 8

type walWriter struct {
	path       string
	file       *os.File
	durability Durability
}

func openWAL(path string, durability Durability) (*walWriter, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open WAL file: %w", err)
	}
	return &walWriter{path: path, file: file, durability: durability}, nil
}

// append writes one framed entry and returns the number of bytes written
func (w *walWriter) append(entry *walEntry) (int, error) {
	payload, err := msgpack.Marshal(entry)
	if err != nil {
		return 0, fmt.Errorf("failed to encode WAL entry: %w", err)
	}

	frame := make([]byte, walFrameHeaderSize+len(payload))
	binary.LittleEndian.PutUint32(frame[0:4], uint32(len(payload)))
	binary.LittleEndian.PutUint32(frame[4:8], crc32.ChecksumIEEE(payload))
	copy(frame[walFrameHeaderSize:], payload)

	n, err := w.file.Write(frame)
	if err != nil {
		return n, fmt.Errorf("failed to write WAL entry: %w", err)
	}

	if w.durability == DurabilityFull {
		if err := w.file.Sync(); err != nil {
			return n, fmt.Errorf("failed to sync WAL: %w", err)
		}
	}
	return n, nil
}

// reset truncates the log after a checkpoint made its entries redundant
func (w *walWriter) reset() error {
	if err := w.file.Close(); err != nil {
		return fmt.Errorf("failed to close WAL file: %w", err)
	}

	file, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to truncate WAL file: %w", err)
	}
	w.file = file
	return nil
}

func (w *walWriter) close() error {
	return w.file.Close()
}

// readWAL returns every intact entry in the log. A torn final record, left
// by a crash mid-write, ends the log; corruption before the tail is an error.
func readWAL(path string) (entries []*walEntry, torn bool, err error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to open WAL file: %w", err)
	}
	defer file.Close()

	reader := bufio.NewReader(file)
	header := make([]byte, walFrameHeaderSize)

	for {
		if _, err := io.ReadFull(reader, header); err != nil {
			if errors.Is(err, io.EOF) {
				return entries, false, nil
			}
			if errors.Is(err, io.ErrUnexpectedEOF) {
				return entries, true, nil
			}
			return nil, false, fmt.Errorf("failed to read WAL header: %w", err)
		}

		size := binary.LittleEndian.Uint32(header[0:4])
		checksum := binary.LittleEndian.Uint32(header[4:8])

		payload := make([]byte, size)
		if _, err := io.ReadFull(reader, payload); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return entries, true, nil
			}
			return nil, false, fmt.Errorf("failed to read WAL entry: %w", err)
		}

		if crc32.ChecksumIEEE(payload) != checksum {
			if _, err := reader.Peek(1); errors.Is(err, io.EOF) {
				return entries, true, nil
			}
			return nil, false, fmt.Errorf("checksum verification failed after LSN %d", lastLSN(entries))
		}

		var entry walEntry
		if err := msgpack.Unmarshal(payload, &entry); err != nil {
			return nil, false, fmt.Errorf("failed to decode WAL entry: %w", err)
		}
		entries = append(entries, &entry)
	}
}

func lastLSN(entries []*walEntry) int64 {
	if len(entries) == 0 {
		return 0
	}
	return entries[len(entries)-1].LSN
}
