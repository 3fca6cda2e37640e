package memory

import (
	"encoding/binary"
	"fmt"
	"io"
)

const (
	// Magic bytes identifying a snapshot file
	snapshotMagic = "GUSR"
	// Current snapshot format version
	snapshotVersion = 1

	// flagCompressed marks an lz4 block-compressed payload. Payloads lz4
	// cannot shrink are stored raw.
	flagCompressed uint8 = 1 << 0
)

// fileHeader precedes the snapshot payload
type fileHeader struct {
	Magic    [4]byte // "GUSR"
	Version  uint8   // Format version
	Flags    uint8   // flagCompressed
	Reserved [2]byte
	RawSize  uint32 // size of the msgpack payload before compression
}

func writeHeader(w io.Writer, flags uint8, rawSize int) error {
	header := fileHeader{
		Magic:   [4]byte{'G', 'U', 'S', 'R'},
		Version: snapshotVersion,
		Flags:   flags,
		RawSize: uint32(rawSize),
	}
	return binary.Write(w, binary.LittleEndian, header)
}

func readHeader(r io.Reader) (*fileHeader, error) {
	var header fileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	if string(header.Magic[:]) != snapshotMagic {
		return nil, fmt.Errorf("invalid file format: expected %s, got %s", snapshotMagic, string(header.Magic[:]))
	}

	if header.Version != snapshotVersion {
		return nil, fmt.Errorf("unsupported file version: %d", header.Version)
	}

	return &header, nil
}

// snapshotData is the msgpack payload of a snapshot. Documents are kept
// bson encoded so their value types survive the round trip.
type snapshotData struct {
	LSN         int64                          `msgpack:"lsn"`
	Collections map[string]*collectionSnapshot `msgpack:"collections"`
}

type collectionSnapshot struct {
	Order     []string          `msgpack:"order"`
	Docs      map[string][]byte `msgpack:"docs"`
	TextIndex *textIndexDef    `msgpack:"text_index,omitempty"`
}

type textIndexDef struct {
	Name   string   `msgpack:"name"`
	Fields []string `msgpack:"fields"`
}
