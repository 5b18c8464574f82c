// Package gossipstore reads Core Lightning gossip_store files sequentially.
package gossipstore

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
)

// Record flag bits, from Core Lightning's gossip_store header.
const (
	FlagDeleted   = 0x8000
	FlagPush      = 0x4000
	FlagRateLimit = 0x2000
	FlagZombie    = 0x1000
	FlagDying     = 0x0800
)

// majorVersionMask extracts the major version from the top 3 bits of the
// version byte; only major 0 is readable.
const majorVersionMask = 0xE0

const headerSize = 12

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// Record is a single framed store entry.
type Record struct {
	Flags     uint16
	Timestamp uint32
	Raw       []byte
	// Offset of the record header within the file.
	Offset uint64
}

func (r *Record) Deleted() bool { return r.Flags&FlagDeleted != 0 }
func (r *Record) Zombie() bool  { return r.Flags&FlagZombie != 0 }
func (r *Record) Dying() bool   { return r.Flags&FlagDying != 0 }

// Reader iterates over a gossip_store stream. It validates the version byte
// on construction and each record's crc32c on read.
type Reader struct {
	r       *bufio.Reader
	offset  uint64
	version byte
}

// NewReader wraps r and consumes the leading version byte.
func NewReader(r io.Reader) (*Reader, error) {
	reader := &Reader{r: bufio.NewReader(r)}
	version, err := reader.r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("failed to read gossip_store version: %w", err)
	}
	if version&majorVersionMask != 0 {
		return nil, fmt.Errorf("unsupported gossip_store major version in byte %#x", version)
	}
	reader.version = version
	reader.offset = 1
	return reader, nil
}

// Version returns the store version byte.
func (r *Reader) Version() byte { return r.version }

// Offset returns the file offset of the next record header.
func (r *Reader) Offset() uint64 { return r.offset }

// Next returns the next record, including deleted and zombie entries.
// io.EOF signals a clean end of the store.
func (r *Reader) Next() (*Record, error) {
	header := make([]byte, headerSize)
	if _, err := io.ReadFull(r.r, header); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("truncated record header at offset %d: %w", r.offset, err)
	}

	record := &Record{
		Flags:     binary.BigEndian.Uint16(header[0:2]),
		Timestamp: binary.BigEndian.Uint32(header[8:12]),
		Offset:    r.offset,
	}
	length := binary.BigEndian.Uint16(header[2:4])
	checksum := binary.BigEndian.Uint32(header[4:8])

	record.Raw = make([]byte, length)
	if _, err := io.ReadFull(r.r, record.Raw); err != nil {
		return nil, fmt.Errorf("truncated record payload at offset %d: %w", r.offset, err)
	}

	// The stored crc32c is seeded with the record timestamp.
	if actual := crc32.Update(record.Timestamp, castagnoli, record.Raw); actual != checksum {
		return nil, fmt.Errorf("crc mismatch at offset %d: stored %#x, computed %#x", r.offset, checksum, actual)
	}

	r.offset += headerSize + uint64(length)
	return record, nil
}

// NextMessage returns the next live record, skipping deleted and zombie
// entries.
func (r *Reader) NextMessage() (*Record, error) {
	for {
		record, err := r.Next()
		if err != nil {
			return nil, err
		}
		if record.Deleted() || record.Zombie() {
			continue
		}
		return record, nil
	}
}
