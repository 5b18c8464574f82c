package gossipstore

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"io"
	"testing"

	"github.com/ln-history/lnhistory/internal/wiretest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// appendRecord frames payload the way Core Lightning writes store entries.
func appendRecord(store []byte, flags uint16, timestamp uint32, payload []byte) []byte {
	header := make([]byte, headerSize)
	binary.BigEndian.PutUint16(header[0:2], flags)
	binary.BigEndian.PutUint16(header[2:4], uint16(len(payload)))
	binary.BigEndian.PutUint32(header[4:8], crc32.Update(timestamp, castagnoli, payload))
	binary.BigEndian.PutUint32(header[8:12], timestamp)
	return append(append(store, header...), payload...)
}

func TestReader(t *testing.T) {
	announcement := wiretest.ChannelAnnouncement(1, 0x11, 0x22)
	update := wiretest.ChannelUpdate(1, 100, 0, nil)
	amount := wiretest.New().U16(4101).U64(250000).Bytes()

	store := []byte{12}
	store = appendRecord(store, 0, 1000, announcement)
	store = appendRecord(store, FlagDeleted, 1001, update)
	store = appendRecord(store, FlagPush, 1002, amount)

	reader, err := NewReader(bytes.NewReader(store))
	require.Nil(t, err)
	assert.Equal(t, byte(12), reader.Version())
	assert.Equal(t, uint64(1), reader.Offset())

	first, err := reader.Next()
	require.Nil(t, err)
	assert.Equal(t, announcement, first.Raw)
	assert.Equal(t, uint32(1000), first.Timestamp)
	assert.Equal(t, uint64(1), first.Offset)
	assert.False(t, first.Deleted())

	second, err := reader.Next()
	require.Nil(t, err)
	assert.True(t, second.Deleted())
	assert.Equal(t, update, second.Raw)

	third, err := reader.Next()
	require.Nil(t, err)
	assert.Equal(t, amount, third.Raw)

	_, err = reader.Next()
	assert.Equal(t, io.EOF, err)
}

func TestReader_NextMessageSkipsDeadRecords(t *testing.T) {
	live := wiretest.ChannelUpdate(7, 300, 0, nil)

	store := []byte{12}
	store = appendRecord(store, FlagDeleted, 100, wiretest.ChannelUpdate(5, 100, 0, nil))
	store = appendRecord(store, FlagZombie, 200, wiretest.ChannelUpdate(6, 200, 0, nil))
	store = appendRecord(store, FlagDying, 300, live)

	reader, err := NewReader(bytes.NewReader(store))
	require.Nil(t, err)

	record, err := reader.NextMessage()
	require.Nil(t, err)
	assert.Equal(t, live, record.Raw)
	assert.True(t, record.Dying())

	_, err = reader.NextMessage()
	assert.Equal(t, io.EOF, err)
}

func TestReader_Errors(t *testing.T) {
	_, err := NewReader(bytes.NewReader(nil))
	assert.NotNil(t, err, "empty store")

	_, err = NewReader(bytes.NewReader([]byte{0x20}))
	assert.NotNil(t, err, "unsupported major version")

	// Corrupted checksum.
	store := appendRecord([]byte{12}, 0, 100, []byte{0x01, 0x02, 0x03})
	store[5] ^= 0xFF
	reader, err := NewReader(bytes.NewReader(store))
	require.Nil(t, err)
	_, err = reader.Next()
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "crc mismatch")

	// Truncated payload.
	store = appendRecord([]byte{12}, 0, 100, []byte{0x01, 0x02, 0x03})
	reader, err = NewReader(bytes.NewReader(store[:len(store)-1]))
	require.Nil(t, err)
	_, err = reader.Next()
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "truncated record payload")

	// Truncated header.
	reader, err = NewReader(bytes.NewReader([]byte{12, 0x00, 0x00}))
	require.Nil(t, err)
	_, err = reader.Next()
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "truncated record header")
}
