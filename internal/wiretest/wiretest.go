// Package wiretest builds synthetic raw gossip messages for tests.
package wiretest

import (
	"bytes"
	"encoding/binary"
)

// Writer accumulates big-endian wire fields.
type Writer struct {
	buf bytes.Buffer
}

func New() *Writer { return &Writer{} }

func (w *Writer) Bytes() []byte { return w.buf.Bytes() }

func (w *Writer) Raw(data []byte) *Writer {
	w.buf.Write(data)
	return w
}

// Repeat appends n copies of b, handy for fixed-size signature and key
// placeholders.
func (w *Writer) Repeat(b byte, n int) *Writer {
	w.buf.Write(bytes.Repeat([]byte{b}, n))
	return w
}

func (w *Writer) U8(v uint8) *Writer {
	w.buf.WriteByte(v)
	return w
}

func (w *Writer) U16(v uint16) *Writer {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	w.buf.Write(b[:])
	return w
}

func (w *Writer) U32(v uint32) *Writer {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
	return w
}

func (w *Writer) U64(v uint64) *Writer {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	w.buf.Write(b[:])
	return w
}

// NodeAnnouncement builds a raw prefixed node_announcement with the given
// timestamp, a 33-byte node id filled with idByte, an alias and an address
// region.
func NodeAnnouncement(timestamp uint32, idByte byte, alias string, addresses []byte) []byte {
	aliasField := make([]byte, 32)
	copy(aliasField, alias)
	return New().
		U16(257).
		Repeat(0x01, 64). // signature
		U16(0).           // features length
		U32(timestamp).
		Repeat(idByte, 33).
		Raw([]byte{0xaa, 0xbb, 0xcc}). // rgb color
		Raw(aliasField).
		U16(uint16(len(addresses))).
		Raw(addresses).
		Bytes()
}

// ChannelAnnouncement builds a raw prefixed channel_announcement for scid
// with node ids filled with id1 and id2.
func ChannelAnnouncement(scid uint64, id1, id2 byte) []byte {
	return New().
		U16(256).
		Repeat(0x02, 4*64). // four signatures
		U16(0).             // features length
		Repeat(0x06, 32).   // chain hash
		U64(scid).
		Repeat(id1, 33).
		Repeat(id2, 33).
		Repeat(0x03, 33). // bitcoin key 1
		Repeat(0x04, 33). // bitcoin key 2
		Bytes()
}

// ChannelUpdate builds a raw prefixed channel_update. When maxHTLC is
// non-nil, message_flags bit 0 is set and the field appended.
func ChannelUpdate(scid uint64, timestamp uint32, channelFlags uint8, maxHTLC *uint64) []byte {
	w := New().
		U16(258).
		Repeat(0x05, 64). // signature
		Repeat(0x06, 32). // chain hash
		U64(scid).
		U32(timestamp)
	var messageFlags uint8
	if maxHTLC != nil {
		messageFlags = 1
	}
	w.U8(messageFlags).
		U8(channelFlags).
		U16(40).   // cltv expiry delta
		U64(1000). // htlc minimum msat
		U32(1).    // fee base msat
		U32(10)    // fee proportional millionths
	if maxHTLC != nil {
		w.U64(*maxHTLC)
	}
	return w.Bytes()
}
