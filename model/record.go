package model

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Record is the persisted form of an accepted gossip message. The ID is the
// SHA-256 digest of the raw message including its 2-byte type prefix, which
// doubles as the duplicate-detection key.
type Record struct {
	ID         string          `json:"id"`
	MsgType    MessageType     `json:"msg_type"`
	SCID       *ShortChannelID `json:"scid,omitempty"`
	NodeID     HexBytes        `json:"node_id,omitempty"`
	Timestamp  uint32          `json:"timestamp,omitempty"`
	Raw        HexBytes        `json:"raw_hex"`
	ReceivedAt time.Time       `json:"received_at"`
}

// Digest computes the record ID for a raw message.
func Digest(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
