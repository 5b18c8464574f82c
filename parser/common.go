// Package parser decodes raw Lightning Network gossip messages (BOLT #7 and
// the Core Lightning gossip_store extensions) into the typed model.
package parser

import (
	"bytes"
	"encoding/base32"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/ln-history/lnhistory/model"
	"golang.org/x/net/idna"
)

// ErrShortInput is wrapped by every truncated-input failure.
var ErrShortInput = fmt.Errorf("insufficient data")

// MessageTypeOf extracts the wire type from the first two bytes of a raw
// message. It returns (0, false) when the type is not a known gossip or
// Core Lightning type, and an error when fewer than two bytes are present.
func MessageTypeOf(raw []byte) (model.MessageType, bool, error) {
	if len(raw) < 2 {
		return 0, false, fmt.Errorf("%w: expected at least 2 bytes to extract message type, got %d", ErrShortInput, len(raw))
	}
	msgType := model.MessageType(binary.BigEndian.Uint16(raw[:2]))
	if !msgType.Known() {
		return 0, false, nil
	}
	return msgType, true, nil
}

// StripKnownMessageType removes the 2-byte type prefix when it is a known
// type; unknown prefixes leave the input untouched.
func StripKnownMessageType(raw []byte) ([]byte, error) {
	_, known, err := MessageTypeOf(raw)
	if err != nil {
		return nil, err
	}
	if known {
		return raw[2:], nil
	}
	return raw, nil
}

// readExact reads exactly n bytes from r or fails naming the shortfall.
func readExact(r *bytes.Reader, n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("invalid read length %d", n)
	}
	if n == 0 {
		return []byte{}, nil
	}
	buf := make([]byte, n)
	read, err := io.ReadFull(r, buf)
	if err != nil {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrShortInput, n, read)
	}
	return buf, nil
}

func readUint16(r *bytes.Reader) (uint16, error) {
	buf, err := readExact(r, 2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(buf), nil
}

func readUint32(r *bytes.Reader) (uint32, error) {
	buf, err := readExact(r, 4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf), nil
}

func readUint64(r *bytes.Reader) (uint64, error) {
	buf, err := readExact(r, 8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(buf), nil
}

var onionEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// toBase32 encodes addr the way .onion hostnames are rendered: unpadded,
// lower-case base32.
func toBase32(addr []byte) string {
	return strings.ToLower(onionEncoding.EncodeToString(addr))
}

// DecodeAlias renders a raw 32-byte node alias. UTF-8 is the common case;
// punycode is attempted next and a hex dump is the last resort. NUL padding
// is stripped.
func DecodeAlias(alias []byte) string {
	if utf8.Valid(alias) {
		return strings.Trim(string(alias), "\x00")
	}
	cleaned := string(bytes.Trim(alias, "\x00"))
	if decoded, err := idna.Punycode.ToUnicode("xn--" + cleaned); err == nil && utf8.ValidString(decoded) {
		return decoded
	}
	return hex.EncodeToString(alias)
}
