package model

import (
	"fmt"

	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
)

// ShortChannelID encodes the funding transaction location of a channel as
// defined by BOLT #7: 24 bits block height, 24 bits transaction index and
// 16 bits output index, packed big-endian into a uint64.
type ShortChannelID uint64

// NewShortChannelID packs the three components into a ShortChannelID.
func NewShortChannelID(blockHeight, txIndex uint32, outputIndex uint16) ShortChannelID {
	return ShortChannelID(uint64(blockHeight&0xFFFFFF)<<40 |
		uint64(txIndex&0xFFFFFF)<<16 |
		uint64(outputIndex))
}

// BlockHeight returns the block the funding transaction was confirmed in.
func (s ShortChannelID) BlockHeight() uint32 { return uint32(s>>40) & 0xFFFFFF }

// TxIndex returns the index of the funding transaction within the block.
func (s ShortChannelID) TxIndex() uint32 { return uint32(s>>16) & 0xFFFFFF }

// OutputIndex returns the funding output index.
func (s ShortChannelID) OutputIndex() uint16 { return uint16(s & 0xFFFF) }

// String renders the human readable "<block>x<txindex>x<output>" form.
func (s ShortChannelID) String() string {
	return fmt.Sprintf("%dx%dx%d", s.BlockHeight(), s.TxIndex(), s.OutputIndex())
}

// MarshalText implements encoding.TextMarshaler.
func (s ShortChannelID) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *ShortChannelID) UnmarshalText(text []byte) error {
	parsed, err := ParseShortChannelID(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

const (
	numberCode = iota
	separatorCode
)

var (
	numberToken    = parsly.NewToken(numberCode, "Number", matcher.NewNumber())
	separatorToken = parsly.NewToken(separatorCode, "x", matcher.NewByte('x'))
)

// ParseShortChannelID parses the "<block>x<txindex>x<output>" textual form.
func ParseShortChannelID(text string) (ShortChannelID, error) {
	cursor := parsly.NewCursor("", []byte(text), 0)

	block, err := matchComponent(cursor, 0xFFFFFF)
	if err != nil {
		return 0, fmt.Errorf("invalid short channel id %q: %w", text, err)
	}
	if matched := cursor.MatchOne(separatorToken); matched.Code != separatorToken.Code {
		return 0, fmt.Errorf("invalid short channel id %q: %w", text, cursor.NewError(separatorToken))
	}
	txIndex, err := matchComponent(cursor, 0xFFFFFF)
	if err != nil {
		return 0, fmt.Errorf("invalid short channel id %q: %w", text, err)
	}
	if matched := cursor.MatchOne(separatorToken); matched.Code != separatorToken.Code {
		return 0, fmt.Errorf("invalid short channel id %q: %w", text, cursor.NewError(separatorToken))
	}
	output, err := matchComponent(cursor, 0xFFFF)
	if err != nil {
		return 0, fmt.Errorf("invalid short channel id %q: %w", text, err)
	}
	if cursor.Pos != cursor.InputSize {
		return 0, fmt.Errorf("invalid short channel id %q: trailing input at position %d", text, cursor.Pos)
	}
	return NewShortChannelID(uint32(block), uint32(txIndex), uint16(output)), nil
}

func matchComponent(cursor *parsly.Cursor, max uint64) (uint64, error) {
	matched := cursor.MatchOne(numberToken)
	if matched.Code != numberToken.Code {
		return 0, cursor.NewError(numberToken)
	}
	text := matched.Text(cursor)
	var value uint64
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("unexpected character %q in component", c)
		}
		value = value*10 + uint64(c-'0')
		if value > max {
			return 0, fmt.Errorf("component %s exceeds maximum %d", text, max)
		}
	}
	return value, nil
}
