package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShortChannelID(t *testing.T) {
	testCases := []struct {
		description string
		blockHeight uint32
		txIndex     uint32
		outputIndex uint16
		expectText  string
	}{
		{
			description: "typical channel",
			blockHeight: 700000,
			txIndex:     1234,
			outputIndex: 1,
			expectText:  "700000x1234x1",
		},
		{
			description: "zero components",
			expectText:  "0x0x0",
		},
		{
			description: "maximum components",
			blockHeight: 0xFFFFFF,
			txIndex:     0xFFFFFF,
			outputIndex: 0xFFFF,
			expectText:  "16777215x16777215x65535",
		},
	}

	for _, testCase := range testCases {
		scid := NewShortChannelID(testCase.blockHeight, testCase.txIndex, testCase.outputIndex)
		assert.Equal(t, testCase.blockHeight, scid.BlockHeight(), testCase.description)
		assert.Equal(t, testCase.txIndex, scid.TxIndex(), testCase.description)
		assert.Equal(t, testCase.outputIndex, scid.OutputIndex(), testCase.description)
		assert.Equal(t, testCase.expectText, scid.String(), testCase.description)

		parsed, err := ParseShortChannelID(testCase.expectText)
		assert.Nil(t, err, testCase.description)
		assert.Equal(t, scid, parsed, testCase.description)
	}
}

func TestParseShortChannelID_Errors(t *testing.T) {
	testCases := []struct {
		description string
		input       string
	}{
		{description: "empty input", input: ""},
		{description: "missing separator", input: "700000"},
		{description: "missing output", input: "700000x1234"},
		{description: "non numeric component", input: "700000xabcx1"},
		{description: "block height overflow", input: "16777216x0x0"},
		{description: "output overflow", input: "0x0x65536"},
		{description: "trailing input", input: "1x2x3x4"},
		{description: "wrong separator", input: "1:2:3"},
	}

	for _, testCase := range testCases {
		_, err := ParseShortChannelID(testCase.input)
		assert.NotNil(t, err, testCase.description)
	}
}

func TestShortChannelID_JSON(t *testing.T) {
	scid := NewShortChannelID(500123, 42, 7)
	data, err := json.Marshal(scid)
	assert.Nil(t, err)
	assert.Equal(t, `"500123x42x7"`, string(data))

	var decoded ShortChannelID
	assert.Nil(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, scid, decoded)
}
