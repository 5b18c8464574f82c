package parser

import (
	"bytes"
	"testing"

	"github.com/ln-history/lnhistory/internal/wiretest"
	"github.com/ln-history/lnhistory/model"
	"github.com/stretchr/testify/assert"
)

func TestParseAddresses(t *testing.T) {
	region := wiretest.New().
		U8(1).Raw([]byte{127, 0, 0, 1}).U16(9735).
		U8(2).Raw(bytes.Repeat([]byte{0}, 15)).Raw([]byte{1}).U16(9736).
		U8(4).Repeat(0xAB, 35).U16(9737).
		U8(5).U8(11).Raw([]byte("example.com")).U16(9738).
		Bytes()

	addresses := parseAddresses(region)
	assert.Equal(t, 4, len(addresses))

	assert.Equal(t, model.AddressIPv4, addresses[0].Type)
	assert.Equal(t, "127.0.0.1", addresses[0].Addr)
	assert.Equal(t, uint16(9735), addresses[0].Port)

	assert.Equal(t, model.AddressIPv6, addresses[1].Type)
	assert.Equal(t, "[::1]", addresses[1].Addr)
	assert.Equal(t, uint16(9736), addresses[1].Port)

	assert.Equal(t, model.AddressTorV3, addresses[2].Type)
	assert.True(t, len(addresses[2].Addr) > len(".onion"))
	assert.Contains(t, addresses[2].Addr, ".onion")
	assert.Equal(t, uint16(9737), addresses[2].Port)

	assert.Equal(t, model.AddressDNS, addresses[3].Type)
	assert.Equal(t, "example.com", addresses[3].Addr)
	assert.Equal(t, uint16(9738), addresses[3].Port)
}

func TestParseAddresses_TorV2(t *testing.T) {
	region := wiretest.New().
		U8(3).Repeat(0x00, 10).U16(9735).
		Bytes()
	addresses := parseAddresses(region)
	assert.Equal(t, 1, len(addresses))
	assert.Equal(t, model.AddressTorV2, addresses[0].Type)
	assert.Equal(t, "aaaaaaaaaaaaaaaa.onion", addresses[0].Addr)
}

func TestParseAddresses_StopsOnUnknownType(t *testing.T) {
	region := wiretest.New().
		U8(1).Raw([]byte{10, 0, 0, 1}).U16(9735).
		U8(42).Raw([]byte{0xde, 0xad}).
		Bytes()

	addresses := parseAddresses(region)
	assert.Equal(t, 1, len(addresses))
	assert.Equal(t, "10.0.0.1", addresses[0].Addr)
}

func TestParseAddresses_TruncatedEntry(t *testing.T) {
	region := wiretest.New().
		U8(2).Raw(bytes.Repeat([]byte{0}, 8)).
		Bytes()
	assert.Equal(t, 0, len(parseAddresses(region)))
}

func TestParseAddress_RestoresPositionOnFailure(t *testing.T) {
	region := wiretest.New().U8(42).U8(0x01).Bytes()
	r := bytes.NewReader(region)
	assert.Nil(t, parseAddress(r))
	assert.Equal(t, len(region), r.Len())
}
