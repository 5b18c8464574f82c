package parser

import (
	"testing"

	"github.com/ln-history/lnhistory/internal/wiretest"
	"github.com/ln-history/lnhistory/model"
	"github.com/stretchr/testify/assert"
)

func TestParseChannelAmount(t *testing.T) {
	msg, err := ParseChannelAmount(wiretest.New().U64(16777216).Bytes())
	assert.Nil(t, err)
	assert.Equal(t, uint64(16777216), msg.Satoshis)

	_, err = ParseChannelAmount([]byte{0x01})
	assert.ErrorIs(t, err, ErrShortInput)
}

func TestParsePrivateChannelAnnouncement(t *testing.T) {
	inner := wiretest.ChannelAnnouncement(uint64(model.NewShortChannelID(100, 2, 3)), 0x11, 0x22)
	payload := wiretest.New().
		U64(500000).
		U16(uint16(len(inner))).
		Raw(inner).
		Bytes()

	msg, err := ParsePrivateChannelAnnouncement(payload)
	assert.Nil(t, err)
	assert.Equal(t, uint64(500000), msg.Satoshis)
	if assert.NotNil(t, msg.Announcement) {
		assert.Equal(t, "100x2x3", msg.Announcement.SCID.String())
	}
}

func TestParsePrivateChannelAnnouncement_TruncatedInner(t *testing.T) {
	inner := wiretest.ChannelAnnouncement(1, 0x11, 0x22)
	payload := wiretest.New().
		U64(1).
		U16(uint16(len(inner))).
		Raw(inner[:len(inner)-10]).
		Bytes()
	_, err := ParsePrivateChannelAnnouncement(payload)
	assert.ErrorIs(t, err, ErrShortInput)
}

func TestParsePrivateChannelUpdate(t *testing.T) {
	inner := wiretest.ChannelUpdate(uint64(model.NewShortChannelID(200, 4, 5)), 1680000000, 0x01, nil)
	payload := wiretest.New().
		U16(uint16(len(inner))).
		Raw(inner).
		Bytes()

	msg, err := ParsePrivateChannelUpdate(payload)
	assert.Nil(t, err)
	if assert.NotNil(t, msg.Update) {
		assert.Equal(t, "200x4x5", msg.Update.SCID.String())
		assert.Equal(t, 1, msg.Update.Direction())
	}
}

func TestParseDeleteChannel(t *testing.T) {
	scid := model.NewShortChannelID(300, 6, 7)
	msg, err := ParseDeleteChannel(wiretest.New().U64(uint64(scid)).Bytes())
	assert.Nil(t, err)
	assert.Equal(t, scid, msg.SCID)
}

func TestParseGossipStoreEnded(t *testing.T) {
	msg, err := ParseGossipStoreEnded(wiretest.New().U64(8192).Bytes())
	assert.Nil(t, err)
	assert.Equal(t, uint64(8192), msg.EquivalentOffset)
}

func TestParseChannelDying(t *testing.T) {
	scid := model.NewShortChannelID(400, 8, 9)
	msg, err := ParseChannelDying(wiretest.New().U64(uint64(scid)).U32(820000).Bytes())
	assert.Nil(t, err)
	assert.Equal(t, scid, msg.SCID)
	assert.Equal(t, uint32(820000), msg.BlockHeight)

	_, err = ParseChannelDying(wiretest.New().U64(uint64(scid)).Bytes())
	assert.ErrorIs(t, err, ErrShortInput)
}
