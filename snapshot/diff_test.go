package snapshot

import (
	"strings"
	"testing"
	"time"

	"github.com/ln-history/lnhistory/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDump_Deterministic(t *testing.T) {
	build := func() *Snapshot {
		snap := New(time.Unix(1700000000, 0))
		snap.Apply(announcement(model.NewShortChannelID(200, 1, 0), 0x33, 0x44))
		snap.Apply(announcement(model.NewShortChannelID(100, 1, 0), 0x11, 0x22))
		snap.Apply(&model.NodeAnnouncement{NodeID: nodeID(0x11), Alias: "alice", Timestamp: 1})
		snap.Apply(update(model.NewShortChannelID(100, 1, 0), 10, 0, 5))
		return snap
	}
	assert.Equal(t, build().Dump(), build().Dump())
	assert.Contains(t, build().Dump(), `alias="alice"`)
}

func TestDiff(t *testing.T) {
	before := New(time.Unix(1700000000, 0))
	before.Apply(announcement(model.NewShortChannelID(100, 1, 0), 0x11, 0x22))
	before.Apply(announcement(model.NewShortChannelID(200, 1, 0), 0x33, 0x44))

	after := New(time.Unix(1700086400, 0))
	after.Apply(announcement(model.NewShortChannelID(100, 1, 0), 0x11, 0x22))
	after.Apply(announcement(model.NewShortChannelID(300, 1, 0), 0x11, 0x55))

	patch, stats, err := Diff(before, after, 3)
	require.Nil(t, err)
	assert.True(t, strings.Contains(patch, "snapshot@2023-11-14T22:13:20Z"))
	assert.True(t, strings.Contains(patch, "snapshot@2023-11-15T22:13:20Z"))

	// 200x1x0 and its two nodes disappeared, 300x1x0 and one node appeared.
	assert.Equal(t, 1, stats.ChannelsRemoved)
	assert.Equal(t, 1, stats.ChannelsAdded)
	assert.Equal(t, 2, stats.NodesRemoved)
	assert.Equal(t, 1, stats.NodesAdded)
}

func TestDiff_Identical(t *testing.T) {
	snap := New(time.Unix(1700000000, 0))
	snap.Apply(announcement(model.NewShortChannelID(100, 1, 0), 0x11, 0x22))

	same := New(time.Unix(1700086400, 0))
	same.Apply(announcement(model.NewShortChannelID(100, 1, 0), 0x11, 0x22))

	patch, stats, err := Diff(snap, same, 3)
	require.Nil(t, err)
	assert.Equal(t, "", patch)
	assert.Equal(t, DiffStats{}, stats)
}
