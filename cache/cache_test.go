package cache

import (
	"context"
	"testing"

	"github.com/ln-history/lnhistory/model"
	"github.com/stretchr/testify/assert"
)

func TestMemory(t *testing.T) {
	ctx := context.Background()
	svc := NewMemory()
	defer func() { _ = svc.Close() }()

	seen, err := svc.Timestamps(ctx, "digest-1")
	assert.Nil(t, err)
	assert.Equal(t, 0, len(seen))

	assert.Nil(t, svc.Record(ctx, "digest-1", 100))
	assert.Nil(t, svc.Record(ctx, "digest-1", 200))
	assert.Nil(t, svc.Record(ctx, "digest-2", 300))

	seen, err = svc.Timestamps(ctx, "digest-1")
	assert.Nil(t, err)
	assert.Equal(t, []int64{100, 200}, seen)

	// Returned slice is a copy.
	seen[0] = 999
	again, _ := svc.Timestamps(ctx, "digest-1")
	assert.Equal(t, []int64{100, 200}, again)
}

func TestIsDuplicate(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		description string
		msgType     model.MessageType
		recorded    []int64
		timestamp   int64
		expect      bool
	}{
		{
			description: "announcement never seen",
			msgType:     model.MsgChannelAnnouncement,
			timestamp:   100,
			expect:      false,
		},
		{
			description: "announcement seen with any timestamp",
			msgType:     model.MsgChannelAnnouncement,
			recorded:    []int64{50},
			timestamp:   100,
			expect:      true,
		},
		{
			description: "node announcement same timestamp",
			msgType:     model.MsgNodeAnnouncement,
			recorded:    []int64{100},
			timestamp:   100,
			expect:      true,
		},
		{
			description: "node announcement newer timestamp",
			msgType:     model.MsgNodeAnnouncement,
			recorded:    []int64{100},
			timestamp:   200,
			expect:      false,
		},
		{
			description: "channel update exact pair",
			msgType:     model.MsgChannelUpdate,
			recorded:    []int64{100, 200},
			timestamp:   200,
			expect:      true,
		},
		{
			description: "private update newer timestamp",
			msgType:     model.MsgPrivateUpdate,
			recorded:    []int64{100},
			timestamp:   150,
			expect:      false,
		},
		{
			description: "private announcement seen",
			msgType:     model.MsgPrivateAnnouncement,
			recorded:    []int64{100},
			timestamp:   999,
			expect:      true,
		},
	}

	for _, testCase := range testCases {
		svc := NewMemory()
		for _, ts := range testCase.recorded {
			_ = svc.Record(ctx, "key", ts)
		}
		duplicate, err := IsDuplicate(ctx, svc, testCase.msgType, "key", testCase.timestamp)
		assert.Nil(t, err, testCase.description)
		assert.Equal(t, testCase.expect, duplicate, testCase.description)
	}
}
