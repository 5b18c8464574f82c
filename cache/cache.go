// Package cache implements gossip duplicate detection keyed by message
// digest, with the per-key timestamp lists the ln-history platform uses to
// distinguish re-broadcasts from genuinely new updates.
package cache

import (
	"context"
	"sync"

	"github.com/ln-history/lnhistory/model"
)

// Service records observed gossip keys with their timestamps.
type Service interface {
	// Timestamps returns every timestamp recorded for key; empty means the
	// key has never been seen.
	Timestamps(ctx context.Context, key string) ([]int64, error)

	// Record registers an observation of key at timestamp.
	Record(ctx context.Context, key string, timestamp int64) error

	Close() error
}

// IsDuplicate applies the platform's duplicate rules: announcement-type
// messages are duplicate whenever their key was seen before, while
// timestamped messages (node_announcement, channel_update) are duplicate
// only when the exact (key, timestamp) pair was seen.
func IsDuplicate(ctx context.Context, svc Service, msgType model.MessageType, key string, timestamp int64) (bool, error) {
	seen, err := svc.Timestamps(ctx, key)
	if err != nil {
		return false, err
	}
	if len(seen) == 0 {
		return false, nil
	}
	switch msgType {
	case model.MsgNodeAnnouncement, model.MsgChannelUpdate, model.MsgPrivateUpdate:
		for _, ts := range seen {
			if ts == timestamp {
				return true, nil
			}
		}
		return false, nil
	default:
		return true, nil
	}
}

// Memory is the in-process cache implementation.
type Memory struct {
	entries map[string][]int64
	mu      sync.RWMutex
}

// NewMemory creates an empty in-memory cache.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string][]int64)}
}

func (m *Memory) Timestamps(_ context.Context, key string) ([]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	timestamps := m.entries[key]
	ret := make([]int64, len(timestamps))
	copy(ret, timestamps)
	return ret, nil
}

func (m *Memory) Record(_ context.Context, key string, timestamp int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = append(m.entries[key], timestamp)
	return nil
}

func (m *Memory) Close() error { return nil }
