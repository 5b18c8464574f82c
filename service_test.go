package lnhistory

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ln-history/lnhistory/event"
	"github.com/ln-history/lnhistory/internal/wiretest"
	"github.com/ln-history/lnhistory/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pluginEvent(raw []byte) *event.PluginEvent {
	return &event.PluginEvent{RawHex: raw}
}

func TestNew_Defaults(t *testing.T) {
	svc, err := New()
	require.Nil(t, err)
	assert.NotNil(t, svc.Registry())

	runtime := svc.Runtime()
	require.NotNil(t, runtime)
	assert.NotNil(t, runtime.Records())
	assert.Nil(t, runtime.Requester())
	require.Nil(t, runtime.Shutdown())
}

func TestService_SynchronousIngest(t *testing.T) {
	ctx := context.Background()
	svc, err := New(WithWorkers(1))
	require.Nil(t, err)
	runtime := svc.Runtime()
	defer func() { _ = runtime.Shutdown() }()

	raw := wiretest.ChannelUpdate(uint64(model.NewShortChannelID(100, 1, 0)), 1700000000, 0, nil)
	accepted, err := runtime.Ingest(ctx, pluginEvent(raw))
	require.Nil(t, err)
	assert.True(t, accepted)

	accepted, err = runtime.Ingest(ctx, pluginEvent(raw))
	require.Nil(t, err)
	assert.False(t, accepted)

	records, err := runtime.Records().List(ctx)
	require.Nil(t, err)
	assert.Equal(t, 1, len(records))
}

func TestNewFromConfig(t *testing.T) {
	base := t.TempDir()
	config := &Config{
		Ingest: IngestConfig{Workers: 2, SpoolPath: filepath.Join(base, "spool")},
		Cache:  CacheConfig{Backend: "sqlite", Path: filepath.Join(base, "cache.db")},
		Storage: StorageConfig{
			BasePath: filepath.Join(base, "records"),
		},
		Requester: RequesterConfig{BaseURL: "https://api.example.com", APIKey: "key", Timeout: "5s"},
	}

	svc, err := NewFromConfig(config)
	require.Nil(t, err)
	runtime := svc.Runtime()
	assert.NotNil(t, runtime.Requester())

	ctx := context.Background()
	raw := wiretest.NodeAnnouncement(1700000000, 0x33, "alice", nil)
	accepted, err := runtime.Ingest(ctx, pluginEvent(raw))
	require.Nil(t, err)
	assert.True(t, accepted)
	require.Nil(t, runtime.Shutdown())
}

func TestNewFromConfig_Invalid(t *testing.T) {
	_, err := NewFromConfig(&Config{Cache: CacheConfig{Backend: "redis"}})
	assert.NotNil(t, err)
}
