package lnhistory

import (
	"context"

	"github.com/ln-history/lnhistory/cache"
	"github.com/ln-history/lnhistory/event"
	"github.com/ln-history/lnhistory/model"
	"github.com/ln-history/lnhistory/requester"
	"github.com/ln-history/lnhistory/service/dao"
	"github.com/ln-history/lnhistory/service/ingest"
	"github.com/ln-history/lnhistory/service/messaging"
)

// Runtime is the running side of a Service: the ingest pipeline plus
// accessors for the wired collaborators.
type Runtime struct {
	ingest    *ingest.Service
	dedup     cache.Service
	recordDAO dao.Service[string, model.Record]
	queue     messaging.Queue[event.PluginEvent]
	requester *requester.Service
}

// Start launches the ingest workers.
func (r *Runtime) Start(ctx context.Context) error {
	return r.ingest.Start(ctx)
}

// Shutdown stops the ingest workers, waits for in-flight events and closes
// the cache backend.
func (r *Runtime) Shutdown() error {
	r.ingest.Shutdown()
	return r.dedup.Close()
}

// Publish enqueues a plugin event for ingestion.
func (r *Runtime) Publish(ctx context.Context, evt *event.PluginEvent) error {
	return r.ingest.Publish(ctx, evt)
}

// Ingest processes a single event synchronously, bypassing the queue. It
// returns false when the event was a duplicate.
func (r *Runtime) Ingest(ctx context.Context, evt *event.PluginEvent) (bool, error) {
	return r.ingest.Ingest(ctx, evt)
}

// Stats exposes the ingest pipeline counters.
func (r *Runtime) Stats() *ingest.Stats { return r.ingest.Stats() }

// Records returns the record store.
func (r *Runtime) Records() dao.Service[string, model.Record] { return r.recordDAO }

// Requester returns the API client, or nil when not configured.
func (r *Runtime) Requester() *requester.Service { return r.requester }
