// Package ingest consumes plugin events from a queue, parses and
// deduplicates them, and persists the accepted gossip records.
package ingest

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ln-history/lnhistory/cache"
	"github.com/ln-history/lnhistory/event"
	"github.com/ln-history/lnhistory/internal/clock"
	"github.com/ln-history/lnhistory/model"
	"github.com/ln-history/lnhistory/parser"
	"github.com/ln-history/lnhistory/service/dao"
	"github.com/ln-history/lnhistory/service/messaging"
	"github.com/ln-history/lnhistory/tracing"
)

// Config controls the worker pool.
type Config struct {
	// WorkerCount is the number of workers consuming events.
	WorkerCount int
}

// DefaultConfig returns the default ingest configuration.
func DefaultConfig() Config {
	return Config{WorkerCount: 5}
}

// Stats counts pipeline outcomes; values only grow.
type Stats struct {
	Accepted   atomic.Uint64
	Duplicates atomic.Uint64
	Failed     atomic.Uint64
}

// Service runs the ingest pipeline.
type Service struct {
	config    Config
	registry  *parser.Registry
	dedup     cache.Service
	recordDAO dao.Service[string, model.Record]
	queue     messaging.Queue[event.PluginEvent]

	stats      Stats
	workers    []*worker
	workerWg   sync.WaitGroup
	shutdownCh chan struct{}
}

type worker struct {
	id       int
	service  *Service
	ctx      context.Context
	cancelFn context.CancelFunc
}

// New validates the wiring and creates the service.
func New(options ...Option) (*Service, error) {
	s := &Service{
		config:     DefaultConfig(),
		registry:   parser.NewRegistry(),
		shutdownCh: make(chan struct{}),
	}
	for _, opt := range options {
		opt(s)
	}
	if s.dedup == nil {
		return nil, fmt.Errorf("dedup cache is required")
	}
	if s.recordDAO == nil {
		return nil, fmt.Errorf("record DAO is required")
	}
	if s.queue == nil {
		return nil, fmt.Errorf("event queue is required")
	}
	return s, nil
}

// Stats exposes pipeline counters.
func (s *Service) Stats() *Stats { return &s.stats }

// Publish enqueues a plugin event for ingestion.
func (s *Service) Publish(ctx context.Context, evt *event.PluginEvent) error {
	return s.queue.Publish(ctx, evt)
}

// Start launches the worker pool; it returns immediately.
func (s *Service) Start(ctx context.Context) error {
	for i := 0; i < s.config.WorkerCount; i++ {
		workerCtx, cancel := context.WithCancel(ctx)
		w := &worker{id: i, service: s, ctx: workerCtx, cancelFn: cancel}
		s.workers = append(s.workers, w)
		s.workerWg.Add(1)
		go w.run()
	}
	return nil
}

// Shutdown stops the workers and waits for in-flight events to finish.
func (s *Service) Shutdown() {
	for _, w := range s.workers {
		w.cancelFn()
	}
	s.workerWg.Wait()
	close(s.shutdownCh)
}

func (w *worker) run() {
	defer w.service.workerWg.Done()

	for {
		msg, err := w.service.queue.Consume(w.ctx)
		if err != nil {
			if w.ctx.Err() != nil {
				return
			}
			time.Sleep(100 * time.Millisecond)
			continue
		}
		if msg == nil {
			continue
		}

		if pErr := w.service.processMessage(w.ctx, msg); pErr != nil {
			log.Printf("ingest worker %d: failed to process event: %v", w.id, pErr)
		}
	}
}

func (s *Service) processMessage(ctx context.Context, msg messaging.Message[event.PluginEvent]) (err error) {
	evt := msg.T()
	ctx, span := tracing.StartSpan(ctx, "ingest.processMessage", "CONSUMER")
	defer func() { tracing.EndSpan(span, err) }()
	span.WithAttributes(map[string]string{"event.type": evt.Metadata.Type.String()})

	accepted, err := s.Ingest(ctx, evt)
	if err != nil {
		s.stats.Failed.Add(1)
		_ = msg.Nack(err)
		return err
	}
	if !accepted {
		s.stats.Duplicates.Add(1)
	} else {
		s.stats.Accepted.Add(1)
	}
	return msg.Ack()
}

// Ingest parses, deduplicates and persists a single event. It returns false
// when the event was a duplicate.
func (s *Service) Ingest(ctx context.Context, evt *event.PluginEvent) (bool, error) {
	raw := []byte(evt.RawHex)
	msgType, known, err := parser.MessageTypeOf(raw)
	if err != nil {
		return false, err
	}
	if !known {
		return false, fmt.Errorf("unknown message type prefix %x", raw[:2])
	}

	parsed, err := s.registry.Parse(msgType, raw[2:])
	if err != nil {
		return false, fmt.Errorf("failed to parse %s: %w", msgType, err)
	}
	evt.Parsed = parsed

	record := buildRecord(msgType, parsed, raw)
	duplicate, err := cache.IsDuplicate(ctx, s.dedup, msgType, record.ID, int64(record.Timestamp))
	if err != nil {
		return false, fmt.Errorf("dedup lookup: %w", err)
	}
	if duplicate {
		return false, nil
	}
	if err := s.dedup.Record(ctx, record.ID, int64(record.Timestamp)); err != nil {
		return false, fmt.Errorf("dedup record: %w", err)
	}
	if err := s.recordDAO.Save(ctx, record); err != nil {
		return false, fmt.Errorf("failed to save record: %w", err)
	}
	return true, nil
}

func buildRecord(msgType model.MessageType, parsed model.Message, raw []byte) *model.Record {
	record := &model.Record{
		ID:         model.Digest(raw),
		MsgType:    msgType,
		Raw:        raw,
		ReceivedAt: clock.Now(),
	}
	switch msg := parsed.(type) {
	case *model.ChannelAnnouncement:
		scid := msg.SCID
		record.SCID = &scid
	case *model.NodeAnnouncement:
		record.NodeID = msg.NodeID
		record.Timestamp = msg.Timestamp
	case *model.ChannelUpdate:
		scid := msg.SCID
		record.SCID = &scid
		record.Timestamp = msg.Timestamp
	case *model.PrivateChannelAnnouncement:
		scid := msg.Announcement.SCID
		record.SCID = &scid
	case *model.PrivateChannelUpdate:
		scid := msg.Update.SCID
		record.SCID = &scid
		record.Timestamp = msg.Update.Timestamp
	case *model.DeleteChannel:
		scid := msg.SCID
		record.SCID = &scid
	case *model.ChannelDying:
		scid := msg.SCID
		record.SCID = &scid
	}
	return record
}
