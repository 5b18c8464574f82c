package ingest

import (
	"github.com/ln-history/lnhistory/cache"
	"github.com/ln-history/lnhistory/event"
	"github.com/ln-history/lnhistory/model"
	"github.com/ln-history/lnhistory/parser"
	"github.com/ln-history/lnhistory/service/dao"
	"github.com/ln-history/lnhistory/service/messaging"
)

// Option configures the ingest service.
type Option func(s *Service)

// WithWorkers sets the worker count.
func WithWorkers(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.config.WorkerCount = count
		}
	}
}

// WithRegistry sets the parser registry.
func WithRegistry(registry *parser.Registry) Option {
	return func(s *Service) { s.registry = registry }
}

// WithCache sets the dedup cache.
func WithCache(svc cache.Service) Option {
	return func(s *Service) { s.dedup = svc }
}

// WithRecordDAO sets the record store.
func WithRecordDAO(svc dao.Service[string, model.Record]) Option {
	return func(s *Service) { s.recordDAO = svc }
}

// WithQueue sets the event queue.
func WithQueue(queue messaging.Queue[event.PluginEvent]) Option {
	return func(s *Service) { s.queue = queue }
}
