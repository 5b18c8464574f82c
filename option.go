package lnhistory

import (
	"github.com/ln-history/lnhistory/cache"
	"github.com/ln-history/lnhistory/event"
	"github.com/ln-history/lnhistory/model"
	"github.com/ln-history/lnhistory/parser"
	"github.com/ln-history/lnhistory/requester"
	"github.com/ln-history/lnhistory/service/dao"
	"github.com/ln-history/lnhistory/service/messaging"
	"github.com/ln-history/lnhistory/tracing"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Option configures the service.
type Option func(s *Service)

func withConfig(config *Config) Option {
	return func(s *Service) { s.config = config }
}

// WithRegistry sets the parser registry.
func WithRegistry(registry *parser.Registry) Option {
	return func(s *Service) { s.registry = registry }
}

// WithCache sets the dedup cache backend.
func WithCache(svc cache.Service) Option {
	return func(s *Service) { s.dedup = svc }
}

// WithRecordDAO sets the record store.
func WithRecordDAO(svc dao.Service[string, model.Record]) Option {
	return func(s *Service) { s.recordDAO = svc }
}

// WithQueue sets the plugin event queue.
func WithQueue(queue messaging.Queue[event.PluginEvent]) Option {
	return func(s *Service) { s.queue = queue }
}

// WithRequester sets a pre-built API client.
func WithRequester(svc *requester.Service) Option {
	return func(s *Service) { s.requester = svc }
}

// WithWorkers sets the ingest worker count, overriding the config value.
func WithWorkers(count int) Option {
	return func(s *Service) { s.workers = count }
}

// WithTracing configures OpenTelemetry tracing with the stdout exporter; an
// empty outputFile writes to os.Stdout. Safe to call multiple times, the
// first successful initialisation wins.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		_ = tracing.Init(serviceName, serviceVersion, outputFile)
	}
}

// WithTracingExporter configures tracing with a custom SpanExporter, e.g.
// OTLP, Jaeger or Zipkin.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		_ = tracing.InitWithExporter(serviceName, serviceVersion, exporter)
	}
}
