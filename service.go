package lnhistory

import (
	"fmt"
	"time"

	"github.com/ln-history/lnhistory/cache"
	"github.com/ln-history/lnhistory/event"
	"github.com/ln-history/lnhistory/model"
	"github.com/ln-history/lnhistory/parser"
	"github.com/ln-history/lnhistory/requester"
	"github.com/ln-history/lnhistory/service/dao"
	daofs "github.com/ln-history/lnhistory/service/dao/record/fs"
	daomemory "github.com/ln-history/lnhistory/service/dao/record/memory"
	"github.com/ln-history/lnhistory/service/ingest"
	"github.com/ln-history/lnhistory/service/messaging"
	queuefs "github.com/ln-history/lnhistory/service/messaging/fs"
	queuememory "github.com/ln-history/lnhistory/service/messaging/memory"
	"github.com/viant/afs"
)

// Service wires the parser registry, dedup cache, record store, event queue
// and the API requester into one client.
type Service struct {
	runtime   *Runtime
	config    *Config
	registry  *parser.Registry
	dedup     cache.Service
	recordDAO dao.Service[string, model.Record]
	queue     messaging.Queue[event.PluginEvent]
	requester *requester.Service
	workers   int
	initErr   error
}

// New creates a service from options; defaults follow DefaultConfig.
func New(options ...Option) (*Service, error) {
	s := &Service{runtime: &Runtime{}, config: DefaultConfig()}
	for _, option := range options {
		option(s)
	}
	if err := s.init(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewFromConfig builds the full stack described by a Config.
func NewFromConfig(config *Config, options ...Option) (*Service, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return New(append([]Option{withConfig(config)}, options...)...)
}

func (s *Service) init() error {
	if s.initErr != nil {
		return s.initErr
	}
	if s.registry == nil {
		s.registry = parser.NewRegistry()
	}
	if err := s.ensureCache(); err != nil {
		return err
	}
	if err := s.ensureStorage(); err != nil {
		return err
	}
	if err := s.ensureQueue(); err != nil {
		return err
	}
	if err := s.ensureRequester(); err != nil {
		return err
	}

	workers := s.workers
	if workers == 0 {
		workers = s.config.Ingest.Workers
	}
	ingestService, err := ingest.New(
		ingest.WithRegistry(s.registry),
		ingest.WithCache(s.dedup),
		ingest.WithRecordDAO(s.recordDAO),
		ingest.WithQueue(s.queue),
		ingest.WithWorkers(workers),
	)
	if err != nil {
		return err
	}
	s.runtime.ingest = ingestService
	s.runtime.dedup = s.dedup
	s.runtime.recordDAO = s.recordDAO
	s.runtime.queue = s.queue
	return nil
}

func (s *Service) ensureCache() error {
	if s.dedup != nil {
		return nil
	}
	switch s.config.Cache.Backend {
	case "", "memory":
		s.dedup = cache.NewMemory()
	case "sqlite":
		sqlite, err := cache.OpenSQLite(s.config.Cache.Path)
		if err != nil {
			return fmt.Errorf("failed to open sqlite cache: %w", err)
		}
		s.dedup = sqlite
	default:
		return fmt.Errorf("unknown cache backend %q", s.config.Cache.Backend)
	}
	return nil
}

func (s *Service) ensureStorage() error {
	if s.recordDAO != nil {
		return nil
	}
	if s.config.Storage.BasePath != "" {
		store, err := daofs.New(s.config.Storage.BasePath)
		if err != nil {
			return fmt.Errorf("failed to create record store: %w", err)
		}
		s.recordDAO = store
		return nil
	}
	s.recordDAO = daomemory.New()
	return nil
}

func (s *Service) ensureQueue() error {
	if s.queue != nil {
		return nil
	}
	if s.config.Ingest.SpoolPath != "" {
		spool, err := queuefs.NewQueue[event.PluginEvent](afs.New(), queuefs.Config{
			BasePath:   s.config.Ingest.SpoolPath,
			MaxRetries: queuefs.DefaultConfig().MaxRetries,
		})
		if err != nil {
			return fmt.Errorf("failed to create event spool: %w", err)
		}
		s.queue = spool
		return nil
	}
	s.queue = queuememory.NewQueue[event.PluginEvent](queuememory.DefaultConfig())
	return nil
}

func (s *Service) ensureRequester() error {
	if s.requester != nil || (s.config.Requester.APIKey == "" && s.config.Requester.SecretURL == "") {
		s.runtime.requester = s.requester
		return nil
	}
	options := []requester.Option{requester.WithRegistry(s.registry)}
	if s.config.Requester.BaseURL != "" {
		options = append(options, requester.WithBaseURL(s.config.Requester.BaseURL))
	}
	if s.config.Requester.APIKey != "" {
		options = append(options, requester.WithAPIKey(s.config.Requester.APIKey))
	} else {
		options = append(options, requester.WithAPIKeySecret(s.config.Requester.SecretURL, s.config.Requester.SecretKey))
	}
	if s.config.Requester.Timeout != "" {
		timeout, err := time.ParseDuration(s.config.Requester.Timeout)
		if err != nil {
			return fmt.Errorf("invalid requester timeout: %w", err)
		}
		options = append(options, requester.WithTimeout(timeout))
	}
	svc, err := requester.New(options...)
	if err != nil {
		return fmt.Errorf("failed to create requester: %w", err)
	}
	s.requester = svc
	s.runtime.requester = svc
	return nil
}

// Registry returns the parser registry, e.g. to register extension types.
func (s *Service) Registry() *parser.Registry { return s.registry }

// Runtime returns the runtime handle.
func (s *Service) Runtime() *Runtime { return s.runtime }
