// Package memory provides an in-process record store, the default backend
// for tests and short-lived ingestion runs.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/ln-history/lnhistory/model"
	"github.com/ln-history/lnhistory/service/dao"
	"github.com/ln-history/lnhistory/service/dao/criteria"
)

// Service implements dao.Service for gossip records backed by a map.
type Service struct {
	records map[string]*model.Record
	mu      sync.RWMutex
}

var _ dao.Service[string, model.Record] = (*Service)(nil)

// New creates an empty in-memory record store.
func New() *Service {
	return &Service{records: make(map[string]*model.Record)}
}

func (s *Service) Save(_ context.Context, record *model.Record) error {
	if record == nil {
		return dao.ErrNilEntity
	}
	if record.ID == "" {
		return dao.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *record
	s.records[record.ID] = &stored
	return nil
}

func (s *Service) Load(_ context.Context, id string) (*model.Record, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[id]
	if !ok {
		return nil, dao.ErrNotFound
	}
	ret := *record
	return &ret, nil
}

func (s *Service) Delete(_ context.Context, id string) error {
	if id == "" {
		return dao.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return dao.ErrNotFound
	}
	delete(s.records, id)
	return nil
}

func (s *Service) List(_ context.Context, parameters ...*dao.Parameter) ([]*model.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var records []*model.Record
	for _, record := range s.records {
		if !criteria.Match(record, parameters) {
			continue
		}
		ret := *record
		records = append(records, &ret)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records, nil
}
