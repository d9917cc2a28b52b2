package memory

import (
	"context"
	"sync"

	"github.com/sematx/opendata-seed/internal/core/domain"
	"github.com/sematx/opendata-seed/internal/core/ports"
)

// EntityStore is the default, process-local mock-broker storage.
type EntityStore struct {
	mu       sync.RWMutex
	entities map[string]ports.Document
}

var _ ports.EntityRepository = (*EntityStore)(nil)

func NewEntityStore() *EntityStore {
	return &EntityStore{entities: make(map[string]ports.Document)}
}

func (s *EntityStore) Create(_ context.Context, id string, doc ports.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entities[id]; exists {
		return domain.ErrConflict
	}
	s.entities[id] = clone(doc)
	return nil
}

func (s *EntityStore) MergeAttrs(_ context.Context, id string, attrs ports.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, exists := s.entities[id]
	if !exists {
		return domain.ErrNotFound
	}
	for name, value := range attrs {
		doc[name] = value
	}
	return nil
}

func (s *EntityStore) Get(_ context.Context, id string) (ports.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, exists := s.entities[id]
	if !exists {
		return nil, domain.ErrNotFound
	}
	return clone(doc), nil
}

// Len is the number of stored entities.
func (s *EntityStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entities)
}

func clone(doc ports.Document) ports.Document {
	out := make(ports.Document, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}
