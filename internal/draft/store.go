package draft

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// Store persists authoring drafts between sessions. Save is an upsert keyed
// by draft ID.
type Store interface {
	Save(d Draft) error
	Get(id string) (*Draft, error)
	ListByInstructor(instructorID string) ([]Draft, error)
	Delete(id string) error
}

// MemoryStore is an in-memory implementation of Store.
type MemoryStore struct {
	drafts map[string]Draft
	mu     sync.RWMutex
}

// NewMemoryStore creates a new in-memory draft store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		drafts: make(map[string]Draft),
	}
}

func (s *MemoryStore) Save(d Draft) error {
	if d.ID == "" {
		return fmt.Errorf("draft ID is required")
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now()
	}

	s.mu.Lock()
	s.drafts[d.ID] = d
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Get(id string) (*Draft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.drafts[id]
	if !ok {
		return nil, fmt.Errorf("draft not found: %s", id)
	}
	return &d, nil
}

func (s *MemoryStore) ListByInstructor(instructorID string) ([]Draft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []Draft{}
	for _, d := range s.drafts {
		if d.InstructorID == instructorID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.drafts[id]; !ok {
		return fmt.Errorf("draft not found: %s", id)
	}
	delete(s.drafts, id)
	return nil
}
