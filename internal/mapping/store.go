package mapping

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store is the persistence sink for mapping writes. Implementations must
// not validate; the resolver has already done so by the time it calls in.
type Store interface {
	Mappings(ctx context.Context, studentID string) ([]Mapping, error)
	SaveMapping(ctx context.Context, m Mapping) error
	DeleteMapping(ctx context.Context, studentID, path, courseCode string) error
}

// MemoryStore is an in-memory Store implementation.
type MemoryStore struct {
	mappings map[string][]Mapping
	mu       sync.RWMutex
}

// NewMemoryStore creates a new in-memory mapping store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		mappings: make(map[string][]Mapping),
	}
}

func (s *MemoryStore) Mappings(_ context.Context, studentID string) ([]Mapping, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Mapping{}, s.mappings[studentID]...), nil
}

func (s *MemoryStore) SaveMapping(_ context.Context, m Mapping) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	s.mappings[m.StudentID] = append(s.mappings[m.StudentID], m)
	return nil
}

func (s *MemoryStore) DeleteMapping(_ context.Context, studentID, path, courseCode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	maps := s.mappings[studentID]
	for i, m := range maps {
		if m.Path == path && m.CourseCode == courseCode {
			s.mappings[studentID] = append(maps[:i], maps[i+1:]...)
			return nil
		}
	}
	return nil
}
