package records

import (
	"context"
	"sync"
)

// Store provides access to a student's course records.
type Store interface {
	CourseRecords(ctx context.Context, studentID string) ([]CourseRecord, error)
	SaveRecord(ctx context.Context, studentID string, rec CourseRecord) error
	DeleteRecord(ctx context.Context, studentID, code, slotID string) error
}

// MemoryStore is an in-memory implementation of Store.
type MemoryStore struct {
	records map[string][]CourseRecord
	mu      sync.RWMutex
}

// NewMemoryStore creates a new in-memory record store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string][]CourseRecord),
	}
}

func (s *MemoryStore) CourseRecords(_ context.Context, studentID string) ([]CourseRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]CourseRecord{}, s.records[studentID]...), nil
}

func (s *MemoryStore) SaveRecord(_ context.Context, studentID string, rec CourseRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs := s.records[studentID]
	for i, existing := range recs {
		if existing.Code == rec.Code && existing.SlotID == rec.SlotID {
			recs[i] = rec
			return nil
		}
	}
	s.records[studentID] = append(recs, rec)
	return nil
}

func (s *MemoryStore) DeleteRecord(_ context.Context, studentID, code, slotID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs := s.records[studentID]
	for i, existing := range recs {
		if existing.Code == code && existing.SlotID == slotID {
			s.records[studentID] = append(recs[:i], recs[i+1:]...)
			return nil
		}
	}
	return nil
}
