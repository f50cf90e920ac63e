package storage

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"mercator-hq/verity/pkg/report"
)

// MemoryStorage implements report.Storage in memory.
type MemoryStorage struct {
	records map[string]*report.Record
	mu      sync.RWMutex
}

// NewMemoryStorage creates an empty in-memory store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		records: make(map[string]*report.Record),
	}
}

// Store saves a copy of rec, replacing any record with the same ID.
func (s *MemoryStorage) Store(ctx context.Context, rec *report.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[rec.ID] = rec.Clone()
	return nil
}

// Get returns a copy of the record with the given ID.
func (s *MemoryStorage) Get(ctx context.Context, id string) (*report.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, report.ErrNotFound
	}
	return rec.Clone(), nil
}

// Query returns copies of the records matching q, sorted by CheckedAt.
func (s *MemoryStorage) Query(ctx context.Context, q *report.Query) ([]*report.Record, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	query := q.WithDefaults()

	s.mu.RLock()
	results := make([]*report.Record, 0)
	for _, rec := range s.records {
		if query.Matches(rec) {
			results = append(results, rec.Clone())
		}
	}
	s.mu.RUnlock()

	slices.SortStableFunc(results, func(a, b *report.Record) int {
		c := a.CheckedAt.Compare(b.CheckedAt)
		if c == 0 {
			c = strings.Compare(a.ID, b.ID)
		}
		if query.SortOrder == report.SortDesc {
			return -c
		}
		return c
	})

	if query.Offset >= len(results) {
		return []*report.Record{}, nil
	}
	end := min(query.Offset+query.Limit, len(results))
	return results[query.Offset:end], nil
}

// Count returns the number of records matching q.
func (s *MemoryStorage) Count(ctx context.Context, q *report.Query) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, rec := range s.records {
		if q.Matches(rec) {
			count++
		}
	}
	return count, nil
}

// DeleteBefore removes records checked before cutoff.
func (s *MemoryStorage) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for id, rec := range s.records {
		if rec.CheckedAt.Before(cutoff) {
			delete(s.records, id)
			deleted++
		}
	}
	return deleted, nil
}

// Close drops every record.
func (s *MemoryStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make(map[string]*report.Record)
	return nil
}

// Size returns the number of stored records.
func (s *MemoryStorage) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.records)
}
