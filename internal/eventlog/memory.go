package eventlog

import (
	"context"
	"strconv"
	"sync"
)

// MemoryStore is an in-process, non-durable Store for tests.
type MemoryStore struct {
	mu      sync.Mutex
	entries []Entry
	seq     uint64

	// AppendErr / RecentErr, when set, are returned by the next calls.
	AppendErr error
	RecentErr error
}

// NewMemoryStore returns a store pre-seeded with lines (oldest first).
func NewMemoryStore(lines ...string) *MemoryStore {
	s := &MemoryStore{}
	for _, l := range lines {
		s.seq++
		s.entries = append(s.entries, Entry{Seq: s.seq, ID: strconv.FormatUint(s.seq, 10), Line: l})
	}
	return s
}

// Append implements Store.
func (s *MemoryStore) Append(_ context.Context, line string) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.AppendErr != nil {
		return Entry{}, s.AppendErr
	}
	s.seq++
	e := Entry{Seq: s.seq, ID: strconv.FormatUint(s.seq, 10), Line: line}
	s.entries = append(s.entries, e)
	return e, nil
}

// Recent implements Store. Entries are returned newest first, mirroring
// channel history.
func (s *MemoryStore) Recent(_ context.Context, limit int) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.RecentErr != nil {
		return nil, s.RecentErr
	}
	n := len(s.entries)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]Entry, 0, n)
	for i := len(s.entries) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, s.entries[i])
	}
	return out, nil
}

// Lines returns every stored line, oldest first.
func (s *MemoryStore) Lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.Line
	}
	return out
}
