package internal

import (
	"sort"
	"sync"
)

// Store holds the known session summaries and the active-session pointer.
// It is a pure data holder: the list is only ever replaced wholesale, and
// the pointer is the single arbiter of which transcript a token may mutate.
type Store struct {
	mu        sync.RWMutex
	active    string
	summaries map[string]SessionSummary
}

// NewStore creates an empty session store
func NewStore() *Store {
	return &Store{summaries: make(map[string]SessionSummary)}
}

// Active returns the active session id, or "" when no session is active
func (s *Store) Active() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// SetActive moves the active-session pointer
func (s *Store) SetActive(id string) {
	s.mu.Lock()
	s.active = id
	s.mu.Unlock()
}

// ReplaceAll replaces the summary list wholesale; there is no incremental merge
func (s *Store) ReplaceAll(summaries []SessionSummary) {
	next := make(map[string]SessionSummary, len(summaries))
	for _, sum := range summaries {
		next[sum.SessionID] = sum
	}
	s.mu.Lock()
	s.summaries = next
	s.mu.Unlock()
}

// Get returns the summary for one session id
func (s *Store) Get(id string) (SessionSummary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sum, ok := s.summaries[id]
	return sum, ok
}

// Len returns the number of known sessions
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.summaries)
}

// List returns the known sessions ordered most-recently-updated first.
// Ties are broken by id so the order is stable.
func (s *Store) List() []SessionSummary {
	s.mu.RLock()
	out := make([]SessionSummary, 0, len(s.summaries))
	for _, sum := range s.summaries {
		out = append(out, sum)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].SessionID < out[j].SessionID
	})
	return out
}
