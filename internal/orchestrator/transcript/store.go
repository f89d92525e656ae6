// Package transcript stores decoded utterances and fans out caption events.
package transcript

import (
	"strings"
	"sync"
	"time"
)

// Kind distinguishes live hypotheses from finished utterances.
type Kind string

const (
	KindInterim Kind = "interim"
	KindFinal   Kind = "final"
)

// Event is a caption update delivered to subscribers.
type Event struct {
	Kind        Kind
	UtteranceID string
	Text        string
}

// Entry is a stored final transcript.
type Entry struct {
	Timestamp   time.Time
	UtteranceID string
	Text        string
}

// MemoryStore keeps a bounded window of final transcripts plus the live
// interim hypothesis, and broadcasts events non-blocking.
type MemoryStore struct {
	mu       sync.RWMutex
	entries  []Entry
	maxSize  int
	interim  string
	eventsCh chan Event
	now      func() time.Time
}

// NewStore creates a store bounded to maxEntries finals.
func NewStore(maxEntries, eventBuffer int) *MemoryStore {
	return &MemoryStore{
		entries:  make([]Entry, 0, maxEntries),
		maxSize:  maxEntries,
		eventsCh: make(chan Event, eventBuffer),
		now:      time.Now,
	}
}

// Apply records an event and emits it to subscribers. Finals are stored and
// clear the live interim; interims only replace the live line.
func (s *MemoryStore) Apply(ev Event) {
	s.mu.Lock()
	switch ev.Kind {
	case KindFinal:
		s.entries = append(s.entries, Entry{
			Timestamp:   s.now(),
			UtteranceID: ev.UtteranceID,
			Text:        ev.Text,
		})
		if len(s.entries) > s.maxSize {
			s.entries = s.entries[len(s.entries)-s.maxSize:]
		}
		s.interim = ""
	case KindInterim:
		s.interim = ev.Text
	}
	s.mu.Unlock()

	s.Emit(ev)
}

// GetRecent returns finals from the last N seconds, newest last, with the
// live interim appended when present.
func (s *MemoryStore) GetRecent(seconds int) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cutoff := s.now().Add(-time.Duration(seconds) * time.Second)
	var parts []string
	for _, e := range s.entries {
		if !e.Timestamp.Before(cutoff) {
			parts = append(parts, e.Text)
		}
	}
	if s.interim != "" {
		parts = append(parts, s.interim)
	}
	return strings.Join(parts, "\n")
}

// Interim returns the live hypothesis, empty between utterances.
func (s *MemoryStore) Interim() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.interim
}

// Events returns the subscriber channel.
func (s *MemoryStore) Events() <-chan Event {
	return s.eventsCh
}

// Emit sends an event without blocking. A full buffer drops the event; the
// stored transcript remains authoritative.
func (s *MemoryStore) Emit(ev Event) {
	select {
	case s.eventsCh <- ev:
	default:
	}
}

// Entries returns a copy of stored finals.
func (s *MemoryStore) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]Entry, len(s.entries))
	copy(result, s.entries)
	return result
}
