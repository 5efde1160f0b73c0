package logcapture

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultMaxCount bounds the history when no explicit limit is configured.
const DefaultMaxCount = 1000

// Sentinel errors for export and lifecycle outcomes.
var (
	ErrNothingToExport   = errors.New("nothing to export")
	ErrExportWrite       = errors.New("export write failed")
	ErrExportUnavailable = errors.New("export not configured")
	ErrAlreadyStarted    = errors.New("log capture already started")
)

// Recorder observes store activity, typically for metrics.
type Recorder interface {
	Captured(severity Severity)
	Evicted()
	Exported(result string)
}

type nopRecorder struct{}

func (nopRecorder) Captured(Severity) {}
func (nopRecorder) Evicted() {}
func (nopRecorder) Exported(string) {}

// Store keeps the most recent captured entries, oldest first.
type Store struct {
	mu       sync.Mutex
	entries  []Entry
	maxCount int

	exporter *Exporter
	recorder Recorder
	closed   atomic.Bool
	now      func() time.Time
}

// NewStore builds a store bounded at maxCount entries. exporter and recorder
// may be nil.
func NewStore(maxCount int, exporter *Exporter, recorder Recorder) *Store {
	if maxCount <= 0 {
		maxCount = DefaultMaxCount
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Store{
		entries:  make([]Entry, 0, maxCount),
		maxCount: maxCount,
		exporter: exporter,
		recorder: recorder,
		now:      time.Now,
	}
}

// Append records message. Empty messages are discarded. At capacity the
// single oldest entry is evicted first.
func (s *Store) Append(message string, severity Severity, category string) {
	if message == "" {
		return
	}
	s.mu.Lock()
	evicted := false
	if len(s.entries) >= s.maxCount {
		s.entries = s.entries[1:]
		evicted = true
	}
	s.entries = append(s.entries, Entry{
		Message:   message,
		Category:  category,
		Severity:  severity,
		Timestamp: s.now().UTC(),
	})
	s.mu.Unlock()

	if evicted {
		s.recorder.Evicted()
	}
	s.recorder.Captured(severity)
}

// Snapshot returns a copy of the history in chronological order.
func (s *Store) Snapshot() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len returns the number of retained entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// MaxCount returns the retention bound.
func (s *Store) MaxCount() int {
	return s.maxCount
}

// ExportToFile writes the current history to a text file and returns its
// path. The lock is released before any I/O happens.
func (s *Store) ExportToFile(name string) (string, error) {
	if s.exporter == nil {
		return "", ErrExportUnavailable
	}
	path, err := s.exporter.Export(s.Snapshot(), name)
	switch {
	case err == nil:
		s.recorder.Exported("ok")
	case errors.Is(err, ErrNothingToExport):
		s.recorder.Exported("empty")
	default:
		s.recorder.Exported("error")
	}
	return path, err
}

// Close marks the store as torn down. Sinks stop forwarding afterwards.
func (s *Store) Close() {
	s.closed.Store(true)
}

// Closed reports whether Close was called.
func (s *Store) Closed() bool {
	return s.closed.Load()
}
