package logcapture

import (
	"weak"

	"github.com/kidpech/runtime_logviewer/internal/infrastructure/logging"
)

// Sink relays host log lines into a Store. It only observes the store: once
// the store is closed or collected, Receive does nothing.
type Sink struct {
	store weak.Pointer[Store]
}

// NewSink builds a sink observing store.
func NewSink(store *Store) *Sink {
	return &Sink{store: weak.Make(store)}
}

// Receive implements logging.Listener.
func (s *Sink) Receive(text string, verbosity logging.Verbosity, category string) {
	store := s.store.Value()
	if store == nil || store.Closed() {
		return
	}
	store.Append(text, SeverityFromVerbosity(verbosity), category)
}

var _ logging.Listener = (*Sink)(nil)
