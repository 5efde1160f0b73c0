package logcapture

import (
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/kidpech/runtime_logviewer/internal/infrastructure/logging"
)

// Facility is the global multi-subscriber log source the sink attaches to.
type Facility interface {
	AddListener(l logging.Listener)
	RemoveListener(l logging.Listener)
}

// Service owns the store lifecycle: sink registration at start, best-effort
// export and teardown at shutdown.
type Service struct {
	store            *Store
	facility         Facility
	logger           *zap.Logger
	exportOnShutdown bool

	mu      sync.Mutex
	sink    *Sink
	started bool
	stopped bool
}

// NewService wires a Service.
func NewService(store *Store, facility Facility, logger *zap.Logger, exportOnShutdown bool) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:            store,
		facility:         facility,
		logger:           logger,
		exportOnShutdown: exportOnShutdown,
	}
}

// Store exposes the underlying history for readers.
func (s *Service) Store() *Store {
	return s.store
}

// Start registers the sink with the facility. It may be called once.
func (s *Service) Start() error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.started = true
	s.sink = NewSink(s.store)
	if s.facility != nil {
		s.facility.AddListener(s.sink)
	}
	s.mu.Unlock()

	s.logger.Info("log capture initialized", zap.Int("max_count", s.store.MaxCount()))
	return nil
}

// Shutdown deregisters the sink, flushes the history to disk when configured
// and closes the store. Later calls are no-ops.
func (s *Service) Shutdown() {
	s.mu.Lock()
	if !s.started || s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	sink := s.sink
	s.sink = nil
	s.mu.Unlock()

	if s.facility != nil && sink != nil {
		s.facility.RemoveListener(sink)
	}
	if s.exportOnShutdown {
		if _, err := s.store.ExportToFile(""); err != nil && !errors.Is(err, ErrNothingToExport) {
			s.logger.Warn("shutdown log export failed", zap.Error(err))
		}
	}
	s.store.Close()
}

// Export is the operator command: export with a generated name. The path is
// only reported through the log.
func (s *Service) Export() error {
	_, err := s.store.ExportToFile("")
	return err
}
