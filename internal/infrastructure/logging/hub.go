package logging

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap/zapcore"
)

// Verbosity is the level set callbacks receive from the Hub.
type Verbosity uint8

const (
	VerbosityNone Verbosity = iota
	VerbosityFatal
	VerbosityError
	VerbosityWarning
	VerbosityDisplay
	VerbosityLog
	VerbosityVerbose
	VerbosityVeryVerbose
)

// DefaultCategory is used for loggers built without a name.
const DefaultCategory = "app"

// Listener receives every line written through the Hub. Receive may be called
// concurrently from any goroutine.
type Listener interface {
	Receive(text string, verbosity Verbosity, category string)
}

// Hub is a process-wide, multi-subscriber log facility. It implements
// zapcore.Core so it can be teed next to the regular output core.
type Hub struct {
	mu        sync.RWMutex
	listeners []Listener
}

// NewHub builds an empty hub.
func NewHub() *Hub {
	return &Hub{}
}

// AddListener subscribes l. Adding the same listener twice is a no-op.
func (h *Hub) AddListener(l Listener) {
	if l == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, existing := range h.listeners {
		if existing == l {
			return
		}
	}
	h.listeners = append(h.listeners, l)
}

// RemoveListener unsubscribes l.
func (h *Hub) RemoveListener(l Listener) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, existing := range h.listeners {
		if existing == l {
			h.listeners = append(h.listeners[:i:i], h.listeners[i+1:]...)
			return
		}
	}
}

// Listeners returns the number of subscribed listeners.
func (h *Hub) Listeners() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.listeners)
}

// Emit dispatches a line directly, bypassing zap. Useful for producers that
// need levels zap has no equivalent for (Display).
func (h *Hub) Emit(verbosity Verbosity, category, text string) {
	if category == "" {
		category = DefaultCategory
	}
	// listeners run outside the lock; they may log again
	h.mu.RLock()
	targets := make([]Listener, len(h.listeners))
	copy(targets, h.listeners)
	h.mu.RUnlock()
	for _, l := range targets {
		l.Receive(text, verbosity, category)
	}
}

// Enabled implements zapcore.LevelEnabler. Every level is forwarded; the
// regular output core does its own level filtering.
func (h *Hub) Enabled(zapcore.Level) bool {
	return true
}

// With implements zapcore.Core.
func (h *Hub) With(fields []zapcore.Field) zapcore.Core {
	return &hubView{hub: h, fields: append([]zapcore.Field(nil), fields...)}
}

// Check implements zapcore.Core.
func (h *Hub) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	return ce.AddCore(ent, h)
}

// Write implements zapcore.Core.
func (h *Hub) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	h.Emit(VerbosityFromZap(ent.Level), ent.LoggerName, renderText(ent.Message, nil, fields))
	return nil
}

// Sync implements zapcore.Core.
func (h *Hub) Sync() error {
	return nil
}

// hubView carries logger-scoped fields while sharing the hub's listener set.
type hubView struct {
	hub    *Hub
	fields []zapcore.Field
}

func (v *hubView) Enabled(zapcore.Level) bool { return true }

func (v *hubView) With(fields []zapcore.Field) zapcore.Core {
	return &hubView{hub: v.hub, fields: append(v.fields[:len(v.fields):len(v.fields)], fields...)}
}

func (v *hubView) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	return ce.AddCore(ent, v)
}

func (v *hubView) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	v.hub.Emit(VerbosityFromZap(ent.Level), ent.LoggerName, renderText(ent.Message, v.fields, fields))
	return nil
}

func (v *hubView) Sync() error { return nil }

// VerbosityFromZap maps zap levels onto the hub's verbosity scale. Levels
// below Debug are treated as VeryVerbose.
func VerbosityFromZap(lvl zapcore.Level) Verbosity {
	switch {
	case lvl >= zapcore.DPanicLevel:
		return VerbosityFatal
	case lvl == zapcore.ErrorLevel:
		return VerbosityError
	case lvl == zapcore.WarnLevel:
		return VerbosityWarning
	case lvl == zapcore.InfoLevel:
		return VerbosityLog
	case lvl == zapcore.DebugLevel:
		return VerbosityVerbose
	default:
		return VerbosityVeryVerbose
	}
}

// renderText appends structured fields as sorted key=value pairs.
func renderText(msg string, scoped, fields []zapcore.Field) string {
	if len(scoped) == 0 && len(fields) == 0 {
		return msg
	}
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range scoped {
		f.AddTo(enc)
	}
	for _, f := range fields {
		f.AddTo(enc)
	}
	keys := make([]string, 0, len(enc.Fields))
	for k := range enc.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString(msg)
	for _, k := range keys {
		b.WriteByte(' ')
		b.WriteString(k)
		b.WriteByte('=')
		fmt.Fprint(&b, enc.Fields[k])
	}
	return b.String()
}
