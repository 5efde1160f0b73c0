package console

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ExportCommand is the zero-argument command that writes the log history.
const ExportCommand = "logviewer.export"

var (
	ErrUnknownCommand   = errors.New("unknown console command")
	ErrDuplicateCommand = errors.New("console command already registered")
)

// Command is a zero-argument operator action.
type Command struct {
	Name string       `json:"name"`
	Help string       `json:"help"`
	Run  func() error `json:"-"`
}

// Registry holds operator commands by case-insensitive name.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]Command
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]Command)}
}

// Register adds cmd. Names are unique.
func (r *Registry) Register(cmd Command) error {
	key := strings.ToLower(strings.TrimSpace(cmd.Name))
	if key == "" || cmd.Run == nil {
		return fmt.Errorf("console command needs a name and a handler")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.commands[key]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateCommand, cmd.Name)
	}
	r.commands[key] = cmd
	return nil
}

// Execute runs the named command.
func (r *Registry) Execute(name string) error {
	r.mu.RLock()
	cmd, ok := r.commands[strings.ToLower(strings.TrimSpace(name))]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	return cmd.Run()
}

// List returns the registered commands sorted by name.
func (r *Registry) List() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		out = append(out, cmd)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
