// Package registry is the launcher's table of apps. The composition root
// registers every app at startup; an app is only constructed when opened.
package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// ErrNotFound is returned when no app has the requested id
var ErrNotFound = errors.New("app not found")

// Tool is a running app
type Tool interface {
	Run(ctx context.Context) error
}

// ToolFunc adapts a function to Tool
type ToolFunc func(ctx context.Context) error

func (f ToolFunc) Run(ctx context.Context) error { return f(ctx) }

// Entry binds metadata to the app constructor
type Entry struct {
	Meta Meta
	Open func() (Tool, error)
}

// Registry holds the registered apps in registration order
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Entry
	order   []string
	logger  *zap.Logger
}

// New returns an empty registry
func New(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{entries: make(map[string]Entry), logger: logger}
}

// Register adds an app. Registering an id again replaces the entry in place
// and logs a warning.
func (r *Registry) Register(e Entry) error {
	if e.Meta.ID == "" {
		return errors.New("app id is empty")
	}
	if e.Open == nil {
		return fmt.Errorf("app %s has no constructor", e.Meta.ID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[e.Meta.ID]; ok {
		r.logger.Warn("Re-registering app", zap.String("id", e.Meta.ID))
	} else {
		r.order = append(r.order, e.Meta.ID)
	}
	r.entries[e.Meta.ID] = e
	return nil
}

// MustRegister is Register for static tables
func (r *Registry) MustRegister(entries ...Entry) {
	for _, e := range entries {
		if err := r.Register(e); err != nil {
			panic(err)
		}
	}
}

// Apps returns the metadata of every app
func (r *Registry) Apps() []Meta {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Meta, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.entries[id].Meta)
	}
	return out
}

// Lookup returns the metadata of one app
func (r *Registry) Lookup(id string) (Meta, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	return e.Meta, ok
}

// Departments returns the distinct departments in order of first appearance
func (r *Registry) Departments() []Department {
	seen := make(map[string]bool)
	var out []Department
	for _, m := range r.Apps() {
		d := m.Department()
		if seen[d.ID] {
			continue
		}
		seen[d.ID] = true
		out = append(out, d)
	}
	return out
}

// ByDepartment returns the apps of a department
func (r *Registry) ByDepartment(id string) []Meta {
	var out []Meta
	for _, m := range r.Apps() {
		if m.Department().ID == id {
			out = append(out, m)
		}
	}
	return out
}

// Open constructs the app with the given id
func (r *Registry) Open(id string) (Tool, error) {
	r.mu.RLock()
	e, ok := r.entries[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	t, err := e.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", id, err)
	}
	return t, nil
}
