package dispatch

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrHandlerExists = errors.New("dispatch: handler already registered")
	ErrHandlerNil    = errors.New("dispatch: handler is nil")
	ErrInvalidIntent = errors.New("dispatch: invalid intent name")
)

// Registry stores intent handlers by stable intent name.
type Registry struct {
	items map[string]Handler
}

func NewRegistry() *Registry {
	return &Registry{items: make(map[string]Handler)}
}

// Register adds a handler. Duplicate and empty intent names are
// rejected so registration mistakes fail at startup, not at dispatch.
func (r *Registry) Register(h Handler) error {
	if h == nil {
		return ErrHandlerNil
	}
	name := strings.TrimSpace(h.Name())
	if name == "" {
		return fmt.Errorf("%w: empty", ErrInvalidIntent)
	}
	if _, ok := r.items[name]; ok {
		return fmt.Errorf("%w: %s", ErrHandlerExists, name)
	}
	r.items[name] = h
	return nil
}

// Resolve returns the handler bound to one intent.
func (r *Registry) Resolve(intent string) (Handler, bool) {
	h, ok := r.items[intent]
	return h, ok
}

// Intents returns registered intent names in deterministic order.
func (r *Registry) Intents() []string {
	out := make([]string, 0, len(r.items))
	for name := range r.items {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
