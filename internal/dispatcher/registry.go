package dispatcher

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/dshills/keycalc/internal/dispatcher/handler"
)

// NoDescription is shown for live commands registered without help text.
const NoDescription = "(no description)"

// HelpEntry pairs a command name with its description.
type HelpEntry struct {
	Name        string
	Description string
}

// Registry maps case-sensitive command names to handlers.
// The last registration for a name wins. Help entries accumulate in
// registration order and may name commands that were later removed.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]handler.Handler
	help     []HelpEntry
}

// NewRegistry creates a new command registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]handler.Handler),
	}
}

// Register inserts or replaces the handler for name.
// A non-empty description is appended to the help entries.
func (r *Registry) Register(name string, h handler.Handler, description string) error {
	if name == "" || strings.ContainsFunc(name, unicode.IsSpace) {
		return fmt.Errorf("%w: name %q", ErrInvalidCommand, name)
	}
	if h == nil {
		return fmt.Errorf("%w: nil handler for %q", ErrInvalidCommand, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.handlers[name] = h
	if description != "" {
		r.help = append(r.help, HelpEntry{Name: name, Description: description})
	}
	return nil
}

// RegisterFunc registers a function as the handler for name.
func (r *Registry) RegisterFunc(name string, fn handler.HandlerFunc, description string) error {
	if fn == nil {
		return fmt.Errorf("%w: nil handler for %q", ErrInvalidCommand, name)
	}
	return r.Register(name, fn, description)
}

// Unregister removes the handler for name. Its help entries remain.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.handlers, name)
}

// Resolve returns the live handler for name, or nil.
func (r *Registry) Resolve(name string) handler.Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.handlers[name]
}

// Has returns true if a handler is registered for name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.handlers[name]
	return ok
}

// List returns all live command names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of live commands.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handlers)
}

// Clear removes every handler and help entry.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers = make(map[string]handler.Handler)
	r.help = nil
}

// HelpEntries returns the accumulated help entries in registration order.
// The result may contain stale or repeated names.
func (r *Registry) HelpEntries() []HelpEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]HelpEntry, len(r.help))
	copy(out, r.help)
	return out
}

// Describe returns one entry per live command. Described commands keep the
// position of their first help entry and the text of their latest one.
// Live commands without help follow, sorted, with NoDescription.
func (r *Registry) Describe() []HelpEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	index := make(map[string]int, len(r.help))
	out := make([]HelpEntry, 0, len(r.handlers))
	for _, e := range r.help {
		if _, live := r.handlers[e.Name]; !live {
			continue
		}
		if i, seen := index[e.Name]; seen {
			out[i].Description = e.Description
			continue
		}
		index[e.Name] = len(out)
		out = append(out, e)
	}

	var undescribed []string
	for name := range r.handlers {
		if _, ok := index[name]; !ok {
			undescribed = append(undescribed, name)
		}
	}
	sort.Strings(undescribed)
	for _, name := range undescribed {
		out = append(out, HelpEntry{Name: name, Description: NoDescription})
	}
	return out
}
