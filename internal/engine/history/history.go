package history

import (
	"sync"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"

	"github.com/dshills/keycalc/internal/engine/calculation"
)

// Calculation is an alias for calculation.Calculation for convenience.
type Calculation = calculation.Calculation

// History manages the calculation log and its redo stack.
type History struct {
	mu sync.Mutex

	done   []Calculation
	undone []Calculation

	maxSize int
	enc     encoding.Encoding
}

// Option configures a History.
type Option func(*History)

// WithEncoding sets the text encoding used for CSV files.
func WithEncoding(enc encoding.Encoding) Option {
	return func(h *History) {
		if enc != nil {
			h.enc = enc
		}
	}
}

// New creates a history holding at most maxSize calculations.
func New(maxSize int, opts ...Option) (*History, error) {
	if maxSize <= 0 {
		return nil, ErrInvalidCapacity
	}
	h := &History{
		maxSize: maxSize,
		enc:     unicode.UTF8,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// Add appends a stamped copy of c and clears the redo stack.
// The oldest entries are evicted when capacity is exceeded.
func (h *History) Add(c Calculation) error {
	if c.Operation == "" {
		return ErrInvalidRecord
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.addLocked(c)
	return nil
}

func (h *History) addLocked(c Calculation) {
	h.undone = nil
	h.done = append(h.done, c.WithIdentity())

	if excess := len(h.done) - h.maxSize; excess > 0 {
		// Copy so evicted entries are not pinned by the backing array.
		h.done = append([]Calculation(nil), h.done[excess:]...)
	}
}

// Extend adds each calculation in order.
func (h *History) Extend(calcs []Calculation) error {
	for _, c := range calcs {
		if err := h.Add(c); err != nil {
			return err
		}
	}
	return nil
}

// Undo removes the newest calculation and pushes it onto the redo stack.
func (h *History) Undo() (Calculation, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.done) == 0 {
		return Calculation{}, ErrNothingToUndo
	}
	c := h.done[len(h.done)-1]
	h.done = h.done[:len(h.done)-1]
	h.undone = append(h.undone, c)
	return c, nil
}

// Redo moves the most recently undone calculation back onto the log.
func (h *History) Redo() (Calculation, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.undone) == 0 {
		return Calculation{}, ErrNothingToRedo
	}
	c := h.undone[len(h.undone)-1]
	h.undone = h.undone[:len(h.undone)-1]
	h.done = append(h.done, c)
	return c, nil
}

// Clear removes all calculations and the redo stack.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.done = nil
	h.undone = nil
}

// Size returns the number of calculations in the log.
func (h *History) Size() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.done)
}

// IsEmpty returns true if the log is empty.
func (h *History) IsEmpty() bool {
	return h.Size() == 0
}

// Items returns a copy of the log, oldest first.
func (h *History) Items() []Calculation {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]Calculation, len(h.done))
	copy(out, h.done)
	return out
}

// RedoCount returns the number of redo operations available.
func (h *History) RedoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undone)
}

// MaxSize returns the capacity.
func (h *History) MaxSize() int {
	return h.maxSize
}
