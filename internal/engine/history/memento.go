package history

import "time"

// Memento is a point-in-time copy of the log. It shares no memory with
// the History it was taken from.
type Memento struct {
	done    []Calculation
	takenAt time.Time
}

// Items returns a copy of the captured calculations.
func (m Memento) Items() []Calculation {
	out := make([]Calculation, len(m.done))
	copy(out, m.done)
	return out
}

// Len returns the number of captured calculations.
func (m Memento) Len() int {
	return len(m.done)
}

// TakenAt returns when the snapshot was created.
func (m Memento) TakenAt() time.Time {
	return m.takenAt
}

// CreateSnapshot captures the current log.
func (h *History) CreateSnapshot() Memento {
	return Memento{done: h.Items(), takenAt: time.Now()}
}

// Restore replaces the log with the memento's contents and clears the
// redo stack. Entries beyond capacity are evicted from the oldest end.
func (h *History) Restore(m Memento) {
	done := m.Items()
	if excess := len(done) - h.maxSize; excess > 0 {
		done = done[excess:]
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.undone = nil
	h.done = done
}
