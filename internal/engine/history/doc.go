// Package history keeps the bounded log of calculations with undo and redo.
//
// The History type holds two sequences:
//   - done: the chronological log, never longer than the configured capacity
//   - undone: a LIFO stack of entries removed by Undo, available to Redo
//
// # Capacity
//
// When an Add pushes the log past its capacity, entries are evicted from the
// oldest end. The relative order of the survivors never changes:
//
//	h, _ := history.New(3)
//	// add a, b, c, d -> Items() is b, c, d
//
// # Undo and Redo
//
// Undo moves the newest entry onto the redo stack; Redo moves it back.
// Any Add or Restore clears the redo stack.
//
// # Snapshots
//
// CreateSnapshot returns a Memento, an independent copy of the log. Restore
// replaces the log with the memento's contents:
//
//	m := h.CreateSnapshot()
//	// ... more edits ...
//	h.Restore(m)
//
// # Persistence
//
// SaveTo writes the log as CSV with header id,operation,a,b,result,timestamp.
// Load reads such a file on a best-effort basis and reports a LoadOutcome
// instead of an error; LoadFrom reduces the outcome to a count.
package history
