// Package queue holds math commands for deferred execution.
//
// Commands are queued with Enqueue and executed in FIFO order by RunAll.
// A failing command does not stop the run; its error is reported in the
// matching Outcome.
//
//	q := queue.New()
//	q.Enqueue(queue.Command{Op: "add", A: 2, B: 3})
//	outcomes, err := q.RunAll(calc)
package queue

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dshills/keycalc/internal/engine/calculation"
)

// ErrNilExecutor is returned when RunAll is given no executor.
var ErrNilExecutor = errors.New("queue: executor cannot be nil")

// Executor runs one math command.
type Executor interface {
	Execute(op string, a, b float64) (calculation.Calculation, error)
}

// Command is a deferred math operation.
type Command struct {
	Op string
	A  float64
	B  float64
}

// String renders the command as "op a b".
func (c Command) String() string {
	return fmt.Sprintf("%s %s %s", c.Op, calculation.FormatNumber(c.A), calculation.FormatNumber(c.B))
}

// Outcome is the result of running one queued command.
type Outcome struct {
	Command     Command
	Calculation calculation.Calculation
	Err         error
}

// OK reports whether the command succeeded.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Queue is a FIFO of pending commands.
type Queue struct {
	mu    sync.Mutex
	items []Command
}

// New creates an empty queue.
func New() *Queue {
	return &Queue{}
}

// Enqueue appends cmd to the queue.
func (q *Queue) Enqueue(cmd Command) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, cmd)
}

// Len returns the number of pending commands.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Items returns a copy of the pending commands.
func (q *Queue) Items() []Command {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Command, len(q.items))
	copy(out, q.items)
	return out
}

// List renders the pending commands as numbered lines starting at 1.
func (q *Queue) List() []string {
	items := q.Items()
	lines := make([]string, len(items))
	for i, cmd := range items {
		lines[i] = fmt.Sprintf("%d. %s", i+1, cmd)
	}
	return lines
}

// Clear drops every pending command and returns how many were dropped.
func (q *Queue) Clear() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := len(q.items)
	q.items = nil
	return n
}

// RunAll drains the queue, executing each command in order.
// The queue is empty when RunAll returns.
func (q *Queue) RunAll(exec Executor) ([]Outcome, error) {
	if exec == nil {
		return nil, ErrNilExecutor
	}

	q.mu.Lock()
	pending := q.items
	q.items = nil
	q.mu.Unlock()

	outcomes := make([]Outcome, 0, len(pending))
	for _, cmd := range pending {
		calc, err := exec.Execute(cmd.Op, cmd.A, cmd.B)
		outcomes = append(outcomes, Outcome{Command: cmd, Calculation: calc, Err: err})
	}
	return outcomes, nil
}
