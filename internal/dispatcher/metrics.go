package dispatcher

import (
	"sort"
	"sync"
	"time"

	"github.com/dshills/keycalc/internal/dispatcher/handler"
)

// Metrics collects dispatch statistics.
type Metrics struct {
	mu sync.RWMutex

	// Per-command metrics
	commands map[string]*CommandMetrics

	// Global counters
	totalDispatches uint64
	totalErrors     uint64
	totalPanics     uint64
	totalUnknown    uint64

	// Timing
	totalDuration time.Duration
}

// CommandMetrics holds metrics for a specific command.
type CommandMetrics struct {
	Name          string
	DispatchCount uint64
	ErrorCount    uint64
	TotalDuration time.Duration
	MaxDuration   time.Duration
	LastStatus    handler.ResultStatus
	LastDispatch  time.Time
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{
		commands: make(map[string]*CommandMetrics),
	}
}

// RecordDispatch records a dispatch event.
func (m *Metrics) RecordDispatch(name string, duration time.Duration, status handler.ResultStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalDispatches++
	m.totalDuration += duration

	switch status {
	case handler.StatusError:
		m.totalErrors++
	case handler.StatusUnknown:
		m.totalUnknown++
		return
	}

	cm := m.commands[name]
	if cm == nil {
		cm = &CommandMetrics{Name: name}
		m.commands[name] = cm
	}

	cm.DispatchCount++
	cm.TotalDuration += duration
	cm.LastStatus = status
	cm.LastDispatch = time.Now()

	if duration > cm.MaxDuration {
		cm.MaxDuration = duration
	}
	if status == handler.StatusError {
		cm.ErrorCount++
	}
}

// RecordPanic records a panic recovery.
func (m *Metrics) RecordPanic(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.totalPanics++
}

// TopCommands returns the n most dispatched commands.
func (m *Metrics) TopCommands(n int) []*CommandMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	commands := make([]*CommandMetrics, 0, len(m.commands))
	for _, cm := range m.commands {
		c := *cm
		commands = append(commands, &c)
	}

	sort.Slice(commands, func(i, j int) bool {
		if commands[i].DispatchCount != commands[j].DispatchCount {
			return commands[i].DispatchCount > commands[j].DispatchCount
		}
		return commands[i].Name < commands[j].Name
	})

	if n > len(commands) {
		n = len(commands)
	}
	return commands[:n]
}

// MetricsSnapshot is a point-in-time copy of the global counters.
type MetricsSnapshot struct {
	TotalDispatches uint64
	TotalErrors     uint64
	TotalPanics     uint64
	TotalUnknown    uint64
	AverageDuration time.Duration
	CommandCount    int
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snapshot := MetricsSnapshot{
		TotalDispatches: m.totalDispatches,
		TotalErrors:     m.totalErrors,
		TotalPanics:     m.totalPanics,
		TotalUnknown:    m.totalUnknown,
		CommandCount:    len(m.commands),
	}
	if m.totalDispatches > 0 {
		snapshot.AverageDuration = m.totalDuration / time.Duration(m.totalDispatches)
	}
	return snapshot
}

// AverageDuration returns the average duration for the command.
func (cm *CommandMetrics) AverageDuration() time.Duration {
	if cm.DispatchCount == 0 {
		return 0
	}
	return cm.TotalDuration / time.Duration(cm.DispatchCount)
}

// ErrorRate returns the error rate as a percentage.
func (cm *CommandMetrics) ErrorRate() float64 {
	if cm.DispatchCount == 0 {
		return 0
	}
	return float64(cm.ErrorCount) / float64(cm.DispatchCount) * 100
}
