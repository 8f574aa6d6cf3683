// Package health tracks service liveness for the health endpoint.
package health

import (
	"sync"
	"time"
)

// Status is the health endpoint payload. OK drives the client-side
// reachability probe; the remaining fields are for humans and
// monitoring tools.
type Status struct {
	OK             bool   `json:"ok"`
	Uptime         string `json:"uptime"`
	LastWriteTime  string `json:"last_write_time"`
	LastWriteScope string `json:"last_write_scope"`
}

// Monitor tracks uptime and the most recent data write.
//
// Thread-safety:
//   - All fields are protected by RWMutex
//   - Safe for concurrent updates from request handlers
type Monitor struct {
	startTime      time.Time
	lastWriteTime  time.Time
	lastWriteScope string
	mu             sync.RWMutex
}

// NewMonitor creates a monitor with the clock started now.
func NewMonitor() *Monitor {
	return &Monitor{
		startTime:      time.Now(),
		lastWriteScope: "none",
	}
}

// RecordWrite notes that the named resource was just modified.
func (m *Monitor) RecordWrite(scope string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastWriteTime = time.Now()
	m.lastWriteScope = scope
}

// GetStatus returns the current health status. OK is always true while
// the process is serving; an unreachable service simply never answers.
func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	lastWrite := ""
	if !m.lastWriteTime.IsZero() {
		lastWrite = m.lastWriteTime.Format("2006-01-02 15:04:05")
	}

	return Status{
		OK:             true,
		Uptime:         time.Since(m.startTime).String(),
		LastWriteTime:  lastWrite,
		LastWriteScope: m.lastWriteScope,
	}
}
