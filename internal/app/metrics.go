package app

import (
	"sync/atomic"
	"time"

	"github.com/dshills/keyclack/internal/event/dispatch"
	"github.com/dshills/keyclack/internal/playback"
)

// Metrics counts key presses seen on the capture path.
type Metrics struct {
	presses atomic.Uint64
	dropped atomic.Uint64

	startTime time.Time
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

// RecordPress records a captured key press.
func (m *Metrics) RecordPress() {
	m.presses.Add(1)
}

// RecordDrop records a key press the dispatch queue rejected.
func (m *Metrics) RecordDrop() {
	m.dropped.Add(1)
}

// MetricsSnapshot is a point-in-time view of a session.
type MetricsSnapshot struct {
	Uptime  time.Duration
	Presses uint64
	Dropped uint64

	Dispatch dispatch.Stats
	Playback playback.Stats
}

// Snapshot combines the capture counters with dispatch and playback stats.
func (m *Metrics) Snapshot(d dispatch.Stats, p playback.Stats) MetricsSnapshot {
	return MetricsSnapshot{
		Uptime:   time.Since(m.startTime),
		Presses:  m.presses.Load(),
		Dropped:  m.dropped.Load(),
		Dispatch: d,
		Playback: p,
	}
}
