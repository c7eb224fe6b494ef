package app

import (
	"sync/atomic"
	"time"
)

// Metrics counts redraws and keys for one session.
type Metrics struct {
	redrawCount   atomic.Uint64
	redrawTotalNs atomic.Int64
	redrawMaxNs   atomic.Int64
	keyCount      atomic.Uint64
	bytesWritten  atomic.Int64

	startTime time.Time
}

// NewMetrics creates a zeroed tracker.
func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

// RecordRedraw records one redraw and the output total after it.
func (m *Metrics) RecordRedraw(d time.Duration, totalBytes int64) {
	ns := d.Nanoseconds()
	m.redrawCount.Add(1)
	m.redrawTotalNs.Add(ns)
	for {
		cur := m.redrawMaxNs.Load()
		if ns <= cur || m.redrawMaxNs.CompareAndSwap(cur, ns) {
			break
		}
	}
	m.bytesWritten.Store(totalBytes)
}

// RecordKey counts a handled key.
func (m *Metrics) RecordKey() {
	m.keyCount.Add(1)
}

// Snapshot returns the current values.
func (m *Metrics) Snapshot() MetricsSnapshot {
	n := m.redrawCount.Load()
	var avg time.Duration
	if n > 0 {
		avg = time.Duration(m.redrawTotalNs.Load() / int64(n))
	}
	return MetricsSnapshot{
		Uptime:       time.Since(m.startTime),
		Redraws:      n,
		AvgRedraw:    avg,
		MaxRedraw:    time.Duration(m.redrawMaxNs.Load()),
		Keys:         m.keyCount.Load(),
		BytesWritten: m.bytesWritten.Load(),
	}
}

// MetricsSnapshot is a point-in-time view of Metrics.
type MetricsSnapshot struct {
	Uptime       time.Duration
	Redraws      uint64
	AvgRedraw    time.Duration
	MaxRedraw    time.Duration
	Keys         uint64
	BytesWritten int64
}

// BytesPerRedraw is the mean output per redraw.
func (s MetricsSnapshot) BytesPerRedraw() float64 {
	if s.Redraws == 0 {
		return 0
	}
	return float64(s.BytesWritten) / float64(s.Redraws)
}
