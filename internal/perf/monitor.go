// Package perf tracks encode/decode latency and message size against the
// codec's published targets. In-memory only; a monitor lives for one
// measurement session and is reset between sessions.
package perf

import (
	"sync"
	"time"

	"github.com/montanaflynn/stats"
)

// BaselineJSONMillis is the measured latency of the JSON messaging path the
// codec replaces. The speedup against it is reported per run, never
// asserted: it is a regression-tracked metric, not a gate.
const BaselineJSONMillis = 25.7

// MaxMessageBytes is the ceiling used as the compression-ratio denominator.
const MaxMessageBytes = 8192

// Snapshot is a point-in-time view of the running statistics.
type Snapshot struct {
	Trials           int     `json:"trials"`
	AvgEncodeMillis  float64 `json:"avg_encode_ms"`
	AvgDecodeMillis  float64 `json:"avg_decode_ms"`
	AvgTotalMillis   float64 `json:"avg_total_ms"`
	P95TotalMillis   float64 `json:"p95_total_ms"`
	AvgSizeBytes     float64 `json:"avg_size_bytes"`
	CompressionRatio float64 `json:"compression_ratio"`
	SpeedupVsJSON    float64 `json:"speedup_vs_json"`
}

// Monitor accumulates per-trial measurements. Safe for concurrent use: the
// codec itself is pure, so this mutex is the codec path's only lock.
type Monitor struct {
	mu      sync.Mutex
	encode  []float64
	decode  []float64
	total   []float64
	sizes   []float64
}

// NewMonitor returns an empty monitor.
func NewMonitor() *Monitor {
	return &Monitor{}
}

// RecordTrial adds one encode/decode measurement.
func (m *Monitor) RecordTrial(encodeTime, decodeTime time.Duration, sizeBytes int) {
	encMs := float64(encodeTime) / float64(time.Millisecond)
	decMs := float64(decodeTime) / float64(time.Millisecond)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.encode = append(m.encode, encMs)
	m.decode = append(m.decode, decMs)
	m.total = append(m.total, encMs+decMs)
	m.sizes = append(m.sizes, float64(sizeBytes))
}

// Trials returns the number of recorded trials.
func (m *Monitor) Trials() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.total)
}

// Reset drops all recorded trials.
func (m *Monitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.encode = nil
	m.decode = nil
	m.total = nil
	m.sizes = nil
}

// Snapshot computes the session statistics so far.
func (m *Monitor) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{Trials: len(m.total)}
	if snap.Trials == 0 {
		return snap
	}

	snap.AvgEncodeMillis, _ = stats.Mean(m.encode)
	snap.AvgDecodeMillis, _ = stats.Mean(m.decode)
	snap.AvgTotalMillis, _ = stats.Mean(m.total)
	snap.P95TotalMillis, _ = stats.Percentile(m.total, 95)
	snap.AvgSizeBytes, _ = stats.Mean(m.sizes)

	if snap.AvgSizeBytes > 0 {
		snap.CompressionRatio = MaxMessageBytes / snap.AvgSizeBytes
	}
	if snap.AvgTotalMillis > 0 {
		snap.SpeedupVsJSON = BaselineJSONMillis / snap.AvgTotalMillis
	}
	return snap
}
