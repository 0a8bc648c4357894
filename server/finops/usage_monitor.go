// Package finops tracks AI upstream usage so operators can see call volume,
// failure mix, and latency per operation without external tooling.
package finops

import (
	"sync"
	"time"

	qerrors "github.com/hrygo/quizflow/internal/errors"
)

// Operation is a class of AI upstream call.
type Operation string

const (
	OpEmbedding  Operation = "embedding"
	OpCompletion Operation = "completion"
)

type operationStats struct {
	calls          int64
	errors         int64
	rateLimited    int64
	totalLatencyMs int64
}

// OperationReport is a point-in-time summary for one operation class.
type OperationReport struct {
	Operation    Operation `json:"operation"`
	Calls        int64     `json:"calls"`
	Errors       int64     `json:"errors"`
	RateLimited  int64     `json:"rateLimited"`
	AvgLatencyMs int64     `json:"avgLatencyMs"`
}

// Monitor accumulates in-memory usage counters. Counters reset on restart;
// durable cost accounting belongs to the billing side of the upstream.
type Monitor struct {
	mu    sync.Mutex
	stats map[Operation]*operationStats
}

// NewMonitor creates an empty usage monitor.
func NewMonitor() *Monitor {
	return &Monitor{stats: make(map[Operation]*operationStats)}
}

// Record accounts one upstream call. Rate-limited calls are counted apart
// from other errors because they indicate quota pressure, not breakage.
func (m *Monitor) Record(op Operation, latency time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats, ok := m.stats[op]
	if !ok {
		stats = &operationStats{}
		m.stats[op] = stats
	}
	stats.calls++
	stats.totalLatencyMs += latency.Milliseconds()
	if err != nil {
		if qerrors.IsCode(err, qerrors.ErrCodeRateLimitExceeded) {
			stats.rateLimited++
		} else {
			stats.errors++
		}
	}
}

// Report returns the current summary, one entry per operation seen.
func (m *Monitor) Report() []OperationReport {
	m.mu.Lock()
	defer m.mu.Unlock()

	report := make([]OperationReport, 0, len(m.stats))
	for _, op := range []Operation{OpEmbedding, OpCompletion} {
		stats, ok := m.stats[op]
		if !ok {
			continue
		}
		entry := OperationReport{
			Operation:   op,
			Calls:       stats.calls,
			Errors:      stats.errors,
			RateLimited: stats.rateLimited,
		}
		if stats.calls > 0 {
			entry.AvgLatencyMs = stats.totalLatencyMs / stats.calls
		}
		report = append(report, entry)
	}
	return report
}
