package observability

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics keeps in-process counters exposed on the health endpoint. Enough to
// watch commit throughput without an external metrics stack.
type Metrics struct {
	startedAt time.Time

	requestsTotal   atomic.Int64
	commitsTotal    atomic.Int64
	commitFailures  atomic.Int64
	ticketsAssigned atomic.Int64
	staleDropped    atomic.Int64

	mu           sync.Mutex
	lastCommit   time.Time
	backendName  string
	errorsByCode map[string]int64
}

func NewMetrics(backend string) *Metrics {
	return &Metrics{
		startedAt:    time.Now(),
		backendName:  backend,
		errorsByCode: make(map[string]int64),
	}
}

func (m *Metrics) IncRequests() { m.requestsTotal.Add(1) }

// RecordError counts a request that ended in a domain error.
func (m *Metrics) RecordError(code string) {
	m.mu.Lock()
	m.errorsByCode[code]++
	m.mu.Unlock()
}

func (m *Metrics) RecordCommit(updated, stale int, failed bool) {
	m.commitsTotal.Add(1)
	m.ticketsAssigned.Add(int64(updated))
	m.staleDropped.Add(int64(stale))
	if failed {
		m.commitFailures.Add(1)
	}
	m.mu.Lock()
	m.lastCommit = time.Now()
	m.mu.Unlock()
}

// Snapshot returns the current counter values for serialization.
func (m *Metrics) Snapshot() map[string]any {
	m.mu.Lock()
	lastCommit := m.lastCommit
	errors := make(map[string]int64, len(m.errorsByCode))
	for code, n := range m.errorsByCode {
		errors[code] = n
	}
	m.mu.Unlock()

	out := map[string]any{
		"backend":          m.backendName,
		"uptime_seconds":   int64(time.Since(m.startedAt).Seconds()),
		"requests_total":   m.requestsTotal.Load(),
		"commits_total":    m.commitsTotal.Load(),
		"commit_failures":  m.commitFailures.Load(),
		"tickets_assigned": m.ticketsAssigned.Load(),
		"stale_dropped":    m.staleDropped.Load(),
	}
	if len(errors) > 0 {
		out["errors_by_code"] = errors
	}
	if !lastCommit.IsZero() {
		out["last_commit_at"] = lastCommit.UTC().Format(time.RFC3339)
	}
	return out
}
