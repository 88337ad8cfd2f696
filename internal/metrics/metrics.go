package metrics

import (
	"sync"
	"time"
)

// Metrics collects per-run counters, surfaced via the monitoring endpoints.
type Metrics struct {
	mu sync.RWMutex

	// Counters
	CandidatesFound    int64
	FreshCandidates    int64
	DuplicatesSkipped  int64
	UnparseableDates   int64
	DetailFetchFailed  int64
	MessagesDelivered  int64
	FallbackDeliveries int64
	DeliveryFailures   int64

	// Timings
	LastRunDuration time.Duration

	// Status
	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

var Global = &Metrics{IsHealthy: true}

func (m *Metrics) AddCandidatesFound(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CandidatesFound += int64(n)
}

func (m *Metrics) IncrementFresh() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FreshCandidates++
}

func (m *Metrics) IncrementDuplicates() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DuplicatesSkipped++
}

func (m *Metrics) IncrementUnparseableDates() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UnparseableDates++
}

func (m *Metrics) IncrementDetailFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DetailFetchFailed++
}

func (m *Metrics) IncrementDelivered() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MessagesDelivered++
}

func (m *Metrics) IncrementFallbacks() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FallbackDeliveries++
}

func (m *Metrics) IncrementDeliveryFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeliveryFailures++
}

func (m *Metrics) RecordRun(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRunDuration = duration
	m.LastRunTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"candidates_found":     m.CandidatesFound,
		"fresh_candidates":     m.FreshCandidates,
		"duplicates_skipped":   m.DuplicatesSkipped,
		"unparseable_dates":    m.UnparseableDates,
		"detail_fetch_failed":  m.DetailFetchFailed,
		"messages_delivered":   m.MessagesDelivered,
		"fallback_deliveries":  m.FallbackDeliveries,
		"delivery_failures":    m.DeliveryFailures,
		"last_run_duration_ms": m.LastRunDuration.Milliseconds(),
		"last_run_time":        m.LastRunTime.Format(time.RFC3339),
		"last_error_time":      m.LastErrorTime.Format(time.RFC3339),
		"last_error":           m.LastError,
		"is_healthy":           m.IsHealthy,
	}
}
