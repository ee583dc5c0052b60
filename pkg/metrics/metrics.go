// Package metrics exposes Prometheus instrumentation for ledger operations.
package metrics

import (
	"errors"
	"time"

	"github.com/amirasaad/goldvault/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Ledger holds the collectors for ledger operations.
type Ledger struct {
	operations *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	retries    *prometheus.CounterVec
	oracle     *prometheus.CounterVec
}

// NewLedger creates the collectors and registers them with reg.
// A nil reg leaves them unregistered, which is what tests want.
func NewLedger(reg prometheus.Registerer) *Ledger {
	m := &Ledger{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "goldvault",
			Subsystem: "ledger",
			Name:      "operations_total",
			Help:      "Ledger operations by operation and outcome.",
		}, []string{"op", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "goldvault",
			Subsystem: "ledger",
			Name:      "operation_duration_seconds",
			Help:      "Latency of ledger operations including price lookup.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
		retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "goldvault",
			Subsystem: "ledger",
			Name:      "conflict_retries_total",
			Help:      "Optimistic concurrency retries by operation.",
		}, []string{"op"}),
		oracle: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "goldvault",
			Subsystem: "oracle",
			Name:      "failures_total",
			Help:      "Price oracle failures by source.",
		}, []string{"source"}),
	}
	if reg != nil {
		reg.MustRegister(m.operations, m.latency, m.retries, m.oracle)
	}
	return m
}

// Observe records one finished operation.
func (m *Ledger) Observe(op string, started time.Time, err error) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(op, Outcome(err)).Inc()
	m.latency.WithLabelValues(op).Observe(time.Since(started).Seconds())
}

// Retry records one optimistic concurrency retry.
func (m *Ledger) Retry(op string) {
	if m == nil {
		return
	}
	m.retries.WithLabelValues(op).Inc()
}

// OracleFailure records a failed price lookup.
func (m *Ledger) OracleFailure(source string) {
	if m == nil {
		return
	}
	m.oracle.WithLabelValues(source).Inc()
}

// Outcome classifies err into a low-cardinality label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrInvalidAmount), errors.Is(err, domain.ErrInvalidDestination),
		errors.Is(err, domain.ErrInvalidFrequency), errors.Is(err, domain.ErrValidation):
		return "invalid"
	case errors.Is(err, domain.ErrInsufficientFunds), errors.Is(err, domain.ErrInsufficientGold):
		return "insufficient"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, domain.ErrPriceUnavailable):
		return "price_unavailable"
	case errors.Is(err, domain.ErrPersistenceConflict):
		return "conflict"
	}
	return "error"
}
