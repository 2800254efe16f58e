// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds every collector of the server.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	rpcRequests     *prometheus.CounterVec
	rpcDuration     *prometheus.HistogramVec
	cacheLookups    *prometheus.CounterVec
	accessDenied    *prometheus.CounterVec
	ledgerMutations *prometheus.CounterVec
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		rpcRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ledgerbook",
			Name:      "rpc_requests_total",
			Help:      "RPC calls by procedure and result code.",
		}, []string{"procedure", "code"}),
		rpcDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ledgerbook",
			Name:      "rpc_duration_seconds",
			Help:      "RPC handling latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
		cacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ledgerbook",
			Name:      "access_cache_lookups_total",
			Help:      "Visible-books cache lookups by result (hit, miss).",
		}, []string{"result"}),
		accessDenied: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ledgerbook",
			Name:      "access_denied_total",
			Help:      "Denied authorization checks by kind (view, manage, owner).",
		}, []string{"check"}),
		ledgerMutations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ledgerbook",
			Name:      "ledger_mutations_total",
			Help:      "Successful transaction writes by operation.",
		}, []string{"op"}),
	}
}

// ObserveRPC records one finished call. code is "ok" on success.
func (m *Metrics) ObserveRPC(procedure, code string, d time.Duration) {
	if m == nil {
		return
	}
	m.rpcRequests.WithLabelValues(procedure, code).Inc()
	m.rpcDuration.WithLabelValues(procedure).Observe(d.Seconds())
}

// CacheLookup records a visible-books cache hit or miss.
func (m *Metrics) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// Denied records a failed authorization check.
func (m *Metrics) Denied(check string) {
	if m == nil {
		return
	}
	m.accessDenied.WithLabelValues(check).Inc()
}

// LedgerMutation records a successful create, update or delete.
func (m *Metrics) LedgerMutation(op string) {
	if m == nil {
		return
	}
	m.ledgerMutations.WithLabelValues(op).Inc()
}
