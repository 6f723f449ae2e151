// Package metrics holds the Prometheus instruments for the service. Methods
// are nil-safe so tests can pass a nil *Metrics without stubbing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	TransactionsCreated prometheus.Counter

	// Intake outcomes by document type and resulting status.
	DocumentOutcome *prometheus.CounterVec

	// Full intake duration by document type, uploads included.
	IntakeLatency *prometheus.HistogramVec

	StatusQueries prometheus.Counter
}

// New creates and registers all metrics with the default registry.
func New() *Metrics {
	return &Metrics{
		TransactionsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vouch_transactions_created_total",
			Help: "Total number of KYC transactions created",
		}),
		DocumentOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vouch_document_outcomes_total",
			Help: "Total document intake outcomes by type and status",
		}, []string{"type", "status"}),
		IntakeLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vouch_document_intake_duration_seconds",
			Help:    "Duration of a full document intake including blob writes",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"type"}),
		StatusQueries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vouch_status_queries_total",
			Help: "Total transaction status queries served",
		}),
	}
}

// IncrementTransactionsCreated records one created transaction.
func (m *Metrics) IncrementTransactionsCreated() {
	if m != nil {
		m.TransactionsCreated.Inc()
	}
}

// IncrementDocumentOutcome records one intake outcome.
func (m *Metrics) IncrementDocumentOutcome(docType, status string) {
	if m != nil {
		m.DocumentOutcome.WithLabelValues(docType, status).Inc()
	}
}

// ObserveIntakeLatency records a full intake duration.
func (m *Metrics) ObserveIntakeLatency(docType string, d time.Duration) {
	if m != nil {
		m.IntakeLatency.WithLabelValues(docType).Observe(d.Seconds())
	}
}

// IncrementStatusQueries records one served status query.
func (m *Metrics) IncrementStatusQueries() {
	if m != nil {
		m.StatusQueries.Inc()
	}
}
