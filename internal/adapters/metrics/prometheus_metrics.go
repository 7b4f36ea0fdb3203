// Package metrics provides a Prometheus-based implementation of credential
// lifecycle metrics reporting.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/sufield/trustwire/internal/core/domain"
	"github.com/sufield/trustwire/internal/core/ports"
)

var (
	constructionsCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trustwire_credential_constructions_total",
		Help: "Total number of credential construction attempts",
	}, []string{"kind", "result"}) // kind: insecure, ssl; result: success, failure

	compositionsCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trustwire_credential_compositions_total",
		Help: "Total number of credential composition attempts",
	}, []string{"result"})

	verificationsCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trustwire_peer_verifications_total",
		Help: "Total number of peer verification decisions",
	}, []string{"decision"}) // decision: accept, reject, error

	releasesCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trustwire_credential_releases_total",
		Help: "Total number of native credential releases",
	})
)

// PrometheusMetrics implements ports.MetricsReporter using Prometheus.
type PrometheusMetrics struct{}

// NewPrometheusMetrics creates a new Prometheus metrics reporter.
func NewPrometheusMetrics() ports.MetricsReporter {
	return &PrometheusMetrics{}
}

// RecordConstruction records a credential construction attempt.
func (m *PrometheusMetrics) RecordConstruction(kind string, success bool) {
	constructionsCounter.WithLabelValues(kind, resultLabel(success)).Inc()
}

// RecordComposition records a composition attempt.
func (m *PrometheusMetrics) RecordComposition(success bool) {
	compositionsCounter.WithLabelValues(resultLabel(success)).Inc()
}

// RecordVerification records one peer verification decision.
func (m *PrometheusMetrics) RecordVerification(decision domain.Decision) {
	verificationsCounter.WithLabelValues(decision.String()).Inc()
}

// RecordRelease records the release of a native credential.
func (m *PrometheusMetrics) RecordRelease() {
	releasesCounter.Inc()
}

func resultLabel(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
