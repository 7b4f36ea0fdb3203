package ports

import (
	"github.com/sufield/trustwire/internal/core/domain"
)

// MetricsReporter records credential lifecycle events. Adapters provide a
// Prometheus implementation; the core falls back to the no-op reporter.
type MetricsReporter interface {
	// RecordConstruction records a credential construction attempt.
	// kind is "insecure" or "ssl".
	RecordConstruction(kind string, success bool)

	// RecordComposition records a composition attempt.
	RecordComposition(success bool)

	// RecordVerification records the decision of one peer verification.
	RecordVerification(decision domain.Decision)

	// RecordRelease records the release of a native credential.
	RecordRelease()
}

// NoopMetrics discards all events.
type NoopMetrics struct{}

func (NoopMetrics) RecordConstruction(string, bool)    {}
func (NoopMetrics) RecordComposition(bool)             {}
func (NoopMetrics) RecordVerification(domain.Decision) {}
func (NoopMetrics) RecordRelease()                     {}
