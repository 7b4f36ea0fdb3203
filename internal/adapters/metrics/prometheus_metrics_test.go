package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/sufield/trustwire/internal/core/domain"
)

func TestPrometheusMetricsCounters(t *testing.T) {
	reporter := NewPrometheusMetrics()

	sslSuccess := testutil.ToFloat64(constructionsCounter.WithLabelValues("ssl", "success"))
	reporter.RecordConstruction("ssl", true)
	assert.Equal(t, sslSuccess+1, testutil.ToFloat64(constructionsCounter.WithLabelValues("ssl", "success")))

	sslFailure := testutil.ToFloat64(constructionsCounter.WithLabelValues("ssl", "failure"))
	reporter.RecordConstruction("ssl", false)
	assert.Equal(t, sslFailure+1, testutil.ToFloat64(constructionsCounter.WithLabelValues("ssl", "failure")))

	compositions := testutil.ToFloat64(compositionsCounter.WithLabelValues("success"))
	reporter.RecordComposition(true)
	assert.Equal(t, compositions+1, testutil.ToFloat64(compositionsCounter.WithLabelValues("success")))

	rejects := testutil.ToFloat64(verificationsCounter.WithLabelValues("reject"))
	reporter.RecordVerification(domain.DecisionReject)
	assert.Equal(t, rejects+1, testutil.ToFloat64(verificationsCounter.WithLabelValues("reject")))

	releases := testutil.ToFloat64(releasesCounter)
	reporter.RecordRelease()
	assert.Equal(t, releases+1, testutil.ToFloat64(releasesCounter))
}
