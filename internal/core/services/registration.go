// Package services implements the credential construction, composition, and
// peer verification logic on top of the domain model and ports.
package services

import (
	"log/slog"
	"sync"

	"github.com/sufield/trustwire/internal/core/domain"
	"github.com/sufield/trustwire/internal/core/ports"
)

// VerificationRegistration bridges the TLS layer's per-certificate
// verification hook to a caller-supplied PeerVerifier. The TLS handshake
// calls Verify synchronously and blocks on the result; the registration is
// released by the native credential's release path, exactly once, and never
// while a Verify call is in flight.
type VerificationRegistration struct {
	verifier domain.PeerVerifier
	logger   *slog.Logger
	metrics  ports.MetricsReporter

	inFlight    sync.WaitGroup
	releaseOnce sync.Once
}

// NewVerificationRegistration binds a verifier. The verifier must be non-nil.
func NewVerificationRegistration(verifier domain.PeerVerifier, logger *slog.Logger, metrics ports.MetricsReporter) *VerificationRegistration {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = ports.NoopMetrics{}
	}
	return &VerificationRegistration{
		verifier: verifier,
		logger:   logger,
		metrics:  metrics,
	}
}

// Verify runs the registered verifier and maps its outcome to the tri-state
// decision: a nil error accepts the peer, a non-nil error rejects it, and a
// panic inside the verifier is caught here and reported as DecisionError so
// the handshake can tell "peer rejected" apart from "verifier malfunctioned".
// A panic must never propagate into the handshake's call stack.
func (r *VerificationRegistration) Verify(serverName, certificate string) (decision domain.Decision) {
	r.inFlight.Add(1)
	defer r.inFlight.Done()

	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("peer verifier panicked",
				"server_name", serverName,
				"panic", p,
			)
			decision = domain.DecisionError
		}
		r.metrics.RecordVerification(decision)
	}()

	if err := r.verifier(serverName, certificate); err != nil {
		r.logger.Debug("peer rejected by verifier",
			"server_name", serverName,
			"reason", err,
		)
		return domain.DecisionReject
	}
	return domain.DecisionAccept
}

// Release frees the registration. It waits for in-flight Verify calls to
// drain first: the verifier closure must outlive every possible invocation
// from the TLS layer. Subsequent calls are no-ops.
func (r *VerificationRegistration) Release() {
	r.releaseOnce.Do(func() {
		r.inFlight.Wait()
		r.verifier = nil
	})
}
