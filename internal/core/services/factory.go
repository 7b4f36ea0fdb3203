package services

import (
	"log/slog"

	"github.com/sufield/trustwire/internal/core/domain"
	"github.com/sufield/trustwire/internal/core/errors"
	"github.com/sufield/trustwire/internal/core/ports"
)

// CredentialFactory constructs channel credential handles. Input validation
// happens here, before any provider call, so a rejected construction never
// allocates a native object that would need unwinding.
type CredentialFactory struct {
	provider ports.SecurityProvider
	logger   *slog.Logger
	metrics  ports.MetricsReporter
}

// NewCredentialFactory creates a factory backed by the given security
// provider. logger and metrics may be nil.
func NewCredentialFactory(provider ports.SecurityProvider, logger *slog.Logger, metrics ports.MetricsReporter) *CredentialFactory {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = ports.NoopMetrics{}
	}
	return &CredentialFactory{
		provider: provider,
		logger:   logger,
		metrics:  metrics,
	}
}

// CreateInsecure returns a handle wrapping the insecure sentinel. It never
// fails and never touches the security provider.
func (f *CredentialFactory) CreateInsecure() *domain.CredentialHandle {
	handle := domain.NewInsecureHandle()
	f.metrics.RecordConstruction("insecure", true)
	f.logger.Debug("created insecure credential", "credential_id", handle.ID())
	return handle
}

// CreateSSL builds an SSL channel credential. The private key and certificate
// chain must be supplied together or not at all; violating that fails with an
// invalid-argument error before the provider is consulted. When a peer
// verifier is supplied, a verification registration is created and installed
// on the provider's build request; its release is anchored to the native
// credential's destruction.
func (f *CredentialFactory) CreateSSL(opts domain.SSLOptions) (*domain.CredentialHandle, error) {
	pair, err := domain.NewKeyCertPair(opts.PrivateKey, opts.CertChain)
	if err != nil {
		f.metrics.RecordConstruction("ssl", false)
		return nil, err
	}

	var hook ports.VerificationHook
	if opts.VerifyPeer != nil {
		hook = NewVerificationRegistration(opts.VerifyPeer, f.logger, f.metrics)
	}

	native, err := f.provider.BuildSSL(opts.RootCerts, pair, hook)
	if err != nil {
		// Nothing owns the registration yet; free it here so the
		// verifier closure is not pinned by a failed construction.
		if hook != nil {
			hook.Release()
		}
		f.metrics.RecordConstruction("ssl", false)
		f.logger.Warn("SSL credential construction failed", "error", err)
		return nil, errors.NewDomainError(errors.ErrCredentialConstruction, err)
	}

	handle := domain.NewHandle(native)
	f.metrics.RecordConstruction("ssl", true)
	f.logger.Debug("created SSL credential",
		"credential_id", handle.ID(),
		"has_key_cert_pair", pair != nil,
		"has_peer_verifier", hook != nil,
	)
	return handle, nil
}
