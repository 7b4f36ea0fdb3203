package trustwire

import (
	"log/slog"

	"github.com/sufield/trustwire/internal/core/domain"
	"github.com/sufield/trustwire/internal/core/ports"
)

// Option configures credential construction behavior.
type Option func(*credentialOpts)

// credentialOpts holds the configuration for credential construction.
type credentialOpts struct {
	RootCerts  []byte
	PrivateKey []byte
	CertChain  []byte
	VerifyPeer PeerVerifier
	Logger     *slog.Logger
	Metrics    ports.MetricsReporter
	Provider   ports.SecurityProvider // direct injection for tests
}

// WithRootCAs provides the PEM bundle of trusted root certificates. When
// omitted, the system trust store is used.
func WithRootCAs(pem []byte) Option {
	return func(opts *credentialOpts) {
		opts.RootCerts = pem
	}
}

// WithKeyCertPair provides the local identity used during the handshake.
// Both values must be supplied together; the library rejects one without
// the other.
func WithKeyCertPair(privateKey, certChain []byte) Option {
	return func(opts *credentialOpts) {
		opts.PrivateKey = privateKey
		opts.CertChain = certChain
	}
}

// WithPeerVerifier installs caller-supplied peer verification logic. The
// verifier is invoked synchronously during the handshake, once per peer
// certificate, and the handshake blocks until it returns. No timeout is
// applied: a verifier that never returns stalls the handshake permanently.
func WithPeerVerifier(verifier PeerVerifier) Option {
	return func(opts *credentialOpts) {
		opts.VerifyPeer = verifier
	}
}

// WithLogger provides a logger for credential lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *credentialOpts) {
		opts.Logger = logger
	}
}

// WithMetrics provides a metrics reporter for credential lifecycle events.
func WithMetrics(metrics ports.MetricsReporter) Option {
	return func(opts *credentialOpts) {
		opts.Metrics = metrics
	}
}

// WithProvider injects a custom security provider. This is primarily used
// for testing with mock implementations.
func WithProvider(provider ports.SecurityProvider) Option {
	return func(opts *credentialOpts) {
		opts.Provider = provider
	}
}

// PeerVerifier is re-exported so callers do not import internal packages.
type PeerVerifier = domain.PeerVerifier
