// Package trustwire provides channel credentials for secure RPC channels:
// immutable handles describing how a channel authenticates itself and
// verifies its peer, built as insecure, SSL-based, or as a composition of a
// channel credential with a call-level credential.
package trustwire

import (
	"log/slog"

	"github.com/sufield/trustwire/internal/adapters/logging"
	"github.com/sufield/trustwire/internal/adapters/secondary/grpctls"
	"github.com/sufield/trustwire/internal/core/domain"
	"github.com/sufield/trustwire/internal/core/ports"
	"github.com/sufield/trustwire/internal/core/services"
)

// Credential is an immutable handle over a native credential object. Close
// releases the native object exactly once; a second Close is a no-op.
type Credential = domain.CredentialHandle

// CallCredential yields a native per-RPC credential handle for composition.
type CallCredential = ports.CallCredential

func buildOpts(options []Option) *credentialOpts {
	opts := &credentialOpts{}
	for _, option := range options {
		option(opts)
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(logging.NewRedactorHandler(slog.Default().Handler()))
	}
	if opts.Metrics == nil {
		opts.Metrics = ports.NoopMetrics{}
	}
	if opts.Provider == nil {
		opts.Provider = grpctls.NewProvider(opts.Logger, opts.Metrics)
	}
	return opts
}

// NewInsecure returns a credential wrapping the insecure sentinel: no
// transport security, no peer verification. It never fails.
func NewInsecure(options ...Option) *Credential {
	opts := buildOpts(options)
	factory := services.NewCredentialFactory(opts.Provider, opts.Logger, opts.Metrics)
	return factory.CreateInsecure()
}

// NewSSL builds an SSL channel credential from the supplied options. The
// private key and certificate chain must be provided together or not at all.
func NewSSL(options ...Option) (*Credential, error) {
	opts := buildOpts(options)
	factory := services.NewCredentialFactory(opts.Provider, opts.Logger, opts.Metrics)
	return factory.CreateSSL(domain.SSLOptions{
		RootCerts:  opts.RootCerts,
		PrivateKey: opts.PrivateKey,
		CertChain:  opts.CertChain,
		VerifyPeer: opts.VerifyPeer,
	})
}

// Compose layers a call credential onto a channel credential, producing a new
// credential. The inputs remain independently valid: neither is consumed, and
// each can be composed again. Composing onto an insecure credential fails.
func Compose(channel *Credential, call CallCredential, options ...Option) (*Credential, error) {
	opts := buildOpts(options)
	operator := services.NewCompositionOperator(opts.Provider, opts.Logger, opts.Metrics)
	return operator.Compose(channel, call)
}
