// Package grpctls implements the security provider port on top of crypto/tls
// and gRPC transport credentials. It is the "underlying security library" of
// the credential core: it builds native credential objects, wires the peer
// verification hook into the TLS handshake, and anchors hook release to the
// release path of the native objects whose handshakes can invoke it.
package grpctls

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"

	"github.com/sufield/trustwire/internal/core/domain"
	"github.com/sufield/trustwire/internal/core/ports"
)

var (
	// ErrPeerRejected fails the handshake when the verifier explicitly
	// rejected the peer certificate.
	ErrPeerRejected = errors.New("peer certificate rejected by verifier")

	// ErrVerifierFailed fails the handshake when the verification logic
	// itself malfunctioned. Distinct from ErrPeerRejected so handshake
	// failures stay diagnosable.
	ErrVerifierFailed = errors.New("peer verification logic failed")
)

// TransportCredentialer is implemented by native credentials that can expose
// gRPC transport credentials for channel consumers.
type TransportCredentialer interface {
	TransportCredentials() credentials.TransportCredentials
}

// DialOptioner is implemented by native credentials that can express
// themselves as gRPC dial options.
type DialOptioner interface {
	DialOptions() []grpc.DialOption
}

// Provider implements ports.SecurityProvider.
type Provider struct {
	logger  *slog.Logger
	metrics ports.MetricsReporter
}

// NewProvider creates a provider. logger and metrics may be nil.
func NewProvider(logger *slog.Logger, metrics ports.MetricsReporter) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = ports.NoopMetrics{}
	}
	return &Provider{logger: logger, metrics: metrics}
}

// BuildSSL constructs a TLS-backed native credential. A nil rootCerts slice
// falls back to the system trust store. When a verification hook is present
// it runs after standard chain validation, once per handshake, synchronously:
// the handshake blocks until the hook's verifier returns.
func (p *Provider) BuildSSL(rootCerts []byte, pair *domain.KeyCertPair, hook ports.VerificationHook) (domain.NativeCredential, error) {
	cfg := &tls.Config{
		MinVersion: tls.VersionTLS12,
	}

	if rootCerts != nil {
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(rootCerts) {
			return nil, fmt.Errorf("failed to parse root certificates PEM")
		}
		cfg.RootCAs = pool
	} else {
		pool, err := x509.SystemCertPool()
		if err != nil {
			return nil, fmt.Errorf("failed to load system trust store: %w", err)
		}
		cfg.RootCAs = pool
	}

	if pair != nil {
		cert, err := tls.X509KeyPair(pair.CertChain, pair.PrivateKey)
		if err != nil {
			return nil, fmt.Errorf("failed to load key/cert pair: %w", err)
		}
		cfg.Certificates = []tls.Certificate{cert}
	}

	ref := newHookRef(hook)
	if hook != nil {
		cfg.VerifyPeerCertificate = verifyPeerFunc(cfg, hook)
	}

	p.logger.Debug("built SSL transport credentials",
		"has_custom_roots", rootCerts != nil,
		"has_local_identity", pair != nil,
		"has_verification_hook", hook != nil,
	)

	return &sslCredential{
		transport: credentials.NewTLS(cfg),
		hook:      ref,
		metrics:   p.metrics,
	}, nil
}

// hookRef shares ownership of a verification hook between every native
// credential whose handshakes can invoke it. Composites reuse the channel
// credential's transport, and with it the hook closure, so the registration
// must stay valid until the last such holder is released.
type hookRef struct {
	hook    ports.VerificationHook
	holders atomic.Int32
}

func newHookRef(hook ports.VerificationHook) *hookRef {
	if hook == nil {
		return nil
	}
	r := &hookRef{hook: hook}
	r.holders.Store(1)
	return r
}

func (r *hookRef) acquire() *hookRef {
	if r == nil {
		return nil
	}
	r.holders.Add(1)
	return r
}

func (r *hookRef) release() {
	if r == nil {
		return
	}
	if r.holders.Add(-1) == 0 {
		r.hook.Release()
	}
}

// hookSharer is implemented by native credentials that carry a verification
// hook and can hand out a shared reference to it.
type hookSharer interface {
	shareHook() *hookRef
}

// verifyPeerFunc adapts the verification hook to crypto/tls's synchronous
// per-handshake callback. It runs after standard chain validation, so the
// hook only ever sees peers that already chain to a trusted root; its job is
// the caller's trust decision, not cryptographic validation.
func verifyPeerFunc(cfg *tls.Config, hook ports.VerificationHook) func(rawCerts [][]byte, verifiedChains [][]*x509.Certificate) error {
	return func(rawCerts [][]byte, _ [][]*x509.Certificate) error {
		var certText string
		if len(rawCerts) > 0 {
			certText = string(pem.EncodeToMemory(&pem.Block{
				Type:  "CERTIFICATE",
				Bytes: rawCerts[0],
			}))
		}

		switch decision := hook.Verify(cfg.ServerName, certText); decision {
		case domain.DecisionAccept:
			return nil
		case domain.DecisionReject:
			return ErrPeerRejected
		case domain.DecisionError:
			return ErrVerifierFailed
		default:
			return fmt.Errorf("unknown verification decision %d", decision)
		}
	}
}

// BuildComposite layers a call credential onto a channel credential. The
// channel credential must have been produced by this provider; a foreign
// native object has no transport credentials to bundle.
func (p *Provider) BuildComposite(channel domain.NativeCredential, call ports.CallCredential) (domain.NativeCredential, error) {
	holder, ok := channel.(TransportCredentialer)
	if !ok {
		return nil, fmt.Errorf("channel credential %T was not produced by this provider", channel)
	}

	perRPC := call.PerRPC()
	if perRPC == nil {
		return nil, fmt.Errorf("call credential yielded no per-RPC handle")
	}

	// The composite's handshakes run through the channel credential's
	// transport and can invoke its verification hook, so the composite
	// takes a shared reference to keep the hook alive even when the
	// channel credential is released first.
	var hook *hookRef
	if sharer, ok := channel.(hookSharer); ok {
		hook = sharer.shareHook()
	}

	p.logger.Debug("built composite transport credentials")

	return &compositeCredential{
		transport: holder.TransportCredentials(),
		perRPC:    perRPC,
		hook:      hook,
		metrics:   p.metrics,
	}, nil
}

// sslCredential is the native SSL credential object. It holds a shared
// reference to the verification hook; releasing it drops that reference, and
// the hook itself is released with the last holder.
type sslCredential struct {
	transport credentials.TransportCredentials
	hook      *hookRef
	metrics   ports.MetricsReporter
}

func (c *sslCredential) Release() {
	c.hook.release()
	c.metrics.RecordRelease()
}

func (c *sslCredential) shareHook() *hookRef {
	return c.hook.acquire()
}

// TransportCredentials exposes the gRPC transport credentials.
func (c *sslCredential) TransportCredentials() credentials.TransportCredentials {
	return c.transport
}

// DialOptions expresses the credential as gRPC dial options.
func (c *sslCredential) DialOptions() []grpc.DialOption {
	return []grpc.DialOption{grpc.WithTransportCredentials(c.transport)}
}

// compositeCredential bundles transport credentials with per-RPC credentials.
// It does not own its inputs: releasing the composite leaves the channel and
// call credentials untouched, dropping only its own hook reference.
type compositeCredential struct {
	transport credentials.TransportCredentials
	perRPC    credentials.PerRPCCredentials
	hook      *hookRef
	metrics   ports.MetricsReporter
}

func (c *compositeCredential) Release() {
	c.hook.release()
	c.metrics.RecordRelease()
}

func (c *compositeCredential) shareHook() *hookRef {
	return c.hook.acquire()
}

// TransportCredentials exposes the underlying transport credentials.
func (c *compositeCredential) TransportCredentials() credentials.TransportCredentials {
	return c.transport
}

// PerRPCCredentials exposes the layered call credentials.
func (c *compositeCredential) PerRPCCredentials() credentials.PerRPCCredentials {
	return c.perRPC
}

// DialOptions expresses the composite as gRPC dial options.
func (c *compositeCredential) DialOptions() []grpc.DialOption {
	return []grpc.DialOption{
		grpc.WithTransportCredentials(c.transport),
		grpc.WithPerRPCCredentials(c.perRPC),
	}
}
