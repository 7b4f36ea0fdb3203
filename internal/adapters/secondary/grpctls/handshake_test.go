package grpctls

import (
	"context"
	"crypto/tls"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sufield/trustwire/internal/core/domain"
	"github.com/sufield/trustwire/internal/core/services"
)

// startTLSServer accepts connections and completes TLS handshakes with the
// given certificate until the listener is closed.
func startTLSServer(t *testing.T, certPEM, keyPEM []byte) net.Listener {
	t.Helper()

	serverCert, err := tls.X509KeyPair(certPEM, keyPEM)
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func(c net.Conn) {
				srv := tls.Server(c, &tls.Config{
					Certificates: []tls.Certificate{serverCert},
					// grpc-go enforces ALPN on client handshakes.
					NextProtos: []string{"h2"},
				})
				// The handshake fails when the client rejects
				// the peer; that is part of what is under test.
				_ = srv.Handshake()
				_ = srv.Close()
			}(conn)
		}
	}()
	return ln
}

// clientHandshake dials the server and runs the gRPC transport credentials
// handshake, which is where the verification hook fires.
func clientHandshake(t *testing.T, native domain.NativeCredential, addr string) error {
	t.Helper()

	holder, ok := native.(TransportCredentialer)
	require.True(t, ok)

	raw, err := net.DialTimeout("tcp", addr, time.Second)
	require.NoError(t, err)
	defer raw.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := holder.TransportCredentials().ClientHandshake(ctx, "localhost", raw)
	if conn != nil {
		_ = conn.Close()
	}
	return err
}

func TestHandshakeInvokesVerifierSynchronously(t *testing.T) {
	certPEM, keyPEM := generateTestCert(t, nil)
	ln := startTLSServer(t, certPEM, keyPEM)

	hook := &stubHook{decision: domain.DecisionAccept}
	provider := NewProvider(nil, nil)
	native, err := provider.BuildSSL(certPEM, nil, hook)
	require.NoError(t, err)

	err = clientHandshake(t, native, ln.Addr().String())

	require.NoError(t, err)
	assert.Equal(t, int32(1), hook.verified.Load(), "the handshake must consult the hook exactly once")
}

func TestHandshakeFailsWhenPeerRejected(t *testing.T) {
	certPEM, keyPEM := generateTestCert(t, nil)
	ln := startTLSServer(t, certPEM, keyPEM)

	hook := &stubHook{decision: domain.DecisionReject}
	provider := NewProvider(nil, nil)
	native, err := provider.BuildSSL(certPEM, nil, hook)
	require.NoError(t, err)

	err = clientHandshake(t, native, ln.Addr().String())

	require.Error(t, err)
	assert.ErrorContains(t, err, ErrPeerRejected.Error())
}

func TestHandshakeFailsWhenVerifierMalfunctions(t *testing.T) {
	certPEM, keyPEM := generateTestCert(t, nil)
	ln := startTLSServer(t, certPEM, keyPEM)

	hook := &stubHook{decision: domain.DecisionError}
	provider := NewProvider(nil, nil)
	native, err := provider.BuildSSL(certPEM, nil, hook)
	require.NoError(t, err)

	err = clientHandshake(t, native, ln.Addr().String())

	require.Error(t, err)
	assert.ErrorContains(t, err, ErrVerifierFailed.Error())
}

func TestCompositeHandshakeAfterChannelRelease(t *testing.T) {
	certPEM, keyPEM := generateTestCert(t, nil)
	ln := startTLSServer(t, certPEM, keyPEM)

	var verified atomic.Int32
	registration := services.NewVerificationRegistration(func(_, _ string) error {
		verified.Add(1)
		return nil
	}, nil, nil)

	provider := NewProvider(nil, nil)
	native, err := provider.BuildSSL(certPEM, nil, registration)
	require.NoError(t, err)

	composite, err := provider.BuildComposite(native, stubCallCredential{})
	require.NoError(t, err)

	// Releasing the channel handle must not invalidate the registration:
	// the composite's handshakes still run through the shared transport
	// and consult the same hook.
	channel := domain.NewHandle(native)
	require.NoError(t, channel.Close())

	err = clientHandshake(t, composite, ln.Addr().String())

	require.NoError(t, err, "an accepting verifier must not fail the composite's handshake")
	assert.Equal(t, int32(1), verified.Load())
}

func TestHandshakeWithoutHookUsesStandardValidation(t *testing.T) {
	certPEM, keyPEM := generateTestCert(t, nil)
	ln := startTLSServer(t, certPEM, keyPEM)

	provider := NewProvider(nil, nil)
	native, err := provider.BuildSSL(certPEM, nil, nil)
	require.NoError(t, err)

	require.NoError(t, clientHandshake(t, native, ln.Addr().String()))
}

func TestHandshakeRejectsUntrustedServer(t *testing.T) {
	serverCert, serverKey := generateTestCert(t, nil)
	otherRoot, _ := generateTestCert(t, nil)
	ln := startTLSServer(t, serverCert, serverKey)

	provider := NewProvider(nil, nil)
	native, err := provider.BuildSSL(otherRoot, nil, nil)
	require.NoError(t, err)

	err = clientHandshake(t, native, ln.Addr().String())

	require.Error(t, err, "a server outside the trust bundle must fail standard validation")
}
