package services

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sufield/trustwire/internal/core/domain"
	"github.com/sufield/trustwire/internal/core/errors"
	"github.com/sufield/trustwire/internal/core/ports"
)

// mockNative tracks release calls for ownership assertions.
type mockNative struct {
	released atomic.Int32
	hook     ports.VerificationHook
}

func (m *mockNative) Release() {
	m.released.Add(1)
	if m.hook != nil {
		m.hook.Release()
	}
}

// mockProvider records build calls and returns configurable results.
type mockProvider struct {
	buildSSLCalls       int
	buildCompositeCalls int
	lastRootCerts       []byte
	lastPair            *domain.KeyCertPair
	lastHook            ports.VerificationHook
	failSSL             bool
	failComposite       bool
}

func (m *mockProvider) BuildSSL(rootCerts []byte, pair *domain.KeyCertPair, hook ports.VerificationHook) (domain.NativeCredential, error) {
	m.buildSSLCalls++
	m.lastRootCerts = rootCerts
	m.lastPair = pair
	m.lastHook = hook
	if m.failSSL {
		return nil, fmt.Errorf("provider refused construction")
	}
	return &mockNative{hook: hook}, nil
}

func (m *mockProvider) BuildComposite(channel domain.NativeCredential, call ports.CallCredential) (domain.NativeCredential, error) {
	m.buildCompositeCalls++
	if m.failComposite {
		return nil, fmt.Errorf("provider refused composition")
	}
	return &mockNative{}, nil
}

func TestCreateInsecure(t *testing.T) {
	provider := &mockProvider{}
	factory := NewCredentialFactory(provider, nil, nil)

	handle := factory.CreateInsecure()

	require.NotNil(t, handle)
	assert.True(t, handle.IsInsecure())
	assert.Equal(t, 0, provider.buildSSLCalls, "insecure construction must not touch the provider")

	// Closing the insecure sentinel must not attempt any native release.
	require.NoError(t, handle.Close())
	assert.True(t, handle.Released())
}

func TestCreateSSLKeyCertPairing(t *testing.T) {
	key := []byte("key bytes")
	cert := []byte("cert bytes")

	tests := []struct {
		name       string
		privateKey []byte
		certChain  []byte
		wantErr    error
	}{
		{name: "both absent", privateKey: nil, certChain: nil},
		{name: "both present", privateKey: key, certChain: cert},
		{name: "key without cert", privateKey: key, certChain: nil, wantErr: errors.ErrKeyCertPairMismatch},
		{name: "cert without key", privateKey: nil, certChain: cert, wantErr: errors.ErrKeyCertPairMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &mockProvider{}
			factory := NewCredentialFactory(provider, nil, nil)

			handle, err := factory.CreateSSL(domain.SSLOptions{
				PrivateKey: tt.privateKey,
				CertChain:  tt.certChain,
			})

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, handle)
				assert.Equal(t, 0, provider.buildSSLCalls, "invalid input must be rejected before any provider call")
				return
			}

			require.NoError(t, err)
			require.NotNil(t, handle)
			assert.False(t, handle.IsInsecure())
			assert.Equal(t, 1, provider.buildSSLCalls)
		})
	}
}

func TestCreateSSLPassesPairToProvider(t *testing.T) {
	provider := &mockProvider{}
	factory := NewCredentialFactory(provider, nil, nil)

	_, err := factory.CreateSSL(domain.SSLOptions{
		RootCerts:  []byte("roots"),
		PrivateKey: []byte("key"),
		CertChain:  []byte("cert"),
	})
	require.NoError(t, err)

	require.NotNil(t, provider.lastPair)
	assert.Equal(t, []byte("key"), provider.lastPair.PrivateKey)
	assert.Equal(t, []byte("cert"), provider.lastPair.CertChain)
	assert.Equal(t, []byte("roots"), provider.lastRootCerts)
	assert.Nil(t, provider.lastHook, "no verifier was supplied")
}

func TestCreateSSLInstallsVerificationHook(t *testing.T) {
	provider := &mockProvider{}
	factory := NewCredentialFactory(provider, nil, nil)

	handle, err := factory.CreateSSL(domain.SSLOptions{
		VerifyPeer: func(_, _ string) error { return nil },
	})
	require.NoError(t, err)
	require.NotNil(t, provider.lastHook, "verifier must be installed as a hook on the build request")

	assert.Equal(t, domain.DecisionAccept, provider.lastHook.Verify("example.org", "cert"))

	// The hook's release is anchored to the native credential's release.
	native, err := handle.Native()
	require.NoError(t, err)
	mock := native.(*mockNative)
	require.NoError(t, handle.Close())
	assert.Equal(t, int32(1), mock.released.Load())
}

func TestCreateSSLConstructionFailure(t *testing.T) {
	provider := &mockProvider{failSSL: true}
	factory := NewCredentialFactory(provider, nil, nil)

	handle, err := factory.CreateSSL(domain.SSLOptions{
		VerifyPeer: func(_, _ string) error { return nil },
	})

	require.ErrorIs(t, err, errors.ErrCredentialConstruction)
	assert.Nil(t, handle, "no credential is produced when the provider fails")
}
