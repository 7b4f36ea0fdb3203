// Package domain holds the credential data model for TrustWire.
package domain

import (
	"github.com/sufield/trustwire/internal/core/errors"
)

// KeyCertPair carries the PEM bytes proving local identity during the TLS
// handshake. It is a transient construction input, not a stored value: the
// factory validates it and hands it to the security provider.
type KeyCertPair struct {
	PrivateKey []byte
	CertChain  []byte
}

// NewKeyCertPair validates the both-or-neither rule and returns the pair.
// A nil result with a nil error means no local identity was requested.
func NewKeyCertPair(privateKey, certChain []byte) (*KeyCertPair, error) {
	if (privateKey == nil) != (certChain == nil) {
		return nil, errors.ErrKeyCertPairMismatch
	}
	if privateKey == nil {
		return nil, nil
	}
	return &KeyCertPair{PrivateKey: privateKey, CertChain: certChain}, nil
}

// SSLOptions collects the inputs for SSL credential construction.
// RootCerts may be nil, in which case the provider falls back to the
// system trust store. VerifyPeer, when set, replaces the provider's
// default peer verification with caller-supplied logic.
type SSLOptions struct {
	RootCerts  []byte
	PrivateKey []byte
	CertChain  []byte
	VerifyPeer PeerVerifier
}
