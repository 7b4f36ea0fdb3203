package config

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func certWithURI(t *testing.T, rawURI string) string {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	template := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "peer"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		BasicConstraintsValid: true,
	}
	if rawURI != "" {
		uri, err := url.Parse(rawURI)
		require.NoError(t, err)
		template.URIs = []*url.URL{uri}
	}

	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	require.NoError(t, err)

	return string(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}))
}

func TestSPIFFEPeerVerifier(t *testing.T) {
	verifier, err := SPIFFEPeerVerifier("spiffe://example.org/backend")
	require.NoError(t, err)

	tests := []struct {
		name        string
		certificate string
		wantErr     bool
	}{
		{
			name:        "matching identity accepted",
			certificate: certWithURI(t, "spiffe://example.org/backend"),
		},
		{
			name:        "different identity rejected",
			certificate: certWithURI(t, "spiffe://example.org/other"),
			wantErr:     true,
		},
		{
			name:        "no SPIFFE URI rejected",
			certificate: certWithURI(t, ""),
			wantErr:     true,
		},
		{
			name:        "absent certificate rejected",
			certificate: "",
			wantErr:     true,
		},
		{
			name:        "garbage certificate rejected",
			certificate: "not a pem block",
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := verifier("", tt.certificate)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSPIFFEPeerVerifierRejectsInvalidID(t *testing.T) {
	verifier, err := SPIFFEPeerVerifier("not-a-spiffe-id")
	require.Error(t, err)
	assert.Nil(t, verifier)
}
