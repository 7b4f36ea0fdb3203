package config

import (
	"crypto/x509"
	"encoding/pem"
	"fmt"

	"github.com/spiffe/go-spiffe/v2/spiffeid"
)

// SPIFFEPeerVerifier returns a peer verifier accepting only peers whose
// certificate carries the expected SPIFFE ID in a URI SAN. It is the built-in
// verifier installed when a configuration pins an expected peer identity.
func SPIFFEPeerVerifier(expected string) (func(serverName, certificate string) error, error) {
	expectedID, err := spiffeid.FromString(expected)
	if err != nil {
		return nil, fmt.Errorf("invalid expected peer ID %q: %w", expected, err)
	}

	return func(_, certificate string) error {
		if certificate == "" {
			return fmt.Errorf("peer presented no certificate")
		}

		block, _ := pem.Decode([]byte(certificate))
		if block == nil || block.Type != "CERTIFICATE" {
			return fmt.Errorf("peer certificate is not valid PEM")
		}
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return fmt.Errorf("failed to parse peer certificate: %w", err)
		}

		for _, uri := range cert.URIs {
			if uri.Scheme != "spiffe" {
				continue
			}
			actualID, err := spiffeid.FromURI(uri)
			if err != nil {
				continue
			}
			if actualID.String() == expectedID.String() {
				return nil
			}
		}
		return fmt.Errorf("peer identity does not match expected ID %s", expectedID)
	}, nil
}
