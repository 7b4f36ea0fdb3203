package ports

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// CredentialConfig describes how to build a channel credential from external
// material. It is the shape loaded by the config adapter from YAML files and
// environment overrides.
type CredentialConfig struct {
	// Insecure selects the insecure sentinel credential. When set, all
	// other fields must be empty.
	Insecure bool `yaml:"insecure" mapstructure:"insecure"`

	// RootCAFile points at a PEM bundle of trusted roots. Empty means the
	// provider's default trust store.
	RootCAFile string `yaml:"root_ca_file" mapstructure:"root_ca_file" validate:"omitempty,filepath"`

	// CertFile and KeyFile carry the local identity. They mirror the
	// core's both-or-neither rule at the configuration boundary.
	CertFile string `yaml:"cert_file" mapstructure:"cert_file" validate:"required_with=KeyFile,omitempty,filepath"`
	KeyFile  string `yaml:"key_file" mapstructure:"key_file" validate:"required_with=CertFile,omitempty,filepath"`

	// ExpectedPeerID, when set, installs a built-in verifier that accepts
	// only peers presenting a certificate with this SPIFFE ID.
	ExpectedPeerID string `yaml:"expected_peer_id" mapstructure:"expected_peer_id" validate:"omitempty,uri"`
}

var configValidator = validator.New(validator.WithRequiredStructEnabled())

// Validate checks structural validity of the configuration.
func (c *CredentialConfig) Validate() error {
	if c == nil {
		return fmt.Errorf("configuration cannot be nil")
	}
	if c.Insecure {
		if c.RootCAFile != "" || c.CertFile != "" || c.KeyFile != "" || c.ExpectedPeerID != "" {
			return fmt.Errorf("insecure configuration must not carry TLS material")
		}
		return nil
	}
	if err := configValidator.Struct(c); err != nil {
		return fmt.Errorf("invalid credential configuration: %w", err)
	}
	return nil
}
