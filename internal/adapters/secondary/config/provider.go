// Package config loads credential configurations from files and the
// environment and turns them into construction inputs for the credential
// factory.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	yaml "gopkg.in/yaml.v3"

	"github.com/sufield/trustwire/internal/core/domain"
	"github.com/sufield/trustwire/internal/core/errors"
	"github.com/sufield/trustwire/internal/core/ports"
)

// envPrefix namespaces environment overrides, e.g. TRUSTWIRE_ROOT_CA_FILE.
const envPrefix = "TRUSTWIRE"

// FileProvider loads credential configs from YAML files with environment
// overrides.
type FileProvider struct{}

// NewFileProvider creates a provider.
func NewFileProvider() *FileProvider {
	return &FileProvider{}
}

// LoadConfiguration loads and validates a credential configuration.
func (p *FileProvider) LoadConfiguration(ctx context.Context, path string) (*ports.CredentialConfig, error) {
	if strings.TrimSpace(path) == "" {
		return nil, &errors.ValidationError{
			Field:   "path",
			Value:   path,
			Message: "configuration file path cannot be empty or whitespace",
		}
	}

	if ctx != nil {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("configuration loading canceled: %w", ctx.Err())
		default:
		}
	}

	v := viper.New()
	v.SetConfigFile(filepath.Clean(path))
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg ports.CredentialConfig
	decodeHook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToSliceHookFunc(","),
		trimStringHookFunc(),
	))
	if err := v.Unmarshal(&cfg, decodeHook); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in file %s: %w", path, err)
	}

	return &cfg, nil
}

// trimStringHookFunc strips stray whitespace from string values, which
// otherwise survives YAML editing and breaks file path checks.
func trimStringHookFunc() mapstructure.DecodeHookFuncKind {
	return func(from, to reflect.Kind, data interface{}) (interface{}, error) {
		if from == reflect.String && to == reflect.String {
			return strings.TrimSpace(data.(string)), nil
		}
		return data, nil
	}
}

// GetDefaultConfiguration returns the configuration used when no file is
// supplied: system trust store, no local identity, no peer pinning.
func (p *FileProvider) GetDefaultConfiguration(_ context.Context) *ports.CredentialConfig {
	return &ports.CredentialConfig{}
}

// WriteConfiguration marshals a configuration to YAML at the given path.
// Existing files are not overwritten.
func (p *FileProvider) WriteConfiguration(cfg *ports.CredentialConfig, path string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("refusing to write invalid configuration: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}

	f, err := os.OpenFile(filepath.Clean(path), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create config file %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	return nil
}

// BuildSSLOptions reads the PEM material referenced by cfg and assembles the
// factory's construction input. When an expected peer ID is configured, a
// built-in verifier is installed that pins the peer to that identity.
func BuildSSLOptions(cfg *ports.CredentialConfig) (domain.SSLOptions, error) {
	var opts domain.SSLOptions

	if cfg == nil {
		return opts, fmt.Errorf("configuration cannot be nil")
	}
	if cfg.Insecure {
		return opts, fmt.Errorf("insecure configuration cannot build SSL options")
	}
	// The both-or-neither rule holds here even for configs that skipped
	// Validate: a lone key must not be silently dropped.
	if (cfg.CertFile == "") != (cfg.KeyFile == "") {
		return opts, errors.ErrKeyCertPairMismatch
	}

	if cfg.RootCAFile != "" {
		data, err := os.ReadFile(filepath.Clean(cfg.RootCAFile))
		if err != nil {
			return opts, fmt.Errorf("failed to read root CA file: %w", err)
		}
		opts.RootCerts = data
	}

	if cfg.CertFile != "" {
		cert, err := os.ReadFile(filepath.Clean(cfg.CertFile))
		if err != nil {
			return opts, fmt.Errorf("failed to read certificate file: %w", err)
		}
		key, err := os.ReadFile(filepath.Clean(cfg.KeyFile))
		if err != nil {
			return opts, fmt.Errorf("failed to read private key file: %w", err)
		}
		opts.CertChain = cert
		opts.PrivateKey = key
	}

	if cfg.ExpectedPeerID != "" {
		verifier, err := SPIFFEPeerVerifier(cfg.ExpectedPeerID)
		if err != nil {
			return opts, fmt.Errorf("failed to build peer verifier: %w", err)
		}
		opts.VerifyPeer = verifier
	}

	return opts, nil
}
