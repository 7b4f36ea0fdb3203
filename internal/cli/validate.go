package cli

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sufield/trustwire/internal/adapters/secondary/config"
)

var validateConfigPath string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a credential configuration file",
	Long: `Validate a credential configuration file.

Checks structural validity of the configuration, parses the referenced PEM
material, verifies that the private key matches the certificate chain, and
reports certificates that are expired or close to expiry.

Example:
  trustwire validate --config credentials.yaml`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&validateConfigPath, "config", "c", "", "path to credential configuration file (required)")
	_ = validateCmd.MarkFlagRequired("config")
}

func runValidate(cmd *cobra.Command, _ []string) error {
	provider := config.NewFileProvider()
	cfg, err := provider.LoadConfiguration(cmd.Context(), validateConfigPath)
	if err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	if cfg.Insecure {
		cmd.Println("configuration valid: insecure credential (no TLS material)")
		return nil
	}

	if cfg.RootCAFile != "" {
		data, err := os.ReadFile(cfg.RootCAFile)
		if err != nil {
			return fmt.Errorf("cannot read root CA file: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(data) {
			return fmt.Errorf("root CA file %s contains no parsable certificates", cfg.RootCAFile)
		}
		cmd.Printf("root CAs: ok (%s)\n", cfg.RootCAFile)
	} else {
		cmd.Println("root CAs: system trust store")
	}

	if cfg.CertFile != "" {
		certPEM, err := os.ReadFile(cfg.CertFile)
		if err != nil {
			return fmt.Errorf("cannot read certificate file: %w", err)
		}
		keyPEM, err := os.ReadFile(cfg.KeyFile)
		if err != nil {
			return fmt.Errorf("cannot read private key file: %w", err)
		}
		pair, err := tls.X509KeyPair(certPEM, keyPEM)
		if err != nil {
			return fmt.Errorf("key/cert pair invalid: %w", err)
		}
		if err := checkExpiry(cmd, pair.Certificate[0]); err != nil {
			return err
		}
		cmd.Printf("key/cert pair: ok (%s, %s)\n", cfg.CertFile, cfg.KeyFile)
	}

	if cfg.ExpectedPeerID != "" {
		if _, err := config.SPIFFEPeerVerifier(cfg.ExpectedPeerID); err != nil {
			return fmt.Errorf("expected peer ID invalid: %w", err)
		}
		cmd.Printf("expected peer ID: ok (%s)\n", cfg.ExpectedPeerID)
	}

	cmd.Println("configuration valid")
	return nil
}

// checkExpiry warns on certificates expiring within 30 days and fails on
// certificates that are expired or not yet valid.
func checkExpiry(cmd *cobra.Command, der []byte) error {
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return fmt.Errorf("cannot parse leaf certificate: %w", err)
	}

	now := time.Now()
	if now.Before(cert.NotBefore) {
		return fmt.Errorf("certificate %q is not yet valid (NotBefore: %v)", cert.Subject, cert.NotBefore)
	}
	if now.After(cert.NotAfter) {
		return fmt.Errorf("certificate %q has expired (NotAfter: %v)", cert.Subject, cert.NotAfter)
	}
	if now.Add(30 * 24 * time.Hour).After(cert.NotAfter) {
		cmd.Printf("warning: certificate %q expires soon (%v)\n", cert.Subject, cert.NotAfter)
	}
	return nil
}

// decodeAllCerts parses every CERTIFICATE block in a PEM bundle.
func decodeAllCerts(data []byte) ([]*x509.Certificate, error) {
	var certs []*x509.Certificate
	for {
		var block *pem.Block
		block, data = pem.Decode(data)
		if block == nil {
			break
		}
		if block.Type != "CERTIFICATE" {
			continue
		}
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("failed to parse certificate: %w", err)
		}
		certs = append(certs, cert)
	}
	if len(certs) == 0 {
		return nil, fmt.Errorf("no certificates found")
	}
	return certs, nil
}
