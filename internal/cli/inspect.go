package cli

import (
	"crypto/x509"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sufield/trustwire/internal/adapters/secondary/config"
)

var inspectConfigPath string

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Inspect the certificate material a configuration references",
	Long: `Inspect the certificate material a credential configuration references.

Prints subject, issuer, and validity window for each certificate in the root
CA bundle and the local certificate chain. Key material is never printed.

Example:
  trustwire inspect --config credentials.yaml`,
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().StringVarP(&inspectConfigPath, "config", "c", "", "path to credential configuration file (required)")
	_ = inspectCmd.MarkFlagRequired("config")
}

func runInspect(cmd *cobra.Command, _ []string) error {
	provider := config.NewFileProvider()
	cfg, err := provider.LoadConfiguration(cmd.Context(), inspectConfigPath)
	if err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	if cfg.Insecure {
		cmd.Println("insecure credential: no certificate material")
		return nil
	}

	if cfg.RootCAFile != "" {
		if err := printBundle(cmd, "root CA", cfg.RootCAFile); err != nil {
			return err
		}
	}
	if cfg.CertFile != "" {
		if err := printBundle(cmd, "local identity", cfg.CertFile); err != nil {
			return err
		}
	}
	if cfg.ExpectedPeerID != "" {
		cmd.Printf("expected peer ID: %s\n", cfg.ExpectedPeerID)
	}
	return nil
}

func printBundle(cmd *cobra.Command, label, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cannot read %s file: %w", label, err)
	}
	certs, err := decodeAllCerts(data)
	if err != nil {
		return fmt.Errorf("%s file %s: %w", label, path, err)
	}

	cmd.Printf("%s (%s): %d certificate(s)\n", label, path, len(certs))
	for i, cert := range certs {
		cmd.Printf("  [%d] subject:  %s\n", i, cert.Subject)
		cmd.Printf("      issuer:   %s\n", cert.Issuer)
		cmd.Printf("      validity: %s to %s\n",
			cert.NotBefore.Format(time.RFC3339),
			cert.NotAfter.Format(time.RFC3339),
		)
		for _, uri := range cert.URIs {
			cmd.Printf("      uri SAN:  %s\n", uri)
		}
		printKeyUsage(cmd, cert)
	}
	return nil
}

func printKeyUsage(cmd *cobra.Command, cert *x509.Certificate) {
	if cert.IsCA {
		cmd.Println("      role:     CA")
	}
	for _, usage := range cert.ExtKeyUsage {
		switch usage {
		case x509.ExtKeyUsageServerAuth:
			cmd.Println("      ext usage: server auth")
		case x509.ExtKeyUsageClientAuth:
			cmd.Println("      ext usage: client auth")
		}
	}
}
