package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sufield/trustwire/internal/adapters/secondary/config"
)

var initOutputPath string

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter credential configuration file",
	Long: `Write a starter credential configuration file.

The generated file uses the system trust store with no local identity and no
peer pinning. Edit it to point at your root CA bundle and key/cert pair.
An existing file is never overwritten.

Example:
  trustwire init --output credentials.yaml`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVarP(&initOutputPath, "output", "o", "credentials.yaml", "path for the generated configuration file")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	provider := config.NewFileProvider()
	cfg := provider.GetDefaultConfiguration(cmd.Context())

	if err := provider.WriteConfiguration(cfg, initOutputPath); err != nil {
		return fmt.Errorf("failed to write configuration: %w", err)
	}

	cmd.Printf("wrote %s\n", initOutputPath)
	return nil
}
