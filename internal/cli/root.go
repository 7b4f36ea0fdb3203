// Package cli provides the command-line interface for validating and
// inspecting channel credential configurations.
package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "trustwire",
	Short: "Channel credential tooling for secure RPC channels",
	Long: `Channel credential tooling for secure RPC channels.

TrustWire models transport-security credentials: insecure, SSL-based, or a
composition of a channel credential with a call-level credential. Use this
CLI to validate credential configurations and inspect the certificate
material they reference before wiring them into a channel.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(versionCmd)
}
