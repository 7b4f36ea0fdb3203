package cli

import (
	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the TrustWire version",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("trustwire %s\n", Version)
	},
}
