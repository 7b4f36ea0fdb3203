// trustwire-cli is the command-line interface for the TrustWire channel
// credential library.
//
// It provides utilities for working with credential configurations before
// they are wired into a channel:
//   - Validating configuration files and the PEM material they reference
//   - Inspecting certificate subjects, issuers, and validity windows
//
// Usage:
//
//	trustwire-cli validate --config credentials.yaml
//	trustwire-cli inspect --config credentials.yaml
package main

import (
	"fmt"
	"os"

	"github.com/sufield/trustwire/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
