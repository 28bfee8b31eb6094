// Command askpdf answers questions over a local PDF corpus using
// retrieval-augmented generation.
package main

import (
	"os"

	"github.com/custodia-labs/askpdf-cli/internal/adapters/driving/cli"
)

// version is overridden at build time via -ldflags.
var version = "dev"

func main() {
	cli.SetVersion(version)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
