// Package main is the entry point for the vereintctl CLI.
package main

import (
	"os"

	"github.com/vereint/vereint-go/internal/cli"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	cli.SetVersion(version)
	if err := cli.Execute(); err != nil {
		os.Stderr.WriteString("Fehler: " + err.Error() + "\n")
		os.Exit(1)
	}
}
