package main

import (
	"os"

	"github.com/lucasnoah/autobahncheck/internal/cli"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	cli.SetVersion(Version)
	// Execute has already logged the error.
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
