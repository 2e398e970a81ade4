// Package main is the entry point for the hostprep CLI.
//
// hostprep is a command-line tool for converging a fresh Linux VM into a
// running Python application host: OS packages, a bare-clone deployment
// repository, a virtual environment, systemd units, an nginx reverse proxy
// and a Let's Encrypt certificate. Every phase is idempotent, so re-running
// hostprep on an already provisioned host is safe.
//
// Commands: init, apply, doctor.
//
// For detailed usage information, run:
//
//	hostprep --help
package main

import (
	"fmt"
	"os"

	"github.com/hostprep/hostprep/cmd/hostprep/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
