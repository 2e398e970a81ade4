// Package host abstracts the machine being provisioned.
//
// Every external tool invocation and file operation goes through the [Host]
// interface, so the same provisioning phases can run against the local
// machine or a remote one over SSH, and tests can substitute a scripted
// fake.
package host

import (
	"context"
	"os"
)

// Host executes commands and manipulates files on the target machine.
type Host interface {
	// Execute runs a shell command on the host and returns its combined
	// stdout and stderr. A non-nil error indicates a non-zero exit; the
	// output collected so far is still returned for diagnostics.
	Execute(ctx context.Context, command string) (string, error)

	// WriteFile writes data to path with the given permissions, creating
	// parent directories as needed.
	WriteFile(ctx context.Context, path string, data []byte, perm os.FileMode) error

	// ReadFile returns the contents of path.
	ReadFile(ctx context.Context, path string) ([]byte, error)

	// FileExists reports whether path exists on the host.
	FileExists(ctx context.Context, path string) (bool, error)
}
