// Package provisioning provides the shared types and interfaces for host
// provisioning.
//
// The provisioning domain is organized into focused subpackages:
//   - packages/: OS package installation
//   - repo/: bare repository clone and working tree checkout
//   - pyenv/: Python virtual environment and requirements
//   - services/: systemd unit and timer installation
//   - proxy/: nginx site configuration
//   - tlscert/: ACME certificate issuance
//   - report/: provisioning report, metrics textfile, S3 upload
//
// This root package contains the Phase interface, the pipeline runner,
// and the state and observability types used across subpackages.
package provisioning

// Phase defines the interface for a provisioning phase.
type Phase interface {
	// Name returns the human-readable name of this phase.
	Name() string

	// Provision executes the provisioning logic for this phase.
	Provision(ctx *Context) error
}
