// Package tlscert obtains the host's TLS certificate through the ACME
// client.
package tlscert

import (
	"context"
	"fmt"
	"path"

	"github.com/hostprep/hostprep/internal/provisioning"
)

// Phase runs certbot for the configured domain. Issuance is gated on the
// pre-existence of the live certificate directory: if it is already there,
// certbot is not invoked at all.
type Phase struct{}

// New creates the certificate phase.
func New() *Phase {
	return &Phase{}
}

// Name implements the Phase interface.
func (p *Phase) Name() string {
	return "certificate"
}

// Provision implements the Phase interface.
func (p *Phase) Provision(ctx *provisioning.Context) error {
	cfg := ctx.Config.TLS
	if !cfg.IsEnabled() {
		ctx.Observer.Printf("[Certificate] TLS disabled, skipping issuance")
		return nil
	}

	liveDir := path.Join(cfg.CertDir, cfg.Domain)
	exists, err := ctx.Host.FileExists(ctx, liveDir)
	if err != nil {
		return fmt.Errorf("failed to check certificate directory: %w", err)
	}
	if exists {
		provisioning.LogResourceExists(ctx.Observer, p.Name(), "certificate", cfg.Domain)
		ctx.State.CertificateSkipped = true
		return nil
	}

	provisioning.LogResourceCreating(ctx.Observer, p.Name(), "certificate", cfg.Domain)

	issueCtx, cancel := context.WithTimeout(ctx, ctx.Timeouts.CertIssue)
	defer cancel()

	command := fmt.Sprintf("certbot certonly --nginx -d %s -m %s --agree-tos --non-interactive",
		cfg.Domain, cfg.Email)
	if out, err := ctx.Host.Execute(issueCtx, command); err != nil {
		return fmt.Errorf("certificate issuance failed: %w\n%s", err, out)
	}

	// certbot exits zero on success, but verify the gate it leaves behind
	if !ctx.DryRun {
		exists, err = ctx.Host.FileExists(ctx, liveDir)
		if err != nil {
			return fmt.Errorf("failed to verify certificate directory: %w", err)
		}
		if !exists {
			return fmt.Errorf("certbot reported success but %s does not exist", liveDir)
		}
	}

	provisioning.LogResourceCreated(ctx.Observer, p.Name(), "certificate", cfg.Domain)
	ctx.State.CertificateIssued = true
	return nil
}
