// Package packages installs the OS packages the host needs.
package packages

import (
	"context"
	"fmt"
	"strings"

	"github.com/hostprep/hostprep/internal/provisioning"
	"github.com/hostprep/hostprep/internal/util/retry"
)

// Phase installs missing OS packages with the configured package manager.
// Packages that rpm already knows about are left alone, so a re-run on a
// converged host performs no install transaction at all.
type Phase struct{}

// New creates the packages phase.
func New() *Phase {
	return &Phase{}
}

// Name implements the Phase interface.
func (p *Phase) Name() string {
	return "packages"
}

// Provision implements the Phase interface.
func (p *Phase) Provision(ctx *provisioning.Context) error {
	cfg := ctx.Config.Packages
	if len(cfg.Install) == 0 {
		ctx.Observer.Printf("[Packages] nothing to install")
		return nil
	}

	var missing []string
	for i, pkg := range cfg.Install {
		ctx.Observer.Progress(p.Name(), i+1, len(cfg.Install))

		if _, err := ctx.Host.Execute(ctx, fmt.Sprintf("rpm -q %s", pkg)); err == nil {
			provisioning.LogResourceExists(ctx.Observer, p.Name(), "package", pkg)
			ctx.State.PackagesPresent = append(ctx.State.PackagesPresent, pkg)
			continue
		}
		missing = append(missing, pkg)
	}

	if len(missing) == 0 {
		ctx.Observer.Printf("[Packages] all %d packages already installed", len(cfg.Install))
		return nil
	}

	for _, pkg := range missing {
		provisioning.LogResourceCreating(ctx.Observer, p.Name(), "package", pkg)
	}

	installCtx, cancel := context.WithTimeout(ctx, ctx.Timeouts.PackageInstall)
	defer cancel()

	command := fmt.Sprintf("%s install -y %s", cfg.Manager, strings.Join(missing, " "))

	// Metadata refresh hits the network; retry transient failures
	err := retry.Do(installCtx, func() error {
		_, execErr := ctx.Host.Execute(installCtx, command)
		return execErr
	},
		retry.WithMaxRetries(ctx.Timeouts.RetryMaxAttempts),
		retry.WithInitialDelay(ctx.Timeouts.RetryInitialDelay),
	)
	if err != nil {
		return fmt.Errorf("failed to install packages %s: %w", strings.Join(missing, ", "), err)
	}

	for _, pkg := range missing {
		provisioning.LogResourceCreated(ctx.Observer, p.Name(), "package", pkg)
	}
	ctx.State.PackagesInstalled = append(ctx.State.PackagesInstalled, missing...)

	return nil
}
