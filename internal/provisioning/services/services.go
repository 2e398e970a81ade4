// Package services installs and enables the application's systemd units
// and timers.
package services

import (
	"context"
	"fmt"
	"path"

	"github.com/hostprep/hostprep/internal/provisioning"
)

// Phase copies unit files from the repository working tree into the system
// unit directory and enables them. Files are only rewritten when their
// content differs from what is installed, and the daemon is only reloaded
// when something changed.
type Phase struct{}

// New creates the services phase.
func New() *Phase {
	return &Phase{}
}

// Name implements the Phase interface.
func (p *Phase) Name() string {
	return "services"
}

// Provision implements the Phase interface.
func (p *Phase) Provision(ctx *provisioning.Context) error {
	cfg := ctx.Config.Services
	if len(cfg.Units) == 0 {
		ctx.Observer.Printf("[Services] no units configured")
		return nil
	}

	changed := false
	for _, unit := range cfg.Units {
		source := path.Join(ctx.Config.Repository.WorkTree, unit.Source)
		dest := path.Join(cfg.UnitDir, unit.Name)

		wrote, err := provisioning.InstallFile(ctx, source, dest)
		if err != nil {
			return fmt.Errorf("failed to install unit %s: %w", unit.Name, err)
		}
		if wrote {
			provisioning.LogResourceCreated(ctx.Observer, p.Name(), "unit file", unit.Name)
			ctx.State.UnitsChanged = append(ctx.State.UnitsChanged, unit.Name)
			changed = true
		} else {
			provisioning.LogResourceExists(ctx.Observer, p.Name(), "unit file", unit.Name)
		}
	}

	opCtx, cancel := context.WithTimeout(ctx, ctx.Timeouts.ServiceOp)
	defer cancel()

	if changed {
		if _, err := ctx.Host.Execute(opCtx, "systemctl daemon-reload"); err != nil {
			return fmt.Errorf("failed to reload systemd: %w", err)
		}
	}

	for _, unit := range cfg.Units {
		if _, err := ctx.Host.Execute(opCtx, fmt.Sprintf("systemctl enable --now %s", unit.Name)); err != nil {
			return fmt.Errorf("failed to enable %s: %w", unit.Name, err)
		}
		ctx.State.UnitsEnabled = append(ctx.State.UnitsEnabled, unit.Name)
	}

	ctx.Observer.Printf("[Services] %d units enabled", len(cfg.Units))
	return nil
}
