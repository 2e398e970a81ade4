// Package proxy installs the nginx site configuration and keeps the
// service running.
package proxy

import (
	"context"
	"fmt"
	"path"

	"github.com/hostprep/hostprep/internal/provisioning"
)

// Phase copies the site config from the repository working tree into the
// nginx config-include directory, validates it, and enables nginx. The
// service is only reloaded when the config actually changed.
type Phase struct{}

// New creates the proxy phase.
func New() *Phase {
	return &Phase{}
}

// Name implements the Phase interface.
func (p *Phase) Name() string {
	return "proxy"
}

// Provision implements the Phase interface.
func (p *Phase) Provision(ctx *provisioning.Context) error {
	cfg := ctx.Config.Proxy
	if cfg.ConfigSource == "" {
		ctx.Observer.Printf("[Proxy] no site config configured")
		return nil
	}

	source := path.Join(ctx.Config.Repository.WorkTree, cfg.ConfigSource)
	dest := path.Join(cfg.ConfigDir, path.Base(cfg.ConfigSource))

	var previous []byte
	hadPrevious := false
	if cfg.Validate {
		if data, err := ctx.Host.ReadFile(ctx, dest); err == nil {
			previous = data
			hadPrevious = true
		}
	}

	wrote, err := provisioning.InstallFile(ctx, source, dest)
	if err != nil {
		return fmt.Errorf("failed to install site config: %w", err)
	}
	if wrote {
		provisioning.LogResourceCreated(ctx.Observer, p.Name(), "site config", dest)
		ctx.State.ProxyChanged = true
	} else {
		provisioning.LogResourceExists(ctx.Observer, p.Name(), "site config", dest)
	}

	opCtx, cancel := context.WithTimeout(ctx, ctx.Timeouts.ServiceOp)
	defer cancel()

	if cfg.Validate {
		if out, err := ctx.Host.Execute(opCtx, "nginx -t"); err != nil {
			if wrote {
				p.restore(opCtx, ctx, dest, previous, hadPrevious)
			}
			return fmt.Errorf("nginx config validation failed: %w\n%s", err, out)
		}
	}

	if _, err := ctx.Host.Execute(opCtx, "systemctl enable --now nginx"); err != nil {
		return fmt.Errorf("failed to enable nginx: %w", err)
	}

	if wrote {
		if _, err := ctx.Host.Execute(opCtx, "systemctl reload nginx"); err != nil {
			return fmt.Errorf("failed to reload nginx: %w", err)
		}
		ctx.Observer.Printf("[Proxy] nginx reloaded with new site config")
	}

	return nil
}

// restore puts the config-include directory back to its pre-run state after
// nginx rejects the new site config, so nothing broken is left installed.
func (p *Phase) restore(opCtx context.Context, ctx *provisioning.Context, dest string, previous []byte, hadPrevious bool) {
	if hadPrevious {
		if err := ctx.Host.WriteFile(opCtx, dest, previous, 0o644); err != nil {
			ctx.Observer.Printf("[Proxy] failed to restore previous site config %s: %v", dest, err)
			return
		}
		ctx.Observer.Printf("[Proxy] restored previous site config %s", dest)
		return
	}
	if _, err := ctx.Host.Execute(opCtx, fmt.Sprintf("rm -f %q", dest)); err != nil {
		ctx.Observer.Printf("[Proxy] failed to remove rejected site config %s: %v", dest, err)
		return
	}
	ctx.Observer.Printf("[Proxy] removed rejected site config %s", dest)
}
