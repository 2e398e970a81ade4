// Package repo maintains the deployment repository: a bare clone as the
// deploy source of truth and a working tree the application runs from.
package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/hostprep/hostprep/internal/provisioning"
	"github.com/hostprep/hostprep/internal/util/retry"
)

// Phase clones the bare repository if missing, refreshes the configured
// branch, and force-checks it out into the working tree. The resulting
// branch head is recorded in State.CommitHash.
type Phase struct{}

// New creates the repository phase.
func New() *Phase {
	return &Phase{}
}

// Name implements the Phase interface.
func (p *Phase) Name() string {
	return "repository"
}

// Provision implements the Phase interface.
func (p *Phase) Provision(ctx *provisioning.Context) error {
	cfg := ctx.Config.Repository

	exists, err := ctx.Host.FileExists(ctx, cfg.BarePath)
	if err != nil {
		return fmt.Errorf("failed to check bare repository: %w", err)
	}

	netCtx, cancel := context.WithTimeout(ctx, ctx.Timeouts.GitNetwork)
	defer cancel()

	if exists {
		provisioning.LogResourceExists(ctx.Observer, p.Name(), "bare repository", cfg.BarePath)
		if err := p.fetch(netCtx, ctx); err != nil {
			return err
		}
	} else {
		provisioning.LogResourceCreating(ctx.Observer, p.Name(), "bare repository", cfg.BarePath)
		if err := p.clone(netCtx, ctx); err != nil {
			return err
		}
		provisioning.LogResourceCreated(ctx.Observer, p.Name(), "bare repository", cfg.BarePath)
		ctx.State.RepoCloned = true
	}

	return p.checkout(ctx)
}

// clone creates the bare repository.
func (p *Phase) clone(netCtx context.Context, ctx *provisioning.Context) error {
	cfg := ctx.Config.Repository
	command := fmt.Sprintf("git clone --bare %q %q", cfg.URL, cfg.BarePath)

	err := retry.Do(netCtx, func() error {
		_, execErr := ctx.Host.Execute(netCtx, command)
		return execErr
	},
		retry.WithMaxRetries(ctx.Timeouts.RetryMaxAttempts),
		retry.WithInitialDelay(ctx.Timeouts.RetryInitialDelay),
	)
	if err != nil {
		return fmt.Errorf("failed to clone %s: %w", cfg.URL, err)
	}
	return nil
}

// fetch force-updates the local branch ref from the remote.
func (p *Phase) fetch(netCtx context.Context, ctx *provisioning.Context) error {
	cfg := ctx.Config.Repository
	command := fmt.Sprintf("git --git-dir=%q fetch %s +refs/heads/%s:refs/heads/%s",
		cfg.BarePath, cfg.Remote, cfg.Branch, cfg.Branch)

	err := retry.Do(netCtx, func() error {
		_, execErr := ctx.Host.Execute(netCtx, command)
		return execErr
	},
		retry.WithMaxRetries(ctx.Timeouts.RetryMaxAttempts),
		retry.WithInitialDelay(ctx.Timeouts.RetryInitialDelay),
	)
	if err != nil {
		return fmt.Errorf("failed to fetch %s from %s: %w", cfg.Branch, cfg.Remote, err)
	}
	return nil
}

// checkout populates the working tree with the branch head and records
// the commit hash.
func (p *Phase) checkout(ctx *provisioning.Context) error {
	cfg := ctx.Config.Repository

	if _, err := ctx.Host.Execute(ctx, fmt.Sprintf("mkdir -p %q", cfg.WorkTree)); err != nil {
		return fmt.Errorf("failed to create working tree directory: %w", err)
	}

	command := fmt.Sprintf("git --git-dir=%q --work-tree=%q checkout -f %s",
		cfg.BarePath, cfg.WorkTree, cfg.Branch)
	if _, err := ctx.Host.Execute(ctx, command); err != nil {
		return fmt.Errorf("failed to check out %s into %s: %w", cfg.Branch, cfg.WorkTree, err)
	}

	head, err := ctx.Host.Execute(ctx, fmt.Sprintf("git --git-dir=%q rev-parse %s", cfg.BarePath, cfg.Branch))
	if err != nil {
		return fmt.Errorf("failed to resolve %s head: %w", cfg.Branch, err)
	}
	ctx.State.CommitHash = strings.TrimSpace(head)

	ctx.Observer.Printf("[Repository] working tree at %s (%s)", cfg.Branch, ctx.State.CommitHash)
	return nil
}
