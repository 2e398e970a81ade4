// Package pyenv builds the application's Python virtual environment.
package pyenv

import (
	"context"
	"fmt"
	"path"

	"github.com/hostprep/hostprep/internal/provisioning"
	"github.com/hostprep/hostprep/internal/util/retry"
)

// Phase creates the virtual environment if missing, bootstraps pip, and
// installs the requirements manifest from the repository working tree.
type Phase struct{}

// New creates the python environment phase.
func New() *Phase {
	return &Phase{}
}

// Name implements the Phase interface.
func (p *Phase) Name() string {
	return "python-env"
}

// Provision implements the Phase interface.
func (p *Phase) Provision(ctx *provisioning.Context) error {
	cfg := ctx.Config.Python

	// pyvenv.cfg is written by `python -m venv` last, so its presence
	// means the venv was fully created.
	marker := path.Join(cfg.VenvPath, "pyvenv.cfg")
	exists, err := ctx.Host.FileExists(ctx, marker)
	if err != nil {
		return fmt.Errorf("failed to check virtual environment: %w", err)
	}

	if exists {
		provisioning.LogResourceExists(ctx.Observer, p.Name(), "virtual environment", cfg.VenvPath)
	} else {
		provisioning.LogResourceCreating(ctx.Observer, p.Name(), "virtual environment", cfg.VenvPath)
		command := fmt.Sprintf("%s -m venv %q", cfg.Interpreter, cfg.VenvPath)
		if _, err := ctx.Host.Execute(ctx, command); err != nil {
			return fmt.Errorf("failed to create virtual environment: %w", err)
		}
		provisioning.LogResourceCreated(ctx.Observer, p.Name(), "virtual environment", cfg.VenvPath)
		ctx.State.VenvCreated = true
	}

	pipCtx, cancel := context.WithTimeout(ctx, ctx.Timeouts.PipInstall)
	defer cancel()

	venvPython := path.Join(cfg.VenvPath, "bin", "python")
	if cfg.UpgradePip {
		bootstrap := fmt.Sprintf("%q -m ensurepip --upgrade && %q -m pip install --upgrade pip", venvPython, venvPython)
		if err := p.pipRun(pipCtx, ctx, bootstrap); err != nil {
			return fmt.Errorf("failed to bootstrap pip: %w", err)
		}
	}

	requirements := path.Join(ctx.Config.Repository.WorkTree, cfg.Requirements)
	install := fmt.Sprintf("%q -m pip install -r %q", venvPython, requirements)
	if err := p.pipRun(pipCtx, ctx, install); err != nil {
		return fmt.Errorf("failed to install requirements from %s: %w", requirements, err)
	}

	ctx.Observer.Printf("[PythonEnv] requirements installed into %s", cfg.VenvPath)
	return nil
}

// pipRun executes a pip command with retries, since index access is a
// network operation.
func (p *Phase) pipRun(pipCtx context.Context, ctx *provisioning.Context, command string) error {
	return retry.Do(pipCtx, func() error {
		_, err := ctx.Host.Execute(pipCtx, command)
		return err
	},
		retry.WithMaxRetries(ctx.Timeouts.RetryMaxAttempts),
		retry.WithInitialDelay(ctx.Timeouts.RetryInitialDelay),
	)
}
