package provisioning

import (
	"context"

	"github.com/hostprep/hostprep/internal/config"
	"github.com/hostprep/hostprep/internal/platform/host"
)

// Context wraps all dependencies and state needed for a provisioning phase.
type Context struct {
	context.Context
	Config   *config.Config
	State    *State
	Host     host.Host
	Observer Observer
	Timeouts *config.Timeouts

	// DryRun indicates the host is a logging wrapper that executes
	// nothing, so phases must not verify side effects of commands.
	DryRun bool
}

// NewContext creates a new provisioning context.
func NewContext(ctx context.Context, cfg *config.Config, h host.Host) *Context {
	return &Context{
		Context:  ctx,
		Config:   cfg,
		State:    NewState(),
		Host:     h,
		Observer: NewConsoleObserver(),
		Timeouts: config.LoadTimeouts(),
	}
}
