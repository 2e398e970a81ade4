// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command definitions
// in the commands package. Handlers are framework-agnostic and can be tested
// independently of the CLI framework.
package handlers

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/hostprep/hostprep/internal/config"
	"github.com/hostprep/hostprep/internal/platform/host"
	sshclient "github.com/hostprep/hostprep/internal/platform/ssh"
	"github.com/hostprep/hostprep/internal/provisioning"
	"github.com/hostprep/hostprep/internal/provisioning/packages"
	"github.com/hostprep/hostprep/internal/provisioning/proxy"
	"github.com/hostprep/hostprep/internal/provisioning/pyenv"
	"github.com/hostprep/hostprep/internal/provisioning/repo"
	"github.com/hostprep/hostprep/internal/provisioning/report"
	"github.com/hostprep/hostprep/internal/provisioning/services"
	"github.com/hostprep/hostprep/internal/provisioning/tlscert"
)

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// loadConfigFile loads config from file.
	loadConfigFile = config.LoadFile

	// findConfigFile finds the default config file.
	findConfigFile = config.FindConfigFile

	// readKeyFile reads the SSH private key.
	readKeyFile = os.ReadFile

	// newSSHHost creates an SSH-backed host.
	newSSHHost = func(cfg *sshclient.Config) (host.Host, error) {
		return sshclient.NewClient(cfg)
	}

	// newLocalHost creates a host backed by the local shell.
	newLocalHost = func() host.Host {
		return host.NewLocal()
	}
)

// ApplyOptions are the apply command's flag values.
type ApplyOptions struct {
	ConfigPath string
	SkipTLS    bool
	DryRun     bool
}

// Apply converges the configured host through the provisioning pipeline:
//
//  1. Loads and validates the host configuration
//  2. Connects to the target (local shell or SSH when configured)
//  3. Runs pre-flight validation against the host
//  4. Installs packages, the repository, the venv, units, nginx and the
//     TLS certificate, each phase skipping work that is already done
//  5. Writes the run report
//
// With --dry-run the same pipeline runs against a host wrapper that logs
// commands and file writes instead of executing them.
func Apply(ctx context.Context, opts ApplyOptions) error {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	target, local, err := buildHost(cfg)
	if err != nil {
		return err
	}

	if opts.DryRun {
		target = host.NewDryRun(target, log.Printf)
		log.Printf("Dry run: no changes will be applied")
	}

	log.Printf("Provisioning %s", cfg.Hostname)

	pctx := provisioning.NewContext(ctx, cfg, target)
	pctx.DryRun = opts.DryRun
	pipeline := provisioning.NewPipeline(assemblePhases(cfg, opts, local)...)

	if err := pipeline.Run(pctx); err != nil {
		return err
	}

	if !opts.DryRun {
		printApplySuccess(cfg, pctx.State)
	}
	return nil
}

// assemblePhases builds the phase list for a run. The certificate phase is
// left out when TLS is disabled or skipped for this run.
func assemblePhases(cfg *config.Config, opts ApplyOptions, local bool) []provisioning.Phase {
	phases := []provisioning.Phase{
		provisioning.NewValidationPhase(),
		packages.New(),
		repo.New(),
		pyenv.New(),
		services.New(),
		proxy.New(),
	}

	if cfg.TLS.IsEnabled() && !opts.SkipTLS {
		phases = append(phases, tlscert.New())
	}

	return append(phases, report.New(local))
}

// loadConfig loads and validates the host configuration. If configPath is
// empty, it looks for hostprep.yaml in the current directory.
func loadConfig(configPath string) (*config.Config, error) {
	if configPath == "" {
		path, err := findConfigFile()
		if err != nil {
			return nil, fmt.Errorf("no config file found: %w\nRun 'hostprep init' to create one", err)
		}
		configPath = path
	}

	cfg, err := loadConfigFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// buildHost connects to the provisioning target. Returns the host and
// whether it is the local machine.
func buildHost(cfg *config.Config) (host.Host, bool, error) {
	if cfg.SSH == nil {
		return newLocalHost(), true, nil
	}

	key, err := readKeyFile(cfg.SSH.KeyFile)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read SSH key: %w", err)
	}

	client, err := newSSHHost(&sshclient.Config{
		Host:       cfg.SSH.Host,
		Port:       cfg.SSH.Port,
		User:       cfg.SSH.User,
		PrivateKey: key,
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to create SSH client: %w", err)
	}
	return client, false, nil
}

// printApplySuccess outputs the completion message and next steps.
func printApplySuccess(cfg *config.Config, state *provisioning.State) {
	fmt.Printf("\nHost converged!\n\n")
	fmt.Printf("  Host:    %s\n", cfg.Hostname)
	if state.CommitHash != "" {
		fmt.Printf("  Commit:  %s\n", state.CommitHash)
	}
	fmt.Printf("  Report:  %s\n", cfg.Report.Path)

	if len(state.PackagesInstalled) > 0 {
		fmt.Printf("  Installed packages: %d\n", len(state.PackagesInstalled))
	}

	switch {
	case state.CertificateIssued:
		fmt.Printf("  Certificate: issued for %s\n", cfg.TLS.Domain)
	case state.CertificateSkipped:
		fmt.Printf("  Certificate: already present for %s\n", cfg.TLS.Domain)
	}

	fmt.Printf("\nRun 'hostprep doctor' to inspect the host at any time.\n")
}
