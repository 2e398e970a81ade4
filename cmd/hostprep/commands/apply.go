package commands

import (
	"github.com/spf13/cobra"

	"github.com/hostprep/hostprep/cmd/hostprep/handlers"
)

// Apply returns the command for provisioning a host.
//
// This command runs the full provisioning pipeline: pre-flight validation,
// OS packages, the deployment repository, the Python virtual environment,
// systemd units, the nginx reverse proxy and the TLS certificate, ending
// with a run report.
//
// Optional flags:
//
//	--config, -c: Path to host configuration YAML file (default: auto-detect hostprep.yaml)
//	--skip-tls: Skip certificate issuance for this run
//	--dry-run: Print the commands and files a run would apply without executing them
func Apply() *cobra.Command {
	var (
		configPath string
		skipTLS    bool
		dryRun     bool
	)

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Provision or re-converge the host",
		Long: `Provision the host described by the configuration file.

Every phase is idempotent: packages already installed are skipped, the
repository is fetched instead of re-cloned, unit files are only rewritten
when their content changed, and certificate issuance is skipped when a
live certificate already exists.

If no config file is specified, it looks for hostprep.yaml in the current
directory. Use 'hostprep init' to create a configuration file.

When the configuration has an ssh section, the remote machine is
provisioned over SSH; otherwise the local machine is provisioned.

Examples:
  # Provision using hostprep.yaml in current directory
  hostprep apply

  # Provision using a specific config file
  hostprep apply -c production.yaml

  # See what a run would do without touching the host
  hostprep apply --dry-run

  # Re-converge without attempting certificate issuance
  hostprep apply --skip-tls`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Apply(cmd.Context(), handlers.ApplyOptions{
				ConfigPath: configPath,
				SkipTLS:    skipTLS,
				DryRun:     dryRun,
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: hostprep.yaml)")
	cmd.Flags().BoolVar(&skipTLS, "skip-tls", false, "Skip certificate issuance")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print planned changes without applying them")

	return cmd
}
