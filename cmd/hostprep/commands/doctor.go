package commands

import (
	"github.com/spf13/cobra"

	"github.com/hostprep/hostprep/cmd/hostprep/handlers"
)

// Doctor returns the command for diagnosing host status.
//
// This command checks the host against the configuration without changing
// anything: installed packages, repository state, virtual environment,
// unit activity, nginx and the TLS certificate.
//
// Optional flags:
//
//	--config, -c: Path to host configuration YAML file (default: auto-detect hostprep.yaml)
//	--json: Output in JSON format
func Doctor() *cobra.Command {
	var configPath string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose host configuration and status",
		Long: `Diagnose the host against its hostprep configuration.

Reports, without changing anything:
  - Which configured packages are installed
  - Whether the deployment repository and working tree exist
  - Whether the virtual environment exists
  - Whether each unit is active and enabled
  - Whether nginx is serving the installed site config
  - Whether the TLS certificate is present

Examples:
  # Diagnose the host
  hostprep doctor

  # Get status in JSON format
  hostprep doctor --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Doctor(cmd.Context(), configPath, jsonOutput)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: hostprep.yaml)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	return cmd
}
