package commands

import (
	"github.com/spf13/cobra"

	"github.com/hostprep/hostprep/cmd/hostprep/handlers"
)

// Init returns the command for creating a host configuration.
//
// Without flags this command runs an interactive wizard asking for the
// hostname, contact email and repository URL. All three can also be passed
// as flags for non-interactive use.
//
// Flags:
//
//	--output, -o: Path to output file (default "hostprep.yaml")
//	--force: Overwrite an existing configuration file
//	--hostname: Host FQDN (skips the wizard question)
//	--email: Operator contact email (skips the wizard question)
//	--repo: Deployment repository URL (skips the wizard question)
func Init() *cobra.Command {
	var opts handlers.InitOptions

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a host configuration file",
		Long: `Create a hostprep configuration file.

The generated file contains the full provisioning layout with sensible
defaults: packages, repository paths, virtual environment, units, nginx
and TLS. Review and adjust it before running 'hostprep apply'.

Examples:
  # Interactive wizard
  hostprep init

  # Non-interactive
  hostprep init --hostname app.example.com --email ops@example.com \
    --repo https://git.example.com/app.git`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.OutputPath, "output", "o", "hostprep.yaml", "Output file path")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "Overwrite an existing configuration file")
	cmd.Flags().StringVar(&opts.Hostname, "hostname", "", "Host FQDN")
	cmd.Flags().StringVar(&opts.Email, "email", "", "Operator contact email")
	cmd.Flags().StringVar(&opts.RepoURL, "repo", "", "Deployment repository URL")

	return cmd
}
