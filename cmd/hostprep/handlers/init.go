package handlers

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/hostprep/hostprep/internal/config"
)

// Factory function variables for init - can be replaced in tests.
var (
	// fileExists checks if a file exists.
	fileExists = func(path string) bool {
		_, err := os.Stat(path)
		return err == nil
	}

	// runWizard asks for the values not already provided as flags.
	runWizard = runInitWizard

	// writeConfigFile writes the generated config to a file.
	writeConfigFile = func(path, content string) error {
		return os.WriteFile(path, []byte(content), 0o644)
	}
)

// InitOptions are the init command's flag values.
type InitOptions struct {
	OutputPath string
	Force      bool
	Hostname   string
	Email      string
	RepoURL    string
}

// Init creates a starter configuration file. Values missing from the
// flags are collected interactively.
func Init(ctx context.Context, opts InitOptions) error {
	if fileExists(opts.OutputPath) && !opts.Force {
		return fmt.Errorf("%s already exists; use --force to overwrite", opts.OutputPath)
	}

	if opts.Hostname == "" || opts.Email == "" || opts.RepoURL == "" {
		printWelcome()
		if err := runWizard(ctx, &opts); err != nil {
			return fmt.Errorf("wizard canceled: %w", err)
		}
	}

	content := config.Sample(opts.Hostname, opts.Email, opts.RepoURL)

	// The sample must stay loadable; a regression here would only
	// surface at the first apply.
	if _, err := config.Parse([]byte(content)); err != nil {
		return fmt.Errorf("generated config is invalid: %w", err)
	}

	if err := writeConfigFile(opts.OutputPath, content); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	printInitSuccess(opts)
	return nil
}

// runInitWizard collects the missing values interactively.
func runInitWizard(ctx context.Context, opts *InitOptions) error {
	var groups []*huh.Group

	if opts.Hostname == "" {
		groups = append(groups, huh.NewGroup(
			huh.NewInput().
				Title("Hostname").
				Description("The FQDN this host will serve; also the default TLS domain").
				Placeholder("app.example.com").
				Value(&opts.Hostname).
				Validate(validateHostname),
		))
	}

	if opts.Email == "" {
		groups = append(groups, huh.NewGroup(
			huh.NewInput().
				Title("Contact email").
				Description("Operator contact, used for ACME registration").
				Placeholder("ops@example.com").
				Value(&opts.Email).
				Validate(validateEmail),
		))
	}

	if opts.RepoURL == "" {
		groups = append(groups, huh.NewGroup(
			huh.NewInput().
				Title("Repository URL").
				Description("The deployment repository to clone onto the host").
				Placeholder("https://git.example.com/app.git").
				Value(&opts.RepoURL).
				Validate(validateRepoURL),
		))
	}

	return huh.NewForm(groups...).RunWithContext(ctx)
}

func validateHostname(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("hostname is required")
	}
	if strings.ContainsAny(s, " /") {
		return fmt.Errorf("hostname must be a bare FQDN")
	}
	return nil
}

func validateEmail(s string) error {
	if !strings.Contains(s, "@") {
		return fmt.Errorf("enter a valid email address")
	}
	return nil
}

func validateRepoURL(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("repository URL is required")
	}
	return nil
}

// printWelcome prints the welcome message.
func printWelcome() {
	fmt.Println()
	fmt.Println("hostprep - host provisioning for Python applications")
	fmt.Println("====================================================")
	fmt.Println()
	fmt.Println("This wizard creates a host configuration with sensible defaults.")
	fmt.Println("Just answer 3 simple questions.")
	fmt.Println()
}

// printInitSuccess prints the success message with next steps.
func printInitSuccess(opts InitOptions) {
	fmt.Println()
	fmt.Println("Configuration saved!")
	fmt.Println()
	fmt.Printf("  File: %s\n", opts.OutputPath)
	fmt.Println()

	fmt.Println("Host Summary")
	fmt.Println("------------")
	fmt.Printf("  Hostname:   %s\n", opts.Hostname)
	fmt.Printf("  Contact:    %s\n", opts.Email)
	fmt.Printf("  Repository: %s\n", opts.RepoURL)
	fmt.Println()

	fmt.Println("Next Steps")
	fmt.Println("----------")
	fmt.Printf("  1. Review %s; adjust packages, units and paths as needed\n", opts.OutputPath)
	fmt.Println()
	fmt.Println("  2. Provision the host:")
	fmt.Println("     hostprep apply")
	fmt.Println()
	fmt.Println("  3. Inspect it at any time:")
	fmt.Println("     hostprep doctor")
	fmt.Println()
}
