// Package prerequisites verifies the tools hostprep drives are present on
// the target host before any phase runs.
package prerequisites

import (
	"context"
	"fmt"
	"strings"

	"github.com/hostprep/hostprep/internal/config"
	"github.com/hostprep/hostprep/internal/platform/host"
)

// Tool represents a host tool that may be required.
type Tool struct {
	// Name is the binary name to look for in PATH.
	Name string

	// Required indicates if this tool must be present before provisioning
	// starts. Tools the packages phase installs itself are not required
	// up front.
	Required bool

	// Description explains what the tool is used for.
	Description string
}

// DefaultTools returns the tools to check for the given configuration.
// The package manager and systemctl must exist up front; git, nginx,
// certbot and the Python interpreter are normally installed by the
// packages phase and only produce warnings when missing.
func DefaultTools(cfg *config.Config) []Tool {
	return []Tool{
		{
			Name:        cfg.Packages.Manager,
			Required:    true,
			Description: "Installs the configured OS packages",
		},
		{
			Name:        "systemctl",
			Required:    true,
			Description: "Manages the installed units and nginx",
		},
		{
			Name:        "git",
			Description: "Clones the deployment repository (installed by the packages phase if configured)",
		},
		{
			Name:        cfg.Python.Interpreter,
			Description: "Creates the application virtual environment (installed by the packages phase if configured)",
		},
		{
			Name:        "nginx",
			Description: "Serves the reverse proxy (installed by the packages phase if configured)",
		},
		{
			Name:        "certbot",
			Description: "Obtains the TLS certificate (installed by the packages phase if configured)",
		},
	}
}

// CheckResult contains the result of checking a single tool.
type CheckResult struct {
	Tool  Tool
	Found bool
	Path  string
}

// CheckResults contains the results of checking multiple tools.
type CheckResults struct {
	Results []CheckResult
	Missing []Tool
}

// HasErrors returns true if any required tools are missing.
func (r *CheckResults) HasErrors() bool {
	for _, tool := range r.Missing {
		if tool.Required {
			return true
		}
	}
	return false
}

// Error returns an error if any required tools are missing.
func (r *CheckResults) Error() error {
	var missing []string
	for _, tool := range r.Missing {
		if tool.Required {
			missing = append(missing, tool.Name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("missing required tools: %s", strings.Join(missing, ", "))
}

// Check verifies that the specified tools are available on the host.
func Check(ctx context.Context, h host.Host, tools []Tool) *CheckResults {
	results := &CheckResults{}

	for _, tool := range tools {
		result := CheckResult{Tool: tool}

		out, err := h.Execute(ctx, fmt.Sprintf("command -v %s", tool.Name))
		if err == nil {
			result.Found = true
			result.Path = strings.TrimSpace(out)
		} else {
			results.Missing = append(results.Missing, tool)
		}

		results.Results = append(results.Results, result)
	}

	return results
}

// CheckDefault checks the default tool set for the configuration.
func CheckDefault(ctx context.Context, h host.Host, cfg *config.Config) *CheckResults {
	return Check(ctx, h, DefaultTools(cfg))
}
