package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/hostprep/hostprep/internal/config"
	"github.com/hostprep/hostprep/internal/platform/host"
)

// DoctorStatus represents the host diagnostic status.
type DoctorStatus struct {
	Hostname    string            `json:"hostname"`
	Converged   bool              `json:"converged"`
	Packages    []PackageStatus   `json:"packages,omitempty"`
	Repository  RepositoryStatus  `json:"repository"`
	Python      PythonStatus      `json:"python"`
	Units       []UnitStatus      `json:"units,omitempty"`
	Proxy       ProxyStatus       `json:"proxy"`
	Certificate CertificateStatus `json:"certificate"`
}

// PackageStatus reports whether a configured package is installed.
type PackageStatus struct {
	Name      string `json:"name"`
	Installed bool   `json:"installed"`
}

// RepositoryStatus reports the deployment repository state.
type RepositoryStatus struct {
	BareExists      bool   `json:"bareExists"`
	WorkTreeExists  bool   `json:"workTreeExists"`
	WorkTreeCurrent bool   `json:"workTreeCurrent"`
	Branch          string `json:"branch"`
	Head            string `json:"head,omitempty"`
}

// PythonStatus reports the virtual environment state.
type PythonStatus struct {
	VenvExists bool `json:"venvExists"`
}

// UnitStatus reports a configured systemd unit's state.
type UnitStatus struct {
	Name    string `json:"name"`
	Active  bool   `json:"active"`
	Enabled bool   `json:"enabled"`
}

// ProxyStatus reports the nginx state.
type ProxyStatus struct {
	Configured      bool `json:"configured"`
	ConfigInstalled bool `json:"configInstalled"`
	Active          bool `json:"active"`
}

// CertificateStatus reports the TLS certificate state.
type CertificateStatus struct {
	Enabled bool   `json:"enabled"`
	Domain  string `json:"domain,omitempty"`
	Present bool   `json:"present"`
}

// Doctor checks the host against its configuration without changing
// anything and prints the result, styled for interactive terminals, plain
// otherwise, or as JSON with --json.
func Doctor(ctx context.Context, configPath string, jsonOutput bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	target, _, err := buildHost(cfg)
	if err != nil {
		return err
	}

	status := gatherStatus(ctx, cfg, target)

	if jsonOutput {
		return printDoctorJSON(status)
	}
	if isInteractiveTTY() {
		printDoctorStyled(status)
		return nil
	}
	printDoctorPlain(status)
	return nil
}

// gatherStatus probes the host for the state each phase would converge.
func gatherStatus(ctx context.Context, cfg *config.Config, h host.Host) *DoctorStatus {
	status := &DoctorStatus{
		Hostname:  cfg.Hostname,
		Converged: true,
	}
	converged := func(ok bool) bool {
		if !ok {
			status.Converged = false
		}
		return ok
	}

	for _, pkg := range cfg.Packages.Install {
		_, err := h.Execute(ctx, fmt.Sprintf("rpm -q %s", pkg))
		status.Packages = append(status.Packages, PackageStatus{
			Name:      pkg,
			Installed: converged(err == nil),
		})
	}

	status.Repository.Branch = cfg.Repository.Branch
	bareExists, _ := h.FileExists(ctx, cfg.Repository.BarePath)
	status.Repository.BareExists = converged(bareExists)
	workTreeExists, _ := h.FileExists(ctx, cfg.Repository.WorkTree)
	status.Repository.WorkTreeExists = converged(workTreeExists)
	if bareExists {
		head, err := h.Execute(ctx,
			fmt.Sprintf("git --git-dir=%q rev-parse %s", cfg.Repository.BarePath, cfg.Repository.Branch))
		if err == nil {
			status.Repository.Head = strings.TrimSpace(head)
		}
	}
	if bareExists && workTreeExists {
		// diff-index exits non-zero when the checked-out tree no longer
		// matches the branch head, e.g. after a fetch without a re-apply.
		_, err := h.Execute(ctx,
			fmt.Sprintf("git --git-dir=%q --work-tree=%q diff-index --quiet %s --",
				cfg.Repository.BarePath, cfg.Repository.WorkTree, cfg.Repository.Branch))
		status.Repository.WorkTreeCurrent = converged(err == nil)
	}

	venvExists, _ := h.FileExists(ctx, path.Join(cfg.Python.VenvPath, "pyvenv.cfg"))
	status.Python.VenvExists = converged(venvExists)

	for _, unit := range cfg.Services.Units {
		_, activeErr := h.Execute(ctx, fmt.Sprintf("systemctl is-active %s", unit.Name))
		_, enabledErr := h.Execute(ctx, fmt.Sprintf("systemctl is-enabled %s", unit.Name))
		status.Units = append(status.Units, UnitStatus{
			Name:    unit.Name,
			Active:  converged(activeErr == nil),
			Enabled: converged(enabledErr == nil),
		})
	}

	status.Proxy.Configured = cfg.Proxy.ConfigSource != ""
	if status.Proxy.Configured {
		installed, _ := h.FileExists(ctx,
			path.Join(cfg.Proxy.ConfigDir, path.Base(cfg.Proxy.ConfigSource)))
		status.Proxy.ConfigInstalled = converged(installed)
		_, err := h.Execute(ctx, "systemctl is-active nginx")
		status.Proxy.Active = converged(err == nil)
	}

	status.Certificate.Enabled = cfg.TLS.IsEnabled()
	if status.Certificate.Enabled {
		status.Certificate.Domain = cfg.TLS.Domain
		present, _ := h.FileExists(ctx, path.Join(cfg.TLS.CertDir, cfg.TLS.Domain))
		status.Certificate.Present = converged(present)
	}

	return status
}

// printDoctorJSON outputs status as JSON.
func printDoctorJSON(status *DoctorStatus) error {
	data, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal status: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// printDoctorPlain renders the status without styling, for pipes and logs.
func printDoctorPlain(status *DoctorStatus) {
	fmt.Printf("Host: %s\n", status.Hostname)
	if status.Converged {
		fmt.Println("Status: converged")
	} else {
		fmt.Println("Status: drifted (run 'hostprep apply')")
	}
	fmt.Println()

	fmt.Println("Packages")
	for _, pkg := range status.Packages {
		fmt.Printf("  %s %s\n", plainMark(pkg.Installed), pkg.Name)
	}

	fmt.Println("Repository")
	fmt.Printf("  %s bare clone\n", plainMark(status.Repository.BareExists))
	fmt.Printf("  %s working tree", plainMark(status.Repository.WorkTreeExists))
	if status.Repository.Head != "" {
		fmt.Printf(" (%s @ %s)", status.Repository.Branch, status.Repository.Head)
	}
	fmt.Println()
	if status.Repository.BareExists && status.Repository.WorkTreeExists {
		fmt.Printf("  %s checkout matches %s\n", plainMark(status.Repository.WorkTreeCurrent), status.Repository.Branch)
	}

	fmt.Println("Python")
	fmt.Printf("  %s virtual environment\n", plainMark(status.Python.VenvExists))

	if len(status.Units) > 0 {
		fmt.Println("Units")
		for _, unit := range status.Units {
			fmt.Printf("  %s %s (%s)\n", plainMark(unit.Active && unit.Enabled), unit.Name, unitDetail(unit))
		}
	}

	fmt.Println("Proxy")
	if status.Proxy.Configured {
		fmt.Printf("  %s site config installed\n", plainMark(status.Proxy.ConfigInstalled))
		fmt.Printf("  %s nginx active\n", plainMark(status.Proxy.Active))
	} else {
		fmt.Println("  - not configured")
	}

	fmt.Println("Certificate")
	if !status.Certificate.Enabled {
		fmt.Println("  - disabled")
		return
	}
	fmt.Printf("  %s %s\n", plainMark(status.Certificate.Present), status.Certificate.Domain)
}

func plainMark(ok bool) string {
	if ok {
		return "[ok]"
	}
	return "[!!]"
}

// unitDetail summarizes the systemd state of a unit.
func unitDetail(unit UnitStatus) string {
	active := "inactive"
	if unit.Active {
		active = "active"
	}
	enabled := "disabled"
	if unit.Enabled {
		enabled = "enabled"
	}
	return active + ", " + enabled
}

func isInteractiveTTY() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}
