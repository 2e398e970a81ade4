package handlers

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	doctorColorGreen = lipgloss.Color("#22c55e")
	doctorColorRed   = lipgloss.Color("#ef4444")
	doctorColorBlue  = lipgloss.Color("#3b82f6")
	doctorColorDim   = lipgloss.Color("#6b7280")
	doctorColorWhite = lipgloss.Color("#f9fafb")
)

var (
	doctorTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(doctorColorWhite)

	doctorSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(doctorColorBlue)

	doctorDimStyle = lipgloss.NewStyle().
			Foreground(doctorColorDim)

	doctorGreenStyle = lipgloss.NewStyle().
				Foreground(doctorColorGreen)

	doctorRedStyle = lipgloss.NewStyle().
			Foreground(doctorColorRed)
)

// printDoctorStyled renders the status for interactive terminals.
func printDoctorStyled(status *DoctorStatus) {
	fmt.Print(renderDoctorStatus(status))
}

// renderDoctorStatus produces a lipgloss-styled status string.
func renderDoctorStatus(status *DoctorStatus) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(doctorTitleStyle.Render(fmt.Sprintf("  hostprep doctor: %s", status.Hostname)))
	b.WriteString("\n")
	b.WriteString(doctorDimStyle.Render("  " + strings.Repeat("═", 40)))
	b.WriteString("\n")

	if status.Converged {
		b.WriteString(doctorGreenStyle.Render("  Host is converged"))
	} else {
		b.WriteString(doctorRedStyle.Render("  Host has drifted; run 'hostprep apply'"))
	}
	b.WriteString("\n")

	if len(status.Packages) > 0 {
		renderDoctorSection(&b, "Packages")
		for _, pkg := range status.Packages {
			renderDoctorRow(&b, pkg.Installed, pkg.Name, "")
		}
	}

	renderDoctorSection(&b, "Repository")
	renderDoctorRow(&b, status.Repository.BareExists, "bare clone", "")
	extra := ""
	if status.Repository.Head != "" {
		extra = fmt.Sprintf("%s @ %s", status.Repository.Branch, status.Repository.Head)
	}
	renderDoctorRow(&b, status.Repository.WorkTreeExists, "working tree", extra)
	if status.Repository.BareExists && status.Repository.WorkTreeExists {
		renderDoctorRow(&b, status.Repository.WorkTreeCurrent, "checkout matches "+status.Repository.Branch, "")
	}

	renderDoctorSection(&b, "Python")
	renderDoctorRow(&b, status.Python.VenvExists, "virtual environment", "")

	if len(status.Units) > 0 {
		renderDoctorSection(&b, "Units")
		for _, unit := range status.Units {
			renderDoctorRow(&b, unit.Active && unit.Enabled, unit.Name, unitDetail(unit))
		}
	}

	renderDoctorSection(&b, "Proxy")
	if status.Proxy.Configured {
		renderDoctorRow(&b, status.Proxy.ConfigInstalled, "site config", "")
		renderDoctorRow(&b, status.Proxy.Active, "nginx", "")
	} else {
		b.WriteString(doctorDimStyle.Render("    not configured"))
		b.WriteString("\n")
	}

	renderDoctorSection(&b, "Certificate")
	if status.Certificate.Enabled {
		renderDoctorRow(&b, status.Certificate.Present, status.Certificate.Domain, "")
	} else {
		b.WriteString(doctorDimStyle.Render("    disabled"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	return b.String()
}

func renderDoctorSection(b *strings.Builder, title string) {
	b.WriteString("\n")
	b.WriteString(doctorSectionStyle.Render("  " + title))
	b.WriteString("\n")
	b.WriteString(doctorDimStyle.Render("  " + strings.Repeat("─", 35)))
	b.WriteString("\n")
}

func renderDoctorRow(b *strings.Builder, ok bool, name, extra string) {
	mark := doctorGreenStyle.Render("✓")
	if !ok {
		mark = doctorRedStyle.Render("✗")
	}

	if extra != "" {
		fmt.Fprintf(b, "  %s  %-22s %s\n", mark, name, doctorDimStyle.Render(extra))
		return
	}
	fmt.Fprintf(b, "  %s  %s\n", mark, name)
}
