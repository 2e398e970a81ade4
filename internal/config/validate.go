package config

import (
	"fmt"
	"path"
	"strings"
)

// ValidManagers contains the supported package manager binaries.
// hostprep drives them with dnf-compatible flags.
var ValidManagers = map[string]bool{
	"dnf":      true,
	"yum":      true,
	"microdnf": true,
}

// Validate checks the configuration for common errors and returns a
// detailed error if validation fails.
func (c *Config) Validate() error {
	// Required fields
	if c.Hostname == "" {
		return fmt.Errorf("hostname is required")
	}
	if c.Repository.URL == "" {
		return fmt.Errorf("repository.url is required")
	}

	if !ValidManagers[c.Packages.Manager] {
		return fmt.Errorf("packages.manager %q is not supported (one of: dnf, yum, microdnf)", c.Packages.Manager)
	}

	if err := c.validateRepository(); err != nil {
		return fmt.Errorf("repository validation failed: %w", err)
	}

	if err := c.validateServices(); err != nil {
		return fmt.Errorf("services validation failed: %w", err)
	}

	if c.TLS.IsEnabled() {
		if c.TLS.Email == "" {
			return fmt.Errorf("tls.email (or contact_email) is required when TLS is enabled")
		}
		if !strings.Contains(c.TLS.Email, "@") {
			return fmt.Errorf("tls.email %q is not a valid address", c.TLS.Email)
		}
	}

	if c.SSH != nil {
		if c.SSH.Host == "" {
			return fmt.Errorf("ssh.host is required when the ssh section is set")
		}
		if c.SSH.User == "" {
			return fmt.Errorf("ssh.user is required when the ssh section is set")
		}
		if c.SSH.KeyFile == "" {
			return fmt.Errorf("ssh.key_file is required when the ssh section is set")
		}
	}

	return nil
}

// validateRepository checks repo paths are absolute and distinct.
func (c *Config) validateRepository() error {
	if c.Repository.BarePath == "" {
		return fmt.Errorf("bare_path is required")
	}
	if c.Repository.WorkTree == "" {
		return fmt.Errorf("work_tree is required")
	}
	if !path.IsAbs(c.Repository.BarePath) {
		return fmt.Errorf("bare_path must be absolute, got %q", c.Repository.BarePath)
	}
	if !path.IsAbs(c.Repository.WorkTree) {
		return fmt.Errorf("work_tree must be absolute, got %q", c.Repository.WorkTree)
	}
	if c.Repository.BarePath == c.Repository.WorkTree {
		return fmt.Errorf("bare_path and work_tree must differ")
	}
	return nil
}

// validateServices checks unit names and sources.
func (c *Config) validateServices() error {
	seen := make(map[string]bool)
	for i, unit := range c.Services.Units {
		if unit.Source == "" {
			return fmt.Errorf("units[%d].source is required", i)
		}
		if unit.Name == "" {
			return fmt.Errorf("units[%d].name is required", i)
		}
		if !strings.HasSuffix(unit.Name, ".service") && !strings.HasSuffix(unit.Name, ".timer") {
			return fmt.Errorf("units[%d].name %q must end in .service or .timer", i, unit.Name)
		}
		if path.IsAbs(unit.Source) {
			return fmt.Errorf("units[%d].source must be relative to the working tree, got %q", i, unit.Source)
		}
		if seen[unit.Name] {
			return fmt.Errorf("duplicate unit name %q", unit.Name)
		}
		seen[unit.Name] = true
	}
	return nil
}
