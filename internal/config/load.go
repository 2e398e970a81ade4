package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the config file apply looks for when no --config
// flag is given.
const DefaultConfigFile = "hostprep.yaml"

// LoadFile reads, defaults, and validates the configuration from a YAML file.
func LoadFile(path string) (*Config, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a YAML document into a validated Config.
// Unknown fields are rejected so typos surface as errors instead of
// silently ignored settings.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// FindConfigFile locates the default config file in the current directory.
func FindConfigFile() (string, error) {
	for _, name := range []string{DefaultConfigFile, "hostprep.yml"} {
		if _, err := os.Stat(name); err == nil {
			return name, nil
		}
	}
	return "", fmt.Errorf("%s not found in current directory", DefaultConfigFile)
}

// applyDefaults fills in standard system paths and tool names.
func (c *Config) applyDefaults() {
	if c.Packages.Manager == "" {
		c.Packages.Manager = "dnf"
	}
	if c.Repository.Remote == "" {
		c.Repository.Remote = "origin"
	}
	if c.Repository.Branch == "" {
		c.Repository.Branch = "main"
	}
	if c.Python.Interpreter == "" {
		c.Python.Interpreter = "python3.9"
	}
	if c.Python.Requirements == "" {
		c.Python.Requirements = "requirements.txt"
	}
	if c.Services.UnitDir == "" {
		c.Services.UnitDir = "/etc/systemd/system"
	}
	if c.Proxy.ConfigDir == "" {
		c.Proxy.ConfigDir = "/etc/nginx/conf.d"
	}
	if c.TLS.Domain == "" {
		c.TLS.Domain = c.Hostname
	}
	if c.TLS.Email == "" {
		c.TLS.Email = c.ContactEmail
	}
	if c.TLS.CertDir == "" {
		c.TLS.CertDir = "/etc/letsencrypt/live"
	}
	if c.Report.Path == "" {
		c.Report.Path = "/var/lib/hostprep/report.json"
	}
	if c.Report.MetricsFile == "" {
		c.Report.MetricsFile = "/var/lib/hostprep/hostprep.prom"
	}
	if c.SSH != nil && c.SSH.Port == 0 {
		c.SSH.Port = 22
	}
}
