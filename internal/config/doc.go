// Package config defines the hostprep.yaml configuration model: what
// packages the host needs, where the deployment repository lives, how the
// Python environment is built, which systemd units and nginx site config
// to install, and how the TLS certificate is obtained.
//
// Loading is strict (unknown YAML fields are errors), defaults fill in
// standard system paths, and validation runs before any phase executes.
package config
