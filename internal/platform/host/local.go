package host

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// Local runs commands on the machine hostprep itself is executing on.
type Local struct {
	// Shell is the shell used to interpret commands. Defaults to /bin/sh.
	Shell string
}

// NewLocal creates a Host backed by the local machine.
func NewLocal() *Local {
	return &Local{Shell: "/bin/sh"}
}

// Execute implements Host.
func (l *Local) Execute(ctx context.Context, command string) (string, error) {
	shell := l.Shell
	if shell == "" {
		shell = "/bin/sh"
	}

	// #nosec G204 -- commands are assembled from validated configuration
	cmd := exec.CommandContext(ctx, shell, "-c", command)

	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	if err := cmd.Run(); err != nil {
		return buf.String(), fmt.Errorf("command failed: %w\nCommand: %s\nOutput: %s", err, command, buf.String())
	}
	return buf.String(), nil
}

// WriteFile implements Host.
func (l *Local) WriteFile(_ context.Context, path string, data []byte, perm os.FileMode) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, perm); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// ReadFile implements Host.
func (l *Local) ReadFile(_ context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- paths come from operator configuration
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// FileExists implements Host.
func (l *Local) FileExists(_ context.Context, path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to stat %s: %w", path, err)
}
