package host

import (
	"context"
	"os"
)

// DryRun wraps a Host and logs mutating operations instead of performing
// them. Read operations are delegated to the inner host so existence
// checks still reflect reality; a read that fails is reported as empty so
// a dry run over a not-yet-cloned working tree keeps going.
type DryRun struct {
	Inner Host
	Logf  func(format string, v ...interface{})
}

// NewDryRun wraps inner in a dry-run shell.
func NewDryRun(inner Host, logf func(format string, v ...interface{})) *DryRun {
	return &DryRun{Inner: inner, Logf: logf}
}

// Execute implements Host. The command is logged, never run.
func (d *DryRun) Execute(_ context.Context, command string) (string, error) {
	d.Logf("dry-run: would execute: %s", command)
	return "", nil
}

// WriteFile implements Host. The write is logged, never performed.
func (d *DryRun) WriteFile(_ context.Context, path string, data []byte, perm os.FileMode) error {
	d.Logf("dry-run: would write %d bytes to %s (mode %o)", len(data), path, perm)
	return nil
}

// ReadFile implements Host.
func (d *DryRun) ReadFile(ctx context.Context, path string) ([]byte, error) {
	data, err := d.Inner.ReadFile(ctx, path)
	if err != nil {
		d.Logf("dry-run: %s not readable yet, treating as empty", path)
		return nil, nil
	}
	return data, nil
}

// FileExists implements Host.
func (d *DryRun) FileExists(ctx context.Context, path string) (bool, error) {
	exists, err := d.Inner.FileExists(ctx, path)
	if err != nil {
		return false, nil
	}
	return exists, nil
}
