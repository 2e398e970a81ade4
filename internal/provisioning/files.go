package provisioning

import (
	"bytes"
	"fmt"
)

// InstallFile copies source to dest through the host, skipping the write
// when the installed content is already identical. Returns whether a write
// happened.
func InstallFile(ctx *Context, source, dest string) (bool, error) {
	data, err := ctx.Host.ReadFile(ctx, source)
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", source, err)
	}

	if existing, err := ctx.Host.ReadFile(ctx, dest); err == nil && bytes.Equal(existing, data) {
		return false, nil
	}

	if err := ctx.Host.WriteFile(ctx, dest, data, 0o644); err != nil {
		return false, err
	}
	return true, nil
}
