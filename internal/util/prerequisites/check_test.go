package prerequisites

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostprep/hostprep/internal/config"
	"github.com/hostprep/hostprep/internal/platform/host/hosttest"
)

func TestCheck_AllFound(t *testing.T) {
	t.Parallel()
	h := hosttest.New()
	h.Respond("command -v git", "/usr/bin/git\n", nil)
	h.Respond("command -v systemctl", "/usr/bin/systemctl\n", nil)

	results := Check(context.Background(), h, []Tool{
		{Name: "git", Required: true},
		{Name: "systemctl", Required: true},
	})

	assert.False(t, results.HasErrors())
	require.NoError(t, results.Error())
	require.Len(t, results.Results, 2)
	assert.Equal(t, "/usr/bin/git", results.Results[0].Path)
}

func TestCheck_RequiredMissing(t *testing.T) {
	t.Parallel()
	h := hosttest.New()
	h.Respond("command -v dnf", "", errors.New("exit status 127"))

	results := Check(context.Background(), h, []Tool{{Name: "dnf", Required: true}})

	assert.True(t, results.HasErrors())
	err := results.Error()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dnf")
}

func TestCheck_OptionalMissingIsNotAnError(t *testing.T) {
	t.Parallel()
	h := hosttest.New()
	h.Respond("command -v certbot", "", errors.New("exit status 127"))

	results := Check(context.Background(), h, []Tool{{Name: "certbot"}})

	assert.False(t, results.HasErrors())
	assert.NoError(t, results.Error())
	assert.Len(t, results.Missing, 1)
}

func TestDefaultTools_UsesConfiguredBinaries(t *testing.T) {
	t.Parallel()
	cfg := &config.Config{
		Packages: config.PackagesConfig{Manager: "yum"},
		Python:   config.PythonConfig{Interpreter: "python3.11"},
	}

	tools := DefaultTools(cfg)

	names := make(map[string]bool)
	for _, tool := range tools {
		names[tool.Name] = tool.Required
	}
	assert.True(t, names["yum"])
	assert.True(t, names["systemctl"])
	required, ok := names["python3.11"]
	assert.True(t, ok)
	assert.False(t, required)
}
