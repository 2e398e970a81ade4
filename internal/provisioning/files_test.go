package provisioning_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostprep/hostprep/internal/config"
	"github.com/hostprep/hostprep/internal/platform/host/hosttest"
	"github.com/hostprep/hostprep/internal/provisioning"
)

func TestInstallFile_WritesNewFile(t *testing.T) {
	fake := hosttest.New()
	fake.PutFile("/srv/app/current/deploy/app.conf", []byte("server {}"))
	ctx := testContext(&config.Config{}, fake)

	wrote, err := provisioning.InstallFile(ctx, "/srv/app/current/deploy/app.conf", "/etc/nginx/conf.d/app.conf")
	require.NoError(t, err)
	assert.True(t, wrote)

	data, ok := fake.FileContent("/etc/nginx/conf.d/app.conf")
	require.True(t, ok)
	assert.Equal(t, "server {}", string(data))
}

func TestInstallFile_SkipsIdenticalContent(t *testing.T) {
	fake := hosttest.New()
	fake.PutFile("/src", []byte("same"))
	fake.PutFile("/dst", []byte("same"))
	ctx := testContext(&config.Config{}, fake)

	wrote, err := provisioning.InstallFile(ctx, "/src", "/dst")
	require.NoError(t, err)
	assert.False(t, wrote)
}

func TestInstallFile_OverwritesChangedContent(t *testing.T) {
	fake := hosttest.New()
	fake.PutFile("/src", []byte("new"))
	fake.PutFile("/dst", []byte("old"))
	ctx := testContext(&config.Config{}, fake)

	wrote, err := provisioning.InstallFile(ctx, "/src", "/dst")
	require.NoError(t, err)
	assert.True(t, wrote)

	data, _ := fake.FileContent("/dst")
	assert.Equal(t, "new", string(data))
}

func TestInstallFile_MissingSource(t *testing.T) {
	fake := hosttest.New()
	ctx := testContext(&config.Config{}, fake)

	_, err := provisioning.InstallFile(ctx, "/absent", "/dst")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/absent")
}
