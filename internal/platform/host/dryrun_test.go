package host_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostprep/hostprep/internal/platform/host"
	"github.com/hostprep/hostprep/internal/platform/host/hosttest"
)

func TestDryRun_ExecuteOnlyLogs(t *testing.T) {
	t.Parallel()
	inner := hosttest.New()

	var logged []string
	d := host.NewDryRun(inner, func(format string, v ...interface{}) {
		logged = append(logged, fmt.Sprintf(format, v...))
	})

	out, err := d.Execute(context.Background(), "dnf install -y nginx")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Empty(t, inner.Commands(), "inner host must not run anything")
	require.Len(t, logged, 1)
	assert.Contains(t, logged[0], "dnf install -y nginx")
}

func TestDryRun_WriteFileOnlyLogs(t *testing.T) {
	t.Parallel()
	inner := hosttest.New()

	var logged []string
	d := host.NewDryRun(inner, func(format string, v ...interface{}) {
		logged = append(logged, fmt.Sprintf(format, v...))
	})

	require.NoError(t, d.WriteFile(context.Background(), "/etc/systemd/system/app.service", []byte("x"), 0o644))
	_, written := inner.FileContent("/etc/systemd/system/app.service")
	assert.False(t, written)
	assert.NotEmpty(t, logged)
}

func TestDryRun_ReadsDelegate(t *testing.T) {
	t.Parallel()
	inner := hosttest.New()
	inner.PutFile("/srv/app/deploy/app.service", []byte("[Unit]"))

	d := host.NewDryRun(inner, func(string, ...interface{}) {})

	data, err := d.ReadFile(context.Background(), "/srv/app/deploy/app.service")
	require.NoError(t, err)
	assert.Equal(t, "[Unit]", string(data))

	exists, err := d.FileExists(context.Background(), "/srv/app/deploy/app.service")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestDryRun_MissingReadIsEmpty(t *testing.T) {
	t.Parallel()
	d := host.NewDryRun(hosttest.New(), func(string, ...interface{}) {})

	data, err := d.ReadFile(context.Background(), "/absent")
	require.NoError(t, err)
	assert.Nil(t, data)
}
