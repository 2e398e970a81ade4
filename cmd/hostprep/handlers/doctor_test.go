package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostprep/hostprep/internal/platform/host/hosttest"
)

// convergedFakeHost scripts a host where everything is in place.
func convergedFakeHost() *hosttest.Fake {
	fake := hosttest.New()
	fake.Touch("/srv/repo/app.git")
	fake.Touch("/srv/app")
	fake.PutFile("/srv/app/venv/pyvenv.cfg", []byte("home = /usr/bin"))
	fake.PutFile("/etc/nginx/conf.d/app.conf", []byte("server {}"))
	fake.Touch("/etc/letsencrypt/live/app.example.com")
	fake.Respond(`git --git-dir="/srv/repo/app.git" rev-parse main`, "0a1b2c3d\n", nil)
	return fake
}

func TestGatherStatus_Converged(t *testing.T) {
	cfg := applyTestConfig()
	fake := convergedFakeHost()

	status := gatherStatus(context.Background(), cfg, fake)

	assert.True(t, status.Converged)
	assert.Equal(t, "app.example.com", status.Hostname)

	require.Len(t, status.Packages, 2)
	assert.True(t, status.Packages[0].Installed)

	assert.True(t, status.Repository.BareExists)
	assert.True(t, status.Repository.WorkTreeExists)
	assert.True(t, status.Repository.WorkTreeCurrent)
	assert.Equal(t, "main", status.Repository.Branch)
	assert.Equal(t, "0a1b2c3d", status.Repository.Head)

	assert.True(t, status.Python.VenvExists)

	require.Len(t, status.Units, 1)
	assert.True(t, status.Units[0].Active)
	assert.True(t, status.Units[0].Enabled)

	assert.True(t, status.Proxy.ConfigInstalled)
	assert.True(t, status.Proxy.Active)

	assert.True(t, status.Certificate.Enabled)
	assert.True(t, status.Certificate.Present)
	assert.Equal(t, "app.example.com", status.Certificate.Domain)
}

func TestGatherStatus_FreshHostHasDrifted(t *testing.T) {
	cfg := applyTestConfig()
	fake := hosttest.New()
	fake.Handler = func(command string) (string, error) {
		return "", errors.New("not there yet")
	}

	status := gatherStatus(context.Background(), cfg, fake)

	assert.False(t, status.Converged)
	assert.False(t, status.Packages[0].Installed)
	assert.False(t, status.Repository.BareExists)
	assert.Empty(t, status.Repository.Head)
	assert.False(t, status.Python.VenvExists)
	assert.False(t, status.Units[0].Active)
	assert.False(t, status.Proxy.Active)
	assert.False(t, status.Certificate.Present)
}

func TestGatherStatus_InactiveUnitMarksDrift(t *testing.T) {
	cfg := applyTestConfig()
	fake := convergedFakeHost()
	fake.Respond("systemctl is-active app.service", "", errors.New("inactive"))

	status := gatherStatus(context.Background(), cfg, fake)

	assert.False(t, status.Converged)
	assert.False(t, status.Units[0].Active)
	assert.True(t, status.Units[0].Enabled)
	assert.Equal(t, "inactive, enabled", unitDetail(status.Units[0]))
}

func TestGatherStatus_StaleWorkTreeMarksDrift(t *testing.T) {
	cfg := applyTestConfig()
	fake := convergedFakeHost()
	fake.Respond(`git --git-dir="/srv/repo/app.git" rev-parse main`, "deadbeef\n", nil)
	fake.Respond(`git --git-dir="/srv/repo/app.git" --work-tree="/srv/app" diff-index --quiet main --`,
		"", errors.New("exit status 1"))

	status := gatherStatus(context.Background(), cfg, fake)

	assert.False(t, status.Converged,
		"a working tree behind the branch head is not converged")
	assert.True(t, status.Repository.WorkTreeExists)
	assert.False(t, status.Repository.WorkTreeCurrent)
	assert.Equal(t, "deadbeef", status.Repository.Head)
}

func TestGatherStatus_ProxyNotConfigured(t *testing.T) {
	cfg := applyTestConfig()
	cfg.Proxy.ConfigSource = ""
	fake := hosttest.New()
	fake.Handler = func(command string) (string, error) {
		return "", errors.New("not there yet")
	}

	status := gatherStatus(context.Background(), cfg, fake)

	assert.False(t, status.Proxy.Configured)
	assert.False(t, status.Proxy.ConfigInstalled)
	assert.False(t, fake.Executed("nginx"), "no nginx probe without a site config")
}

func TestGatherStatus_TLSDisabled(t *testing.T) {
	cfg := applyTestConfig()
	disabled := false
	cfg.TLS.Enabled = &disabled
	fake := convergedFakeHost()

	status := gatherStatus(context.Background(), cfg, fake)

	assert.False(t, status.Certificate.Enabled)
	assert.True(t, status.Converged, "a missing certificate does not count when TLS is off")
}

func TestDoctorStatus_JSONShape(t *testing.T) {
	cfg := applyTestConfig()
	status := gatherStatus(context.Background(), cfg, convergedFakeHost())

	data, err := json.Marshal(status)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "app.example.com", decoded["hostname"])
	assert.Equal(t, true, decoded["converged"])
	assert.Contains(t, decoded, "repository")
	assert.Contains(t, decoded, "certificate")
}

func TestRenderDoctorStatus(t *testing.T) {
	cfg := applyTestConfig()
	status := gatherStatus(context.Background(), cfg, convergedFakeHost())

	out := renderDoctorStatus(status)
	assert.Contains(t, out, "hostprep doctor: app.example.com")
	assert.Contains(t, out, "Host is converged")
	assert.Contains(t, out, "app.service")
	assert.Contains(t, out, "0a1b2c3d")
	assert.Contains(t, out, "checkout matches main")
}

func TestRenderDoctorStatus_ProxyNotConfigured(t *testing.T) {
	cfg := applyTestConfig()
	cfg.Proxy.ConfigSource = ""

	out := renderDoctorStatus(gatherStatus(context.Background(), cfg, convergedFakeHost()))
	assert.Contains(t, out, "not configured")
	assert.NotContains(t, out, "site config")
}
