package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadTimeouts_Defaults(t *testing.T) {
	timeouts := LoadTimeouts()

	assert.Equal(t, 15*time.Minute, timeouts.PackageInstall)
	assert.Equal(t, 5*time.Minute, timeouts.GitNetwork)
	assert.Equal(t, 15*time.Minute, timeouts.PipInstall)
	assert.Equal(t, 2*time.Minute, timeouts.ServiceOp)
	assert.Equal(t, 5*time.Minute, timeouts.CertIssue)
	assert.Equal(t, 3, timeouts.RetryMaxAttempts)
	assert.Equal(t, time.Second, timeouts.RetryInitialDelay)
}

func TestLoadTimeouts_EnvOverride(t *testing.T) {
	t.Setenv("HOSTPREP_TIMEOUT_CERT_ISSUE", "90s")
	t.Setenv("HOSTPREP_RETRY_MAX_ATTEMPTS", "7")

	timeouts := LoadTimeouts()

	assert.Equal(t, 90*time.Second, timeouts.CertIssue)
	assert.Equal(t, 7, timeouts.RetryMaxAttempts)
}

func TestLoadTimeouts_InvalidEnvFallsBack(t *testing.T) {
	t.Setenv("HOSTPREP_TIMEOUT_GIT_NETWORK", "soon")
	t.Setenv("HOSTPREP_RETRY_MAX_ATTEMPTS", "many")

	timeouts := LoadTimeouts()

	assert.Equal(t, 5*time.Minute, timeouts.GitNetwork)
	assert.Equal(t, 3, timeouts.RetryMaxAttempts)
}
