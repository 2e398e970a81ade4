package pyenv_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostprep/hostprep/internal/config"
	"github.com/hostprep/hostprep/internal/platform/host"
	"github.com/hostprep/hostprep/internal/platform/host/hosttest"
	"github.com/hostprep/hostprep/internal/provisioning"
	"github.com/hostprep/hostprep/internal/provisioning/pyenv"
)

func pyenvConfig() *config.Config {
	return &config.Config{
		Repository: config.RepositoryConfig{WorkTree: "/srv/app/current"},
		Python: config.PythonConfig{
			Interpreter:  "python3.9",
			VenvPath:     "/srv/app/venv",
			Requirements: "requirements.txt",
		},
	}
}

func testContext(cfg *config.Config, h host.Host) *provisioning.Context {
	return &provisioning.Context{
		Context:  context.Background(),
		Config:   cfg,
		State:    provisioning.NewState(),
		Host:     h,
		Observer: provisioning.NewObserver(logr.Discard()),
		Timeouts: &config.Timeouts{
			PackageInstall:    time.Minute,
			GitNetwork:        time.Minute,
			PipInstall:        time.Minute,
			ServiceOp:         time.Minute,
			CertIssue:         time.Minute,
			RetryMaxAttempts:  0,
			RetryInitialDelay: time.Millisecond,
		},
	}
}

func TestProvision_CreatesVenvAndInstalls(t *testing.T) {
	fake := hosttest.New()
	ctx := testContext(pyenvConfig(), fake)

	err := pyenv.New().Provision(ctx)
	require.NoError(t, err)

	assert.True(t, fake.Executed(`python3.9 -m venv "/srv/app/venv"`))
	assert.True(t, fake.Executed(`-m pip install -r "/srv/app/current/requirements.txt"`))
	assert.True(t, ctx.State.VenvCreated)
}

func TestProvision_ExistingVenvIsReused(t *testing.T) {
	fake := hosttest.New()
	fake.PutFile("/srv/app/venv/pyvenv.cfg", []byte("home = /usr/bin"))
	ctx := testContext(pyenvConfig(), fake)

	err := pyenv.New().Provision(ctx)
	require.NoError(t, err)

	assert.False(t, fake.Executed("-m venv"), "venv must not be recreated")
	assert.True(t, fake.Executed("pip install -r"), "requirements still converge on every run")
	assert.False(t, ctx.State.VenvCreated)
}

func TestProvision_UpgradePipBootstraps(t *testing.T) {
	fake := hosttest.New()
	cfg := pyenvConfig()
	cfg.Python.UpgradePip = true
	ctx := testContext(cfg, fake)

	err := pyenv.New().Provision(ctx)
	require.NoError(t, err)

	assert.True(t, fake.Executed("-m ensurepip --upgrade"))
	assert.True(t, fake.Executed("-m pip install --upgrade pip"))
}

func TestProvision_SkipsPipBootstrapByDefault(t *testing.T) {
	fake := hosttest.New()
	ctx := testContext(pyenvConfig(), fake)

	require.NoError(t, pyenv.New().Provision(ctx))
	assert.False(t, fake.Executed("ensurepip"))
}

func TestProvision_RequirementsFailure(t *testing.T) {
	fake := hosttest.New()
	fake.Handler = func(command string) (string, error) {
		if strings.Contains(command, "pip install -r") {
			return "", errors.New("no matching distribution")
		}
		return "", nil
	}
	ctx := testContext(pyenvConfig(), fake)

	err := pyenv.New().Provision(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requirements.txt")
}

func TestProvision_VenvCreationFailure(t *testing.T) {
	fake := hosttest.New()
	fake.Respond(`python3.9 -m venv "/srv/app/venv"`, "", errors.New("no module named venv"))
	ctx := testContext(pyenvConfig(), fake)

	err := pyenv.New().Provision(ctx)
	require.Error(t, err)
	assert.False(t, fake.Executed("pip install"), "install must not run without a venv")
}

func TestName(t *testing.T) {
	assert.Equal(t, "python-env", pyenv.New().Name())
}
