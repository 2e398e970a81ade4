package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds all configurable timeout values.
// These values can be customized via environment variables.
type Timeouts struct {
	PackageInstall    time.Duration // Timeout for the package manager transaction
	GitNetwork        time.Duration // Timeout for clone/fetch over the network
	PipInstall        time.Duration // Timeout for venv creation and pip installs
	ServiceOp         time.Duration // Timeout for systemctl operations
	CertIssue         time.Duration // Timeout for ACME certificate issuance
	RetryMaxAttempts  int           // Maximum number of retry attempts for network operations
	RetryInitialDelay time.Duration // Initial delay between retries
}

// LoadTimeouts loads timeout configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - HOSTPREP_TIMEOUT_PACKAGE_INSTALL (default: 15m)
//   - HOSTPREP_TIMEOUT_GIT_NETWORK (default: 5m)
//   - HOSTPREP_TIMEOUT_PIP_INSTALL (default: 15m)
//   - HOSTPREP_TIMEOUT_SERVICE_OP (default: 2m)
//   - HOSTPREP_TIMEOUT_CERT_ISSUE (default: 5m)
//   - HOSTPREP_RETRY_MAX_ATTEMPTS (default: 3)
//   - HOSTPREP_RETRY_INITIAL_DELAY (default: 1s)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		PackageInstall:    parseDuration("HOSTPREP_TIMEOUT_PACKAGE_INSTALL", 15*time.Minute),
		GitNetwork:        parseDuration("HOSTPREP_TIMEOUT_GIT_NETWORK", 5*time.Minute),
		PipInstall:        parseDuration("HOSTPREP_TIMEOUT_PIP_INSTALL", 15*time.Minute),
		ServiceOp:         parseDuration("HOSTPREP_TIMEOUT_SERVICE_OP", 2*time.Minute),
		CertIssue:         parseDuration("HOSTPREP_TIMEOUT_CERT_ISSUE", 5*time.Minute),
		RetryMaxAttempts:  parseInt("HOSTPREP_RETRY_MAX_ATTEMPTS", 3),
		RetryInitialDelay: parseDuration("HOSTPREP_RETRY_INITIAL_DELAY", 1*time.Second),
	}
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}

	return d
}

// parseInt parses an integer from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return i
}
