package provisioning

import "time"

// State holds the shared results of provisioning phases.
// It is progressively populated as each phase completes and is passed
// to subsequent phases that need earlier results.
type State struct {
	// Package results (populated by the packages phase)
	PackagesInstalled []string // installed during this run
	PackagesPresent   []string // already present before this run

	// Repository results (populated by the repo phase)
	RepoCloned bool   // bare clone was created this run
	CommitHash string // branch head checked out into the working tree

	// Python environment results (populated by the pyenv phase)
	VenvCreated bool

	// Service results (populated by the services and proxy phases)
	UnitsChanged []string // unit files written this run
	UnitsEnabled []string // units passed to enable --now
	ProxyChanged bool     // nginx site config was written this run

	// Certificate results (populated by the tlscert phase)
	CertificateIssued  bool // certbot ran and issued a certificate
	CertificateSkipped bool // live cert directory already existed

	// Timing (populated by the pipeline runner)
	PhaseDurations map[string]time.Duration
}

// NewState creates an empty provisioning state.
func NewState() *State {
	return &State{
		PhaseDurations: make(map[string]time.Duration),
	}
}
