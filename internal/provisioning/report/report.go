// Package report summarizes a provisioning run: a JSON report on the
// host, a Prometheus textfile for node_exporter, and an optional upload
// to S3-compatible storage for fleet inventory.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hostprep/hostprep/internal/platform/s3"
	"github.com/hostprep/hostprep/internal/provisioning"
)

// Uploader stores the report object. Implemented by platform/s3.Client.
type Uploader interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	PutObject(ctx context.Context, bucket, key string, data []byte) error
}

// Report is the JSON document describing what a run did.
type Report struct {
	Hostname    string    `json:"hostname"`
	GeneratedAt time.Time `json:"generatedAt"`
	CommitHash  string    `json:"commitHash,omitempty"`

	PackagesInstalled []string `json:"packagesInstalled,omitempty"`
	PackagesPresent   []string `json:"packagesPresent,omitempty"`

	RepoCloned  bool `json:"repoCloned"`
	VenvCreated bool `json:"venvCreated"`

	UnitsChanged []string `json:"unitsChanged,omitempty"`
	UnitsEnabled []string `json:"unitsEnabled,omitempty"`
	ProxyChanged bool     `json:"proxyChanged"`

	// Certificate is "issued", "skipped" (already present), or "disabled".
	Certificate string `json:"certificate"`

	PhaseDurations map[string]string `json:"phaseDurations,omitempty"`
}

// Phase writes the run summary.
type Phase struct {
	// Local indicates the provisioned host is the local machine; the
	// Prometheus textfile is only written locally, since node_exporter
	// reads it from the host's own filesystem.
	Local bool

	// Factory and clock hooks, replaceable in tests.
	newUploader   func(endpoint, region, accessKey, secretKey string) (Uploader, error)
	writeTextfile func(filename string, g prometheus.Gatherer) error
	now           func() time.Time
}

// New creates the report phase.
func New(local bool) *Phase {
	return &Phase{
		Local: local,
		newUploader: func(endpoint, region, accessKey, secretKey string) (Uploader, error) {
			return s3.NewClient(endpoint, region, accessKey, secretKey)
		},
		writeTextfile: prometheus.WriteToTextfile,
		now:           time.Now,
	}
}

// Name implements the Phase interface.
func (p *Phase) Name() string {
	return "report"
}

// Provision implements the Phase interface.
func (p *Phase) Provision(ctx *provisioning.Context) error {
	rep := p.build(ctx)

	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	reportPath := ctx.Config.Report.Path
	if err := ctx.Host.WriteFile(ctx, reportPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	provisioning.LogResourceCreated(ctx.Observer, p.Name(), "report", reportPath)

	// The metrics textfile and the upload bypass the Host abstraction,
	// so a dry run must not reach them.
	if ctx.DryRun {
		return nil
	}

	if p.Local && ctx.Config.Report.MetricsFile != "" {
		if err := p.writeMetrics(ctx, rep); err != nil {
			return err
		}
	}

	if s3cfg := ctx.Config.Report.S3; s3cfg != nil {
		if err := p.upload(ctx, s3cfg.Endpoint, s3cfg.Region, s3cfg.Bucket, s3cfg.Prefix, rep, data); err != nil {
			return err
		}
	}

	return nil
}

// build assembles the report from the pipeline state.
func (p *Phase) build(ctx *provisioning.Context) *Report {
	state := ctx.State

	certificate := "disabled"
	switch {
	case state.CertificateIssued:
		certificate = "issued"
	case state.CertificateSkipped:
		certificate = "skipped"
	}

	durations := make(map[string]string, len(state.PhaseDurations))
	for phase, d := range state.PhaseDurations {
		durations[phase] = d.Round(time.Millisecond).String()
	}

	return &Report{
		Hostname:          ctx.Config.Hostname,
		GeneratedAt:       p.now().UTC(),
		CommitHash:        state.CommitHash,
		PackagesInstalled: state.PackagesInstalled,
		PackagesPresent:   state.PackagesPresent,
		RepoCloned:        state.RepoCloned,
		VenvCreated:       state.VenvCreated,
		UnitsChanged:      state.UnitsChanged,
		UnitsEnabled:      state.UnitsEnabled,
		ProxyChanged:      state.ProxyChanged,
		Certificate:       certificate,
		PhaseDurations:    durations,
	}
}

// writeMetrics snapshots phase durations and run status into a textfile
// the node_exporter textfile collector can scrape.
func (p *Phase) writeMetrics(ctx *provisioning.Context, rep *Report) error {
	registry := prometheus.NewRegistry()

	phaseDuration := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "hostprep_phase_duration_seconds",
		Help: "Duration of the last run of each provisioning phase.",
	}, []string{"phase"})
	lastRun := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "hostprep_last_run_timestamp_seconds",
		Help: "Unix timestamp of the last successful provisioning run.",
	})
	certIssued := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "hostprep_certificate_issued",
		Help: "Whether the last run issued a new TLS certificate.",
	})

	registry.MustRegister(phaseDuration, lastRun, certIssued)

	for phase, d := range ctx.State.PhaseDurations {
		phaseDuration.WithLabelValues(phase).Set(d.Seconds())
	}
	lastRun.SetToCurrentTime()
	if rep.Certificate == "issued" {
		certIssued.Set(1)
	}

	metricsPath := ctx.Config.Report.MetricsFile
	if dir := path.Dir(metricsPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create metrics directory: %w", err)
		}
	}
	if err := p.writeTextfile(metricsPath, registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}

	provisioning.LogResourceCreated(ctx.Observer, p.Name(), "metrics textfile", metricsPath)
	return nil
}

// upload stores the JSON report in object storage under
// <prefix>/<hostname>/<timestamp>.json.
func (p *Phase) upload(ctx *provisioning.Context, endpoint, region, bucket, prefix string, rep *Report, data []byte) error {
	accessKey := os.Getenv("HOSTPREP_S3_ACCESS_KEY")
	secretKey := os.Getenv("HOSTPREP_S3_SECRET_KEY")
	if accessKey == "" || secretKey == "" {
		return fmt.Errorf("report.s3 is configured but HOSTPREP_S3_ACCESS_KEY / HOSTPREP_S3_SECRET_KEY are not set")
	}

	uploader, err := p.newUploader(endpoint, region, accessKey, secretKey)
	if err != nil {
		return fmt.Errorf("failed to create report uploader: %w", err)
	}

	exists, err := uploader.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("failed to check report bucket: %w", err)
	}
	if !exists {
		return fmt.Errorf("report bucket %s does not exist", bucket)
	}

	key := path.Join(prefix, rep.Hostname, p.now().UTC().Format("20060102T150405Z")+".json")
	if err := uploader.PutObject(ctx, bucket, key, data); err != nil {
		return fmt.Errorf("failed to upload report: %w", err)
	}

	provisioning.LogResourceCreated(ctx.Observer, p.Name(), "report object", key)
	return nil
}
