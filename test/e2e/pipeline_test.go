package e2e

import (
	"context"
	"strings"
	"time"

	"github.com/go-logr/logr"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/hostprep/hostprep/internal/config"
	"github.com/hostprep/hostprep/internal/platform/host/hosttest"
	"github.com/hostprep/hostprep/internal/provisioning"
	"github.com/hostprep/hostprep/internal/provisioning/packages"
	"github.com/hostprep/hostprep/internal/provisioning/proxy"
	"github.com/hostprep/hostprep/internal/provisioning/pyenv"
	"github.com/hostprep/hostprep/internal/provisioning/repo"
	"github.com/hostprep/hostprep/internal/provisioning/services"
	"github.com/hostprep/hostprep/internal/provisioning/tlscert"
)

// hostConfig returns the configuration every spec in this suite provisions.
func hostConfig() *config.Config {
	return &config.Config{
		Hostname:     "app.example.com",
		ContactEmail: "ops@example.com",
		Packages:     config.PackagesConfig{Manager: "dnf", Install: []string{"python39", "git", "nginx", "certbot"}},
		Repository: config.RepositoryConfig{
			URL:      "https://git.example.com/app.git",
			Remote:   "origin",
			Branch:   "main",
			BarePath: "/srv/repo/app.git",
			WorkTree: "/srv/app",
		},
		Python: config.PythonConfig{
			Interpreter:  "python3.9",
			VenvPath:     "/srv/app/venv",
			Requirements: "requirements.txt",
			UpgradePip:   true,
		},
		Services: config.ServicesConfig{
			UnitDir: "/etc/systemd/system",
			Units: []config.UnitFile{
				{Source: "deploy/app.service", Name: "app.service"},
				{Source: "deploy/app.timer", Name: "app.timer"},
			},
		},
		Proxy: config.ProxyConfig{
			ConfigSource: "deploy/app.conf",
			ConfigDir:    "/etc/nginx/conf.d",
			Validate:     true,
		},
		TLS: config.TLSConfig{
			Domain:  "app.example.com",
			Email:   "ops@example.com",
			CertDir: "/etc/letsencrypt/live",
		},
		Report: config.ReportConfig{Path: "/var/lib/hostprep/report.json"},
	}
}

// freshHost scripts a fake machine with nothing provisioned yet. The
// deployment repository's files appear as the checkout would leave them,
// and certbot materializes the live directory when invoked.
func freshHost() *hosttest.Fake {
	fake := hosttest.New()
	fake.PutFile("/srv/app/deploy/app.service", []byte("[Unit]\nDescription=app\n"))
	fake.PutFile("/srv/app/deploy/app.timer", []byte("[Timer]\nOnCalendar=daily\n"))
	fake.PutFile("/srv/app/deploy/app.conf", []byte("server { listen 80; }"))
	fake.Respond(`git --git-dir="/srv/repo/app.git" rev-parse main`, "0a1b2c3d\n", nil)
	fake.Handler = func(command string) (string, error) {
		switch {
		case strings.HasPrefix(command, "git clone --bare"):
			fake.Touch("/srv/repo/app.git")
		case strings.HasPrefix(command, "python3.9 -m venv"):
			fake.PutFile("/srv/app/venv/pyvenv.cfg", []byte("home = /usr/bin"))
		case strings.HasPrefix(command, "certbot certonly"):
			fake.Touch("/etc/letsencrypt/live/app.example.com")
		case strings.HasPrefix(command, "rpm -q"):
			// Fresh host: nothing installed
			return "", &notInstalledError{}
		}
		return "", nil
	}
	return fake
}

type notInstalledError struct{}

func (*notInstalledError) Error() string { return "package is not installed" }

func newContext(cfg *config.Config, fake *hosttest.Fake) *provisioning.Context {
	return &provisioning.Context{
		Context:  context.Background(),
		Config:   cfg,
		State:    provisioning.NewState(),
		Host:     fake,
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

func fullPipeline() *provisioning.Pipeline {
	return provisioning.NewPipeline(
		provisioning.NewValidationPhase(),
		packages.New(),
		repo.New(),
		pyenv.New(),
		services.New(),
		proxy.New(),
		tlscert.New(),
	)
}

var _ = Describe("Provisioning pipeline", func() {
	var (
		cfg  *config.Config
		fake *hosttest.Fake
		ctx  *provisioning.Context
	)

	BeforeEach(func() {
		cfg = hostConfig()
		fake = freshHost()
		ctx = newContext(cfg, fake)
	})

	Describe("a fresh host", func() {
		It("converges end to end", func() {
			Expect(fullPipeline().Run(ctx)).To(Succeed())

			By("installing all configured packages in one transaction")
			Expect(fake.Executed("dnf install -y python39 git nginx certbot")).To(BeTrue())
			Expect(ctx.State.PackagesInstalled).To(HaveLen(4))

			By("cloning the bare repository and checking out the branch")
			Expect(fake.Executed(`git clone --bare "https://git.example.com/app.git"`)).To(BeTrue())
			Expect(ctx.State.CommitHash).To(Equal("0a1b2c3d"))

			By("creating the virtual environment and installing requirements")
			Expect(ctx.State.VenvCreated).To(BeTrue())
			Expect(fake.Executed(`-m pip install -r "/srv/app/requirements.txt"`)).To(BeTrue())

			By("installing and enabling the units")
			Expect(fake.Executed("systemctl daemon-reload")).To(BeTrue())
			Expect(ctx.State.UnitsEnabled).To(ConsistOf("app.service", "app.timer"))

			By("validating and reloading nginx")
			Expect(fake.Executed("nginx -t")).To(BeTrue())
			Expect(fake.Executed("systemctl reload nginx")).To(BeTrue())

			By("issuing the certificate")
			Expect(ctx.State.CertificateIssued).To(BeTrue())
		})
	})

	Describe("a converged host", func() {
		BeforeEach(func() {
			Expect(fullPipeline().Run(ctx)).To(Succeed())

			// Second run: packages now report installed.
			first := fake.Handler
			fake.Handler = func(command string) (string, error) {
				if strings.HasPrefix(command, "rpm -q") {
					return "installed", nil
				}
				return first(command)
			}
			ctx = newContext(cfg, fake)
		})

		It("performs no write operations on re-run", func() {
			Expect(fullPipeline().Run(ctx)).To(Succeed())

			Expect(ctx.State.PackagesInstalled).To(BeEmpty())
			Expect(ctx.State.RepoCloned).To(BeFalse())
			Expect(ctx.State.VenvCreated).To(BeFalse())
			Expect(ctx.State.UnitsChanged).To(BeEmpty())
			Expect(ctx.State.ProxyChanged).To(BeFalse())
			Expect(ctx.State.CertificateSkipped).To(BeTrue())
		})

		It("fetches instead of cloning", func() {
			before := len(fake.Commands())
			Expect(fullPipeline().Run(ctx)).To(Succeed())

			ran := strings.Join(fake.Commands()[before:], "\n")
			Expect(ran).To(ContainSubstring("fetch origin +refs/heads/main:refs/heads/main"))
			Expect(ran).NotTo(ContainSubstring("git clone"))
		})

		It("does not invoke certbot again", func() {
			before := len(fake.Commands())
			Expect(fullPipeline().Run(ctx)).To(Succeed())

			ran := strings.Join(fake.Commands()[before:], "\n")
			Expect(ran).NotTo(ContainSubstring("certbot"))
		})
	})

	Describe("failure handling", func() {
		It("halts the pipeline at the first failing phase", func() {
			fake.Respond(`git clone --bare "https://git.example.com/app.git" "/srv/repo/app.git"`,
				"", &notInstalledError{})

			err := fullPipeline().Run(ctx)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("repository phase failed"))
			Expect(fake.Executed("python3.9 -m venv")).To(BeFalse(), "later phases must not run")
		})

		It("fails when certbot succeeds without materializing the live directory", func() {
			first := fake.Handler
			fake.Handler = func(command string) (string, error) {
				if strings.HasPrefix(command, "certbot certonly") {
					return "", nil
				}
				return first(command)
			}

			err := fullPipeline().Run(ctx)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("certificate phase failed"))
		})
	})
})
