package config

// Config holds the full host provisioning configuration.
type Config struct {
	// Hostname is the FQDN the host will serve. It is used as the
	// default TLS domain.
	Hostname string `yaml:"hostname"`

	// ContactEmail is the operator contact, used as the default ACME
	// registration email.
	ContactEmail string `yaml:"contact_email"`

	Packages   PackagesConfig   `yaml:"packages"`
	Repository RepositoryConfig `yaml:"repository"`
	Python     PythonConfig     `yaml:"python"`
	Services   ServicesConfig   `yaml:"services"`
	Proxy      ProxyConfig      `yaml:"proxy"`
	TLS        TLSConfig        `yaml:"tls"`
	Report     ReportConfig     `yaml:"report"`

	// SSH, when set, makes hostprep provision a remote machine instead
	// of the one it runs on.
	SSH *SSHConfig `yaml:"ssh,omitempty"`
}

// PackagesConfig describes the OS packages to install.
type PackagesConfig struct {
	// Manager is the package manager binary. Only dnf-compatible
	// managers are supported (dnf, yum, microdnf).
	Manager string `yaml:"manager"`

	// Install is the list of packages the host needs.
	Install []string `yaml:"install"`
}

// RepositoryConfig describes the deployment repository layout:
// a bare clone as the deploy source of truth, and a working tree the
// application runs from.
type RepositoryConfig struct {
	URL      string `yaml:"url"`
	Remote   string `yaml:"remote"`
	Branch   string `yaml:"branch"`
	BarePath string `yaml:"bare_path"`
	WorkTree string `yaml:"work_tree"`
}

// PythonConfig describes the application virtual environment.
type PythonConfig struct {
	// Interpreter is the python binary used to create the venv.
	Interpreter string `yaml:"interpreter"`

	// VenvPath is the virtual environment directory.
	VenvPath string `yaml:"venv_path"`

	// Requirements is the requirements manifest, relative to the
	// repository working tree.
	Requirements string `yaml:"requirements"`

	// UpgradePip upgrades pip inside the venv before installing
	// requirements.
	UpgradePip bool `yaml:"upgrade_pip"`
}

// ServicesConfig describes the systemd units to install.
type ServicesConfig struct {
	// UnitDir is the system unit directory units are installed into.
	UnitDir string `yaml:"unit_dir"`

	Units []UnitFile `yaml:"units"`
}

// UnitFile is a single unit or timer file to install and enable.
type UnitFile struct {
	// Source is the unit file path, relative to the repository working
	// tree.
	Source string `yaml:"source"`

	// Name is the installed unit name (e.g. indexer.timer).
	Name string `yaml:"name"`
}

// ProxyConfig describes the nginx site configuration.
type ProxyConfig struct {
	// ConfigSource is the site config path, relative to the repository
	// working tree.
	ConfigSource string `yaml:"config_source"`

	// ConfigDir is the nginx config-include directory.
	ConfigDir string `yaml:"config_dir"`

	// Validate runs `nginx -t` before enabling the service.
	Validate bool `yaml:"validate"`
}

// TLSConfig describes ACME certificate issuance.
type TLSConfig struct {
	// Enabled defaults to true; set to false to skip issuance entirely.
	Enabled *bool `yaml:"enabled,omitempty"`

	// Domain defaults to the top-level hostname.
	Domain string `yaml:"domain"`

	// Email defaults to the top-level contact_email.
	Email string `yaml:"email"`

	// CertDir is the ACME client's live certificate directory. Issuance
	// is skipped when <cert_dir>/<domain> already exists.
	CertDir string `yaml:"cert_dir"`
}

// IsEnabled reports whether certificate issuance is enabled.
func (t TLSConfig) IsEnabled() bool {
	return t.Enabled == nil || *t.Enabled
}

// ReportConfig describes where the provisioning report is written.
type ReportConfig struct {
	// Path is the JSON report location on the host.
	Path string `yaml:"path"`

	// MetricsFile is a Prometheus textfile written for node_exporter's
	// textfile collector. Only written when provisioning the local host.
	MetricsFile string `yaml:"metrics_file"`

	// S3, when set, uploads the JSON report to object storage.
	S3 *S3Config `yaml:"s3,omitempty"`
}

// S3Config points at an S3-compatible bucket for report uploads.
// Credentials come from HOSTPREP_S3_ACCESS_KEY and HOSTPREP_S3_SECRET_KEY.
type S3Config struct {
	Endpoint string `yaml:"endpoint"`
	Region   string `yaml:"region"`
	Bucket   string `yaml:"bucket"`
	Prefix   string `yaml:"prefix"`
}

// SSHConfig describes how to reach the remote machine.
type SSHConfig struct {
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
	User    string `yaml:"user"`
	KeyFile string `yaml:"key_file"`
}
