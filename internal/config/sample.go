package config

import "fmt"

// Sample renders a starter hostprep.yaml for the init command.
func Sample(hostname, email, repoURL string) string {
	return fmt.Sprintf(`# hostprep configuration
# Run 'hostprep apply' on a fresh VM to converge it to this state.

hostname: %s
contact_email: %s

packages:
  manager: dnf
  install:
    - python39
    - python39-devel
    - git
    - nginx
    - certbot

repository:
  url: %s
  remote: origin
  branch: main
  bare_path: /srv/repo/app.git
  work_tree: /srv/app

python:
  interpreter: python3.9
  venv_path: /srv/app/venv
  requirements: requirements.txt
  upgrade_pip: true

services:
  unit_dir: /etc/systemd/system
  units:
    - source: deploy/app.service
      name: app.service
    - source: deploy/app.timer
      name: app.timer

proxy:
  config_source: deploy/nginx/app.conf
  config_dir: /etc/nginx/conf.d
  validate: true

tls:
  enabled: true
  cert_dir: /etc/letsencrypt/live

report:
  path: /var/lib/hostprep/report.json
  metrics_file: /var/lib/hostprep/hostprep.prom
  # s3:
  #   endpoint: https://storage.example.com
  #   region: us-east-1
  #   bucket: hostprep-reports
  #   prefix: fleet

# Provision a remote machine instead of the local one:
# ssh:
#   host: 203.0.113.7
#   user: root
#   key_file: ~/.ssh/id_ed25519
`, hostname, email, repoURL)
}
