// Package config reads kubeseal-auto settings from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

const appName = "kubeseal-auto"

type Config struct {
	DataHome        string        `env:"XDG_DATA_HOME"`
	BinDir          string        `env:"KUBESEAL_AUTO_BIN_DIR"`
	ReleaseURL      string        `env:"KUBESEAL_AUTO_RELEASE_URL" envDefault:"https://github.com/bitnami-labs/sealed-secrets/releases/download"`
	DownloadTimeout time.Duration `env:"KUBESEAL_AUTO_DOWNLOAD_TIMEOUT" envDefault:"60s"`
	KubectlBin      string        `env:"KUBESEAL_AUTO_KUBECTL" envDefault:"kubectl"`
	Kubeconfig      string        `env:"KUBECONFIG"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"warn"`
	DockerPassword  string        `env:"KUBESEAL_AUTO_DOCKER_PASSWORD"`
}

// Load parses the environment into a Config.
func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}

// BinaryDir is where downloaded kubeseal binaries are cached:
// KUBESEAL_AUTO_BIN_DIR, else $XDG_DATA_HOME/kubeseal-auto/bin, else
// ~/.local/share/kubeseal-auto/bin.
func (c *Config) BinaryDir() (string, error) {
	if c.BinDir != "" {
		return c.BinDir, nil
	}

	data := c.DataHome
	if data == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("locating home directory: %w", err)
		}
		data = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(data, appName, "bin"), nil
}
