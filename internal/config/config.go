// Package config carries the process-level settings shared by every
// austimes command.
package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Settings are the environment-driven knobs, all under the AUSTIMES_
// prefix. Command-line flags take precedence where both exist.
type Settings struct {
	LogLevel   string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat  string `envconfig:"LOG_FORMAT" default:"console"`
	Cache      bool   `envconfig:"CACHE" default:"true"`
	Rules      string `envconfig:"RULES"`
	MetricsOut string `envconfig:"METRICS_OUT"`
}

// Load reads the settings from the environment, honoring a .env file in
// the working directory when one exists.
func Load() (*Settings, error) {
	_ = godotenv.Load()

	var s Settings
	if err := envconfig.Process("austimes", &s); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	return &s, nil
}
