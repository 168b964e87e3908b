// Package config reads runtime settings from SNIP_* environment variables.
// Command-line flags are applied on top by the cli package.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

const envPrefix = "snip"

type Config struct {
	FFmpegPath  string `envconfig:"FFMPEG_PATH"`
	FFprobePath string `envconfig:"FFPROBE_PATH"`

	// tool name printed at the head of rendered trim commands
	TrimTool string `envconfig:"TRIM_TOOL" default:"ffmpeg"`

	// export workers
	Concurrency int `envconfig:"CONCURRENCY" default:"2"`
}

// Load reads the environment into a Config with defaults applied.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.TrimTool == "" {
		return fmt.Errorf("SNIP_TRIM_TOOL must not be empty")
	}
	if c.Concurrency <= 0 {
		return fmt.Errorf("SNIP_CONCURRENCY must be positive, got %d", c.Concurrency)
	}
	return nil
}
