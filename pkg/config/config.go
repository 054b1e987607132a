// Package config loads the scheduler's startup configuration: an optional
// YAML file on disk, overridden by environment variables, overridden by
// command-line flags. Every field has a usable default, so running with
// no file and no environment at all is a supported configuration.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/cuemby/pulse-scheduler/pkg/types"
	"gopkg.in/yaml.v3"
)

// Config is the scheduler process's startup configuration.
type Config struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	LogLevel string `yaml:"logLevel"`
	LogJSON  bool   `yaml:"logJSON"`

	// Partitions, when non-empty, replaces the built-in default partition
	// set entirely rather than merging with it.
	Partitions []PartitionConfig `yaml:"partitions,omitempty"`
}

// PartitionConfig overrides one partition's static capacity.
type PartitionConfig struct {
	Name               string  `yaml:"name"`
	TotalNodes         int     `yaml:"totalNodes"`
	TotalCPUs          int     `yaml:"totalCPUs"`
	TotalGPUs          int     `yaml:"totalGPUs"`
	TotalMemoryGB      float64 `yaml:"totalMemoryGB"`
	MaxTimeMinutes     int     `yaml:"maxTimeMinutes"`
	DefaultTimeMinutes int     `yaml:"defaultTimeMinutes"`
}

// Default returns the configuration used when no file or environment
// override is present.
func Default() Config {
	return Config{
		Host:     "0.0.0.0",
		Port:     8083,
		LogLevel: "info",
		LogJSON:  false,
	}
}

// Load builds a Config starting from Default, applying path (if non-empty)
// as a YAML overlay, then applying environment variable overrides. A
// missing path is not an error; a path that exists but fails to parse is.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				applyEnv(&cfg)
				return cfg, nil
			}
			return cfg, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("HOST"); v != "" {
		cfg.Host = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Port = port
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("LOG_JSON"); v != "" {
		cfg.LogJSON = v == "true" || v == "1"
	}
}

// Addr formats the listen address from Host and Port.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ToPartitions converts configured partition overrides into the
// scheduler's partition model. Every configured partition starts at Up
// with zero allocation regardless of prior state.
func (c Config) ToPartitions() []*types.Partition {
	out := make([]*types.Partition, 0, len(c.Partitions))
	for _, p := range c.Partitions {
		out = append(out, &types.Partition{
			Name:               p.Name,
			State:              types.PartitionUp,
			TotalNodes:         p.TotalNodes,
			TotalCPUs:          p.TotalCPUs,
			TotalGPUs:          p.TotalGPUs,
			TotalMemoryGB:      p.TotalMemoryGB,
			MaxTimeMinutes:     p.MaxTimeMinutes,
			DefaultTimeMinutes: p.DefaultTimeMinutes,
		})
	}
	return out
}
