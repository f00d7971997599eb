package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	mosaic "github.com/nevindra/mosaic"
)

type Config struct {
	Chunking mosaic.Params            `toml:"chunking"`
	Profiles map[string]mosaic.Params `toml:"profiles"`
	Ingest   IngestConfig             `toml:"ingest"`
	Output   OutputConfig             `toml:"output"`
	Observer ObserverConfig           `toml:"observer"`
}

// IngestConfig tunes the upload pipeline.
type IngestConfig struct {
	BatchSize int `toml:"batch_size"`
	Workers   int `toml:"workers"`
}

type OutputConfig struct {
	Format string `toml:"format"` // "text" or "json"
}

type ObserverConfig struct {
	Enabled  bool   `toml:"enabled"`
	Endpoint string `toml:"endpoint"`
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		Chunking: mosaic.Params{Strategy: mosaic.StrategyParagraph, TargetSize: 512, Overlap: 50},
		Ingest:   IngestConfig{BatchSize: 64, Workers: 4},
		Output:   OutputConfig{Format: "text"},
	}
}

// Load reads config: defaults -> TOML file -> env vars (env wins). Profiles
// inherit any field they leave unset (or zero) from the [chunking] table.
func Load(path string) Config {
	cfg := Default()

	if path == "" {
		path = "mosaic.toml"
	}

	if data, err := os.ReadFile(path); err == nil {
		_ = toml.Unmarshal(data, &cfg)
	}

	// Env overrides
	if v := os.Getenv("MOSAIC_STRATEGY"); v != "" {
		cfg.Chunking.Strategy = mosaic.Strategy(v)
	}
	if v := os.Getenv("MOSAIC_TARGET_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Chunking.TargetSize = n
		}
	}
	if v := os.Getenv("MOSAIC_OVERLAP"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Chunking.Overlap = n
		}
	}
	if v := os.Getenv("MOSAIC_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Ingest.Workers = n
		}
	}
	if v := os.Getenv("MOSAIC_OTEL_ENDPOINT"); v != "" {
		cfg.Observer.Endpoint = v
	}
	if os.Getenv("MOSAIC_OBSERVER_ENABLED") == "true" || os.Getenv("MOSAIC_OBSERVER_ENABLED") == "1" {
		cfg.Observer.Enabled = true
	}

	// Fallbacks
	for ext, p := range cfg.Profiles {
		if p.Strategy == "" {
			p.Strategy = cfg.Chunking.Strategy
		}
		if p.TargetSize == 0 {
			p.TargetSize = cfg.Chunking.TargetSize
		}
		if p.Overlap == 0 {
			p.Overlap = cfg.Chunking.Overlap
		}
		cfg.Profiles[ext] = p
	}
	if cfg.Ingest.BatchSize <= 0 {
		cfg.Ingest.BatchSize = 64
	}
	if cfg.Ingest.Workers <= 0 {
		cfg.Ingest.Workers = 1
	}

	return cfg
}

// ParamsFor returns the chunking parameters for a file path, preferring a
// profile keyed by the lowercased extension ("md", "pdf") over the base
// [chunking] table.
func (c Config) ParamsFor(path string) mosaic.Params {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if p, ok := c.Profiles[ext]; ok {
		return p
	}
	return c.Chunking
}
