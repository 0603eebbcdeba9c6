// Package config loads process-wide configuration from the environment,
// the same way options.Options does in the teacher repo, but scoped to
// this pipeline's handful of knobs (§6, "Environment").
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v6"
)

// Config holds every environment-derived setting the pipeline consults.
type Config struct {
	// CacheLocation is a gocloud.dev/blob bucket URL (file:// or mem://;
	// no gs:// or s3:// driver is registered, so those fail to open) or
	// the literal "0" to disable caching entirely.
	CacheLocation string `env:"CACHE_LOCATION" envDefault:"file:///tmp/opensourcescore-cache"`

	// OutputRoot is where the batch corpus builder writes results.
	OutputRoot string `env:"OUTPUT_ROOT" envDefault:"./output"`

	// MaxCloneTimeSeconds bounds how long a single git clone may run
	// before being killed (§4.D.2).
	MaxCloneTimeSeconds int `env:"MAX_CLONE_TIME" envDefault:"30"`

	// WorkerPoolSize is the batch path's default thread count (§5).
	WorkerPoolSize int `env:"WORKER_POOL_SIZE" envDefault:"16"`

	// RunEnv toggles JSON-structured production logging.
	RunEnv string `env:"RUN_ENV" envDefault:"development"`

	// Port is the HTTP API's listen port.
	Port string `env:"PORT" envDefault:"8080"`
}

// Load parses Config from the environment and forces
// GIT_TERMINAL_PROMPT=0 in the current process, which the spec calls out
// as mandatory: it prevents a credential prompt from hanging a clone of a
// private repository indefinitely.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parsing environment: %w", err)
	}
	if err := os.Setenv("GIT_TERMINAL_PROMPT", "0"); err != nil {
		return nil, fmt.Errorf("config: setting GIT_TERMINAL_PROMPT: %w", err)
	}
	return cfg, nil
}

// CachingDisabled reports whether CACHE_LOCATION opts out of caching.
func (c *Config) CachingDisabled() bool {
	return c.CacheLocation == "0"
}
