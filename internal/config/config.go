// Package config loads ash's runtime configuration from a YAML file,
// following the same load/parse/default pattern funxy.yaml uses for its
// own configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is ash's runtime configuration: everything a host (the CLI or
// an embedder) can set without recompiling the VM.
type Config struct {
	// Trace, when true, makes every Interpret/RunChunk call log each
	// decoded instruction to stderr before executing it.
	Trace bool `yaml:"trace,omitempty"`

	// Cache configures the bytecode compile cache (internal/cache).
	Cache CacheConfig `yaml:"cache,omitempty"`
}

// CacheConfig controls the on-disk compiled-chunk cache.
type CacheConfig struct {
	// Enabled turns the cache on. Disabled by default: a bare `ash`
	// invocation with no config file present should always recompile.
	Enabled bool `yaml:"enabled,omitempty"`

	// Path is the sqlite database file backing the cache. Defaults to
	// "ash_cache.db" in the current directory when Enabled and Path is
	// empty.
	Path string `yaml:"path,omitempty"`
}

const defaultCachePath = "ash_cache.db"

// envVar names the environment variable that, if set, overrides the
// default config file search path.
const envVar = "ASH_CONFIG"

const defaultConfigFile = ".ashrc.yaml"

// Default returns the configuration ash runs with when no config file is
// found: tracing off, caching off.
func Default() *Config {
	return &Config{}
}

// Load resolves a config file (from $ASH_CONFIG, else ./.ashrc.yaml) and
// parses it. A missing file is not an error: Load returns Default().
func Load() (*Config, error) {
	path := os.Getenv(envVar)
	if path == "" {
		path = defaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse parses config file content from bytes. path is used only in
// error messages.
func Parse(data []byte, path string) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	cfg.setDefaults()
	return cfg, nil
}

func (c *Config) setDefaults() {
	if c.Cache.Enabled && c.Cache.Path == "" {
		c.Cache.Path = defaultCachePath
	}
}
