package config

import "testing"

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]byte(``), "<test>")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Trace {
		t.Errorf("Trace = true, want false by default")
	}
	if cfg.Cache.Enabled {
		t.Errorf("Cache.Enabled = true, want false by default")
	}
}

func TestParseCacheEnabledFillsDefaultPath(t *testing.T) {
	cfg, err := Parse([]byte("cache:\n  enabled: true\n"), "<test>")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Cache.Path != defaultCachePath {
		t.Errorf("Cache.Path = %q, want %q", cfg.Cache.Path, defaultCachePath)
	}
}

func TestParseCacheExplicitPathIsPreserved(t *testing.T) {
	cfg, err := Parse([]byte("cache:\n  enabled: true\n  path: custom.db\n"), "<test>")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Cache.Path != "custom.db" {
		t.Errorf("Cache.Path = %q, want %q", cfg.Cache.Path, "custom.db")
	}
}

func TestParseTrace(t *testing.T) {
	cfg, err := Parse([]byte("trace: true\n"), "<test>")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !cfg.Trace {
		t.Errorf("Trace = false, want true")
	}
}

func TestParseInvalidYAMLIsError(t *testing.T) {
	_, err := Parse([]byte("trace: [unterminated\n"), "<test>")
	if err == nil {
		t.Fatalf("Parse succeeded, want error for malformed YAML")
	}
}

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	t.Setenv("ASH_CONFIG", "/nonexistent/path/to/ashrc.yaml")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Trace || cfg.Cache.Enabled {
		t.Errorf("Load with missing file did not return defaults: %+v", cfg)
	}
}
