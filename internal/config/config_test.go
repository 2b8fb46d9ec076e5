package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultsApplied(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize returned error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if cfg.Paths.APIBind != "127.0.0.1:8723" {
		t.Fatalf("unexpected api bind: %q", cfg.Paths.APIBind)
	}
	if cfg.Translator.Mode != "api" {
		t.Fatalf("unexpected mode: %q", cfg.Translator.Mode)
	}
	if cfg.Translator.FailurePolicy != "lenient" {
		t.Fatalf("unexpected failure policy: %q", cfg.Translator.FailurePolicy)
	}
	if !strings.HasSuffix(cfg.QueueDatabasePath(), "jobs.db") {
		t.Fatalf("unexpected queue db path: %q", cfg.QueueDatabasePath())
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := `
[paths]
model_dir = "` + filepath.Join(dir, "models") + `"
log_dir = "` + filepath.Join(dir, "logs") + `"

[translator]
mode = "offline"
api_url = "http://localhost:5000/translate"
max_concurrent = 8
failure_policy = "strict"
default_target_lang = "de"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected config at %q to exist, got %q exists=%v", path, resolved, exists)
	}
	if cfg.Translator.Mode != "offline" {
		t.Fatalf("unexpected mode %q", cfg.Translator.Mode)
	}
	if cfg.Translator.MaxConcurrent != 8 {
		t.Fatalf("unexpected max_concurrent %d", cfg.Translator.MaxConcurrent)
	}
	if cfg.Translator.DefaultTargetLang != "de" {
		t.Fatalf("unexpected default target %q", cfg.Translator.DefaultTargetLang)
	}
	if cfg.Paths.ModelDir != filepath.Join(dir, "models") {
		t.Fatalf("model dir not expanded: %q", cfg.Paths.ModelDir)
	}
}

func TestValidateRejectsBadMode(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize returned error: %v", err)
	}
	cfg.Translator.Mode = "remote"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for bad mode")
	}
}

func TestValidateRejectsBadPolicy(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize returned error: %v", err)
	}
	cfg.Translator.FailurePolicy = "ignore"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for bad policy")
	}
}

func TestValidateRequiresAPIURLInAPIMode(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize returned error: %v", err)
	}
	cfg.Translator.APIURL = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for missing api_url")
	}
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Paths.ModelDir = filepath.Join(dir, "models")
	cfg.Paths.OutputDir = filepath.Join(dir, "output")
	cfg.Paths.SpoolDir = filepath.Join(dir, "spool")
	cfg.Paths.LogDir = filepath.Join(dir, "logs")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories returned error: %v", err)
	}
	for _, sub := range []string{"models", "output", "spool", "logs"} {
		if _, err := os.Stat(filepath.Join(dir, sub)); err != nil {
			t.Fatalf("expected %s to exist: %v", sub, err)
		}
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load of sample returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	if cfg.Translator.Mode != "api" {
		t.Fatalf("unexpected mode in sample: %q", cfg.Translator.Mode)
	}
}
