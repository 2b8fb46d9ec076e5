package testsupport

import (
	"path/filepath"
	"testing"

	"github.com/dexusno/NorTrans/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.ModelDir = filepath.Join(base, "models")
	cfgVal.Paths.OutputDir = filepath.Join(base, "output")
	cfgVal.Paths.SpoolDir = filepath.Join(base, "spool")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.APIBind = "127.0.0.1:0"
	cfgVal.Translator.APIURL = ""
	cfgVal.Translator.Mode = "offline"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithAPIURL points the translator at an endpoint, typically an
// httptest server, and switches the config into api mode.
func WithAPIURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Translator.Mode = "api"
		b.cfg.Translator.APIURL = url
	}
}

// WithMode overrides the translator mode on the test config.
func WithMode(mode string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Translator.Mode = mode
	}
}

// WithFailurePolicy overrides the failure policy on the test config.
func WithFailurePolicy(policy string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Translator.FailurePolicy = policy
	}
}
