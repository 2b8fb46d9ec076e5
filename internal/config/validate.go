package config

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/dexusno/NorTrans/internal/language"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTranslator(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTranslator() error {
	switch c.Translator.Mode {
	case "api", "offline":
	default:
		return fmt.Errorf("translator.mode must be %q or %q, got %q", "api", "offline", c.Translator.Mode)
	}
	if c.Translator.Mode == "api" && c.Translator.APIURL == "" {
		return errors.New("translator.api_url is required in api mode. Set NORTRANS_API_URL or edit the config file (create with 'nortrans config init')")
	}
	if c.Translator.APIURL != "" {
		parsed, err := url.Parse(c.Translator.APIURL)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("translator.api_url %q is not an absolute URL", c.Translator.APIURL)
		}
	}
	switch c.Translator.FailurePolicy {
	case "strict", "lenient":
	default:
		return fmt.Errorf("translator.failure_policy must be %q or %q, got %q", "strict", "lenient", c.Translator.FailurePolicy)
	}
	if !language.Known(c.Translator.DefaultSourceLang) {
		return fmt.Errorf("translator.default_source_lang %q is not a recognized language code", c.Translator.DefaultSourceLang)
	}
	if !language.Known(c.Translator.DefaultTargetLang) {
		return fmt.Errorf("translator.default_target_lang %q is not a recognized language code", c.Translator.DefaultTargetLang)
	}
	if c.Translator.MaxConcurrent > 64 {
		return errors.New("translator.max_concurrent must be 64 or less")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be %q or %q, got %q", "console", "json", c.Logging.Format)
	}
	return nil
}
