package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTranslator()
	c.normalizeDaemon()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.ModelDir) == "" {
		c.Paths.ModelDir = defaultModelDir
	}
	if c.Paths.ModelDir, err = expandPath(c.Paths.ModelDir); err != nil {
		return fmt.Errorf("paths.model_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.SpoolDir) == "" {
		c.Paths.SpoolDir = defaultSpoolDir
	}
	if c.Paths.SpoolDir, err = expandPath(c.Paths.SpoolDir); err != nil {
		return fmt.Errorf("paths.spool_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	return nil
}

func (c *Config) normalizeTranslator() {
	c.Translator.Mode = strings.ToLower(strings.TrimSpace(c.Translator.Mode))
	if c.Translator.Mode == "" {
		c.Translator.Mode = defaultMode
	}
	c.Translator.APIURL = strings.TrimSpace(c.Translator.APIURL)
	if c.Translator.APIURL == "" {
		if value, ok := os.LookupEnv("NORTRANS_API_URL"); ok {
			c.Translator.APIURL = strings.TrimSpace(value)
		}
	}
	if c.Translator.TimeoutSeconds <= 0 {
		c.Translator.TimeoutSeconds = defaultTimeoutSeconds
	}
	if c.Translator.MaxConcurrent <= 0 {
		c.Translator.MaxConcurrent = defaultMaxConcurrent
	}
	c.Translator.FailurePolicy = strings.ToLower(strings.TrimSpace(c.Translator.FailurePolicy))
	if c.Translator.FailurePolicy == "" {
		c.Translator.FailurePolicy = defaultFailurePolicy
	}
	c.Translator.DefaultSourceLang = strings.ToLower(strings.TrimSpace(c.Translator.DefaultSourceLang))
	if c.Translator.DefaultSourceLang == "" {
		c.Translator.DefaultSourceLang = defaultSourceLang
	}
	c.Translator.DefaultTargetLang = strings.ToLower(strings.TrimSpace(c.Translator.DefaultTargetLang))
	if c.Translator.DefaultTargetLang == "" {
		c.Translator.DefaultTargetLang = defaultTargetLang
	}
}

func (c *Config) normalizeDaemon() {
	if c.Daemon.JobPollInterval <= 0 {
		c.Daemon.JobPollInterval = defaultJobPollInterval
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
