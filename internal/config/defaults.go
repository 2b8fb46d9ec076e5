package config

const (
	defaultModelDir        = "~/.local/share/nortrans/models"
	defaultOutputDir       = "~/.local/share/nortrans/output"
	defaultSpoolDir        = "~/.local/share/nortrans/spool"
	defaultLogDir          = "~/.local/share/nortrans/logs"
	defaultAPIBind         = "127.0.0.1:8723"
	defaultMode            = "api"
	defaultAPIURL          = "https://translate.argosopentech.com/translate"
	defaultTimeoutSeconds  = 30
	defaultMaxConcurrent   = 4
	defaultFailurePolicy   = "lenient"
	defaultSourceLang      = "en"
	defaultTargetLang      = "nb"
	defaultJobPollInterval = 5
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ModelDir:  defaultModelDir,
			OutputDir: defaultOutputDir,
			SpoolDir:  defaultSpoolDir,
			LogDir:    defaultLogDir,
			APIBind:   defaultAPIBind,
		},
		Translator: Translator{
			Mode:              defaultMode,
			APIURL:            defaultAPIURL,
			TimeoutSeconds:    defaultTimeoutSeconds,
			MaxConcurrent:     defaultMaxConcurrent,
			FailurePolicy:     defaultFailurePolicy,
			DefaultSourceLang: defaultSourceLang,
			DefaultTargetLang: defaultTargetLang,
		},
		Daemon: Daemon{
			JobPollInterval: defaultJobPollInterval,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
