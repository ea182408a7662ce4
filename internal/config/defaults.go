package config

const (
	defaultPayloadsDir        = "~/.local/share/payloadvault/payloads"
	defaultLogDir             = "~/.local/share/payloadvault/logs"
	defaultHistoryPath        = "~/.local/share/payloadvault/history.db"
	defaultAPIBind            = "127.0.0.1:7861"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultDedupWindowSeconds = 2
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			PayloadsDir: defaultPayloadsDir,
			LogDir:      defaultLogDir,
			APIBind:     defaultAPIBind,
		},
		Capture: Capture{
			IncludeBase64Images: false,
			DedupWindowSeconds:  defaultDedupWindowSeconds,
			WriteLatest:         true,
			WriteSkeletons:      true,
		},
		Organize: Organize{
			DedupeOnStartup: false,
		},
		History: History{
			Enabled: true,
			Path:    defaultHistoryPath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
