package config

const (
	dirName            = ".irgsh"
	chiefAddressFile   = "IRGSH_CHIEF_ADDRESS"
	settingsFile       = "settings.toml"
	historyFile        = "history.db"
	lockFile           = ".lock"
	defaultTransport   = TransportPlaceholder
	defaultTimeout     = 30
	defaultPollSeconds = 5
	defaultLogLevel    = "warn"
	defaultLogFormat   = "console"
)

// Default returns Settings populated with client defaults.
func Default() Settings {
	return Settings{
		Chief: Chief{
			Transport:           defaultTransport,
			TimeoutSeconds:      defaultTimeout,
			PollIntervalSeconds: defaultPollSeconds,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
		History: History{
			Enabled: true,
		},
	}
}
