package config

import "vidsweep/internal/probe"

// Version is the running build's version. main sets it before any config is
// loaded; the default probe user agent is derived from it.
var Version = "dev"

const (
	defaultDataDir              = "~/.local/share/vidsweep"
	defaultLogDir               = "~/.local/share/vidsweep/logs"
	defaultStoreDriver          = DriverSQLite
	defaultSQLiteFile           = "content.db"
	defaultAPIBind              = "127.0.0.1:7490"
	defaultNotifyRequestTimeout = 10
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
	defaultPostgresDSNEnv       = "VIDSWEEP_DATABASE_URL"
	defaultAPITokenEnv          = "VIDSWEEP_API_TOKEN"
	defaultNtfyTopicEnv         = "VIDSWEEP_NTFY_TOPIC"
)

// Supported content store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Store: Store{
			Driver: defaultStoreDriver,
		},
		Probe: Probe{
			UserAgent: probe.UserAgent(Version),
		},
		API: API{
			Bind: defaultAPIBind,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
			OnBrokenOnly:   true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
