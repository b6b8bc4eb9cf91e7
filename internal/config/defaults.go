package config

const (
	defaultRootFolderName     = "vfs"
	defaultLogDir             = "~/.local/share/linklib/logs"
	defaultDatabasePath       = "~/.local/share/linklib/catalog.db"
	defaultAPIBind            = "127.0.0.1:7590"
	defaultBuildWorkers       = 4
	defaultWatcherDebounceMS  = 750
	defaultPlexRequestTimeout = 10
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			RootFolderName: defaultRootFolderName,
			LogDir:         defaultLogDir,
			DatabasePath:   defaultDatabasePath,
			APIBind:        defaultAPIBind,
		},
		Build: Build{
			Workers: defaultBuildWorkers,
		},
		Watcher: Watcher{
			DebounceMS: defaultWatcherDebounceMS,
			AutoRescan: true,
		},
		Plex: Plex{
			RequestTimeout: defaultPlexRequestTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
