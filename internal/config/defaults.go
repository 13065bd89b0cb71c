package config

const (
	defaultDatabasePath      = "~/.local/share/curator/inventory.db"
	defaultLogDir            = "~/.local/share/curator/logs"
	defaultExportDir         = "~/.local/share/curator/exports"
	defaultSourceOrigin      = "nas"
	defaultFFprobeBinary     = "ffprobe"
	defaultProbeWorkers      = 4
	defaultProbeTimeout      = 30
	defaultMinConfidence     = 0.5
	defaultSimilarityMinimum = 0.7
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DatabasePath: defaultDatabasePath,
			LogDir:       defaultLogDir,
			ExportDir:    defaultExportDir,
		},
		Scanner: Scanner{
			VideoOnly:    true,
			SourceOrigin: defaultSourceOrigin,
		},
		MediaInfo: MediaInfo{
			FFprobeBinary:  defaultFFprobeBinary,
			Workers:        defaultProbeWorkers,
			TimeoutSeconds: defaultProbeTimeout,
		},
		Matcher: Matcher{
			MinConfidence:       defaultMinConfidence,
			SimilarityThreshold: defaultSimilarityMinimum,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
