package config

const (
	defaultDataDir       = "~/.local/share/dubforge"
	defaultLogDir        = "~/.local/share/dubforge/logs"
	defaultRecordingsDir = "~/.local/share/dubforge/recordings"

	defaultSourceLanguage = "en"
	defaultTargetLanguage = "tr"

	defaultSampleRate = 44100
	defaultChannels   = 2
	defaultMinFreeMiB = 256

	defaultIngestWorkers = 4

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:       defaultDataDir,
			LogDir:        defaultLogDir,
			RecordingsDir: defaultRecordingsDir,
		},
		Project: Project{
			SourceLanguage: defaultSourceLanguage,
			TargetLanguage: defaultTargetLanguage,
		},
		Audio: Audio{
			SampleRate: defaultSampleRate,
			Channels:   defaultChannels,
			MinFreeMiB: defaultMinFreeMiB,
		},
		Ingest: Ingest{
			Workers: defaultIngestWorkers,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
