package config

const (
	defaultDataDir         = "~/.local/share/mlsimport/data"
	defaultLogDir          = "~/.local/share/mlsimport/logs"
	defaultDownloadBaseURL = "https://dl.fbaipublicfiles.com/mls"
	defaultRequestTimeout  = 30
	defaultSampleRate      = 16000
	defaultWorkers         = 4
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Download: Download{
			BaseURL:        defaultDownloadBaseURL,
			RequestTimeout: defaultRequestTimeout,
		},
		Transcode: Transcode{
			FFmpegBinary: "ffmpeg",
			SampleRate:   defaultSampleRate,
			Workers:      defaultWorkers,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
