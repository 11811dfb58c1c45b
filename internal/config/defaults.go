package config

const (
	defaultPrecisionLevel = "standard"
	defaultMaxIterations  = 3
	defaultDatabasePath   = "~/.local/share/clipalign/training.db"
	defaultBufferSize     = 500
	defaultLogDir         = "~/.local/share/clipalign/logs"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Alignment: Alignment{
			PrecisionLevel: defaultPrecisionLevel,
			MaxIterations:  defaultMaxIterations,
		},
		Learning: Learning{
			Enabled:      true,
			DatabasePath: defaultDatabasePath,
			BufferSize:   defaultBufferSize,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
			LogDir: defaultLogDir,
		},
	}
}
