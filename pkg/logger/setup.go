package logger

// SetupLogger builds a logger for the given verbosity level. Unknown levels
// fall back to info.
func SetupLogger(logLevel string, logJSON bool) Logger {
	cfg := DefaultConfig()
	cfg.JSON = logJSON
	switch logLevel {
	case "debug":
		cfg.Level = DebugLevel
	case "info":
		cfg.Level = InfoLevel
	case "warn":
		cfg.Level = WarnLevel
	case "error":
		cfg.Level = ErrorLevel
	}
	return NewLogger(cfg)
}
