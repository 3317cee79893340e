package logger

// Console implements a console based logger.
type Console struct {
	Enabled          bool `toml:"enabled"`
	UseConsoleWriter bool `toml:"useConsoleWriter"` // human readable output instead of JSON lines
}

// LogFile implements a rolling file based logger.
type LogFile struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`

	Access string `toml:"access"`
	Info   string `toml:"info"`
	Error  string `toml:"error"` // warn and above

	MaxSize    int `toml:"maxSize"` // megabytes
	MaxBackups int `toml:"maxBackups"`
	MaxAge     int `toml:"maxAge"` // days
}

// Log implements the logger config.
type Log struct {
	LogLevel string `toml:"logLevel"` // trace, debug, info, warn, error.

	// EnableAccessLogToConsole writes the http access log to stdout as well.
	// Does not overrule Console.Enabled.
	EnableAccessLogToConsole bool `toml:"enableAccessLogToConsole"`
	ReportCaller             bool `toml:"reportCaller"`

	// SkipAssets drops access log lines for /static and media image requests.
	SkipAssets bool `toml:"skipAssets"`

	AppName     string `toml:"appName"`
	ServiceName string `toml:"serviceName"`

	Console Console `toml:"console"`
	File    LogFile `toml:"file"`
}
