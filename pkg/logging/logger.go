package logging

import (
	"io"
	"os"
	"time"

	"github.com/hashicorp/go-hclog"
)

const (
	// EnvLogLevel selects the log level (trace, debug, info, warn, error).
	EnvLogLevel = "SPRITE_LOG_LEVEL"
	// EnvJSONLog switches to JSON output when set to "1".
	EnvJSONLog = "SPRITE_JSON_LOG"

	linePrefix = "🎨 "
)

// NewLogger creates a new hclog logger with standard settings. An empty
// level falls back to GetLogLevel.
func NewLogger(name string, level string, output io.Writer) hclog.Logger {
	if output == nil {
		output = os.Stderr
	}
	if level == "" {
		level = GetLogLevel()
	}

	jsonFormat := os.Getenv(EnvJSONLog) == "1"
	if !jsonFormat {
		output = NewPrefixWriter(linePrefix, output)
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:       name,
		Level:      hclog.LevelFromString(level),
		JSONFormat: jsonFormat,
		Output:     output,
		TimeFormat: "2006-01-02T15:04:05Z",
		TimeFn: func() time.Time {
			return time.Now().UTC()
		},
	})
}

// GetLogLevel returns the configured log level from environment
func GetLogLevel() string {
	level := os.Getenv(EnvLogLevel)
	if level == "" {
		level = "warn"
	}
	return level
}
