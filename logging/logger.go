package logging

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// Logger is the global logger instance
var Logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	TimeFormat:      time.RFC3339,
	Level:           log.InfoLevel,
})

// Init sets the log level from its name ("debug", "info", "warn", "error").
// Unknown names keep the current level.
func Init(level string) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		Logger.Warn("unknown log level, keeping default", "level", level)
		return
	}
	Logger.SetLevel(lvl)
}

// SetOutput redirects the global logger, mainly for tests.
func SetOutput(w io.Writer) {
	Logger.SetOutput(w)
}

// Discard silences the global logger.
func Discard() {
	Logger.SetOutput(io.Discard)
}
