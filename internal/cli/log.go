package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

const logTimeFormat = "15:04:05.00"

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          appName,
		ReportTimestamp: true,
		TimeFormat:      logTimeFormat,
		Level:           level,
	})
}

// stopwatch reports how long a command step took as a structured field.
type stopwatch struct {
	logger *log.Logger
	began  time.Time
}

func startStopwatch(l *log.Logger) stopwatch {
	return stopwatch{logger: l, began: time.Now()}
}

func (s stopwatch) elapsed() time.Duration {
	return time.Since(s.began).Round(time.Millisecond)
}

// lap logs msg at info level with an "elapsed" key and any extra keyvals.
func (s stopwatch) lap(msg string, keyvals ...any) {
	s.logger.Info(msg, append([]any{"elapsed", s.elapsed()}, keyvals...)...)
}
