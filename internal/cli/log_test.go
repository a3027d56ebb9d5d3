package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestLoggerLevel(t *testing.T) {
	for _, tc := range []struct {
		level log.Level
		debug bool
	}{
		{LogInfo, false},
		{LogDebug, true},
	} {
		var buf bytes.Buffer
		l := newLogger(&buf, tc.level)
		l.Debug("probe")
		if got := strings.Contains(buf.String(), "probe"); got != tc.debug {
			t.Errorf("level %v: debug logged = %v, want %v", tc.level, got, tc.debug)
		}
	}
}

func TestSetLogLevel(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, LogInfo)
	c.Logger.Debug("hidden")
	c.SetLogLevel(LogDebug)
	c.Logger.Debug("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line logged before level change: %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("debug line missing after level change: %q", out)
	}
	if !strings.Contains(out, appName) {
		t.Errorf("output lacks %q prefix: %q", appName, out)
	}
}

func TestStopwatchLap(t *testing.T) {
	var buf bytes.Buffer
	w := startStopwatch(newLogger(&buf, LogInfo))
	time.Sleep(5 * time.Millisecond)
	if w.elapsed() < 5*time.Millisecond {
		t.Errorf("elapsed = %v, want >= 5ms", w.elapsed())
	}

	w.lap("laid out week", "days", 3)
	out := buf.String()
	for _, want := range []string{"laid out week", "elapsed=", "days=3"} {
		if !strings.Contains(out, want) {
			t.Errorf("lap output %q missing %q", out, want)
		}
	}
}
