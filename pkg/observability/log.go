package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks reports layout, pipeline and cache events as debug lines.
type LogHooks struct {
	Noop
	logger *log.Logger
}

// NewLogHooks returns hooks that write to logger under a "hooks" prefix.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger.WithPrefix("hooks")}
}

// Install registers h for layout, pipeline and cache events.
func (h *LogHooks) Install() {
	SetLayoutHooks(h)
	SetPipelineHooks(h)
	SetCacheHooks(h)
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, day string, columns int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("layout failed", "day", day, "err", err)
		return
	}
	h.logger.Debug("layout done", "day", day, "columns", columns, "elapsed", d)
}

func (h *LogHooks) OnSolve(_ context.Context, day string, size int, d time.Duration, err error) {
	h.logger.Debug("solve", "day", day, "blocks", size, "elapsed", d, "err", err)
}

func (h *LogHooks) OnFallback(_ context.Context, day string, size int, err error) {
	h.logger.Warn("kept initial widths", "day", day, "blocks", size, "err", err)
}

func (h *LogHooks) OnStale(_ context.Context, day string, generation uint64) {
	h.logger.Debug("stale pass dropped", "day", day, "generation", generation)
}

func (h *LogHooks) OnLoadComplete(_ context.Context, source string, blocks int, d time.Duration, err error) {
	h.logger.Debug("loaded schedule", "source", source, "blocks", blocks, "elapsed", d, "err", err)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.logger.Debug("rendered", "formats", formats, "elapsed", d, "err", err)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "key", keyType)
}
