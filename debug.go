package aspen

import (
	"log/slog"
	"time"
)

// debugStats holds per-frame timing and draw metrics.
// Only populated when the context runs in debug mode.
type debugStats struct {
	sortTime       time.Duration
	renderTime     time.Duration
	resorts        int
	drawCalls      int
	viewportPasses int
	skipped        int // members that were invisible or fully transparent
}

func (s *debugStats) reset() { *s = debugStats{} }

// debugLog emits the frame's stats at debug level.
func (c *Context) debugLog() {
	if !c.debug {
		return
	}
	Logger().Debug("frame",
		slog.Uint64("frame", c.frame),
		slog.Duration("sort", c.stats.sortTime),
		slog.Duration("render", c.stats.renderTime),
		slog.Int("resorts", c.stats.resorts),
		slog.Int("draw_calls", c.stats.drawCalls),
		slog.Int("viewport_passes", c.stats.viewportPasses),
		slog.Int("skipped", c.stats.skipped),
	)
}

// debugMaxBatchLen is the member count above which Add logs a warning.
const debugMaxBatchLen = 1000

func debugCheckBatchLen(b *Batch) {
	if len(b.members) == debugMaxBatchLen+1 {
		Logger().Warn("batch is large",
			slog.Uint64("batch", uint64(b.id)),
			slog.Int("members", len(b.members)),
			slog.Int("threshold", debugMaxBatchLen))
	}
}

// debugMaxNesting is the viewport nesting depth above which Add logs a warning.
const debugMaxNesting = 16

func debugCheckNesting(b *Batch) {
	depth := 0
	for cur := b; cur != nil; cur = cur.enclosing() {
		depth++
	}
	if depth > debugMaxNesting {
		Logger().Warn("deep viewport nesting",
			slog.Uint64("batch", uint64(b.id)),
			slog.Int("depth", depth),
			slog.Int("threshold", debugMaxNesting))
	}
}
