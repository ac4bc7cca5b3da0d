package harness

import (
	"log/slog"
	"time"
)

// LoggingHandler wraps h so that each pass logs its start and completion,
// including duration and whether the round was claimed.
func LoggingHandler(logger *slog.Logger, h Handler) Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return func(inv Invocation) bool {
		start := time.Now()

		logger.Info("round started",
			slog.Int("pass", inv.Round.Pass),
			slog.Int("elements", len(inv.Round.Elements)),
			slog.Any("markers", inv.Round.Markers),
		)

		claimed := h(inv)

		logger.Info("round completed",
			slog.Int("pass", inv.Round.Pass),
			slog.Bool("claimed", claimed),
			slog.Duration("duration", time.Since(start)),
		)
		return claimed
	}
}
