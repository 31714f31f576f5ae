package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Init configures the global slog logger.
// In production (ENVIRONMENT=production) it uses JSON output for log aggregation.
// Otherwise it uses the human-readable text handler.
func Init() {
	env := strings.ToLower(os.Getenv("ENVIRONMENT"))

	var handler slog.Handler
	if env == "production" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}

	slog.SetDefault(slog.New(handler))
}

// WithExtraction returns a logger with extraction context fields attached.
// Use this for all logging within one document extraction run.
func WithExtraction(file string, pages int) *slog.Logger {
	return slog.With(
		"file", file,
		"pages", pages,
	)
}

// WithGeneration returns a logger scoped to one content generation request.
func WithGeneration(itemID, model string) *slog.Logger {
	return slog.With(
		"item_id", itemID,
		"model", model,
	)
}
