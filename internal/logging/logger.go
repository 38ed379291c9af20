package logging

import (
	"log/slog"
	"os"
)

// Setup installs the JSON stdout logger, optionally fanned out to extra
// handlers. Development builds log at debug level.
func Setup(appEnv string, extra ...slog.Handler) {
	level := slog.LevelInfo
	if appEnv == "development" {
		level = slog.LevelDebug
	}
	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	if len(extra) > 0 {
		handler = NewMultiHandler(append([]slog.Handler{handler}, extra...)...)
	}
	slog.SetDefault(slog.New(handler))
}
