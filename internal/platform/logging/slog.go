package logging

import (
	"log/slog"

	"go.uber.org/zap/exp/zapslog"
)

// Slog exposes the same zap core through the standard structured logging
// interface for packages that accept *slog.Logger.
func (l *Logger) Slog() *slog.Logger {
	return slog.New(zapslog.NewHandler(l.Zap().Core()))
}
