package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/mailtext"
)

// Ensure LoggingLoader implements mailtext.DocumentLoader.
var _ mailtext.DocumentLoader = (*LoggingLoader)(nil)

// LoggingLoader wraps a DocumentLoader with logging.
type LoggingLoader struct {
	next   mailtext.DocumentLoader
	logger *slog.Logger
}

// NewLoggingLoader creates a new LoggingLoader.
func NewLoggingLoader(next mailtext.DocumentLoader, logger *slog.Logger) *LoggingLoader {
	return &LoggingLoader{next: next, logger: logger}
}

// Load delegates to the wrapped loader and logs the operation.
func (l *LoggingLoader) Load(ctx context.Context, source string) (doc mailtext.Document, err error) {
	defer func(begin time.Time) {
		l.logger.Info("load",
			"source", source,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return l.next.Load(ctx, source)
}
