// Package slog provides log/slog decorators for mailtext services.
package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/mailtext"
)

// Ensure LoggingDetector implements mailtext.ProfileDetector.
var _ mailtext.ProfileDetector = (*LoggingDetector)(nil)

// LoggingDetector wraps a ProfileDetector with logging of the chosen profile.
type LoggingDetector struct {
	next   mailtext.ProfileDetector
	logger *slog.Logger
}

// NewLoggingDetector creates a new LoggingDetector.
func NewLoggingDetector(next mailtext.ProfileDetector, logger *slog.Logger) *LoggingDetector {
	return &LoggingDetector{next: next, logger: logger}
}

// Detect delegates to the wrapped detector and logs the result.
func (d *LoggingDetector) Detect(html string) string {
	begin := time.Now()
	name := d.next.Detect(html)
	profile := name
	if profile == "" {
		profile = "(none)"
	}
	d.logger.Info("profile detection",
		"profile", profile,
		"duration", time.Since(begin),
	)
	return name
}
