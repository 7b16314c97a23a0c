package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/mailtext"
)

// Ensure LoggingAnalyzer implements mailtext.Analyzer.
var _ mailtext.Analyzer = (*LoggingAnalyzer)(nil)

// LoggingAnalyzer wraps an Analyzer with logging.
type LoggingAnalyzer struct {
	next   mailtext.Analyzer
	logger *slog.Logger
}

// NewLoggingAnalyzer creates a new LoggingAnalyzer.
func NewLoggingAnalyzer(next mailtext.Analyzer, logger *slog.Logger) *LoggingAnalyzer {
	return &LoggingAnalyzer{next: next, logger: logger}
}

// Analyze delegates to the wrapped analyzer and logs the verdict.
func (a *LoggingAnalyzer) Analyze(ctx context.Context, email *mailtext.Email) (v *mailtext.Verdict, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"subject_chars", len(derefOrEmpty(email.Subject.Value())),
			"body_chars", len(derefOrEmpty(email.Body.Value())),
			"duration", time.Since(begin),
			"err", err,
		}
		if v != nil {
			attrs = append(attrs, "phishing", v.IsPhishing, "risk", string(v.RiskLevel))
		}
		a.logger.Info("analyze", attrs...)
	}(time.Now())
	return a.next.Analyze(ctx, email)
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
