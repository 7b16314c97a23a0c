package scan

import (
	"context"
	"time"

	"github.com/fwojciec/mailtext"
)

// DefaultRetryDelays returns the backoff delays for analysis retries: 1s, 2s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second}
}

// AnalyzeWithRetryDelays calls the analyzer, retrying with the given delays
// while the backend is unreachable. Other errors are returned immediately.
func AnalyzeWithRetryDelays(ctx context.Context, analyzer mailtext.Analyzer, email *mailtext.Email, delays []time.Duration) (*mailtext.Verdict, error) {
	if analyzer == nil {
		return nil, mailtext.Errorf(mailtext.EINTERNAL, "no analyzer configured")
	}

	var lastErr error
	for attempt := 0; attempt <= len(delays); attempt++ {
		v, err := analyzer.Analyze(ctx, email)
		if err == nil {
			return v, nil
		}
		lastErr = err

		if mailtext.ErrorCode(err) != mailtext.EUNAVAILABLE || attempt == len(delays) {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}
	return nil, lastErr
}
