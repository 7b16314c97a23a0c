package mock

import (
	"context"

	"github.com/fwojciec/mailtext"
)

var _ mailtext.Analyzer = (*Analyzer)(nil)

// Analyzer is a mock implementation of mailtext.Analyzer.
type Analyzer struct {
	AnalyzeFn func(ctx context.Context, email *mailtext.Email) (*mailtext.Verdict, error)
}

func (a *Analyzer) Analyze(ctx context.Context, email *mailtext.Email) (*mailtext.Verdict, error) {
	return a.AnalyzeFn(ctx, email)
}
