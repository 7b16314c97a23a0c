package mock

import (
	"context"

	"github.com/fwojciec/mailtext"
)

var _ mailtext.AnalysisService = (*AnalysisService)(nil)

// AnalysisService is a mock implementation of mailtext.AnalysisService.
type AnalysisService struct {
	CreateAnalysisFn     func(ctx context.Context, a *mailtext.Analysis) error
	FindAnalysisByHashFn func(ctx context.Context, hash string) (*mailtext.Analysis, error)
	FindAnalysesFn       func(ctx context.Context, filter mailtext.AnalysisFilter) ([]*mailtext.Analysis, error)
	ContentHashesFn      func(ctx context.Context) ([]string, error)
}

func (s *AnalysisService) CreateAnalysis(ctx context.Context, a *mailtext.Analysis) error {
	return s.CreateAnalysisFn(ctx, a)
}

func (s *AnalysisService) FindAnalysisByHash(ctx context.Context, hash string) (*mailtext.Analysis, error) {
	return s.FindAnalysisByHashFn(ctx, hash)
}

func (s *AnalysisService) FindAnalyses(ctx context.Context, filter mailtext.AnalysisFilter) ([]*mailtext.Analysis, error) {
	return s.FindAnalysesFn(ctx, filter)
}

func (s *AnalysisService) ContentHashes(ctx context.Context) ([]string, error) {
	return s.ContentHashesFn(ctx)
}
