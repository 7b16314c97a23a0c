package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/mailtext"
)

// Ensure LoggingAnalysisService implements mailtext.AnalysisService.
var _ mailtext.AnalysisService = (*LoggingAnalysisService)(nil)

// LoggingAnalysisService wraps an AnalysisService with logging.
type LoggingAnalysisService struct {
	next   mailtext.AnalysisService
	logger *slog.Logger
}

// NewLoggingAnalysisService creates a new LoggingAnalysisService.
func NewLoggingAnalysisService(next mailtext.AnalysisService, logger *slog.Logger) *LoggingAnalysisService {
	return &LoggingAnalysisService{next: next, logger: logger}
}

// CreateAnalysis delegates to the wrapped service and logs the operation.
func (s *LoggingAnalysisService) CreateAnalysis(ctx context.Context, a *mailtext.Analysis) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("create analysis",
			"hash", a.ContentHash,
			"id", a.ID,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CreateAnalysis(ctx, a)
}

// FindAnalysisByHash delegates to the wrapped service and logs cache hits and misses.
func (s *LoggingAnalysisService) FindAnalysisByHash(ctx context.Context, hash string) (a *mailtext.Analysis, err error) {
	defer func(begin time.Time) {
		s.logger.Info("find analysis",
			"hash", hash,
			"hit", a != nil,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindAnalysisByHash(ctx, hash)
}

// FindAnalyses delegates to the wrapped service.
func (s *LoggingAnalysisService) FindAnalyses(ctx context.Context, filter mailtext.AnalysisFilter) ([]*mailtext.Analysis, error) {
	return s.next.FindAnalyses(ctx, filter)
}

// ContentHashes delegates to the wrapped service.
func (s *LoggingAnalysisService) ContentHashes(ctx context.Context) ([]string, error) {
	return s.next.ContentHashes(ctx)
}
