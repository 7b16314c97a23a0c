package mailtext

import (
	"context"
	"time"
)

// Analysis is a stored classification of one message.
type Analysis struct {
	ID          string    `json:"id"`
	ContentHash string    `json:"contentHash"`
	Source      string    `json:"source"`
	Subject     *string   `json:"subject"`
	Body        *string   `json:"body"`
	Verdict     Verdict   `json:"verdict"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Validate returns an error if the analysis contains invalid fields.
func (a *Analysis) Validate() error {
	if a.ContentHash == "" {
		return Errorf(EINVALID, "analysis content hash required")
	}
	if a.Subject == nil && a.Body == nil {
		return Errorf(EINVALID, "analysis requires a subject or body")
	}
	return nil
}

// AnalysisService represents a service for managing stored analyses.
type AnalysisService interface {
	// CreateAnalysis stores a new analysis, assigning ID and CreatedAt.
	CreateAnalysis(ctx context.Context, a *Analysis) error

	// FindAnalysisByHash returns the most recent analysis for a content hash.
	// Returns ENOTFOUND if no analysis exists.
	FindAnalysisByHash(ctx context.Context, hash string) (*Analysis, error)

	// FindAnalyses retrieves analyses matching the filter, newest first.
	FindAnalyses(ctx context.Context, filter AnalysisFilter) ([]*Analysis, error)

	// ContentHashes returns every stored content hash.
	ContentHashes(ctx context.Context) ([]string, error)
}

// AnalysisFilter represents a filter for FindAnalyses.
type AnalysisFilter struct {
	Source     *string `json:"source"`
	IsPhishing *bool   `json:"isPhishing"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
