package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/fwojciec/mailtext"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ mailtext.AnalysisService = (*AnalysisService)(nil)

// timeFormat is a fixed-width UTC timestamp so stored values sort as text.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// AnalysisService implements mailtext.AnalysisService using SQLite.
type AnalysisService struct {
	db *DB
}

// NewAnalysisService creates a new AnalysisService.
func NewAnalysisService(db *DB) *AnalysisService {
	return &AnalysisService{db: db}
}

// CreateAnalysis stores a new analysis.
func (s *AnalysisService) CreateAnalysis(ctx context.Context, a *mailtext.Analysis) error {
	if err := a.Validate(); err != nil {
		return err
	}

	a.ID = uuid.New().String()
	a.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO analyses (id, content_hash, source, subject, body, is_phishing, confidence, risk_level, raw_score, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, a.ID, a.ContentHash, a.Source, nullString(a.Subject), nullString(a.Body),
		a.Verdict.IsPhishing, a.Verdict.Confidence, string(a.Verdict.RiskLevel), a.Verdict.RawScore,
		a.CreatedAt.Format(timeFormat))

	return err
}

// FindAnalysisByHash returns the most recent analysis for a content hash.
func (s *AnalysisService) FindAnalysisByHash(ctx context.Context, hash string) (*mailtext.Analysis, error) {
	a, err := scanAnalysis(s.db.QueryRowContext(ctx, `
		SELECT id, content_hash, source, subject, body, is_phishing, confidence, risk_level, raw_score, created_at
		FROM analyses
		WHERE content_hash = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT 1
	`, hash))
	if err == sql.ErrNoRows {
		return nil, mailtext.Errorf(mailtext.ENOTFOUND, "analysis not found")
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// FindAnalyses retrieves analyses matching the filter, newest first.
func (s *AnalysisService) FindAnalyses(ctx context.Context, filter mailtext.AnalysisFilter) ([]*mailtext.Analysis, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, content_hash, source, subject, body, is_phishing, confidence, risk_level, raw_score, created_at FROM analyses WHERE 1=1")

	if filter.Source != nil {
		query.WriteString(" AND source = ?")
		args = append(args, *filter.Source)
	}
	if filter.IsPhishing != nil {
		query.WriteString(" AND is_phishing = ?")
		args = append(args, *filter.IsPhishing)
	}

	query.WriteString(" ORDER BY created_at DESC, rowid DESC")

	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var analyses []*mailtext.Analysis
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		analyses = append(analyses, a)
	}

	return analyses, rows.Err()
}

// ContentHashes returns every stored content hash.
func (s *AnalysisService) ContentHashes(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT DISTINCT content_hash FROM analyses")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hashes []string
	for rows.Next() {
		var h string
		if err := rows.Scan(&h); err != nil {
			return nil, err
		}
		hashes = append(hashes, h)
	}
	return hashes, rows.Err()
}

// scanner is implemented by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row scanner) (*mailtext.Analysis, error) {
	var a mailtext.Analysis
	var subject, body sql.NullString
	var riskLevel, createdAt string

	if err := row.Scan(&a.ID, &a.ContentHash, &a.Source, &subject, &body,
		&a.Verdict.IsPhishing, &a.Verdict.Confidence, &riskLevel, &a.Verdict.RawScore, &createdAt); err != nil {
		return nil, err
	}

	a.Subject = stringPtr(subject)
	a.Body = stringPtr(body)
	a.Verdict.RiskLevel = mailtext.RiskLevel(riskLevel)

	var err error
	if a.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	return &a, nil
}
