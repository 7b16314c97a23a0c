package scan

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/mailtext"
	"github.com/fwojciec/mailtext/bloom"
	"golang.org/x/sync/errgroup"
)

// AutoProfile selects the profile with the Detector.
const AutoProfile = "auto"

// Scanner loads message views, captures their regions and classifies them,
// reusing stored verdicts for content it has already seen.
type Scanner struct {
	Loader   mailtext.DocumentLoader
	Capturer *Capturer
	Profiles mailtext.Profiles
	Detector mailtext.ProfileDetector
	Analyzer mailtext.Analyzer
	Analyses mailtext.AnalysisService
	Seen     *bloom.Filter

	// Profile names the profile to use. Empty or AutoProfile asks the
	// Detector, falling back to the generic profile.
	Profile string

	// NoCache forces a fresh analysis even when a stored one exists.
	NoCache bool

	Concurrency int
	RetryDelays []time.Duration
}

// Result holds the outcome of scanning one source.
type Result struct {
	Source   string
	Profile  string
	Email    *mailtext.Email
	Analysis *mailtext.Analysis
	Cached   bool
	Err      error
}

// ProgressEvent reports progress during a batch scan.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	Source    string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting scan progress.
type ProgressFunc func(event ProgressEvent)

// Extract loads source and captures its regions without classifying them.
func (s *Scanner) Extract(ctx context.Context, source string) (*mailtext.Email, string, error) {
	doc, err := s.Loader.Load(ctx, source)
	if err != nil {
		return nil, "", err
	}
	defer func() { _ = doc.Close() }()

	profile, err := s.selectProfile(ctx, doc)
	if err != nil {
		return nil, "", err
	}

	email, err := s.capturer().Capture(ctx, doc, profile)
	if err != nil {
		return nil, profile.Name, err
	}
	return email, profile.Name, nil
}

// ScanSource extracts and classifies a single source. Failures are recorded
// on the result.
func (s *Scanner) ScanSource(ctx context.Context, source string) *Result {
	result := &Result{Source: source}

	email, profile, err := s.Extract(ctx, source)
	result.Profile = profile
	if err != nil {
		result.Err = err
		return result
	}
	result.Email = email

	result.Analysis, result.Cached, result.Err = s.Scan(ctx, source, email)
	return result
}

// Scan classifies an extracted message. A stored analysis of identical
// content is returned with cached set unless NoCache is set.
// Returns ENOTFOUND when neither region was located.
func (s *Scanner) Scan(ctx context.Context, source string, email *mailtext.Email) (*mailtext.Analysis, bool, error) {
	if err := email.Sendable(); err != nil {
		return nil, false, err
	}

	hash, err := ContentHash(email)
	if err != nil {
		return nil, false, err
	}

	if !s.NoCache {
		if a, err := s.lookup(ctx, hash); err != nil {
			return nil, false, err
		} else if a != nil {
			return a, true, nil
		}
	}

	verdict, err := s.analyze(ctx, email)
	if err != nil {
		return nil, false, err
	}

	a := &mailtext.Analysis{
		ContentHash: hash,
		Source:      source,
		Subject:     email.Subject.Value(),
		Body:        email.Body.Value(),
		Verdict:     *verdict,
	}
	if s.Analyses != nil {
		if err := s.Analyses.CreateAnalysis(ctx, a); err != nil {
			return nil, false, fmt.Errorf("saving analysis: %w", err)
		}
	}
	if s.Seen != nil {
		s.Seen.Add(hash)
	}
	return a, false, nil
}

// lookup returns the stored analysis for hash, or nil on a miss.
func (s *Scanner) lookup(ctx context.Context, hash string) (*mailtext.Analysis, error) {
	if s.Analyses == nil {
		return nil, nil
	}
	if s.Seen != nil && !s.Seen.Test(hash) {
		return nil, nil
	}
	a, err := s.Analyses.FindAnalysisByHash(ctx, hash)
	if mailtext.ErrorCode(err) == mailtext.ENOTFOUND {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Scanner) analyze(ctx context.Context, email *mailtext.Email) (*mailtext.Verdict, error) {
	delays := s.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	return AnalyzeWithRetryDelays(ctx, s.Analyzer, email, delays)
}

// scanResult pairs a result with its position in the batch.
type scanResult struct {
	position int
	result   *Result
}

// ScanAll scans sources concurrently and returns results in input order.
// A failing source does not stop the others; its error is recorded on its
// result. The progress callback, if provided, receives events as scanning
// proceeds.
func (s *Scanner) ScanAll(ctx context.Context, sources []string, progress ProgressFunc) []*Result {
	concurrency := s.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	total := len(sources)
	resultCh := make(chan scanResult, total)
	var completed atomic.Int64

	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Total: total})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, source := range sources {
			g.Go(func() error {
				resultCh <- scanResult{position: i, result: s.ScanSource(gctx, source)}
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	results := make([]*Result, total)
	for r := range resultCh {
		completed.Add(1)
		results[r.position] = r.result

		if progress == nil {
			continue
		}
		event := ProgressEvent{
			Type:      ProgressCompleted,
			Completed: int(completed.Load()),
			Total:     total,
			Source:    r.result.Source,
		}
		if r.result.Err != nil {
			event.Type = ProgressFailed
			event.Error = r.result.Err
		}
		progress(event)
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	}
	return results
}

func (s *Scanner) selectProfile(ctx context.Context, doc mailtext.Document) (*mailtext.Profile, error) {
	profiles := s.Profiles
	if profiles == nil {
		profiles = mailtext.DefaultProfiles()
	}

	name := s.Profile
	if name == "" || name == AutoProfile {
		name = mailtext.ProfileGeneric
		if s.Detector != nil {
			html, err := doc.HTML(ctx)
			if err != nil {
				return nil, fmt.Errorf("reading document: %w", err)
			}
			if detected := s.Detector.Detect(html); detected != "" {
				name = detected
			}
		}
	}
	return profiles.Get(name)
}

func (s *Scanner) capturer() *Capturer {
	if s.Capturer == nil {
		return &Capturer{}
	}
	return s.Capturer
}

// payload mirrors the classifier request so identical requests hash alike.
type payload struct {
	Subject *string `json:"subject"`
	Body    *string `json:"body"`
}

// ContentHash computes an xxhash of the message content sent for analysis.
func ContentHash(email *mailtext.Email) (string, error) {
	buf, err := json.Marshal(payload{
		Subject: email.Subject.Value(),
		Body:    email.Body.Value(),
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", xxhash.Sum64(buf)), nil
}
