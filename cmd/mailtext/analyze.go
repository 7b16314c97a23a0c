package main

import (
	"fmt"

	"github.com/fwojciec/mailtext"
	"github.com/fwojciec/mailtext/scan"
)

// Run executes the analyze command.
func (c *AnalyzeCmd) Run(deps *Dependencies) error {
	progress := func(e scan.ProgressEvent) {
		if e.Type == scan.ProgressFailed {
			fmt.Fprintf(deps.Stderr, "skip %s: %s\n", e.Source, mailtext.ErrorMessage(e.Error))
		}
	}
	if len(c.Sources) == 1 {
		progress = nil
	}

	results := deps.Scanner.ScanAll(deps.Ctx, c.Sources, progress)

	var failed int
	for _, r := range results {
		if r.Err != nil {
			failed++
			if len(results) == 1 {
				fmt.Fprintf(deps.Stderr, "error: %s\n", mailtext.ErrorMessage(r.Err))
			}
			continue
		}
		printVerdict(deps, r)
	}

	if failed > 0 {
		if len(results) == 1 {
			return results[0].Err
		}
		return fmt.Errorf("%d of %d sources failed", failed, len(results))
	}
	return nil
}

func printVerdict(deps *Dependencies, r *scan.Result) {
	v := r.Analysis.Verdict
	cached := ""
	if r.Cached {
		cached = " (cached)"
	}
	fmt.Fprintf(deps.Stdout, "%s: %s  risk=%s  confidence=%.2f%%%s\n",
		r.Source, v.Label(), v.RiskLevel, v.Confidence, cached)
	if v.Warn() {
		fmt.Fprintln(deps.Stdout, "  WARNING: this message is likely phishing. Do not click links or reply.")
	}
}
