package main

import (
	"fmt"

	"github.com/fwojciec/mailtext"
)

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	filter := mailtext.AnalysisFilter{Limit: c.Limit}
	if c.Phishing {
		phishing := true
		filter.IsPhishing = &phishing
	}

	analyses, err := deps.Analyses.FindAnalyses(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", mailtext.ErrorMessage(err))
		return err
	}

	if len(analyses) == 0 {
		fmt.Fprintln(deps.Stdout, "No analyses found. Use 'mailtext analyze' to check a message.")
		return nil
	}

	for _, a := range analyses {
		fmt.Fprintf(deps.Stdout, "%s  %-10s  %-9s  %s  %s\n",
			a.CreatedAt.Local().Format("2006-01-02 15:04"),
			a.Verdict.Label(),
			a.Verdict.RiskLevel,
			subjectLine(a),
			a.Source,
		)
	}

	return nil
}

// subjectLine returns a quoted, shortened subject for listings.
func subjectLine(a *mailtext.Analysis) string {
	if a.Subject == nil {
		return "(no subject)"
	}
	s := []rune(*a.Subject)
	if len(s) > 40 {
		return fmt.Sprintf("%q", string(s[:37])+"...")
	}
	return fmt.Sprintf("%q", string(s))
}
