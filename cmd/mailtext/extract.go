package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/mailtext"
)

// extractOutput is the JSON shape printed by "extract --json".
type extractOutput struct {
	Source      string                `json:"source"`
	Profile     string                `json:"profile"`
	Subject     *mailtext.RegionText  `json:"subject"`
	Body        *mailtext.RegionText  `json:"body"`
	Diagnostics []mailtext.Diagnostic `json:"diagnostics"`
}

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	email, profile, err := deps.Scanner.Extract(deps.Ctx, c.Source)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", mailtext.ErrorMessage(err))
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		diags := email.Diagnostics
		if diags == nil {
			diags = []mailtext.Diagnostic{}
		}
		return enc.Encode(extractOutput{
			Source:      c.Source,
			Profile:     profile,
			Subject:     email.Subject,
			Body:        email.Body,
			Diagnostics: diags,
		})
	}

	for _, d := range email.Diagnostics {
		fmt.Fprintf(deps.Stderr, "warning: %s\n", d)
	}

	fmt.Fprintf(deps.Stdout, "Profile: %s\n", profile)
	fmt.Fprintf(deps.Stdout, "Subject: %s\n", regionDisplay(email.Subject))
	fmt.Fprintf(deps.Stdout, "Body:\n%s\n", regionDisplay(email.Body))

	if err := email.Sendable(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", mailtext.ErrorMessage(err))
		return err
	}
	return nil
}

// regionDisplay renders a region for terminal output.
func regionDisplay(r *mailtext.RegionText) string {
	switch {
	case r.Value() == nil:
		return "(not found)"
	case r.Empty():
		return "(empty)"
	}
	return r.Text
}
