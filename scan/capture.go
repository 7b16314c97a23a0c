// Package scan captures message regions from documents and runs them through
// the classifier.
package scan

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/mailtext"
)

// Capturer locates each region of a profile in a document and extracts its text.
type Capturer struct {
	// Engine extracts region text. Defaults to mailtext.NewEngine().
	Engine *mailtext.Engine

	// Fallback locates the body when every body selector misses and the
	// profile allows it. Optional.
	Fallback mailtext.ContentLocator
}

// Capture extracts every region of profile from doc.
//
// Missing or empty regions are recorded as diagnostics on the returned Email.
// An error is returned only when the document itself cannot be queried.
func (c *Capturer) Capture(ctx context.Context, doc mailtext.Document, profile *mailtext.Profile) (*mailtext.Email, error) {
	if profile == nil {
		return nil, mailtext.Errorf(mailtext.EINVALID, "profile required")
	}

	engine := c.Engine
	if engine == nil {
		engine = mailtext.NewEngine()
	}

	email := &mailtext.Email{}
	for _, region := range mailtext.Regions {
		node, selector, diags, err := c.locate(ctx, doc, profile, region)
		if err != nil {
			return nil, fmt.Errorf("locating %s: %w", region, err)
		}
		email.Diagnostics = append(email.Diagnostics, diags...)

		result, diags := engine.ExtractRegion(region, selector, node)
		email.SetRegion(result)
		email.Diagnostics = append(email.Diagnostics, diags...)
	}
	return email, nil
}

// locate tries the region's selectors in order. When none matches it returns a
// nil node and the list of selectors tried.
func (c *Capturer) locate(ctx context.Context, doc mailtext.Document, profile *mailtext.Profile, region mailtext.Region) (*mailtext.Node, string, []mailtext.Diagnostic, error) {
	selectors := profile.Regions[region]
	var diags []mailtext.Diagnostic

	for _, selector := range selectors {
		node, err := doc.Find(ctx, selector)
		if mailtext.ErrorCode(err) == mailtext.EINVALID {
			diags = append(diags, mailtext.Diagnostic{
				Kind:     mailtext.DiagInvalidSelector,
				Region:   region,
				Selector: selector,
				Message:  mailtext.ErrorMessage(err),
			})
			continue
		} else if err != nil {
			return nil, "", diags, err
		}
		if node != nil {
			return node, selector, diags, nil
		}
	}

	tried := strings.Join(selectors, ", ")
	if region != mailtext.RegionBody || !profile.Fallback || c.Fallback == nil {
		return nil, tried, diags, nil
	}

	html, err := doc.HTML(ctx)
	if err != nil {
		return nil, "", diags, err
	}
	node, err := c.Fallback.MainContent(html)
	if err != nil || node == nil {
		msg := "main content heuristic found nothing"
		if err != nil {
			msg = fmt.Sprintf("main content heuristic failed: %v", err)
		}
		diags = append(diags, mailtext.Diagnostic{
			Kind:     mailtext.DiagFallbackFailed,
			Region:   region,
			Selector: tried,
			Message:  msg,
		})
		return nil, tried, diags, nil
	}

	diags = append(diags, mailtext.Diagnostic{
		Kind:     mailtext.DiagFallbackUsed,
		Region:   region,
		Selector: tried,
		Message:  "no selector matched; located body by main content heuristic",
	})
	return node, "", diags, nil
}
