package mailtext

import (
	"encoding/json"
	"fmt"
)

// Region names a part of a message that is extracted separately.
type Region string

// Regions captured from an email view.
const (
	RegionSubject Region = "subject"
	RegionBody    Region = "body"
)

// Regions lists the regions in capture order.
var Regions = []Region{RegionSubject, RegionBody}

// DiagnosticKind classifies a non-fatal extraction condition.
type DiagnosticKind string

// Diagnostic kinds.
const (
	// DiagTargetAbsent means no node was located for the region.
	DiagTargetAbsent DiagnosticKind = "target_absent"
	// DiagTargetEmpty means a node was located but rendered no text.
	DiagTargetEmpty DiagnosticKind = "target_empty"
	// DiagMalformedNode means a node had an unexpected shape and was treated as inline text.
	DiagMalformedNode DiagnosticKind = "malformed_node"
	// DiagInvalidSelector means a configured selector could not be parsed.
	DiagInvalidSelector DiagnosticKind = "invalid_selector"
	// DiagFallbackUsed means no selector matched and a content heuristic located the region.
	DiagFallbackUsed DiagnosticKind = "fallback_used"
	// DiagFallbackFailed means no selector matched and the content heuristic
	// errored or found nothing.
	DiagFallbackFailed DiagnosticKind = "fallback_failed"
)

// Diagnostic is a human-readable note on why extraction was partial.
// Diagnostics are data returned next to results, never errors.
type Diagnostic struct {
	Kind     DiagnosticKind `json:"kind"`
	Region   Region         `json:"region,omitempty"`
	Selector string         `json:"selector,omitempty"`
	Message  string         `json:"message"`
}

// String formats the diagnostic for display.
func (d Diagnostic) String() string {
	if d.Region == "" {
		return fmt.Sprintf("%s: %s", d.Kind, d.Message)
	}
	return fmt.Sprintf("%s [%s]: %s", d.Kind, d.Region, d.Message)
}

// RegionText is the extraction result for one region.
// Text is meaningful only when Found is true. Selector is the selector that
// located the region, or the selectors tried when none did.
type RegionText struct {
	Region   Region
	Selector string
	Found    bool
	Text     string
}

// Empty reports whether the region was found but rendered no text.
func (r *RegionText) Empty() bool {
	return r != nil && r.Found && r.Text == ""
}

// Value returns the text, or nil when the region was not found.
func (r *RegionText) Value() *string {
	if r == nil || !r.Found {
		return nil
	}
	text := r.Text
	return &text
}

// MarshalJSON encodes the region as its text, or null when it was not found.
func (r *RegionText) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Value())
}

// Extract extracts the text of n as the named region, discarding diagnostics.
func (e *Engine) Extract(region Region, n *Node) *RegionText {
	result, _ := e.ExtractRegion(region, "", n)
	return result
}

// ExtractRegion extracts the text of n as the named region and reports
// diagnostics for absent, empty, or malformed input. selector records what
// located n and may be empty.
func (e *Engine) ExtractRegion(region Region, selector string, n *Node) (*RegionText, []Diagnostic) {
	text, malformed, ok := e.extract(n)
	result := &RegionText{Region: region, Selector: selector, Found: ok, Text: text}

	var diags []Diagnostic
	if !ok {
		diags = append(diags, Diagnostic{
			Kind:     DiagTargetAbsent,
			Region:   region,
			Selector: selector,
			Message:  fmt.Sprintf("could not find %s element", region),
		})
		return result, diags
	}
	for _, m := range malformed {
		diags = append(diags, Diagnostic{
			Kind:     DiagMalformedNode,
			Region:   region,
			Selector: selector,
			Message:  m,
		})
	}
	if text == "" {
		diags = append(diags, Diagnostic{
			Kind:     DiagTargetEmpty,
			Region:   region,
			Selector: selector,
			Message:  fmt.Sprintf("found %s element but extracted no text", region),
		})
	}
	return result, diags
}

// Email is the extracted content of one message view.
type Email struct {
	Subject     *RegionText  `json:"subject"`
	Body        *RegionText  `json:"body"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

// Region returns the extraction result for region, or nil.
func (m *Email) Region(region Region) *RegionText {
	switch region {
	case RegionSubject:
		return m.Subject
	case RegionBody:
		return m.Body
	}
	return nil
}

// SetRegion stores the extraction result for its region.
func (m *Email) SetRegion(r *RegionText) {
	switch r.Region {
	case RegionSubject:
		m.Subject = r
	case RegionBody:
		m.Body = r
	}
}

// Sendable returns ENOTFOUND when neither region was located.
// A message with only one region, or with empty regions, may still be analyzed.
func (m *Email) Sendable() error {
	if m.Subject.Value() == nil && m.Body.Value() == nil {
		return Errorf(ENOTFOUND, "could not find subject or body; the page structure might have changed")
	}
	return nil
}
