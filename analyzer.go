package mailtext

import "context"

// RiskLevel is the backend's coarse risk bucket.
type RiskLevel string

// Risk levels reported by the classifier.
const (
	RiskVeryLow  RiskLevel = "Very Low"
	RiskLow      RiskLevel = "Low"
	RiskMedium   RiskLevel = "Medium"
	RiskHigh     RiskLevel = "High"
	RiskVeryHigh RiskLevel = "Very High"
)

// Verdict is the classifier's assessment of one message.
type Verdict struct {
	IsPhishing bool      `json:"is_phishing"`
	Confidence float64   `json:"confidence"`
	RiskLevel  RiskLevel `json:"risk_level"`
	RawScore   float64   `json:"raw_score"`
}

// Warn reports whether the verdict calls for an explicit warning:
// phishing with high or very high risk.
func (v *Verdict) Warn() bool {
	return v.IsPhishing && (v.RiskLevel == RiskHigh || v.RiskLevel == RiskVeryHigh)
}

// Label returns "Phishing" or "Legitimate".
func (v *Verdict) Label() string {
	if v.IsPhishing {
		return "Phishing"
	}
	return "Legitimate"
}

// Analyzer classifies extracted messages.
type Analyzer interface {
	// Analyze sends the message to the classifier and returns its verdict.
	// Callers should check Email.Sendable first.
	Analyze(ctx context.Context, email *Email) (*Verdict, error)
}
