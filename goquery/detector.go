package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/mailtext"
)

// Ensure Detector implements mailtext.ProfileDetector at compile time.
var _ mailtext.ProfileDetector = (*Detector)(nil)

// Detector picks the profile that fits a page best. It trusts an explicit
// application-name or og:site_name meta tag naming a profile, and otherwise
// scores each profile by how many of its regions resolve.
type Detector struct {
	profiles mailtext.Profiles
	fallback string
}

// NewDetector creates a new Detector over profiles. fallback is returned when
// no profile matches and is never scored itself.
func NewDetector(profiles mailtext.Profiles, fallback string) *Detector {
	return &Detector{profiles: profiles, fallback: fallback}
}

// Detect analyzes HTML and returns a profile name.
func (d *Detector) Detect(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return d.fallback
	}

	if name := d.detectFromMeta(doc); name != "" {
		return name
	}

	best, bestScore := d.fallback, 0
	for _, name := range d.profiles.Names() {
		if name == d.fallback {
			continue
		}
		if score := d.score(doc, d.profiles[name]); score > bestScore {
			best, bestScore = name, score
		}
	}
	return best
}

// detectFromMeta returns the profile named by the page's metadata, if any.
func (d *Detector) detectFromMeta(doc *goquery.Document) string {
	var name string
	doc.Find("meta[name='application-name'], meta[property='og:site_name']").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		content, _ := s.Attr("content")
		candidate := strings.ToLower(strings.TrimSpace(content))
		if _, ok := d.profiles[candidate]; ok {
			name = candidate
			return false
		}
		return true
	})
	return name
}

// score counts the regions of p that at least one selector resolves.
func (d *Detector) score(doc *goquery.Document, p *mailtext.Profile) int {
	score := 0
	for _, selectors := range p.Regions {
		for _, selector := range selectors {
			if doc.Find(selector).Length() > 0 {
				score++
				break
			}
		}
	}
	return score
}
