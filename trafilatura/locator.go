// Package trafilatura locates main page content with go-trafilatura.
package trafilatura

import (
	"strings"

	"github.com/fwojciec/mailtext"
	mailhtml "github.com/fwojciec/mailtext/html"
	"github.com/markusmobius/go-trafilatura"
)

// Ensure Locator implements mailtext.ContentLocator at compile time.
var _ mailtext.ContentLocator = (*Locator)(nil)

// Locator wraps go-trafilatura to find the main content of a page.
type Locator struct{}

// NewLocator creates a new Locator.
func NewLocator() *Locator {
	return &Locator{}
}

// MainContent returns the page's main content as a Node tree.
// Returns nil when trafilatura finds no content.
func (l *Locator) MainContent(rawHTML string) (*mailtext.Node, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, mailtext.Errorf(mailtext.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, err
	}
	if result.ContentNode == nil {
		return nil, nil
	}
	return mailhtml.Convert(result.ContentNode), nil
}
