// Package readability locates main page content with go-readability when
// configured selectors no longer match.
package readability

import (
	"strings"

	"github.com/fwojciec/mailtext"
	mailhtml "github.com/fwojciec/mailtext/html"
	"github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
)

// Ensure Locator implements mailtext.ContentLocator at compile time.
var _ mailtext.ContentLocator = (*Locator)(nil)

// Locator wraps go-readability to find the main content of a page.
type Locator struct{}

// NewLocator creates a new Locator.
func NewLocator() *Locator {
	return &Locator{}
}

// MainContent returns the page's main content as a Node tree.
// Returns nil when readability finds no content.
func (l *Locator) MainContent(rawHTML string) (*mailtext.Node, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, mailtext.Errorf(mailtext.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(article.Content) == "" {
		return nil, nil
	}

	doc, err := mailhtml.Parse(article.Content)
	if err != nil {
		return nil, err
	}
	body := findBody(doc)
	if body == nil {
		return nil, nil
	}
	return mailhtml.Convert(body), nil
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if body := findBody(c); body != nil {
			return body
		}
	}
	return nil
}
