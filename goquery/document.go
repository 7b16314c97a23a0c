// Package goquery locates regions in static HTML using goquery and cascadia.
package goquery

import (
	"context"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/fwojciec/mailtext"
	mailhtml "github.com/fwojciec/mailtext/html"
)

// Ensure Document implements mailtext.Document at compile time.
var _ mailtext.Document = (*Document)(nil)

// Document is a parsed static HTML document.
// Display modes come from the default stylesheet and inline styles, since no
// layout engine is involved.
type Document struct {
	doc  *goquery.Document
	html string
}

// NewDocument parses html into a Document.
func NewDocument(html string) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, mailtext.Errorf(mailtext.EINVALID, "failed to parse HTML: %v", err)
	}
	return &Document{doc: doc, html: html}, nil
}

// Find returns the first element matching selector, converted to a Node tree.
// Returns nil when nothing matches and EINVALID when the selector does not parse.
func (d *Document) Find(ctx context.Context, selector string) (*mailtext.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// goquery silently matches nothing for a bad selector; compile it first so
	// stale configuration is reported rather than mistaken for a missing element.
	m, err := cascadia.Compile(selector)
	if err != nil {
		return nil, mailtext.Errorf(mailtext.EINVALID, "invalid selector %q: %v", selector, err)
	}

	sel := d.doc.FindMatcher(m).First()
	if sel.Length() == 0 {
		return nil, nil
	}
	return mailhtml.Convert(sel.Get(0)), nil
}

// HTML returns the source markup.
func (d *Document) HTML(ctx context.Context) (string, error) {
	return d.html, nil
}

// Close is a no-op; a parsed document holds no external resources.
func (d *Document) Close() error {
	return nil
}

// Ensure Loader implements mailtext.DocumentLoader at compile time.
var _ mailtext.DocumentLoader = (*Loader)(nil)

// Loader loads saved HTML files from disk.
type Loader struct{}

// NewLoader creates a new Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads the file at path and parses it.
func (l *Loader) Load(ctx context.Context, path string) (mailtext.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, mailtext.Errorf(mailtext.ENOTFOUND, "file %q not found", path)
	} else if err != nil {
		return nil, err
	}
	return NewDocument(string(b))
}
