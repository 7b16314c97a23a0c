package rod

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fwojciec/mailtext"
	"github.com/go-rod/rod"
)

// DefaultLoadTimeout bounds navigation and page load.
const DefaultLoadTimeout = 10 * time.Second

//go:embed serialize.js
var serializeJS string

// Ensure Loader implements mailtext.DocumentLoader at compile time.
var _ mailtext.DocumentLoader = (*Loader)(nil)

// Loader opens message views as live browser pages.
type Loader struct {
	browser *Browser
	timeout time.Duration
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLoadTimeout sets the timeout for navigation and page load.
func WithLoadTimeout(d time.Duration) LoaderOption {
	return func(l *Loader) {
		l.timeout = d
	}
}

// NewLoader creates a Loader that opens pages in browser.
func NewLoader(browser *Browser, opts ...LoaderOption) *Loader {
	l := &Loader{browser: browser, timeout: DefaultLoadTimeout}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load navigates to url and waits for the page to load. The returned document
// holds the page open until it is closed.
func (l *Loader) Load(ctx context.Context, url string) (mailtext.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	page, release, err := l.browser.newPage()
	if err != nil {
		return nil, err
	}

	loadCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	p := page.Context(loadCtx)
	if err := p.Navigate(url); err != nil {
		release()
		return nil, mailtext.Errorf(mailtext.EUNAVAILABLE, "cannot load %s: %v", url, err)
	}
	if err := p.WaitLoad(); err != nil {
		release()
		return nil, mailtext.Errorf(mailtext.EUNAVAILABLE, "waiting for %s: %v", url, err)
	}

	return &Document{page: page, release: release}, nil
}

// Ensure Document implements mailtext.Document at compile time.
var _ mailtext.Document = (*Document)(nil)

// Document is a live page. Find reports each element's computed display.
type Document struct {
	page    *rod.Page
	release func()
}

// serialized is the shape returned by serialize.js.
type serialized struct {
	Invalid string    `json:"invalid"`
	Node    *jsonNode `json:"node"`
}

type jsonNode struct {
	Kind     string      `json:"kind"`
	Tag      string      `json:"tag"`
	Display  string      `json:"display"`
	Text     string      `json:"text"`
	Children []*jsonNode `json:"children"`
}

// Find serializes the first element matching selector together with its
// subtree and computed display values.
func (d *Document) Find(ctx context.Context, selector string) (*mailtext.Node, error) {
	res, err := d.page.Context(ctx).Eval(serializeJS, selector)
	if err != nil {
		return nil, fmt.Errorf("evaluating selector %q: %w", selector, err)
	}

	var out serialized
	if err := json.Unmarshal([]byte(res.Value.JSON("", "")), &out); err != nil {
		return nil, fmt.Errorf("decoding node: %w", err)
	}
	if out.Invalid != "" {
		return nil, mailtext.Errorf(mailtext.EINVALID, "invalid selector %q: %s", selector, out.Invalid)
	}
	return out.Node.convert(), nil
}

// HTML returns the page's current markup.
func (d *Document) HTML(ctx context.Context) (string, error) {
	return d.page.Context(ctx).HTML()
}

// Close closes the page.
func (d *Document) Close() error {
	d.release()
	return nil
}

func (n *jsonNode) convert() *mailtext.Node {
	if n == nil {
		return nil
	}
	if n.Kind == string(mailtext.TextNode) {
		return mailtext.NewText(n.Text)
	}
	out := mailtext.NewElement(n.Tag)
	out.Kind = mailtext.NodeKind(n.Kind)
	out.Text = n.Text
	out.Display = mailtext.ParseDisplay(n.Display)
	for _, c := range n.Children {
		if child := c.convert(); child != nil {
			out.Children = append(out.Children, child)
		}
	}
	return out
}
