// Package html converts golang.org/x/net/html trees into mailtext nodes,
// approximating each element's computed display from the user-agent
// stylesheet and inline styles.
package html

import (
	"strings"

	"github.com/fwojciec/mailtext"
	"golang.org/x/net/html"
)

// blockDefaults lists elements the default stylesheet renders as blocks.
var blockDefaults = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"body": true, "center": true, "dd": true, "details": true, "dialog": true,
	"dir": true, "div": true, "dl": true, "dt": true, "fieldset": true,
	"figcaption": true, "figure": true, "footer": true, "form": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true, "hgroup": true, "hr": true, "html": true, "legend": true,
	"li": true, "main": true, "menu": true, "nav": true, "ol": true, "p": true,
	"pre": true, "section": true, "summary": true, "table": true, "tbody": true,
	"tfoot": true, "thead": true, "tr": true, "ul": true, "caption": true,
}

// noneDefaults lists elements the default stylesheet never renders.
var noneDefaults = map[string]bool{
	"head": true, "link": true, "meta": true, "noscript": true, "script": true,
	"style": true, "template": true, "title": true, "base": true, "param": true,
	"datalist": true,
}

// DefaultDisplay returns the user-agent default display for a tag.
func DefaultDisplay(tag string) mailtext.Display {
	tag = strings.ToLower(tag)
	switch {
	case noneDefaults[tag]:
		return mailtext.DisplayNone
	case blockDefaults[tag]:
		return mailtext.DisplayBlock
	}
	return mailtext.DisplayInline
}

// Parse parses an HTML document.
func Parse(s string) (*html.Node, error) {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return nil, mailtext.Errorf(mailtext.EINVALID, "failed to parse HTML: %v", err)
	}
	return doc, nil
}

// Convert converts n and its descendants. Comments, doctypes and raw nodes
// are dropped. Document nodes become "#document" elements so a whole page can
// be extracted. Returns nil for nodes that carry no content.
func Convert(n *html.Node) *mailtext.Node {
	if n == nil {
		return nil
	}
	switch n.Type {
	case html.TextNode:
		return mailtext.NewText(n.Data)
	case html.ElementNode:
		out := mailtext.NewElement(n.Data)
		out.Display = display(n)
		out.Children = convertChildren(n)
		return out
	case html.DocumentNode:
		out := mailtext.NewElement("#document")
		out.Display = mailtext.DisplayBlock
		out.Children = convertChildren(n)
		return out
	}
	return nil
}

func convertChildren(n *html.Node) []*mailtext.Node {
	var children []*mailtext.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if child := Convert(c); child != nil {
			children = append(children, child)
		}
	}
	return children
}

// display resolves an element's display: the hidden attribute wins, then an
// inline style declaration, then the tag default.
func display(n *html.Node) mailtext.Display {
	var style string
	for _, attr := range n.Attr {
		switch strings.ToLower(attr.Key) {
		case "hidden":
			return mailtext.DisplayNone
		case "style":
			style = attr.Val
		}
	}
	if d, ok := StyleDisplay(style); ok {
		return d
	}
	return DefaultDisplay(n.Data)
}

// StyleDisplay extracts the display mode from an inline style attribute.
// A later display declaration wins unless an earlier one is !important and the
// later one is not. ok is false when the style declares no recognizable display.
func StyleDisplay(style string) (d mailtext.Display, ok bool) {
	var important bool
	for _, decl := range strings.Split(style, ";") {
		name, value, found := strings.Cut(decl, ":")
		if !found || !strings.EqualFold(strings.TrimSpace(name), "display") {
			continue
		}
		value = strings.TrimSpace(value)
		imp := false
		if i := strings.LastIndex(value, "!"); i >= 0 && strings.EqualFold(strings.TrimSpace(value[i+1:]), "important") {
			value, imp = strings.TrimSpace(value[:i]), true
		}
		parsed := mailtext.ParseDisplay(value)
		if parsed == mailtext.DisplayUnknown || (important && !imp) {
			continue
		}
		d, ok, important = parsed, true, imp
	}
	return d, ok
}
