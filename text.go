package mailtext

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultSkipTags are elements that never render visible text.
var DefaultSkipTags = []string{"style", "script"}

// blockTags always start a new line, regardless of computed display.
var blockTags = map[string]bool{
	"p": true, "div": true, "br": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"li": true, "hr": true, "blockquote": true, "table": true, "tr": true,
}

var (
	blankLinesRe = regexp.MustCompile(`\n{3,}`)
	newlineRe    = regexp.MustCompile(`\r\n?`)
)

// Engine linearizes markup subtrees into plain text.
//
// An Engine holds only immutable configuration, so one Engine may be shared by
// any number of goroutines.
type Engine struct {
	skip    map[string]bool
	display DisplayFunc
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithSkipTags adds tags whose subtrees are dropped from the output.
// The defaults in DefaultSkipTags are always skipped.
func WithSkipTags(tags ...string) EngineOption {
	return func(e *Engine) {
		for _, tag := range tags {
			e.skip[strings.ToLower(tag)] = true
		}
	}
}

// WithDisplay sets the function used to compute an element's display mode.
// Defaults to NodeDisplay.
func WithDisplay(fn DisplayFunc) EngineOption {
	return func(e *Engine) {
		if fn != nil {
			e.display = fn
		}
	}
}

// NewEngine creates a new Engine.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		skip:    make(map[string]bool),
		display: NodeDisplay,
	}
	for _, tag := range DefaultSkipTags {
		e.skip[tag] = true
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultEngine = NewEngine()

// ExtractText linearizes n with a default Engine.
func ExtractText(n *Node) (string, bool) {
	return defaultEngine.ExtractText(n)
}

// ExtractText linearizes the subtree rooted at n.
//
// It returns ok == false only when n is nil. An element without visible text
// yields ("", true), so callers can tell a missing target from an empty one.
func (e *Engine) ExtractText(n *Node) (text string, ok bool) {
	text, _, ok = e.extract(n)
	return text, ok
}

// extract walks n and returns the normalized text plus a description of every
// malformed node encountered.
func (e *Engine) extract(n *Node) (string, []string, bool) {
	if n == nil {
		return "", nil, false
	}

	w := &walker{engine: e}
	var raw string
	switch w.classify(n) {
	case nodeText:
		raw = n.Text
	case nodeMalformed:
		w.note(n)
		raw = n.Text + w.children(n)
	default:
		// The root's own tag and display do not matter, only its content.
		raw = w.children(n)
	}
	return normalize(raw), w.malformed, true
}

// normalize collapses runs of blank lines and trims surrounding whitespace.
func normalize(s string) string {
	s = newlineRe.ReplaceAllString(s, "\n")
	s = blankLinesRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// nodeClass is how the walker treats a node.
type nodeClass int

const (
	nodeText nodeClass = iota
	nodeSkip
	nodeBlock
	nodeInline
	nodeMalformed // rendered as an inline run carrying its own text
)

type walker struct {
	engine    *Engine
	malformed []string
}

func (w *walker) classify(n *Node) nodeClass {
	switch n.Kind {
	case TextNode:
		return nodeText
	case ElementNode:
	default:
		return nodeMalformed
	}

	tag := strings.ToLower(n.Tag)
	if tag == "" {
		return nodeMalformed
	}
	if w.engine.skip[tag] {
		return nodeSkip
	}
	switch w.engine.display(n) {
	case DisplayNone:
		return nodeSkip
	case DisplayBlock:
		return nodeBlock
	}
	if blockTags[tag] {
		return nodeBlock
	}
	return nodeInline
}

func (w *walker) note(n *Node) {
	switch {
	case n == nil:
		w.malformed = append(w.malformed, "nil child node")
	case n.Kind == ElementNode:
		w.malformed = append(w.malformed, "element without tag name")
	default:
		w.malformed = append(w.malformed, fmt.Sprintf("node of unknown kind %q", n.Kind))
	}
}

// children returns the text of parent's children. Line breaks and spaces are
// inserted relative to the text accumulated at this level only.
func (w *walker) children(parent *Node) string {
	var out strings.Builder
	for i, c := range parent.Children {
		if c == nil {
			w.note(nil)
			continue
		}
		switch w.classify(c) {
		case nodeText:
			out.WriteString(c.Text)
		case nodeSkip:
		case nodeBlock:
			if out.Len() > 0 && !strings.HasSuffix(out.String(), "\n") {
				out.WriteByte('\n')
			}
			out.WriteString(w.children(c))
			if !strings.HasSuffix(out.String(), "\n") {
				out.WriteByte('\n')
			}
		case nodeInline, nodeMalformed:
			var run string
			if w.classify(c) == nodeMalformed {
				w.note(c)
				run = c.Text + w.children(c)
			} else {
				run = w.children(c)
			}
			out.WriteString(run)
			if run != "" && w.needsSpace(out.String(), parent.Children[i+1:]) {
				out.WriteByte(' ')
			}
		}
	}
	return out.String()
}

// needsSpace reports whether an inline run ending out must be separated from
// the following siblings. No space is added when either side already
// supplies whitespace.
func (w *walker) needsSpace(out string, siblings []*Node) bool {
	if endsWithSpace(out) {
		return false
	}
	for _, s := range siblings {
		if s == nil {
			continue
		}
		var lead string
		switch w.classify(s) {
		case nodeText:
			lead = s.Text
		case nodeSkip:
			continue
		case nodeBlock:
			return false
		case nodeInline:
			lead = w.leadingText(s)
		case nodeMalformed:
			lead = s.Text
			if lead == "" {
				lead = w.leadingText(s)
			}
		}
		if lead == "" {
			// Renders nothing; look at the sibling after it.
			continue
		}
		return !startsWithSpace(lead)
	}
	return false
}

// leadingText returns the first rendered text inside n, or "" when n renders
// no text at all. A nested block reports a line break.
func (w *walker) leadingText(n *Node) string {
	for _, c := range n.Children {
		if c == nil {
			continue
		}
		switch w.classify(c) {
		case nodeText:
			if c.Text != "" {
				return c.Text
			}
		case nodeSkip:
		case nodeBlock:
			if w.leadingText(c) != "" {
				return "\n"
			}
		case nodeInline:
			if lead := w.leadingText(c); lead != "" {
				return lead
			}
		case nodeMalformed:
			if c.Text != "" {
				return c.Text
			}
			if lead := w.leadingText(c); lead != "" {
				return lead
			}
		}
	}
	return ""
}

func endsWithSpace(s string) bool {
	r, size := utf8.DecodeLastRuneInString(s)
	return size > 0 && unicode.IsSpace(r)
}

func startsWithSpace(s string) bool {
	r, size := utf8.DecodeRuneInString(s)
	return size > 0 && unicode.IsSpace(r)
}
