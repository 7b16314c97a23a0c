package mailtext_test

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/fwojciec/mailtext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	el  = mailtext.NewElement
	txt = mailtext.NewText
)

func withDisplay(n *mailtext.Node, d mailtext.Display) *mailtext.Node {
	n.Display = d
	return n
}

func TestExtractText(t *testing.T) {
	t.Parallel()

	t.Run("returns absent for nil node", func(t *testing.T) {
		t.Parallel()

		text, ok := mailtext.ExtractText(nil)

		assert.False(t, ok)
		assert.Empty(t, text)
	})

	t.Run("returns single text child as-is", func(t *testing.T) {
		t.Parallel()

		text, ok := mailtext.ExtractText(el("div", txt("hello")))

		assert.True(t, ok)
		assert.Equal(t, "hello", text)
	})

	t.Run("separates paragraphs with one line break", func(t *testing.T) {
		t.Parallel()

		text, ok := mailtext.ExtractText(el("div", el("p", txt("A")), el("p", txt("B"))))

		assert.True(t, ok)
		assert.Equal(t, "A\nB", text)
	})

	t.Run("inserts one space between adjacent inline runs", func(t *testing.T) {
		t.Parallel()

		text, _ := mailtext.ExtractText(el("div", el("span", txt("foo")), el("span", txt("bar"))))

		assert.Equal(t, "foo bar", text)
	})

	t.Run("breaks lines only relative to text at the same level", func(t *testing.T) {
		t.Parallel()

		// The inline wrapper starts with an empty buffer, so its block child
		// gets no leading break and joins the preceding text.
		text, ok := mailtext.ExtractText(el("div", txt("x"), el("span", el("p", txt("A")))))

		assert.True(t, ok)
		assert.Equal(t, "xA", text)
	})

	t.Run("returns empty string when only child is a script", func(t *testing.T) {
		t.Parallel()

		text, ok := mailtext.ExtractText(el("div", el("script", txt("ignored"))))

		assert.True(t, ok)
		assert.Equal(t, "", text)
	})

	t.Run("returns empty string for element without children", func(t *testing.T) {
		t.Parallel()

		text, ok := mailtext.ExtractText(el("div"))

		assert.True(t, ok)
		assert.Equal(t, "", text)
	})

	t.Run("skips style elements", func(t *testing.T) {
		t.Parallel()

		text, _ := mailtext.ExtractText(el("div", el("style", txt(".a{color:red}")), txt("visible")))

		assert.Equal(t, "visible", text)
	})

	t.Run("breaks line before nested block after text", func(t *testing.T) {
		t.Parallel()

		text, _ := mailtext.ExtractText(el("div", txt("Hello"), el("div", el("p", txt("A")))))

		assert.Equal(t, "Hello\nA", text)
	})

	t.Run("treats br as a line break", func(t *testing.T) {
		t.Parallel()

		text, _ := mailtext.ExtractText(el("p", txt("line1"), el("br"), txt("line2")))

		assert.Equal(t, "line1\nline2", text)
	})

	t.Run("collapses three or more line breaks to two", func(t *testing.T) {
		t.Parallel()

		text, _ := mailtext.ExtractText(el("div", txt("A"), txt("\n\n\n\n"), txt("B")))

		assert.Equal(t, "A\n\nB", text)
	})

	t.Run("normalizes carriage returns before collapsing", func(t *testing.T) {
		t.Parallel()

		text, _ := mailtext.ExtractText(el("div", txt("A\r\n\r\n\r\nB")))

		assert.Equal(t, "A\n\nB", text)
	})

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		t.Parallel()

		text, _ := mailtext.ExtractText(el("div", txt("\n  padded  \n")))

		assert.Equal(t, "padded", text)
	})

	t.Run("extracts a text root", func(t *testing.T) {
		t.Parallel()

		text, ok := mailtext.ExtractText(txt("  hi  "))

		assert.True(t, ok)
		assert.Equal(t, "hi", text)
	})

	t.Run("adds space between inline element and following text", func(t *testing.T) {
		t.Parallel()

		text, _ := mailtext.ExtractText(el("div", el("b", txt("Hi")), txt("there")))

		assert.Equal(t, "Hi there", text)
	})

	t.Run("does not add space when run already ends in whitespace", func(t *testing.T) {
		t.Parallel()

		text, _ := mailtext.ExtractText(el("div", el("span", txt("foo ")), el("span", txt("bar"))))

		assert.Equal(t, "foo bar", text)
	})

	t.Run("does not add space when next sibling starts with whitespace", func(t *testing.T) {
		t.Parallel()

		text, _ := mailtext.ExtractText(el("div", el("span", txt("foo")), el("span", txt(" bar"))))

		assert.Equal(t, "foo bar", text)
	})

	t.Run("does not add space when next text starts with whitespace", func(t *testing.T) {
		t.Parallel()

		text, _ := mailtext.ExtractText(el("div", el("a", txt("link")), txt(" after")))

		assert.Equal(t, "link after", text)
	})

	t.Run("does not add space before a block sibling", func(t *testing.T) {
		t.Parallel()

		text, _ := mailtext.ExtractText(el("div", el("span", txt("foo")), el("p", txt("bar"))))

		assert.Equal(t, "foo\nbar", text)
	})

	t.Run("looks past empty inline siblings", func(t *testing.T) {
		t.Parallel()

		text, _ := mailtext.ExtractText(el("div", el("span", txt("foo")), el("span"), el("span", txt("bar"))))

		assert.Equal(t, "foo bar", text)
	})

	t.Run("does not add space after an empty inline run", func(t *testing.T) {
		t.Parallel()

		text, _ := mailtext.ExtractText(el("p", txt("a"), el("b", el("span"), txt("c"))))

		assert.Equal(t, "ac", text)
	})

	t.Run("skips elements whose display is none", func(t *testing.T) {
		t.Parallel()

		hidden := withDisplay(el("span", txt("hidden")), mailtext.DisplayNone)

		text, _ := mailtext.ExtractText(el("div", hidden, txt("shown")))

		assert.Equal(t, "shown", text)
	})

	t.Run("treats display block as a boundary for any tag", func(t *testing.T) {
		t.Parallel()

		a := withDisplay(el("section", txt("a")), mailtext.DisplayBlock)
		b := withDisplay(el("section", txt("b")), mailtext.DisplayBlock)

		text, _ := mailtext.ExtractText(el("div", a, b))

		assert.Equal(t, "a\nb", text)
	})

	t.Run("keeps block tag boundaries even when display is inline", func(t *testing.T) {
		t.Parallel()

		a := withDisplay(el("p", txt("a")), mailtext.DisplayInline)
		b := withDisplay(el("p", txt("b")), mailtext.DisplayInline)

		text, _ := mailtext.ExtractText(el("div", a, b))

		assert.Equal(t, "a\nb", text)
	})

	t.Run("treats unknown display as inline", func(t *testing.T) {
		t.Parallel()

		text, _ := mailtext.ExtractText(el("div", el("section", txt("a")), el("section", txt("b"))))

		assert.Equal(t, "a b", text)
	})

	t.Run("preserves list structure", func(t *testing.T) {
		t.Parallel()

		root := el("div",
			el("p", txt("Items:")),
			el("ul", el("li", txt("one")), el("li", txt("two"))),
			el("p", txt("Thanks")),
		)

		text, _ := mailtext.ExtractText(root)

		assert.Equal(t, "Items:\none\ntwo\nThanks", text)
	})
}

func TestEngine_Options(t *testing.T) {
	t.Parallel()

	t.Run("uses injected display function", func(t *testing.T) {
		t.Parallel()

		engine := mailtext.NewEngine(mailtext.WithDisplay(func(n *mailtext.Node) mailtext.Display {
			if n.Tag == "section" {
				return mailtext.DisplayBlock
			}
			return mailtext.DisplayInline
		}))

		text, _ := engine.ExtractText(el("div", el("section", txt("a")), el("section", txt("b"))))

		assert.Equal(t, "a\nb", text)
	})

	t.Run("ignores nil display function", func(t *testing.T) {
		t.Parallel()

		engine := mailtext.NewEngine(mailtext.WithDisplay(nil))

		text, _ := engine.ExtractText(el("div", el("p", txt("a")), el("p", txt("b"))))

		assert.Equal(t, "a\nb", text)
	})

	t.Run("extends skipped tags", func(t *testing.T) {
		t.Parallel()

		engine := mailtext.NewEngine(mailtext.WithSkipTags("NOSCRIPT", "template"))

		text, _ := engine.ExtractText(el("div",
			txt("a"),
			el("noscript", txt("b")),
			el("template", txt("c")),
			el("script", txt("d")),
		))

		assert.Equal(t, "a", text)
	})
}

func TestExtractText_MalformedNodes(t *testing.T) {
	t.Parallel()

	t.Run("treats element without tag as inline text", func(t *testing.T) {
		t.Parallel()

		bad := &mailtext.Node{Kind: mailtext.ElementNode, Children: []*mailtext.Node{txt("x")}}

		text, ok := mailtext.ExtractText(el("div", txt("a "), bad, txt(" b")))

		assert.True(t, ok)
		assert.Equal(t, "a x b", text)
	})

	t.Run("renders text of node with unknown kind", func(t *testing.T) {
		t.Parallel()

		text, _ := mailtext.ExtractText(el("div", &mailtext.Node{Text: "raw"}))

		assert.Equal(t, "raw", text)
	})

	t.Run("skips nil children", func(t *testing.T) {
		t.Parallel()

		text, _ := mailtext.ExtractText(el("div", txt("a"), nil, txt("b")))

		assert.Equal(t, "ab", text)
	})

	t.Run("accepts uppercase tags", func(t *testing.T) {
		t.Parallel()

		root := &mailtext.Node{Kind: mailtext.ElementNode, Tag: "DIV", Children: []*mailtext.Node{
			{Kind: mailtext.ElementNode, Tag: "P", Children: []*mailtext.Node{txt("A")}},
			{Kind: mailtext.ElementNode, Tag: "SCRIPT", Children: []*mailtext.Node{txt("x")}},
			{Kind: mailtext.ElementNode, Tag: "P", Children: []*mailtext.Node{txt("B")}},
		}}

		text, _ := mailtext.ExtractText(root)

		assert.Equal(t, "A\nB", text)
	})
}

func TestExtractText_Properties(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		root := randomTree(rng, 4)

		text, ok := mailtext.ExtractText(root)
		require.True(t, ok)

		assert.NotContains(t, text, "\n\n\n", "tree %d", i)
		assert.Equal(t, strings.TrimSpace(text), text, "tree %d", i)

		again, _ := mailtext.ExtractText(root)
		assert.Equal(t, text, again, "tree %d must extract deterministically", i)

		styled := insertStyle(rng, root)
		withStyle, _ := mailtext.ExtractText(styled)
		assert.Equal(t, text, withStyle, "tree %d must ignore inserted style", i)
	}
}

var (
	randomTexts = []string{"a", " b", "c ", "\n", "\n\n\n", "  ", "", "d\r\n\r\ne", "word", "\t"}
	randomTags  = []string{"div", "p", "span", "b", "a", "br", "li", "table", "tr", "td", "section", "script", "style"}
)

func randomTree(rng *rand.Rand, depth int) *mailtext.Node {
	n := el(randomTags[rng.Intn(len(randomTags))])
	switch rng.Intn(4) {
	case 0:
		n.Display = mailtext.DisplayBlock
	case 1:
		n.Display = mailtext.DisplayInline
	}
	if depth == 0 {
		return n
	}
	for i, count := 0, rng.Intn(5); i < count; i++ {
		if rng.Intn(2) == 0 {
			n.Children = append(n.Children, txt(randomTexts[rng.Intn(len(randomTexts))]))
		} else {
			n.Children = append(n.Children, randomTree(rng, depth-1))
		}
	}
	if n.Tag == "script" || n.Tag == "style" {
		// Roots must render; only descendants are skipped.
		n.Tag = "div"
	}
	return n
}

// insertStyle returns a deep copy of n with a style element inserted at a
// random position of a random element.
func insertStyle(rng *rand.Rand, n *mailtext.Node) *mailtext.Node {
	cp := clone(n)
	var elements []*mailtext.Node
	var collect func(*mailtext.Node)
	collect = func(c *mailtext.Node) {
		if c.Kind != mailtext.ElementNode {
			return
		}
		elements = append(elements, c)
		for _, k := range c.Children {
			collect(k)
		}
	}
	collect(cp)

	target := elements[rng.Intn(len(elements))]
	pos := rng.Intn(len(target.Children) + 1)
	style := el("style", txt("p { margin: 0 }"))
	target.Children = append(target.Children[:pos], append([]*mailtext.Node{style}, target.Children[pos:]...)...)
	return cp
}

func clone(n *mailtext.Node) *mailtext.Node {
	cp := *n
	cp.Children = make([]*mailtext.Node, len(n.Children))
	for i, c := range n.Children {
		cp.Children[i] = clone(c)
	}
	return &cp
}
