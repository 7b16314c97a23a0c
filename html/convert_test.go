package html_test

import (
	"testing"

	"github.com/fwojciec/mailtext"
	mailhtml "github.com/fwojciec/mailtext/html"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func TestConvert(t *testing.T) {
	t.Parallel()

	t.Run("converts body into extractable text", func(t *testing.T) {
		t.Parallel()

		doc, err := mailhtml.Parse(`<!DOCTYPE html><html><head><title>T</title></head><body>` +
			`<p>Hello <b>world</b></p>` +
			`<div style="display:none">secret</div>` +
			`<span hidden>h</span>` +
			`<script>x()</script>` +
			`<!-- comment -->` +
			`<ul><li>one</li><li>two</li></ul>` +
			`</body></html>`)
		require.NoError(t, err)

		body := mailhtml.Convert(findElement(doc, "body"))
		text, ok := mailtext.ExtractText(body)

		assert.True(t, ok)
		assert.Equal(t, "Hello world\none\ntwo", text)
	})

	t.Run("records display on converted elements", func(t *testing.T) {
		t.Parallel()

		doc, err := mailhtml.Parse(`<div><span>a</span><p style="display: inline-block">b</p></div>`)
		require.NoError(t, err)

		div := mailhtml.Convert(findElement(doc, "div"))

		require.Len(t, div.Children, 2)
		assert.Equal(t, mailtext.DisplayBlock, div.Display)
		assert.Equal(t, "span", div.Children[0].Tag)
		assert.Equal(t, mailtext.DisplayInline, div.Children[0].Display)
		assert.Equal(t, mailtext.DisplayInline, div.Children[1].Display)
		assert.Equal(t, mailtext.TextNode, div.Children[0].Children[0].Kind)
		assert.Equal(t, "a", div.Children[0].Children[0].Text)
	})

	t.Run("converts whole documents", func(t *testing.T) {
		t.Parallel()

		doc, err := mailhtml.Parse(`<html><head><style>p{}</style></head><body><p>A</p><p>B</p></body></html>`)
		require.NoError(t, err)

		root := mailhtml.Convert(doc)
		text, _ := mailtext.ExtractText(root)

		assert.Equal(t, "#document", root.Tag)
		assert.Equal(t, "A\nB", text)
	})

	t.Run("returns nil for nil node", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, mailhtml.Convert(nil))
	})
}

func TestDefaultDisplay(t *testing.T) {
	t.Parallel()

	assert.Equal(t, mailtext.DisplayBlock, mailhtml.DefaultDisplay("DIV"))
	assert.Equal(t, mailtext.DisplayBlock, mailhtml.DefaultDisplay("section"))
	assert.Equal(t, mailtext.DisplayNone, mailhtml.DefaultDisplay("script"))
	assert.Equal(t, mailtext.DisplayNone, mailhtml.DefaultDisplay("head"))
	assert.Equal(t, mailtext.DisplayInline, mailhtml.DefaultDisplay("a"))
	assert.Equal(t, mailtext.DisplayInline, mailhtml.DefaultDisplay("td"))
}

func TestStyleDisplay(t *testing.T) {
	t.Parallel()

	tests := []struct {
		style string
		want  mailtext.Display
		ok    bool
	}{
		{"display:none", mailtext.DisplayNone, true},
		{"color: red; DISPLAY: block !important", mailtext.DisplayBlock, true},
		{"display:block; display:none", mailtext.DisplayNone, true},
		{"display:none !important; display:block", mailtext.DisplayNone, true},
		{"display:none !important; display:block !important", mailtext.DisplayBlock, true},
		{"display: inline ! IMPORTANT; display: block", mailtext.DisplayInline, true},
		{"display: bogus", "", false},
		{"color: red", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.style, func(t *testing.T) {
			t.Parallel()

			got, ok := mailhtml.StyleDisplay(tt.style)

			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
