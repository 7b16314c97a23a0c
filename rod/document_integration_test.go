//go:build integration

package rod_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fwojciec/mailtext"
	"github.com/fwojciec/mailtext/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gmailView = `<!DOCTYPE html>
<html>
<head><style>.hide { display: none } .name { display: inline-block }</style></head>
<body>
<h2 class="hP">Loading...</h2>
<div class="a3s aiL"><p><span>Dear</span><span class="name">customer,</span></p><p>Please <b>verify</b> your account.</p><div class="hide">tracking pixel text</div></div>
<script>document.querySelector('h2.hP').textContent = 'Unusual sign-in activity';</script>
</body>
</html>`

func serve(t *testing.T, page string) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(page))
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func newBrowser(t *testing.T, opts ...rod.BrowserOption) *rod.Browser {
	t.Helper()
	b, err := rod.NewBrowser(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { b.Close() })
	return b
}

func TestDocument_Find(t *testing.T) {
	t.Parallel()

	url := serve(t, gmailView)
	loader := rod.NewLoader(newBrowser(t))
	ctx := context.Background()

	doc, err := loader.Load(ctx, url)
	require.NoError(t, err)
	defer doc.Close()

	t.Run("sees rendered text", func(t *testing.T) {
		n, err := doc.Find(ctx, "h2.hP")
		require.NoError(t, err)
		text, ok := mailtext.ExtractText(n)
		assert.True(t, ok)
		assert.Equal(t, "Unusual sign-in activity", text)
	})

	t.Run("uses computed display from stylesheets", func(t *testing.T) {
		n, err := doc.Find(ctx, "div.a3s.aiL")
		require.NoError(t, err)
		text, _ := mailtext.ExtractText(n)
		assert.Equal(t, "Dear customer,\nPlease verify your account.", text)
	})

	t.Run("returns nil for no match", func(t *testing.T) {
		n, err := doc.Find(ctx, "div.missing")
		require.NoError(t, err)
		assert.Nil(t, n)
	})

	t.Run("rejects invalid selector", func(t *testing.T) {
		_, err := doc.Find(ctx, "div[")
		assert.Equal(t, mailtext.EINVALID, mailtext.ErrorCode(err))
	})

	t.Run("returns page HTML", func(t *testing.T) {
		html, err := doc.HTML(ctx)
		require.NoError(t, err)
		assert.Contains(t, html, "Unusual sign-in activity")
	})
}

func TestLoader_Load_ContextCancellation(t *testing.T) {
	t.Parallel()

	loader := rod.NewLoader(newBrowser(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := loader.Load(ctx, serve(t, gmailView))

	assert.ErrorIs(t, err, context.Canceled)
}

func TestBrowser_RecyclesAfterMaxPages(t *testing.T) {
	t.Parallel()

	b := newBrowser(t, rod.WithMaxPages(2))
	loader := rod.NewLoader(b)
	url := serve(t, gmailView)
	first := b.LauncherPID()

	for i := 0; i < 3; i++ {
		doc, err := loader.Load(context.Background(), url)
		require.NoError(t, err)
		require.NoError(t, doc.Close())
	}

	assert.NotEqual(t, first, b.LauncherPID())
}
