// Package http provides HTTP implementations of mailtext services: a loader
// for static message views and a client for the phishing analysis server.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/mailtext"
	"github.com/fwojciec/mailtext/goquery"
	"golang.org/x/time/rate"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 10 * time.Second

// options holds settings shared by Fetcher and Analyzer.
type options struct {
	timeout time.Duration
	client  *http.Client
	limiter *rate.Limiter
}

// Option configures a Fetcher or Analyzer.
type Option func(*options)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithHTTPClient replaces the underlying client. The timeout option is ignored.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.client = c
	}
}

// WithRateLimit caps outgoing requests per second with a token bucket.
// A non-positive rps disables limiting.
func WithRateLimit(rps float64) Option {
	return func(o *options) {
		if rps <= 0 {
			o.limiter = nil
			return
		}
		o.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

func newOptions(opts []Option) *options {
	o := &options{timeout: DefaultFetchTimeout}
	for _, opt := range opts {
		opt(o)
	}
	if o.client == nil {
		o.client = &http.Client{Timeout: o.timeout}
	}
	return o
}

// wait blocks until the rate limiter admits a request.
func (o *options) wait(ctx context.Context) error {
	if o.limiter == nil {
		return nil
	}
	return o.limiter.Wait(ctx)
}

// Ensure Fetcher implements mailtext.DocumentLoader at compile time.
var _ mailtext.DocumentLoader = (*Fetcher)(nil)

// Fetcher loads static message views over HTTP. It does not execute
// JavaScript; use the rod loader for pages that render client-side.
type Fetcher struct {
	opts *options
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	return &Fetcher{opts: newOptions(opts)}
}

// Fetch retrieves the HTML content from the given URL.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := f.opts.wait(ctx); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", mailtext.Errorf(mailtext.EINVALID, "invalid URL %q: %v", url, err)
	}

	resp, err := f.opts.client.Do(req)
	if err != nil {
		return "", mailtext.Errorf(mailtext.EUNAVAILABLE, "cannot fetch %s: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", mailtext.Errorf(mailtext.ENOTFOUND, "HTTP %d for %s", resp.StatusCode, url)
	} else if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	return string(body), nil
}

// Load fetches url and parses it into a queryable document.
func (f *Fetcher) Load(ctx context.Context, url string) (mailtext.Document, error) {
	html, err := f.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return goquery.NewDocument(html)
}
