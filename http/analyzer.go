package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/fwojciec/mailtext"
)

// DefaultServerURL is the address of a locally running analysis server.
const DefaultServerURL = "http://127.0.0.1:5000"

// Ensure Analyzer implements mailtext.Analyzer at compile time.
var _ mailtext.Analyzer = (*Analyzer)(nil)

// Analyzer classifies messages by posting them to the analysis server's
// /analyze endpoint. It is safe for concurrent use.
type Analyzer struct {
	endpoint string
	opts     *options
}

// NewAnalyzer creates an Analyzer for the server at baseURL.
func NewAnalyzer(baseURL string, opts ...Option) *Analyzer {
	return &Analyzer{
		endpoint: strings.TrimRight(baseURL, "/") + "/analyze",
		opts:     newOptions(opts),
	}
}

// analyzeRequest is the JSON body sent to the server. Absent regions are null.
type analyzeRequest struct {
	Subject *string `json:"subject"`
	Body    *string `json:"body"`
}

// errorResponse is the JSON body of a failed request.
type errorResponse struct {
	Error string `json:"error"`
}

// Analyze sends the message to the server and returns its verdict.
func (a *Analyzer) Analyze(ctx context.Context, email *mailtext.Email) (*mailtext.Verdict, error) {
	if err := email.Sendable(); err != nil {
		return nil, err
	}

	buf, err := json.Marshal(analyzeRequest{
		Subject: email.Subject.Value(),
		Body:    email.Body.Value(),
	})
	if err != nil {
		return nil, err
	}

	if err := a.opts.wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(buf))
	if err != nil {
		return nil, mailtext.Errorf(mailtext.EINVALID, "invalid server URL %q: %v", a.endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.opts.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, mailtext.Errorf(mailtext.EUNAVAILABLE, "cannot connect to analysis server (%s)", a.endpoint)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading analysis response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, backendError(resp, body)
	}

	var v mailtext.Verdict
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, mailtext.Errorf(mailtext.EINTERNAL, "invalid analysis response: %v", err)
	}
	return &v, nil
}

// backendError maps a non-2xx response to an application error, including
// the server's error message when the body carries one.
func backendError(resp *http.Response, body []byte) error {
	msg := fmt.Sprintf("backend error: %s", resp.Status)
	var e errorResponse
	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		msg += " - " + e.Error
	}

	code := mailtext.EINTERNAL
	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		code = mailtext.EINVALID
	}
	return mailtext.Errorf(code, "%s", msg)
}
