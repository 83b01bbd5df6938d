// Package fetch issues outbound GET requests with browser-like header
// profiles and a cookie-bearing session, so that sites gating content behind
// first-visit cookies or header checks serve real markup.
package fetch

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"golang.org/x/net/html/charset"
)

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// ErrTimeout classifies outbound calls that exceeded their per-call budget.
var ErrTimeout = errors.New("upstream timeout")

// StatusError reports a non-2xx upstream status for callers that requested
// status-raising behavior via FetchOK.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned HTTP %d for %s", e.StatusCode, e.URL)
}

// IsTimeout reports whether err was caused by an outbound call timing out.
func IsTimeout(err error) bool {
	if errors.Is(err, ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// Result is the outcome of a single fetch: the final URL after any HTTP
// redirects, the status code, and the decoded UTF-8 body.
type Result struct {
	FinalURL   string
	StatusCode int
	Body       string
	Header     http.Header
}

// Client is a cookie-bearing outbound session. Cookies set by one call are
// sent on subsequent calls, so a session can be warmed by visiting a site's
// front page before the real request. Sessions are cheap and must not be
// shared across inbound requests.
type Client struct {
	hc     *http.Client
	logger *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTransport sets the underlying round tripper. Used by tests to point
// the session at stub servers.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.hc.Transport = rt
	}
}

// WithLogger sets the logger. Defaults to slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a fresh session with an empty cookie jar. HTTP-level
// redirects are followed by the default client policy.
func NewClient(opts ...Option) *Client {
	jar, _ := cookiejar.New(nil) // only errors on invalid options
	c := &Client{
		hc:     &http.Client{Jar: jar},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch performs a GET with the given header profile and per-call timeout.
// Non-2xx statuses are returned as a Result for the caller to interpret, not
// as errors; timeouts and transport failures are errors.
func (c *Client) Fetch(ctx context.Context, rawURL string, profile Profile, timeout time.Duration) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid request URL %q: %w", rawURL, err)
	}
	profile.apply(req)

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		if IsTimeout(err) {
			return nil, fmt.Errorf("%w: %s", ErrTimeout, rawURL)
		}
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	body, err := decodeBody(resp)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rawURL, err)
	}

	c.logger.Debug("fetched",
		"url", rawURL,
		"final_url", resp.Request.URL.String(),
		"status", resp.StatusCode,
		"length", len(body),
		"duration", time.Since(start),
	)

	return &Result{
		FinalURL:   resp.Request.URL.String(),
		StatusCode: resp.StatusCode,
		Body:       body,
		Header:     resp.Header,
	}, nil
}

// FetchOK is Fetch with status-raising behavior: statuses >= 400 become a
// StatusError.
func (c *Client) FetchOK(ctx context.Context, rawURL string, profile Profile, timeout time.Duration) (*Result, error) {
	res, err := c.Fetch(ctx, rawURL, profile, timeout)
	if err != nil {
		return nil, err
	}
	if res.StatusCode >= 400 {
		return nil, &StatusError{StatusCode: res.StatusCode, URL: rawURL}
	}
	return res, nil
}

// Warm visits a site's front page to collect first-visit cookies into the
// session. Failures are logged and never fatal.
func (c *Client) Warm(ctx context.Context, rawURL string, profile Profile, timeout time.Duration) {
	if _, err := c.Fetch(ctx, rawURL, profile, timeout); err != nil {
		c.logger.Warn("front page warm-up failed", "url", rawURL, "error", err)
	}
}

// decodeBody decompresses the response when the encoding was pinned by a
// profile (the transport only auto-decompresses when it negotiated the
// encoding itself) and transcodes the result to UTF-8 based on the
// Content-Type header and in-page charset declarations.
func decodeBody(resp *http.Response) (string, error) {
	var r io.Reader = resp.Body
	switch strings.ToLower(resp.Header.Get("Content-Encoding")) {
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return "", err
		}
		defer gz.Close()
		r = gz
	case "deflate":
		fr := flate.NewReader(resp.Body)
		defer fr.Close()
		r = fr
	}

	decoded, err := charset.NewReader(r, resp.Header.Get("Content-Type"))
	if err != nil {
		return "", err
	}
	body, err := io.ReadAll(decoded)
	if err != nil {
		return "", err
	}
	return string(body), nil
}
