package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrTooLarge is returned when a body exceeds Client.MaxBodyBytes.
var ErrTooLarge = errors.New("response body too large")

// StatusError reports a non-2xx response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d for %s", e.StatusCode, e.URL)
}

// Response is a fully read GET response.
type Response struct {
	StatusCode  int
	ContentType string
	Header      http.Header
	Body        []byte
}

// Stream is an open GET response whose body the caller must close.
type Stream struct {
	StatusCode  int
	ContentType string
	Header      http.Header
	Body        io.ReadCloser
	cancel      context.CancelFunc
}

// Close releases the body and the per-request deadline.
func (s *Stream) Close() error {
	err := s.Body.Close()
	if s.cancel != nil {
		s.cancel()
	}
	return err
}

// Client wraps http.Client with a persistent header set and a per-request timeout.
// A single Client is safe for concurrent use; its transport is the only state
// shared between requests.
type Client struct {
	HTTPClient *http.Client
	// Header is sent with every request. Per-call headers override it.
	Header    http.Header
	UserAgent string
	// PerRequestTimeout bounds each request including the body read.
	PerRequestTimeout time.Duration
	// MaxBodyBytes caps Get bodies. Zero means unlimited.
	MaxBodyBytes int64
	// RedirectMaxHops caps redirect following to avoid loops. Zero means default (5).
	RedirectMaxHops int
}

func (c *Client) getHTTPClient() *http.Client {
	if c.HTTPClient != nil {
		// Clone to attach our redirect policy without mutating caller's client
		base := *c.HTTPClient
		base.CheckRedirect = c.checkRedirectFunc()
		return &base
	}
	return &http.Client{Transport: NewTransport(), CheckRedirect: c.checkRedirectFunc()}
}

// Get issues a GET and reads the whole body. Non-2xx statuses return *StatusError.
func (c *Client) Get(ctx context.Context, rawURL string, header http.Header) (*Response, error) {
	s, err := c.Open(ctx, rawURL, header)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	var r io.Reader = s.Body
	if c.MaxBodyBytes > 0 {
		r = io.LimitReader(s.Body, c.MaxBodyBytes+1)
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, wrapErr(rawURL, fmt.Errorf("read body: %w", err))
	}
	if c.MaxBodyBytes > 0 && int64(len(b)) > c.MaxBodyBytes {
		return nil, fmt.Errorf("%s: %w (limit %d bytes)", rawURL, ErrTooLarge, c.MaxBodyBytes)
	}
	return &Response{StatusCode: s.StatusCode, ContentType: s.ContentType, Header: s.Header, Body: b}, nil
}

// Open issues a GET and returns the response with its body unread.
func (c *Client) Open(ctx context.Context, rawURL string, header http.Header) (*Stream, error) {
	cancel := context.CancelFunc(func() {})
	if c.PerRequestTimeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, c.PerRequestTimeout)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("new request: %w", err)
	}
	// Reject non-HTTP(S) schemes early
	if !isHTTPScheme(req.URL) {
		cancel()
		return nil, fmt.Errorf("unsupported URL scheme: %q", req.URL.String())
	}
	for k, vs := range c.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	for k, vs := range header {
		req.Header.Del(k)
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.getHTTPClient().Do(req)
	if err != nil {
		cancel()
		return nil, wrapErr(rawURL, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		cancel()
		return nil, &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}
	return &Stream{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Header:      resp.Header,
		Body:        resp.Body,
		cancel:      cancel,
	}, nil
}

// wrapErr tags deadline failures so callers and messages both say "timeout".
func wrapErr(rawURL string, err error) error {
	if IsTimeout(err) {
		return fmt.Errorf("timeout fetching %s: %w", rawURL, err)
	}
	return fmt.Errorf("fetching %s: %w", rawURL, err)
}

// IsTimeout reports whether err stems from a deadline or a network timeout.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func (c *Client) checkRedirectFunc() func(req *http.Request, via []*http.Request) error {
	max := c.RedirectMaxHops
	if max <= 0 {
		max = 5
	}
	return func(req *http.Request, via []*http.Request) error {
		if len(via) >= max {
			return errors.New("too many redirects")
		}
		// Only allow http/https during redirects
		if !isHTTPScheme(req.URL) {
			return errors.New("redirect to unsupported scheme")
		}
		return nil
	}
}

func isHTTPScheme(u *url.URL) bool {
	if u == nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}
