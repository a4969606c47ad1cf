package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/five82/pricetrack/internal/logging"
)

// Transport issues one JSON request against the price-tracker server.
// This interface is implemented by *Client and can be faked in tests.
type Transport interface {
	Call(ctx context.Context, method, path string, body, dest any) error
}

// Ensure Client implements Transport at compile time.
var _ Transport = (*Client)(nil)

// Client talks to the price-tracker HTTP API. Session cookies set by the
// server are kept in a jar and sent with every later request.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	newID     func() string
	cookies   CookieStore
	log       logging.Logger
}

const (
	defaultBaseURL   = "http://127.0.0.1:5000"
	defaultUserAgent = "pricetrack/0.1"
	defaultTimeout   = 10 * time.Second

	// maxErrorBody bounds how much of a failed response is kept.
	maxErrorBody = 64 * 1024
)

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client. Its cookie jar, if any,
// is used as-is (wrapped when WithCookieStore is also given).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithCookieStore persists the session cookies in store and restores them
// when the client is built, so a session outlives the process.
func WithCookieStore(store CookieStore) Option {
	return func(c *Client) {
		c.cookies = store
	}
}

// WithLogger sets the logger used for cookie persistence failures.
func WithLogger(l logging.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// NewClient builds a Client for the server at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	c := &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: defaultTimeout,
			Jar:     jar,
		},
		userAgent: defaultUserAgent,
		newID:     func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = logging.OrNoOp(c.log)

	if c.cookies != nil {
		inner := c.http.Jar
		if inner == nil {
			inner = jar
		}
		pj := &persistentJar{CookieJar: inner, base: base, store: c.cookies, log: c.log}
		if err := pj.restore(); err != nil {
			c.log.Warn("ignoring saved session cookies", "error", err)
		}
		c.http.Jar = pj
	}
	return c, nil
}

// BaseURL returns the server URL requests are resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Call sends body (JSON-encoded, omitted when nil) to path and decodes the
// response into dest (skipped when nil). Responses with status >= 400 are
// returned as *ResponseError; failures before a response arrives are
// returned as plain wrapped errors.
func (c *Client) Call(ctx context.Context, method, path string, body, dest any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	rel, err := url.Parse(path)
	if err != nil {
		return fmt.Errorf("parse path %q: %w", path, err)
	}
	reqURL := c.baseURL.ResolveReference(rel)

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", c.newID())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return newResponseError(method, rel.Path, resp.StatusCode, raw)
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api url %q: missing host", raw)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
