// Package client is an authenticated client for the money tracker REST API.
//
// Authenticated calls attach the stored bearer token, refuse to send a token
// whose exp claim has already passed, and clear the session when the server
// answers 401 or 403. Server errors and network failures are retried with
// exponential backoff when resending cannot repeat a write.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/SscSPs/money_tracker/internal/utils"
)

const (
	DefaultTimeout    = 10 * time.Second
	DefaultMaxRetries = 3
	DefaultBackoff    = 500 * time.Millisecond
)

// ErrSessionExpired means the caller has to sign in again. The session has already been cleared.
var ErrSessionExpired = errors.New("session expired, please log in again")

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d %s", e.Status, http.StatusText(e.Status))
	}
	return e.Message
}

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Session    SessionStore
	MaxRetries int
	Backoff    time.Duration
	Logger     *slog.Logger

	now func() time.Time
}

// Option customizes a Client.
type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.HTTPClient = hc }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.Logger = l }
}

func WithSession(s SessionStore) Option {
	return func(c *Client) { c.Session = s }
}

// WithRetry sets how often 5xx and network failures are retried and the first backoff delay.
func WithRetry(maxRetries int, backoff time.Duration) Option {
	return func(c *Client) {
		c.MaxRetries = maxRetries
		c.Backoff = backoff
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
		Session:    &MemorySession{},
		MaxRetries: DefaultMaxRetries,
		Backoff:    DefaultBackoff,
		Logger:     slog.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type request struct {
	method string
	path   string
	query  url.Values
	body   any
	authed bool
}

// bearerToken returns the stored token, clearing it first if its exp claim has passed.
func (c *Client) bearerToken() (string, error) {
	s, err := c.Session.Load()
	if err != nil {
		return "", err
	}
	if s.Token == "" {
		return "", nil
	}
	exp, err := utils.TokenExpiry(s.Token)
	if err == nil && !exp.After(c.now()) {
		_ = c.Session.Clear()
		return "", ErrSessionExpired
	}
	return s.Token, nil
}

// send performs r with retries and returns the successful response. The caller closes its body.
func (c *Client) send(ctx context.Context, r request) (*http.Response, error) {
	var token string
	if r.authed {
		var err error
		if token, err = c.bearerToken(); err != nil {
			return nil, err
		}
	}

	var payload []byte
	if r.body != nil {
		var err error
		if payload, err = json.Marshal(r.body); err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
	}

	target := c.BaseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	var lastErr error
	for attempt := 0; attempt <= c.MaxRetries; attempt++ {
		if attempt > 0 {
			c.Logger.DebugContext(ctx, "Retrying request",
				slog.String("method", r.method),
				slog.String("path", r.path),
				slog.Int("attempt", attempt),
				slog.Any("error", lastErr))
			if err := c.wait(ctx, attempt); err != nil {
				return nil, err
			}
		}

		req, err := http.NewRequestWithContext(ctx, r.method, target, bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}

		resp, err := c.HTTPClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = fmt.Errorf("%s %s: %w", r.method, r.path, err)
			if !replayable(r.method, err) {
				return nil, lastErr
			}
			continue
		}

		switch {
		case resp.StatusCode < http.StatusBadRequest:
			return resp, nil
		case r.authed && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden):
			apiErr := readAPIError(resp)
			_ = c.Session.Clear()
			return nil, fmt.Errorf("%w: %s", ErrSessionExpired, apiErr.Message)
		case resp.StatusCode >= http.StatusInternalServerError:
			lastErr = readAPIError(resp)
			if !idempotent(r.method) {
				return nil, lastErr
			}
			continue
		default:
			return nil, readAPIError(resp)
		}
	}
	return nil, lastErr
}

// idempotent methods can be sent again after an unknown outcome.
func idempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

// replayable reports whether a request that failed with err may be sent again.
// A POST is only resent when the connection was never established, so the
// server cannot have seen it.
func replayable(method string, err error) bool {
	if idempotent(method) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}

func (c *Client) wait(ctx context.Context, attempt int) error {
	delay := c.Backoff << (attempt - 1)
	t := time.NewTimer(delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func readAPIError(resp *http.Response) *APIError {
	defer resp.Body.Close()
	apiErr := &APIError{Status: resp.StatusCode}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var body struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(data, &body) == nil && body.Error != "" {
		apiErr.Message = body.Error
	} else if text := strings.TrimSpace(string(data)); text != "" && !strings.HasPrefix(text, "<") {
		apiErr.Message = text
	}
	return apiErr
}

// call sends r and decodes a JSON answer into out when out is non-nil.
func (c *Client) call(ctx context.Context, r request, out any) error {
	resp, err := c.send(ctx, r)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", r.method, r.path, err)
	}
	return nil
}
