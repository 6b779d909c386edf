// Package api is the single gateway for every backend call: it attaches the
// bearer token, serializes JSON bodies, parses JSON responses only when the
// server declares a JSON content type, and turns HTTP failures into typed
// errors. A 401 from any endpoint clears the session unconditionally; that
// side effect lives here so no caller has to remember it.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Session is the slice of the session store the gateway needs: a token for
// outbound calls and a hook to destroy the session on 401.
type Session interface {
	Token() (string, bool)
	Expire() error
}

// Response is a successful call's payload and status.
type Response struct {
	Data   []byte
	Status int
}

// Decode unmarshals the JSON payload into v. Empty payloads (204, or any
// response without a JSON content type) decode to nothing.
func (r Response) Decode(v interface{}) error {
	if v == nil || len(r.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Data, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Client is the API gateway. All domain services call through it.
type Client struct {
	base    string
	http    *http.Client
	session Session
	logger  zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client. The default has no
// timeout: in-flight requests are bounded by the caller's context, not by
// the gateway.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets a per-request timeout on the underlying client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// NewClient creates a gateway rooted at baseURL (origin + fixed path prefix,
// e.g. https://clinic.example.com/api/accounts).
func NewClient(baseURL string, sess Session, logger zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		base:    strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		session: sess,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Get(ctx context.Context, path string) (Response, error) {
	return c.do(ctx, http.MethodGet, path, nil, true)
}

func (c *Client) Post(ctx context.Context, path string, body interface{}) (Response, error) {
	return c.do(ctx, http.MethodPost, path, body, true)
}

func (c *Client) Put(ctx context.Context, path string, body interface{}) (Response, error) {
	return c.do(ctx, http.MethodPut, path, body, true)
}

func (c *Client) Patch(ctx context.Context, path string, body interface{}) (Response, error) {
	return c.do(ctx, http.MethodPatch, path, body, true)
}

func (c *Client) Delete(ctx context.Context, path string) (Response, error) {
	return c.do(ctx, http.MethodDelete, path, nil, true)
}

// PostAnon posts without attaching credentials and without the 401 session
// side effect. Login, registration, and password reset use it: a 401 there
// means bad credentials, not an expired session.
func (c *Client) PostAnon(ctx context.Context, path string, body interface{}) (Response, error) {
	return c.do(ctx, http.MethodPost, path, body, false)
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, authed bool) (Response, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return Response{}, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return Response{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	rid := uuid.NewString()
	req.Header.Set("X-Request-ID", rid)
	if authed {
		if tok, ok := c.session.Token(); ok {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error().Err(err).
			Str("request_id", rid).
			Str("method", method).
			Str("path", path).
			Msg("request failed")
		return Response{}, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	// Parse the body only when the server says it is JSON; endpoints that
	// return 204 or an empty body must not trip a decode error.
	var data []byte
	if isJSON(resp.Header.Get("Content-Type")) {
		data, err = io.ReadAll(resp.Body)
		if err != nil {
			return Response{}, fmt.Errorf("read response body: %w", err)
		}
	} else {
		_, _ = io.Copy(io.Discard, resp.Body)
	}

	evt := c.logger.Info()
	if resp.StatusCode >= 400 {
		evt = c.logger.Warn()
	}
	evt.
		Str("request_id", rid).
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("request")

	if resp.StatusCode == http.StatusUnauthorized && authed {
		// Hard, global side effect: the session is gone, full stop.
		if err := c.session.Expire(); err != nil {
			c.logger.Error().Err(err).Msg("failed to clear expired session")
		}
		return Response{}, ErrSessionExpired
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Response{}, newError(resp.StatusCode, data)
	}

	return Response{Data: data, Status: resp.StatusCode}, nil
}

func isJSON(contentType string) bool {
	return strings.Contains(contentType, "application/json")
}
