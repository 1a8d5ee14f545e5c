// Package client is the single HTTP transport the terminal client uses to talk to the
// rating API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
)

const (
	maxResponseBytes = 4 << 20
	requestIDHeader  = "X-Request-ID"
)

var (
	// ErrUnauthorized matches (errors.Is) any APIError carrying a 401
	ErrUnauthorized = errors.New("unauthorized")
	// ErrBadResponse wraps a 2xx body that could not be decoded
	ErrBadResponse = errors.New("unexpected response")
)

// APIError is a non-2xx answer from the API
type APIError struct {
	StatusCode int
	Message    string
	Method     string
	Path       string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s %s failed (status %d)", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("%s %s failed (status %d): %s", e.Method, e.Path, e.StatusCode, e.Message)
}

func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.StatusCode == http.StatusUnauthorized
}

// TokenSource yields the current bearer token, "" when logged out
type TokenSource interface {
	Token() string
}

// UnauthorizedHandler is called synchronously, before the error is returned to the
// caller, whenever a request that carried a bearer token comes back 401.
type UnauthorizedHandler func(method, path string)

// Client represents an HTTP client for the rating API
type Client struct {
	baseURL        string
	httpClient     *http.Client
	tokens         TokenSource
	onUnauthorized UnauthorizedHandler
	logger         zerolog.Logger

	Auth       *AuthAPI
	Stores     *StoresAPI
	Ratings    *RatingsAPI
	Admin      *AdminAPI
	StoreOwner *StoreOwnerAPI
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithLogger sets the request logger
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithUnauthorizedHandler installs the session-expiry side channel
func WithUnauthorizedHandler(h UnauthorizedHandler) Option {
	return func(c *Client) { c.onUnauthorized = h }
}

// New creates a new API client. tokens may be nil for an anonymous client.
func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{}, // transport defaults, no client-side timeout
		tokens:     tokens,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.Auth = &AuthAPI{c: c}
	c.Stores = &StoresAPI{c: c}
	c.Ratings = &RatingsAPI{c: c}
	c.Admin = &AdminAPI{c: c}
	c.StoreOwner = &StoreOwnerAPI{c: c}
	return c
}

// SetHTTPClient sets a custom HTTP client
func (c *Client) SetHTTPClient(httpClient *http.Client) {
	c.httpClient = httpClient
}

// BaseURL returns the API root the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// envelope is the API's standard response wrapper
type envelope struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

// Do sends one request. body is JSON-encoded when non-nil; the envelope's data (or
// the whole body when there is no envelope) is decoded into out when non-nil.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonData)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	requestID := ulid.Make().String()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	token := ""
	if c.tokens != nil {
		token = c.tokens.Token()
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	log := c.logger.With().
		Str("request_id", requestID).
		Str("method", method).
		Str("path", path).
		Logger()

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Debug().Err(err).Msg("Request failed")
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	log.Debug().
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("API request")

	// A 401 without a bearer token is a failed login, not an expired session.
	if resp.StatusCode == http.StatusUnauthorized && token != "" {
		log.Warn().Msg("Session rejected by API")
		if c.onUnauthorized != nil {
			c.onUnauthorized(method, path)
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(raw, resp.StatusCode),
			Method:     method,
			Path:       path,
		}
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Success != nil && !*env.Success {
		msg := env.Message
		if msg == "" {
			msg = env.Error
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg, Method: method, Path: path}
	}

	if out == nil {
		return nil
	}

	payload := raw
	if len(env.Data) > 0 && string(env.Data) != "null" {
		payload = env.Data
	}
	if err := json.Unmarshal(payload, out); err != nil {
		log.Debug().Err(err).Msg("Undecodable response")
		return fmt.Errorf("%w from %s %s: %w", ErrBadResponse, method, path, err)
	}
	return nil
}

// errorMessage pulls a human message out of an error body
func errorMessage(raw []byte, status int) string {
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil {
		if env.Message != "" {
			return env.Message
		}
		if env.Error != "" {
			return env.Error
		}
	}
	if text := strings.TrimSpace(string(raw)); text != "" && len(text) <= 200 && !strings.HasPrefix(text, "<") {
		return text
	}
	return http.StatusText(status)
}

// Message extracts what a screen should show for err
func Message(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	if errors.Is(err, ErrBadResponse) {
		return "Unexpected response from server. Please try again later."
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return "Unable to reach the server. Please check your connection and try again."
	}
	if apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

func pathID(id string) string {
	return url.PathEscape(id)
}
