// Package api is the thin REST layer over the dental practice backend.
// Methods marshal a typed request, send it with the caller's context and the
// current bearer token, and decode the typed response; they add no caching,
// no retries, and no client-side state.
package api

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

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dentalstack/practicekit/pkg/logging"
)

const defaultTimeout = 15 * time.Second

// ErrAuthExpired reports a 401 from the backend: the stored token is missing,
// invalid, or expired and the user must log in again.
var ErrAuthExpired = errors.New("authentication expired")

// Error is a backend-reported failure, carrying the HTTP status it arrived on
// and the message shown to the user (the backend's "error" field when
// present, otherwise a per-operation fallback).
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

// ValidationError is a client-side precondition failure. No request was sent.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// TokenSource supplies the bearer token attached to authenticated requests.
// The session store implements it; requests with an empty token go out
// without an Authorization header (the backend answers 401).
type TokenSource interface {
	Token() string
}

// StaticToken is a fixed TokenSource, mainly for tests.
type StaticToken string

func (s StaticToken) Token() string { return string(s) }

// Client talks to the dental practice REST backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	logger     *logging.Logger
	tracer     trace.Tracer
}

// Config configures a Client.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Tokens  TokenSource
	Logger  *logging.Logger
}

// New creates a backend client.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("api: BaseURL is required")
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		tokens:     cfg.Tokens,
		logger:     logger.Component("api"),
		tracer:     otel.Tracer("practicekit/api"),
	}, nil
}

// do runs one request/response cycle: marshal, send with bearer auth, check
// status, decode. fallback is the user-facing message when the backend gives
// no "error" field.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload, out any, fallback string) error {
	ctx, span := c.tracer.Start(ctx, method+" "+path)
	defer span.End()

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("api: marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("api: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	authed := false
	if c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
			authed = true
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport failure")
		return fmt.Errorf("api: %s: %w", fallback, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("api: read response: %w", err)
	}

	// A 401 on a request that carried a token means the session died; a 401
	// on login/register is just a rejected credential.
	if resp.StatusCode == http.StatusUnauthorized && authed {
		span.SetStatus(codes.Error, "unauthorized")
		c.logger.Warn("request unauthorized", "method", method, "path", path)
		return fmt.Errorf("%s: %w", backendMessage(raw, fallback), ErrAuthExpired)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
		return &Error{Status: resp.StatusCode, Message: backendMessage(raw, fallback)}
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("api: decode response: %w", err)
		}
	}
	return nil
}

// backendMessage extracts the backend's {"error": "..."} envelope.
func backendMessage(raw []byte, fallback string) string {
	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error != "" {
		return envelope.Error
	}
	return fallback
}
