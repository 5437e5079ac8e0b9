// Package adminclient is the Go client for the hospital-network admin API.
// Every endpoint is wrapped in a typed method, the {"success","data"} wire
// envelope is unwrapped transparently, and list responses are cached by
// structural query state so repeating an equal query costs no request.
package adminclient

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
)

const defaultTimeout = 30 * time.Second

// TokenProvider supplies the bearer token attached to every request. It is
// consulted per call, so a provider backed by a refreshing session always
// hands out the current token.
type TokenProvider interface {
	AccessToken(ctx context.Context) (string, error)
}

// StaticToken adapts a fixed token string to TokenProvider.
type StaticToken string

func (t StaticToken) AccessToken(context.Context) (string, error) { return string(t), nil }

// Config carries the client construction options. BaseURL is required;
// everything else has a usable default.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	Tokens     TokenProvider

	// OnUnauthorized runs after any 401 response, before the error is
	// returned, so the caller can refresh the session or log the user out.
	OnUnauthorized func()

	UserAgent string
}

// Client talks to one admin API deployment. Access the endpoints through the
// per-resource service fields.
type Client struct {
	base           *url.URL
	hc             *http.Client
	tokens         TokenProvider
	onUnauthorized func()
	userAgent      string
	cache          *listCache

	Auth         *AuthService
	Hospitals    *HospitalsService
	Users        *UsersService
	Doctors      *DoctorsService
	Appointments *AppointmentsService
	Dashboard    *DashboardService
}

// New builds a client from the config.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("adminclient: BaseURL is required")
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("adminclient: parse base url: %w", err)
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: defaultTimeout}
	}
	c := &Client{
		base:           base,
		hc:             hc,
		tokens:         cfg.Tokens,
		onUnauthorized: cfg.OnUnauthorized,
		userAgent:      cfg.UserAgent,
		cache:          newListCache(),
	}
	c.Auth = &AuthService{c: c}
	c.Hospitals = &HospitalsService{c: c}
	c.Users = &UsersService{c: c}
	c.Doctors = &DoctorsService{c: c}
	c.Appointments = &AppointmentsService{c: c}
	c.Dashboard = &DashboardService{c: c}
	return c, nil
}

// ResetListCache drops every cached list response, across all resources.
func (c *Client) ResetListCache() {
	c.cache.reset()
}

// FieldError is one per-field validation failure from a 422 response.
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// APIError is any failure envelope returned by the server.
type APIError struct {
	StatusCode int
	Message    string
	Errors     []FieldError
}

func (e *APIError) Error() string {
	if len(e.Errors) > 0 {
		return fmt.Sprintf("adminclient: %d %s (%d field errors)", e.StatusCode, e.Message, len(e.Errors))
	}
	return fmt.Sprintf("adminclient: %d %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.StatusCode == http.StatusNotFound
}

// IsValidation reports whether err is a 422 carrying field errors.
func IsValidation(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.StatusCode == http.StatusUnprocessableEntity
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Errors  []FieldError    `json:"errors"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("adminclient: encode request: %w", err)
		}
		rd = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), rd)
	if err != nil {
		return fmt.Errorf("adminclient: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.tokens != nil {
		tok, err := c.tokens.AccessToken(ctx)
		if err != nil {
			return fmt.Errorf("adminclient: access token: %w", err)
		}
		if tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	res, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("adminclient: %s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("adminclient: read response: %w", err)
	}

	if res.StatusCode == http.StatusUnauthorized && c.onUnauthorized != nil {
		c.onUnauthorized()
	}

	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			return &APIError{StatusCode: res.StatusCode, Message: http.StatusText(res.StatusCode)}
		}
	}
	if res.StatusCode >= 400 || !env.Success {
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(res.StatusCode)
		}
		return &APIError{StatusCode: res.StatusCode, Message: msg, Errors: env.Errors}
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("adminclient: decode response: %w", err)
		}
	}
	return nil
}
