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

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

const (
	loginPath    = "/api/auth/login"
	maxErrorBody = 512
)

// Config holds backend client configuration
type Config struct {
	ServerURL string
	Timeout   time.Duration

	// CacheDir enables the on-disk HTTP cache. Empty keeps it in memory.
	CacheDir string

	MaxRetries    uint
	RetryInterval time.Duration

	// Transport replaces the default transport stack; used by tests.
	Transport http.RoundTripper
}

// DefaultConfig returns a default client configuration
func DefaultConfig() Config {
	return Config{
		ServerURL:     "http://localhost:8080",
		Timeout:       5 * time.Second,
		MaxRetries:    3,
		RetryInterval: 200 * time.Millisecond,
	}
}

// LoginResult is the body of a successful login.
type LoginResult struct {
	Token       string   `json:"token"`
	Permissions []string `json:"permissoesModulos"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"senha"`
}

// Client talks to the back-office REST backend.
type Client struct {
	baseURL *url.URL
	cfg     Config
	anon    *http.Client
	authed  *http.Client
}

// New creates a client. tokens supplies the bearer token for authenticated
// calls and may be nil when only Login is used.
func New(cfg Config, tokens oauth2.TokenSource, log zerolog.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimSuffix(cfg.ServerURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid server URL %q: scheme and host required", cfg.ServerURL)
	}

	transport := cfg.Transport
	if transport == nil {
		transport = NewTransport(log, cfg.CacheDir)
	}

	c := &Client{
		baseURL: base,
		cfg:     cfg,
		anon:    &http.Client{Transport: transport, Timeout: cfg.Timeout},
	}

	if tokens != nil {
		c.authed = &http.Client{
			Transport: &oauth2.Transport{Source: tokens, Base: transport},
			Timeout:   cfg.Timeout,
		}
	}

	return c, nil
}

// Login exchanges credentials for a token and the tenant's active modules.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	body, err := json.Marshal(loginRequest{Email: email, Password: password})
	if err != nil {
		return nil, fmt.Errorf("failed to encode login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(loginPath), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.anon.Do(req)
	if err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := checkResponse(resp); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read login response: %w", err)
	}

	var result LoginResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidLoginResponse, err)
	}

	if result.Token == "" {
		return nil, fmt.Errorf("%w: missing token", ErrInvalidLoginResponse)
	}
	if result.Permissions == nil {
		return nil, fmt.Errorf("%w: missing permissoesModulos", ErrInvalidLoginResponse)
	}

	return &result, nil
}

// GetJSON performs an authenticated GET of path and decodes the body into
// out. Network errors and 5xx responses are retried with exponential
// backoff; other failures are returned immediately.
func (c *Client) GetJSON(ctx context.Context, path string, out any) error {
	if c.authed == nil {
		return ErrUnauthorized
	}

	bo := backoff.NewExponentialBackOff()
	if c.cfg.RetryInterval > 0 {
		bo.InitialInterval = c.cfg.RetryInterval
	}

	tries := c.cfg.MaxRetries + 1

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		err := c.getOnce(ctx, path, out)
		if err == nil {
			return struct{}{}, nil
		}

		var apiErr *APIError
		switch {
		case errors.Is(err, ErrUnauthorized):
			return struct{}{}, backoff.Permanent(err)
		case errors.As(err, &apiErr) && !apiErr.Temporary():
			return struct{}{}, backoff.Permanent(err)
		case errors.Is(err, errDecode):
			return struct{}{}, backoff.Permanent(err)
		}

		zerolog.Ctx(ctx).Debug().Err(err).Str("path", path).Msg("retrying backend call")
		return struct{}{}, err
	}, backoff.WithBackOff(bo), backoff.WithMaxTries(tries))

	return err
}

var errDecode = errors.New("failed to decode response")

func (c *Client) getOnce(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(path), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.authed.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkResponse(resp); err != nil {
		return err
	}

	// read to EOF so the cache layer stores the body
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %w", errDecode, err)
	}
	return nil
}

func (c *Client) url(path string) string {
	return c.baseURL.String() + "/" + strings.TrimPrefix(path, "/")
}

func checkResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	return &APIError{
		Method:     resp.Request.Method,
		Path:       resp.Request.URL.Path,
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(body)),
	}
}
