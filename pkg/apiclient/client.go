package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Config holds product API client configuration.
type Config struct {
	BaseURL string        `env:"API_BASE_URL,required"`
	Timeout time.Duration `env:"API_TIMEOUT" envDefault:"15s"`
}

// Client calls the Perimetra product API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures the client during construction.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Used by tests and by
// deployments that need custom transports.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger configures the logger for the client.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New constructs a product API client.
func New(cfg Config, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ExchangeCode trades a provider authorization code for an application access
// token and the user's profile. One call per code: codes are single-use, the
// API rejects a second exchange of the same code.
func (c *Client) ExchangeCode(ctx context.Context, provider, code string) (*ExchangeResult, error) {
	body := struct {
		Code string `json:"code"`
	}{Code: code}

	var result ExchangeResult
	if err := c.do(ctx, http.MethodPost, "/auth/"+provider+"/callback", "", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CurrentUser fetches the profile of the token's owner. The profile endpoint
// uses it to re-validate a restored session's token against the backend.
func (c *Client) CurrentUser(ctx context.Context, accessToken string) (*UserProfile, error) {
	var user UserProfile
	if err := c.do(ctx, http.MethodGet, "/users/me", accessToken, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// AcceptInvite joins the authenticated user to the named workspace.
func (c *Client) AcceptInvite(ctx context.Context, accessToken, workspace string) (*Workspace, error) {
	body := struct {
		Workspace string `json:"workspace"`
	}{Workspace: workspace}

	var ws Workspace
	if err := c.do(ctx, http.MethodPost, "/workspaces/invites/accept", accessToken, body, &ws); err != nil {
		return nil, err
	}
	return &ws, nil
}

// Workspaces lists the workspaces the token's owner belongs to.
func (c *Client) Workspaces(ctx context.Context, accessToken string) ([]Workspace, error) {
	var list []Workspace
	if err := c.do(ctx, http.MethodGet, "/workspaces", accessToken, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) do(ctx context.Context, method, path, accessToken string, in, out any) error {
	var reqBody io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("apiclient: marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("apiclient: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrNetwork, method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Detail: decodeDetail(resp.Body)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("apiclient: decode response: %w", err)
		}
	}
	return nil
}

// decodeDetail extracts the API's {"detail": ...} error body, tolerating
// non-JSON responses from intermediaries.
func decodeDetail(r io.Reader) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(io.LimitReader(r, 64<<10)).Decode(&payload); err != nil {
		return ""
	}
	return payload.Detail
}
