// Package api implements the JSON HTTP client for the worksite backend.
// Every failure it returns is a classified *Error; callers never see a
// raw transport or decoding error.
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

	"github.com/pinhsin/worksite/internal/models"
)

const (
	localBaseURL      = "http://localhost:3000/api"
	productionBaseURL = "https://pinhsin-backend.onrender.com/api"

	defaultTimeout = 30 * time.Second
)

// ResolveBaseURL maps the hostname the app is served from to the backend
// base URL: loopback names resolve to the local development backend,
// everything else to production.
func ResolveBaseURL(hostname string) string {
	switch hostname {
	case "localhost", "127.0.0.1", "::1":
		return localBaseURL
	}
	return productionBaseURL
}

// TokenSource supplies the current bearer token, or "" when the
// session holds none.
type TokenSource interface {
	Token() string
}

// Client performs JSON requests against the backend API.
type Client struct {
	baseURL string
	httpc   *http.Client
	tokens  TokenSource
}

// NewClient creates a Client for the given base URL ("…/api"). tokens
// may be nil for a client that never authenticates.
func NewClient(baseURL string, tokens TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: defaultTimeout},
		tokens:  tokens,
	}
}

// BaseURL returns the resolved API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// HealthURL returns the health endpoint, which lives next to the API
// root rather than under it.
func (c *Client) HealthURL() string {
	return strings.TrimSuffix(c.baseURL, "/api") + "/health"
}

// envelope mirrors models.Envelope but defers payload decoding.
type envelope struct {
	Success bool              `json:"success"`
	Data    json.RawMessage   `json:"data"`
	Error   *models.ErrorBody `json:"error"`
}

// Do performs one JSON request. body, when non-nil, is marshaled as the
// request payload; out, when non-nil, receives the envelope's data field.
// All failures are reported as *Error.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var payload io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return transportError(CodeNetworkError, "failed to encode request", err.Error())
		}
		payload = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return transportError(CodeNetworkError, "failed to build request", err.Error())
	}
	req.Header.Set("Content-Type", "application/json")
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return transportError(CodeNetworkError, "network connection error", err.Error())
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportError(CodeNetworkError, "failed to read response", err.Error())
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		// Malformed JSON is a contract violation, not something to
		// repair client-side. Status 0 keeps it network-classified.
		return transportError(CodeParseError,
			fmt.Sprintf("malformed response body (HTTP %d)", resp.StatusCode), err.Error())
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if env.Error != nil {
			return newError(env.Error, resp.StatusCode)
		}
		return &Error{
			Message:    fmt.Sprintf("HTTP %d %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
			StatusCode: resp.StatusCode,
			Timestamp:  time.Now(),
		}
	}

	// HTTP 200 without success:true is still a failure.
	if !env.Success {
		if env.Error != nil {
			return newError(env.Error, resp.StatusCode)
		}
		return &Error{
			Message:    "server reported failure without an error body",
			StatusCode: resp.StatusCode,
			Timestamp:  time.Now(),
		}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return transportError(CodeParseError, "malformed response payload", err.Error())
		}
	}
	return nil
}

// Get performs a GET request against the API.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Post performs a POST request against the API.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

// Put performs a PUT request against the API.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

// Delete performs a DELETE request against the API.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil)
}

// Login exchanges credentials for a token and profile.
func (c *Client) Login(ctx context.Context, username, password string) (*models.LoginResult, error) {
	body := map[string]string{"username": username, "password": password}
	var result models.LoginResult
	if err := c.Post(ctx, "/auth/login", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CurrentUser fetches the profile of the token's owner.
func (c *Client) CurrentUser(ctx context.Context) (*models.Profile, error) {
	var profile models.Profile
	if err := c.Get(ctx, "/auth/me", &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// CrossChannelAuth exchanges a LIFF-issued identity for a worksite token.
func (c *Client) CrossChannelAuth(ctx context.Context, liffUserID, liffAccessToken string) (*models.CrossChannelResult, error) {
	body := map[string]string{
		"liffUserId":      liffUserID,
		"liffAccessToken": liffAccessToken,
		"channelType":     "liff",
	}
	var result models.CrossChannelResult
	if err := c.Post(ctx, "/line/cross-channel-auth", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
