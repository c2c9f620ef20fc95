// pkg/client/client.go
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Routes the navigator is sent to.
const (
	LoginRoute = "/login"
	HomeRoute  = "/"
)

// Navigator is invoked when the client needs to move the user somewhere,
// such as back to the login screen after a token expires.
type Navigator func(route string)

// Client is the single chokepoint for talking to the API. It attaches the
// cached bearer token, unwraps success bodies, normalizes error bodies into
// *APIError, and force-logs-out on a genuine 401. It never retries.
type Client struct {
	baseURL  string
	http     *http.Client
	store    CredentialStore
	navigate Navigator
	logger   *zap.Logger
}

type ClientOption func(*Client)

// WithHTTPClient swaps the underlying transport.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// WithNavigator sets the redirect callback. Defaults to a no-op.
func WithNavigator(nav Navigator) ClientOption {
	return func(c *Client) { c.navigate = nav }
}

// WithLogger sets the client logger. Defaults to a nop logger.
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) { c.logger = logger }
}

func New(baseURL string, store CredentialStore, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: 30 * time.Second},
		store:    store,
		navigate: func(string) {},
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do sends a request with the cached bearer token and decodes a 2xx body
// into out. Pass a nil out to discard the body.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	return c.do(ctx, method, path, "", body, out)
}

// DoWithAuth sends a request with an explicit Authorization value instead of
// the cached token. The dashboard sends conflict tokens raw, without the
// Bearer prefix, and the server accepts both forms.
func (c *Client) DoWithAuth(ctx context.Context, method, path, authorization string, body, out any) error {
	return c.do(ctx, method, path, authorization, body, out)
}

func (c *Client) do(ctx context.Context, method, path, authOverride string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	// The API sits behind an ngrok tunnel in development; without this
	// header ngrok serves an HTML interstitial instead of JSON.
	req.Header.Set("ngrok-skip-browser-warning", "true")

	switch {
	case authOverride != "":
		req.Header.Set("Authorization", authOverride)
	default:
		if token := c.store.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil || len(raw) == 0 {
			return nil
		}
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("failed to decode response body: %w", err)
		}
		return nil
	}

	apiErr := &APIError{StatusCode: resp.StatusCode}
	if err := json.Unmarshal(raw, apiErr); err != nil || apiErr.Code == "" {
		apiErr.Code = "unknown"
		apiErr.Message = fmt.Sprintf("request failed with status %d", resp.StatusCode)
	}

	// A 401 carrying the unauthorized code means the token itself is dead.
	// Drop the stored credentials and send the user back to login. Login
	// failures use a different code so this never fires mid-login.
	if resp.StatusCode == http.StatusUnauthorized && apiErr.Code == CodeUnauthorized {
		if err := c.store.Clear(); err != nil {
			c.logger.Warn("failed to clear credentials", zap.Error(err))
		}
		c.navigate(LoginRoute)
	}

	return apiErr
}
