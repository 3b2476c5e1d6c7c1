package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is the main Supabase client.
type Client struct {
	config     Config
	httpClient *http.Client

	// Derived values
	baseURL     string
	restURL     string
	authURL     string
	storageURL  string
	realtimeURL string

	// Sub-clients
	auth     *AuthClient
	database *DatabaseClient
	storage  *StorageClient
	realtime *RealtimeClient
}

// New creates a new Supabase client.
func New(cfg Config) (*Client, error) {
	if cfg.ProjectURL == "" {
		return nil, fmt.Errorf("project URL is required")
	}
	if cfg.AnonKey == "" {
		return nil, fmt.Errorf("anon key is required")
	}

	baseURL := strings.TrimRight(cfg.ProjectURL, "/")
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid project URL: %w", err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	wsURL := strings.Replace(baseURL, "https://", "wss://", 1)
	wsURL = strings.Replace(wsURL, "http://", "ws://", 1)

	c := &Client{
		config:      cfg,
		httpClient:  httpClient,
		baseURL:     baseURL,
		restURL:     baseURL + "/rest/v1",
		authURL:     baseURL + "/auth/v1",
		storageURL:  baseURL + "/storage/v1",
		realtimeURL: wsURL + "/realtime/v1",
	}

	c.auth = &AuthClient{client: c}
	c.database = &DatabaseClient{client: c}
	c.storage = &StorageClient{client: c}
	c.realtime = newRealtimeClient(c.realtimeURL, cfg.AnonKey)

	return c, nil
}

// Auth returns the auth client.
func (c *Client) Auth() *AuthClient {
	return c.auth
}

// Database returns the database client.
func (c *Client) Database() *DatabaseClient {
	return c.database
}

// Storage returns the storage client.
func (c *Client) Storage() *StorageClient {
	return c.storage
}

// Realtime returns the realtime client.
func (c *Client) Realtime() *RealtimeClient {
	return c.realtime
}

// =============================================================================
// Internal HTTP Methods
// =============================================================================

// response carries the raw result of one HTTP exchange. Header is kept so
// callers can read pagination metadata (Content-Range).
type response struct {
	Body       []byte
	StatusCode int
	Header     http.Header
}

// request performs an HTTP request authenticated with the anon key.
func (c *Client) request(ctx context.Context, method, urlStr string, body []byte, headers map[string]string) (*response, error) {
	return c.do(ctx, method, urlStr, body, headers, c.config.AnonKey)
}

// requestWithToken performs an HTTP request authenticated with a user's
// access token.
func (c *Client) requestWithToken(ctx context.Context, method, urlStr string, body []byte, headers map[string]string, accessToken string) (*response, error) {
	return c.do(ctx, method, urlStr, body, headers, accessToken)
}

func (c *Client) do(ctx context.Context, method, urlStr string, body []byte, headers map[string]string, bearer string) (*response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, urlStr, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("apikey", c.config.AnonKey)
	req.Header.Set("Authorization", "Bearer "+bearer)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	for k, v := range c.config.DefaultHeaders {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	return &response{
		Body:       respBody,
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
	}, nil
}

// parseError parses an error response body into an *Error.
func parseError(body []byte, statusCode int) error {
	var errResp struct {
		Code             string `json:"code"`
		Message          string `json:"message"`
		Details          string `json:"details"`
		Hint             string `json:"hint"`
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
		Msg              string `json:"msg"`
	}

	if err := json.Unmarshal(body, &errResp); err != nil {
		return &Error{
			Code:       "unknown",
			Message:    strings.TrimSpace(string(body)),
			StatusCode: statusCode,
		}
	}

	msg := errResp.Message
	if msg == "" {
		msg = errResp.Msg
	}
	if msg == "" {
		msg = errResp.Error
	}
	if msg == "" {
		msg = errResp.ErrorDescription
	}

	return &Error{
		Code:       errResp.Code,
		Message:    msg,
		Details:    errResp.Details,
		Hint:       errResp.Hint,
		StatusCode: statusCode,
	}
}
