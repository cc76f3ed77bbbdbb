package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"authform/internal/models"
)

const (
	LoginPath    = "/user/login"
	RegisterPath = "/user/register"
	MePath       = "/user/me"
)

// Client talks to the remote authentication API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for baseURL. A zero timeout means 15s
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// NewClientWithHTTP uses an existing http.Client, e.g. one from httptest
func NewClientWithHTTP(baseURL string, hc *http.Client) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: hc}
}

// BaseURL returns the API root without a trailing slash
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Login posts credentials to /user/login
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	return doJSON[models.AuthResponse](ctx, c, http.MethodPost, LoginPath, req, "")
}

// Register posts a new account to /user/register
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	return doJSON[models.AuthResponse](ctx, c, http.MethodPost, RegisterPath, req, "")
}

// Me resolves the account behind token
func (c *Client) Me(ctx context.Context, token string) (*models.MeResponse, error) {
	return doJSON[models.MeResponse](ctx, c, http.MethodGet, MePath, nil, token)
}

func doJSON[R any](ctx context.Context, c *Client, method, path string, payload any, token string) (*R, error) {
	op := method + " " + path

	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
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

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newServerError(resp.StatusCode, raw)
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, &TransportError{Op: op, Err: ErrEmptyResponse}
	}

	var out R
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return &out, nil
}

func newServerError(status int, raw []byte) *ServerError {
	se := &ServerError{StatusCode: status}
	var body models.ErrorResponse
	if err := json.Unmarshal(raw, &body); err == nil {
		se.Message = strings.TrimSpace(body.Message)
	}
	return se
}
