package mocklinesdk

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

// Client is a minimal Mockline HTTP API client.
type Client struct {
	BaseURL     string
	BasePath    string
	APIKey      string
	BearerToken string
	HTTPClient  *http.Client
	Timeout     time.Duration
}

// New creates a client with sane defaults. baseURL is the server root,
// for example http://127.0.0.1:8080.
func New(baseURL string) *Client {
	return &Client{
		BaseURL:  baseURL,
		BasePath: "/api",
		Timeout:  10 * time.Second,
	}
}

// Mock is a stored mock definition as returned by the management API.
type Mock struct {
	ID         string `json:"id"`
	MockID     string `json:"mockId"`
	OwnerID    string `json:"ownerId"`
	Endpoint   string `json:"endpoint"`
	Method     string `json:"method"`
	StatusCode int    `json:"statusCode"`
	Delay      int    `json:"delay"`
	ChaosMode  bool   `json:"chaosMode"`
	ChaosLevel int    `json:"chaosLevel"`
	Template   string `json:"template"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`
}

// MockInput holds the writable mock fields. Nil fields are omitted, so an
// update only changes what is set. Template may be JSON text or any value
// that marshals to JSON.
type MockInput struct {
	Endpoint   *string `json:"endpoint,omitempty"`
	Method     *string `json:"method,omitempty"`
	StatusCode *int    `json:"statusCode,omitempty"`
	Delay      *int    `json:"delay,omitempty"`
	ChaosMode  *bool   `json:"chaosMode,omitempty"`
	ChaosLevel *int    `json:"chaosLevel,omitempty"`
	Template   any     `json:"template,omitempty"`
}

// Created is the result of CreateMock. Response is one materialization of
// the template, kept raw so key order is preserved.
type Created struct {
	MockID   string          `json:"mockId"`
	ID       string          `json:"id"`
	Response json.RawMessage `json:"response"`
}

// Settings are the caller's defaults for new mocks.
type Settings struct {
	APIBaseURL      string `json:"apiBaseUrl"`
	EnableChaosMode bool   `json:"enableChaosMode"`
	ChaosLevel      int    `json:"chaosLevel"`
	UpdatedAt       string `json:"updatedAt,omitempty"`
}

// SettingsInput holds the settings fields to change.
type SettingsInput struct {
	APIBaseURL      *string `json:"apiBaseUrl,omitempty"`
	EnableChaosMode *bool   `json:"enableChaosMode,omitempty"`
	ChaosLevel      *int    `json:"chaosLevel,omitempty"`
}

// Served is one response from the serving endpoint. Chaos may turn any
// request into an error status, so non-2xx statuses are not errors here.
type Served struct {
	StatusCode int
	Body       json.RawMessage
}

// APIError wraps non-2xx responses from the management API.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error: status=%d code=%s message=%s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("api error: status=%d body=%s", e.StatusCode, e.Body)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// CreateMock stores a new mock.
func (c *Client) CreateMock(ctx context.Context, in MockInput) (Created, error) {
	var resp Created
	err := c.do(ctx, http.MethodPost, "mock", in, &resp)
	return resp, err
}

// ListMocks returns the caller's mocks, newest first.
func (c *Client) ListMocks(ctx context.Context) ([]Mock, error) {
	var resp struct {
		MockAPIs []Mock `json:"mockApis"`
	}
	err := c.do(ctx, http.MethodGet, "mock/manage", nil, &resp)
	return resp.MockAPIs, err
}

// GetMock fetches one of the caller's mocks by id.
func (c *Client) GetMock(ctx context.Context, id string) (Mock, error) {
	var resp struct {
		MockAPI Mock `json:"mockApi"`
	}
	err := c.do(ctx, http.MethodGet, "mock/manage/"+url.PathEscape(id), nil, &resp)
	return resp.MockAPI, err
}

// UpdateMock changes the fields set in in.
func (c *Client) UpdateMock(ctx context.Context, id string, in MockInput) (Mock, error) {
	var resp struct {
		MockAPI Mock `json:"mockApi"`
	}
	err := c.do(ctx, http.MethodPut, "mock/manage/"+url.PathEscape(id), in, &resp)
	return resp.MockAPI, err
}

// DeleteMock removes a mock.
func (c *Client) DeleteMock(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "mock/manage/"+url.PathEscape(id), nil, nil)
}

// Preview materializes a template without storing it.
func (c *Client) Preview(ctx context.Context, template any) (json.RawMessage, error) {
	var resp struct {
		Response json.RawMessage `json:"response"`
	}
	err := c.do(ctx, http.MethodPost, "mock/preview", map[string]any{"template": template}, &resp)
	return resp.Response, err
}

// GetSettings returns the caller's settings.
func (c *Client) GetSettings(ctx context.Context) (Settings, error) {
	var resp Settings
	err := c.do(ctx, http.MethodGet, "settings", nil, &resp)
	return resp, err
}

// SaveSettings merges in into the caller's settings.
func (c *Client) SaveSettings(ctx context.Context, in SettingsInput) (Settings, error) {
	var resp Settings
	err := c.do(ctx, http.MethodPut, "settings", in, &resp)
	return resp, err
}

// Serve requests the public serving endpoint of a mock. Only transport
// failures are returned as errors.
func (c *Client) Serve(ctx context.Context, mockID string) (Served, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("mock/"+url.PathEscape(mockID)), nil)
	if err != nil {
		return Served{}, err
	}
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return Served{}, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Served{}, err
	}
	return Served{StatusCode: resp.StatusCode, Body: body}, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(endpoint), &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	switch {
	case c.BearerToken != "":
		req.Header.Set("Authorization", "Bearer "+c.BearerToken)
	case c.APIKey != "":
		req.Header.Set("X-Api-Key", c.APIKey)
	}
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: string(b)}
		var envelope struct {
			Error struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.Unmarshal(b, &envelope) == nil {
			apiErr.Code = envelope.Error.Code
			apiErr.Message = envelope.Error.Message
		}
		return apiErr
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	return c.HTTPClient
}

func (c *Client) endpoint(p string) string {
	basePath := c.BasePath
	if basePath == "" {
		basePath = "/api"
	}
	return strings.TrimRight(c.BaseURL, "/") + "/" + strings.Trim(basePath, "/") + "/" + strings.TrimLeft(p, "/")
}
