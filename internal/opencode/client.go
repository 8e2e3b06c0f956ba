package opencode

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

// Client talks to a running opencode server over HTTP.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "http://127.0.0.1:4096"
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 90 * time.Second},
	}
}

// APIError is a structured error payload from the server.
type APIError struct {
	StatusCode int    `json:"-"`
	Name       string `json:"name"`
	Message    string `json:"message"`
	Data       struct {
		ProviderID string `json:"providerID"`
		ModelID    string `json:"modelID"`
	} `json:"data"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("opencode: %s (%s)", e.Message, e.Name)
	}
	if e.Name != "" {
		return fmt.Sprintf("opencode: %s", e.Name)
	}
	return fmt.Sprintf("opencode: status %d", e.StatusCode)
}

// IsModelNotFound reports whether err is the server rejecting the requested
// provider/model pair. Recognized by error name, message substring, or a
// structured payload carrying both a provider and a model.
func IsModelNotFound(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	if strings.Contains(strings.ToLower(apiErr.Name), "modelnotfound") {
		return true
	}
	if strings.Contains(strings.ToLower(apiErr.Message), "modelnotfound") {
		return true
	}
	return apiErr.Data.ProviderID != "" && apiErr.Data.ModelID != ""
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if c.HTTP == nil {
		return errors.New("opencode: http client is nil")
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.Unmarshal(raw, apiErr); err != nil || (apiErr.Name == "" && apiErr.Message == "") {
			msg := strings.TrimSpace(string(raw))
			if msg == "" {
				msg = fmt.Sprintf("status %d", resp.StatusCode)
			}
			apiErr.Message = msg
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Providers fetches the provider catalog for a project directory.
func (c *Client) Providers(ctx context.Context, directory string) (*Catalog, error) {
	path := "/config/providers"
	if directory != "" {
		path += "?directory=" + url.QueryEscape(directory)
	}
	var cat Catalog
	if err := c.do(ctx, http.MethodGet, path, nil, &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

// CreateSession creates a new server-managed session.
func (c *Client) CreateSession(ctx context.Context) (*Session, error) {
	var s Session
	if err := c.do(ctx, http.MethodPost, "/session", struct{}{}, &s); err != nil {
		return nil, err
	}
	if s.ID == "" {
		return nil, errors.New("opencode: create session returned no id")
	}
	return &s, nil
}

// GetSession reads session metadata, including its current title.
func (c *Client) GetSession(ctx context.Context, id string) (*Session, error) {
	var s Session
	if err := c.do(ctx, http.MethodGet, "/session/"+url.PathEscape(id), nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Prompt runs a single prompt turn against a session and returns the
// assistant message.
func (c *Client) Prompt(ctx context.Context, id string, req PromptRequest) (*PromptResponse, error) {
	var resp PromptResponse
	if err := c.do(ctx, http.MethodPost, "/session/"+url.PathEscape(id)+"/message", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteSession removes a session. Callers treat failure as best-effort.
func (c *Client) DeleteSession(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/session/"+url.PathEscape(id), nil, nil)
}

// UpdateTitle sets a session's title.
func (c *Client) UpdateTitle(ctx context.Context, id, title string) error {
	body := struct {
		Title string `json:"title"`
	}{Title: title}
	return c.do(ctx, http.MethodPatch, "/session/"+url.PathEscape(id), body, nil)
}
