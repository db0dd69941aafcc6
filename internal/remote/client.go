// Package remote registers training chat sessions with the SalesTwin backend.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// DefaultBaseURL is the production backend origin.
const DefaultBaseURL = "https://salestwin-d8fcabg7bedte0ah.polandcentral-01.azurewebsites.net"

const chatSessionsPath = "/chat-sessions"

// ChatSessionPayload is the registration request body.
type ChatSessionPayload struct {
	UserID             string   `json:"userId"`
	Title              string   `json:"title"`
	Difficulty         string   `json:"difficulty"`
	IsOwnConfiguration bool     `json:"isOwnConfiguration"`
	ClientDescription  string   `json:"clientDescription"`
	Constraints        []string `json:"constraints"`
	Goal               string   `json:"goal"`
	ProductDescription string   `json:"productDescription"`
	SalesPlaybook      string   `json:"salesPlaybook"`
}

// APIError is returned for every failed registration. Status is zero when
// the request never produced an HTTP response.
type APIError struct {
	Message string
	Status  int
	Body    json.RawMessage
	Err     error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// HasStatus returns true if the backend answered with an HTTP status.
func (e *APIError) HasStatus() bool {
	return e.Status != 0
}

// Registrar creates chat sessions on the backend.
type Registrar interface {
	CreateChatSession(ctx context.Context, payload ChatSessionPayload) (json.RawMessage, error)
}

// Client talks to the backend over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a backend client. An empty baseURL selects DefaultBaseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ Registrar = (*Client)(nil)

// CreateChatSession issues one POST and returns the response body verbatim.
// There is no retry; the caller decides whether a failure matters.
func (c *Client) CreateChatSession(ctx context.Context, payload ChatSessionPayload) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal chat session payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+chatSessionsPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build chat session request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, networkError(err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Debug("failed to close chat session response body", "error", closeErr)
		}
	}()

	data, readErr := io.ReadAll(resp.Body)

	// A non-2xx status wins over a broken body; the body degrades to {}.
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if readErr != nil {
			c.logger.Debug("failed to read chat session error body", "status", resp.StatusCode, "error", readErr)
		}
		return nil, &APIError{
			Message: "failed to create chat session: " + statusText(resp),
			Status:  resp.StatusCode,
			Body:    errorBody(data),
		}
	}
	if readErr != nil {
		return nil, networkError(readErr)
	}

	if !json.Valid(data) {
		return nil, networkError(errors.New("invalid JSON in response body"))
	}

	c.logger.Info("Chat session registered", "status", resp.StatusCode, "bytes", len(data))
	return json.RawMessage(data), nil
}

func networkError(err error) *APIError {
	return &APIError{Message: "network error: " + err.Error(), Err: err}
}

// errorBody keeps a JSON error body and falls back to an empty object.
func errorBody(data []byte) json.RawMessage {
	if len(bytes.TrimSpace(data)) > 0 && json.Valid(data) {
		return json.RawMessage(data)
	}
	return json.RawMessage(`{}`)
}

// statusText returns the reason phrase, e.g. "Internal Server Error".
func statusText(resp *http.Response) string {
	if _, text, ok := strings.Cut(resp.Status, " "); ok && text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}
