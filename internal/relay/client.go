// Package relay dispatches sanitized transcripts to the edge-hosted relay
// endpoint or, for local development only, directly to the upstream
// completion API.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"loreal-chat/internal/domain"
)

const (
	// FallbackAnswer replaces the reply when a successful response does not
	// expose choices[0].message.content.
	FallbackAnswer = "Sorry, I could not get an answer."

	defaultDirectURL = "https://api.openai.com/v1/chat/completions"
	directModel      = "gpt-4o-mini"
)

// Payload is the request body for both the relay and the direct endpoint.
type Payload struct {
	Messages []domain.ChatMessage `json:"messages"`
}

// BuildPayload strips every transcript entry down to role and content,
// preserving order. Timestamps and any other metadata never leave the client.
func BuildPayload(transcript []domain.Message) Payload {
	msgs := make([]domain.ChatMessage, 0, len(transcript))
	for _, m := range transcript {
		msgs = append(msgs, domain.ChatMessage{Role: m.Role, Content: m.Content})
	}
	return Payload{Messages: msgs}
}

// ConfigError reports that neither a relay endpoint nor a direct API key is
// configured. It is returned before any network call.
type ConfigError struct{}

func (e *ConfigError) Error() string {
	return "relay: no relay endpoint and no API key configured"
}

// StatusError captures a non-2xx response from the relay or direct endpoint.
type StatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("relay: unexpected status %d from %s: %s", e.StatusCode, e.URL, e.Body)
}

func (e *StatusError) HTTPStatusCode() int {
	return e.StatusCode
}

// directRequest is the dev-only direct path body: the relay payload plus the
// fixed model identifier the relay would otherwise supply.
type directRequest struct {
	Model    string               `json:"model"`
	Messages []domain.ChatMessage `json:"messages"`
}

// chatResponse is the minimal response shape shared by the relay and the
// upstream chat-completions endpoint.
type chatResponse struct {
	Choices []struct {
		Message domain.ChatMessage `json:"message"`
	} `json:"choices"`
}

// Client posts payloads to the configured endpoint.
type Client struct {
	endpoint   string
	apiKey     string
	directURL  string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used for dispatch.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithDirectURL overrides the upstream chat-completions URL used by the
// dev-only direct path.
func WithDirectURL(url string) Option {
	return func(c *Client) {
		c.directURL = strings.TrimSpace(url)
	}
}

// NewClient creates a Client. endpoint is the relay URL; apiKey enables the
// dev-only direct path when no endpoint is configured. Both may be empty, in
// which case Send fails with *ConfigError.
func NewClient(endpoint, apiKey string, opts ...Option) *Client {
	c := &Client{
		endpoint:   strings.TrimSpace(endpoint),
		apiKey:     strings.TrimSpace(apiKey),
		directURL:  defaultDirectURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Direct reports whether Send would take the dev-only direct API path.
// Callers should surface this clearly; it must never be the production path.
func (c *Client) Direct() bool {
	return c.endpoint == "" && c.apiKey != ""
}

// Send posts the payload and returns the reply text. Non-2xx responses fail
// with *StatusError; a successful response lacking the expected field path
// yields FallbackAnswer.
func (c *Client) Send(ctx context.Context, p Payload) (string, error) {
	var (
		url    string
		body   []byte
		bearer string
		err    error
	)
	switch {
	case c.endpoint != "":
		url = c.endpoint
		body, err = json.Marshal(p)
	case c.apiKey != "":
		url = c.directURL
		bearer = c.apiKey
		body, err = json.Marshal(directRequest{Model: directModel, Messages: p.Messages})
	default:
		return "", &ConfigError{}
	}
	if err != nil {
		return "", fmt.Errorf("relay: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("relay: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("relay: request failed: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		buf, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return "", &StatusError{StatusCode: res.StatusCode, URL: url, Body: string(buf)}
	}

	raw, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("relay: read response body: %w", err)
	}

	var payload chatResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		return FallbackAnswer, nil
	}
	if len(payload.Choices) == 0 || payload.Choices[0].Message.Content == "" {
		return FallbackAnswer, nil
	}
	return payload.Choices[0].Message.Content, nil
}
