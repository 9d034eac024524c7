// Package openai posts chat-completions requests on behalf of the relay
// forwarder. The forwarder owns the upstream credential; widget clients never
// see it. The upstream response body travels back verbatim.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"loreal-chat/internal/domain"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"

	// forwardModel is the fixed model identifier for every forwarded
	// request; the widget cannot choose a model.
	forwardModel = "gpt-4o-mini"

	// maxResponseTokens caps the upstream response size.
	maxResponseTokens = 300
)

// chatRequest is the minimal request shape for the Chat Completions endpoint.
type chatRequest struct {
	Model     string               `json:"model"`
	Messages  []domain.ChatMessage `json:"messages"`
	MaxTokens int                  `json:"max_tokens"`
}

// SecretGetter resolves the upstream credential.
type SecretGetter interface {
	GetJSONSecret(ctx context.Context, name string) (string, error)
}

// CredentialError reports that the upstream credential could not be
// resolved. The forwarder maps it to a server-side configuration failure.
type CredentialError struct {
	Err error
}

func (e *CredentialError) Error() string {
	return fmt.Sprintf("openai: upstream credential unavailable: %v", e.Err)
}

func (e *CredentialError) Unwrap() error {
	return e.Err
}

// Client is the forwarder's upstream chat-completions client.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	getter      SecretGetter
	paramPrefix string

	keyOnce sync.Once
	apiKey  string
	keyErr  error
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSpace(baseURL)
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a Client backed by the given SecretGetter for credential
// retrieval. The credential is fetched on the first Forward call and reused
// for the lifetime of the process.
func NewClient(ps SecretGetter, paramPrefix string, opts ...Option) (*Client, error) {
	if ps == nil {
		return nil, errors.New("openai: secret getter must not be nil")
	}
	paramPrefix = strings.TrimRight(strings.TrimSpace(paramPrefix), "/")
	if paramPrefix == "" {
		return nil, errors.New("openai: parameter prefix must not be empty")
	}
	c := &Client{
		baseURL:     defaultBaseURL,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		getter:      ps,
		paramPrefix: paramPrefix,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// resolveAPIKey fetches the credential from the param store on the first
// call and returns the cached result on every subsequent call.
func (c *Client) resolveAPIKey(ctx context.Context) (string, error) {
	c.keyOnce.Do(func() {
		c.apiKey, c.keyErr = c.getter.GetJSONSecret(ctx, c.tokenParameterName())
	})
	return c.apiKey, c.keyErr
}

func (c *Client) tokenParameterName() string {
	return c.paramPrefix + "/open-ai-token"
}

// resolvedHTTPClient returns the configured HTTP client, or a default with a
// 30s timeout if none was set (e.g. in tests that nil out the field).
func (c *Client) resolvedHTTPClient() *http.Client {
	if c.httpClient != nil {
		return c.httpClient
	}
	return &http.Client{Timeout: 30 * time.Second}
}

func chatURL(baseURL string) string {
	base := strings.TrimRight(baseURL, "/")
	if base == "" {
		base = defaultBaseURL
	}
	if strings.HasSuffix(base, "/v1") {
		return base + "/chat/completions"
	}
	return base + "/v1/chat/completions"
}

// Forward posts the widget's messages upstream with the fixed model and
// response cap, returning the upstream status code and raw JSON body
// verbatim. Upstream error statuses are data, not errors: the widget's relay
// client interprets them. Errors are reserved for credential resolution
// (*CredentialError) and transport failures.
func (c *Client) Forward(ctx context.Context, messages []domain.ChatMessage) (int, []byte, error) {
	if len(messages) == 0 {
		return 0, nil, errors.New("openai: messages must not be empty")
	}

	apiKey, err := c.resolveAPIKey(ctx)
	if err != nil {
		return 0, nil, &CredentialError{Err: err}
	}

	body, err := json.Marshal(chatRequest{
		Model:     forwardModel,
		Messages:  messages,
		MaxTokens: maxResponseTokens,
	})
	if err != nil {
		return 0, nil, fmt.Errorf("openai: marshal request: %w", err)
	}

	url := chatURL(c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, nil, fmt.Errorf("openai: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	res, err := c.resolvedHTTPClient().Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("openai: request failed: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return 0, nil, fmt.Errorf("openai: read response body: %w", err)
	}
	return res.StatusCode, raw, nil
}
