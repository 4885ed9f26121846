// Package openai implements the generation backend against an
// OpenAI-compatible chat-completions API.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/julianshen/docwriter/internal/provider"
)

func init() {
	provider.Register("openai", func(baseURL, apiKey string) provider.Generator {
		return New(baseURL, apiKey)
	})
}

const (
	defaultConnectTimeout = 5 * time.Second
	defaultRequestTimeout = 30 * time.Second

	// The backend is known to intermittently hang; one extra attempt
	// recovers most transient stalls without unbounded blocking.
	defaultMaxAttempts = 2
)

// Client talks to an OpenAI-compatible chat-completions endpoint.
type Client struct {
	baseURL        string
	apiKey         string
	httpClient     *http.Client
	requestTimeout time.Duration
	maxAttempts    int
}

// Option adjusts client behavior. Used by tests to shrink timeouts.
type Option func(*Client)

// WithRequestTimeout overrides the per-attempt request timeout.
func WithRequestTimeout(d time.Duration) Option {
	return func(c *Client) { c.requestTimeout = d }
}

// WithMaxAttempts overrides the attempt ceiling for timeout retries.
func WithMaxAttempts(n int) Option {
	return func(c *Client) { c.maxAttempts = n }
}

// New creates a client with a short connect timeout and a longer overall
// request timeout.
func New(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{Timeout: defaultConnectTimeout}).DialContext,
			},
		},
		requestTimeout: defaultRequestTimeout,
		maxAttempts:    defaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// apiRequest is the request body sent to the API.
type apiRequest struct {
	Model            string             `json:"model"`
	Messages         []provider.Message `json:"messages"`
	Temperature      float64            `json:"temperature"`
	MaxTokens        int                `json:"max_tokens"`
	TopP             float64            `json:"top_p"`
	FrequencyPenalty float64            `json:"frequency_penalty"`
	PresencePenalty  float64            `json:"presence_penalty"`
	Stop             []string           `json:"stop,omitempty"`
}

type apiResponse struct {
	Error   *apiError   `json:"error"`
	Choices []apiChoice `json:"choices"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

type apiChoice struct {
	Message apiMessage `json:"message"`
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Generate sends the completion request and returns the first choice's
// content. Timeout-class transport failures are retried up to the attempt
// ceiling; an error payload in the response is a hard failure and is not
// retried, since the request itself is the problem.
func (c *Client) Generate(ctx context.Context, req provider.CompletionRequest) (string, error) {
	body, err := json.Marshal(apiRequest{
		Model:       req.Model,
		Messages:    req.Messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		TopP:        req.TopP,
		Stop:        req.Stop,
	})
	if err != nil {
		return "", fmt.Errorf("building request body: %w", err)
	}

	var respBody []byte
	attempt := 0
	for {
		attempt++
		respBody, err = c.send(ctx, body)
		if err == nil {
			break
		}
		if !isTimeout(err) || attempt >= c.maxAttempts || ctx.Err() != nil {
			return "", err
		}
	}

	var parsed apiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("parsing response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("backend error (%s): %s", parsed.Error.Type, parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("response contains no choices")
	}

	return parsed.Choices[0].Message.Content, nil
}

// send performs one HTTP attempt bounded by the request timeout.
func (c *Client) send(ctx context.Context, body []byte) ([]byte, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(attemptCtx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	// Error payloads ride on non-2xx statuses; let the caller surface the
	// backend's own error object when the body carries one.
	if resp.StatusCode != http.StatusOK && !json.Valid(respBody) {
		return nil, fmt.Errorf("API error %d: %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}

// isTimeout classifies transport failures that are worth one more attempt.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
