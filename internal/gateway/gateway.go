// ABOUTME: Stateless chat-completion gateway over any OpenAI-compatible endpoint
// ABOUTME: No retry logic here; callers own retry and backoff policy
package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// maxErrorBody bounds how much upstream error body a StatusError carries
const maxErrorBody = 800

// Message is one chat turn sent to the model
type Message struct {
	Role    string
	Content string
}

// Request describes a single completion call
type Request struct {
	Messages    []Message
	Model       string
	Temperature float32
	MaxTokens   int
}

// StatusError reports a non-success response from the upstream API
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned status %d: %s", e.Code, e.Body)
}

// Completer issues chat completions. The pipeline depends on this seam so
// tests can inject a fake without a network.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Client is the production Completer backed by go-openai
type Client struct {
	api     *openai.Client
	timeout time.Duration
}

// New creates a gateway client for the given endpoint and bearer key
func New(baseURL, apiKey string, timeout time.Duration) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return &Client{
		api:     openai.NewClientWithConfig(cfg),
		timeout: timeout,
	}, nil
}

// Complete sends one chat-completion request and returns the raw text
// content. Non-2xx responses surface as *StatusError; timeouts surface as
// context.DeadlineExceeded.
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		if ctxErr := ctx.Err(); errors.Is(ctxErr, context.DeadlineExceeded) {
			return "", context.DeadlineExceeded
		}

		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", &StatusError{
				Code: apiErr.HTTPStatusCode,
				Body: truncateBody(apiErr.Message),
			}
		}
		var reqErr *openai.RequestError
		if errors.As(err, &reqErr) {
			return "", &StatusError{
				Code: reqErr.HTTPStatusCode,
				Body: truncateBody(reqErr.Error()),
			}
		}
		return "", fmt.Errorf("completion request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("upstream returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func truncateBody(body string) string {
	if len(body) > maxErrorBody {
		return body[:maxErrorBody]
	}
	return body
}
