// Package groq implements the ai.Client contract against the Groq
// chat-completions API. The wire format is OpenAI-compatible but the
// endpoint, auth prefix, and default model differ.
package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/heetd/job-assistant/internal/ai"
	"github.com/heetd/job-assistant/internal/logger"
)

const (
	// Endpoint is the Groq chat completions endpoint.
	Endpoint = "https://api.groq.com/openai/v1/chat/completions"
	// DefaultModel is used when the stored settings carry no model.
	DefaultModel = "llama3-8b-8192"
)

// Client talks to the Groq chat completions API.
type Client struct {
	apiKey     string
	model      string
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func init() {
	ai.Register("groq", func(cfg ai.ProviderConfig, log *zap.Logger) (ai.Client, error) {
		return NewClient(cfg.APIKey, cfg.Model, log)
	})
}

// NewClient creates a Groq client.
func NewClient(apiKey, model string, log *zap.Logger) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("groq api key is required")
	}
	if model = strings.TrimSpace(model); model == "" {
		model = DefaultModel
	}

	return &Client{
		apiKey:   apiKey,
		model:    model,
		endpoint: Endpoint,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		logger: logger.WithProvider(log, "groq", model),
	}, nil
}

func (c *Client) Provider() string { return "groq" }

func (c *Client) Model() string { return c.model }

// Complete sends one chat completion and returns the first choice's text.
func (c *Client) Complete(ctx context.Context, req ai.Request) (string, error) {
	chatReq := chatRequest{
		Model:       c.model,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
	if req.System != "" {
		chatReq.Messages = append(chatReq.Messages, message{Role: "system", Content: req.System})
	}
	chatReq.Messages = append(chatReq.Messages, message{Role: "user", Content: req.User})

	body, err := json.Marshal(chatReq)
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "failed to create HTTP request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", errors.Wrapf(ai.ErrProviderCall, "groq request: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrapf(ai.ErrProviderCall, "reading groq response: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", errors.Wrapf(ai.ErrProviderCall, "groq returned %d: %s",
			resp.StatusCode, logger.TruncateForLog(string(raw), 200))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(raw, &chatResp); err != nil {
		return "", errors.Wrapf(ai.ErrProviderCall, "decoding groq response: %v", err)
	}
	if chatResp.Error != nil {
		return "", errors.Wrapf(ai.ErrProviderCall, "groq error: %s", chatResp.Error.Message)
	}
	if len(chatResp.Choices) == 0 {
		return "", errors.Wrap(ai.ErrProviderCall, "groq returned no choices")
	}

	out := strings.TrimSpace(chatResp.Choices[0].Message.Content)
	c.logger.Debug("groq completion",
		zap.Int("response_length", len(out)),
		zap.String("response_preview", logger.TruncateForLog(out, 200)),
	)

	return out, nil
}
