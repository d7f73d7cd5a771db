// Package openai implements the ai.Client contract against the OpenAI
// chat-completions API.
package openai

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
	// Endpoint is the OpenAI chat completions endpoint.
	Endpoint = "https://api.openai.com/v1/chat/completions"
	// DefaultModel is used when the stored settings carry no model.
	DefaultModel = "gpt-3.5-turbo"
)

// Client talks to the OpenAI chat completions API.
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
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

func init() {
	ai.Register("openai", func(cfg ai.ProviderConfig, log *zap.Logger) (ai.Client, error) {
		return NewClient(cfg.APIKey, cfg.Model, log)
	})
}

// NewClient creates an OpenAI client.
func NewClient(apiKey, model string, log *zap.Logger) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("openai api key is required")
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
		logger: logger.WithProvider(log, "openai", model),
	}, nil
}

func (c *Client) Provider() string { return "openai" }

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
		return "", errors.Wrapf(ai.ErrProviderCall, "openai request: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrapf(ai.ErrProviderCall, "reading openai response: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", errors.Wrapf(ai.ErrProviderCall, "openai returned %d: %s",
			resp.StatusCode, logger.TruncateForLog(string(raw), 200))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(raw, &chatResp); err != nil {
		return "", errors.Wrapf(ai.ErrProviderCall, "decoding openai response: %v", err)
	}
	if chatResp.Error != nil {
		return "", errors.Wrapf(ai.ErrProviderCall, "openai error: %s", chatResp.Error.Message)
	}
	if len(chatResp.Choices) == 0 {
		return "", errors.Wrap(ai.ErrProviderCall, "openai returned no choices")
	}

	out := strings.TrimSpace(chatResp.Choices[0].Message.Content)
	c.logger.Debug("openai completion",
		zap.Int("response_length", len(out)),
		zap.String("response_preview", logger.TruncateForLog(out, 200)),
	)

	return out, nil
}
