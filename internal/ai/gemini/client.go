// Package gemini implements the ai.Client contract on top of the Google
// GenAI SDK.
package gemini

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/heetd/job-assistant/internal/ai"
	"github.com/heetd/job-assistant/internal/logger"
)

const (
	// DefaultModel is used when the stored settings carry no model.
	DefaultModel = "gemini-2.0-flash"
)

// Client wraps the Google GenAI client behind the chat-completion contract.
type Client struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

func init() {
	ai.Register("gemini", func(cfg ai.ProviderConfig, log *zap.Logger) (ai.Client, error) {
		return NewClient(context.Background(), cfg.APIKey, cfg.Model, log)
	})
}

// NewClient creates a client configured for the Gemini API backend.
func NewClient(ctx context.Context, apiKey, model string, log *zap.Logger) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "create genai client")
	}

	if model = strings.TrimSpace(model); model == "" {
		model = DefaultModel
	}

	return &Client{
		client: client,
		model:  model,
		logger: logger.WithProvider(log, "gemini", model),
	}, nil
}

func (c *Client) Provider() string { return "gemini" }

func (c *Client) Model() string { return c.model }

// Complete sends the prompt to Gemini and returns the concatenated textual
// parts of the first candidates.
func (c *Client) Complete(ctx context.Context, req ai.Request) (string, error) {
	if c == nil || c.client == nil {
		return "", errors.New("gemini client is not initialized")
	}

	prompt := strings.TrimSpace(req.User)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	config := &genai.GenerateContentConfig{}
	if req.System != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.System}},
		}
	}
	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.Temperature > 0 {
		config.Temperature = genai.Ptr(float32(req.Temperature))
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), config)
	if err != nil {
		return "", errors.Wrapf(ai.ErrProviderCall, "gemini generate content: %v", err)
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", errors.Wrap(ai.ErrProviderCall, "gemini api returned empty response")
	}

	c.logger.Debug("gemini completion",
		zap.Int("response_length", len(output)),
		zap.String("response_preview", logger.TruncateForLog(output, 200)),
	)

	return output, nil
}
