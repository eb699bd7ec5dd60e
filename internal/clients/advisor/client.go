// Package advisor provides an AI assistant for free-form finance questions,
// grounded in the user's own spending aggregates.
package advisor

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/finch-money/finch/internal/common"
	"github.com/finch-money/finch/internal/interfaces"
)

const DefaultModel = "gemini-3-flash-preview"

// Client implements the AdvisorClient interface
type Client struct {
	client *genai.Client
	model  string
	logger *common.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithModel sets the model to use
func WithModel(model string) ClientOption {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new advisor client
func NewClient(ctx context.Context, apiKey string, opts ...ClientOption) (*Client, error) {
	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create advisor client: %w", err)
	}

	c := &Client{
		client: genaiClient,
		model:  DefaultModel,
		logger: common.NewSilentLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Close closes the client
func (c *Client) Close() error {
	// The genai client doesn't have a Close method
	return nil
}

// Advise answers a finance question. The prompt already carries the user's
// aggregates; the client adds only framing instructions.
func (c *Client) Advise(ctx context.Context, prompt string) (string, error) {
	c.logger.Debug().Str("model", c.model).Msg("Requesting advice")

	framed := "You are a personal finance assistant. Answer using only the figures " +
		"provided below. Be concise and practical; never invent numbers.\n\n" + prompt

	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(framed), nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate advice: %w", err)
	}
	return extractText(result)
}

// extractText extracts text from a generate content response
func extractText(result *genai.GenerateContentResponse) (string, error) {
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content generated")
	}

	var sb strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	return sb.String(), nil
}

// Ensure Client implements AdvisorClient
var _ interfaces.AdvisorClient = (*Client)(nil)
