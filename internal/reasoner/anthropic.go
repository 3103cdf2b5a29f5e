package reasoner

import (
	"context"
	"fmt"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const anthropicMaxTokens = 2048

// AnthropicClient implements Client on Anthropic's Messages API.
type AnthropicClient struct {
	client anthropic.Client
	model  anthropic.Model
}

// NewAnthropicClient creates a client using ANTHROPIC_API_KEY and an
// optional REASONER_MODEL override.
func NewAnthropicClient() *AnthropicClient {
	model := anthropic.ModelClaudeSonnet4_5_20250929
	if name := os.Getenv("REASONER_MODEL"); name != "" {
		model = anthropic.Model(name)
	}
	return &AnthropicClient{
		client: anthropic.NewClient(option.WithAPIKey(os.Getenv("ANTHROPIC_API_KEY"))),
		model:  model,
	}
}

func (c *AnthropicClient) complete(ctx context.Context, system, input string) (string, error) {
	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: anthropicMaxTokens,
		System:    []anthropic.TextBlockParam{{Text: system}},
		Messages: []anthropic.MessageParam{{
			Role: anthropic.MessageParamRoleUser,
			Content: []anthropic.ContentBlockParamUnion{{
				OfText: &anthropic.TextBlockParam{Text: input},
			}},
		}},
	})
	if err != nil {
		return "", fmt.Errorf("Anthropic API error: %w", err)
	}
	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.AsText().Text
		}
	}
	return text, nil
}

// Reason asks for the next tool decision.
func (c *AnthropicClient) Reason(ctx context.Context, req Request) (Output, error) {
	text, err := c.complete(ctx, reasonSystemPrompt(req.Catalog), reasonUserPrompt(req))
	if err != nil {
		return Output{}, err
	}
	return ParseOutput(text)
}

// Extract asks for the final user-facing answer.
func (c *AnthropicClient) Extract(ctx context.Context, req ExtractRequest) (string, error) {
	text, err := c.complete(ctx, extractSystemPrompt, extractUserPrompt(req))
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", fmt.Errorf("empty answer from model")
	}
	return text, nil
}
