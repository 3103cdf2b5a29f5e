package reasoner

import (
	"context"
	"fmt"
	"os"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"
	"github.com/openai/openai-go/v3/shared"
)

const defaultOpenAIModel = "gpt-4o"

// OpenAIClient implements Client on OpenAI's Responses API.
type OpenAIClient struct {
	client openai.Client
	model  string
}

// NewOpenAIClient creates a client using OPENAI_API_KEY and an optional
// REASONER_MODEL override.
func NewOpenAIClient() *OpenAIClient {
	model := os.Getenv("REASONER_MODEL")
	if model == "" {
		model = defaultOpenAIModel
	}
	return &OpenAIClient{
		client: openai.NewClient(option.WithAPIKey(os.Getenv("OPENAI_API_KEY"))),
		model:  model,
	}
}

func (c *OpenAIClient) complete(ctx context.Context, instructions, input string) (string, error) {
	resp, err := c.client.Responses.New(ctx, responses.ResponseNewParams{
		Model: shared.ResponsesModel(c.model),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: openai.String(input),
		},
		Instructions: openai.String(instructions),
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	return resp.OutputText(), nil
}

// Reason asks for the next tool decision.
func (c *OpenAIClient) Reason(ctx context.Context, req Request) (Output, error) {
	text, err := c.complete(ctx, reasonSystemPrompt(req.Catalog), reasonUserPrompt(req))
	if err != nil {
		return Output{}, err
	}
	return ParseOutput(text)
}

// Extract asks for the final user-facing answer.
func (c *OpenAIClient) Extract(ctx context.Context, req ExtractRequest) (string, error) {
	text, err := c.complete(ctx, extractSystemPrompt, extractUserPrompt(req))
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", fmt.Errorf("empty answer from model")
	}
	return text, nil
}
