// Package reasoner defines the LLM-facing contract of the agent: proposing
// the next tool call for a turn and extracting the final answer from a
// completed trajectory.
package reasoner

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/durableai/durable-agent/internal/tools"
)

// Output is the reasoner's decision for one iteration.
type Output struct {
	Thought  string         `json:"thought"`
	ToolName string         `json:"tool_name"`
	ToolArgs map[string]any `json:"tool_args,omitempty"`
}

// Request carries everything the reasoner needs to decide the next step.
type Request struct {
	Prompt            string               `json:"prompt"`
	TrajectorySummary string               `json:"trajectory_summary,omitempty"`
	Catalog           []tools.CatalogEntry `json:"catalog"`
	UserName          string               `json:"user_name,omitempty"`
}

// ExtractRequest carries the completed trajectory for answer extraction.
type ExtractRequest struct {
	Prompt            string `json:"prompt"`
	TrajectorySummary string `json:"trajectory_summary,omitempty"`
	UserName          string `json:"user_name,omitempty"`
}

// Client is implemented by each provider adapter.
type Client interface {
	Reason(ctx context.Context, req Request) (Output, error)
	Extract(ctx context.Context, req ExtractRequest) (string, error)
}

// ParseOutput decodes a provider's JSON decision, tolerating markdown code
// fences around the object. A decision without a thought or tool name is
// malformed and fails the iteration.
func ParseOutput(raw string) (Output, error) {
	text := stripFences(raw)
	var out Output
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return Output{}, fmt.Errorf("malformed reasoner output: %w", err)
	}
	if out.Thought == "" {
		return Output{}, fmt.Errorf("malformed reasoner output: missing thought")
	}
	if out.ToolName == "" {
		return Output{}, fmt.Errorf("malformed reasoner output: missing tool_name")
	}
	if out.ToolArgs == nil {
		out.ToolArgs = map[string]any{}
	}
	return out, nil
}

func stripFences(raw string) string {
	text := strings.TrimSpace(raw)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
