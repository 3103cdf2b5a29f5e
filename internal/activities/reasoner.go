// Package activities implements the Temporal activities behind the
// conversation workflow: Reason, ExecuteTool and Extract.
package activities

import (
	"context"
	"time"

	"go.temporal.io/sdk/activity"

	"github.com/durableai/durable-agent/internal/reasoner"
	"github.com/durableai/durable-agent/internal/tools"
)

// Timeouts applied by the workflow when scheduling activities.
const (
	ReasonTimeout     = 60 * time.Second
	ExtractTimeout    = 60 * time.Second
	LocalToolTimeout  = 30 * time.Second
	RemoteToolTimeout = 300 * time.Second
)

// ReasonerActivities wraps a provider client behind the Reason and Extract
// activities.
type ReasonerActivities struct {
	client reasoner.Client
}

// NewReasonerActivities creates the activity struct for worker registration.
func NewReasonerActivities(client reasoner.Client) *ReasonerActivities {
	return &ReasonerActivities{client: client}
}

// ReasonInput is the payload of the Reason activity.
type ReasonInput struct {
	Prompt            string               `json:"prompt"`
	TrajectorySummary string               `json:"trajectory_summary,omitempty"`
	Catalog           []tools.CatalogEntry `json:"catalog"`
	UserName          string               `json:"user_name,omitempty"`
}

// ReasonOutput is the decision returned by the Reason activity.
type ReasonOutput struct {
	Thought  string         `json:"thought"`
	ToolName string         `json:"tool_name"`
	ToolArgs map[string]any `json:"tool_args,omitempty"`
}

// Reason proposes the next tool call for the current iteration. Provider
// failures and malformed decisions return errors so the substrate's retry
// policy applies; after the final attempt the workflow records the failure
// as a step error.
func (a *ReasonerActivities) Reason(ctx context.Context, input ReasonInput) (ReasonOutput, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Reason activity", "prompt_len", len(input.Prompt), "tools", len(input.Catalog))

	out, err := a.client.Reason(ctx, reasoner.Request{
		Prompt:            input.Prompt,
		TrajectorySummary: input.TrajectorySummary,
		Catalog:           input.Catalog,
		UserName:          input.UserName,
	})
	if err != nil {
		return ReasonOutput{}, err
	}
	return ReasonOutput{
		Thought:  out.Thought,
		ToolName: out.ToolName,
		ToolArgs: out.ToolArgs,
	}, nil
}

// ExtractInput is the payload of the Extract activity.
type ExtractInput struct {
	Prompt            string `json:"prompt"`
	TrajectorySummary string `json:"trajectory_summary,omitempty"`
	UserName          string `json:"user_name,omitempty"`
}

// ExtractOutput carries the final answer for the turn.
type ExtractOutput struct {
	Answer string `json:"answer"`
}

// Extract produces the user-facing answer from the completed trajectory.
func (a *ReasonerActivities) Extract(ctx context.Context, input ExtractInput) (ExtractOutput, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Extract activity", "prompt_len", len(input.Prompt))

	answer, err := a.client.Extract(ctx, reasoner.ExtractRequest{
		Prompt:            input.Prompt,
		TrajectorySummary: input.TrajectorySummary,
		UserName:          input.UserName,
	})
	if err != nil {
		return ExtractOutput{}, err
	}
	return ExtractOutput{Answer: answer}, nil
}
