package reasoner

import (
	"context"
	"fmt"
	"sync"

	"github.com/durableai/durable-agent/internal/trajectory"
)

// ScriptedClient replays queued decisions in order, then finishes. It backs
// demo runs without provider credentials and deterministic tests.
type ScriptedClient struct {
	mu      sync.Mutex
	outputs []Output
	answers []string
}

// NewScriptedClient creates a client that finishes immediately on every
// turn. Use Enqueue/EnqueueAnswer to script specific behavior.
func NewScriptedClient() *ScriptedClient {
	return &ScriptedClient{}
}

// Enqueue appends decisions to replay on subsequent Reason calls.
func (c *ScriptedClient) Enqueue(outputs ...Output) *ScriptedClient {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.outputs = append(c.outputs, outputs...)
	return c
}

// EnqueueAnswer appends answers to replay on subsequent Extract calls.
func (c *ScriptedClient) EnqueueAnswer(answers ...string) *ScriptedClient {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.answers = append(c.answers, answers...)
	return c
}

// Reason pops the next scripted decision, or finishes when the script ran
// out.
func (c *ScriptedClient) Reason(_ context.Context, _ Request) (Output, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.outputs) > 0 {
		out := c.outputs[0]
		c.outputs = c.outputs[1:]
		if out.ToolArgs == nil {
			out.ToolArgs = map[string]any{}
		}
		return out, nil
	}
	return Output{
		Thought:  "Nothing further to do.",
		ToolName: trajectory.FinishToolName,
		ToolArgs: map[string]any{},
	}, nil
}

// Extract pops the next scripted answer, falling back to a deterministic
// echo of the request.
func (c *ScriptedClient) Extract(_ context.Context, req ExtractRequest) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.answers) > 0 {
		a := c.answers[0]
		c.answers = c.answers[1:]
		return a, nil
	}
	return fmt.Sprintf("(scripted) Handled request: %s", req.Prompt), nil
}
