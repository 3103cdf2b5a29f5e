package workflow

import (
	"fmt"

	"go.temporal.io/sdk/workflow"

	"github.com/durableai/durable-agent/internal/models"
	"github.com/durableai/durable-agent/internal/tools"
)

// ConversationWorkflow runs one durable multi-turn conversation. Prompts
// arrive through the prompt signal and queue FIFO; each is processed as one
// turn of the bounded reason/act/observe loop. The end_chat signal stops
// intake and the workflow returns the final conversation state once queued
// prompts drain.
func ConversationWorkflow(ctx workflow.Context, input ConversationInput) (models.StateSnapshot, error) {
	logger := workflow.GetLogger(ctx)

	cfg := input.Config
	cfg.ApplyDefaults()

	// The registry is rebuilt deterministically from the configured tool
	// set, so it never enters workflow history.
	registry, err := tools.BuildSet(cfg.ToolSet)
	if err != nil {
		return models.StateSnapshot{}, fmt.Errorf("build tool set: %w", err)
	}

	st := &conversationState{
		cfg:      cfg,
		registry: registry,
		catalog:  registry.Catalog(),
		messages: []models.ConversationMessage{},
	}

	if err := st.registerQueryHandlers(ctx); err != nil {
		return models.StateSnapshot{}, err
	}
	st.drainSignals(ctx)

	logger.Info("Conversation started", "tool_set", cfg.ToolSet, "max_iterations", cfg.MaxIterations)

	for {
		if err := workflow.Await(ctx, func() bool {
			return len(st.queue) > 0 || st.chatEnded
		}); err != nil {
			return st.snapshot(), err
		}
		if len(st.queue) == 0 {
			break
		}
		st.runTurn(ctx, st.popPrompt())
	}

	logger.Info("Conversation ended", "messages", len(st.messages))
	return st.snapshot(), nil
}
