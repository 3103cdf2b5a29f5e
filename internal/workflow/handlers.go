package workflow

import (
	"go.temporal.io/sdk/workflow"

	"github.com/durableai/durable-agent/internal/models"
)

// registerQueryHandlers exposes the read-only views. Queries are served
// from in-memory state and never block on turn processing.
func (st *conversationState) registerQueryHandlers(ctx workflow.Context) error {
	if err := workflow.SetQueryHandler(ctx, QueryFullState, func() (models.StateSnapshot, error) {
		return st.snapshot(), nil
	}); err != nil {
		return err
	}
	return workflow.SetQueryHandler(ctx, QueryIncrementalUpdates, func(lastSeenID string) (models.ConversationUpdate, error) {
		return st.incrementalUpdates(lastSeenID), nil
	})
}

// drainSignals starts the signal receivers. Prompts append to the FIFO
// queue even while a turn is in flight; end_chat flips the termination
// flag without interrupting the turn in progress.
func (st *conversationState) drainSignals(ctx workflow.Context) {
	promptCh := workflow.GetSignalChannel(ctx, SignalPrompt)
	workflow.Go(ctx, func(gCtx workflow.Context) {
		for {
			var sig PromptSignal
			if !promptCh.Receive(gCtx, &sig) {
				return
			}
			if sig.Text == "" {
				workflow.GetLogger(gCtx).Warn("Ignoring empty prompt signal")
				continue
			}
			if st.chatEnded {
				workflow.GetLogger(gCtx).Warn("Ignoring prompt after end_chat")
				continue
			}
			st.queue = append(st.queue, sig)
		}
	})

	endCh := workflow.GetSignalChannel(ctx, SignalEndChat)
	workflow.Go(ctx, func(gCtx workflow.Context) {
		for {
			var sig EndChatSignal
			if !endCh.Receive(gCtx, &sig) {
				return
			}
			workflow.GetLogger(gCtx).Info("End of chat requested", "reason", sig.Reason)
			st.chatEnded = true
		}
	})
}
