// Package workflow implements the durable conversation state machine: one
// workflow execution per conversation, prompts arriving as signals, turns
// processed sequentially through a bounded reason/act/observe loop.
package workflow

import (
	"github.com/durableai/durable-agent/internal/models"
	"github.com/durableai/durable-agent/internal/tools"
	"github.com/durableai/durable-agent/internal/trajectory"
)

// Signal and query names of the conversation workflow.
const (
	SignalPrompt            = "prompt"
	SignalEndChat           = "end_chat"
	QueryFullState          = "full_state"
	QueryIncrementalUpdates = "incremental_updates"
)

// WorkflowIDPrefix prefixes generated conversation workflow ids.
const WorkflowIDPrefix = "durable-agent-"

// Activity names scheduled by the workflow, matching the method names
// registered by the worker.
const (
	activityReason      = "Reason"
	activityExecuteTool = "ExecuteTool"
	activityExtract     = "Extract"
)

// PromptSignal carries one user prompt into the conversation.
type PromptSignal struct {
	Text     string `json:"text"`
	UserName string `json:"user_name,omitempty"`
}

// EndChatSignal requests graceful termination once queued prompts drain.
type EndChatSignal struct {
	Reason string `json:"reason,omitempty"`
}

// ConversationInput starts a conversation workflow.
type ConversationInput struct {
	Config models.CoreConfig `json:"config"`
}

// conversationState is the workflow's in-memory state. It is rebuilt by
// replay, never serialized as a whole; queries serve copies of it.
type conversationState struct {
	cfg      models.CoreConfig
	registry *tools.Registry
	catalog  []tools.CatalogEntry

	messages         []models.ConversationMessage
	queue            []PromptSignal
	currentMessageID string
	isProcessing     bool
	chatEnded        bool

	// traj is the trajectory of the turn in progress; reset between turns.
	traj trajectory.Trajectory
}

func (st *conversationState) popPrompt() PromptSignal {
	p := st.queue[0]
	st.queue = st.queue[1:]
	return p
}

func (st *conversationState) tailMessage() *models.ConversationMessage {
	return &st.messages[len(st.messages)-1]
}

// snapshot copies the conversation for queries and the workflow result.
func (st *conversationState) snapshot() models.StateSnapshot {
	messages := make([]models.ConversationMessage, len(st.messages))
	copy(messages, st.messages)
	return models.StateSnapshot{
		Messages:         messages,
		IsProcessing:     st.isProcessing,
		CurrentMessageID: st.currentMessageID,
		ChatEnded:        st.chatEnded,
	}
}

// incrementalUpdates computes the delta since the caller's last-seen
// message. An unknown or empty last-seen id returns the whole history. The
// last-seen message is re-sent through UpdatedMessages when it has
// completed, so a poller that saw it mid-processing observes its
// completion.
func (st *conversationState) incrementalUpdates(lastSeenID string) models.ConversationUpdate {
	upd := models.ConversationUpdate{
		NewMessages:      []models.ConversationMessage{},
		UpdatedMessages:  []models.ConversationMessage{},
		IsProcessing:     st.isProcessing,
		CurrentMessageID: st.currentMessageID,
	}
	if len(st.messages) > 0 {
		upd.LastSeenMessageID = st.messages[len(st.messages)-1].ID
	}

	seenIdx := -1
	if lastSeenID != "" {
		for i := range st.messages {
			if st.messages[i].ID == lastSeenID {
				seenIdx = i
				break
			}
		}
	}
	if seenIdx == -1 {
		upd.NewMessages = append(upd.NewMessages, st.messages...)
		return upd
	}
	upd.NewMessages = append(upd.NewMessages, st.messages[seenIdx+1:]...)
	if st.messages[seenIdx].IsComplete() {
		upd.UpdatedMessages = append(upd.UpdatedMessages, st.messages[seenIdx])
	}
	return upd
}
