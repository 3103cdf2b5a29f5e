// Package models defines the conversation records shared by the workflow,
// the activities, and the HTTP facade.
package models

import "time"

// ConversationMessage is one user/agent exchange. A message is created when
// the user's prompt is dequeued and completed when either the agent's answer
// or a turn-level error is recorded. Exactly one of AgentMessage / Error is
// set on a completed message.
type ConversationMessage struct {
	ID            string    `json:"id"`
	UserMessage   string    `json:"user_message"`
	UserTimestamp time.Time `json:"user_timestamp"`

	AgentMessage   string     `json:"agent_message,omitempty"`
	AgentTimestamp *time.Time `json:"agent_timestamp,omitempty"`

	// ToolsUsed lists the distinct tools that produced a successful
	// observation during this turn, in first-use order.
	ToolsUsed []string `json:"tools_used,omitempty"`

	ProcessingTimeMs int64  `json:"processing_time_ms,omitempty"`
	Error            string `json:"error,omitempty"`
}

// IsComplete reports whether the turn for this message has finished,
// successfully or not.
func (m *ConversationMessage) IsComplete() bool {
	return m.AgentTimestamp != nil
}

// IsError reports whether the turn ended with an error instead of an answer.
func (m *ConversationMessage) IsError() bool {
	return m.Error != ""
}

// StateSnapshot is the full conversation view returned by the full_state
// query and as the workflow result.
type StateSnapshot struct {
	Messages         []ConversationMessage `json:"messages"`
	IsProcessing     bool                  `json:"is_processing"`
	CurrentMessageID string                `json:"current_message_id,omitempty"`
	ChatEnded        bool                  `json:"chat_ended"`
}

// ConversationUpdate is the delta view returned by the incremental_updates
// query. NewMessages are messages created after the caller's last-seen
// message; UpdatedMessages carries the last-seen message again when it
// completed since the caller last looked at it.
type ConversationUpdate struct {
	NewMessages      []ConversationMessage `json:"new_messages"`
	UpdatedMessages  []ConversationMessage `json:"updated_messages"`
	IsProcessing     bool                  `json:"is_processing"`
	CurrentMessageID string                `json:"current_message_id,omitempty"`

	// LastSeenMessageID is the id the caller should pass on its next poll.
	LastSeenMessageID string `json:"last_seen_message_id,omitempty"`
}
