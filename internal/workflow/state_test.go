package workflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/durableai/durable-agent/internal/models"
)

func completedMessage(id, user, agent string) models.ConversationMessage {
	ts := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	return models.ConversationMessage{
		ID:             id,
		UserMessage:    user,
		UserTimestamp:  ts,
		AgentMessage:   agent,
		AgentTimestamp: &ts,
	}
}

func TestIncrementalUpdatesNullCursorReturnsAll(t *testing.T) {
	st := &conversationState{messages: []models.ConversationMessage{
		completedMessage("m1", "P1", "A1"),
		{ID: "m2", UserMessage: "P2"},
	}, isProcessing: true, currentMessageID: "m2"}

	upd := st.incrementalUpdates("")
	require.Len(t, upd.NewMessages, 2)
	assert.Empty(t, upd.UpdatedMessages)
	assert.True(t, upd.IsProcessing)
	assert.Equal(t, "m2", upd.CurrentMessageID)
	assert.Equal(t, "m2", upd.LastSeenMessageID)
}

func TestIncrementalUpdatesUnknownCursorResets(t *testing.T) {
	st := &conversationState{messages: []models.ConversationMessage{
		completedMessage("m1", "P1", "A1"),
	}}

	upd := st.incrementalUpdates("gone")
	require.Len(t, upd.NewMessages, 1)
	assert.Equal(t, "m1", upd.NewMessages[0].ID)
}

func TestIncrementalUpdatesDeliversCompletionOfSeenTail(t *testing.T) {
	st := &conversationState{messages: []models.ConversationMessage{
		completedMessage("m1", "P1", "A1"),
	}}

	upd := st.incrementalUpdates("m1")
	assert.Empty(t, upd.NewMessages)
	require.Len(t, upd.UpdatedMessages, 1)
	assert.Equal(t, "A1", upd.UpdatedMessages[0].AgentMessage)
}

func TestIncrementalUpdatesIncompleteSeenTailNotRedelivered(t *testing.T) {
	st := &conversationState{messages: []models.ConversationMessage{
		{ID: "m1", UserMessage: "P1"},
	}, isProcessing: true, currentMessageID: "m1"}

	upd := st.incrementalUpdates("m1")
	assert.Empty(t, upd.NewMessages)
	assert.Empty(t, upd.UpdatedMessages)
	assert.True(t, upd.IsProcessing)
}

func TestSnapshotCopiesMessages(t *testing.T) {
	st := &conversationState{messages: []models.ConversationMessage{
		completedMessage("m1", "P1", "A1"),
	}}
	snap := st.snapshot()
	snap.Messages[0].AgentMessage = "mutated"
	assert.Equal(t, "A1", st.messages[0].AgentMessage)
}
