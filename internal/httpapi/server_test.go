package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	workflowpb "go.temporal.io/api/workflow/v1"
	"go.temporal.io/api/workflowservice/v1"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/converter"

	"github.com/durableai/durable-agent/internal/models"
	agentwf "github.com/durableai/durable-agent/internal/workflow"
)

// encodedValue wraps a Go value as a converter.EncodedValue via a JSON
// round trip, mirroring the SDK's payload conversion closely enough for
// handler tests.
type encodedValue struct{ v any }

func (e encodedValue) HasValue() bool { return e.v != nil }

func (e encodedValue) Get(out interface{}) error {
	raw, err := json.Marshal(e.v)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

type fakeTemporalClient struct {
	signaledStarts []string
	signals        []string
	lastSignalArg  any
	lastQueryArgs  []interface{}
	lastQueryType  string

	queryResult any
	err         error
}

func (f *fakeTemporalClient) SignalWithStartWorkflow(_ context.Context, workflowID, signalName string, signalArg interface{},
	_ client.StartWorkflowOptions, _ interface{}, _ ...interface{}) (client.WorkflowRun, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.signaledStarts = append(f.signaledStarts, workflowID)
	f.signals = append(f.signals, signalName)
	f.lastSignalArg = signalArg
	return nil, nil
}

func (f *fakeTemporalClient) SignalWorkflow(_ context.Context, workflowID, _ string, signalName string, arg interface{}) error {
	if f.err != nil {
		return f.err
	}
	f.signals = append(f.signals, signalName)
	f.lastSignalArg = arg
	return nil
}

func (f *fakeTemporalClient) QueryWorkflow(_ context.Context, _ string, _ string, queryType string, args ...interface{}) (converter.EncodedValue, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.lastQueryType = queryType
	f.lastQueryArgs = args
	return encodedValue{v: f.queryResult}, nil
}

func (f *fakeTemporalClient) DescribeWorkflowExecution(_ context.Context, _, _ string) (*workflowservice.DescribeWorkflowExecutionResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &workflowservice.DescribeWorkflowExecutionResponse{
		WorkflowExecutionInfo: &workflowpb.WorkflowExecutionInfo{
			Status: enums.WORKFLOW_EXECUTION_STATUS_RUNNING,
		},
	}, nil
}

func newTestServer(fake *fakeTemporalClient) *Server {
	cfg := models.CoreConfig{}
	cfg.ApplyDefaults()
	return NewServer(fake, cfg)
}

func doRequest(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Routes().ServeHTTP(w, req)
	return w
}

func TestStartOrSendGeneratesWorkflowID(t *testing.T) {
	fake := &fakeTemporalClient{}
	s := newTestServer(fake)

	w := doRequest(t, s, http.MethodPost, "/chat", map[string]any{
		"message":   "Weather in Paris?",
		"user_name": "Ada",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, strings.HasPrefix(resp["workflow_id"], agentwf.WorkflowIDPrefix))

	require.Len(t, fake.signaledStarts, 1)
	assert.Equal(t, resp["workflow_id"], fake.signaledStarts[0])
	assert.Equal(t, []string{agentwf.SignalPrompt}, fake.signals)
	sig, ok := fake.lastSignalArg.(agentwf.PromptSignal)
	require.True(t, ok)
	assert.Equal(t, "Weather in Paris?", sig.Text)
	assert.Equal(t, "Ada", sig.UserName)
}

func TestStartOrSendExistingWorkflowID(t *testing.T) {
	fake := &fakeTemporalClient{}
	s := newTestServer(fake)

	w := doRequest(t, s, http.MethodPost, "/chat", map[string]any{
		"workflow_id": "durable-agent-abc",
		"message":     "More detail please",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"durable-agent-abc"}, fake.signaledStarts)
}

func TestStartOrSendRequiresMessage(t *testing.T) {
	s := newTestServer(&fakeTemporalClient{})
	w := doRequest(t, s, http.MethodPost, "/chat", map[string]any{"user_name": "Ada"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStatus(t *testing.T) {
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	fake := &fakeTemporalClient{queryResult: models.StateSnapshot{
		Messages: []models.ConversationMessage{
			{ID: "m1", UserMessage: "P1", AgentMessage: "A1", AgentTimestamp: &now},
		},
	}}
	s := newTestServer(fake)

	w := doRequest(t, s, http.MethodGet, "/chat/durable-agent-abc/status", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Running", resp["status"])
	assert.Equal(t, float64(1), resp["message_count"])
	assert.Equal(t, false, resp["is_processing"])
	assert.NotNil(t, resp["latest_message"])
}

func TestUpdatesPassesCursor(t *testing.T) {
	fake := &fakeTemporalClient{queryResult: models.ConversationUpdate{
		NewMessages:       []models.ConversationMessage{},
		UpdatedMessages:   []models.ConversationMessage{},
		LastSeenMessageID: "m2",
	}}
	s := newTestServer(fake)

	w := doRequest(t, s, http.MethodGet, "/chat/durable-agent-abc/updates?last_seen_message_id=m1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, agentwf.QueryIncrementalUpdates, fake.lastQueryType)
	require.Len(t, fake.lastQueryArgs, 1)
	assert.Equal(t, "m1", fake.lastQueryArgs[0])
}

func TestFullConversation(t *testing.T) {
	fake := &fakeTemporalClient{queryResult: models.StateSnapshot{
		Messages:  []models.ConversationMessage{{ID: "m1", UserMessage: "P1"}},
		ChatEnded: false,
	}}
	s := newTestServer(fake)

	w := doRequest(t, s, http.MethodGet, "/chat/durable-agent-abc", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var snap models.StateSnapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	require.Len(t, snap.Messages, 1)
	assert.Equal(t, "P1", snap.Messages[0].UserMessage)
}

func TestEndChat(t *testing.T) {
	fake := &fakeTemporalClient{}
	s := newTestServer(fake)

	w := doRequest(t, s, http.MethodPost, "/chat/durable-agent-abc/end", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{agentwf.SignalEndChat}, fake.signals)
}

func TestUnknownWorkflowIs404(t *testing.T) {
	fake := &fakeTemporalClient{err: serviceerror.NewNotFound("no such execution")}
	s := newTestServer(fake)

	w := doRequest(t, s, http.MethodGet, "/chat/durable-agent-missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, s, http.MethodPost, "/chat/durable-agent-missing/end", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
