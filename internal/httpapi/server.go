// Package httpapi is the thin HTTP facade in front of the Temporal client:
// starting conversations, signaling prompts, and serving the query views to
// polling clients.
package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/api/workflowservice/v1"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/converter"

	"github.com/durableai/durable-agent/internal/models"
	agentwf "github.com/durableai/durable-agent/internal/workflow"
)

// TemporalClient is the slice of client.Client the facade uses; the real
// client satisfies it, tests substitute a fake.
type TemporalClient interface {
	SignalWithStartWorkflow(ctx context.Context, workflowID string, signalName string, signalArg interface{},
		options client.StartWorkflowOptions, workflow interface{}, workflowArgs ...interface{}) (client.WorkflowRun, error)
	SignalWorkflow(ctx context.Context, workflowID string, runID string, signalName string, arg interface{}) error
	QueryWorkflow(ctx context.Context, workflowID string, runID string, queryType string, args ...interface{}) (converter.EncodedValue, error)
	DescribeWorkflowExecution(ctx context.Context, workflowID, runID string) (*workflowservice.DescribeWorkflowExecutionResponse, error)
}

// Server exposes the conversation API.
type Server struct {
	tc  TemporalClient
	cfg models.CoreConfig
}

// NewServer creates the facade. cfg is forwarded as the workflow input of
// conversations started through POST /chat.
func NewServer(tc TemporalClient, cfg models.CoreConfig) *Server {
	return &Server{tc: tc, cfg: cfg}
}

// Routes builds the gin engine.
func (s *Server) Routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.POST("/chat", s.handleStartOrSend)
	r.GET("/chat/:id", s.handleFullConversation)
	r.GET("/chat/:id/status", s.handleStatus)
	r.GET("/chat/:id/updates", s.handleUpdates)
	r.POST("/chat/:id/end", s.handleEndChat)

	return r
}

type startOrSendRequest struct {
	WorkflowID string `json:"workflow_id"`
	Message    string `json:"message" binding:"required"`
	UserName   string `json:"user_name"`
}

// handleStartOrSend signals a prompt, starting the conversation workflow
// first when it is not already running.
func (s *Server) handleStartOrSend(c *gin.Context) {
	var req startOrSendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	workflowID := req.WorkflowID
	if workflowID == "" {
		workflowID = agentwf.WorkflowIDPrefix + uuid.NewString()
	}

	_, err := s.tc.SignalWithStartWorkflow(
		c.Request.Context(),
		workflowID,
		agentwf.SignalPrompt,
		agentwf.PromptSignal{Text: req.Message, UserName: req.UserName},
		client.StartWorkflowOptions{
			ID:        workflowID,
			TaskQueue: s.cfg.TaskQueue,
		},
		agentwf.ConversationWorkflow,
		agentwf.ConversationInput{Config: s.cfg},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"workflow_id": workflowID})
}

func (s *Server) handleFullConversation(c *gin.Context) {
	var snap models.StateSnapshot
	if !s.query(c, agentwf.QueryFullState, &snap) {
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (s *Server) handleStatus(c *gin.Context) {
	workflowID := c.Param("id")

	desc, err := s.tc.DescribeWorkflowExecution(c.Request.Context(), workflowID, "")
	if err != nil {
		s.renderError(c, err)
		return
	}

	var snap models.StateSnapshot
	if !s.query(c, agentwf.QueryFullState, &snap) {
		return
	}

	resp := gin.H{
		"status":        desc.GetWorkflowExecutionInfo().GetStatus().String(),
		"is_processing": snap.IsProcessing,
		"message_count": len(snap.Messages),
	}
	if n := len(snap.Messages); n > 0 {
		resp["latest_message"] = snap.Messages[n-1]
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleUpdates(c *gin.Context) {
	lastSeen := c.Query("last_seen_message_id")
	var upd models.ConversationUpdate
	if !s.query(c, agentwf.QueryIncrementalUpdates, &upd, lastSeen) {
		return
	}
	c.JSON(http.StatusOK, upd)
}

func (s *Server) handleEndChat(c *gin.Context) {
	workflowID := c.Param("id")
	err := s.tc.SignalWorkflow(c.Request.Context(), workflowID, "", agentwf.SignalEndChat, agentwf.EndChatSignal{})
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// query runs a workflow query for the :id route param and decodes the
// result into out, rendering the error response on failure.
func (s *Server) query(c *gin.Context, queryType string, out interface{}, args ...interface{}) bool {
	workflowID := c.Param("id")
	val, err := s.tc.QueryWorkflow(c.Request.Context(), workflowID, "", queryType, args...)
	if err != nil {
		s.renderError(c, err)
		return false
	}
	if err := val.Get(out); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return false
	}
	return true
}

func (s *Server) renderError(c *gin.Context, err error) {
	var notFound *serviceerror.NotFound
	if errors.As(err, &notFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown conversation"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
