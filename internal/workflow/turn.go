package workflow

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/durableai/durable-agent/internal/activities"
	"github.com/durableai/durable-agent/internal/models"
	"github.com/durableai/durable-agent/internal/tools"
	"github.com/durableai/durable-agent/internal/trajectory"
)

// runTurn processes one dequeued prompt end to end: record the message,
// drive the bounded ReAct loop, extract the final answer, complete the
// message. Step-level failures stay inside the trajectory; only extraction
// failure marks the message itself as errored.
func (st *conversationState) runTurn(ctx workflow.Context, sig PromptSignal) {
	logger := workflow.GetLogger(ctx)

	started := workflow.Now(ctx).UTC()
	msg := models.ConversationMessage{
		ID:            st.newMessageID(ctx),
		UserMessage:   sig.Text,
		UserTimestamp: started,
	}
	st.messages = append(st.messages, msg)
	st.currentMessageID = msg.ID
	st.isProcessing = true
	st.traj = trajectory.Trajectory{}

	logger.Info("Turn started", "message_id", msg.ID)

	for i := 0; i < st.cfg.MaxIterations; i++ {
		if st.runIteration(ctx, i, sig) {
			break
		}
	}
	if !st.traj.Finished() {
		logger.Info("Iteration cap reached", "message_id", msg.ID, "steps", st.traj.Len())
	}

	answer, err := st.runExtract(ctx, sig)
	completed := workflow.Now(ctx).UTC()

	m := st.tailMessage()
	m.AgentTimestamp = &completed
	if err != nil {
		m.Error = err.Error()
		logger.Error("Turn failed", "message_id", m.ID, "error", err)
	} else {
		m.AgentMessage = answer
		m.ToolsUsed = st.traj.ToolsUsed()
		m.ProcessingTimeMs = completed.Sub(started).Milliseconds()
		logger.Info("Turn completed", "message_id", m.ID, "tools_used", m.ToolsUsed)
	}

	st.isProcessing = false
	st.currentMessageID = ""
	st.traj = trajectory.Trajectory{}
}

// runIteration performs one reason/act/observe cycle and returns true when
// the turn is done (finish selected). Every outcome, including failures,
// appends exactly one step.
func (st *conversationState) runIteration(ctx workflow.Context, iteration int, sig PromptSignal) bool {
	logger := workflow.GetLogger(ctx)

	var decision activities.ReasonOutput
	err := workflow.ExecuteActivity(
		workflow.WithActivityOptions(ctx, reasonOptions()),
		activityReason,
		activities.ReasonInput{
			Prompt:            sig.Text,
			TrajectorySummary: st.traj.Summarize(),
			Catalog:           st.catalog,
			UserName:          sig.UserName,
		},
	).Get(ctx, &decision)

	step := trajectory.Step{
		Iteration: iteration,
		Timestamp: workflow.Now(ctx).UTC(),
	}
	if err != nil {
		step.Thought = "reasoner unavailable"
		step.Error = fmt.Sprintf("reasoner failed: %v", err)
		st.traj.Append(step)
		return false
	}

	step.Thought = decision.Thought
	step.ToolName = decision.ToolName

	if decision.ToolName == trajectory.FinishToolName {
		step.Observation = trajectory.FinishObservation
		st.traj.Append(step)
		return true
	}

	d, ok := st.registry.Get(decision.ToolName)
	if !ok {
		step.ToolArgs = decision.ToolArgs
		step.Error = fmt.Sprintf("unknown tool: %s", decision.ToolName)
		st.traj.Append(step)
		return false
	}

	shaped, dropped, verr := st.registry.ValidateAndShape(decision.ToolName, decision.ToolArgs)
	if len(dropped) > 0 {
		logger.Warn("Dropped unknown argument keys", "tool", decision.ToolName, "keys", dropped)
	}
	if verr != nil {
		step.ToolArgs = decision.ToolArgs
		step.Error = verr.Error()
		st.traj.Append(step)
		return false
	}
	step.ToolArgs = shaped

	var result activities.ToolOutput
	err = workflow.ExecuteActivity(
		workflow.WithActivityOptions(ctx, toolOptions(d.Kind)),
		activityExecuteTool,
		activities.ToolInput{ToolName: decision.ToolName, Args: shaped},
	).Get(ctx, &result)
	step.Timestamp = workflow.Now(ctx).UTC()

	switch {
	case err != nil:
		step.Error = toolActivityErrorMessage(decision.ToolName, err)
	case result.Error != "":
		step.Error = result.Error
	default:
		step.Observation = result.Observation
	}
	st.traj.Append(step)
	return false
}

// runExtract turns the completed trajectory into the user-facing answer.
func (st *conversationState) runExtract(ctx workflow.Context, sig PromptSignal) (string, error) {
	var out activities.ExtractOutput
	err := workflow.ExecuteActivity(
		workflow.WithActivityOptions(ctx, extractOptions()),
		activityExtract,
		activities.ExtractInput{
			Prompt:            sig.Text,
			TrajectorySummary: st.traj.Summarize(),
			UserName:          sig.UserName,
		},
	).Get(ctx, &out)
	if err != nil {
		return "", err
	}
	return out.Answer, nil
}

// newMessageID draws a uuid through a side effect so the id is recorded
// once and replayed identically.
func (st *conversationState) newMessageID(ctx workflow.Context) string {
	var id string
	if err := workflow.SideEffect(ctx, func(workflow.Context) interface{} {
		return uuid.NewString()
	}).Get(&id); err != nil {
		return fmt.Sprintf("msg-%d", len(st.messages)+1)
	}
	return id
}

func reasonOptions() workflow.ActivityOptions {
	return workflow.ActivityOptions{
		StartToCloseTimeout: activities.ReasonTimeout,
		RetryPolicy:         defaultRetryPolicy(nil),
	}
}

func extractOptions() workflow.ActivityOptions {
	return workflow.ActivityOptions{
		StartToCloseTimeout: activities.ExtractTimeout,
		RetryPolicy:         defaultRetryPolicy(nil),
	}
}

// toolOptions gives remote tools a longer deadline and exempts protocol
// failures from retries: a call the server rejected deterministically will
// not get better on its own.
func toolOptions(kind tools.Kind) workflow.ActivityOptions {
	timeout := activities.LocalToolTimeout
	if kind == tools.KindRemote {
		timeout = activities.RemoteToolTimeout
	}
	return workflow.ActivityOptions{
		StartToCloseTimeout: timeout,
		RetryPolicy:         defaultRetryPolicy([]string{"Protocol"}),
	}
}

func defaultRetryPolicy(nonRetryable []string) *temporal.RetryPolicy {
	return &temporal.RetryPolicy{
		InitialInterval:        time.Second,
		BackoffCoefficient:     2.0,
		MaximumInterval:        30 * time.Second,
		MaximumAttempts:        3,
		NonRetryableErrorTypes: nonRetryable,
	}
}

// toolActivityErrorMessage renders a tool activity failure for the
// trajectory step, surfacing the remote error classification when present.
func toolActivityErrorMessage(toolName string, err error) string {
	var appErr *temporal.ApplicationError
	if errors.As(err, &appErr) {
		return fmt.Sprintf("tool %s failed (%s): %s", toolName, appErr.Type(), appErr.Message())
	}
	var timeoutErr *temporal.TimeoutError
	if errors.As(err, &timeoutErr) {
		return fmt.Sprintf("tool %s timed out: %s", toolName, timeoutErr.Message())
	}
	return fmt.Sprintf("tool %s failed: %v", toolName, err)
}
