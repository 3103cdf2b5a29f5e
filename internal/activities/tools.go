package activities

import (
	"context"
	"errors"
	"fmt"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/durableai/durable-agent/internal/mcp"
	"github.com/durableai/durable-agent/internal/models"
	"github.com/durableai/durable-agent/internal/tools"
)

// ToolActivities executes local and remote tools behind one activity.
type ToolActivities struct {
	registry *tools.Registry
	pool     *mcp.SessionPool
	cfg      models.CoreConfig
}

// NewToolActivities creates the activity struct for worker registration.
// The registry must match the one the workflow builds from cfg.ToolSet.
func NewToolActivities(registry *tools.Registry, pool *mcp.SessionPool, cfg models.CoreConfig) *ToolActivities {
	return &ToolActivities{registry: registry, pool: pool, cfg: cfg}
}

// ToolInput is the payload of the ExecuteTool activity. Args have already
// been shaped and validated by the workflow.
type ToolInput struct {
	ToolName string         `json:"tool_name"`
	Args     map[string]any `json:"args,omitempty"`
}

// ToolOutput is the result of one tool execution. A failure that should
// become a trajectory step error without retries is carried in Error with a
// nil activity error; retriable remote failures are returned as activity
// errors instead so the retry policy applies.
type ToolOutput struct {
	Observation string `json:"observation,omitempty"`
	Error       string `json:"error,omitempty"`
}

// ExecuteTool runs one tool call.
func (a *ToolActivities) ExecuteTool(ctx context.Context, input ToolInput) (ToolOutput, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("ExecuteTool activity", "tool", input.ToolName)

	d, ok := a.registry.Get(input.ToolName)
	if !ok {
		// The workflow resolves tools before dispatch; reaching this means
		// worker and workflow registries diverged.
		return ToolOutput{Error: fmt.Sprintf("unknown tool: %s", input.ToolName)}, nil
	}

	if d.Kind == tools.KindLocal {
		observation, err := d.Run(ctx, input.Args)
		if err != nil {
			return ToolOutput{Error: fmt.Sprintf("tool %s failed: %v", input.ToolName, err)}, nil
		}
		return ToolOutput{Observation: observation}, nil
	}

	return a.executeRemote(ctx, d, input)
}

func (a *ToolActivities) executeRemote(ctx context.Context, d tools.Descriptor, input ToolInput) (ToolOutput, error) {
	wireName := mcp.EffectiveToolName(a.cfg.ProxyMode, d.ServerNamespace, d.RemoteName())

	if a.cfg.ToolsMock {
		return ToolOutput{Observation: mcp.MockResult(wireName, input.Args)}, nil
	}

	session, err := a.pool.Acquire(ctx, a.cfg.McpURL)
	if err != nil {
		return ToolOutput{}, remoteToActivityError(err)
	}

	observation, rerr := session.CallTool(ctx, wireName, input.Args, RemoteToolTimeout)
	if rerr != nil {
		if rerr.Kind == mcp.ErrorTransport {
			a.pool.Discard(session)
		} else {
			a.pool.Release(session)
		}
		return ToolOutput{}, remoteToActivityError(rerr)
	}
	a.pool.Release(session)
	return ToolOutput{Observation: observation}, nil
}

// remoteToActivityError converts a RemoteError into a typed ApplicationError
// whose type string matches the workflow's NonRetryableErrorTypes list, so
// protocol failures fail fast and transport/timeout failures are retried.
func remoteToActivityError(err error) error {
	var rerr *mcp.RemoteError
	if !errors.As(err, &rerr) {
		return err
	}
	return temporal.NewApplicationError(rerr.Message, string(rerr.Kind))
}
