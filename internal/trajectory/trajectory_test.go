package trajectory

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeEmpty(t *testing.T) {
	var traj Trajectory
	assert.Equal(t, "", traj.Summarize())
}

func TestSummarizeRendersStepsInOrder(t *testing.T) {
	var traj Trajectory
	traj.Append(Step{
		Iteration:   0,
		Thought:     "Need the forecast",
		ToolName:    "weather_forecast",
		ToolArgs:    map[string]any{"location": "Paris", "days": float64(7)},
		Observation: "WX(Paris,7)",
	})
	traj.Append(Step{
		Iteration:   1,
		Thought:     "Done",
		ToolName:    FinishToolName,
		Observation: FinishObservation,
	})

	got := traj.Summarize()
	blocks := strings.Split(got, "\n\n")
	require.Len(t, blocks, 2)

	assert.Equal(t,
		"Thought: Need the forecast\n"+
			"Tool: weather_forecast\n"+
			"Args: days=7, location=Paris\n"+
			"Observation: WX(Paris,7)",
		blocks[0])
	assert.Equal(t,
		"Thought: Done\n"+
			"Tool: finish\n"+
			"Args: (none)\n"+
			"Observation: Completed.",
		blocks[1])
}

func TestSummarizeDeterministicArgOrder(t *testing.T) {
	step := Step{
		Thought:  "t",
		ToolName: "historical",
		ToolArgs: map[string]any{
			"start":    "2024-01-01",
			"end":      "2024-02-01",
			"location": "Lyon",
		},
		Observation: "ok",
	}
	var a, b Trajectory
	a.Append(step)
	b.Append(step)
	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Summarize(), b.Summarize())
	}
	assert.Contains(t, a.Summarize(), "Args: end=2024-02-01, location=Lyon, start=2024-01-01")
}

func TestSummarizeErrorStep(t *testing.T) {
	var traj Trajectory
	traj.Append(Step{
		Iteration: 0,
		Thought:   "try history",
		ToolName:  "historical",
		ToolArgs:  map[string]any{"location": "Oslo"},
		Error:     "transport failure: connection refused",
	})

	got := traj.Summarize()
	assert.Contains(t, got, "Error: transport failure: connection refused")
	assert.NotContains(t, got, "Observation:")
}

func TestToolsUsedDistinctOrderedSuccessfulOnly(t *testing.T) {
	var traj Trajectory
	traj.Append(Step{ToolName: "weather_forecast", Observation: "WX(Paris,7)"})
	traj.Append(Step{ToolName: "historical", Error: "timeout"})
	traj.Append(Step{ToolName: "weather_forecast", Observation: "WX(Paris,3)"})
	traj.Append(Step{ToolName: "agricultural", Observation: "soil ok"})
	traj.Append(Step{ToolName: FinishToolName, Observation: FinishObservation})

	assert.Equal(t, []string{"weather_forecast", "agricultural"}, traj.ToolsUsed())
}

func TestToolsUsedEmptyOnImmediateFinish(t *testing.T) {
	var traj Trajectory
	traj.Append(Step{ToolName: FinishToolName, Observation: FinishObservation})
	assert.Equal(t, []string{}, traj.ToolsUsed())
}

func TestFinished(t *testing.T) {
	var traj Trajectory
	assert.False(t, traj.Finished())
	traj.Append(Step{ToolName: "weather_forecast", Observation: "x"})
	assert.False(t, traj.Finished())
	traj.Append(Step{ToolName: FinishToolName, Observation: FinishObservation})
	assert.True(t, traj.Finished())
}
