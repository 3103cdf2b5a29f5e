package reasoner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/durableai/durable-agent/internal/models"
	"github.com/durableai/durable-agent/internal/tools"
)

func TestParseOutput(t *testing.T) {
	out, err := ParseOutput(`{"thought": "need forecast", "tool_name": "weather_forecast", "tool_args": {"location": "Paris"}}`)
	require.NoError(t, err)
	assert.Equal(t, "need forecast", out.Thought)
	assert.Equal(t, "weather_forecast", out.ToolName)
	assert.Equal(t, map[string]any{"location": "Paris"}, out.ToolArgs)
}

func TestParseOutputStripsCodeFences(t *testing.T) {
	out, err := ParseOutput("```json\n{\"thought\": \"done\", \"tool_name\": \"finish\"}\n```")
	require.NoError(t, err)
	assert.Equal(t, "finish", out.ToolName)
	assert.NotNil(t, out.ToolArgs)
}

func TestParseOutputMalformed(t *testing.T) {
	_, err := ParseOutput("I think we should check the weather.")
	assert.ErrorContains(t, err, "malformed reasoner output")

	_, err = ParseOutput(`{"tool_name": "finish"}`)
	assert.ErrorContains(t, err, "missing thought")

	_, err = ParseOutput(`{"thought": "hm"}`)
	assert.ErrorContains(t, err, "missing tool_name")
}

func TestReasonSystemPromptListsCatalogAndFinish(t *testing.T) {
	catalog := tools.MustBuildSet("weather").Catalog()
	prompt := reasonSystemPrompt(catalog)
	assert.Contains(t, prompt, "- weather_forecast:")
	assert.Contains(t, prompt, "- historical:")
	assert.Contains(t, prompt, "- agricultural:")
	assert.Contains(t, prompt, "- finish:")
	assert.Contains(t, prompt, "location: string (required)")
	assert.Contains(t, prompt, "days: integer (default 7)")
}

func TestReasonUserPromptIncludesTrajectory(t *testing.T) {
	p := reasonUserPrompt(Request{
		Prompt:            "Weather in Paris?",
		TrajectorySummary: "Thought: x\nObservation: y",
		UserName:          "Ada",
	})
	assert.Contains(t, p, "The user's name is Ada.")
	assert.Contains(t, p, "User request: Weather in Paris?")
	assert.Contains(t, p, "Steps taken so far:")
	assert.Contains(t, p, "Observation: y")
}

func TestScriptedClientReplaysThenFinishes(t *testing.T) {
	c := NewScriptedClient().Enqueue(Output{
		Thought:  "check forecast",
		ToolName: "weather_forecast",
		ToolArgs: map[string]any{"location": "Paris"},
	})
	out, err := c.Reason(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "weather_forecast", out.ToolName)

	out, err = c.Reason(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "finish", out.ToolName)
}

func TestScriptedClientExtract(t *testing.T) {
	c := NewScriptedClient().EnqueueAnswer("It will be sunny.")
	a, err := c.Extract(context.Background(), ExtractRequest{Prompt: "Weather?"})
	require.NoError(t, err)
	assert.Equal(t, "It will be sunny.", a)

	a, err = c.Extract(context.Background(), ExtractRequest{Prompt: "Weather?"})
	require.NoError(t, err)
	assert.Contains(t, a, "Weather?")
}

func TestFactory(t *testing.T) {
	c, err := New(models.CoreConfig{ReasonerProvider: "scripted"})
	require.NoError(t, err)
	assert.IsType(t, &ScriptedClient{}, c)

	c, err = New(models.CoreConfig{ToolsMock: true})
	require.NoError(t, err)
	assert.IsType(t, &ScriptedClient{}, c)

	_, err = New(models.CoreConfig{ReasonerProvider: "oracle"})
	assert.ErrorContains(t, err, "unknown reasoner provider")
}
