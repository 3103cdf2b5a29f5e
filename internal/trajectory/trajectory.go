// Package trajectory records the reason/act/observe steps of a single turn
// and renders them deterministically for the next reasoner call.
package trajectory

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	// FinishToolName is the sentinel tool name the reasoner selects to end
	// the loop. It is reserved: the registry rejects it as a real tool.
	FinishToolName = "finish"

	// FinishObservation is recorded as the observation of a finish step.
	FinishObservation = "Completed."
)

// Step is one completed ReAct iteration. Exactly one of Observation / Error
// is set once the step is recorded.
type Step struct {
	Iteration   int            `json:"iteration"`
	Thought     string         `json:"thought"`
	ToolName    string         `json:"tool_name,omitempty"`
	ToolArgs    map[string]any `json:"tool_args,omitempty"`
	Observation string         `json:"observation,omitempty"`
	Error       string         `json:"error,omitempty"`
	Timestamp   time.Time      `json:"timestamp"`
}

// IsFinish reports whether this step selected the finish sentinel.
func (s *Step) IsFinish() bool {
	return s.ToolName == FinishToolName
}

// IsSuccess reports whether the step produced an observation.
func (s *Step) IsSuccess() bool {
	return s.Error == "" && s.Observation != ""
}

// Trajectory accumulates the steps of the turn in progress.
type Trajectory struct {
	Steps []Step `json:"steps"`
}

// Append records a completed step.
func (t *Trajectory) Append(step Step) {
	t.Steps = append(t.Steps, step)
}

// Len returns the number of recorded steps.
func (t *Trajectory) Len() int {
	return len(t.Steps)
}

// Finished reports whether the last recorded step is the finish sentinel.
func (t *Trajectory) Finished() bool {
	n := len(t.Steps)
	return n > 0 && t.Steps[n-1].IsFinish()
}

// Summarize renders the trajectory as the stable text block fed back to the
// reasoner and the extractor. Each step renders its thought, tool, compact
// sorted-key args, and observation or error; steps are separated by a blank
// line. The rendering is deterministic so replayed workflows produce
// identical reasoner inputs.
func (t *Trajectory) Summarize() string {
	if len(t.Steps) == 0 {
		return ""
	}
	blocks := make([]string, 0, len(t.Steps))
	for _, s := range t.Steps {
		var b strings.Builder
		fmt.Fprintf(&b, "Thought: %s\n", s.Thought)
		if s.ToolName != "" {
			fmt.Fprintf(&b, "Tool: %s\n", s.ToolName)
			fmt.Fprintf(&b, "Args: %s\n", formatArgs(s.ToolArgs))
		}
		if s.Error != "" {
			fmt.Fprintf(&b, "Error: %s", s.Error)
		} else {
			fmt.Fprintf(&b, "Observation: %s", s.Observation)
		}
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n\n")
}

// ToolsUsed returns the distinct non-finish tool names that produced a
// successful observation, in first-use order.
func (t *Trajectory) ToolsUsed() []string {
	used := []string{}
	seen := make(map[string]bool)
	for _, s := range t.Steps {
		if s.ToolName == "" || s.IsFinish() || !s.IsSuccess() {
			continue
		}
		if seen[s.ToolName] {
			continue
		}
		seen[s.ToolName] = true
		used = append(used, s.ToolName)
	}
	return used
}

// formatArgs renders arguments as "k=v, k=v" with keys sorted. Strings are
// rendered bare; everything else uses its JSON encoding.
func formatArgs(args map[string]any) string {
	if len(args) == 0 {
		return "(none)"
	}
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+formatArgValue(args[k]))
	}
	return strings.Join(parts, ", ")
}

func formatArgValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	enc, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(enc)
}
