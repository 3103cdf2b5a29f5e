package reasoner

import (
	"fmt"
	"strings"

	"github.com/durableai/durable-agent/internal/tools"
	"github.com/durableai/durable-agent/internal/trajectory"
)

// reasonSystemPrompt instructs the provider to answer with a single JSON
// object selecting the next tool, or the finish sentinel once enough
// observations have accumulated.
func reasonSystemPrompt(catalog []tools.CatalogEntry) string {
	var b strings.Builder
	b.WriteString("You are the reasoning engine of a tool-using assistant.\n")
	b.WriteString("Each turn you pick exactly one tool to run next, or finish.\n\n")
	b.WriteString("Available tools:\n")
	b.WriteString(renderCatalog(catalog))
	fmt.Fprintf(&b, "- %s: call this when the gathered observations answer the user's request. Takes no arguments.\n",
		trajectory.FinishToolName)
	b.WriteString("\nRespond with only a JSON object, no prose:\n")
	b.WriteString(`{"thought": "<why this tool, one or two sentences>", "tool_name": "<tool>", "tool_args": {<arguments>}}`)
	return b.String()
}

// renderCatalog lists tools with their argument signatures, in registry
// order so the prompt is stable across calls and replays.
func renderCatalog(catalog []tools.CatalogEntry) string {
	var b strings.Builder
	for _, e := range catalog {
		fmt.Fprintf(&b, "- %s: %s", e.Name, e.Description)
		if len(e.Args) > 0 {
			parts := make([]string, 0, len(e.Args))
			for _, a := range e.Args {
				p := fmt.Sprintf("%s: %s", a.Name, a.Type)
				switch {
				case a.Required:
					p += " (required)"
				case a.Default != nil:
					p += fmt.Sprintf(" (default %v)", a.Default)
				}
				parts = append(parts, p)
			}
			fmt.Fprintf(&b, " Arguments: %s.", strings.Join(parts, ", "))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// reasonUserPrompt assembles the per-iteration user message.
func reasonUserPrompt(req Request) string {
	var b strings.Builder
	if req.UserName != "" {
		fmt.Fprintf(&b, "The user's name is %s.\n\n", req.UserName)
	}
	fmt.Fprintf(&b, "User request: %s\n", req.Prompt)
	if req.TrajectorySummary != "" {
		b.WriteString("\nSteps taken so far:\n\n")
		b.WriteString(req.TrajectorySummary)
		b.WriteString("\n")
	}
	return b.String()
}

const extractSystemPrompt = "You are a helpful assistant. Using the user's request and the " +
	"steps already taken, write the final answer for the user. Answer in plain text, " +
	"directly and completely, without mentioning tools or internal steps."

func extractUserPrompt(req ExtractRequest) string {
	var b strings.Builder
	if req.UserName != "" {
		fmt.Fprintf(&b, "The user's name is %s.\n\n", req.UserName)
	}
	fmt.Fprintf(&b, "User request: %s\n", req.Prompt)
	if req.TrajectorySummary != "" {
		b.WriteString("\nSteps taken:\n\n")
		b.WriteString(req.TrajectorySummary)
		b.WriteString("\n")
	}
	return b.String()
}
