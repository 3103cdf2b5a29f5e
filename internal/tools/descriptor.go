// Package tools holds the tool descriptor model, the immutable per-worker
// registry, and argument shaping and validation.
package tools

import "context"

// Kind distinguishes in-process tools from tools served over MCP.
type Kind string

const (
	KindLocal  Kind = "local"
	KindRemote Kind = "remote"
)

// LocalFunc executes a local tool with already-shaped arguments and returns
// the observation text.
type LocalFunc func(ctx context.Context, args map[string]any) (string, error)

// ArgField declares one argument of a tool. Type is a JSON Schema primitive:
// "string", "number", "integer" or "boolean".
type ArgField struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required,omitempty"`

	// Default is filled in when the argument is absent. Optional fields
	// without a default stay absent.
	Default any `json:"default,omitempty"`
}

// Descriptor declares a tool the reasoner may select.
type Descriptor struct {
	Name        string
	Description string
	Args        []ArgField
	Kind        Kind

	// ServerNamespace and ServerToolName identify a remote tool on its
	// MCP server. ServerToolName defaults to Name.
	ServerNamespace string
	ServerToolName  string

	// Run implements a local tool. Unset for remote tools.
	Run LocalFunc
}

// RemoteName returns the tool's name on its server, before any proxy
// prefixing.
func (d Descriptor) RemoteName() string {
	if d.ServerToolName != "" {
		return d.ServerToolName
	}
	return d.Name
}
