package models

import (
	"os"
	"strconv"
)

// Defaults applied by CoreConfig.ApplyDefaults.
const (
	DefaultMaxIterations = 10
	DefaultToolSet       = "weather"
	DefaultMcpURL        = "http://localhost:8000/mcp"
	DefaultTaskQueue     = "durable-agent"
)

// CoreConfig carries the per-conversation settings. It is assembled once in
// cmd/ from the environment and passed to the workflow as part of its input,
// so a conversation keeps the configuration it started with across worker
// restarts.
type CoreConfig struct {
	// MaxIterations caps the ReAct loop per turn.
	MaxIterations int `json:"max_iterations"`

	// ToolSet names the builtin tool registry to expose to the reasoner.
	ToolSet string `json:"tool_set"`

	// ProxyMode prefixes remote tool names with their server namespace
	// when calling an MCP proxy that aggregates several servers.
	ProxyMode bool `json:"proxy_mode"`

	// McpURL is the streamable-HTTP endpoint of the MCP tool server.
	McpURL string `json:"mcp_url"`

	// ToolsMock replaces remote tool calls with deterministic synthetic
	// responses. Used for demos and tests without a tool server.
	ToolsMock bool `json:"tools_mock"`

	// ReasonerProvider selects the LLM adapter: "openai", "anthropic",
	// or "scripted".
	ReasonerProvider string `json:"reasoner_provider,omitempty"`

	// TaskQueue is the Temporal task queue shared by worker and clients.
	TaskQueue string `json:"task_queue,omitempty"`
}

// ApplyDefaults fills zero-valued fields in place.
func (c *CoreConfig) ApplyDefaults() {
	if c.MaxIterations <= 0 {
		c.MaxIterations = DefaultMaxIterations
	}
	if c.ToolSet == "" {
		c.ToolSet = DefaultToolSet
	}
	if c.McpURL == "" {
		c.McpURL = DefaultMcpURL
	}
	if c.TaskQueue == "" {
		c.TaskQueue = DefaultTaskQueue
	}
}

// ConfigFromEnv builds a CoreConfig from environment variables, falling back
// to defaults for anything unset.
func ConfigFromEnv() CoreConfig {
	cfg := CoreConfig{
		ToolSet:          os.Getenv("TOOL_SET"),
		McpURL:           os.Getenv("MCP_URL"),
		ReasonerProvider: os.Getenv("REASONER_PROVIDER"),
		TaskQueue:        os.Getenv("TASK_QUEUE"),
		ProxyMode:        envBool("MCP_PROXY_MODE"),
		ToolsMock:        envBool("TOOLS_MOCK"),
	}
	if v := os.Getenv("MAX_ITERATIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxIterations = n
		}
	}
	cfg.ApplyDefaults()
	return cfg
}

func envBool(name string) bool {
	v, err := strconv.ParseBool(os.Getenv(name))
	return err == nil && v
}
