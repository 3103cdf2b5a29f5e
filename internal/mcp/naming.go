package mcp

// EffectiveToolName resolves the name a remote call uses on the wire. When
// talking to an MCP proxy that aggregates several servers, tools are
// addressed as "{namespace}_{tool}"; against a single server the bare tool
// name is used.
func EffectiveToolName(proxyMode bool, namespace, toolName string) string {
	if proxyMode && namespace != "" {
		return namespace + "_" + toolName
	}
	return toolName
}
