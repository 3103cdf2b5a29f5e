package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a remote tool failure. The kind drives retry
// behavior at the activity boundary: transport and timeout failures are
// retried by the substrate, protocol failures are not.
type ErrorKind string

const (
	ErrorTransport ErrorKind = "Transport"
	ErrorProtocol  ErrorKind = "Protocol"
	ErrorTimeout   ErrorKind = "Timeout"
)

// RemoteError is a failure from a remote tool call.
type RemoteError struct {
	Kind    ErrorKind
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s error: %s", strings.ToLower(string(e.Kind)), e.Message)
}

// Retriable reports whether retrying the same call could succeed. Protocol
// failures (unknown tool, malformed arguments, tool-reported errors) are
// deterministic and never retried.
func (e *RemoteError) Retriable() bool {
	return e.Kind != ErrorProtocol
}

// classifyCallError maps a session-level call failure to a RemoteError.
// The MCP SDK surfaces JSON-RPC errors and connection failures through the
// same error return, so protocol-level failures are recognized by their
// wire messages.
func classifyCallError(err error) *RemoteError {
	if errors.Is(err, context.DeadlineExceeded) {
		return &RemoteError{Kind: ErrorTimeout, Message: err.Error()}
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"method not found", "invalid params", "invalid request", "unknown tool", "tool not found"} {
		if strings.Contains(msg, marker) {
			return &RemoteError{Kind: ErrorProtocol, Message: err.Error()}
		}
	}
	return &RemoteError{Kind: ErrorTransport, Message: err.Error()}
}
