package tools

import (
	"errors"
	"fmt"
	"strings"
)

// ErrReservedName is returned when registering a tool under the finish
// sentinel name.
var ErrReservedName = errors.New(`tool name "finish" is reserved`)

// DuplicateToolError is returned when a tool name is registered twice.
type DuplicateToolError struct {
	Name string
}

func (e *DuplicateToolError) Error() string {
	return fmt.Sprintf("tool %q is already registered", e.Name)
}

// NotFoundError is returned when a lookup names an unregistered tool.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("unknown tool: %s", e.Name)
}

// FieldError describes one invalid argument field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned by ValidateAndShape when the supplied
// arguments cannot be shaped into a valid call. It carries per-field detail
// so the trajectory step error names what was wrong.
type ValidationError struct {
	Tool   string       `json:"tool"`
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return fmt.Sprintf("invalid arguments for %s: %s", e.Tool, strings.Join(parts, "; "))
}
