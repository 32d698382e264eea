// Package tools provides the function registry the agent calls into.
//
// Information Hiding:
// - Tool execution details hidden behind interface
// - Parameter schemas hidden in implementations
// - Registry implementation details hidden from consumers
// - Failures are converted to error payloads, never propagated
package tools

import (
	"context"
	"fmt"

	jsonutil "github.com/richinex/twinllm/internal/json"
)

// ToolMetadata describes what a tool does and how to call it.
// Parameters is a JSON-schema object declaration.
type ToolMetadata struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// String returns a string representation of the tool metadata.
func (m ToolMetadata) String() string {
	return fmt.Sprintf("%s: %s", m.Name, m.Description)
}

// ObjectSchema builds a JSON-schema object declaration.
func ObjectSchema(properties map[string]any, required ...string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// StringProperty declares a string parameter.
func StringProperty(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}

// ToolResult represents the result of a tool execution.
// Success is determined by whether Error is nil.
type ToolResult struct {
	Output string
	Error  error
}

// Success returns true if the tool execution succeeded.
func (t ToolResult) Success() bool {
	return t.Error == nil
}

// Payload returns the text handed back to the model: Output on success,
// an {"error": ...} object otherwise.
func (t ToolResult) Payload() string {
	if t.Error != nil {
		return ErrorPayload(t.Error.Error())
	}
	return t.Output
}

// SuccessResult creates a successful tool result.
func SuccessResult(output string) ToolResult {
	return ToolResult{Output: output}
}

// JSONResult creates a successful tool result from a JSON-encodable value.
func JSONResult(v any) ToolResult {
	return ToolResult{Output: jsonutil.Compact(v)}
}

// FailureResult creates a failed tool result.
func FailureResult(err error) ToolResult {
	return ToolResult{Error: err}
}

// FailureResultf creates a failed tool result with a formatted error message.
func FailureResultf(format string, args ...interface{}) ToolResult {
	return ToolResult{Error: fmt.Errorf(format, args...)}
}

// ErrorPayload renders msg as the error object returned to the model.
func ErrorPayload(msg string) string {
	return jsonutil.Compact(map[string]string{"error": msg})
}

// Tool is the interface that all tools must implement.
type Tool interface {
	// Metadata returns tool metadata (name, description, parameters).
	Metadata() ToolMetadata

	// Execute runs the tool with the decoded call arguments.
	Execute(ctx context.Context, args map[string]any) (ToolResult, error)

	// Validate checks arguments before execution.
	Validate(args map[string]any) error
}

// BaseTool provides a default implementation for Validate.
type BaseTool struct{}

// Validate provides a default no-op validation.
func (BaseTool) Validate(args map[string]any) error {
	return nil
}
