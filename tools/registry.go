// Package tools provides tool management and registration.
//
// Information Hiding:
// - Tool storage and lookup implementation hidden
// - Registration order preserved for prompt construction
// - Execution failures converted to error payloads

package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	. "github.com/richinex/twinllm/internal/logging"
)

// Registry manages available tools. It is built once at startup and
// passed explicitly to the agent.
type Registry struct {
	mu       sync.RWMutex
	tools    map[string]Tool
	order    []string
	executor *Executor
}

// NewRegistry creates a new empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		tools:    make(map[string]Tool),
		executor: NewDefaultExecutor(),
	}
}

// SetExecutor replaces the executor used by Execute.
func (r *Registry) SetExecutor(e *Executor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.executor = e
}

// Register adds a new tool to the registry.
// Returns error if a tool with the same name already exists.
func (r *Registry) Register(tool Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := tool.Metadata().Name
	if name == "" {
		return fmt.Errorf("tool has no name")
	}
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool '%s' already registered", name)
	}
	r.tools[name] = tool
	r.order = append(r.order, name)
	return nil
}

// Get returns a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tool, exists := r.tools[name]
	return tool, exists
}

// Has checks if a tool exists in the registry.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.tools[name]
	return exists
}

// Names returns all registered tool names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Describe returns metadata for all registered tools in registration order.
func (r *Registry) Describe() []ToolMetadata {
	r.mu.RLock()
	defer r.mu.RUnlock()

	metadata := make([]ToolMetadata, 0, len(r.order))
	for _, name := range r.order {
		metadata = append(metadata, r.tools[name].Metadata())
	}
	return metadata
}

// Description returns the function catalog for LLM prompts:
//
//	- name: description
//	Parameters: {...}
func (r *Registry) Description() string {
	var b strings.Builder
	for _, meta := range r.Describe() {
		params, err := json.Marshal(meta.Parameters)
		if err != nil {
			params = []byte("{}")
		}
		fmt.Fprintf(&b, "- %s: %s\nParameters: %s\n", meta.Name, meta.Description, params)
	}
	return b.String()
}

// Execute runs the named tool and returns its text payload.
// It never fails: an unknown name or any tool failure becomes {"error": ...}.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) string {
	r.mu.RLock()
	tool, exists := r.tools[name]
	executor := r.executor
	r.mu.RUnlock()

	if !exists {
		L_warn("tools: unknown function", "name", name)
		return ErrorPayload(fmt.Sprintf("unknown function: %s", name))
	}

	L_info("tools: executing function", "name", name, "args", args)
	result := executor.Run(ctx, tool, args)
	if !result.Success() {
		L_error("tools: function failed", "name", name, "error", result.Error)
		return result.Payload()
	}
	L_debug("tools: function result", "name", name, "result", result.Output)
	return result.Payload()
}

// WithDefaults creates a registry with the built-in functions.
// Returns error if any tool registration fails.
func WithDefaults() (*Registry, error) {
	registry := NewRegistry()

	tools := []Tool{
		NewWeatherTool(),
	}

	for _, t := range tools {
		if err := registry.Register(t); err != nil {
			return nil, fmt.Errorf("failed to register default tools: %w", err)
		}
	}

	return registry, nil
}
