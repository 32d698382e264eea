// Tool Executor - single guarded invocation.
//
// Information Hiding:
// - Validation before execution hidden
// - Per-call timeout hidden
// - Panic recovery hidden

package tools

import (
	"context"
	"fmt"
	"time"
)

// DefaultToolTimeout bounds a single tool invocation.
const DefaultToolTimeout = 30 * time.Second

// ExecutionError is a failure raised while running a tool.
type ExecutionError struct {
	Tool string
	Err  error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("function %s failed: %v", e.Tool, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// Executor runs a tool exactly once with validation, a timeout and panic recovery.
type Executor struct {
	timeout time.Duration
}

// NewExecutor creates a new tool executor. A zero timeout means DefaultToolTimeout.
func NewExecutor(timeout time.Duration) *Executor {
	if timeout <= 0 {
		timeout = DefaultToolTimeout
	}
	return &Executor{timeout: timeout}
}

// NewDefaultExecutor creates an executor with default configuration.
func NewDefaultExecutor() *Executor {
	return NewExecutor(DefaultToolTimeout)
}

// Run executes tool with args. It never panics and never returns an error:
// every failure is folded into the result.
func (e *Executor) Run(ctx context.Context, tool Tool, args map[string]any) (result ToolResult) {
	name := tool.Metadata().Name

	defer func() {
		if r := recover(); r != nil {
			result = FailureResult(&ExecutionError{Tool: name, Err: fmt.Errorf("panic: %v", r)})
		}
	}()

	if args == nil {
		args = map[string]any{}
	}
	if err := tool.Validate(args); err != nil {
		return FailureResult(&ExecutionError{Tool: name, Err: fmt.Errorf("invalid arguments: %w", err)})
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	res, err := tool.Execute(ctx, args)
	if err != nil {
		return FailureResult(&ExecutionError{Tool: name, Err: err})
	}
	return res
}
