// Package agent answers operator queries with at most one function call.
//
// Contains the types returned by a processed query.
package agent

import (
	"time"

	"github.com/richinex/twinllm/llm"
)

// Response is the outcome of one processed query.
type Response struct {
	Query string
	// Answer is the text for the operator; an apology when Err is set.
	Answer string
	// Call is the function the model requested, nil if it answered directly.
	Call *FunctionCall
	// FunctionResult is the payload returned by Call.
	FunctionResult string
	// Provider is the backend selected when the query finished.
	Provider llm.Info
	Duration time.Duration
	// LLMCalls counts Adapter calls made (1 or 2).
	LLMCalls int
	Err      error
}

// Failed reports whether the query ended in an error.
func (r Response) Failed() bool {
	return r.Err != nil
}
