// Query processing: prompt, call, optional function, follow-up.
//
// Information Hiding:
// - Prompt construction hidden
// - Function-call detection and execution hidden
// - Failures converted to an apology, never returned
// - Query logging hidden

package agent

import (
	"context"
	"fmt"
	"time"

	. "github.com/richinex/twinllm/internal/logging"
	"github.com/richinex/twinllm/llm"
	"github.com/richinex/twinllm/storage"
	"github.com/richinex/twinllm/tools"
)

// Caller sends one request to whichever backend is active. *llm.Adapter implements it.
type Caller interface {
	Call(ctx context.Context, messages []llm.ChatMessage) (string, error)
}

// infoCaller is a Caller that can describe its active backend.
type infoCaller interface {
	CurrentInfo() llm.Info
}

// Apology is the answer returned when a query fails.
func Apology(err error) string {
	return fmt.Sprintf("Sorry, something went wrong while processing your request: %v", err)
}

// Agent processes queries with at most one function call each.
type Agent struct {
	caller    Caller
	registry  *tools.Registry
	queryLog  storage.QueryLog
	sessionID string
}

// New creates an agent that calls through caller and executes functions from registry.
func New(caller Caller, registry *tools.Registry) *Agent {
	if registry == nil {
		registry = tools.NewRegistry()
	}
	return &Agent{
		caller:   caller,
		registry: registry,
	}
}

// WithQueryLog records every processed query to log.
func (a *Agent) WithQueryLog(log storage.QueryLog) *Agent {
	a.queryLog = log
	return a
}

// WithSession tags recorded queries with sessionID.
func (a *Agent) WithSession(sessionID string) *Agent {
	a.sessionID = sessionID
	return a
}

// ProcessQuery answers query. It never fails: errors become an apology.
func (a *Agent) ProcessQuery(ctx context.Context, query string) string {
	return a.Run(ctx, query).Answer
}

// Run answers query and reports what happened along the way.
func (a *Agent) Run(ctx context.Context, query string) (resp Response) {
	start := time.Now()
	resp.Query = query
	L_info("agent: query", "text", query)

	defer func() {
		if r := recover(); r != nil {
			resp.Err = fmt.Errorf("panic: %v", r)
		}
		if resp.Err != nil {
			L_error("agent: query failed", "error", resp.Err)
			resp.Answer = Apology(resp.Err)
		}
		resp.Provider = a.providerInfo()
		resp.Duration = time.Since(start)
		a.record(ctx, resp)
	}()

	a.run(ctx, &resp)
	return resp
}

func (a *Agent) run(ctx context.Context, resp *Response) {
	prompt := initialPrompt(a.registry.Description(), resp.Query)
	first, err := a.call(ctx, resp, prompt)
	if err != nil {
		resp.Err = err
		return
	}
	L_info("agent: initial response", "text", first)

	call, ok := ParseFunctionCall(first)
	if !ok {
		resp.Answer = first
		return
	}

	resp.Call = call
	resp.FunctionResult = a.registry.Execute(ctx, call.Name, call.Arguments)

	final, err := a.call(ctx, resp, followUpPrompt(resp.Query, *call, resp.FunctionResult))
	if err != nil {
		resp.Err = err
		return
	}
	L_info("agent: final response", "text", final)
	resp.Answer = final
}

// call sends prompt as a single, independent user message.
func (a *Agent) call(ctx context.Context, resp *Response, prompt string) (string, error) {
	resp.LLMCalls++
	return a.caller.Call(ctx, []llm.ChatMessage{llm.UserMessage(prompt)})
}

func (a *Agent) providerInfo() llm.Info {
	if ic, ok := a.caller.(infoCaller); ok {
		return ic.CurrentInfo()
	}
	return llm.Info{Name: "unknown", Model: "unknown"}
}

func (a *Agent) record(ctx context.Context, resp Response) {
	if a.queryLog == nil {
		return
	}

	entry := storage.NewEntry(resp.Query).WithSession(a.sessionID)
	entry.Provider = resp.Provider.Name
	entry.Model = resp.Provider.Model
	entry.Answer = resp.Answer
	entry.DurationMs = uint64(resp.Duration.Milliseconds())
	if resp.Call != nil {
		entry.FunctionCall = resp.Call.JSON()
		entry.FunctionResult = resp.FunctionResult
	}
	if resp.Err != nil {
		entry.Error = resp.Err.Error()
	}

	// recorded even when the query itself was cancelled
	if err := a.queryLog.Record(context.WithoutCancel(ctx), entry); err != nil {
		L_warn("agent: failed to record query", "error", err)
	}
}
