package agent

import "fmt"

// initialPrompt asks the model to either call one of the catalogued functions or answer directly.
func initialPrompt(catalog, query string) string {
	return fmt.Sprintf(`Available functions:
%s
User request: %s

Analyse the request. If a function is needed, reply in exactly this format:
%s {"name": "function_name", "arguments": {"parameter": "value"}}

If no function is needed, answer the user directly.
If you already have the function result, give the final recommendation based on it.

Think step by step before answering.`, catalog, query, FunctionCallMarker)
}

// followUpPrompt restates the exchange so far; the second request carries no history.
func followUpPrompt(query string, call FunctionCall, result string) string {
	return fmt.Sprintf(`Previous conversation:
User request: %s
You decided to call the function: %s
Function result: %s

Now give the final answer based on the function result. Keep it concise and give directly useful information.`,
		query, call.JSON(), result)
}
