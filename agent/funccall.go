package agent

import (
	"errors"
	"fmt"

	jsonutil "github.com/richinex/twinllm/internal/json"
	. "github.com/richinex/twinllm/internal/logging"
)

// FunctionCallMarker introduces a function call in a model response.
const FunctionCallMarker = "FUNCTION_CALL:"

// ErrNoFunctionCall is returned when a response contains no marker.
var ErrNoFunctionCall = errors.New("no function call in response")

// FunctionCall is a call requested by the model.
type FunctionCall struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// JSON renders the call as single-line JSON.
func (c FunctionCall) JSON() string {
	return jsonutil.Compact(c)
}

// MalformedFunctionCallError reports a marker whose payload could not be used.
type MalformedFunctionCallError struct {
	Payload string
	Err     error
}

func (e *MalformedFunctionCallError) Error() string {
	return fmt.Sprintf("malformed function call %q: %v", e.Payload, e.Err)
}

func (e *MalformedFunctionCallError) Unwrap() error {
	return e.Err
}

// DecodeFunctionCall extracts the call from a model response.
// Only the line directly after the first marker is read; text before the
// marker and any further lines are ignored. Returns ErrNoFunctionCall when
// there is no marker and *MalformedFunctionCallError when the payload is not
// a JSON object with a non-empty name and an arguments object.
func DecodeFunctionCall(response string) (*FunctionCall, error) {
	payload, err := jsonutil.LineAfterMarker(response, FunctionCallMarker)
	if err != nil {
		return nil, ErrNoFunctionCall
	}

	call, err := jsonutil.DecodeStrict[FunctionCall](payload)
	if err != nil {
		return nil, &MalformedFunctionCallError{Payload: payload, Err: err}
	}
	if call.Name == "" {
		return nil, &MalformedFunctionCallError{Payload: payload, Err: errors.New("missing name")}
	}
	if call.Arguments == nil {
		return nil, &MalformedFunctionCallError{Payload: payload, Err: errors.New("missing arguments")}
	}
	return &call, nil
}

// ParseFunctionCall returns the call in response, if any.
// A malformed call is logged and treated as a plain answer.
func ParseFunctionCall(response string) (*FunctionCall, bool) {
	call, err := DecodeFunctionCall(response)
	if err != nil {
		var malformed *MalformedFunctionCallError
		if errors.As(err, &malformed) {
			L_warn("agent: ignoring malformed function call", "error", err)
			L_debug("agent: response was", "text", response)
		}
		return nil, false
	}
	return call, true
}
