package agent

import (
	"errors"
	"testing"
)

func TestParseFunctionCallIgnoresTrailingLine(t *testing.T) {
	call, ok := ParseFunctionCall("hello FUNCTION_CALL: {\"name\":\"get_weather\",\"arguments\":{\"city\":\"beijing\"}}\nextra")
	if !ok {
		t.Fatal("expected a function call")
	}
	if call.Name != "get_weather" {
		t.Errorf("expected get_weather, got %q", call.Name)
	}
	if len(call.Arguments) != 1 || call.Arguments["city"] != "beijing" {
		t.Errorf("unexpected arguments: %v", call.Arguments)
	}
}

func TestParseFunctionCallProse(t *testing.T) {
	if call, ok := ParseFunctionCall("I think you should wear a coat."); ok || call != nil {
		t.Errorf("expected no call, got %+v", call)
	}
}

func TestParseFunctionCallEmptyArguments(t *testing.T) {
	call, ok := ParseFunctionCall(`FUNCTION_CALL: {"name": "now", "arguments": {}}`)
	if !ok {
		t.Fatal("expected a function call")
	}
	if call.Name != "now" || call.Arguments == nil || len(call.Arguments) != 0 {
		t.Errorf("unexpected call: %+v", call)
	}
}

func TestParseFunctionCallOnNextLine(t *testing.T) {
	resp := "I will look it up.\nFUNCTION_CALL:\n{\"name\":\"get_weather\",\"arguments\":{\"city\":\"shenzhen\"}}\nThanks."
	call, ok := ParseFunctionCall(resp)
	if !ok {
		t.Fatal("expected a function call on the line after the marker")
	}
	if call.Name != "get_weather" || call.Arguments["city"] != "shenzhen" {
		t.Errorf("unexpected call: %+v", call)
	}
}

func TestDecodeFunctionCallMalformed(t *testing.T) {
	cases := map[string]string{
		"bad json":          `FUNCTION_CALL: {"name": "get_weather", "arguments": {"city": }`,
		"missing name":      `FUNCTION_CALL: {"arguments": {"city": "beijing"}}`,
		"empty name":        `FUNCTION_CALL: {"name": "", "arguments": {}}`,
		"missing arguments": `FUNCTION_CALL: {"name": "get_weather"}`,
		"null arguments":    `FUNCTION_CALL: {"name": "get_weather", "arguments": null}`,
		"string arguments":  `FUNCTION_CALL: {"name": "get_weather", "arguments": "beijing"}`,
		"not an object":     `FUNCTION_CALL: ["get_weather"]`,
		"trailing prose":    `FUNCTION_CALL: {"name": "get_weather", "arguments": {}} as requested`,
	}
	for name, text := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeFunctionCall(text)
			var malformed *MalformedFunctionCallError
			if !errors.As(err, &malformed) {
				t.Fatalf("expected MalformedFunctionCallError, got %v", err)
			}
			if _, ok := ParseFunctionCall(text); ok {
				t.Error("malformed call must be reported as no call")
			}
		})
	}
}

func TestDecodeFunctionCallNoMarker(t *testing.T) {
	_, err := DecodeFunctionCall("function_call: lowercase does not count")
	if !errors.Is(err, ErrNoFunctionCall) {
		t.Fatalf("expected ErrNoFunctionCall, got %v", err)
	}
}

func TestDecodeFunctionCallFirstMarkerWins(t *testing.T) {
	text := "FUNCTION_CALL: {\"name\":\"a\",\"arguments\":{}}\nFUNCTION_CALL: {\"name\":\"b\",\"arguments\":{}}"
	call, err := DecodeFunctionCall(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if call.Name != "a" {
		t.Errorf("expected first call, got %q", call.Name)
	}
}

func TestFunctionCallJSON(t *testing.T) {
	call := FunctionCall{Name: "get_weather", Arguments: map[string]any{"city": "shenzhen"}}
	want := `{"name":"get_weather","arguments":{"city":"shenzhen"}}`
	if got := call.JSON(); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}
