package json

import (
	"errors"
	"strings"
	"testing"
)

type TestStruct struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

func TestLineAfterMarker(t *testing.T) {
	text := "Let me check.\nCALL: {\"name\": \"x\"}  \nextra line"
	line, err := LineAfterMarker(text, "CALL:")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if line != `{"name": "x"}` {
		t.Errorf("unexpected line: %q", line)
	}
}

func TestLineAfterMarkerCRLF(t *testing.T) {
	line, err := LineAfterMarker("CALL: {}\r\nmore", "CALL:")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if line != "{}" {
		t.Errorf("expected '{}', got %q", line)
	}
}

func TestLineAfterMarkerSkipsBlankLines(t *testing.T) {
	line, err := LineAfterMarker("CALL:  \n\n  {\"a\": 1}\nnext", "CALL:")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if line != `{"a": 1}` {
		t.Errorf("expected payload from the next line, got %q", line)
	}
}

func TestLineAfterMarkerUsesFirstOccurrence(t *testing.T) {
	line, _ := LineAfterMarker("CALL: first\nCALL: second", "CALL:")
	if line != "first" {
		t.Errorf("expected 'first', got %q", line)
	}
}

func TestLineAfterMarkerMissing(t *testing.T) {
	_, err := LineAfterMarker("plain prose", "CALL:")
	if !errors.Is(err, ErrMarkerNotFound) {
		t.Fatalf("expected ErrMarkerNotFound, got %v", err)
	}
}

func TestDecodeStrict(t *testing.T) {
	result, err := DecodeStrict[TestStruct](`{"name": "test", "value": 42}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Name != "test" {
		t.Errorf("expected name 'test', got '%s'", result.Name)
	}
	if result.Value != 42 {
		t.Errorf("expected value 42, got %d", result.Value)
	}
}

func TestDecodeStrictRejectsTrailingData(t *testing.T) {
	_, err := DecodeStrict[TestStruct](`{"name": "test", "value": 42} That's the output.`)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "unexpected data") {
		t.Errorf("expected 'unexpected data' in error, got: %v", err)
	}
}

func TestDecodeStrictRejectsProsePrefix(t *testing.T) {
	if _, err := DecodeStrict[TestStruct](`Here is the result: {"name": "test"}`); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestDecodeStrictInvalidJSON(t *testing.T) {
	if _, err := DecodeStrict[TestStruct](`{"name": "test", value: }`); err == nil {
		t.Fatal("expected error, got nil")
	}
	if _, err := DecodeStrict[TestStruct](""); err == nil {
		t.Fatal("expected error for empty input, got nil")
	}
}

func TestRebind(t *testing.T) {
	var out TestStruct
	if err := Rebind(map[string]any{"name": "n", "value": 7}, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Name != "n" || out.Value != 7 {
		t.Errorf("unexpected result: %+v", out)
	}
}

func TestRebindUnknownField(t *testing.T) {
	var out TestStruct
	err := Rebind(map[string]any{"name": "n", "colour": "red"}, &out)
	if err == nil {
		t.Fatal("expected error for unknown field")
	}
	if !strings.Contains(err.Error(), "colour") {
		t.Errorf("expected field name in error, got %v", err)
	}
}

func TestCompact(t *testing.T) {
	got := Compact(map[string]any{"a": 1})
	if got != `{"a":1}` {
		t.Errorf("unexpected output: %s", got)
	}

	bad := Compact(map[string]any{"f": func() {}})
	if !strings.HasPrefix(bad, `{"error":`) {
		t.Errorf("expected error object, got %s", bad)
	}
}
