package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	for _, name := range []string{"", "info", "DEBUG", "warn", "warning", "error", "trace"} {
		if _, err := ParseLevel(name); err != nil {
			t.Errorf("ParseLevel(%q) unexpected error: %v", name, err)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestInitRejectsUnknownLevel(t *testing.T) {
	if err := Init(Options{Level: "chatty"}); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestLogShapes(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(Options{Level: "debug", Output: &buf}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer Init(DefaultOptions())

	L_info("plain message")
	L_warn("attempt %d/%d failed", 1, 2)
	L_debug("structured", "provider", "deepseek")

	out := buf.String()
	for _, want := range []string{"plain message", "attempt 1/2 failed", "provider=deepseek"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in log output, got:\n%s", want, out)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(Options{Level: "error", Output: &buf}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer Init(DefaultOptions())

	L_info("hidden")
	L_error("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message should be filtered at error level: %s", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("expected error message in output: %s", out)
	}
}

func TestHasFmtVerb(t *testing.T) {
	if !hasFmtVerb("value %v") {
		t.Errorf("expected %%v to be detected")
	}
	if hasFmtVerb("100%% done") {
		t.Error("escaped percent is not a verb")
	}
	if hasFmtVerb("no verbs here") {
		t.Error("expected no verb")
	}
}
