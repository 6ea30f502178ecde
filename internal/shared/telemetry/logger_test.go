package telemetry

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
)

func TestErrorFieldsAreStringified(t *testing.T) {
	var buf bytes.Buffer
	prev := SetOutput(&buf)
	defer SetOutput(prev)

	Error("cleanup.delete_failed", map[string]any{"key": "essay.txt", "err": errors.New("boom")})

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if payload["level"] != "error" || payload["msg"] != "cleanup.delete_failed" {
		t.Fatalf("unexpected header fields: %v", payload)
	}
	if payload["err"] != "boom" {
		t.Fatalf("expected err to be rendered as string, got %v", payload["err"])
	}
	if _, ok := payload["ts"]; !ok {
		t.Fatalf("missing ts")
	}
}
