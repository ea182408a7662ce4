package payload

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestFormatNilPayload(t *testing.T) {
	if got := Format(nil); got != NoPayloadMessage {
		t.Fatalf("Format(nil) = %q", got)
	}
}

func TestFormatSortedKeysAndIndent(t *testing.T) {
	got := Format(map[string]any{
		"steps":  int64(20),
		"prompt": "a cat",
		"cfg":    7.0,
	})

	cfgIdx := strings.Index(got, `"cfg"`)
	promptIdx := strings.Index(got, `"prompt"`)
	stepsIdx := strings.Index(got, `"steps"`)
	if cfgIdx < 0 || promptIdx < 0 || stepsIdx < 0 {
		t.Fatalf("missing keys in output: %s", got)
	}
	if !(cfgIdx < promptIdx && promptIdx < stepsIdx) {
		t.Fatalf("keys not sorted: %s", got)
	}
	if !strings.Contains(got, "\n    \"cfg\"") {
		t.Fatalf("expected 4-space indent: %s", got)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	in := map[string]any{
		"prompt": "a cat",
		"seed":   float64(-1),
		"nested": map[string]any{"enabled": true},
	}
	encoded, err := Encode(in)
	if err != nil {
		t.Fatal(err)
	}

	var out map[string]any
	if err := json.Unmarshal(encoded, &out); err != nil {
		t.Fatal(err)
	}
	if out["prompt"] != "a cat" || out["seed"] != float64(-1) {
		t.Fatalf("round trip mismatch: %#v", out)
	}
	nested, ok := out["nested"].(map[string]any)
	if !ok || nested["enabled"] != true {
		t.Fatalf("nested round trip mismatch: %#v", out["nested"])
	}
}

func TestFailurePayload(t *testing.T) {
	got := Failure(errors.New("schema exploded"), []byte("goroutine 1 [running]:\nmain.main()"))
	if got["error"] != "schema exploded" {
		t.Fatalf("unexpected error field: %#v", got["error"])
	}
	stack, _ := got["stack"].(string)
	if !strings.Contains(stack, "goroutine") {
		t.Fatalf("unexpected stack field: %#v", got["stack"])
	}

	if Failure(nil, nil)["error"] != "unknown failure" {
		t.Fatal("expected fallback message for nil error")
	}
}
