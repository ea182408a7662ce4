package payload

import (
	"encoding/json"
)

// NoPayloadMessage is served when no run has been captured yet.
const NoPayloadMessage = "No Payload Found"

// Format renders a payload for display: sorted keys, 4-space indent.
// encoding/json already emits map keys in sorted order.
func Format(data map[string]any) string {
	if data == nil {
		return NoPayloadMessage
	}
	encoded, err := json.MarshalIndent(data, "", "    ")
	if err != nil {
		// Normalized payloads always encode; anything else degrades to the
		// same message the UI shows for a missing payload.
		return NoPayloadMessage
	}
	return string(encoded)
}

// Encode serializes a payload for persistence as UTF-8 JSON with 4-space
// indentation.
func Encode(data map[string]any) ([]byte, error) {
	return json.MarshalIndent(data, "", "    ")
}

// Failure builds the placeholder payload served when capture fails, so the
// UI always has something to display.
func Failure(err error, stack []byte) map[string]any {
	message := "unknown failure"
	if err != nil {
		message = err.Error()
	}
	return map[string]any{
		"error": message,
		"stack": string(stack),
	}
}
