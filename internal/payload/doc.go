// Package payload reconstructs the API request body for a generation run.
//
// A Run carries the host's run-configuration attributes plus its script
// runner state. Build copies the allow-listed schema fields, reconstructs the
// sub-script and always-on script blocks, and coerces the result into
// JSON-safe values. Tag classifies a finished payload for file naming, and
// Format renders it for display with sorted keys.
package payload
