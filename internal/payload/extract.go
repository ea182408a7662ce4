package payload

// ImagePlaceholder substitutes for image data whenever raw buffers must not
// land in a payload. The value matches what the replay tooling expects.
const ImagePlaceholder = "base64image placeholder"

// Build reconstructs the API request payload for a run and coerces it into
// JSON-safe values. Missing fields are skipped; nothing here fails.
func Build(run *Run, opts Options) map[string]any {
	raw := extract(run)
	normalized := Normalize(raw, opts)
	if m, ok := normalized.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

func extract(run *Run) map[string]any {
	result := map[string]any{}
	if run == nil {
		return result
	}

	mergeSelectableScript(result, run)
	mergeAlwaysOnScripts(result, run)
	result["seed_enable_extras"] = seedEnableExtras(run)

	for _, name := range SchemaFields(run.Mode) {
		if _, done := result[name]; done {
			continue
		}
		if _, excluded := excludedSchemaFields[name]; excluded {
			continue
		}
		value, ok := run.Field(name)
		if !ok || value == nil {
			continue
		}
		if run.Mode == ModeImg2Img && name == "init_images" {
			// Image lists never pass through raw; the normalizer decides
			// between data URLs and the placeholder per buffer.
			if _, isList := value.([]any); isList {
				value = []any{ImagePlaceholder}
			}
		}
		result[name] = value
	}

	return result
}

// mergeSelectableScript records which mutually-exclusive sub-script the run
// selected. Index 0 means none.
func mergeSelectableScript(result map[string]any, run *Run) {
	index := selectionIndex(run)
	if index <= 0 || index > len(run.SelectableScripts) {
		result["script_name"] = nil
		result["script_args"] = []any{}
		return
	}
	script := run.SelectableScripts[index-1]
	result["script_name"] = script.Key()
	result["script_args"] = run.argsSlice(script)
}

func selectionIndex(run *Run) int {
	if len(run.ScriptArgs) == 0 {
		return 0
	}
	switch v := run.ScriptArgs[0].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

func mergeAlwaysOnScripts(result map[string]any, run *Run) {
	scripts := map[string]any{}
	for _, script := range run.AlwaysOnScripts {
		scripts[script.Key()] = map[string]any{"args": run.argsSlice(script)}
	}
	result["alwayson_scripts"] = scripts
}

// seedEnableExtras reports whether the run uses non-default seed-resize
// extras and therefore needs the extras panel enabled on replay.
func seedEnableExtras(run *Run) bool {
	return !(run.floatField("subseed") == -1 &&
		run.floatField("subseed_strength") == 0 &&
		run.floatField("seed_resize_from_h") == 0 &&
		run.floatField("seed_resize_from_w") == 0)
}
