package payload

import "strings"

const (
	// sweepScriptName is the sub-script title for grid parameter sweeps.
	sweepScriptName = "x/y/z plot"
	// controlScriptSubstring identifies control-augmentation always-on scripts.
	controlScriptSubstring = "controlnet"
)

// Tag classifies a normalized payload for file naming. It returns "",
// "xyz", "cnet", or "cnet_xyz".
func Tag(data map[string]any) string {
	isXYZ := IsSweep(data)
	isCnet := hasEnabledControl(data)

	switch {
	case isXYZ && isCnet:
		return "cnet_xyz"
	case isXYZ:
		return "xyz"
	case isCnet:
		return "cnet"
	default:
		return ""
	}
}

// IsSweep reports whether the payload selected the grid-sweep sub-script.
func IsSweep(data map[string]any) bool {
	name, _ := data["script_name"].(string)
	return strings.EqualFold(strings.TrimSpace(name), sweepScriptName)
}

// hasEnabledControl reports whether any control-augmentation always-on
// script carries at least one argument block with its enabled flag set.
func hasEnabledControl(data map[string]any) bool {
	scripts, _ := data["alwayson_scripts"].(map[string]any)
	for key, entry := range scripts {
		if !strings.Contains(strings.ToLower(key), controlScriptSubstring) {
			continue
		}
		block, _ := entry.(map[string]any)
		args, _ := block["args"].([]any)
		for _, arg := range args {
			unit, ok := arg.(map[string]any)
			if !ok {
				continue
			}
			if enabled, ok := unit["enabled"].(bool); ok && enabled {
				return true
			}
		}
	}
	return false
}
