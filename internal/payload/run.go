package payload

import (
	"fmt"
	"strings"
)

// Mode identifies which generation pipeline produced a run.
type Mode string

const (
	ModeTxt2Img Mode = "txt2img"
	ModeImg2Img Mode = "img2img"
)

// ParseMode validates a mode string received from the host.
func ParseMode(value string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(value))) {
	case ModeTxt2Img:
		return ModeTxt2Img, nil
	case ModeImg2Img:
		return ModeImg2Img, nil
	default:
		return "", fmt.Errorf("unknown mode %q", value)
	}
}

// ScriptRef describes one script registered with the host's script runner
// and the slice of the flat argument list that belongs to it.
type ScriptRef struct {
	Title    string `json:"title"`
	Filename string `json:"filename"`
	ArgsFrom int    `json:"args_from"`
	ArgsTo   int    `json:"args_to"`
}

// Key returns the lowercased identifier the host uses for the script:
// its title, or the script filename when the title is empty.
func (s ScriptRef) Key() string {
	title := strings.TrimSpace(s.Title)
	if title == "" {
		title = baseName(s.Filename)
	}
	return strings.ToLower(title)
}

func baseName(path string) string {
	if idx := strings.LastIndexAny(path, `/\`); idx >= 0 {
		return path[idx+1:]
	}
	return path
}

// Run is a host run-configuration snapshot: the per-run generation
// parameters as attribute name to value, plus script runner state.
type Run struct {
	Mode Mode `json:"mode"`

	// Fields holds the run-configuration attributes keyed by schema name.
	Fields map[string]any `json:"fields"`

	// ScriptArgs is the host's flat script argument list. Index 0 selects
	// the sub-script; per-script slices are addressed by ScriptRef bounds.
	ScriptArgs []any `json:"script_args"`

	SelectableScripts []ScriptRef `json:"selectable_scripts"`
	AlwaysOnScripts   []ScriptRef `json:"alwayson_scripts"`
}

// Field returns a run-configuration attribute and whether it is present.
func (r *Run) Field(name string) (any, bool) {
	if r == nil || r.Fields == nil {
		return nil, false
	}
	value, ok := r.Fields[name]
	return value, ok
}

func (r *Run) floatField(name string) float64 {
	value, ok := r.Field(name)
	if !ok {
		return 0
	}
	switch v := value.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
}

func (r *Run) argsSlice(ref ScriptRef) []any {
	from, to := ref.ArgsFrom, ref.ArgsTo
	if from < 0 {
		from = 0
	}
	if to > len(r.ScriptArgs) {
		to = len(r.ScriptArgs)
	}
	if from >= to {
		return []any{}
	}
	out := make([]any, to-from)
	copy(out, r.ScriptArgs[from:to])
	return out
}
