package payload

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"math"
	"reflect"
	"strings"
)

// Options controls value coercion during payload construction.
type Options struct {
	// IncludeImages embeds image buffers as base64 PNG data URLs instead of
	// the placeholder token.
	IncludeImages bool
}

// ImageBuffer wraps encoded PNG bytes received from the host.
type ImageBuffer []byte

// DataURL renders the buffer as a data URL suitable for API replay.
func (b ImageBuffer) DataURL() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(b)
}

// maxDepth bounds recursion so pathological nesting degrades to null
// instead of exhausting the stack.
const maxDepth = 64

// Normalize coerces any value into a JSON-encodable one. It is total: maps
// and sequences are recursed, named scalar types collapse to their
// underlying value, image buffers become data URLs or the placeholder,
// structs become field mappings, non-finite numbers and everything
// unrecognized (cycles included) become null. Its output normalizes to
// itself.
func Normalize(value any, opts Options) any {
	return normalize(value, opts, make(map[uintptr]struct{}), 0)
}

func normalize(value any, opts Options, seen map[uintptr]struct{}, depth int) any {
	if value == nil || depth > maxDepth {
		return nil
	}

	switch v := value.(type) {
	case ImageBuffer:
		if opts.IncludeImages {
			return v.DataURL()
		}
		return ImagePlaceholder
	case image.Image:
		if !opts.IncludeImages {
			return ImagePlaceholder
		}
		return encodeImage(v)
	case json.Number:
		return normalizeNumber(v)
	case error:
		return v.Error()
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.String:
		return rv.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint()
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		return f
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return normalize(ImageBuffer(rv.Bytes()), opts, seen, depth+1)
		}
		if !visit(rv, seen) {
			return nil
		}
		defer leave(rv, seen)
		return normalizeSequence(rv, opts, seen, depth)
	case reflect.Array:
		return normalizeSequence(rv, opts, seen, depth)
	case reflect.Map:
		if !visit(rv, seen) {
			return nil
		}
		defer leave(rv, seen)
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			key := fmt.Sprint(iter.Key().Interface())
			out[key] = normalize(iter.Value().Interface(), opts, seen, depth+1)
		}
		return out
	case reflect.Struct:
		return normalizeStruct(rv, opts, seen, depth)
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		if rv.Kind() == reflect.Pointer && !visit(rv, seen) {
			return nil
		}
		if rv.Kind() == reflect.Pointer {
			defer leave(rv, seen)
		}
		return normalize(rv.Elem().Interface(), opts, seen, depth+1)
	default:
		// chan, func, complex, unsafe pointers
		return nil
	}
}

func normalizeSequence(rv reflect.Value, opts Options, seen map[uintptr]struct{}, depth int) []any {
	out := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out[i] = normalize(rv.Index(i).Interface(), opts, seen, depth+1)
	}
	return out
}

func normalizeStruct(rv reflect.Value, opts Options, seen map[uintptr]struct{}, depth int) map[string]any {
	rt := rv.Type()
	out := make(map[string]any, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		name := field.Name
		if tag, ok := field.Tag.Lookup("json"); ok {
			tagName, _, _ := strings.Cut(tag, ",")
			if tagName == "-" {
				continue
			}
			if tagName != "" {
				name = tagName
			}
		}
		out[name] = normalize(rv.Field(i).Interface(), opts, seen, depth+1)
	}
	return out
}

func normalizeNumber(n json.Number) any {
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		return f
	}
	return n.String()
}

func visit(rv reflect.Value, seen map[uintptr]struct{}) bool {
	ptr := rv.Pointer()
	if ptr == 0 {
		return true
	}
	if _, ok := seen[ptr]; ok {
		return false
	}
	seen[ptr] = struct{}{}
	return true
}

func leave(rv reflect.Value, seen map[uintptr]struct{}) {
	if ptr := rv.Pointer(); ptr != 0 {
		delete(seen, ptr)
	}
}

func encodeImage(img image.Image) any {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil
	}
	return ImageBuffer(buf.Bytes()).DataURL()
}
