package audit

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// MaxDetailsSize bounds the serialized size of any event details, in bytes.
const MaxDetailsSize = 2048

// SanitizeDetails converts an arbitrary action-detail payload into a flat,
// bounded, log-safe shape. The result is one of:
//   - nil, for empty or unsupported input (arrays included: audit details
//     are named fields, not ordered lists)
//   - a string of at most MaxDetailsSize bytes, hard-truncated
//   - a flat map keeping only primitive-valued entries, with structured
//     values coerced to their string form
//
// When a map still serializes above the bound after filtering, the whole map
// collapses to its truncated JSON string rather than silently dropping
// fields.
func SanitizeDetails(raw any) any {
	if raw == nil {
		return nil
	}
	if s, ok := raw.(string); ok {
		return truncate(s)
	}

	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil
	}

	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		v, keep := flatValue(iter.Value().Interface())
		if !keep {
			continue
		}
		out[iter.Key().String()] = v
	}
	if len(out) == 0 {
		return nil
	}

	serialized, err := json.Marshal(out)
	if err != nil {
		return nil
	}
	if len(serialized) > MaxDetailsSize {
		return truncate(string(serialized))
	}
	return out
}

// flatValue keeps primitives, drops functions and channels, and coerces
// everything else (times, nested structures) to its string form.
func flatValue(v any) (any, bool) {
	if v == nil {
		return nil, true
	}
	switch v.(type) {
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64, json.Number:
		return v, true
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Func, reflect.Chan:
		return nil, false
	default:
		return fmt.Sprintf("%v", v), true
	}
}

func truncate(s string) string {
	if len(s) > MaxDetailsSize {
		return s[:MaxDetailsSize]
	}
	return s
}
