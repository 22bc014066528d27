// Package formdata walks the loosely shaped JSON produced by the external form
// builder. Values are the generic result of decoding with json.Decoder and
// UseNumber: map[string]any, []any, string, json.Number, bool or nil.
//
// Every accessor tolerates missing keys and unexpected shapes; absence is
// reported through the second return value instead of an error.
package formdata

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Object returns v as a JSON object.
func Object(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

// List returns v as a JSON array.
func List(v any) ([]any, bool) {
	l, ok := v.([]any)
	return l, ok
}

// Get follows path through nested objects. It reports false as soon as a
// segment is missing or the value at that point is not an object.
func Get(v any, path ...string) (any, bool) {
	current := v
	for _, key := range path {
		obj, ok := Object(current)
		if !ok {
			return nil, false
		}
		current, ok = obj[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// First returns the value of the first key in keys present on the object v.
// Keys holding JSON null count as absent.
func First(v any, keys ...string) (any, bool) {
	obj, ok := Object(v)
	if !ok {
		return nil, false
	}
	for _, key := range keys {
		if value, ok := obj[key]; ok && value != nil {
			return value, true
		}
	}
	return nil, false
}

// ObjectAt returns the object at path, or an empty object when the path is
// missing or holds something else.
func ObjectAt(v any, path ...string) map[string]any {
	value, _ := Get(v, path...)
	if obj, ok := Object(value); ok {
		return obj
	}
	return map[string]any{}
}

// FirstObject returns the first object found under keys, tried in order.
// Keys that are missing, null or hold something other than an object are
// skipped. The result is an empty object when nothing matches.
func FirstObject(v any, keys ...string) map[string]any {
	for _, key := range keys {
		if obj, ok := Object(ObjectAt(v)[key]); ok {
			return obj
		}
	}
	return map[string]any{}
}

// ListAt returns the array at path.
func ListAt(v any, path ...string) ([]any, bool) {
	value, ok := Get(v, path...)
	if !ok {
		return nil, false
	}
	return List(value)
}

// Coerce normalizes an untrusted form value into a non-empty string or nil.
//
// Arrays (multi-select answers) keep only their scalar elements, joined with
// a comma. Scalars are cast to string. Blank results, "0" and anything that is
// neither scalar nor array collapse to nil.
func Coerce(v any) *string {
	var s string
	switch value := v.(type) {
	case []any:
		parts := make([]string, 0, len(value))
		for _, item := range value {
			if str, ok := scalarString(item); ok {
				parts = append(parts, str)
			}
		}
		s = strings.Join(parts, ",")
	default:
		str, ok := scalarString(value)
		if !ok {
			return nil
		}
		s = str
	}

	s = strings.TrimSpace(s)
	if s == "" || s == "0" {
		return nil
	}
	return &s
}

// CoerceAt is Coerce applied to the value found at path.
func CoerceAt(v any, path ...string) *string {
	value, ok := Get(v, path...)
	if !ok {
		return nil
	}
	return Coerce(value)
}

// TextAt returns the scalar at path exactly as delivered, without trimming.
// Identity values such as entry numbers go through here so that "7" and "7 "
// stay distinct. Blank values, "0" and non-scalars read as "".
func TextAt(v any, path ...string) string {
	value, ok := Get(v, path...)
	if !ok {
		return ""
	}
	s, ok := scalarString(value)
	if !ok {
		return ""
	}
	if trimmed := strings.TrimSpace(s); trimmed == "" || trimmed == "0" {
		return ""
	}
	return s
}

// Present reports whether the value at path coerces to a non-empty string.
func Present(v any, path ...string) bool {
	return CoerceAt(v, path...) != nil
}

// String dereferences a coerced value, returning "" for nil.
func String(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// scalarString casts JSON scalars to their string form. Booleans follow the
// form builder's convention: true is "1", false is empty.
func scalarString(v any) (string, bool) {
	switch value := v.(type) {
	case string:
		return value, true
	case json.Number:
		return value.String(), true
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64), true
	case int:
		return strconv.Itoa(value), true
	case int64:
		return strconv.FormatInt(value, 10), true
	case bool:
		if value {
			return "1", true
		}
		return "", true
	default:
		return "", false
	}
}

var arabicDigits = strings.NewReplacer(
	"٠", "0", "١", "1", "٢", "2", "٣", "3", "٤", "4",
	"٥", "5", "٦", "6", "٧", "7", "٨", "8", "٩", "9",
	"٫", ".",
)

// Int casts a form value to an integer, truncating fractions. Numeric strings
// may use Arabic-Indic digits. Anything non-numeric yields 0.
func Int(v any) int {
	var f float64
	switch value := v.(type) {
	case json.Number:
		parsed, err := strconv.ParseFloat(value.String(), 64)
		if err != nil {
			return 0
		}
		f = parsed
	case float64:
		f = value
	case int:
		return value
	case int64:
		return int(value)
	case string:
		normalized := strings.TrimSpace(arabicDigits.Replace(value))
		parsed, err := strconv.ParseFloat(normalized, 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}

	if math.IsNaN(f) || math.IsInf(f, 0) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0
	}
	return int(f)
}
