// Package sanitize removes non-finite numbers from values crossing the JSON boundary.
//
// Value replaces NaN and ±Inf floats with nil anywhere inside a value tree, so
// encoding/json never fails with an "unsupported value" error. JSON performs the
// inbound counterpart on raw bodies, rewriting the bare NaN and Infinity tokens
// some servers emit into null so the body decodes.
package sanitize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strings"
)

var marshalerType = reflect.TypeFor[json.Marshaler]()

// Value returns v with every non-finite float replaced by nil.
// Slices, arrays, maps, pointers and structs are walked recursively. Values
// that hold no non-finite float are returned unchanged; the rest are rebuilt
// as []any or map[string]any, structs keyed by their JSON field names. Types
// implementing json.Marshaler are left to their own encoding. The input is
// never mutated.
func Value(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case float64:
		if !finite(x) {
			return nil
		}
		return x
	case float32:
		if !finite(float64(x)) {
			return nil
		}
		return x
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = Value(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = Value(e)
		}
		return out
	}

	rv := reflect.ValueOf(v)
	if Clean(v) {
		return v
	}
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return nil
	case reflect.Pointer, reflect.Interface:
		return Value(rv.Elem().Interface())
	case reflect.Struct:
		out := make(map[string]any, rv.NumField())
		structFields(out, rv, false)
		return out
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = Value(rv.Index(i).Interface())
		}
		return out
	case reflect.Map:
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[mapKey(iter.Key())] = Value(iter.Value().Interface())
		}
		return out
	default:
		return v
	}
}

// Clean reports whether v holds no non-finite float.
func Clean(v any) bool {
	if v == nil {
		return true
	}
	return clean(reflect.ValueOf(v))
}

func clean(rv reflect.Value) bool {
	if rv.Kind() != reflect.Interface && rv.Type().Implements(marshalerType) {
		return true
	}
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return finite(rv.Float())
	case reflect.Interface, reflect.Pointer:
		if rv.IsNil() {
			return true
		}
		return clean(rv.Elem())
	case reflect.Struct:
		t := rv.Type()
		for i := range t.NumField() {
			if _, skip := jsonField(t.Field(i)); skip {
				continue
			}
			if !clean(rv.Field(i)) {
				return false
			}
		}
		return true
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			return true
		}
		for i := range rv.Len() {
			if !clean(rv.Index(i)) {
				return false
			}
		}
		return true
	case reflect.Map:
		iter := rv.MapRange()
		for iter.Next() {
			if !clean(iter.Value()) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// structFields adds the JSON-visible fields of rv to out. Promoted fields of
// embedded structs never replace a field set by the outer struct.
func structFields(out map[string]any, rv reflect.Value, promoted bool) {
	t := rv.Type()
	for i := range t.NumField() {
		f := t.Field(i)
		name, skip := jsonField(f)
		if skip {
			continue
		}
		fv := rv.Field(i)
		if f.Anonymous && name == "" {
			ev := fv
			if ev.Kind() == reflect.Pointer {
				if ev.IsNil() {
					continue
				}
				ev = ev.Elem()
			}
			if ev.Kind() == reflect.Struct {
				structFields(out, ev, true)
				continue
			}
		}
		// Fields promoted through unexported embedded types are not readable.
		if !fv.CanInterface() {
			continue
		}
		if name == "" {
			name = f.Name
		}
		if strings.Contains(f.Tag.Get("json"), ",omitempty") && emptyValue(fv) {
			continue
		}
		if _, taken := out[name]; promoted && taken {
			continue
		}
		out[name] = Value(fv.Interface())
	}
}

// jsonField returns the tag name of f and whether encoding/json ignores it.
func jsonField(f reflect.StructField) (string, bool) {
	tag := f.Tag.Get("json")
	if tag == "-" {
		return "", true
	}
	name, _, _ := strings.Cut(tag, ",")
	if !f.IsExported() && !f.Anonymous {
		return name, true
	}
	return name, false
}

func emptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Interface, reflect.Pointer:
		return v.IsZero()
	default:
		return false
	}
}

func mapKey(k reflect.Value) string {
	if k.Kind() == reflect.String {
		return k.String()
	}
	return fmt.Sprint(k.Interface())
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

var (
	tokNaN     = []byte("NaN")
	tokInf     = []byte("Infinity")
	tokNegInf  = []byte("-Infinity")
	tokNull    = []byte("null")
	quickCheck = [][]byte{tokNaN, tokInf}
)

// JSON rewrites bare NaN, Infinity and -Infinity tokens outside string
// literals to null. Input without such tokens is returned as is.
func JSON(data []byte) []byte {
	found := false
	for _, tok := range quickCheck {
		if bytes.Contains(data, tok) {
			found = true
			break
		}
	}
	if !found {
		return data
	}

	out := make([]byte, 0, len(data))
	inString, escaped := false, false
	for i := 0; i < len(data); i++ {
		c := data[i]
		if inString {
			out = append(out, c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		rest := data[i:]
		switch {
		case c == '"':
			inString = true
			out = append(out, c)
		case bytes.HasPrefix(rest, tokNegInf):
			out = append(out, tokNull...)
			i += len(tokNegInf) - 1
		case bytes.HasPrefix(rest, tokInf):
			out = append(out, tokNull...)
			i += len(tokInf) - 1
		case bytes.HasPrefix(rest, tokNaN):
			out = append(out, tokNull...)
			i += len(tokNaN) - 1
		default:
			out = append(out, c)
		}
	}
	return out
}
