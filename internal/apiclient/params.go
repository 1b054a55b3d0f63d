package apiclient

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
)

// EncodeParams flattens query parameters the way the console server expects:
// nested maps become key[sub]=v, slices repeat the key, and nil or empty-string
// values are dropped.
func EncodeParams(params map[string]any) string {
	values := url.Values{}
	for key, v := range params {
		addParam(values, key, v, true)
	}
	return values.Encode()
}

func addParam(values url.Values, key string, v any, nest bool) {
	if skipParam(v) {
		return
	}
	switch x := v.(type) {
	case map[string]any:
		if !nest {
			values.Add(key, fmt.Sprint(x))
			return
		}
		for sub, sv := range x {
			addParam(values, key+"["+sub+"]", sv, false)
		}
		return
	case map[string]string:
		if !nest {
			values.Add(key, fmt.Sprint(x))
			return
		}
		for sub, sv := range x {
			addParam(values, key+"["+sub+"]", sv, false)
		}
		return
	}

	rv := reflect.ValueOf(v)
	if (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) && rv.Type().Elem().Kind() != reflect.Uint8 {
		for i := range rv.Len() {
			if e := rv.Index(i).Interface(); !skipParam(e) {
				values.Add(key, formatScalar(e))
			}
		}
		return
	}
	values.Add(key, formatScalar(v))
}

func skipParam(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok && s == "" {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

func formatScalar(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(x)
	case fmt.Stringer:
		return x.String()
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		return formatScalar(rv.Elem().Interface())
	}
	return fmt.Sprint(v)
}
