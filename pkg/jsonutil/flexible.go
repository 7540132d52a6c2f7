package jsonutil

import (
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"
)

// KeyValue is one member of a JSON object, kept in source order.
type KeyValue struct {
	Key   string
	Value string
}

// Field returns the member called name of an object without interpreting name as a
// gjson path. DTDL keywords such as "@id" collide with gjson modifier syntax.
func Field(obj gjson.Result, name string) gjson.Result {
	var found gjson.Result
	if !obj.IsObject() {
		return found
	}
	obj.ForEach(func(key, value gjson.Result) bool {
		if key.String() == name {
			found = value
			return false
		}
		return true
	})
	return found
}

// FlexibleStringValue converts a scalar to a string, accepting numbers and booleans where
// a string is expected. Returns empty string for null/missing values.
func FlexibleStringValue(r gjson.Result) string {
	switch r.Type {
	case gjson.Null:
		return ""
	case gjson.String:
		return r.Str
	case gjson.Number:
		if r.Num == float64(int64(r.Num)) {
			return strconv.FormatInt(r.Int(), 10)
		}
		return strconv.FormatFloat(r.Num, 'g', -1, 64)
	case gjson.True:
		return "true"
	case gjson.False:
		return "false"
	default:
		// Fallback: raw representation
		return r.Raw
	}
}

// StringList accepts either a single string or an array of strings.
func StringList(r gjson.Result) []string {
	if !r.Exists() || r.Type == gjson.Null {
		return nil
	}
	if !r.IsArray() {
		return []string{FlexibleStringValue(r)}
	}
	var result []string
	for _, item := range r.Array() {
		result = append(result, FlexibleStringValue(item))
	}
	return result
}

// StringOrObject accepts either a plain string, returned under defaultKey, or an object
// of string members, returned in source order.
func StringOrObject(r gjson.Result, defaultKey string) []KeyValue {
	switch {
	case !r.Exists() || r.Type == gjson.Null:
		return nil
	case r.IsObject():
		var result []KeyValue
		r.ForEach(func(key, value gjson.Result) bool {
			result = append(result, KeyValue{Key: key.String(), Value: FlexibleStringValue(value)})
			return true
		})
		return result
	default:
		return []KeyValue{{Key: defaultKey, Value: FlexibleStringValue(r)}}
	}
}

// OptionalInt returns nil for a missing value and an error for a non-integer one.
func OptionalInt(r gjson.Result) (*int, error) {
	if !r.Exists() || r.Type == gjson.Null {
		return nil, nil
	}
	if r.Type != gjson.Number || r.Num != float64(int64(r.Num)) {
		return nil, fmt.Errorf("expected an integer, got %s", r.Raw)
	}
	v := int(r.Int())
	return &v, nil
}

// OptionalBool returns false for a missing value and an error for a non-boolean one.
func OptionalBool(r gjson.Result) (bool, error) {
	switch r.Type {
	case gjson.Null:
		return false, nil
	case gjson.True:
		return true, nil
	case gjson.False:
		return false, nil
	default:
		return false, fmt.Errorf("expected a boolean, got %s", r.Raw)
	}
}
