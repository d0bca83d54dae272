package validation

import (
	"encoding/json"
	"math"
	"reflect"
	"strconv"
)

const (
	queryTrue  = "true"
	queryFalse = "false"
)

// ValidateBody validates a decoded request body against fields.
// The body must be a JSON object. It returns nil on success or the first *Error found.
func ValidateBody(body any, fields []Field) error {
	if err := validateObject(body, fields); err != nil {
		return err
	}
	return nil
}

// ValidateQuery validates query parameters against fields. Query values are always
// strings, so booleans must be the literal "true" or "false" and numbers must parse.
func ValidateQuery(query map[string]string, fields []Field) error {
	for _, f := range fields {
		value, present := query[f.Name]

		if f.IsBare() {
			if value == "" {
				return missing(SourceQuery, f.Name)
			}
			continue
		}

		if !present {
			if f.Required {
				return missing(SourceQuery, f.Name)
			}
			continue
		}

		switch f.Type {
		case TypeAny:
		case TypeString:
			if f.Match != nil && !f.Match.MatchString(value) {
				return invalidValue(SourceQuery, f.Name)
			}
		case TypeNumber:
			if _, ok := parseFinite(value); !ok {
				return invalidType(SourceQuery, f.Name)
			}
		case TypeBoolean:
			if value != queryTrue && value != queryFalse {
				return invalidType(SourceQuery, f.Name)
			}
		default:
			return invalidType(SourceQuery, f.Name)
		}
	}
	return nil
}

func validateObject(value any, fields []Field) *Error {
	obj, ok := asObject(value)
	if !ok {
		return &Error{Reason: ReasonInvalidBody, Source: SourceBody}
	}

	for _, f := range fields {
		if err := validateField(obj, f); err != nil {
			return err
		}
	}
	return nil
}

//nolint:gocyclo // one branch per field type keeps the rules readable
func validateField(obj map[string]any, f Field) *Error {
	value, present := obj[f.Name]

	if f.IsBare() {
		if !present || !truthy(value) {
			return missing(SourceBody, f.Name)
		}
		return nil
	}

	if !present {
		if f.Required {
			return missing(SourceBody, f.Name)
		}
		return nil
	}

	switch f.Type {
	case TypeAny:
		return nil
	case TypeString:
		s, ok := value.(string)
		if !ok {
			return invalidType(SourceBody, f.Name)
		}
		if f.Match != nil && !f.Match.MatchString(s) {
			return invalidValue(SourceBody, f.Name)
		}
	case TypeNumber:
		if _, ok := asFinite(value); !ok {
			return invalidType(SourceBody, f.Name)
		}
	case TypeBoolean:
		if _, ok := value.(bool); !ok {
			return invalidType(SourceBody, f.Name)
		}
	case TypeObject:
		if _, ok := asObject(value); !ok {
			return invalidType(SourceBody, f.Name)
		}
		if f.Nested != nil {
			return validateObject(value, f.Nested)
		}
	case TypeArray:
		items, ok := asSlice(value)
		if !ok {
			return invalidType(SourceBody, f.Name)
		}
		if f.Nested != nil {
			for _, item := range items {
				if err := validateObject(item, f.Nested); err != nil {
					return err
				}
			}
		}
	default:
		return invalidType(SourceBody, f.Name)
	}
	return nil
}

// truthy follows the shorthand rule: nil, "", zero numbers, NaN and false are falsy.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case json.Number:
		f, err := x.Float64()
		return err == nil && f != 0 && !math.IsNaN(f)
	}

	if f, ok := asFloat(v); ok {
		return f != 0 && !math.IsNaN(f)
	}
	return true
}

func asFinite(v any) (float64, bool) {
	if n, ok := v.(json.Number); ok {
		return parseFinite(n.String())
	}
	f, ok := asFloat(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func asFloat(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	default:
		return 0, false
	}
}

func parseFinite(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// asObject accepts map[string]any and any other string-keyed map. Other maps are
// copied, never modified.
func asObject(v any) (map[string]any, bool) {
	if m, ok := v.(map[string]any); ok {
		return m, m != nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.IsNil() || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

func asSlice(v any) ([]any, bool) {
	if s, ok := v.([]any); ok {
		return s, s != nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	if rv.Kind() == reflect.Slice && rv.IsNil() {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
