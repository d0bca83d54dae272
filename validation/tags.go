package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"
)

// Struct tags read by FieldsFor.
const (
	tagJSON     = "json"
	tagQuery    = "query"
	tagParam    = "param"
	tagHeader   = "header"
	tagValidate = "validate"
	tagPattern  = "pattern"
)

var timeType = reflect.TypeOf(time.Time{})

// FieldsOf derives fields from the struct type T. It panics on an invalid pattern tag
// and is meant for declaration time.
func FieldsOf[T any](src Source) []Field {
	var zero T
	fields, err := FieldsFor(reflect.TypeOf(zero), src)
	if err != nil {
		panic(err)
	}
	return fields
}

// FieldsFor derives a field list from struct tags:
//
//   - body fields use the json name (fields tagged query, param or header are skipped);
//     query fields are those tagged `query:"name"`
//   - `validate:"required"` marks the field required (omitempty wins)
//   - `pattern:"regex"` sets Match on string fields
//   - the Go kind selects the type; nested structs and slices of structs become Nested
//
// A struct type already being expanded higher up gets no nested fields. Non-struct
// types yield no fields.
func FieldsFor(t reflect.Type, src Source) ([]Field, error) {
	return fieldsFor(t, src, make(map[reflect.Type]bool))
}

// fieldsFor expands t. path holds the struct types on the current expansion path.
func fieldsFor(t reflect.Type, src Source, path map[reflect.Type]bool) ([]Field, error) {
	if t == nil {
		return nil, nil
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, nil
	}
	if path[t] {
		return nil, nil
	}
	path[t] = true
	defer delete(path, t)

	var fields []Field
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}

		name, ok := fieldName(sf, src)
		if !ok {
			continue
		}

		f := Field{
			Name:     name,
			Type:     kindType(sf.Type),
			Required: isRequired(sf.Tag.Get(tagValidate)),
		}

		if pattern := sf.Tag.Get(tagPattern); pattern != "" {
			re, err := regexp.Compile(pattern)
			if err != nil {
				return nil, fmt.Errorf("validation: field %s has invalid pattern: %w", sf.Name, err)
			}
			f.Match = re
		}

		if src == SourceBody {
			nested, err := nestedFields(sf.Type, path)
			if err != nil {
				return nil, err
			}
			f.Nested = nested
		}

		fields = append(fields, f)
	}
	return fields, nil
}

func fieldName(sf reflect.StructField, src Source) (string, bool) {
	if src == SourceQuery {
		q := sf.Tag.Get(tagQuery)
		return q, q != ""
	}

	if sf.Tag.Get(tagQuery) != "" || sf.Tag.Get(tagParam) != "" || sf.Tag.Get(tagHeader) != "" {
		return "", false
	}

	name := sf.Name
	if tag := sf.Tag.Get(tagJSON); tag != "" {
		parts := strings.Split(tag, ",")
		switch parts[0] {
		case "-":
			return "", false
		case "":
		default:
			name = parts[0]
		}
	}
	return name, true
}

func isRequired(validate string) bool {
	required := false
	for _, part := range strings.Split(validate, ",") {
		switch strings.TrimSpace(part) {
		case "omitempty":
			return false
		case "required":
			required = true
		}
	}
	return required
}

func kindType(t reflect.Type) Type {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == timeType {
		return TypeString
	}
	switch t.Kind() {
	case reflect.String:
		return TypeString
	case reflect.Bool:
		return TypeBoolean
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return TypeNumber
	case reflect.Struct, reflect.Map:
		return TypeObject
	case reflect.Slice, reflect.Array:
		return TypeArray
	default:
		return TypeAny
	}
}

func nestedFields(t reflect.Type, path map[reflect.Type]bool) ([]Field, error) {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == timeType {
		return nil, nil
	}
	switch t.Kind() {
	case reflect.Struct:
		return fieldsFor(t, SourceBody, path)
	case reflect.Slice, reflect.Array:
		elem := t.Elem()
		if elem.Kind() == reflect.Pointer {
			elem = elem.Elem()
		}
		if elem.Kind() == reflect.Struct {
			return fieldsFor(elem, SourceBody, path)
		}
	}
	return nil, nil
}
