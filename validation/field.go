// Package validation checks request bodies and query strings against ordered lists of
// field schemas. Validation stops at the first failing field and reports it as an
// *Error whose message is safe to return to the client.
package validation

import "regexp"

// Type is the expected kind of a field value.
type Type string

// Supported field types. The zero Type only checks presence.
const (
	TypeAny     Type = ""
	TypeString  Type = "string"
	TypeNumber  Type = "number"
	TypeBoolean Type = "boolean"
	TypeObject  Type = "object"
	TypeArray   Type = "array"
)

// Field describes how to validate one field of a body or query value.
//
// A bare field (see Bare) only requires the value to be truthy. A structured field
// checks presence when Required, then the type. Match applies to strings only. Nested
// applies to objects (validated against the nested value) and arrays (validated
// against every element).
type Field struct {
	Name     string
	Type     Type
	Required bool
	Match    *regexp.Regexp
	Nested   []Field

	bare bool
}

// Bare returns shorthand fields: each name is required and must be truthy.
func Bare(names ...string) []Field {
	fields := make([]Field, 0, len(names))
	for _, n := range names {
		fields = append(fields, Field{Name: n, bare: true})
	}
	return fields
}

// IsBare reports whether f is a shorthand field.
func (f Field) IsBare() bool {
	return f.bare
}

// String returns a required string field.
func String(name string) Field {
	return Field{Name: name, Type: TypeString, Required: true}
}

// Number returns a required number field.
func Number(name string) Field {
	return Field{Name: name, Type: TypeNumber, Required: true}
}

// Boolean returns a required boolean field.
func Boolean(name string) Field {
	return Field{Name: name, Type: TypeBoolean, Required: true}
}

// Object returns a required object field validated against nested.
func Object(name string, nested ...Field) Field {
	return Field{Name: name, Type: TypeObject, Required: true, Nested: nested}
}

// Array returns a required array field whose elements are validated against nested.
func Array(name string, nested ...Field) Field {
	return Field{Name: name, Type: TypeArray, Required: true, Nested: nested}
}

// Optional returns a copy of f that may be absent.
func (f Field) Optional() Field {
	f.Required = false
	return f
}

// Matching returns a copy of f whose string value must match re.
func (f Field) Matching(re *regexp.Regexp) Field {
	f.Match = re
	return f
}
