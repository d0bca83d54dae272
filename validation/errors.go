package validation

import "fmt"

// Source tells which part of the request a field belongs to. It only changes the
// wording of error messages.
type Source int

const (
	SourceBody Source = iota
	SourceQuery
)

func (s Source) noun() string {
	if s == SourceQuery {
		return "query parameter"
	}
	return "field"
}

// Reason classifies a validation failure.
type Reason string

const (
	ReasonMissing     Reason = "missing"
	ReasonInvalidType Reason = "invalid_type"
	ReasonInvalidVal  Reason = "invalid_value"
	ReasonInvalidBody Reason = "invalid_body"
)

// Error is the first failure found while validating a value.
type Error struct {
	Field  string
	Reason Reason
	Source Source
}

// Error returns the client-facing message, e.g. "Missing required field: id".
func (e *Error) Error() string {
	switch e.Reason {
	case ReasonInvalidBody:
		return "Invalid body"
	case ReasonMissing:
		if e.Source == SourceQuery {
			return fmt.Sprintf("Missing required query parameter: %s", e.Field)
		}
		return fmt.Sprintf("Missing required field: %s", e.Field)
	case ReasonInvalidVal:
		return fmt.Sprintf("Invalid value for %s: %s", e.Source.noun(), e.Field)
	default:
		return fmt.Sprintf("Invalid type for %s: %s", e.Source.noun(), e.Field)
	}
}

func missing(src Source, name string) *Error {
	return &Error{Field: name, Reason: ReasonMissing, Source: src}
}

func invalidType(src Source, name string) *Error {
	return &Error{Field: name, Reason: ReasonInvalidType, Source: src}
}

func invalidValue(src Source, name string) *Error {
	return &Error{Field: name, Reason: ReasonInvalidVal, Source: src}
}
