package app

import (
	"errors"
	"fmt"
)

// Sentinels identifying the kind of a ConfigurationError. Match them with errors.Is.
var (
	ErrNotModule         = errors.New("not a module")
	ErrNotController     = errors.New("not a controller")
	ErrNotInjectable     = errors.New("not injectable")
	ErrInvalidMiddleware = errors.New("invalid middleware")
	ErrUnknownMethod     = errors.New("unknown http method")
	ErrImportCycle       = errors.New("module import cycle")
)

// ConfigurationError reports a declaration mistake found while bootstrapping. It is
// always returned before the server accepts traffic.
type ConfigurationError struct {
	Kind   error
	Entity string
	Detail string
}

func (e *ConfigurationError) Error() string {
	switch e.Kind {
	case ErrNotModule:
		return fmt.Sprintf("%s must be marked as a module", e.Entity)
	case ErrNotController:
		return fmt.Sprintf("%s must be marked as a controller", e.Entity)
	case ErrNotInjectable:
		return fmt.Sprintf("middleware %s must be marked injectable", e.Entity)
	case ErrUnknownMethod:
		return fmt.Sprintf("handler %s has unknown http method %q", e.Entity, e.Detail)
	case ErrImportCycle:
		return fmt.Sprintf("module import cycle: %s", e.Detail)
	}

	msg := fmt.Sprintf("%v: %s", e.Kind, e.Entity)
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

func (e *ConfigurationError) Unwrap() error {
	return e.Kind
}

func configError(kind error, entity, detail string) *ConfigurationError {
	return &ConfigurationError{Kind: kind, Entity: entity, Detail: detail}
}
