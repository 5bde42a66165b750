package domain

import (
	"errors"
	"fmt"
)

var (
	ErrConfig       = errors.New("configuration error")
	ErrPath         = errors.New("path error")
	ErrValidation   = errors.New("validation error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrRateLimited  = errors.New("rate limited")
	ErrTransport    = errors.New("transport error")
	ErrIO           = errors.New("io error")
	ErrRunNotFound  = errors.New("check run not found")
)

var errorKinds = []error{
	ErrConfig,
	ErrPath,
	ErrValidation,
	ErrUnauthorized,
	ErrRateLimited,
	ErrTransport,
	ErrIO,
	ErrRunNotFound,
}

// Error carries a message that is safe to show to end users next to the
// internal cause. Only Message ever leaves the core.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *Error) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// NewError builds an expected failure whose message is shown verbatim.
func NewError(kind error, message string) error {
	return &Error{Kind: kind, Message: message}
}

// WrapPublic is NewError with an internal cause attached for logs.
func WrapPublic(kind error, message string, err error) error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}

// Category names the first known kind in the chain, or "internal error".
func Category(err error) string {
	for _, kind := range errorKinds {
		if errors.Is(err, kind) {
			return kind.Error()
		}
	}
	return "internal error"
}

// PublicMessage turns any error into text fit for the check result. Expected
// failures keep their message; everything else collapses to its category.
func PublicMessage(err error) string {
	if err == nil {
		return ""
	}
	var public *Error
	if errors.As(err, &public) && public.Message != "" {
		return public.Message
	}
	return "An error occurred: " + Category(err)
}
