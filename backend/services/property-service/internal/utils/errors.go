// backend/services/property-service/internal/utils/errors.go

package utils

import (
	"errors"
	"fmt"
	"strings"
)

/*
   Error kinds returned by every manager operation. Controllers and tests
   match them with errors.Is(err, ErrConflict) etc.
*/
var (
	ErrNotFound          = errors.New("not_found")
	ErrConflict          = errors.New("conflict")
	ErrInvalidTransition = errors.New("invalid_transition")
	ErrImmutable         = errors.New("immutable")
	ErrValidation        = errors.New("validation_error")
	ErrAuthorization     = errors.New("authorization_error")
)

// CoreError is the single error type that crosses the manager boundary.
// Kind is one of the sentinels above. Rules is only set for conflicts
// raised by the consistency checks.
type CoreError struct {
	Kind    error
	Message string
	Rules   []string
	Err     error
}

func (e *CoreError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if len(e.Rules) > 0 {
		b.WriteString(" [")
		b.WriteString(strings.Join(e.Rules, ", "))
		b.WriteString("]")
	}
	return b.String()
}

func (e *CoreError) Is(target error) bool { return target == e.Kind }

func (e *CoreError) Unwrap() error { return e.Err }

func newCoreError(kind error, format string, args ...any) *CoreError {
	return &CoreError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *CoreError {
	return newCoreError(ErrNotFound, format, args...)
}

func Conflict(format string, args ...any) *CoreError {
	return newCoreError(ErrConflict, format, args...)
}

func InvalidTransition(format string, args ...any) *CoreError {
	return newCoreError(ErrInvalidTransition, format, args...)
}

func Immutable(format string, args ...any) *CoreError {
	return newCoreError(ErrImmutable, format, args...)
}

func Validation(format string, args ...any) *CoreError {
	return newCoreError(ErrValidation, format, args...)
}

func Unauthorized(format string, args ...any) *CoreError {
	return newCoreError(ErrAuthorization, format, args...)
}

// RuleViolation aggregates broken consistency rules into one conflict.
func RuleViolation(rules []string) *CoreError {
	return &CoreError{
		Kind:    ErrConflict,
		Message: "change would break consistency rules",
		Rules:   rules,
	}
}

// ConcurrentWrite wraps a store-level conflict (version mismatch, held
// lock, duplicate key) so callers see a plain conflict they may retry.
func ConcurrentWrite(err error) *CoreError {
	return &CoreError{
		Kind:    ErrConflict,
		Message: "record was modified concurrently, retry the request",
		Err:     err,
	}
}

// AsCoreError extracts the CoreError from err, if any.
func AsCoreError(err error) (*CoreError, bool) {
	var ce *CoreError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
