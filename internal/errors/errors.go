// Package errors defines the domain error taxonomy shared by services and
// handlers. Every error a service returns to a caller is either a *DomainError
// or an unexpected storage failure.
package errors

import (
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
)

// Kind classifies a DomainError.
type Kind string

const (
	KindValidation Kind = "validation"
	KindPermission Kind = "permission"
	KindNotFound   Kind = "not_found"
	KindConflict   Kind = "conflict"
)

// DomainError is a structured error carrying a kind, a stable code and,
// for validation and permission failures, the offending fields.
type DomainError struct {
	Kind    Kind              `json:"-"`
	Code    string            `json:"code"`
	Message string            `json:"error"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func (e *DomainError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return fmt.Sprintf("%s (%s)", e.Message, strings.Join(parts, "; "))
}

// Is matches on Code so that predeclared errors work with errors.Is
// after being copied with extra fields.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithField returns a copy of e carrying an extra field message.
func (e *DomainError) WithField(field, message string) *DomainError {
	out := &DomainError{Kind: e.Kind, Code: e.Code, Message: e.Message, Fields: map[string]string{}}
	for k, v := range e.Fields {
		out.Fields[k] = v
	}
	out.Fields[field] = message
	return out
}

func newError(kind Kind, code, format string, args ...interface{}) *DomainError {
	return &DomainError{Kind: kind, Code: code, Message: fmt.Sprintf(format, args...)}
}

func Validation(code, format string, args ...interface{}) *DomainError {
	return newError(KindValidation, code, format, args...)
}

// ValidationFields builds a validation error from a field→message map.
func ValidationFields(message string, fields map[string]string) *DomainError {
	return Invalid(CodeValidationFailed, message, fields)
}

// Invalid builds a validation error with a specific code and field messages.
func Invalid(code, message string, fields map[string]string) *DomainError {
	return &DomainError{Kind: KindValidation, Code: code, Message: message, Fields: fields}
}

func Permission(code, format string, args ...interface{}) *DomainError {
	return newError(KindPermission, code, format, args...)
}

func NotFound(code, format string, args ...interface{}) *DomainError {
	return newError(KindNotFound, code, format, args...)
}

func Conflict(code, format string, args ...interface{}) *DomainError {
	return newError(KindConflict, code, format, args...)
}

// As extracts a *DomainError from err's chain.
func As(err error) (*DomainError, bool) {
	var de *DomainError
	if stderrors.As(err, &de) {
		return de, true
	}
	return nil, false
}

func isKind(err error, kind Kind) bool {
	de, ok := As(err)
	return ok && de.Kind == kind
}

func IsValidation(err error) bool { return isKind(err, KindValidation) }
func IsPermission(err error) bool { return isKind(err, KindPermission) }
func IsNotFound(err error) bool   { return isKind(err, KindNotFound) }
func IsConflict(err error) bool   { return isKind(err, KindConflict) }
