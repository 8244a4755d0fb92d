// Package errors defines the domain error taxonomy shared by services and
// the HTTP layer.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Kind classifies a DomainError for callers that need to react to it.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindUnsupported  Kind = "unsupported"
	KindCollaborator Kind = "collaborator"
)

// DomainError is an error the caller is expected to act on.
type DomainError struct {
	Kind    Kind
	Code    string
	Message string
	// Valid lists the accepted values when a validation error concerns an
	// enumerated field.
	Valid []string
	Err   error
}

func (e *DomainError) Error() string {
	msg := e.Message
	if len(e.Valid) > 0 {
		msg = fmt.Sprintf("%s (valid: %s)", msg, strings.Join(e.Valid, ", "))
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches on kind, and on code when the target carries one.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Code == "" || t.Code == e.Code)
}

// Kind sentinels for errors.Is.
var (
	ErrValidation          = &DomainError{Kind: KindValidation, Message: "validation failed"}
	ErrNotFound            = &DomainError{Kind: KindNotFound, Message: "not found"}
	ErrUnsupportedCategory = &DomainError{Kind: KindUnsupported, Message: "unsupported category"}
	ErrCollaborator        = &DomainError{Kind: KindCollaborator, Message: "collaborator failure"}
)

func Validation(code, message string, valid ...string) *DomainError {
	return &DomainError{Kind: KindValidation, Code: code, Message: message, Valid: valid}
}

func NotFound(code, message string) *DomainError {
	return &DomainError{Kind: KindNotFound, Code: code, Message: message}
}

func Unsupported(message string) *DomainError {
	return &DomainError{Kind: KindUnsupported, Code: "UNSUPPORTED_CATEGORY", Message: message}
}

// Collaborator wraps a failure of storage or another external dependency.
func Collaborator(message string, err error) *DomainError {
	return &DomainError{Kind: KindCollaborator, Code: "COLLABORATOR_FAILURE", Message: message, Err: err}
}

// KindOf reports the kind of err, or "" when err is not a DomainError.
func KindOf(err error) Kind {
	var de *DomainError
	if stderrors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// As exposes errors.As so callers importing this package need not import
// the standard one under an alias.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}
