// Package domainerrors provides coded errors for the registry domain.
// Every failure a caller can act on carries exactly one Code; callers
// branch on codes with HasCode rather than matching message strings.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code identifies a distinct failure class.
type Code string

const (
	// CodeNotAuthorized covers callers who are not registered principals and
	// amendments attempted by anyone other than the original submitter.
	CodeNotAuthorized Code = "not_authorized"

	// Field validation codes. Validation is first-failure: an operation
	// reports the first violated constraint only.
	CodeInvalidLocation    Code = "invalid_location"
	CodeInvalidLatitude    Code = "invalid_latitude"
	CodeInvalidLongitude   Code = "invalid_longitude"
	CodeInvalidNeedType    Code = "invalid_need_type"
	CodeInvalidQuantity    Code = "invalid_quantity"
	CodeInvalidUnit        Code = "invalid_unit"
	CodeInvalidUrgency     Code = "invalid_urgency"
	CodeInvalidDescription Code = "invalid_description"
	CodeInvalidEvidence    Code = "invalid_evidence"
	CodeInvalidCategory    Code = "invalid_category"
	CodeInvalidExpiry      Code = "invalid_expiry"

	CodeDuplicateEvidence   Code = "duplicate_evidence"
	CodeSubmissionNotFound  Code = "submission_not_found"
	CodeCapacityExceeded    Code = "capacity_exceeded"
	CodeAuthorityAlreadySet Code = "authority_already_set"
	CodeAuthorityNotSet     Code = "authority_not_set"

	CodeInternal Code = "internal"
)

// Error is a coded domain error. It may wrap an underlying cause.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// New creates a coded error with no underlying cause.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error.
// Wrapping nil returns nil so call sites can wrap unconditionally.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether any error in the chain carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf returns the code carried by the error chain, or CodeInternal when
// the error is not a coded domain error.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}
