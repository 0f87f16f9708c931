// Package domainerrors defines the typed error carried across service and
// transport boundaries. Every error a caller is expected to branch on has a
// Code; messages are human-readable and may be surfaced to API clients.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error independently of its message.
type Code string

const (
	CodeForbidden           Code = "forbidden"
	CodeUnauthorized        Code = "unauthorized"
	CodeNotFound            Code = "not_found"
	CodeConflict            Code = "conflict"
	CodeWalletAlreadyBound  Code = "wallet_already_bound"
	CodeComplianceRejected  Code = "compliance_rejected"
	CodePaused              Code = "paused"
	CodeInsufficientBalance Code = "insufficient_balance"
	CodeLockedBalance       Code = "locked_balance"
	CodeInvalidInput        Code = "invalid_input"
	CodeIndexOutOfRange     Code = "index_out_of_range"
	CodeIssuanceDisabled    Code = "issuance_disabled"
	CodeBadRequest          Code = "bad_request"
	CodeInternal            Code = "internal_error"
)

// Error is the domain error type.
type Error struct {
	Code    Code
	Message string
	Err     error
}

// New creates an error with the given code and message.
func New(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

// Newf creates an error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error by code so errors.Is works against a template
// such as New(CodeNotFound, "").
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// HasCode reports whether err, or anything it wraps, is a domain error with code.
func HasCode(err error, code Code) bool {
	return CodeOf(err) == code
}

// CodeOf returns the code of the outermost domain error in err's chain, or
// CodeInternal when err carries none.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// MessageOf returns the message of the outermost domain error, without the
// wrapped cause.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
