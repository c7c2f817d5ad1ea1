// Package apierr defines the structured error taxonomy shared by every
// layer of the replace pipeline. Each Kind corresponds to one row of the
// error taxonomy: failures never panic on user input, and every
// exceptional path ends in rollback-then-respond.
package apierr

import (
	"errors"
	"fmt"
)

// Kind identifies one of the documented failure categories.
type Kind string

const (
	NotFound            Kind = "not_found"
	FormatError         Kind = "format_error"
	TargetMissing       Kind = "target_missing"
	SyntaxInvalid       Kind = "syntax_invalid"
	IndentationInvalid  Kind = "indentation_invalid"
	TypeIncompatible    Kind = "type_incompatible"
	TransactionConflict Kind = "transaction_conflict"
	TransactionFinished Kind = "transaction_finished"
	UnknownTransaction  Kind = "unknown_transaction"
	IOFailure           Kind = "io_failure"
	Cancelled           Kind = "cancelled"
)

// Candidate is a fuzzy-match suggestion returned alongside TargetMissing.
type Candidate struct {
	Name  string
	Score float64
}

// IndentIssue documents one indentation-reflow violation (spec.md §4.6).
type IndentIssue struct {
	Line        int
	Offending   string
	Rendered    string // leading whitespace with · for space, → for tab
	Remediation string
}

// Error is the structured error type returned by every package in the
// pipeline. It is never raised for conditions that can be handled by a
// caller programmatically without string-matching: callers should use
// errors.As to recover it and inspect Kind/fields.
type Error struct {
	Kind Kind
	Msg  string
	Err  error // wrapped cause, if any

	// TargetMissing
	Candidates   []Candidate
	ClassCount   int
	FunctionCount int

	// FormatError
	CleanedCandidate string

	// SyntaxInvalid
	Line   int
	Column int
	Source string // offending source line
	Caret  string

	// IndentationInvalid
	IndentIssues []IndentIssue
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds a bare structured error.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap builds a structured error around a causing error.
func Wrap(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: cause}
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// As is a small convenience wrapper around errors.As for this package's
// error type, used by callers that need the full structured payload.
func As(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
