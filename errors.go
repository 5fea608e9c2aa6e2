// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Daniel Schmidt

package objpath

import (
	"errors"
	"fmt"
)

// ErrorCode identifies the category of a traversal dead-end. Every
// PathError carries exactly one of these.
type ErrorCode int

const (
	// NullValue means traversal descended into a nil node mid-path.
	NullValue ErrorCode = iota
	// NoSuchKey means a mapping segment looked up a key that is absent.
	NoSuchKey
	// NoSuchProperty means a record segment named a property the
	// accessor registry has no reader/writer for.
	NoSuchProperty
	// IndexExpected means a sequence/array segment was not an integer.
	IndexExpected
	// IndexOutOfBounds means an integral index fell outside [0, length).
	IndexOutOfBounds
	// EmptySegment means an empty segment was applied to a record.
	EmptySegment
	// TerminalValue means traversal tried to descend past a leaf (a
	// primitive, or a record with no accessors at all).
	TerminalValue
	// TypeMismatch means a write value is not assignable to the
	// target's declared type.
	TypeMismatch
	// NotModifiable means the target container rejected modification.
	NotModifiable
	// KeyDeserializationFailed means the caller-supplied KeyDeserializer
	// returned an error.
	KeyDeserializationFailed
	// Unexpected wraps any other invocation failure (e.g. a setter
	// method panicking or returning an error of its own).
	Unexpected
)

// String renders the error code the way it is named in the traversal
// taxonomy (spec §7), for log lines and error messages.
func (c ErrorCode) String() string {
	switch c {
	case NullValue:
		return "NULL_VALUE"
	case NoSuchKey:
		return "NO_SUCH_KEY"
	case NoSuchProperty:
		return "NO_SUCH_PROPERTY"
	case IndexExpected:
		return "INDEX_EXPECTED"
	case IndexOutOfBounds:
		return "INDEX_OUT_OF_BOUNDS"
	case EmptySegment:
		return "EMPTY_SEGMENT"
	case TerminalValue:
		return "TERMINAL_VALUE"
	case TypeMismatch:
		return "TYPE_MISMATCH"
	case NotModifiable:
		return "NOT_MODIFIABLE"
	case KeyDeserializationFailed:
		return "KEY_DESERIALIZATION_FAILED"
	case Unexpected:
		return "EXCEPTION"
	default:
		return "UNKNOWN"
	}
}

// PathError is the error type raised by a PathWalker running in
// throw mode. It carries enough context to reconstruct where in the
// path traversal failed.
type PathError struct {
	Code         ErrorCode
	Path         Path
	SegmentIndex int
	Message      string
	Cause        error
}

// Error implements the error interface.
func (e *PathError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("objpath: %s at %s[%d]: %s", e.Code, e.Path.Format(), e.SegmentIndex, e.Message)
	}
	return fmt.Sprintf("objpath: %s at %s[%d]", e.Code, e.Path.Format(), e.SegmentIndex)
}

// Unwrap exposes the underlying cause, if any, for errors.Is/As chains.
func (e *PathError) Unwrap() error {
	return e.Cause
}

// newDeadEnd builds a *PathError for the given code and location. It is
// the single constructor used by the segment readers/writers so every
// dead-end carries a consistent shape.
func newDeadEnd(code ErrorCode, p Path, segmentIndex int, message string) *PathError {
	return &PathError{Code: code, Path: p, SegmentIndex: segmentIndex, Message: message}
}

func newDeadEndCause(code ErrorCode, p Path, segmentIndex int, message string, cause error) *PathError {
	return &PathError{Code: code, Path: p, SegmentIndex: segmentIndex, Message: message, Cause: cause}
}

// Is reports whether err is a *PathError carrying the given code. It
// lets callers write `objpath.Is(err, objpath.NoSuchKey)` instead of
// manually type-asserting and comparing Code fields.
func Is(err error, code ErrorCode) bool {
	var pe *PathError
	if errors.As(err, &pe) {
		return pe.Code == code
	}
	return false
}

// Sentinel errors for programmer mistakes, never converted to PathError
// and never suppressed. errIndexOutOfRange is the panic value of Path's
// out-of-range segment/sub-path index accesses; errIllegalArgument is the
// panic value of a write with an empty path, and MapPathBuilder also
// returns it, wrapped, for invalid keys, empty paths and mismatched Up
// names.
var (
	errIndexOutOfRange = errors.New("objpath: index out of bounds")
	errIllegalArgument = errors.New("objpath: illegal argument")
)
