// Package errz defines the errors reported while assembling and executing
// rlox chunks.
package errz

import (
	"bytes"
	"errors"
	"fmt"
)

// ErrorKind represents the category of an error.
type ErrorKind int

const (
	// ErrCompile indicates a problem producing a chunk.
	ErrCompile ErrorKind = iota
	// ErrRuntime indicates a problem executing a chunk.
	ErrRuntime
)

// String returns the string representation of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case ErrCompile:
		return "compile error"
	case ErrRuntime:
		return "runtime error"
	default:
		return "error"
	}
}

var (
	ErrStackOverflow  = errors.New("stack overflow")
	ErrStackUnderflow = errors.New("stack underflow")
	ErrIPOutOfRange   = errors.New("instruction pointer out of range")
)

// SourceLocation identifies the instruction an error refers to.
type SourceLocation struct {
	Chunk  string
	Line   int // source line from the chunk's line table
	Offset int // byte offset into the chunk's code, -1 if unknown
	Source string
}

// IsZero returns true if the location has not been set.
func (s SourceLocation) IsZero() bool {
	return s.Line == 0 && s.Offset <= 0 && s.Chunk == ""
}

func (s SourceLocation) String() string {
	var b bytes.Buffer
	if s.Chunk != "" {
		b.WriteString(s.Chunk)
		b.WriteString(":")
	}
	fmt.Fprintf(&b, "%d", s.Line)
	if s.Offset >= 0 {
		fmt.Fprintf(&b, " @%04d", s.Offset)
	}
	return b.String()
}

// StructuredError is an error with a kind and a location.
type StructuredError struct {
	Message  string
	Kind     ErrorKind
	Location SourceLocation
	Cause    error
}

// Error implements the error interface.
func (e *StructuredError) Error() string {
	if e.Location.IsZero() {
		return fmt.Sprintf("%s: %s", e.Kind.String(), e.Message)
	}
	return fmt.Sprintf("%s: %s (line %s)", e.Kind.String(), e.Message, e.Location.String())
}

// Unwrap returns the underlying cause of the error.
func (e *StructuredError) Unwrap() error {
	return e.Cause
}

// FriendlyErrorMessage returns a multi-line message including the offending
// source line when one is known.
func (e *StructuredError) FriendlyErrorMessage() string {
	var msg bytes.Buffer
	msg.WriteString(e.Error())
	msg.WriteString("\n")
	if e.Location.Source != "" {
		msg.WriteString(" | ")
		msg.WriteString(e.Location.Source)
		msg.WriteString("\n")
	}
	return msg.String()
}

// NewStructuredErrorf creates a new StructuredError with a formatted message.
func NewStructuredErrorf(kind ErrorKind, loc SourceLocation, format string, args ...any) *StructuredError {
	return &StructuredError{
		Message:  fmt.Sprintf(format, args...),
		Kind:     kind,
		Location: loc,
	}
}

// WithCause wraps the error with a cause.
func (e *StructuredError) WithCause(cause error) *StructuredError {
	e.Cause = cause
	return e
}

// FriendlyError is implemented by errors that have a human friendly message
// in addition to the default error message.
type FriendlyError interface {
	Error() string
	FriendlyErrorMessage() string
}
