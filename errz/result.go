package errz

import (
	"errors"

	"github.com/hashicorp/go-multierror"
)

// Result classifies the outcome of interpreting a chunk.
type Result int

const (
	ResultOK Result = iota
	ResultCompileError
	ResultRuntimeError
)

func (r Result) String() string {
	switch r {
	case ResultOK:
		return "ok"
	case ResultCompileError:
		return "compile error"
	default:
		return "runtime error"
	}
}

// ResultOf classifies err. A nil error is ResultOK. Errors that carry no
// kind, or aggregate errors with any runtime member, are runtime errors.
func ResultOf(err error) Result {
	if err == nil {
		return ResultOK
	}
	var merr *multierror.Error
	if errors.As(err, &merr) && len(merr.Errors) > 0 {
		for _, e := range merr.Errors {
			if ResultOf(e) == ResultRuntimeError {
				return ResultRuntimeError
			}
		}
		return ResultCompileError
	}
	var serr *StructuredError
	if errors.As(err, &serr) && serr.Kind == ErrCompile {
		return ResultCompileError
	}
	return ResultRuntimeError
}

// IsCompileError reports whether err was produced while building a chunk.
func IsCompileError(err error) bool {
	return ResultOf(err) == ResultCompileError
}

// IsRuntimeError reports whether err was produced while executing a chunk.
func IsRuntimeError(err error) bool {
	return ResultOf(err) == ResultRuntimeError
}
