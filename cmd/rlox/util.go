package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/hashicorp/go-multierror"
	"github.com/hokaccha/go-prettyjson"
	"github.com/mattn/go-isatty"
	"github.com/spf13/viper"

	"github.com/deepnoodle-ai/rlox/errz"
)

// Exit codes, following the BSD sysexits convention.
const (
	exitUsage   = 1
	exitCompile = 65 // EX_DATAERR
	exitRuntime = 70 // EX_SOFTWARE
	exitIO      = 74 // EX_IOERR
)

var red = color.New(color.FgRed).SprintFunc()

// ioError marks a failure to read or write a file.
type ioError struct {
	err error
}

func (e *ioError) Error() string { return e.err.Error() }
func (e *ioError) Unwrap() error { return e.err }

// exitCode maps an error returned by a command to the process exit code.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var ioErr *ioError
	if errors.As(err, &ioErr) {
		return exitIO
	}
	var serr *errz.StructuredError
	var merr *multierror.Error
	if !errors.As(err, &serr) && !errors.As(err, &merr) {
		return exitUsage
	}
	if errz.ResultOf(err) == errz.ResultCompileError {
		return exitCompile
	}
	return exitRuntime
}

// printError writes err to stderr, using the friendly form of structured
// errors when one is available.
func printError(err error) {
	fmt.Fprint(os.Stderr, red(errorText(err)))
}

func errorText(err error) string {
	var merr *multierror.Error
	if errors.As(err, &merr) {
		var s string
		for _, e := range merr.Errors {
			s += errorText(e)
		}
		return s
	}
	var friendly errz.FriendlyError
	if errors.As(err, &friendly) {
		return friendly.FriendlyErrorMessage()
	}
	return err.Error() + "\n"
}

func isTerminalIO() bool {
	stdin := os.Stdin.Fd()
	stdout := os.Stdout.Fd()
	inTerm := isatty.IsTerminal(stdin) || isatty.IsCygwinTerminal(stdin)
	outTerm := isatty.IsTerminal(stdout) || isatty.IsCygwinTerminal(stdout)
	return inTerm && outTerm
}

func useColor() bool {
	if viper.GetBool("no-color") || color.NoColor {
		return false
	}
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func getOutputJSON(v any) ([]byte, error) {
	if !useColor() {
		return json.MarshalIndent(v, "", "  ")
	}
	return prettyjson.Marshal(v)
}
