package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/deepnoodle-ai/rlox/bytecode"
	"github.com/deepnoodle-ai/rlox/errz"
	"github.com/deepnoodle-ai/rlox/op"
)

func TestExitCode(t *testing.T) {
	compile := errz.NewStructuredErrorf(errz.ErrCompile, errz.SourceLocation{}, "bad")
	runtime := errz.NewStructuredErrorf(errz.ErrRuntime, errz.SourceLocation{}, "boom")
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"nil", nil, 0},
		{"plain", errors.New("usage"), exitUsage},
		{"compile", compile, exitCompile},
		{"runtime", runtime, exitRuntime},
		{"wrapped runtime", fmt.Errorf("run: %w", runtime), exitRuntime},
		{"aggregate compile", multierror.Append(nil, compile, compile), exitCompile},
		{"io", &ioError{err: os.ErrNotExist}, exitIO},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.code, exitCode(tt.err))
		})
	}
}

func TestErrorText(t *testing.T) {
	loc := errz.SourceLocation{Chunk: "prog", Line: 2, Offset: -1, Source: "frob"}
	first := errz.NewStructuredErrorf(errz.ErrCompile, loc, "unknown instruction %q", "frob")
	second := errz.NewStructuredErrorf(errz.ErrCompile, errz.SourceLocation{}, "too many")
	err := multierror.Append(nil, first, second)
	require.Equal(t,
		"compile error: unknown instruction \"frob\" (line prog:2)\n | frob\ncompile error: too many\n",
		errorText(err))
	require.Equal(t, "plain\n", errorText(errors.New("plain")))
}

func TestChunkName(t *testing.T) {
	require.Equal(t, "stdin", chunkName("-"))
	require.Equal(t, "demo", chunkName("/tmp/x/demo.rlasm"))
	require.Equal(t, "prog", chunkName("prog"))
}

func TestEnsureReturn(t *testing.T) {
	chunk := bytecode.NewChunk("c")
	ensureReturn(chunk)
	require.Equal(t, []byte{byte(op.Return)}, chunk.Code())

	ensureReturn(chunk)
	require.Equal(t, 1, chunk.Count())

	// A constant whose operand happens to be 0 is not a return.
	chunk = bytecode.NewChunk("c")
	chunk.WriteOp(op.Constant, 7)
	chunk.Write(0, 7)
	ensureReturn(chunk)
	require.Equal(t, []byte{byte(op.Constant), 0, byte(op.Return)}, chunk.Code())
	require.Equal(t, []int{7, 7, 7}, chunk.Lines())
}

func TestReplSession(t *testing.T) {
	isolate(t)
	viper.Reset()
	cmd := newRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)

	session := newReplSession(cmd)
	require.True(t, session.handle(cmd, "constant 10; constant 3; subtract"))
	require.Equal(t, "-7\n", out.String())

	out.Reset()
	require.True(t, session.handle(cmd, "negate"))
	require.Contains(t, errOut.String(), "cannot pop from an empty stack")
	require.Empty(t, out.String())

	errOut.Reset()
	require.True(t, session.handle(cmd, "frob"))
	require.Contains(t, errOut.String(), `unknown instruction "frob"`)

	out.Reset()
	require.True(t, session.handle(cmd, ":dis"))
	require.True(t, session.handle(cmd, "constant 2"))
	require.Equal(t, "disassembly on\n== repl-4 ==\n0000    1 OP_CONSTANT      0 '2'\n0002    | OP_RETURN\n2\n", out.String())

	out.Reset()
	require.True(t, session.handle(cmd, ":dis"))
	require.True(t, session.handle(cmd, ":trace"))
	require.True(t, session.handle(cmd, "constant 5"))
	require.Contains(t, out.String(), "trace on\n")
	require.Contains(t, out.String(), "          [5]\n")

	errOut.Reset()
	require.True(t, session.handle(cmd, ":bogus"))
	require.Contains(t, errOut.String(), "unknown command :bogus")

	require.False(t, session.handle(cmd, ":quit"))
}
