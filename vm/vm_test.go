package vm

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/deepnoodle-ai/rlox/bytecode"
	"github.com/deepnoodle-ai/rlox/errz"
	"github.com/deepnoodle-ai/rlox/object"
	"github.com/deepnoodle-ai/rlox/op"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// assemble builds a chunk on line 1. Numbers become Constant instructions,
// op.Code values are written as-is.
func assemble(t *testing.T, items ...any) *bytecode.Chunk {
	t.Helper()
	c := bytecode.NewChunk("test")
	for _, item := range items {
		switch item := item.(type) {
		case float64:
			require.NoError(t, c.EmitConstant(object.NewNumber(item), 1))
		case int:
			require.NoError(t, c.EmitConstant(object.NewNumber(float64(item)), 1))
		case op.Code:
			c.WriteOp(item, 1)
		case byte:
			c.Write(item, 1)
		default:
			t.Fatalf("unexpected item %v", item)
		}
	}
	return c
}

func TestArithmeticExpression(t *testing.T) {
	c := bytecode.NewChunk("test chunk")
	require.NoError(t, c.EmitConstant(object.NewNumber(1.2), 123))
	require.NoError(t, c.EmitConstant(object.NewNumber(3.4), 123))
	c.WriteOp(op.Add, 123)
	require.NoError(t, c.EmitConstant(object.NewNumber(5.6), 123))
	c.WriteOp(op.Divide, 123)
	c.WriteOp(op.Negate, 123)
	c.WriteOp(op.Return, 123)

	var out bytes.Buffer
	result, err := Run(c, WithOutput(&out))
	require.NoError(t, err)

	// Divide pops 5.6 first and uses it as the left operand, so the chunk
	// computes -(5.6 / (1.2 + 3.4)). Evaluated at run time so the float64
	// rounding matches the VM.
	a, b, d := 1.2, 3.4, 5.6
	expected := -(d / (a + b))
	require.Equal(t, expected, result.AsNumber())
	require.Equal(t, object.NewNumber(expected).String()+"\n", out.String())
	require.Equal(t, "-1.2173913043478262\n", out.String())
}

func TestOperandOrder(t *testing.T) {
	tests := []struct {
		name     string
		code     op.Code
		expected float64
	}{
		// The first pop (3) is the left operand: 3 - 10.
		{"subtract", op.Subtract, -7},
		{"divide", op.Divide, 0.3},
		{"add", op.Add, 13},
		{"multiply", op.Multiply, 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			result, err := Run(assemble(t, 10, 3, tt.code, op.Return), WithOutput(&out))
			require.NoError(t, err)
			require.Equal(t, tt.expected, result.AsNumber())
		})
	}

	var out bytes.Buffer
	_, err := Run(assemble(t, 10, 3, op.Subtract, op.Return), WithOutput(&out))
	require.NoError(t, err)
	require.Equal(t, "-7\n", out.String())
}

func TestNegate(t *testing.T) {
	var out bytes.Buffer
	result, err := Run(assemble(t, 2.5, op.Negate, op.Negate, op.Negate, op.Return), WithOutput(&out))
	require.NoError(t, err)
	require.Equal(t, -2.5, result.AsNumber())
	require.Equal(t, "-2.5\n", out.String())
}

func TestStackUnderflow(t *testing.T) {
	tests := []struct {
		name   string
		chunk  []any
		offset int
	}{
		{"return", []any{op.Return}, 0},
		{"negate", []any{op.Negate, op.Return}, 0},
		{"binary with one operand", []any{1, op.Add, op.Return}, 2},
		{"binary with no operands", []any{op.Multiply, op.Return}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			machine := New(WithOutput(&bytes.Buffer{}))
			_, err := machine.Interpret(assemble(t, tt.chunk...))
			require.Error(t, err)
			require.ErrorIs(t, err, errz.ErrStackUnderflow)
			require.True(t, errz.IsRuntimeError(err))

			var serr *errz.StructuredError
			require.True(t, errors.As(err, &serr))
			require.Equal(t, errz.ErrRuntime, serr.Kind)
			require.Equal(t, tt.offset, serr.Location.Offset)
			require.Equal(t, 1, serr.Location.Line)
		})
	}
}

func TestStackOverflow(t *testing.T) {
	machine := New(WithStackSize(2), WithOutput(&bytes.Buffer{}))
	require.Equal(t, 2, machine.StackSize())
	_, err := machine.Interpret(assemble(t, 1, 2, 3, op.Return))
	require.ErrorIs(t, err, errz.ErrStackOverflow)
	require.Contains(t, err.Error(), "stack capacity of 2 exceeded")

	// Exactly full is fine.
	result, err := machine.Interpret(assemble(t, 1, 2, op.Add, op.Return))
	require.NoError(t, err)
	require.Equal(t, 3.0, result.AsNumber())
}

func TestUnknownOpcodeIsRuntimeError(t *testing.T) {
	machine := New(WithOutput(&bytes.Buffer{}))
	c := assemble(t, 1, byte(99), op.Return)
	_, err := machine.Interpret(c)
	require.Error(t, err)
	require.True(t, errz.IsRuntimeError(err))

	var decodeErr *op.DecodeError
	require.True(t, errors.As(err, &decodeErr))
	require.Equal(t, byte(99), decodeErr.Byte)
	require.Equal(t, "runtime error: unknown opcode 99 (line test:1 @0002)", err.Error())

	// The chunk is untouched and the machine can run again.
	require.Equal(t, 4, c.Count())
	result, err := machine.Interpret(assemble(t, 4, op.Return))
	require.NoError(t, err)
	require.Equal(t, 4.0, result.AsNumber())
}

func TestMissingReturn(t *testing.T) {
	_, err := Run(assemble(t, 1, 2, op.Add), WithOutput(&bytes.Buffer{}))
	require.ErrorIs(t, err, errz.ErrIPOutOfRange)

	_, err = Run(bytecode.NewChunk("empty"), WithOutput(&bytes.Buffer{}))
	require.ErrorIs(t, err, errz.ErrIPOutOfRange)
}

func TestMalformedConstant(t *testing.T) {
	_, err := Run(assemble(t, op.Constant), WithOutput(&bytes.Buffer{}))
	require.Error(t, err)
	require.Contains(t, err.Error(), "OP_CONSTANT is missing its operand")

	_, err = Run(assemble(t, op.Constant, byte(7), op.Return), WithOutput(&bytes.Buffer{}))
	require.Error(t, err)
	require.Contains(t, err.Error(), "constant index 7 out of range (pool has 0)")
}

func TestInterpretResetsStack(t *testing.T) {
	machine := New(WithOutput(&bytes.Buffer{}))
	_, err := machine.Interpret(assemble(t, 1, 2, 3, byte(200)))
	require.Error(t, err)
	require.Len(t, machine.Stack(), 3)

	_, err = machine.Interpret(assemble(t, 5, op.Return))
	require.NoError(t, err)
	require.Empty(t, machine.Stack())
	_, ok := machine.TOS()
	require.False(t, ok)
}

func TestTOS(t *testing.T) {
	machine := New(WithOutput(&bytes.Buffer{}))
	_, err := machine.Interpret(assemble(t, 1, 2, byte(200)))
	require.Error(t, err)
	tos, ok := machine.TOS()
	require.True(t, ok)
	require.Equal(t, 2.0, tos.AsNumber())
}

func TestTrace(t *testing.T) {
	c := bytecode.NewChunk("test chunk")
	require.NoError(t, c.EmitConstant(object.NewNumber(1.2), 123))
	require.NoError(t, c.EmitConstant(object.NewNumber(3.4), 123))
	c.WriteOp(op.Add, 123)
	c.WriteOp(op.Return, 123)

	var out, trace bytes.Buffer
	_, err := Run(c, WithTrace(true), WithOutput(&out), WithTraceOutput(&trace))
	require.NoError(t, err)
	require.Equal(t, "4.6\n", out.String())

	expected := strings.Join([]string{
		"          ",
		"0000  123 OP_CONSTANT      0 '1.2'",
		"          [1.2]",
		"0002    | OP_CONSTANT      1 '3.4'",
		"          [1.2][3.4]",
		"0004    | OP_ADD",
		"          [4.6]",
		"0005    | OP_RETURN",
	}, "\n") + "\n"
	require.Equal(t, expected, trace.String())
}

func TestTraceDoesNotChangeResult(t *testing.T) {
	c := assemble(t, 10, 3, op.Subtract, 2, op.Multiply, op.Return)
	var plain, traced bytes.Buffer
	r1, err := Run(c, WithOutput(&plain))
	require.NoError(t, err)
	r2, err := Run(c, WithOutput(&traced), WithTrace(true), WithTraceOutput(&bytes.Buffer{}))
	require.NoError(t, err)
	require.Equal(t, r1, r2)
	require.Equal(t, plain.String(), traced.String())
}

func TestTraceDefaultsToOutput(t *testing.T) {
	var out bytes.Buffer
	_, err := Run(assemble(t, 1, op.Return), WithTrace(true), WithOutput(&out))
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(out.String(), "OP_RETURN\n1\n"))
}

func TestLogger(t *testing.T) {
	var logs bytes.Buffer
	logger := zerolog.New(&logs).Level(zerolog.DebugLevel)
	_, err := Run(assemble(t, 1, op.Return), WithLogger(logger), WithOutput(&bytes.Buffer{}))
	require.NoError(t, err)
	require.Contains(t, logs.String(), `"message":"interpret"`)
	require.Contains(t, logs.String(), `"result":"1"`)

	logs.Reset()
	_, err = Run(assemble(t, op.Return), WithLogger(logger), WithOutput(&bytes.Buffer{}))
	require.Error(t, err)
	require.Contains(t, logs.String(), `"message":"interpret failed"`)
}
