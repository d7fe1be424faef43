package bytecode

import (
	"errors"
	"testing"

	"github.com/deepnoodle-ai/rlox/errz"
	"github.com/deepnoodle-ai/rlox/internal/buffer"
	"github.com/deepnoodle-ai/rlox/object"
	"github.com/deepnoodle-ai/rlox/op"
	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/require"
)

func testChunk(t *testing.T) *Chunk {
	t.Helper()
	c := NewChunk("test chunk")
	require.NoError(t, c.EmitConstant(object.NewNumber(1.2), 123))
	require.NoError(t, c.EmitConstant(object.NewNumber(3.4), 123))
	c.WriteOp(op.Add, 123)
	require.NoError(t, c.EmitConstant(object.NewNumber(5.6), 124))
	c.WriteOp(op.Divide, 124)
	c.WriteOp(op.Negate, 124)
	c.WriteOp(op.Return, 125)
	return c
}

func TestWriteKeepsLinesInLockstep(t *testing.T) {
	c := NewChunk("")
	for i := 0; i < 100; i++ {
		c.Write(byte(i%7), i/3)
		require.Equal(t, c.Count(), len(c.Lines()))
	}
	line, err := c.Line(99)
	require.NoError(t, err)
	require.Equal(t, 33, line)
}

func TestEmitConstantRepeatsLine(t *testing.T) {
	c := NewChunk("")
	require.NoError(t, c.EmitConstant(object.NewNumber(1.2), 7))
	require.Equal(t, []byte{byte(op.Constant), 0}, c.Code())
	require.Equal(t, []int{7, 7}, c.Lines())
}

func TestAddConstantIndices(t *testing.T) {
	c := NewChunk("")
	for i := 0; i < MaxConstants; i++ {
		index, err := c.AddConstant(object.NewNumber(float64(i)))
		require.NoError(t, err)
		require.Equal(t, i, index)
	}
	_, err := c.AddConstant(object.NewNumber(256))
	require.ErrorIs(t, err, ErrTooManyConstants)
	require.Equal(t, MaxConstants, c.ConstantCount())

	v, err := c.Constant(255)
	require.NoError(t, err)
	require.Equal(t, 255.0, v.AsNumber())

	err = c.EmitConstant(object.NewNumber(1), 1)
	require.ErrorIs(t, err, ErrTooManyConstants)
	require.Equal(t, 0, c.Count())
}

func TestCheckedAccessors(t *testing.T) {
	c := testChunk(t)
	b, err := c.Instruction(0)
	require.NoError(t, err)
	require.Equal(t, byte(op.Constant), b)

	_, err = c.Instruction(c.Count())
	require.ErrorIs(t, err, buffer.ErrOutOfRange)
	_, err = c.Constant(3)
	require.ErrorIs(t, err, buffer.ErrOutOfRange)
	_, err = c.Line(-1)
	require.ErrorIs(t, err, buffer.ErrOutOfRange)
}

func TestFree(t *testing.T) {
	c := testChunk(t)
	c.Free()
	require.Equal(t, 0, c.Count())
	require.Equal(t, 0, c.ConstantCount())
	require.Empty(t, c.Lines())
}

func TestValidate(t *testing.T) {
	require.NoError(t, testChunk(t).Validate())
	require.NoError(t, NewChunk("empty").Validate())

	c := NewChunk("bad")
	// unknown opcode, constant index out of range, truncated operand
	c.Write(42, 1)
	c.WriteOp(op.Constant, 2)
	c.Write(9, 2)
	c.WriteOp(op.Constant, 3)
	err := c.Validate()
	require.Error(t, err)

	var merr *multierror.Error
	require.True(t, errors.As(err, &merr))
	require.Len(t, merr.Errors, 3)

	var decodeErr *op.DecodeError
	require.True(t, errors.As(merr.Errors[0], &decodeErr))
	require.Equal(t, byte(42), decodeErr.Byte)
	require.Contains(t, merr.Errors[1].Error(), "constant index 9 out of range")
	require.Contains(t, merr.Errors[2].Error(), "OP_CONSTANT at offset 3 is missing 1 operand byte(s)")

	var serr *errz.StructuredError
	require.True(t, errors.As(merr.Errors[2], &serr))
	require.Equal(t, 3, serr.Location.Line)
	require.Equal(t, 3, serr.Location.Offset)
	require.True(t, errz.IsCompileError(err))
}

func TestStats(t *testing.T) {
	c := testChunk(t)
	c.Write(99, 126)
	stats := c.Stats()
	require.Equal(t, 11, stats.CodeBytes)
	require.Equal(t, 8, stats.InstructionCount)
	require.Equal(t, 3, stats.ConstantCount)
	require.Equal(t, 4, stats.LineCount)
	require.Equal(t, map[string]int{
		"OP_CONSTANT": 3,
		"OP_ADD":      1,
		"OP_DIVIDE":   1,
		"OP_NEGATE":   1,
		"OP_RETURN":   1,
		"UNKNOWN(99)": 1,
	}, stats.Opcodes)
}
