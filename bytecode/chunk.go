package bytecode

import (
	"errors"
	"fmt"

	"github.com/deepnoodle-ai/rlox/internal/buffer"
	"github.com/deepnoodle-ai/rlox/object"
	"github.com/deepnoodle-ai/rlox/op"
)

// MaxConstants is the size of the constant pool addressable by a one-byte
// operand.
const MaxConstants = 256

// ErrTooManyConstants is returned by AddConstant when the pool is full.
var ErrTooManyConstants = errors.New("too many constants in one chunk")

// Chunk is a unit of bytecode: instruction bytes, a constant pool and a line
// table with one entry per code byte.
type Chunk struct {
	name      string
	code      *buffer.Buffer[byte]
	constants *buffer.Buffer[object.Value]
	lines     *buffer.Buffer[int]
}

// NewChunk returns an empty chunk. The name is used as the disassembly
// header and in error locations.
func NewChunk(name string) *Chunk {
	return &Chunk{
		name:      name,
		code:      buffer.New[byte](),
		constants: buffer.New[object.Value](),
		lines:     buffer.New[int](),
	}
}

// Name returns the chunk's name.
func (c *Chunk) Name() string {
	return c.name
}

// Write appends one byte to the code and its source line to the line table.
func (c *Chunk) Write(b byte, line int) {
	c.code.Push(b)
	c.lines.Push(line)
}

// WriteOp appends an opcode byte.
func (c *Chunk) WriteOp(code op.Code, line int) {
	c.Write(op.Encode(code), line)
}

// AddConstant appends v to the constant pool and returns its index. The
// index always fits in one byte; once the pool holds MaxConstants values
// ErrTooManyConstants is returned and the chunk is left unchanged.
func (c *Chunk) AddConstant(v object.Value) (int, error) {
	if c.constants.Count() >= MaxConstants {
		return 0, fmt.Errorf("%w (max %d)", ErrTooManyConstants, MaxConstants)
	}
	c.constants.Push(v)
	return c.constants.Count() - 1, nil
}

// EmitConstant adds v to the pool and writes a Constant instruction that
// loads it.
func (c *Chunk) EmitConstant(v object.Value, line int) error {
	index, err := c.AddConstant(v)
	if err != nil {
		return err
	}
	c.WriteOp(op.Constant, line)
	c.Write(byte(index), line)
	return nil
}

// Count returns the number of code bytes.
func (c *Chunk) Count() int {
	return c.code.Count()
}

// ConstantCount returns the number of values in the constant pool.
func (c *Chunk) ConstantCount() int {
	return c.constants.Count()
}

// Instruction returns the code byte at offset ip.
func (c *Chunk) Instruction(ip int) (byte, error) {
	return c.code.At(ip)
}

// Constant returns the constant at index.
func (c *Chunk) Constant(index int) (object.Value, error) {
	return c.constants.At(index)
}

// Line returns the source line of the code byte at offset.
func (c *Chunk) Line(offset int) (int, error) {
	return c.lines.At(offset)
}

// Code returns a copy of the instruction bytes.
func (c *Chunk) Code() []byte {
	return c.code.Slice()
}

// Lines returns a copy of the line table.
func (c *Chunk) Lines() []int {
	return c.lines.Slice()
}

// Constants returns a copy of the constant pool.
func (c *Chunk) Constants() []object.Value {
	return c.constants.Slice()
}

// Free releases the chunk's buffers. The chunk is empty afterwards.
func (c *Chunk) Free() {
	c.code.Free()
	c.constants.Free()
	c.lines.Free()
}
