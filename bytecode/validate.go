package bytecode

import (
	"github.com/deepnoodle-ai/rlox/errz"
	"github.com/deepnoodle-ai/rlox/op"
	"github.com/hashicorp/go-multierror"
)

// Validate walks the instruction stream and reports every malformed
// instruction: unknown opcodes, operands cut off by the end of the code and
// constant operands outside the pool. It returns nil for a well formed chunk
// and a *multierror.Error otherwise.
func (c *Chunk) Validate() error {
	var result *multierror.Error
	if c.lines.Count() != c.code.Count() {
		result = multierror.Append(result, errz.NewStructuredErrorf(errz.ErrCompile,
			errz.SourceLocation{Chunk: c.name, Offset: -1},
			"line table has %d entries for %d code bytes", c.lines.Count(), c.code.Count()))
	}
	for offset := 0; offset < c.Count(); {
		b, _ := c.Instruction(offset)
		code, err := op.Decode(b)
		if err != nil {
			result = multierror.Append(result, c.compileError(offset, err, "%s", err))
			offset++
			continue
		}
		info, _ := op.GetInfo(code)
		if offset+info.Width() > c.Count() {
			result = multierror.Append(result, c.compileError(offset, nil,
				"%s at offset %d is missing %d operand byte(s)", info.Name, offset,
				offset+info.Width()-c.Count()))
			break
		}
		if code == op.Constant {
			index, _ := c.Instruction(offset + 1)
			if int(index) >= c.ConstantCount() {
				result = multierror.Append(result, c.compileError(offset, nil,
					"constant index %d out of range (pool has %d)", index, c.ConstantCount()))
			}
		}
		offset += info.Width()
	}
	return result.ErrorOrNil()
}

func (c *Chunk) compileError(offset int, cause error, format string, args ...any) error {
	line, _ := c.Line(offset)
	loc := errz.SourceLocation{Chunk: c.name, Line: line, Offset: offset}
	err := errz.NewStructuredErrorf(errz.ErrCompile, loc, format, args...)
	if cause != nil {
		err = err.WithCause(cause)
	}
	return err
}
