// Package dis supports analysis of rlox bytecode by disassembling it.
// Instruction widths come from the `op` package, the same table the virtual
// machine uses, so the two can never disagree about where an instruction
// ends.
package dis

import (
	"fmt"
	"io"

	"github.com/deepnoodle-ai/rlox/bytecode"
	"github.com/deepnoodle-ai/rlox/object"
	"github.com/deepnoodle-ai/rlox/op"
	"github.com/fatih/color"
)

// Instruction represents a single bytecode instruction and its operands.
type Instruction struct {
	Offset   int           `json:"offset"`
	Line     int           `json:"line"`
	Opcode   op.Code       `json:"opcode"`
	Name     string        `json:"name"`
	Operands []int         `json:"operands,omitempty"`
	Constant *object.Value `json:"constant,omitempty"`
	Error    string        `json:"error,omitempty"`
	Width    int           `json:"-"`
}

// Decode parses the instruction at offset. Decoding problems (unknown
// opcode, missing operand, bad constant index) are recorded in the Error
// field rather than returned, so a caller can keep walking the chunk.
func Decode(chunk *bytecode.Chunk, offset int) Instruction {
	line, _ := chunk.Line(offset)
	instr := Instruction{Offset: offset, Line: line, Width: 1}
	b, err := chunk.Instruction(offset)
	if err != nil {
		instr.Error = fmt.Sprintf("<offset %d out of range>", offset)
		return instr
	}
	instr.Opcode = op.Code(b)
	code, err := op.Decode(b)
	if err != nil {
		instr.Error = fmt.Sprintf("Unknown opcode %d", b)
		return instr
	}
	info, _ := op.GetInfo(code)
	instr.Name = info.Name
	instr.Width = info.Width()
	if offset+instr.Width > chunk.Count() {
		instr.Width = chunk.Count() - offset
		instr.Error = "<missing operand>"
		return instr
	}
	for i := 1; i <= info.OperandCount; i++ {
		operand, _ := chunk.Instruction(offset + i)
		instr.Operands = append(instr.Operands, int(operand))
	}
	if code == op.Constant {
		value, err := chunk.Constant(instr.Operands[0])
		if err != nil {
			instr.Error = "<invalid constant>"
		} else {
			instr.Constant = &value
		}
	}
	return instr
}

// Instructions returns a parsed representation of every instruction in the
// chunk.
func Instructions(chunk *bytecode.Chunk) []Instruction {
	var instructions []Instruction
	for offset := 0; offset < chunk.Count(); {
		instr := Decode(chunk, offset)
		instructions = append(instructions, instr)
		offset += instr.Width
	}
	return instructions
}

// Printer renders instructions as text. When Color is set, opcode names are
// bold and constants are highlighted.
type Printer struct {
	Writer io.Writer
	Color  bool
}

// Disassemble prints a header followed by every instruction in the chunk.
func Disassemble(w io.Writer, chunk *bytecode.Chunk, name string) {
	(&Printer{Writer: w}).Disassemble(chunk, name)
}

// DisassembleInstruction prints the instruction at offset and returns the
// offset of the next one.
func DisassembleInstruction(w io.Writer, chunk *bytecode.Chunk, offset int) int {
	return (&Printer{Writer: w}).DisassembleInstruction(chunk, offset)
}

// Disassemble prints a header followed by every instruction in the chunk.
func (p *Printer) Disassemble(chunk *bytecode.Chunk, name string) {
	fmt.Fprintf(p.Writer, "== %s ==\n", name)
	for offset := 0; offset < chunk.Count(); {
		offset = p.DisassembleInstruction(chunk, offset)
	}
}

// DisassembleInstruction prints the instruction at offset and returns the
// offset of the next one.
func (p *Printer) DisassembleInstruction(chunk *bytecode.Chunk, offset int) int {
	instr := Decode(chunk, offset)
	fmt.Fprintf(p.Writer, "%04d ", offset)
	prev, err := chunk.Line(offset - 1)
	if err == nil && prev == instr.Line {
		fmt.Fprint(p.Writer, "   | ")
	} else {
		fmt.Fprintf(p.Writer, "%4d ", instr.Line)
	}
	switch {
	case instr.Name == "":
		fmt.Fprintln(p.Writer, p.errorText(instr.Error))
	case len(instr.Operands) == 0 && instr.Error == "":
		fmt.Fprintln(p.Writer, p.bold(instr.Name))
	case instr.Error != "" && len(instr.Operands) == 0:
		fmt.Fprintf(p.Writer, "%s %s\n", p.bold(pad(instr.Name)), p.errorText(instr.Error))
	case instr.Error != "":
		fmt.Fprintf(p.Writer, "%s %d %s\n", p.bold(pad(instr.Name)), instr.Operands[0], p.errorText(instr.Error))
	default:
		fmt.Fprintf(p.Writer, "%s %d '%s'\n", p.bold(pad(instr.Name)), instr.Operands[0],
			p.constant(instr.Constant.Inspect()))
	}
	return offset + instr.Width
}

func pad(name string) string {
	return fmt.Sprintf("%-16s", name)
}

func (p *Printer) bold(s string) string {
	return p.paint(color.New(color.Bold), s)
}

func (p *Printer) constant(s string) string {
	return p.paint(color.New(color.FgYellow), s)
}

func (p *Printer) errorText(s string) string {
	return p.paint(color.New(color.FgRed), s)
}

func (p *Printer) paint(c *color.Color, s string) string {
	if !p.Color {
		return s
	}
	c.EnableColor()
	return c.Sprint(s)
}
