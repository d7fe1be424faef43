package asm

import (
	"fmt"
	"io"
	"strings"

	"github.com/deepnoodle-ai/rlox/bytecode"
	"github.com/deepnoodle-ai/rlox/dis"
	"github.com/deepnoodle-ai/rlox/op"
)

// Format writes chunk as assembly that Assemble turns back into the same
// code, lines and constant pool.
//
// A .line directive precedes the first instruction and is repeated whenever
// the recorded line changes. When every constant in the pool is loaded
// exactly once and in pool order, constants are written inline. Otherwise
// the pool is written up front with .const and each load refers to its slot
// as constant #index.
//
// Format fails on the first instruction that cannot be decoded, and on an
// operand byte whose line differs from its opcode's, since assembly records
// one line per instruction. Nothing after the failing instruction is
// written.
func Format(w io.Writer, chunk *bytecode.Chunk) error {
	instructions := dis.Instructions(chunk)
	inline := inlineConstants(chunk, instructions)
	if !inline {
		for _, v := range chunk.Constants() {
			if _, err := fmt.Fprintf(w, ".const %s\n", v.String()); err != nil {
				return err
			}
		}
	}
	for i, ins := range instructions {
		if ins.Error != "" {
			return fmt.Errorf("offset %d: %s", ins.Offset, ins.Error)
		}
		for j := 1; j < ins.Width; j++ {
			if line, _ := chunk.Line(ins.Offset + j); line != ins.Line {
				return fmt.Errorf("offset %d: operand recorded on line %d, opcode on line %d",
					ins.Offset+j, line, ins.Line)
			}
		}
		if i == 0 || ins.Line != instructions[i-1].Line {
			if _, err := fmt.Fprintf(w, ".line %d\n", ins.Line); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, mnemonic(ins, inline)+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// inlineConstants reports whether the constant loads of instructions are
// exactly 0, 1, ... up to the pool size, which is what "constant <number>"
// produces.
func inlineConstants(chunk *bytecode.Chunk, instructions []dis.Instruction) bool {
	next := 0
	for _, ins := range instructions {
		if ins.Opcode != op.Constant || ins.Error != "" || len(ins.Operands) == 0 {
			continue
		}
		if ins.Operands[0] != next {
			return false
		}
		next++
	}
	return next == chunk.ConstantCount()
}

func mnemonic(ins dis.Instruction, inline bool) string {
	name := strings.ToLower(strings.TrimPrefix(ins.Name, "OP_"))
	if ins.Opcode != op.Constant {
		return name
	}
	if inline && ins.Constant != nil {
		return name + " " + ins.Constant.String()
	}
	return fmt.Sprintf("%s #%d", name, ins.Operands[0])
}
