package bytecode

import "github.com/deepnoodle-ai/rlox/op"

// Stats contains statistics about a chunk.
// This is useful for auditing chunks before execution.
type Stats struct {
	// CodeBytes is the number of bytes in the instruction stream.
	CodeBytes int `json:"code_bytes"`

	// InstructionCount is the number of decoded instructions. Bytes that are
	// not valid opcodes count as one instruction each.
	InstructionCount int `json:"instruction_count"`

	// ConstantCount is the number of constants in the constant pool.
	ConstantCount int `json:"constant_count"`

	// LineCount is the number of distinct source lines.
	LineCount int `json:"line_count"`

	// Opcodes counts instructions by mnemonic.
	Opcodes map[string]int `json:"opcodes"`
}

// Stats walks the instruction stream and returns statistics about the chunk.
func (c *Chunk) Stats() Stats {
	stats := Stats{
		CodeBytes:     c.Count(),
		ConstantCount: c.ConstantCount(),
		Opcodes:       map[string]int{},
	}
	lines := map[int]struct{}{}
	for _, line := range c.Lines() {
		lines[line] = struct{}{}
	}
	stats.LineCount = len(lines)
	for offset := 0; offset < c.Count(); {
		b, _ := c.Instruction(offset)
		code := op.Code(b)
		stats.InstructionCount++
		stats.Opcodes[code.String()]++
		offset += op.Width(code)
	}
	return stats
}
