// Package bytecode provides Chunk, the unit of code executed by the rlox
// virtual machine.
//
// A chunk holds three parallel tables:
//
//   - code: the instruction bytes, each instruction an opcode optionally
//     followed by operand bytes (see package op for widths)
//   - constants: up to 256 literal values addressed by a one-byte operand
//   - lines: the source line of every code byte, so a two-byte instruction
//     records its line twice
//
// Chunks are built with Write, WriteOp, AddConstant and EmitConstant and
// are treated as read-only once handed to the virtual machine.
//
// Example:
//
//	chunk := bytecode.NewChunk("test chunk")
//	if err := chunk.EmitConstant(object.NewNumber(1.2), 123); err != nil {
//	    return err
//	}
//	chunk.WriteOp(op.Return, 123)
//
// Chunks can be stored as JSON (Marshal) or as compact CBOR (MarshalCBOR).
package bytecode
