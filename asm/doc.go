/*
Package asm provides a textual assembler for rlox chunks.

A program is a sequence of instructions, one per line or several on a line
separated by semicolons. Everything after a '#' is a comment. Mnemonics are
the opcode names with or without the OP_ prefix, in any case:

	# -(5.6 / (1.2 + 3.4))
	.line 123
	constant 1.2; constant 3.4; add
	constant 5.6
	divide
	negate
	return

constant takes a single number, which is appended to the chunk's constant
pool. The other instructions take no operand.

The .const directive adds a number to the pool without loading it, and
constant #N loads pool slot N. Together they describe pools with shared or
unused slots:

	.const 2
	constant #0; constant #0; multiply

Each instruction is recorded with the line number of the assembly line it was
written on. The .line directive overrides that: instructions that follow it
are recorded on the given line until the next .line directive. Any integer
is accepted.

Format writes a chunk back out in the same syntax.
*/
package asm
