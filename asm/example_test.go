package asm_test

import (
	"fmt"
	"os"

	"github.com/deepnoodle-ai/rlox/asm"
	"github.com/deepnoodle-ai/rlox/dis"
)

func ExampleAssemble() {
	chunk, err := asm.AssembleString("test chunk", ".line 123\nconstant 1.2\nnegate\nreturn")
	if err != nil {
		fmt.Println(err)
		return
	}
	dis.Disassemble(os.Stdout, chunk, chunk.Name())

	// Output:
	// == test chunk ==
	// 0000  123 OP_CONSTANT      0 '1.2'
	// 0002    | OP_NEGATE
	// 0003    | OP_RETURN
}
