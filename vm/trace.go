package vm

import (
	"bytes"

	"github.com/deepnoodle-ai/rlox/dis"
)

// traceStep prints the stack contents and the instruction about to run.
func (vm *VirtualMachine) traceStep() {
	var buf bytes.Buffer
	buf.WriteString("          ")
	for _, v := range vm.stack[:vm.sp] {
		buf.WriteString("[")
		buf.WriteString(v.Inspect())
		buf.WriteString("]")
	}
	buf.WriteString("\n")
	dis.DisassembleInstruction(&buf, vm.chunk, vm.ip)
	vm.traceOut.Write(buf.Bytes())
}
