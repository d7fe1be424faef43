package main

import (
	"github.com/spf13/cobra"

	"github.com/deepnoodle-ai/rlox/bytecode"
	"github.com/deepnoodle-ai/rlox/dis"
	"github.com/deepnoodle-ai/rlox/object"
	"github.com/deepnoodle-ai/rlox/op"
	"github.com/deepnoodle-ai/rlox/vm"
)

func newDemoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Disassemble and run a sample chunk computing -(5.6 / (1.2 + 3.4))",
		Args:  cobra.NoArgs,
		RunE:  demoHandler,
	}
}

// demoChunk builds the sample chunk, every byte on line 123.
func demoChunk() (*bytecode.Chunk, error) {
	chunk := bytecode.NewChunk("test chunk")
	for _, step := range []any{1.2, 3.4, op.Add, 5.6, op.Divide, op.Negate, op.Return} {
		switch step := step.(type) {
		case float64:
			if err := chunk.EmitConstant(object.NewNumber(step), 123); err != nil {
				return nil, err
			}
		case op.Code:
			chunk.WriteOp(step, 123)
		}
	}
	return chunk, nil
}

func demoHandler(cmd *cobra.Command, args []string) error {
	chunk, err := demoChunk()
	if err != nil {
		return err
	}
	defer chunk.Free()

	out := cmd.OutOrStdout()
	printer := &dis.Printer{Writer: out, Color: useColor()}
	printer.Disassemble(chunk, chunk.Name())

	machine := vm.New(getVMOptions(out, newLogger(cmd.ErrOrStderr()))...)
	_, err = machine.Interpret(chunk)
	return err
}
