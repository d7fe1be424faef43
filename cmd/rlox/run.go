package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/deepnoodle-ai/rlox/vm"
)

func runHandler(cmd *cobra.Command, args []string) error {
	if shouldRunRepl(args) {
		return runRepl(cmd)
	}
	chunk, err := loadChunk(inputPath(args), cmd.InOrStdin())
	if err != nil {
		return err
	}
	defer chunk.Free()

	// Loaded chunks are not validated up front; the VM reports malformed
	// instructions as runtime errors when it reaches them.
	logger := newLogger(cmd.ErrOrStderr())
	machine := vm.New(getVMOptions(cmd.OutOrStdout(), logger)...)
	_, err = machine.Interpret(chunk)
	return err
}

func shouldRunRepl(args []string) bool {
	if viper.GetBool("no-repl") {
		return false
	}
	if len(args) > 0 {
		return false
	}
	return isTerminalIO()
}

// inputPath returns the file argument, or "-" for stdin.
func inputPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "-"
}
