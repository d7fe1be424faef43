package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "rlox [file]",
		Short: "Run, inspect and build rlox bytecode chunks",
		Long: `Run an rlox chunk. The file may hold assembly (.rlasm), a JSON chunk
(.json) or a CBOR chunk (.rloxc). Use "-" to read assembly from stdin.
With no file and an interactive terminal, start the REPL.`,
		Version:           fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		Args:              cobra.MaximumNArgs(1),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: processGlobalFlags,
		RunE:              runHandler,
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (default is $HOME/.rlox.yaml)")
	flags.Int("stack-size", defaultStackSize, "operand stack capacity")
	flags.Bool("trace", false, "trace the stack and each instruction while running")
	flags.Bool("no-color", false, "disable colored output")
	flags.String("log-level", "warn", "log level (debug, info, warn, error)")
	for _, name := range []string{"config", "stack-size", "trace", "no-color", "log-level"} {
		viper.BindPFlag(name, flags.Lookup(name))
	}

	root.Flags().Bool("no-repl", false, "disable the REPL")
	viper.BindPFlag("no-repl", root.Flags().Lookup("no-repl"))

	root.AddCommand(
		newReplCommand(),
		newDisCommand(),
		newBuildCommand(),
		newDemoCommand(),
	)
	return root
}

func main() {
	err := newRootCommand().Execute()
	if err != nil {
		printError(err)
		os.Exit(exitCode(err))
	}
}
