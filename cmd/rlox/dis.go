package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/deepnoodle-ai/rlox/dis"
)

func newDisCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dis [file]",
		Short: "Disassemble an rlox chunk",
		Long: `Disassemble an rlox chunk read from a file, or assembly read from stdin.
With --output json the decoded instructions are printed as JSON.`,
		Args: cobra.MaximumNArgs(1),
		RunE: disHandler,
	}
	cmd.Flags().StringP("output", "o", "text", "output format (text, json)")
	cmd.Flags().Bool("stats", false, "print chunk statistics as JSON instead")
	cmd.RegisterFlagCompletionFunc("output", cobra.FixedCompletions(outputFormatsCompletion, cobra.ShellCompDirectiveNoFileComp))
	return cmd
}

var outputFormatsCompletion = []string{"json", "text"}

func disHandler(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("output")
	chunk, err := loadChunk(inputPath(args), cmd.InOrStdin())
	if err != nil {
		return err
	}
	defer chunk.Free()

	out := cmd.OutOrStdout()
	if stats, _ := cmd.Flags().GetBool("stats"); stats {
		output, err := getOutputJSON(chunk.Stats())
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(output))
		return nil
	}
	switch strings.ToLower(format) {
	case "", "text":
		printer := &dis.Printer{Writer: out, Color: useColor()}
		printer.Disassemble(chunk, chunk.Name())
		return nil
	case "json":
		output, err := getOutputJSON(dis.Instructions(chunk))
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(output))
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}
