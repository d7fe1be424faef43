package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deepnoodle-ai/rlox/bytecode"
)

func newBuildCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build file",
		Short: "Assemble or convert a chunk",
		Long: `Build a chunk from a file and write it to the path given by --output.
The output format follows its extension: .json, .rloxc (CBOR) or .rlasm.
Without --output the chunk is printed to stdout as JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: buildHandler,
	}
	cmd.Flags().StringP("output", "o", "", "output file")
	return cmd
}

func buildHandler(cmd *cobra.Command, args []string) error {
	chunk, err := loadChunk(args[0], cmd.InOrStdin())
	if err != nil {
		return err
	}
	defer chunk.Free()
	if err := chunk.Validate(); err != nil {
		return err
	}

	output, _ := cmd.Flags().GetString("output")
	if output != "" {
		return saveChunk(output, chunk)
	}
	data, err := bytecode.Marshal(chunk)
	if err != nil {
		return err
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	pretty, err := getOutputJSON(doc)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(pretty))
	return nil
}
