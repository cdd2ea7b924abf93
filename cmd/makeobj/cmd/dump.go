/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/makeobj/pkg/convert"
)

func newDumpCmd(a *app) *cobra.Command {
	dumpCmd := &cobra.Command{
		Use:   "dump <file>...",
		Short: "Write files as C char far arrays",
		Long: `Write each file as a C array initializer named after the file and save
it next to the input with an .h extension.

Examples:
  makeobj dump PALETTE.PAL
  makeobj dump --skip 128 --values-per-line 1 SPRITE.BIN`,
		Args: cobra.MinimumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			if output != "" && len(args) > 1 {
				return fmt.Errorf("--output needs exactly one input, got %d", len(args))
			}
			if cmd.Flags().Changed("skip") {
				a.config.Dump.Skip, _ = cmd.Flags().GetInt("skip")
			}
			if cmd.Flags().Changed("values-per-line") {
				a.config.Dump.ValuesPerLine, _ = cmd.Flags().GetInt("values-per-line")
			}
			return a.config.Validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")

			return a.runBatch(cmd, args, func(c convert.Converter, input string) (*convert.Result, error) {
				return c.DumpFile(convert.DumpRequest{
					Input:  input,
					Output: output,
					Skip:   a.config.Dump.Skip,
				})
			})
		},
	}

	dumpCmd.Flags().Int("skip", 0, "Number of leading bytes to leave out")
	dumpCmd.Flags().Int("values-per-line", 0, "Values on each line of the initializer")
	dumpCmd.Flags().StringP("output", "o", "", "Output file (single input only)")

	return dumpCmd
}
