/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/makeobj/pkg/convert"
)

func newPackCmd(a *app) *cobra.Command {
	packCmd := &cobra.Command{
		Use:   "pack <file>...",
		Short: "Wrap binary files as OMF object modules",
		Long: `Wrap each file as an object module with one segment and one public
symbol at offset 0. The object is written next to the input with an .obj
extension.

Without --segment the module uses the _DATA segment of DGROUP (code mode)
or a segment named after the file (far mode). Without --symbol the public
symbol is an underscore followed by the lower-case file name.

Examples:
  makeobj pack TITLE.PCX
  makeobj pack --mode far --segment GFXSEG *.PCX
  makeobj pack --symbol _font --output font.obj FONT.BIN`,
		Args: cobra.MinimumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			if output != "" && len(args) > 1 {
				return fmt.Errorf("--output needs exactly one input, got %d", len(args))
			}
			if cmd.Flags().Changed("mode") {
				a.config.Pack.Mode, _ = cmd.Flags().GetString("mode")
			}
			if cmd.Flags().Changed("vendor") {
				a.config.Pack.Vendor, _ = cmd.Flags().GetString("vendor")
			}
			return a.config.Validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			segment, _ := cmd.Flags().GetString("segment")
			symbol, _ := cmd.Flags().GetString("symbol")

			return a.runBatch(cmd, args, func(c convert.Converter, input string) (*convert.Result, error) {
				return c.PackFile(convert.PackRequest{
					Input:       input,
					Output:      output,
					SegmentName: segment,
					SymbolName:  symbol,
				})
			})
		},
	}

	packCmd.Flags().StringP("mode", "m", "default", "Segment layout: default, code or far")
	packCmd.Flags().StringP("segment", "s", "", "Segment name")
	packCmd.Flags().StringP("symbol", "p", "", "Public symbol name")
	packCmd.Flags().StringP("output", "o", "", "Output file (single input only)")
	packCmd.Flags().String("vendor", "", "Text of the comment record")

	return packCmd
}
