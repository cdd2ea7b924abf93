/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ssargent/makeobj/pkg/convert"
)

func newUnpackCmd(a *app) *cobra.Command {
	unpackCmd := &cobra.Command{
		Use:   "unpack <file.obj>...",
		Short: "Extract the data of OMF object modules",
		Long: `Extract the segment data of each object module into the file named by
its module header.

Examples:
  makeobj unpack TITLE.obj
  makeobj unpack --output-dir ./assets *.obj
  makeobj unpack --validate-checksums --max-input-size 131072 BIG.obj`,
		Args: cobra.MinimumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("validate-checksums") {
				a.config.Unpack.ValidateChecksums, _ = cmd.Flags().GetBool("validate-checksums")
			}
			if cmd.Flags().Changed("max-input-size") {
				a.config.Unpack.MaxInputSize, _ = cmd.Flags().GetInt("max-input-size")
			}
			return a.config.Validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			outputDir, _ := cmd.Flags().GetString("output-dir")

			return a.runBatch(cmd, args, func(c convert.Converter, input string) (*convert.Result, error) {
				return c.UnpackFile(input, outputDir)
			})
		},
	}

	unpackCmd.Flags().StringP("output-dir", "o", ".", "Directory for the extracted files")
	unpackCmd.Flags().Bool("validate-checksums", false, "Reject records with a wrong checksum")
	unpackCmd.Flags().Int("max-input-size", 0, "Largest object file accepted, in bytes")

	return unpackCmd
}
