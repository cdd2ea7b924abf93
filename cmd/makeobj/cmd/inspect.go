/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ssargent/makeobj/pkg/convert"
)

func newInspectCmd(a *app) *cobra.Command {
	inspectCmd := &cobra.Command{
		Use:   "inspect <file.obj>...",
		Short: "List the records of OMF object modules",
		Long: `List every record of each object file with its offset, length and
checksum state, followed by the decoded module: header name, comments,
names, public symbols, data size and any warnings.

Examples:
  makeobj inspect TITLE.obj
  makeobj inspect --format json *.obj`,
		Args: cobra.MinimumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			if format != "table" && format != "json" {
				return fmt.Errorf("invalid format %q: use table or json", format)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")

			conv, err := a.converter()
			if err != nil {
				return err
			}

			var inspections []*convert.Inspection
			failed := 0
			for _, input := range args {
				insp, err := conv.InspectFile(input)
				if err != nil {
					cmd.PrintErrf("Error: %v\n", err)
					failed++
					continue
				}
				inspections = append(inspections, insp)
			}

			if format == "json" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(inspections); err != nil {
					return err
				}
			} else {
				for i, insp := range inspections {
					if i > 0 {
						fmt.Fprintln(cmd.OutOrStdout())
					}
					printInspection(cmd.OutOrStdout(), insp)
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d files could not be inspected", failed, len(args))
			}
			return nil
		},
	}

	inspectCmd.Flags().StringP("format", "f", "table", "Output format: table or json")

	return inspectCmd
}

func printInspection(out io.Writer, insp *convert.Inspection) {
	fmt.Fprintf(out, "%s (%s)\n", insp.File, humanize.Bytes(uint64(insp.Size)))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "OFFSET\tKIND\tLENGTH\tCHECKSUM")
	for _, r := range insp.Records {
		fmt.Fprintf(w, "0x%06X\t%s\t%d\t%s\n", r.Offset, r.Kind, r.Length, r.Checksum)
	}
	w.Flush()

	if insp.ReadError != "" {
		fmt.Fprintf(out, "Listing stopped: %s\n", insp.ReadError)
	}

	if m := insp.Module; m != nil {
		fmt.Fprintf(out, "Module:   %s\n", m.Name)
		fmt.Fprintf(out, "Data:     %s (%d bytes)\n", humanize.Bytes(uint64(m.DataSize)), m.DataSize)
		if m.Segment != "" || m.Class != "" {
			fmt.Fprintf(out, "Segment:  %s class %s\n", m.Segment, m.Class)
		}
		if len(m.Comments) > 0 {
			fmt.Fprintf(out, "Comments: %s\n", strings.Join(m.Comments, ", "))
		}
		if len(m.Names) > 0 {
			fmt.Fprintf(out, "Names:    %s\n", strings.Join(m.Names, ", "))
		}
		if len(m.Publics) > 0 {
			fmt.Fprintf(out, "Publics:  %s\n", strings.Join(m.Publics, ", "))
		}
		for _, warning := range m.Warnings {
			fmt.Fprintf(out, "Warning:  %s\n", warning)
		}
	}
	if insp.DecodeError != "" {
		fmt.Fprintf(out, "Decode error: %s\n", insp.DecodeError)
	}
}
