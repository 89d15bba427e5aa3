package cmd

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/alec-rabold/zipfix/pkg/zipfile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var scanCmd = &cobra.Command{
	Use:   "scan ZIPFILE",
	Short: "List the zip records found in the raw bytes of a file",
	Long: `Scans for local file headers, central directory headers and the end of
	central directory record, shows how each local entry would be recovered,
	and reports where the records disagree with one another.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := newWorkflow(context.Background(), args[0])
		if err != nil {
			return err
		}
		inv := zipfile.Inspect(w.buf, viper.GetInt(keyRepairTailLimit))
		return printInventory(cmd.OutOrStdout(), inv)
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

func printInventory(out io.Writer, inv *zipfile.Inventory) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "size\t%d\n", inv.Size)
	fmt.Fprintf(tw, "local headers\t%d\n", len(inv.Signatures.LocalHeaders))
	fmt.Fprintf(tw, "central directory headers\t%d\n", len(inv.Signatures.DirectoryHeaders))
	if inv.End != nil {
		fmt.Fprintf(tw, "end of central directory\t%d (records %d, offset %d, size %d)\n",
			inv.End.Offset, inv.End.DirectoryRecords, inv.End.DirectoryOffset, inv.End.DirectorySize)
	}
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "#\tOFFSET\tNAME\tDECLARED\tSPAN\tPOLICY")
	for _, e := range inv.Locals {
		declared := "-"
		if e.Header != nil {
			declared = fmt.Sprint(e.Header.CompressedSize)
		}
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%d-%d\t%s\n",
			e.Index, e.Offset, e.Name, declared, e.Span.Start, e.Span.End, e.Span.Policy)
	}

	if len(inv.Directory) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "OFFSET\tNAME\tCOMPRESSED\tSIZE\tLOCAL HEADER")
		for _, d := range inv.Directory {
			fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\n",
				d.Offset, d.Name, d.CompressedSize64, d.UncompressedSize64, d.HeaderOffset)
		}
	}

	if len(inv.Problems) > 0 {
		fmt.Fprintln(tw)
		for _, p := range inv.Problems {
			fmt.Fprintf(tw, "problem:\t%s\n", p)
		}
	}
	return tw.Flush()
}
