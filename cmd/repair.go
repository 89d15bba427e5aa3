package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var repairFixed string

var repairCmd = &cobra.Command{
	Use:   "repair ZIPFILE",
	Short: "Rebuild a zip archive from its local file headers",
	Long: `Scans the raw bytes for local file header signatures and writes a new
	archive holding one entry per header found, whatever the state of the
	central directory.

	ex:
	zipfix repair broken.zip
	zipfix repair broken.zip -f repaired.zip`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := newWorkflow(context.Background(), args[0])
		if err != nil {
			return err
		}
		return w.run("", repairFixed, false, true)
	},
}

func init() {
	rootCmd.AddCommand(repairCmd)
	repairCmd.Flags().StringVarP(&repairFixed, "fixed", "f", "", "path for the repaired zip file (default <name>.fixed.zip)")
}
