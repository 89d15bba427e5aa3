package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var extractOut string

var extractCmd = &cobra.Command{
	Use:   "extract ZIPFILE",
	Short: "Extract a zip archive with the standard reader only",
	Long: `Opens the archive through its central directory and extracts every
	file, reporting the files that fail. No repair is attempted.

	ex:
	zipfix extract archive.zip
	zipfix extract archive.zip -o my/directory`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := newWorkflow(context.Background(), args[0])
		if err != nil {
			return err
		}
		return w.run(extractOut, "", true, false)
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().StringVarP(&extractOut, "output", "o", "", "output directory for extracted files (default <name>_extracted)")
}
