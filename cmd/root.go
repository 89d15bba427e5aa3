package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// VERSION is set during build
	VERSION string
)

var cfgFile, logLevel string
var outDir, fixedPath string
var extractOnly, repairOnly bool

// errConflictingModes is returned when both --extract-only and --repair-only are set.
var errConflictingModes = errors.New("cannot use both --extract-only and --repair-only")

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "zipfix ZIPFILE",
	Short: "Fix and extract corrupted zip archives",
	Long: `zipfix extracts a zip archive with the standard reader and, when that
	fails, rebuilds the archive from the local file headers it can still find in
	the raw bytes, then extracts the rebuilt archive.

	example:

		zipfix broken.zip
		zipfix broken.zip -o out/ -f repaired.zip
		zipfix broken.zip --repair-only
		zipfix s3://myBucket/broken.zip`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if extractOnly && repairOnly {
			return errConflictingModes
		}
		w, err := newWorkflow(context.Background(), args[0])
		if err != nil {
			return err
		}
		return w.run(outDir, fixedPath, extractOnly, repairOnly)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute(version string) {
	VERSION = version
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.zipfix.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", fmt.Sprintf("log level (default %q)", defaultLogLevel))

	rootCmd.Flags().StringVarP(&outDir, "output", "o", "", "output directory for extracted files (default <name>_extracted)")
	rootCmd.Flags().StringVarP(&fixedPath, "fixed", "f", "", "path for the repaired zip file (default <name>.fixed.zip)")
	rootCmd.Flags().BoolVar(&extractOnly, "extract-only", false, "only try to extract without repairing")
	rootCmd.Flags().BoolVar(&repairOnly, "repair-only", false, "only repair without extracting")
}
