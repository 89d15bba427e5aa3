package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/alec-rabold/zipfix/pkg/reader"
	"github.com/klauspost/compress/zip"
	homedir "github.com/mitchellh/go-homedir"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const defaultLogLevel = "info"

// Configuration keys.
const (
	keyLogLevel         = "log.level"
	keyRepairMethod     = "repair.method"
	keyRepairTailLimit  = "repair.tail_limit"
	keyExtractOverwrite = "extract.overwrite"
)

func init() {
	viper.SetDefault(keyLogLevel, defaultLogLevel)
	viper.SetDefault(keyRepairMethod, "store")
	viper.SetDefault(keyRepairTailLimit, reader.DefaultTailLimit)
	viper.SetDefault(keyExtractOverwrite, true)
}

// initConfig reads in the config file if one exists and applies the log level.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		// Search config in home directory with name ".zipfix" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".zipfix")
	}

	if err := viper.ReadInConfig(); err == nil {
		log.Debugf("using config file: %s", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if logLevel != "" {
		viper.Set(keyLogLevel, logLevel)
	}
	if err := configureLogging(viper.GetString(keyLogLevel)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func configureLogging(level string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	log.SetLevel(lvl)
	log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	return nil
}

// parseMethod maps a configured method name to a zip compression method.
func parseMethod(name string) (uint16, error) {
	switch strings.ToLower(name) {
	case "", "store", "stored":
		return zip.Store, nil
	case "deflate", "deflated":
		return zip.Deflate, nil
	}
	return 0, fmt.Errorf("unsupported repair method %q", name)
}
