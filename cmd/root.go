package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagIgnoreConfig  bool
	flagDebug         bool
	flagDataFile      string
	flagWatermarkFile string
)

var rootCmd = &cobra.Command{
	Use:           "fichas",
	Short:         "Keeps tracked series up to date with the latest chapters of a catalog",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&flagIgnoreConfig, "ignore-config", false, "ignore config and use only CLI flags")
	rootCmd.PersistentFlags().StringVar(&flagDataFile, "data", "", "path to the fichas JSON file")
	rootCmd.PersistentFlags().StringVar(&flagWatermarkFile, "watermark", "", "path to the watermark file")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
