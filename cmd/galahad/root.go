package main

import (
	"github.com/spf13/cobra"
)

// Version is set via ldflags at build time.
var Version = "dev"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "galahad",
	Short: "A pluggable text-annotation recommender service",
	Long: "galahad hosts pluggable text classifiers and exposes them over HTTP so an " +
		"annotation editor can build training corpora, trigger background training, " +
		"and request predictions that enrich documents with new annotations.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./galahad.toml)")
	rootCmd.AddCommand(serveCmd, versionCmd, seedCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
