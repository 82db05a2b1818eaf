package main

import (
	"github.com/spf13/cobra"

	"github.com/jsemit/chunkgen/internal/exitcode"
)

const chunkgenVersion = "0.4.0"

var rootCmd = &cobra.Command{
	Use:           "chunkgen",
	Short:         "Render linked chunk graphs into output files",
	Long:          `chunkgen turns an already linked chunk graph into ESM, CommonJS, IIFE, AMD or app output`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Version = chunkgenVersion

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(packCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().String("log-level", "info", "what to log (info|warning|error|silent)")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return exitcode.Set(err, exitcode.Usage)
	})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		printError(err)
		exitcode.Exit(err)
	}
}
