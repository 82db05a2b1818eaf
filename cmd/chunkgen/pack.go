package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jsemit/chunkgen/pkg/api"
)

var packCmd = &cobra.Command{
	Use:   "pack [flags] fixture.json",
	Short: "Convert a JSON fixture to msgpack",
	Args:  cobra.ExactArgs(1),
	RunE:  runPack,
}

func init() {
	packCmd.Flags().StringP("output", "o", "", "where to write the msgpack file (default: next to the input)")
}

func runPack(cmd *cobra.Command, args []string) error {
	input := args[0]
	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = strings.TrimSuffix(input, ".json") + ".msgpack"
	}

	fixture, err := api.LoadFixture(input)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", input, err)
	}
	data, err := api.EncodeFixtureMsgpack(fixture)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", input, err)
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return err
	}

	printOutputFile(api.OutputFile{Path: output, Contents: data})
	return nil
}
