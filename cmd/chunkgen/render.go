package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jsemit/chunkgen/internal/exitcode"
	"github.com/jsemit/chunkgen/pkg/api"
)

var renderCmd = &cobra.Command{
	Use:   "render [flags] fixture.json",
	Short: "Render every chunk of a fixture",
	Long: `Render reads a linked chunk graph (JSON, or msgpack for ".msgpack" files)
and writes one output file per chunk plus any source maps`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	flags := renderCmd.Flags()
	flags.String("config", "", "read output options from this TOML file (\"-\" for stdin)")
	flags.String("format", "", "output format (es|cjs|iife|amd|app)")
	flags.String("exports", "", "export mode (auto|named|default|none)")
	flags.String("sourcemap", "", "emit source maps (inline|linked|external)")
	flags.String("interop", "", "interop mode for external imports")
	flags.String("name", "", "global name for the iife format")
	flags.Bool("extend", false, "extend an existing global instead of replacing it")
	flags.StringToString("global", nil, "global variable for an external module (module=name)")
	flags.String("outdir", "", "the output directory")
	flags.Int("concurrency", 0, "maximum number of modules rendered at once")
	flags.Bool("timing", false, "print where time was spent")
	flags.Bool("dry-run", false, "report the output files without writing them")
}

var formats = map[string]api.Format{
	"es":       api.FormatESModule,
	"esm":      api.FormatESModule,
	"module":   api.FormatESModule,
	"cjs":      api.FormatCommonJS,
	"commonjs": api.FormatCommonJS,
	"iife":     api.FormatIIFE,
	"amd":      api.FormatAMD,
	"app":      api.FormatApp,
}

var exportModes = map[string]api.Exports{
	"auto":    api.ExportsAuto,
	"named":   api.ExportsNamed,
	"default": api.ExportsDefault,
	"none":    api.ExportsNone,
}

var sourceMaps = map[string]api.SourceMap{
	"inline":   api.SourceMapInline,
	"linked":   api.SourceMapLinked,
	"external": api.SourceMapExternal,
}

var logLevels = map[string]api.LogLevel{
	"info":    api.LogLevelInfo,
	"warning": api.LogLevelWarning,
	"error":   api.LogLevelError,
	"silent":  api.LogLevelSilent,
}

var colors = map[string]api.StderrColor{
	"auto": api.ColorIfTerminal,
	"on":   api.ColorAlways,
	"off":  api.ColorNever,
}

func lookup[T any](table map[string]T, flag string, value string) (T, error) {
	var zero T
	if value == "" {
		return zero, nil
	}
	if result, ok := table[value]; ok {
		return result, nil
	}
	return zero, fmt.Errorf("invalid value %q for --%s", value, flag)
}

func renderOptionsFromFlags(cmd *cobra.Command) (api.RenderOptions, error) {
	var options api.RenderOptions
	var err error
	flags := cmd.Flags()

	get := func(name string) string {
		value, _ := flags.GetString(name)
		return value
	}
	persistent := func(name string) string {
		value, _ := cmd.Root().PersistentFlags().GetString(name)
		return value
	}

	if options.Format, err = lookup(formats, "format", get("format")); err != nil {
		return options, err
	}
	if options.Exports, err = lookup(exportModes, "exports", get("exports")); err != nil {
		return options, err
	}
	if options.Sourcemap, err = lookup(sourceMaps, "sourcemap", get("sourcemap")); err != nil {
		return options, err
	}
	if options.LogLevel, err = lookup(logLevels, "log-level", persistent("log-level")); err != nil {
		return options, err
	}
	if options.Color, err = lookup(colors, "color", persistent("color")); err != nil {
		return options, err
	}

	if configFile := get("config"); configFile == "-" {
		text, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return options, err
		}
		options.ConfigText = string(text)
	} else {
		options.ConfigFile = configFile
	}
	options.Interop = get("interop")
	options.GlobalName = get("name")
	options.Outdir = get("outdir")
	options.Extend, _ = flags.GetBool("extend")
	options.Globals, _ = flags.GetStringToString("global")
	options.Concurrency, _ = flags.GetInt("concurrency")
	options.Timing, _ = flags.GetBool("timing")
	return options, nil
}

func runRender(cmd *cobra.Command, args []string) error {
	options, err := renderOptionsFromFlags(cmd)
	if err != nil {
		return exitcode.Set(err, exitcode.Usage)
	}
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	applyColorFlag(options.Color)

	fixture, err := api.LoadFixture(args[0])
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", args[0], err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result := api.RenderChunks(ctx, fixture, options)
	if len(result.Errors) > 0 {
		return exitcode.Set(fmt.Errorf("rendering failed with %d error(s)", len(result.Errors)), exitcode.Diagnostics)
	}

	for _, file := range result.OutputFiles {
		if !dryRun {
			if err := os.MkdirAll(filepath.Dir(file.Path), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(file.Path, file.Contents, 0o644); err != nil {
				return err
			}
		}
		if options.LogLevel == api.LogLevelInfo {
			printOutputFile(file)
		}
	}

	if result.Timing != "" {
		fmt.Fprintln(os.Stderr, result.Timing)
	}
	return nil
}

var (
	pathColor = color.New(color.Bold)
	sizeColor = color.New(color.FgCyan)
	errColor  = color.New(color.FgRed, color.Bold)
)

func applyColorFlag(value api.StderrColor) {
	switch value {
	case api.ColorAlways:
		color.NoColor = false
	case api.ColorNever:
		color.NoColor = true
	}
}

func printOutputFile(file api.OutputFile) {
	path := file.Path
	if cwd, err := os.Getwd(); err == nil {
		if rel, err := filepath.Rel(cwd, path); err == nil && !strings.HasPrefix(rel, "..") {
			path = rel
		}
	}
	fmt.Fprintf(color.Error, "  %s  %s\n", pathColor.Sprint(path), sizeColor.Sprint(formatSize(len(file.Contents))))
}

func printError(err error) {
	fmt.Fprintf(color.Error, "%s %s\n", errColor.Sprint("error:"), err.Error())
}

func formatSize(bytes int) string {
	switch {
	case bytes < 1024:
		return fmt.Sprintf("%db", bytes)
	case bytes < 1024*1024:
		return fmt.Sprintf("%.1fkb", float64(bytes)/1024)
	default:
		return fmt.Sprintf("%.1fmb", float64(bytes)/(1024*1024))
	}
}
