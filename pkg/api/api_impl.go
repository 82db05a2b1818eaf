package api

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/jsemit/chunkgen/internal/ast"
	"github.com/jsemit/chunkgen/internal/config"
	"github.com/jsemit/chunkgen/internal/graph"
	"github.com/jsemit/chunkgen/internal/helpers"
	"github.com/jsemit/chunkgen/internal/linker"
	"github.com/jsemit/chunkgen/internal/logger"
	"github.com/jsemit/chunkgen/internal/plugin"
)

func validateFormat(value Format) config.Format {
	switch value {
	case FormatESModule:
		return config.FormatESModule
	case FormatCommonJS:
		return config.FormatCommonJS
	case FormatIIFE:
		return config.FormatIIFE
	case FormatAMD:
		return config.FormatAMD
	case FormatApp:
		return config.FormatApp
	default:
		panic("Invalid format")
	}
}

func validateExports(value Exports) config.OutputExports {
	switch value {
	case ExportsAuto:
		return config.OutputExportsAuto
	case ExportsNamed:
		return config.OutputExportsNamed
	case ExportsDefault:
		return config.OutputExportsDefault
	case ExportsNone:
		return config.OutputExportsNone
	default:
		panic("Invalid exports mode")
	}
}

func validateEsModule(value EsModule) config.EsModuleFlag {
	switch value {
	case EsModuleAlways:
		return config.EsModuleAlways
	case EsModuleIfDefaultProp:
		return config.EsModuleIfDefaultProp
	case EsModuleNever:
		return config.EsModuleNever
	default:
		panic("Invalid esModule flag")
	}
}

func validateSourceMap(value SourceMap) config.SourceMap {
	switch value {
	case SourceMapNone:
		return config.SourceMapNone
	case SourceMapLinked:
		return config.SourceMapLinkedWithComment
	case SourceMapInline:
		return config.SourceMapInline
	case SourceMapExternal:
		return config.SourceMapExternalWithoutComment
	default:
		panic("Invalid source map")
	}
}

func validateColor(value StderrColor) logger.StderrColor {
	switch value {
	case ColorIfTerminal:
		return logger.ColorIfTerminal
	case ColorNever:
		return logger.ColorNever
	case ColorAlways:
		return logger.ColorAlways
	default:
		panic("Invalid color")
	}
}

func validateLogLevel(value LogLevel) logger.LogLevel {
	switch value {
	case LogLevelInfo:
		return logger.LevelInfo
	case LogLevelWarning:
		return logger.LevelWarning
	case LogLevelError:
		return logger.LevelError
	default:
		panic("Invalid log level")
	}
}

func validatePlugins(plugins []Plugin) *plugin.Driver {
	if len(plugins) == 0 {
		return nil
	}
	converted := make([]plugin.Plugin, len(plugins))
	for i, p := range plugins {
		converted[i] = plugin.Plugin{
			Name:   p.Name,
			Banner: validateAddonCallback(p.Banner),
			Intro:  validateAddonCallback(p.Intro),
			Outro:  validateAddonCallback(p.Outro),
			Footer: validateAddonCallback(p.Footer),
		}
	}
	return plugin.NewDriver(converted)
}

func validateAddonCallback(callback AddonCallback) plugin.AddonHook {
	if callback == nil {
		return nil
	}
	return func(ctx context.Context, args plugin.HookAddonArgs) (string, error) {
		chunk := args.Chunk
		return callback(ChunkInfo{
			Name:           chunk.Name,
			FileName:       chunk.FileName,
			FacadeModuleID: chunk.FacadeModuleID,
			IsEntry:        chunk.IsEntry,
			IsDynamicEntry: chunk.IsDynamicEntry,
			ModuleIDs:      chunk.ModuleIDs,
			Exports:        chunk.Exports,
			Imports:        chunk.Imports,
		})
	}
}

// Options given directly take precedence over the config file. Zero values
// mean "not given".
func validateOptions(options RenderOptions) (config.Options, error) {
	var result config.Options
	var err error
	switch {
	case options.ConfigFile != "" && options.ConfigText != "":
		return config.Options{}, errors.New("a config file and config text cannot be used together")
	case options.ConfigFile != "":
		result, err = config.LoadOptionsFile(options.ConfigFile)
	case options.ConfigText != "":
		result, err = config.ParseOptions(options.ConfigText)
	}
	if err != nil {
		return config.Options{}, err
	}

	if options.Format != FormatDefault {
		result.Format = validateFormat(options.Format)
	}
	if options.Exports != ExportsDefaultMode {
		result.Exports = validateExports(options.Exports)
	}
	if options.EsModule != EsModuleDefault {
		result.EsModule = validateEsModule(options.EsModule)
	}
	if options.Sourcemap != SourceMapNone {
		result.SourceMap = validateSourceMap(options.Sourcemap)
	}
	if options.Interop != "" {
		result.Interop = config.ParseInteropMode(options.Interop)
	}
	if options.GlobalName != "" {
		result.Name = options.GlobalName
	}
	if options.Extend {
		result.Extend = true
	}
	if len(options.Globals) > 0 {
		if result.Globals == nil {
			result.Globals = make(config.Globals)
		}
		for specifier, name := range options.Globals {
			result.Globals[specifier] = name
		}
	}
	if amd := options.Amd; amd != nil {
		if amd.ID != "" && amd.AutoID {
			return config.Options{}, errors.New("the AMD id cannot be used together with an automatic id")
		}
		result.Amd = config.AmdOptions{
			ID:                         amd.ID,
			Define:                     amd.Define,
			AutoID:                     amd.AutoID,
			BasePath:                   amd.BasePath,
			ForceJsExtensionForImports: amd.ForceJsExtensionForImports,
		}
	}
	if options.Cwd != "" {
		result.Cwd = options.Cwd
	}
	if options.Outdir != "" {
		result.Dir = options.Outdir
	}
	if result.Cwd == "" {
		result.Cwd = "."
	}
	if absCwd, err := filepath.Abs(result.Cwd); err == nil {
		result.Cwd = absCwd
	}

	for _, addon := range []struct {
		text string
		hook *config.AddonHook
	}{
		{options.Banner, &result.Banner},
		{options.Intro, &result.Intro},
		{options.Outro, &result.Outro},
		{options.Footer, &result.Footer},
	} {
		if addon.text != "" {
			*addon.hook = config.StaticAddon(addon.text)
		}
	}

	return result, nil
}

func messagesOfKind(kind logger.MsgKind, msgs []logger.Msg) []Message {
	var filtered []Message
	for _, msg := range msgs {
		if msg.Kind == kind {
			filtered = append(filtered, Message{
				ID:    logger.MsgIDToString(msg.ID),
				Text:  msg.Text,
				Chunk: msg.Data.ChunkName,
			})
		}
	}
	return filtered
}

////////////////////////////////////////////////////////////////////////////////
// Render API

func renderImpl(ctx context.Context, fixture *Fixture, options RenderOptions) RenderResult {
	var log logger.Log
	if options.LogLevel == LogLevelSilent {
		log = logger.NewDeferLog()
	} else {
		log = logger.NewStderrLog(logger.StderrOptions{
			Color:    validateColor(options.Color),
			LogLevel: validateLogLevel(options.LogLevel),
		})
	}

	var timer *helpers.Timer
	if options.Timing {
		timer = &helpers.Timer{}
	}

	outputFiles := func() []OutputFile {
		timer.Begin("Validate options")
		configOptions, err := validateOptions(options)
		timer.End("Validate options")
		if err != nil {
			log.AddMsg(logger.Msg{Kind: logger.Error, Text: err.Error()})
			return nil
		}

		timer.Begin("Link fixture")
		linkOutput, chunkGraph, err := fixture.link()
		timer.End("Link fixture")
		if err != nil {
			log.AddMsg(logger.Msg{Kind: logger.Error, Text: fmt.Sprintf("invalid fixture: %s", err.Error())})
			return nil
		}

		driver := validatePlugins(options.Plugins)
		var files []OutputFile

		for i := range chunkGraph.Chunks {
			chunk := &chunkGraph.Chunks[i]
			timer.Begin("Render chunk " + chunk.Name)
			asset, warnings, err := linker.GenerateChunk(ctx, &linker.GenerateContext{
				ChunkGraph:   chunkGraph,
				LinkOutput:   linkOutput,
				Options:      &configOptions,
				PluginDriver: driver,
				Timer:        timer,
				Concurrency:  options.Concurrency,
				ChunkIndex:   ast.ChunkIndex(i),
			})
			timer.End("Render chunk " + chunk.Name)

			for _, msg := range warnings {
				log.AddMsg(msg)
			}
			if err != nil {
				var diagnostics *linker.DiagnosticsError
				if errors.As(err, &diagnostics) {
					for _, msg := range diagnostics.Msgs {
						log.AddMsg(msg)
					}
				} else {
					log.AddMsg(logger.Msg{Kind: logger.Error, Text: err.Error(), Data: logger.MsgData{ChunkName: chunk.Name}})
				}
				continue
			}

			chunkFiles, err := emitAsset(asset, configOptions.SourceMap)
			if err != nil {
				log.AddMsg(logger.Msg{Kind: logger.Error, Text: err.Error(), Data: logger.MsgData{ChunkName: chunk.Name}})
				continue
			}
			files = append(files, chunkFiles...)
		}

		return files
	}()

	msgs := log.Done()
	result := RenderResult{
		Errors:      messagesOfKind(logger.Error, msgs),
		Warnings:    messagesOfKind(logger.Warning, msgs),
		OutputFiles: outputFiles,
		Timing:      timer.Summary(),
	}

	// No output files are reported if anything failed
	if len(result.Errors) > 0 {
		result.OutputFiles = nil
	}
	return result
}

// Produces the chunk's code file and, for linked and external source maps,
// the ".map" file next to it
func emitAsset(asset graph.PreliminaryAsset, mode config.SourceMap) ([]OutputFile, error) {
	path := asset.FilePath()
	j := helpers.Joiner{}
	j.AddString(asset.Content)

	if asset.Map == nil {
		j.EnsureNewlineAtEnd()
		return []OutputFile{{Path: path, Contents: j.Done()}}, nil
	}

	mapJSON, err := asset.Map.ToJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize the source map for %q: %w", path, err)
	}

	var files []OutputFile
	switch mode {
	case config.SourceMapInline:
		j.EnsureNewlineAtEnd()
		j.AddString("//# sourceMappingURL=")
		j.AddString(helpers.EncodeStringAsShortestDataURL("application/json", string(mapJSON)))

	case config.SourceMapLinkedWithComment:
		j.EnsureNewlineAtEnd()
		j.AddString("//# sourceMappingURL=")
		j.AddString(filepath.Base(path) + ".map")
		files = append(files, OutputFile{Path: path + ".map", Contents: append(mapJSON, '\n')})

	case config.SourceMapExternalWithoutComment:
		files = append(files, OutputFile{Path: path + ".map", Contents: append(mapJSON, '\n')})
	}

	j.EnsureNewlineAtEnd()
	return append([]OutputFile{{Path: path, Contents: j.Done()}}, files...), nil
}
