package linker

// This file renders a single linked chunk into its final text. The modules of
// the chunk are rendered in parallel, but everything after that (addon hooks,
// format emission, source map paths) happens sequentially so the output is
// deterministic.

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/elliotchance/orderedmap/v3"
	"golang.org/x/sync/errgroup"

	"github.com/jsemit/chunkgen/internal/ast"
	"github.com/jsemit/chunkgen/internal/config"
	"github.com/jsemit/chunkgen/internal/graph"
	"github.com/jsemit/chunkgen/internal/helpers"
	"github.com/jsemit/chunkgen/internal/logger"
	"github.com/jsemit/chunkgen/internal/plugin"
	"github.com/jsemit/chunkgen/internal/sourcemap"
)

type GenerateContext struct {
	ChunkGraph *graph.ChunkGraph
	LinkOutput *graph.LinkOutput
	Options    *config.Options

	// Optional. A nil driver means no plugins have addon hooks.
	PluginDriver *plugin.Driver

	// Optional. Defaults to "BodyRenderer".
	Renderer ModuleRenderer

	// Optional. Collects timing information when non-nil.
	Timer *helpers.Timer

	// The maximum number of modules rendered at once. Zero means one per CPU.
	Concurrency int

	ChunkIndex ast.ChunkIndex
}

// This is returned when a chunk can't be rendered because of its options or
// its shape. No output is produced for the chunk in that case.
type DiagnosticsError struct {
	Msgs []logger.Msg
}

func (e *DiagnosticsError) Error() string {
	return strings.TrimSuffix(logger.MsgsToString(e.Msgs), "\n")
}

// The state for one render of one chunk. Nothing in here is shared with other
// renders except for the read-only link output and chunk graph.
type generator struct {
	chunk      *graph.Chunk
	chunkGraph *graph.ChunkGraph
	linkOutput *graph.LinkOutput
	options    *config.Options

	// Non-fatal diagnostics. This is drained exactly once when the asset is
	// finalized.
	log logger.Log
}

type renderedModuleSources struct {
	module  *graph.Module
	sources []sourcemap.Source
}

type addons struct {
	banner string
	intro  string
	outro  string
	footer string
}

// Renders the chunk at "gc.ChunkIndex". Fatal diagnostics are returned as a
// "*DiagnosticsError" along with any warnings raised before the failure. Other
// errors come from hooks, module renderers, or context cancellation.
func GenerateChunk(ctx context.Context, gc *GenerateContext) (graph.PreliminaryAsset, []logger.Msg, error) {
	chunk := &gc.ChunkGraph.Chunks[gc.ChunkIndex]
	if chunk.PreliminaryFilename == "" {
		return graph.PreliminaryAsset{}, nil, fmt.Errorf("chunk %q has no file name", chunk.Name)
	}

	g := newGenerator(gc)
	timer := gc.Timer

	timer.Begin("Render modules")
	moduleSources, err := g.renderModules(ctx, gc.Renderer, gc.Concurrency)
	timer.End("Render modules")
	if err != nil {
		return graph.PreliminaryAsset{}, nil, err
	}

	renderedChunk := g.generateRenderedChunk(moduleSources)

	timer.Begin("Call addon hooks")
	addons, err := g.callAddonHooks(ctx, gc.PluginDriver, renderedChunk)
	timer.End("Call addon hooks")
	if err != nil {
		return graph.PreliminaryAsset{}, nil, err
	}

	timeName := fmt.Sprintf("Emit %s chunk %q", g.options.Format, chunk.Name)
	timer.Begin(timeName)
	var concat *sourcemap.ConcatSource
	var msg *logger.Msg
	switch g.options.Format {
	case config.FormatESModule:
		concat = g.renderESM(moduleSources, addons)
	case config.FormatCommonJS:
		concat, msg = g.renderCJS(moduleSources, addons)
	case config.FormatApp:
		concat = g.renderApp(moduleSources, addons)
	case config.FormatIIFE, config.FormatAMD:
		concat, msg = g.renderWrapper(moduleSources, addons)
	default:
		panic("Internal error")
	}
	timer.End(timeName)
	if msg != nil {
		return graph.PreliminaryAsset{}, g.log.Done(), &DiagnosticsError{Msgs: []logger.Msg{msg.InChunk(chunk.Name)}}
	}

	// The file name can contain directories, so the directory of the
	// chunk isn't necessarily the output directory
	outputDir := g.options.Dir
	if !filepath.IsAbs(outputDir) {
		outputDir = filepath.Join(g.options.Cwd, outputDir)
	}
	filePath := filepath.Join(outputDir, filepath.FromSlash(chunk.PreliminaryFilename))
	fileDir := filepath.Dir(filePath)

	var content string
	var sourceMap *sourcemap.SourceMap
	if g.options.SourceMap != config.SourceMapNone {
		content, sourceMap, err = concat.ContentAndSourceMap()
		if err != nil {
			return graph.PreliminaryAsset{}, nil, fmt.Errorf("failed to generate the source map for chunk %q: %w", chunk.Name, err)
		}
		if sourceMap != nil {
			sourceMap.File = filepath.Base(filePath)
			RelativizeSourceMapSources(sourceMap, fileDir)
		}
	} else {
		content = concat.Content()
	}

	warnings := g.log.Done()
	return graph.PreliminaryAsset{
		Content:             content,
		Map:                 sourceMap,
		Meta:                renderedChunk,
		FileDir:             fileDir,
		PreliminaryFilename: chunk.PreliminaryFilename,
		Warnings:            warnings,
		OriginChunk:         gc.ChunkIndex,
	}, warnings, nil
}

func newGenerator(gc *GenerateContext) *generator {
	return &generator{
		chunk:      &gc.ChunkGraph.Chunks[gc.ChunkIndex],
		chunkGraph: gc.ChunkGraph,
		linkOutput: gc.LinkOutput,
		options:    gc.Options,
		log:        logger.NewDeferLog(),
	}
}

// Returns the import bindings of a chunk and the external specifiers in the
// order a function wrapper receives them. This is what the format emitters
// use internally.
func RenderInteropImports(gc *GenerateContext) (string, []string) {
	return newGenerator(gc).renderInteropImports()
}

func (g *generator) addWarning(msg logger.Msg) {
	g.log.AddMsg(msg.InChunk(g.chunk.Name))
}

// Module bodies don't depend on each other, so they are rendered on a worker
// pool. Each result is stored at its module's position in the chunk so the
// chunk order is kept no matter which module finishes first.
func (g *generator) renderModules(ctx context.Context, renderer ModuleRenderer, concurrency int) ([]renderedModuleSources, error) {
	if renderer == nil {
		renderer = BodyRenderer{}
	}
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}

	results := make([]renderedModuleSources, len(g.chunk.Modules))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(concurrency)

	for i, moduleIndex := range g.chunk.Modules {
		module := g.linkOutput.Module(moduleIndex)
		results[i].module = module
		if module.IsExternal {
			continue
		}

		group.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("internal error while rendering module %q: %v\n%s", module.ID, r, helpers.PrettyPrintedStack())
				}
			}()

			if err := groupCtx.Err(); err != nil {
				return err
			}
			sources, err := renderer.RenderModule(groupCtx, module)
			if err != nil {
				return fmt.Errorf("failed to render module %q: %w", module.ID, err)
			}
			results[i].sources = sources
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	// Drop externals so the emitters only ever see bundled modules
	filtered := results[:0]
	for _, result := range results {
		if !result.module.IsExternal {
			filtered = append(filtered, result)
		}
	}
	return filtered, nil
}

func (g *generator) generateRenderedChunk(moduleSources []renderedModuleSources) *graph.RenderedChunk {
	chunk := g.chunk
	renderedModules := orderedmap.NewOrderedMap[string, graph.RenderedModule]()
	var moduleIDs []string

	for _, item := range moduleSources {
		// Synthetic modules aren't exposed to hooks
		if item.module.IsSynthetic() {
			continue
		}
		code := ""
		if item.sources != nil {
			moduleConcat := sourcemap.ConcatSource{}
			for _, source := range item.sources {
				moduleConcat.AddSource(source)
			}
			code = moduleConcat.Content()
		}
		renderedModules.Set(item.module.ID, graph.RenderedModule{Code: code})
		moduleIDs = append(moduleIDs, item.module.ID)
	}

	exportItems := g.exportItems()
	exports := make([]string, len(exportItems))
	for i, item := range exportItems {
		exports[i] = item.Name
	}

	var imports []string
	for _, crossChunkImport := range chunk.ImportsFromOtherChunks {
		imports = append(imports, g.chunkGraph.Chunks[crossChunkImport.ChunkIndex].PreliminaryFilename)
	}
	for _, external := range chunk.ImportsFromExternalModules {
		imports = append(imports, g.linkOutput.Module(external.Module).ID)
	}

	rendered := &graph.RenderedChunk{
		Modules:   renderedModules,
		Name:      chunk.Name,
		FileName:  chunk.PreliminaryFilename,
		ModuleIDs: moduleIDs,
		Exports:   exports,
		Imports:   imports,
	}
	if chunk.IsEntryPoint() {
		rendered.FacadeModuleID = g.linkOutput.Module(chunk.EntryModule).ID
		rendered.IsEntry = chunk.EntryKind != graph.EntryPointDynamicImport
		rendered.IsDynamicEntry = chunk.EntryKind == graph.EntryPointDynamicImport
	}
	return rendered
}

// Each addon is the result of the user's hook passed through every plugin.
// The hooks are awaited one after another in a fixed order.
func (g *generator) callAddonHooks(ctx context.Context, driver *plugin.Driver, chunk *graph.RenderedChunk) (result addons, err error) {
	args := plugin.HookAddonArgs{Chunk: chunk}
	slots := []struct {
		kind plugin.AddonKind
		hook config.AddonHook
		text *string
	}{
		{plugin.AddonBanner, g.options.Banner, &result.banner},
		{plugin.AddonIntro, g.options.Intro, &result.intro},
		{plugin.AddonOutro, g.options.Outro, &result.outro},
		{plugin.AddonFooter, g.options.Footer, &result.footer},
	}

	for _, slot := range slots {
		var injection string
		if slot.hook != nil {
			if err := ctx.Err(); err != nil {
				return addons{}, err
			}
			if injection, err = slot.hook(ctx, chunk); err != nil {
				return addons{}, fmt.Errorf("the %s hook failed for chunk %q: %w", slot.kind, g.chunk.Name, err)
			}
		}
		if *slot.text, err = driver.Addon(ctx, slot.kind, args, injection); err != nil {
			return addons{}, err
		}
	}
	return
}

func (g *generator) canonicalName(ref ast.Ref) string {
	return g.linkOutput.Symbols.CanonicalNameFor(ref, g.chunk.CanonicalNames)
}

func (g *generator) entryModule() (*graph.Module, *graph.ModuleMeta, bool) {
	if !g.chunk.IsEntryPoint() {
		return nil, nil, false
	}
	index := g.chunk.EntryModule
	return g.linkOutput.Module(index), g.linkOutput.Meta(index), true
}

// Module bodies are added as they are. A nil body adds nothing.
func addModuleSources(concat *sourcemap.ConcatSource, moduleSources []renderedModuleSources) {
	for _, item := range moduleSources {
		for _, source := range item.sources {
			concat.AddSource(source)
		}
	}
}
