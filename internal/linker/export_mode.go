package linker

import (
	"sort"

	"github.com/jsemit/chunkgen/internal/ast"
	"github.com/jsemit/chunkgen/internal/config"
	"github.com/jsemit/chunkgen/internal/graph"
	"github.com/jsemit/chunkgen/internal/logger"
)

type ExportItem struct {
	Name string
	Ref  ast.Ref
}

// Returns the names this chunk exposes, sorted by name. Entry point chunks
// expose the exports of their entry module. Common chunks expose whatever
// other chunks import from them.
func (g *generator) exportItems() []ExportItem {
	var items []ExportItem

	if g.chunk.IsEntryPoint() {
		meta := g.linkOutput.Meta(g.chunk.EntryModule)
		for _, alias := range meta.SortedExportAliases() {
			items = append(items, ExportItem{Name: alias, Ref: meta.ResolvedExports[alias]})
		}
		return items
	}

	for ref, alias := range g.chunk.ExportsToOtherChunks {
		items = append(items, ExportItem{Name: alias, Ref: ref})
	}
	sort.Slice(items, func(i int, j int) bool {
		return items[i].Name < items[j].Name
	})
	return items
}

func hasDefaultExport(items []ExportItem) bool {
	for _, item := range items {
		if item.Name == "default" {
			return true
		}
	}
	return false
}

// Turns the "exports" option into the export mode that is actually used. The
// result is never "OutputExportsAuto". Problems with an explicit setting are
// returned as a fatal message. A warning is added to "log" if "auto" picks
// named exports for a module that also has a default export, since consumers
// of non-ESM output will then have to use ".default".
func ResolveExportMode(
	setting config.OutputExports,
	entry *graph.Module,
	items []ExportItem,
	format config.Format,
	log logger.Log,
) (config.OutputExports, *logger.Msg) {
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.Name
	}

	switch setting {
	case config.OutputExportsNamed, config.OutputExportsDefault:
		if entry.ExportsKind == graph.ExportsCommonJS {
			msg := logger.UnsupportedModuleShape(entry.ID, format.String())
			return config.OutputExportsNone, &msg
		}
	}

	switch setting {
	case config.OutputExportsNamed:
		return config.OutputExportsNamed, nil

	case config.OutputExportsDefault:
		if len(items) != 1 || items[0].Name != "default" {
			msg := logger.InvalidExportOption(setting.String(), entry.ID, names)
			return config.OutputExportsNone, &msg
		}
		return config.OutputExportsDefault, nil

	case config.OutputExportsNone:
		if len(items) != 0 {
			msg := logger.InvalidExportOption(setting.String(), entry.ID, names)
			return config.OutputExportsNone, &msg
		}
		return config.OutputExportsNone, nil

	case config.OutputExportsAuto:
		if len(items) == 0 {
			return config.OutputExportsNone, nil
		}
		if len(items) == 1 && items[0].Name == "default" {
			return config.OutputExportsDefault, nil
		}
		if format != config.FormatESModule && hasDefaultExport(items) {
			log.AddMsg(logger.MixedExport(entry.ID))
		}
		return config.OutputExportsNamed, nil
	}

	panic("Internal error")
}

// Warnings from the resolver are attributed to this chunk
func (g *generator) resolveExportMode(entry *graph.Module, items []ExportItem) (config.OutputExports, *logger.Msg) {
	log := g.log
	log.AddMsg = g.addWarning
	return ResolveExportMode(g.options.Exports, entry, items, g.options.Format, log)
}

// "use strict" is only added if every module in the chunk was already strict
// mode code. ECMAScript modules always are.
func (g *generator) determineUseStrict(moduleSources []renderedModuleSources) bool {
	for _, item := range moduleSources {
		if item.sources == nil {
			continue
		}
		if item.module.ExportsKind != graph.ExportsESM && !item.module.HasUseStrictDirective {
			return false
		}
	}
	return true
}

// Marks the exports object as the namespace of an ECMAScript module
func renderNamespaceMarkers(flag config.EsModuleFlag, hasDefaultExport bool, toStringTag bool) string {
	esModule := false
	switch flag {
	case config.EsModuleAlways:
		esModule = true
	case config.EsModuleIfDefaultProp:
		esModule = hasDefaultExport
	}

	switch {
	case esModule && toStringTag:
		return "Object.defineProperties(exports, { __esModule: { value: true }, [Symbol.toStringTag]: { value: 'Module' } });"
	case esModule:
		return "Object.defineProperty(exports, '__esModule', { value: true });"
	case toStringTag:
		return "Object.defineProperty(exports, Symbol.toStringTag, { value: 'Module' });"
	}
	return ""
}
