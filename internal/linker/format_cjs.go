package linker

import (
	"fmt"
	"strings"

	"github.com/jsemit/chunkgen/internal/config"
	"github.com/jsemit/chunkgen/internal/graph"
	"github.com/jsemit/chunkgen/internal/helpers"
	"github.com/jsemit/chunkgen/internal/logger"
	"github.com/jsemit/chunkgen/internal/sourcemap"
)

// Copies the properties of a CommonJS module onto "exports" at run time for
// "export * from". Keys that are already exported locally win.
const starExportLoop = `Object.keys($NAME).forEach(function (k) {
  if (k !== 'default' && !Object.prototype.hasOwnProperty.call(exports, k)) Object.defineProperty(exports, k, {
    enumerable: true,
    get: function () { return $NAME[k]; }
  });
});`

func (g *generator) renderCJS(moduleSources []renderedModuleSources, addons addons) (*sourcemap.ConcatSource, *logger.Msg) {
	concat := &sourcemap.ConcatSource{}
	concat.AddOptionalRaw(addons.banner)

	if g.determineUseStrict(moduleSources) {
		concat.AddRaw("\"use strict\";")
	}

	concat.AddOptionalRaw(addons.intro)

	// The export mode is decided once here. It controls both the namespace
	// marker and the export statements at the end. Chunks that skip this keep
	// "auto", which the export statements treat as named exports without a
	// marker.
	exportItems := g.exportItems()
	exportMode := config.OutputExportsAuto
	if entry, meta, ok := g.entryModule(); ok && entry.ExportsKind == graph.ExportsESM {
		mode, msg := g.resolveExportMode(entry, exportItems)
		if msg != nil {
			return nil, msg
		}
		exportMode = mode

		if exportMode == config.OutputExportsNamed {
			concat.AddOptionalRaw(renderNamespaceMarkers(
				g.options.EsModule, hasDefaultExport(exportItems), g.options.GeneratedCode.UseSymbols()))
		}

		for _, star := range meta.RequireBindingsForStarExports {
			name := g.canonicalName(star.Binding)
			importee := g.linkOutput.Module(star.Importee)
			concat.AddRaw(fmt.Sprintf("var %s = require(%s);", name, helpers.QuoteString(importee.StableID)))
			concat.AddRaw(strings.ReplaceAll(starExportLoop, "$NAME", name))
		}
	}

	// The runtime must come before the "require()" calls below since those
	// may be wrapped in helpers such as "__toESM" that it defines
	rest := moduleSources
	if len(rest) > 0 && g.isRuntime(rest[0].module) {
		addModuleSources(concat, rest[:1])
		rest = rest[1:]
	}

	imports, _ := g.renderInteropImports()
	concat.AddOptionalRaw(strings.TrimSuffix(imports, "\n"))

	addModuleSources(concat, rest)

	if _, meta, ok := g.entryModule(); ok && meta.WrapperRef.Valid {
		wrapper := g.canonicalName(meta.WrapperRef.Ref)
		switch meta.Wrap {
		case graph.WrapESM:
			// "init_foo();"
			concat.AddRaw(fmt.Sprintf("%s();", wrapper))
		case graph.WrapCJS:
			// "module.exports = require_foo();"
			concat.AddRaw(fmt.Sprintf("module.exports = %s();", wrapper))
		}
	}

	concat.AddOptionalRaw(g.renderChunkExports(exportMode, exportItems))
	concat.AddOptionalRaw(addons.outro)
	concat.AddOptionalRaw(addons.footer)
	return concat, nil
}

func (g *generator) isRuntime(module *graph.Module) bool {
	return g.linkOutput.Runtime.ID != "" && module.ID == g.linkOutput.Runtime.ID
}
