package linker

import (
	"fmt"
	"path"
	"strings"

	"github.com/jsemit/chunkgen/internal/config"
	"github.com/jsemit/chunkgen/internal/graph"
	"github.com/jsemit/chunkgen/internal/helpers"
	"github.com/jsemit/chunkgen/internal/logger"
	"github.com/jsemit/chunkgen/internal/sourcemap"
)

// Renders the IIFE and AMD formats. Both put the chunk inside a function that
// receives its externals (and optionally an exports object) as parameters:
//
//	var name = (function(exports, dep) {
//	  ...
//	})({}, globalDep);
//
//	define(['exports', 'dep'], (function(exports, dep) {
//	  ...
//	}));
//
// The two only differ in how the function is invoked.
func (g *generator) renderWrapper(moduleSources []renderedModuleSources, addons addons) (*sourcemap.ConcatSource, *logger.Msg) {
	isIIFE := g.options.Format == config.FormatIIFE
	exportItems := g.exportItems()
	hasExports := len(exportItems) > 0

	// Common chunks have no entry module to resolve the mode against. They
	// get whatever other chunks need from them as named exports.
	exportMode := config.OutputExportsNone
	if hasExports {
		exportMode = config.OutputExportsNamed
	}
	if entry, _, ok := g.entryModule(); ok {
		mode, msg := g.resolveExportMode(entry, exportItems)
		if msg != nil {
			return nil, msg
		}
		exportMode = mode
	}
	namedExports := exportMode == config.OutputExportsNamed && hasExports

	var target globalNameTarget
	if isIIFE {
		var msg *logger.Msg
		if target, msg = g.generateGlobalNameTarget(exportMode, hasExports, "this"); msg != nil {
			return nil, msg
		}
	}

	imports, externals := g.renderInteropImports()
	params, args := g.renderWrapperArguments(externals, namedExports, target.exportsTarget)

	concat := &sourcemap.ConcatSource{}
	concat.AddOptionalRaw(addons.banner)

	if isIIFE {
		head := target.declarations
		if target.assignment != "" {
			head += target.assignment + " = "
		}
		concat.AddRaw(fmt.Sprintf("%s(function(%s) {", head, strings.Join(params, ", ")))
	} else {
		concat.AddRaw(fmt.Sprintf("%s(%s(function(%s) {",
			g.options.Amd.DefineName(), g.amdDefineArguments(externals, namedExports), strings.Join(params, ", ")))
	}

	if g.determineUseStrict(moduleSources) {
		concat.AddRaw("\"use strict\";")
	}

	concat.AddOptionalRaw(addons.intro)

	if namedExports {
		concat.AddOptionalRaw(renderNamespaceMarkers(
			g.options.EsModule, hasDefaultExport(exportItems), g.options.GeneratedCode.UseSymbols()))
	}

	concat.AddOptionalRaw(strings.TrimSuffix(imports, "\n"))
	addModuleSources(concat, moduleSources)

	if _, meta, ok := g.entryModule(); ok && meta.WrapperRef.Valid {
		wrapper := g.canonicalName(meta.WrapperRef.Ref)
		switch meta.Wrap {
		case graph.WrapESM:
			// "init_foo();"
			concat.AddRaw(fmt.Sprintf("%s();", wrapper))
		case graph.WrapCJS:
			// The value only needs to be returned if someone can see it
			if !isIIFE || g.options.Name != "" {
				concat.AddRaw(fmt.Sprintf("return %s();", wrapper))
			} else {
				concat.AddRaw(fmt.Sprintf("%s();", wrapper))
			}
		}
	}

	concat.AddOptionalRaw(g.renderChunkExports(exportMode, exportItems))
	concat.AddOptionalRaw(addons.outro)

	if namedExports {
		concat.AddRaw("return exports;")
	}

	if isIIFE {
		concat.AddRaw(fmt.Sprintf("})(%s);", strings.Join(args, ", ")))
	} else {
		concat.AddRaw("}));")
	}

	concat.AddOptionalRaw(addons.footer)
	return concat, nil
}

// The arguments before the factory in "define(...)": an optional module ID
// followed by an optional list of dependencies. The result ends with ", " if
// it isn't empty.
func (g *generator) amdDefineArguments(externals []string, exportsKey bool) string {
	var parts []string

	if id := g.amdModuleID(); id != "" {
		parts = append(parts, helpers.QuoteSingleString(id))
	}

	var deps []string
	if exportsKey {
		deps = append(deps, "'exports'")
	}
	for _, external := range externals {
		deps = append(deps, helpers.QuoteSingleString(g.amdDependencyID(external)))
	}
	if len(deps) > 0 {
		parts = append(parts, "["+strings.Join(deps, ", ")+"]")
	}

	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, ", ") + ", "
}

func (g *generator) amdModuleID() string {
	amd := &g.options.Amd
	if amd.ID != "" {
		return amd.ID
	}
	if amd.AutoID {
		return path.Join(amd.BasePath, g.chunk.Name)
	}
	return ""
}

// AMD loaders resolve relative IDs without an extension, so relative imports
// can optionally be forced to carry ".js"
func (g *generator) amdDependencyID(specifier string) string {
	if g.options.Amd.ForceJsExtensionForImports &&
		(strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../")) &&
		!strings.HasSuffix(specifier, ".js") {
		return specifier + ".js"
	}
	return specifier
}
