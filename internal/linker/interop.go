package linker

import (
	"fmt"
	"strings"

	"github.com/jsemit/chunkgen/internal/config"
	"github.com/jsemit/chunkgen/internal/graph"
	"github.com/jsemit/chunkgen/internal/helpers"
	"github.com/jsemit/chunkgen/internal/js_ident"
	"github.com/jsemit/chunkgen/internal/logger"
)

// Returns the declarations that bind everything this chunk imports, plus the
// specifiers of the external modules that a function wrapper must receive as
// arguments. The two wrapper lists (parameters and arguments) are built from
// the returned specifiers in order, which keeps them aligned.
//
// In the CommonJS format each imported chunk and each external module is
// loaded with "require()". In the function wrapper formats externals arrive
// as parameters named after their specifier and other chunks can't be
// imported at all.
func (g *generator) renderInteropImports() (string, []string) {
	isCJS := g.options.Format == config.FormatCommonJS
	sb := strings.Builder{}

	if isCJS {
		for _, crossChunkImport := range g.chunk.ImportsFromOtherChunks {
			importee := &g.chunkGraph.Chunks[crossChunkImport.ChunkIndex]
			sb.WriteString(fmt.Sprintf("%s %s = require(%s);\n",
				g.declarationKeyword(),
				g.chunk.RequireBindingNamesForOtherChunks[crossChunkImport.ChunkIndex],
				helpers.QuoteSingleString(g.chunk.ImportPathFor(importee))))
		}
	}

	var externals []string
	for i := range g.chunk.ImportsFromExternalModules {
		external := &g.chunk.ImportsFromExternalModules[i]
		specifier := g.linkOutput.Module(external.Module).ID

		// An import without bindings only matters for its side effects. A
		// wrapper can drop it but "require()" must still evaluate the module.
		if !external.HasBindings() {
			if isCJS {
				sb.WriteString(fmt.Sprintf("require(%s);\n", helpers.QuoteString(specifier)))
			}
			continue
		}

		source := g.externalSource(external, specifier)

		// A wrapper parameter that already has the namespace's name is the
		// namespace. Declaring it again would redeclare the parameter.
		if external.NamespaceRef.Valid {
			namespace := g.canonicalName(external.NamespaceRef.Ref)
			if namespace != source {
				sb.WriteString(fmt.Sprintf("%s %s = %s;\n", g.declarationKeyword(), namespace, source))
				source = namespace
			}
		}

		if len(external.Specifiers) > 0 {
			if g.options.GeneratedCode.Preset == config.PresetES5 {
				sb.WriteString(fmt.Sprintf("var %s;\n", g.propertyReads(external.Specifiers, source)))
			} else {
				sb.WriteString(fmt.Sprintf("const { %s } = %s;\n", g.destructuringPattern(external.Specifiers), source))
			}
		}

		externals = append(externals, specifier)
	}

	return sb.String(), externals
}

// The expression that evaluates to the external module's exports
func (g *generator) externalSource(external *graph.ExternalImport, specifier string) string {
	if g.options.Format != config.FormatCommonJS {
		return js_ident.ForceValidIdentifier(specifier)
	}

	source := fmt.Sprintf("require(%s)", helpers.QuoteString(specifier))
	if external.NeedsInterop() && g.options.Interop != config.InteropESModule {
		if toESM, ok := g.runtimeHelperName("__toESM"); ok {
			source = fmt.Sprintf("%s(%s)", toESM, source)
		}
	}
	return source
}

// Runtime helpers are only available if the linker included them in this
// chunk, which is the case exactly when the chunk has a name for them.
func (g *generator) runtimeHelperName(name string) (string, bool) {
	ref, ok := g.linkOutput.Runtime.ResolveSymbol(name)
	if !ok {
		return "", false
	}
	canonical, ok := g.chunk.CanonicalNames[g.linkOutput.Symbols.Follow(ref)]
	return canonical, ok
}

// "a, b: c" for "import { a, b as c }"
func (g *generator) destructuringPattern(specifiers []graph.ImportSpecifier) string {
	parts := make([]string, len(specifiers))
	for i, specifier := range specifiers {
		local := g.canonicalName(specifier.Local)
		switch {
		case local == specifier.Imported:
			parts[i] = local
		case js_ident.IsIdentifier(specifier.Imported):
			parts[i] = fmt.Sprintf("%s: %s", specifier.Imported, local)
		default:
			parts[i] = fmt.Sprintf("%s: %s", helpers.QuoteString(specifier.Imported), local)
		}
	}
	return strings.Join(parts, ", ")
}

// ES5 has neither "const" nor destructuring
func (g *generator) declarationKeyword() string {
	if g.options.GeneratedCode.Preset == config.PresetES5 {
		return "var"
	}
	return "const"
}

// "a = source.a, c = source.b" for "import { a, b as c }". A "require()"
// source is repeated per binding, which is fine since modules are cached.
func (g *generator) propertyReads(specifiers []graph.ImportSpecifier, source string) string {
	parts := make([]string, len(specifiers))
	for i, specifier := range specifiers {
		parts[i] = fmt.Sprintf("%s = %s%s", g.canonicalName(specifier.Local), source, g.propertyAccess(specifier.Imported))
	}
	return strings.Join(parts, ", ")
}

// The wrapper's formal parameters and the matching arguments at the call
// site. "exports" comes first when the wrapper fills in an exports object.
// Every external is passed in as its configured global, or as a name derived
// from its specifier with a warning if no global was configured.
func (g *generator) renderWrapperArguments(externals []string, exportsKey bool, exportsTarget string) ([]string, []string) {
	var params []string
	var args []string

	if exportsKey {
		params = append(params, "exports")
		if exportsTarget != "" {
			args = append(args, exportsTarget)
		} else {
			args = append(args, "{}")
		}
	}

	for _, external := range externals {
		param := js_ident.ForceValidIdentifier(external)
		params = append(params, param)
		if global, ok := g.options.Globals.Lookup(external); ok {
			args = append(args, js_ident.ForceValidIdentifier(global))
		} else {
			if g.options.Format == config.FormatIIFE {
				g.addWarning(logger.MissingGlobalName(external, param))
			}
			args = append(args, param)
		}
	}

	return params, args
}
