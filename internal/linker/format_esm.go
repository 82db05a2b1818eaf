package linker

import (
	"fmt"
	"strings"

	"github.com/jsemit/chunkgen/internal/graph"
	"github.com/jsemit/chunkgen/internal/helpers"
	"github.com/jsemit/chunkgen/internal/sourcemap"
)

func (g *generator) renderESM(moduleSources []renderedModuleSources, addons addons) *sourcemap.ConcatSource {
	concat := &sourcemap.ConcatSource{}
	concat.AddOptionalRaw(addons.banner)
	concat.AddOptionalRaw(addons.intro)
	concat.AddOptionalRaw(g.renderESMImports())

	addModuleSources(concat, moduleSources)

	if _, meta, ok := g.entryModule(); ok && meta.WrapperRef.Valid {
		wrapper := g.canonicalName(meta.WrapperRef.Ref)
		switch meta.Wrap {
		case graph.WrapESM:
			// "init_foo();"
			concat.AddRaw(fmt.Sprintf("%s();", wrapper))
		case graph.WrapCJS:
			// "export default require_foo();"
			concat.AddRaw(fmt.Sprintf("export default %s();", wrapper))
		}
	}

	concat.AddOptionalRaw(g.renderESMExports(g.exportItems()))
	concat.AddOptionalRaw(addons.outro)
	concat.AddOptionalRaw(addons.footer)
	return concat
}

func (g *generator) renderESMImports() string {
	var lines []string

	for _, crossChunkImport := range g.chunk.ImportsFromOtherChunks {
		path := helpers.QuoteString(g.chunk.ImportPathFor(&g.chunkGraph.Chunks[crossChunkImport.ChunkIndex]))
		if len(crossChunkImport.Items) == 0 {
			// "import './chunk.js'"
			lines = append(lines, fmt.Sprintf("import %s;", path))
			continue
		}

		// "import { a, b as c } from './chunk.js'"
		clauses := make([]string, len(crossChunkImport.Items))
		for i, item := range crossChunkImport.Items {
			clauses[i] = g.importClause(item.ExportAlias, g.canonicalName(item.Ref))
		}
		lines = append(lines, fmt.Sprintf("import { %s } from %s;", strings.Join(clauses, ", "), path))
	}

	for i := range g.chunk.ImportsFromExternalModules {
		lines = append(lines, g.renderESMExternalImport(&g.chunk.ImportsFromExternalModules[i])...)
	}

	return strings.Join(lines, "\n")
}

func (g *generator) renderESMExternalImport(external *graph.ExternalImport) []string {
	path := helpers.QuoteString(g.linkOutput.Module(external.Module).ID)
	if !external.HasBindings() {
		return []string{fmt.Sprintf("import %s;", path)}
	}

	var defaultName string
	var clauses []string
	for _, specifier := range external.Specifiers {
		local := g.canonicalName(specifier.Local)
		if specifier.Imported == "default" && defaultName == "" {
			defaultName = local
			continue
		}
		clauses = append(clauses, g.importClause(specifier.Imported, local))
	}

	// A namespace import can only be combined with a default import in the
	// same statement, so named imports get their own statement in that case
	var lines []string
	var head []string
	if defaultName != "" {
		head = append(head, defaultName)
	}
	if external.NamespaceRef.Valid {
		head = append(head, "* as "+g.canonicalName(external.NamespaceRef.Ref))
		lines = append(lines, fmt.Sprintf("import %s from %s;", strings.Join(head, ", "), path))
		head = nil
	}
	if len(clauses) > 0 {
		head = append(head, fmt.Sprintf("{ %s }", strings.Join(clauses, ", ")))
	}
	if len(head) > 0 {
		lines = append(lines, fmt.Sprintf("import %s from %s;", strings.Join(head, ", "), path))
	}
	return lines
}

func (g *generator) importClause(imported string, local string) string {
	if imported == local {
		return local
	}
	return fmt.Sprintf("%s as %s", moduleExportName(imported), local)
}
