package linker

import (
	"fmt"
	"strings"

	"github.com/jsemit/chunkgen/internal/config"
	"github.com/jsemit/chunkgen/internal/helpers"
	"github.com/jsemit/chunkgen/internal/js_ident"
)

// Returns the statements that publish the chunk's exports for the CommonJS
// and function wrapper formats. The export mode must already be resolved,
// except that "auto" is accepted for chunks that never went through export
// mode resolution and is treated like "named".
func (g *generator) renderChunkExports(exportMode config.OutputExports, items []ExportItem) string {
	switch exportMode {
	case config.OutputExportsNamed, config.OutputExportsAuto:
		lines := make([]string, 0, len(items))
		for _, item := range items {
			binding := g.canonicalName(item.Ref)

			// Imported and reassigned bindings can change after the chunk has
			// been evaluated, so they are exposed through a getter
			if g.linkOutput.Symbols.IsLiveBinding(item.Ref) {
				lines = append(lines, fmt.Sprintf(
					"Object.defineProperty(exports, %s, { enumerable: true, get: function () { return %s; } });",
					helpers.QuoteString(item.Name), binding))
			} else {
				lines = append(lines, fmt.Sprintf("exports%s = %s;", g.propertyAccess(item.Name), binding))
			}
		}
		return strings.Join(lines, "\n")

	case config.OutputExportsDefault:
		if len(items) == 0 {
			return ""
		}
		binding := g.canonicalName(items[0].Ref)
		if g.options.Format == config.FormatCommonJS {
			return fmt.Sprintf("module.exports = %s;", binding)
		}
		return fmt.Sprintf("return %s;", binding)
	}

	return ""
}

func (g *generator) propertyAccess(name string) string {
	if js_ident.IsIdentifier(name) && !(g.options.GeneratedCode.QuoteReservedNames && js_ident.IsReservedWord(name)) {
		return "." + name
	}
	return "[" + helpers.QuoteString(name) + "]"
}

// "export { a, b as c };" for the ES module format
func (g *generator) renderESMExports(items []ExportItem) string {
	if len(items) == 0 {
		return ""
	}
	clauses := make([]string, len(items))
	for i, item := range items {
		binding := g.canonicalName(item.Ref)
		if binding == item.Name {
			clauses[i] = binding
		} else {
			clauses[i] = fmt.Sprintf("%s as %s", binding, moduleExportName(item.Name))
		}
	}
	return fmt.Sprintf("export { %s };", strings.Join(clauses, ", "))
}

// Export and import names that aren't identifiers must be string literals
func moduleExportName(name string) string {
	if js_ident.IsIdentifier(name) {
		return name
	}
	return helpers.QuoteString(name)
}
