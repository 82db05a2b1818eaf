package linker

import (
	"strings"

	"github.com/jsemit/chunkgen/internal/config"
	"github.com/jsemit/chunkgen/internal/helpers"
	"github.com/jsemit/chunkgen/internal/js_ident"
	"github.com/jsemit/chunkgen/internal/logger"
)

// Splits a dotted global name into its segments and returns the code that
// creates every object on the way to the last segment, followed by the
// expression for the last segment. For "a.b.c" on "this" that is:
//
//	this.a = this.a || {};
//	this.a.b = this.a.b || {};
//
// and "this.a.b.c". With "newline" false the statements are joined with ", "
// instead so they can be used inside an expression.
func GenerateNamespaceDefinition(name string, root string, newline bool) (string, string) {
	separator := ", "
	if newline {
		separator = ";\n"
	}

	parts := strings.Split(name, ".")
	sb := strings.Builder{}
	path := ""

	for i, part := range parts {
		path += namespaceAccessor(part)
		if i < len(parts)-1 {
			sb.WriteString(root)
			sb.WriteString(path)
			sb.WriteString(" = ")
			sb.WriteString(root)
			sb.WriteString(path)
			sb.WriteString(" || {}")
			sb.WriteString(separator)
		}
	}

	return sb.String(), root + path
}

// Segments that aren't plain identifiers are quoted. Names inherited from
// "Object.prototype" are quoted too since "this.toString || {}" would find the
// inherited function instead of creating a new object.
func namespaceAccessor(segment string) string {
	if js_ident.CanUseDotAccess(segment) {
		return "." + segment
	}
	return "[" + helpers.QuoteString(segment) + "]"
}

// The parts of a function wrapper that depend on the global name. The wrapper
// is written as:
//
//	<declarations><assignment> = (function(...) { ... })(<exports target>, ...);
//
// where the assignment and the exports target are optional.
type globalNameTarget struct {
	declarations  string
	assignment    string
	exportsTarget string
}

// Works out how the result of an IIFE is made available under the configured
// global name. A dotted name creates its parent objects first. With "extend"
// and named exports, the wrapper adds its exports to an existing object instead
// of replacing it.
func (g *generator) generateGlobalNameTarget(exportMode config.OutputExports, hasExports bool, root string) (globalNameTarget, *logger.Msg) {
	name := g.options.Name
	named := exportMode == config.OutputExportsNamed

	if name == "" {
		// The exports can't be reached without a name. That's fine if there
		// aren't any, although the "app" format would be a better fit then.
		if hasExports {
			g.addWarning(logger.MissingNameOptionForIifeExport())
		}
		return globalNameTarget{}, nil
	}

	if strings.Contains(name, ".") {
		declarations, expr := GenerateNamespaceDefinition(name, root, true)
		if g.options.Extend && named {
			return globalNameTarget{declarations: declarations, exportsTarget: expr + " = " + expr + " || {}"}, nil
		}
		return globalNameTarget{declarations: declarations, assignment: expr}, nil
	}

	if g.options.Extend {
		expr := root + namespaceAccessor(name)
		if named {
			return globalNameTarget{exportsTarget: expr + " = " + expr + " || {}"}, nil
		}
		return globalNameTarget{assignment: expr}, nil
	}

	if js_ident.IsValidAssigneeIdentifierName(name) {
		return globalNameTarget{assignment: "var " + name}, nil
	}

	msg := logger.IllegalIdentifierAsName(name)
	return globalNameTarget{}, &msg
}
