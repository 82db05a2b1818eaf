package graph

import (
	"strings"

	"github.com/jsemit/chunkgen/internal/ast"
	"github.com/jsemit/chunkgen/internal/sourcemap"
)

type ExportsKind uint8

const (
	// This module has no import or export statements and no CommonJS-style
	// access to "exports" or "module"
	ExportsNone ExportsKind = iota

	// The module uses ECMAScript "import" and "export" syntax
	ExportsESM

	// The module uses CommonJS "exports" and "module.exports"
	ExportsCommonJS
)

func (kind ExportsKind) String() string {
	switch kind {
	case ExportsNone:
		return "none"
	case ExportsESM:
		return "esm"
	case ExportsCommonJS:
		return "commonjs"
	}
	return ""
}

type Module struct {
	// Synthetic modules (the runtime, virtual modules created by plugins) have
	// an id that starts with a null byte
	ID string

	// This is the id used in generated code. It doesn't depend on the machine
	// the build was run on.
	StableID string

	// The already-rendered statements of this module. A nil body means the
	// module produced no runtime code (e.g. it only contained types).
	Body []sourcemap.Source

	Index                 ast.ModuleIndex
	ExportsKind           ExportsKind
	IsExternal            bool
	HasUseStrictDirective bool
}

func (m *Module) IsSynthetic() bool {
	return strings.HasPrefix(m.ID, "\x00")
}
