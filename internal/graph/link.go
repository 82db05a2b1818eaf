package graph

import (
	"github.com/jsemit/chunkgen/internal/ast"
)

// This is everything the linker produced for the whole build. It is shared by
// all chunks and must not be mutated once rendering starts.
type LinkOutput struct {
	// Indexed by "ast.ModuleIndex"
	Modules []Module
	Metas   []ModuleMeta

	Symbols SymbolTable
	Runtime RuntimeModule
}

func (lo *LinkOutput) Module(index ast.ModuleIndex) *Module {
	return &lo.Modules[index]
}

func (lo *LinkOutput) Meta(index ast.ModuleIndex) *ModuleMeta {
	return &lo.Metas[index]
}

// The runtime module provides helper functions such as "__toESM" that the
// generated code calls into.
type RuntimeModule struct {
	ID      string
	Exports map[string]ast.Ref
	Index   ast.ModuleIndex
}

func (rt *RuntimeModule) ResolveSymbol(name string) (ast.Ref, bool) {
	ref, ok := rt.Exports[name]
	return ref, ok
}
