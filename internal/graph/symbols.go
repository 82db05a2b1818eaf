package graph

import (
	"github.com/jsemit/chunkgen/internal/ast"
)

type Symbol struct {
	// This is the name that came from the parser. The name that ends up in the
	// output is looked up in the chunk's canonical name table instead.
	OriginalName string

	// Symbols that were merged during linking (e.g. an import bound to the
	// export it refers to) point at the symbol they were merged into. This is
	// "ast.InvalidRef" for symbols that were not merged.
	Link ast.Ref

	// This is true if the symbol is assigned to after its declaration. Exports
	// of such symbols must be live bindings.
	IsReassigned bool

	// This is true if the symbol is bound by an import from another chunk or
	// from an external module. Exports of such symbols must be live bindings
	// too since the binding is owned by somebody else.
	IsImported bool
}

// Symbols are stored in a two-level array. The outer level is indexed by the
// module that declared the symbol and the inner level by the index of the
// symbol inside that module.
type SymbolTable struct {
	Outer [][]Symbol
}

func NewSymbolTable(moduleCount int) SymbolTable {
	return SymbolTable{Outer: make([][]Symbol, moduleCount)}
}

func (st SymbolTable) Get(ref ast.Ref) *Symbol {
	if int(ref.SourceIndex) >= len(st.Outer) {
		return nil
	}
	inner := st.Outer[ref.SourceIndex]
	if int(ref.InnerIndex) >= len(inner) {
		return nil
	}
	return &inner[ref.InnerIndex]
}

// Returns the symbol at the end of the link chain. This never writes to the
// table since it's shared between chunks that are rendered concurrently.
func (st SymbolTable) Follow(ref ast.Ref) ast.Ref {
	for {
		symbol := st.Get(ref)
		if symbol == nil || !symbol.Link.IsValid() {
			return ref
		}
		ref = symbol.Link
	}
}

// This maps each canonical symbol used in a chunk to the identifier that is
// printed for it. Names are unique within a chunk.
type CanonicalNames map[ast.Ref]string

func (st SymbolTable) CanonicalNameFor(ref ast.Ref, names CanonicalNames) string {
	ref = st.Follow(ref)
	if name, ok := names[ref]; ok {
		return name
	}
	if symbol := st.Get(ref); symbol != nil {
		return symbol.OriginalName
	}
	panic("Internal error: symbol has no name")
}

// Reports whether an export of this symbol must be exposed through a getter
func (st SymbolTable) IsLiveBinding(ref ast.Ref) bool {
	if symbol := st.Get(st.Follow(ref)); symbol != nil {
		return symbol.IsReassigned || symbol.IsImported
	}
	return false
}
