package ast

// This file contains the index and reference types shared by the linked module
// graph and the chunk emitter. Nothing in here knows about output formats.

// This is the stable index of a module in the linked module table. It is
// assigned once by the graph builder and never changes during rendering.
type ModuleIndex uint32

// This is the index of a chunk in the chunk graph.
type ChunkIndex uint32

// This is a reference to a symbol. Symbols are stored in per-module arrays so
// a reference is the module that declared the symbol plus the index of the
// symbol inside that module's array.
type Ref struct {
	SourceIndex uint32
	InnerIndex  uint32
}

var InvalidRef Ref = Ref{^uint32(0), ^uint32(0)}

func (ref Ref) IsValid() bool {
	return ref != InvalidRef
}

// This stores a 32-bit index where the zero value is an invalid index. This is
// a better alternative to storing the index as a pointer since that has the
// same properties but takes up more space and costs an extra pointer traversal.
type Index32 struct {
	flippedBits uint32
}

func MakeIndex32(index uint32) Index32 {
	return Index32{flippedBits: ^index}
}

func (i Index32) IsValid() bool {
	return i.flippedBits != 0
}

func (i Index32) GetIndex() uint32 {
	return ^i.flippedBits
}

// Optional symbol references are common in the link metadata (e.g. the wrapper
// symbol only exists for wrapped modules) so this keeps them explicit.
type OptionalRef struct {
	Ref   Ref
	Valid bool
}

func SomeRef(ref Ref) OptionalRef {
	return OptionalRef{Ref: ref, Valid: true}
}
