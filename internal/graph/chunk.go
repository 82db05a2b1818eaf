package graph

import (
	"path/filepath"
	"strings"

	"github.com/jsemit/chunkgen/internal/ast"
)

type ChunkKind uint8

const (
	ChunkCommon ChunkKind = iota
	ChunkEntryPoint
)

type EntryPointKind uint8

const (
	EntryPointNone EntryPointKind = iota
	EntryPointUserSpecified
	EntryPointDynamicImport
)

type Chunk struct {
	// This is only used for entry point chunks
	EntryModule ast.ModuleIndex

	// The chunk's name before any file name template is applied
	Name string

	// This is the path of this chunk relative to the output directory. It
	// may still contain placeholders for content hashes.
	PreliminaryFilename string

	// Modules in the order their code must be emitted
	Modules []ast.ModuleIndex

	// Sorted by the index of the exporting chunk
	ImportsFromOtherChunks []CrossChunkImport

	// Sorted in the order the imports were first encountered
	ImportsFromExternalModules []ExternalImport

	CanonicalNames CanonicalNames

	// The name of the variable holding "require()" of each imported chunk.
	// This is only used by the CommonJS output format.
	RequireBindingNamesForOtherChunks map[ast.ChunkIndex]string

	// For common chunks, this is the alias each symbol is exported with
	ExportsToOtherChunks map[ast.Ref]string

	Kind      ChunkKind
	EntryKind EntryPointKind
}

type CrossChunkImport struct {
	Items      []CrossChunkImportItem
	ChunkIndex ast.ChunkIndex
}

type CrossChunkImportItem struct {
	ExportAlias string
	Ref         ast.Ref
}

type ExternalImport struct {
	Specifiers []ImportSpecifier

	// This is set for "import * as ns from 'path'"
	NamespaceRef ast.OptionalRef

	Module ast.ModuleIndex
}

type ImportSpecifier struct {
	Imported string
	Local    ast.Ref
}

func (ei *ExternalImport) HasBindings() bool {
	return ei.NamespaceRef.Valid || len(ei.Specifiers) > 0
}

// An import of "default" or of the whole namespace needs the imported value to
// be normalized if the external module turns out to be CommonJS.
func (ei *ExternalImport) NeedsInterop() bool {
	if ei.NamespaceRef.Valid {
		return true
	}
	for _, specifier := range ei.Specifiers {
		if specifier.Imported == "default" {
			return true
		}
	}
	return false
}

func (c *Chunk) IsEntryPoint() bool {
	return c.Kind == ChunkEntryPoint
}

// Returns the path used to import "importee" from this chunk. It always starts
// with "./" or "../" so it's never mistaken for a package name.
func (c *Chunk) ImportPathFor(importee *Chunk) string {
	from := filepath.Dir(filepath.FromSlash(c.PreliminaryFilename))
	to := filepath.FromSlash(importee.PreliminaryFilename)
	relPath, err := filepath.Rel(from, to)
	if err != nil {
		relPath = to
	}
	relPath = filepath.ToSlash(relPath)
	if !strings.HasPrefix(relPath, "./") && !strings.HasPrefix(relPath, "../") {
		relPath = "./" + relPath
	}
	return relPath
}

type ChunkGraph struct {
	Chunks []Chunk
}
