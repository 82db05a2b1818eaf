package graph

import (
	"path/filepath"

	"github.com/elliotchance/orderedmap/v3"

	"github.com/jsemit/chunkgen/internal/ast"
	"github.com/jsemit/chunkgen/internal/logger"
	"github.com/jsemit/chunkgen/internal/sourcemap"
)

type RenderedModule struct {
	Code string
}

// This is the view of a chunk that is handed to addon hooks
type RenderedChunk struct {
	// Keyed by module id in chunk order. Synthetic modules are not included.
	Modules *orderedmap.OrderedMap[string, RenderedModule]

	Name           string
	FileName       string
	FacadeModuleID string
	ModuleIDs      []string
	Exports        []string
	Imports        []string
	IsEntry        bool
	IsDynamicEntry bool
}

// This is the output of rendering a single chunk. The file name may still
// contain hash placeholders that are filled in once all chunks are rendered.
type PreliminaryAsset struct {
	Map                 *sourcemap.SourceMap
	Meta                *RenderedChunk
	Content             string
	FileDir             string
	PreliminaryFilename string
	Warnings            []logger.Msg
	OriginChunk         ast.ChunkIndex
}

func (asset *PreliminaryAsset) FilePath() string {
	return filepath.Join(asset.FileDir, filepath.Base(filepath.FromSlash(asset.PreliminaryFilename)))
}
