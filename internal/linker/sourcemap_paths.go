package linker

import (
	"github.com/jsemit/chunkgen/internal/helpers"
	"github.com/jsemit/chunkgen/internal/sourcemap"
)

// Source paths arrive as module IDs, which are usually absolute. A source map
// must refer to them relative to the file it sits next to.
func RelativizeSourceMapSources(sm *sourcemap.SourceMap, fileDir string) {
	sources := sm.GetSources()
	relativized := make([]string, len(sources))
	for i, source := range sources {
		relativized[i] = helpers.RelativePath(fileDir, source)
	}
	sm.SetSources(relativized)
}
