package linker

import (
	"context"
	"testing"

	"github.com/jsemit/chunkgen/internal/ast"
	"github.com/jsemit/chunkgen/internal/config"
	"github.com/jsemit/chunkgen/internal/graph"
	"github.com/jsemit/chunkgen/internal/logger"
	"github.com/jsemit/chunkgen/internal/sourcemap"
)

// Builds a small linked graph by hand. Every module gets its own symbol
// array and meta entry so refs and indices line up with the module index.
type fixture struct {
	link    graph.LinkOutput
	chunks  graph.ChunkGraph
	options config.Options
}

func newFixture(format config.Format) *fixture {
	return &fixture{options: config.Options{
		Format: format,
		Cwd:    "/project",
		Dir:    "dist",
	}}
}

func (f *fixture) module(id string, kind graph.ExportsKind, body string) ast.ModuleIndex {
	index := ast.ModuleIndex(len(f.link.Modules))
	module := graph.Module{ID: id, StableID: id, Index: index, ExportsKind: kind}
	if body != "" {
		module.Body = []sourcemap.Source{sourcemap.RawSource(body)}
	}
	f.link.Modules = append(f.link.Modules, module)
	f.link.Metas = append(f.link.Metas, graph.ModuleMeta{ResolvedExports: map[string]ast.Ref{}})
	f.link.Symbols.Outer = append(f.link.Symbols.Outer, nil)
	return index
}

func (f *fixture) external(id string) ast.ModuleIndex {
	index := f.module(id, graph.ExportsNone, "")
	f.link.Modules[index].IsExternal = true
	return index
}

func (f *fixture) symbol(module ast.ModuleIndex, name string) ast.Ref {
	symbols := &f.link.Symbols.Outer[module]
	ref := ast.Ref{SourceIndex: uint32(module), InnerIndex: uint32(len(*symbols))}
	*symbols = append(*symbols, graph.Symbol{OriginalName: name, Link: ast.InvalidRef})
	return ref
}

func (f *fixture) export(module ast.ModuleIndex, alias string, ref ast.Ref) {
	f.link.Metas[module].ResolvedExports[alias] = ref
}

func (f *fixture) runtime(helpers ...string) (ast.ModuleIndex, map[string]ast.Ref) {
	index := f.module("\x00runtime.js", graph.ExportsESM, "var __toESM = (mod) => mod;")
	refs := make(map[string]ast.Ref)
	for _, name := range helpers {
		refs[name] = f.symbol(index, name)
	}
	f.link.Runtime = graph.RuntimeModule{ID: "\x00runtime.js", Exports: refs, Index: index}
	return index, refs
}

func (f *fixture) entryChunk(name string, entry ast.ModuleIndex, modules ...ast.ModuleIndex) ast.ChunkIndex {
	index := ast.ChunkIndex(len(f.chunks.Chunks))
	f.chunks.Chunks = append(f.chunks.Chunks, graph.Chunk{
		Kind:                graph.ChunkEntryPoint,
		EntryKind:           graph.EntryPointUserSpecified,
		EntryModule:         entry,
		Name:                name,
		PreliminaryFilename: name + ".js",
		Modules:             modules,
		CanonicalNames:      graph.CanonicalNames{},
	})
	return index
}

func (f *fixture) commonChunk(name string, modules ...ast.ModuleIndex) ast.ChunkIndex {
	index := ast.ChunkIndex(len(f.chunks.Chunks))
	f.chunks.Chunks = append(f.chunks.Chunks, graph.Chunk{
		Kind:                 graph.ChunkCommon,
		Name:                 name,
		PreliminaryFilename:  name + ".js",
		Modules:              modules,
		CanonicalNames:       graph.CanonicalNames{},
		ExportsToOtherChunks: map[ast.Ref]string{},
	})
	return index
}

func (f *fixture) chunk(index ast.ChunkIndex) *graph.Chunk {
	return &f.chunks.Chunks[index]
}

func (f *fixture) context(index ast.ChunkIndex) *GenerateContext {
	return &GenerateContext{
		ChunkGraph: &f.chunks,
		LinkOutput: &f.link,
		Options:    &f.options,
		ChunkIndex: index,
	}
}

func (f *fixture) generate(t *testing.T, index ast.ChunkIndex) (graph.PreliminaryAsset, []logger.Msg) {
	t.Helper()
	asset, warnings, err := GenerateChunk(context.Background(), f.context(index))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return asset, warnings
}

func (f *fixture) generateError(t *testing.T, index ast.ChunkIndex) logger.Msg {
	t.Helper()
	_, _, err := GenerateChunk(context.Background(), f.context(index))
	diagnostics, ok := err.(*DiagnosticsError)
	if !ok {
		t.Fatalf("expected a diagnostics error but got %v", err)
	}
	if len(diagnostics.Msgs) != 1 {
		t.Fatalf("expected one message but got %d", len(diagnostics.Msgs))
	}
	return diagnostics.Msgs[0]
}
