package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/jsemit/chunkgen/internal/ast"
	"github.com/jsemit/chunkgen/internal/graph"
	"github.com/jsemit/chunkgen/internal/sourcemap"
)

// A fixture is a linked chunk graph written down as data. Modules and chunks
// refer to each other by id and name. Symbols are identified by the module
// that declares them plus their name, and are created on first use.
//
// The same field names are used for JSON and msgpack.
type Fixture struct {
	Modules []FixtureModule `json:"modules"`
	Chunks  []FixtureChunk  `json:"chunks"`

	// The id of the module that provides helpers such as "__toESM". Its
	// exports are the helpers.
	Runtime string `json:"runtime,omitempty"`
}

type FixtureModule struct {
	ID       string `json:"id"`
	StableID string `json:"stableId,omitempty"`

	// Empty code means the module has no runtime code
	Code      string `json:"code,omitempty"`
	SourceMap string `json:"sourceMap,omitempty"`

	// One of "esm" (the default), "commonjs", or "none"
	Kind string `json:"kind,omitempty"`

	External  bool `json:"external,omitempty"`
	UseStrict bool `json:"useStrict,omitempty"`

	// One of "esm" or "cjs" if the module is wrapped in "init_*" or
	// "require_*", in which case "Wrapper" names that function
	Wrap    string `json:"wrap,omitempty"`
	Wrapper string `json:"wrapper,omitempty"`

	// The module is the default for symbols without one
	Exports     map[string]SymbolRef `json:"exports,omitempty"`
	StarExports []StarExport         `json:"starExports,omitempty"`

	// Names of symbols that are assigned to after their declaration
	Reassigned []string `json:"reassigned,omitempty"`
}

type SymbolRef struct {
	Module string `json:"module,omitempty"`
	Name   string `json:"name"`
}

type StarExport struct {
	Module  string `json:"module"`
	Binding string `json:"binding"`
}

type FixtureChunk struct {
	Name     string `json:"name"`
	FileName string `json:"fileName"`

	// Common chunks have no entry module
	Entry        string `json:"entry,omitempty"`
	DynamicEntry bool   `json:"dynamicEntry,omitempty"`

	Modules   []string         `json:"modules"`
	Imports   []ChunkImport    `json:"imports,omitempty"`
	Externals []ExternalImport `json:"externals,omitempty"`

	// What other chunks import from this one (common chunks only)
	Exports map[string]SymbolRef `json:"exports,omitempty"`

	// Symbols whose name in this chunk differs from their declared name
	Names []CanonicalName `json:"names,omitempty"`
}

type ChunkImport struct {
	Chunk string `json:"chunk"`

	// The variable holding "require()" of the chunk in CommonJS output
	Binding string `json:"binding,omitempty"`

	Items []ImportItem `json:"items,omitempty"`
}

type ImportItem struct {
	Alias  string    `json:"alias"`
	Symbol SymbolRef `json:"symbol"`
}

type ExternalImport struct {
	Module     string            `json:"module"`
	Namespace  *SymbolRef        `json:"namespace,omitempty"`
	Specifiers []ImportSpecifier `json:"specifiers,omitempty"`
}

type ImportSpecifier struct {
	Imported string    `json:"imported"`
	Local    SymbolRef `json:"local"`
}

type CanonicalName struct {
	Symbol SymbolRef `json:"symbol"`
	Name   string    `json:"name"`
}

// Picks the decoder by file extension: ".msgpack" and ".mpk" files are
// msgpack and everything else is JSON.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch filepath.Ext(path) {
	case ".msgpack", ".mpk":
		return DecodeFixtureMsgpack(data)
	}
	return DecodeFixtureJSON(data)
}

func DecodeFixtureJSON(data []byte) (*Fixture, error) {
	fixture := &Fixture{}
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(fixture); err != nil {
		return nil, fmt.Errorf("invalid JSON fixture: %w", err)
	}
	return fixture, nil
}

func DecodeFixtureMsgpack(data []byte) (*Fixture, error) {
	fixture := &Fixture{}
	decoder := msgpack.NewDecoder(bytes.NewReader(data))
	decoder.SetCustomStructTag("json")
	if err := decoder.Decode(fixture); err != nil {
		return nil, fmt.Errorf("invalid msgpack fixture: %w", err)
	}
	return fixture, nil
}

func EncodeFixtureMsgpack(fixture *Fixture) ([]byte, error) {
	var buffer bytes.Buffer
	encoder := msgpack.NewEncoder(&buffer)
	encoder.SetCustomStructTag("json")
	encoder.SetOmitEmpty(true)
	if err := encoder.Encode(fixture); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

////////////////////////////////////////////////////////////////////////////////
// Turning a fixture into a link output and chunk graph

type symbolKey struct {
	module ast.ModuleIndex
	name   string
}

type fixtureLinker struct {
	link    graph.LinkOutput
	chunks  graph.ChunkGraph
	modules map[string]ast.ModuleIndex
	symbols map[symbolKey]ast.Ref
}

func (fixture *Fixture) link() (*graph.LinkOutput, *graph.ChunkGraph, error) {
	l := &fixtureLinker{
		modules: make(map[string]ast.ModuleIndex),
		symbols: make(map[symbolKey]ast.Ref),
	}
	l.link.Symbols = graph.NewSymbolTable(len(fixture.Modules))

	// Modules are registered first so that anything can refer to any module
	for i, m := range fixture.Modules {
		if _, ok := l.modules[m.ID]; ok {
			return nil, nil, fmt.Errorf("duplicate module %q", m.ID)
		}
		l.modules[m.ID] = ast.ModuleIndex(i)
	}

	for i := range fixture.Modules {
		if err := l.addModule(&fixture.Modules[i]); err != nil {
			return nil, nil, fmt.Errorf("module %q: %w", fixture.Modules[i].ID, err)
		}
	}

	if fixture.Runtime != "" {
		index, ok := l.modules[fixture.Runtime]
		if !ok {
			return nil, nil, fmt.Errorf("unknown runtime module %q", fixture.Runtime)
		}
		l.link.Runtime = graph.RuntimeModule{
			ID:      fixture.Runtime,
			Index:   index,
			Exports: l.link.Metas[index].ResolvedExports,
		}
	}

	chunkIndices := make(map[string]ast.ChunkIndex)
	for i, c := range fixture.Chunks {
		if _, ok := chunkIndices[c.Name]; ok {
			return nil, nil, fmt.Errorf("duplicate chunk %q", c.Name)
		}
		chunkIndices[c.Name] = ast.ChunkIndex(i)
	}

	for i := range fixture.Chunks {
		chunk, err := l.makeChunk(&fixture.Chunks[i], chunkIndices)
		if err != nil {
			return nil, nil, fmt.Errorf("chunk %q: %w", fixture.Chunks[i].Name, err)
		}
		l.chunks.Chunks = append(l.chunks.Chunks, chunk)
	}

	return &l.link, &l.chunks, nil
}

func (l *fixtureLinker) addModule(m *FixtureModule) error {
	index := l.modules[m.ID]
	module := graph.Module{
		ID:                    m.ID,
		StableID:              m.StableID,
		Index:                 index,
		IsExternal:            m.External,
		HasUseStrictDirective: m.UseStrict,
	}
	if module.StableID == "" {
		module.StableID = m.ID
	}

	switch m.Kind {
	case "", "esm":
		module.ExportsKind = graph.ExportsESM
	case "commonjs":
		module.ExportsKind = graph.ExportsCommonJS
	case "none":
		module.ExportsKind = graph.ExportsNone
	default:
		return fmt.Errorf("invalid module kind %q", m.Kind)
	}

	if m.Code != "" {
		if m.SourceMap != "" {
			sm, err := sourcemap.ParseJSON([]byte(m.SourceMap))
			if err != nil {
				return err
			}
			module.Body = []sourcemap.Source{&sourcemap.MappedSource{Code: m.Code, Map: sm}}
		} else {
			module.Body = []sourcemap.Source{sourcemap.RawSource(m.Code)}
		}
	}

	meta := graph.ModuleMeta{ResolvedExports: make(map[string]ast.Ref)}
	switch m.Wrap {
	case "":
	case "esm", "cjs":
		if m.Wrapper == "" {
			return fmt.Errorf("a wrapped module needs a wrapper name")
		}
		meta.Wrap = graph.WrapESM
		if m.Wrap == "cjs" {
			meta.Wrap = graph.WrapCJS
		}
		meta.WrapperRef = ast.SomeRef(l.symbol(index, m.Wrapper))
	default:
		return fmt.Errorf("invalid wrap kind %q", m.Wrap)
	}

	for alias, ref := range m.Exports {
		resolved, err := l.resolve(ref, m.ID)
		if err != nil {
			return err
		}
		meta.ResolvedExports[alias] = resolved
	}

	for _, star := range m.StarExports {
		importee, ok := l.modules[star.Module]
		if !ok {
			return fmt.Errorf("unknown module %q", star.Module)
		}
		meta.RequireBindingsForStarExports = append(meta.RequireBindingsForStarExports, graph.StarExportBinding{
			Importee: importee,
			Binding:  l.symbol(index, star.Binding),
		})
	}

	for _, name := range m.Reassigned {
		l.link.Symbols.Get(l.symbol(index, name)).IsReassigned = true
	}

	l.link.Modules = append(l.link.Modules, module)
	l.link.Metas = append(l.link.Metas, meta)
	return nil
}

func (l *fixtureLinker) makeChunk(c *FixtureChunk, chunkIndices map[string]ast.ChunkIndex) (graph.Chunk, error) {
	if c.FileName == "" {
		return graph.Chunk{}, fmt.Errorf("missing file name")
	}
	chunk := graph.Chunk{
		Name:                 c.Name,
		PreliminaryFilename:  c.FileName,
		CanonicalNames:       make(graph.CanonicalNames),
		ExportsToOtherChunks: make(map[ast.Ref]string),
	}

	if c.Entry != "" {
		entry, ok := l.modules[c.Entry]
		if !ok {
			return graph.Chunk{}, fmt.Errorf("unknown entry module %q", c.Entry)
		}
		chunk.Kind = graph.ChunkEntryPoint
		chunk.EntryModule = entry
		chunk.EntryKind = graph.EntryPointUserSpecified
		if c.DynamicEntry {
			chunk.EntryKind = graph.EntryPointDynamicImport
		}
	}

	for _, id := range c.Modules {
		index, ok := l.modules[id]
		if !ok {
			return graph.Chunk{}, fmt.Errorf("unknown module %q", id)
		}
		chunk.Modules = append(chunk.Modules, index)
	}

	for _, imp := range c.Imports {
		other, ok := chunkIndices[imp.Chunk]
		if !ok {
			return graph.Chunk{}, fmt.Errorf("unknown chunk %q", imp.Chunk)
		}
		crossChunkImport := graph.CrossChunkImport{ChunkIndex: other}
		for _, item := range imp.Items {
			ref, err := l.resolve(item.Symbol, "")
			if err != nil {
				return graph.Chunk{}, err
			}
			crossChunkImport.Items = append(crossChunkImport.Items, graph.CrossChunkImportItem{ExportAlias: item.Alias, Ref: ref})
		}
		chunk.ImportsFromOtherChunks = append(chunk.ImportsFromOtherChunks, crossChunkImport)
		if imp.Binding != "" {
			if chunk.RequireBindingNamesForOtherChunks == nil {
				chunk.RequireBindingNamesForOtherChunks = make(map[ast.ChunkIndex]string)
			}
			chunk.RequireBindingNamesForOtherChunks[other] = imp.Binding
		}
	}

	for _, ext := range c.Externals {
		module, ok := l.modules[ext.Module]
		if !ok {
			return graph.Chunk{}, fmt.Errorf("unknown module %q", ext.Module)
		}
		externalImport := graph.ExternalImport{Module: module}
		if ext.Namespace != nil {
			ref, err := l.resolveImported(*ext.Namespace)
			if err != nil {
				return graph.Chunk{}, err
			}
			externalImport.NamespaceRef = ast.SomeRef(ref)
		}
		for _, specifier := range ext.Specifiers {
			ref, err := l.resolveImported(specifier.Local)
			if err != nil {
				return graph.Chunk{}, err
			}
			externalImport.Specifiers = append(externalImport.Specifiers, graph.ImportSpecifier{Imported: specifier.Imported, Local: ref})
		}
		chunk.ImportsFromExternalModules = append(chunk.ImportsFromExternalModules, externalImport)
	}

	for alias, symbol := range c.Exports {
		ref, err := l.resolve(symbol, "")
		if err != nil {
			return graph.Chunk{}, err
		}
		chunk.ExportsToOtherChunks[ref] = alias
	}

	for _, name := range c.Names {
		ref, err := l.resolve(name.Symbol, "")
		if err != nil {
			return graph.Chunk{}, err
		}
		chunk.CanonicalNames[ref] = name.Name
	}

	return chunk, nil
}

// Returns the symbol, creating it if this is the first time it's used
func (l *fixtureLinker) symbol(module ast.ModuleIndex, name string) ast.Ref {
	key := symbolKey{module: module, name: name}
	if ref, ok := l.symbols[key]; ok {
		return ref
	}
	symbols := &l.link.Symbols.Outer[module]
	ref := ast.Ref{SourceIndex: uint32(module), InnerIndex: uint32(len(*symbols))}
	*symbols = append(*symbols, graph.Symbol{OriginalName: name, Link: ast.InvalidRef})
	l.symbols[key] = ref
	return ref
}

func (l *fixtureLinker) resolve(ref SymbolRef, defaultModule string) (ast.Ref, error) {
	id := ref.Module
	if id == "" {
		id = defaultModule
	}
	if id == "" {
		return ast.Ref{}, fmt.Errorf("symbol %q has no module", ref.Name)
	}
	if ref.Name == "" {
		return ast.Ref{}, fmt.Errorf("a symbol in module %q has no name", id)
	}
	module, ok := l.modules[id]
	if !ok {
		return ast.Ref{}, fmt.Errorf("unknown module %q", id)
	}
	return l.symbol(module, ref.Name), nil
}

// Bindings of external imports belong to the external module, so exporting
// one has to go through a getter
func (l *fixtureLinker) resolveImported(ref SymbolRef) (ast.Ref, error) {
	resolved, err := l.resolve(ref, "")
	if err != nil {
		return ast.Ref{}, err
	}
	l.link.Symbols.Get(resolved).IsImported = true
	return resolved, nil
}
