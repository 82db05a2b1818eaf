package linker

import (
	"testing"

	"github.com/jsemit/chunkgen/internal/ast"
	"github.com/jsemit/chunkgen/internal/config"
	"github.com/jsemit/chunkgen/internal/graph"
	"github.com/jsemit/chunkgen/internal/test"
)

func TestESMImportsAndExports(t *testing.T) {
	f := newFixture(config.FormatESModule)
	main := f.module("/project/src/main.js", graph.ExportsESM,
		"const x = shared + useState(React);\nvar main_default = fs.readFileSync;")
	shared := f.module("/project/src/shared.js", graph.ExportsESM, "const shared = 1;")
	react := f.external("react")
	polyfill := f.external("polyfill")
	fs := f.external("fs")

	sharedRef := f.symbol(shared, "shared")
	f.export(main, "x", f.symbol(main, "x"))
	f.export(main, "default", f.symbol(main, "main_default"))

	entry := f.entryChunk("main", main, main)
	common := f.commonChunk("chunk-abc", shared)
	f.chunk(common).ExportsToOtherChunks[sharedRef] = "a"
	f.chunk(entry).CanonicalNames[sharedRef] = "shared"
	f.chunk(entry).ImportsFromOtherChunks = []graph.CrossChunkImport{
		{ChunkIndex: common, Items: []graph.CrossChunkImportItem{{ExportAlias: "a", Ref: sharedRef}}},
	}
	f.chunk(entry).ImportsFromExternalModules = []graph.ExternalImport{
		{Module: react, Specifiers: []graph.ImportSpecifier{
			{Imported: "default", Local: f.symbol(main, "React")},
			{Imported: "useState", Local: f.symbol(main, "useState")},
		}},
		{Module: polyfill},
		{Module: fs, NamespaceRef: ast.SomeRef(f.symbol(main, "fs"))},
	}

	asset, warnings := f.generate(t, entry)
	test.AssertEqualWithDiff(t, asset.Content, `import { a as shared } from "./chunk-abc.js";
import React, { useState } from "react";
import "polyfill";
import * as fs from "fs";
const x = shared + useState(React);
var main_default = fs.readFileSync;
export { main_default as default, x };`)

	// ECMAScript modules can export a default and named exports together
	test.AssertEqual(t, len(warnings), 0)

	asset, _ = f.generate(t, common)
	test.AssertEqualWithDiff(t, asset.Content, `const shared = 1;
export { shared as a };`)
}

func TestESMNamespaceWithNamedImports(t *testing.T) {
	f := newFixture(config.FormatESModule)
	main := f.module("/project/src/main.js", graph.ExportsESM, "lib.a(b);")
	lib := f.external("lib")
	chunk := f.entryChunk("main", main, main)
	f.chunk(chunk).ImportsFromExternalModules = []graph.ExternalImport{{
		Module:       lib,
		NamespaceRef: ast.SomeRef(f.symbol(main, "lib")),
		Specifiers:   []graph.ImportSpecifier{{Imported: "some-name", Local: f.symbol(main, "b")}},
	}}

	asset, _ := f.generate(t, chunk)
	test.AssertEqualWithDiff(t, asset.Content, `import * as lib from "lib";
import { "some-name" as b } from "lib";
lib.a(b);`)
}

func TestESMSideEffectChunkImport(t *testing.T) {
	f := newFixture(config.FormatESModule)
	main := f.module("/project/src/entries/main.js", graph.ExportsESM, "run();")
	shared := f.module("/project/src/shared.js", graph.ExportsESM, "setup();")
	entry := f.entryChunk("entries/main", main, main)
	common := f.commonChunk("shared", shared)
	f.chunk(entry).ImportsFromOtherChunks = []graph.CrossChunkImport{{ChunkIndex: common}}

	asset, _ := f.generate(t, entry)
	test.AssertEqualWithDiff(t, asset.Content, `import "../shared.js";
run();`)
}

func TestESMWrappedEntry(t *testing.T) {
	f := newFixture(config.FormatESModule)
	main := f.module("/project/src/main.js", graph.ExportsESM, "var init_main = __esm(() => {});")
	f.link.Metas[main].Wrap = graph.WrapESM
	f.link.Metas[main].WrapperRef = ast.SomeRef(f.symbol(main, "init_main"))
	chunk := f.entryChunk("main", main, main)

	asset, _ := f.generate(t, chunk)
	test.AssertEqualWithDiff(t, asset.Content, `var init_main = __esm(() => {});
init_main();`)

	f.link.Modules[main].ExportsKind = graph.ExportsCommonJS
	f.link.Metas[main].Wrap = graph.WrapCJS
	f.chunk(chunk).CanonicalNames[f.link.Metas[main].WrapperRef.Ref] = "require_main"
	asset, _ = f.generate(t, chunk)
	test.AssertEqualWithDiff(t, asset.Content, `var init_main = __esm(() => {});
export default require_main();`)
}

func TestAppFormat(t *testing.T) {
	f := newFixture(config.FormatApp)
	main := f.module("/project/src/main.js", graph.ExportsESM, "console.log(x);")
	f.export(main, "x", f.symbol(main, "x"))
	chunk := f.entryChunk("main", main, main)
	f.options.Banner = config.StaticAddon("/* banner */")
	f.options.Intro = config.StaticAddon("/* intro */")
	f.options.Outro = config.StaticAddon("/* outro */")
	f.options.Footer = config.StaticAddon("/* footer */")

	asset, _ := f.generate(t, chunk)
	test.AssertEqualWithDiff(t, asset.Content, `/* banner */
/* intro */
console.log(x);
/* outro */
/* footer */`)
}
