package linker

import (
	"strings"
	"testing"

	"github.com/jsemit/chunkgen/internal/ast"
	"github.com/jsemit/chunkgen/internal/config"
	"github.com/jsemit/chunkgen/internal/graph"
	"github.com/jsemit/chunkgen/internal/logger"
	"github.com/jsemit/chunkgen/internal/test"
)

func newJQueryFixture(format config.Format) (*fixture, ast.ChunkIndex) {
	f := newFixture(format)
	main := f.module("/project/src/main.js", graph.ExportsESM, "const x = $.fn;")
	jquery := f.external("jquery")
	f.export(main, "x", f.symbol(main, "x"))
	chunk := f.entryChunk("main", main, main)
	f.chunk(chunk).ImportsFromExternalModules = []graph.ExternalImport{
		{Module: jquery, NamespaceRef: ast.SomeRef(f.symbol(main, "$"))},
	}
	return f, chunk
}

func TestIIFENamedExports(t *testing.T) {
	f, chunk := newJQueryFixture(config.FormatIIFE)
	f.options.Name = "MyLib"
	f.options.Globals = config.Globals{"jquery": "jQuery"}

	asset, warnings := f.generate(t, chunk)
	test.AssertEqualWithDiff(t, asset.Content, `var MyLib = (function(exports, jquery) {
"use strict";
Object.defineProperty(exports, '__esModule', { value: true });
const $ = jquery;
const x = $.fn;
exports.x = x;
return exports;
})({}, jQuery);`)
	test.AssertEqual(t, len(warnings), 0)
}

func TestIIFEDottedName(t *testing.T) {
	f, chunk := newJQueryFixture(config.FormatIIFE)
	f.options.Name = "a.b.c"
	f.options.Globals = config.Globals{"jquery": "jQuery"}

	asset, _ := f.generate(t, chunk)
	test.AssertContains(t, asset.Content, `this.a = this.a || {};
this.a.b = this.a.b || {};
this.a.b.c = (function(exports, jquery) {`)
	test.AssertContains(t, asset.Content, "})({}, jQuery);")

	f.options.Extend = true
	asset, _ = f.generate(t, chunk)
	test.AssertContains(t, asset.Content, `this.a = this.a || {};
this.a.b = this.a.b || {};
(function(exports, jquery) {`)
	test.AssertContains(t, asset.Content, "})(this.a.b.c = this.a.b.c || {}, jQuery);")
}

func TestIIFEExtend(t *testing.T) {
	f, chunk := newJQueryFixture(config.FormatIIFE)
	f.options.Name = "MyLib"
	f.options.Extend = true
	f.options.Globals = config.Globals{"jquery": "jQuery"}

	asset, _ := f.generate(t, chunk)
	test.AssertContains(t, asset.Content, "\n})(this.MyLib = this.MyLib || {}, jQuery);")
	if !strings.HasPrefix(asset.Content, "(function(exports, jquery) {") {
		t.Fatalf("unexpected wrapper header:\n%s", asset.Content)
	}
}

func TestIIFEIllegalName(t *testing.T) {
	f, chunk := newJQueryFixture(config.FormatIIFE)
	f.options.Name = "my-lib"

	msg := f.generateError(t, chunk)
	test.AssertEqual(t, msg.ID, logger.MsgID_Output_IllegalIdentifierAsName)
	test.AssertEqual(t, msg.Data.ConfiguredName, "my-lib")
	test.AssertEqual(t, msg.Data.ChunkName, "main")

	// Extending treats the name as a property so anything goes
	f.options.Extend = true
	asset, _ := f.generate(t, chunk)
	test.AssertContains(t, asset.Content, `})(this["my-lib"] = this["my-lib"] || {}, jquery);`)
}

func TestIIFEMissingNameWithExports(t *testing.T) {
	f, chunk := newJQueryFixture(config.FormatIIFE)
	f.options.Globals = config.Globals{"jquery": "jQuery"}

	asset, warnings := f.generate(t, chunk)
	if !strings.HasPrefix(asset.Content, "(function(exports, jquery) {") {
		t.Fatalf("unexpected wrapper header:\n%s", asset.Content)
	}
	test.AssertEqual(t, len(warnings), 1)
	test.AssertEqual(t, warnings[0].ID, logger.MsgID_Output_MissingNameOptionForIifeExport)
	test.AssertEqual(t, warnings[0].Kind, logger.Warning)
}

func TestIIFEMissingGlobal(t *testing.T) {
	f := newFixture(config.FormatIIFE)
	main := f.module("/project/src/main.js", graph.ExportsESM, "debounce();")
	lodash := f.external("lodash-es")
	chunk := f.entryChunk("main", main, main)
	f.chunk(chunk).ImportsFromExternalModules = []graph.ExternalImport{
		{Module: lodash, Specifiers: []graph.ImportSpecifier{{Imported: "debounce", Local: f.symbol(main, "debounce")}}},
	}

	asset, warnings := f.generate(t, chunk)
	test.AssertEqualWithDiff(t, asset.Content, `(function(lodash_es) {
"use strict";
const { debounce } = lodash_es;
debounce();
})(lodash_es);`)
	test.AssertEqual(t, len(warnings), 1)
	test.AssertEqual(t, warnings[0].ID, logger.MsgID_Output_MissingGlobalName)
	test.AssertEqual(t, warnings[0].Data.Specifier, "lodash-es")
	test.AssertEqual(t, warnings[0].Data.Fallback, "lodash_es")

	// The fallback doesn't depend on anything but the specifier
	again, _ := f.generate(t, chunk)
	test.AssertEqual(t, again.Content, asset.Content)
}

func TestWrapperArgumentsStayAligned(t *testing.T) {
	f := newFixture(config.FormatIIFE)
	main := f.module("/project/src/main.js", graph.ExportsESM, "")
	chunk := f.entryChunk("main", main, main)
	f.options.Globals = config.Globals{"react": "React", "react-dom": "ReactDOM", "class": "class"}

	g := newGenerator(f.context(chunk))
	params, args := g.renderWrapperArguments([]string{"react", "./local", "react-dom", "class"}, true, "")
	test.AssertEqual(t, len(params), len(args))
	test.AssertEqual(t, strings.Join(params, ", "), "exports, react, __local, react_dom, _class")
	test.AssertEqual(t, strings.Join(args, ", "), "{}, React, __local, ReactDOM, _class")

	warnings := g.log.Done()
	test.AssertEqual(t, len(warnings), 1)
	test.AssertEqual(t, warnings[0].Data.Specifier, "./local")

	// Without an exports object the lists start with the first external
	params, args = g.renderWrapperArguments([]string{"react"}, false, "")
	test.AssertEqual(t, strings.Join(params, ", "), "react")
	test.AssertEqual(t, strings.Join(args, ", "), "React")
}

func TestIIFEWrappedCommonJSEntry(t *testing.T) {
	f := newFixture(config.FormatIIFE)
	main := f.module("/project/src/main.js", graph.ExportsCommonJS, "var require_main = __commonJS(() => {});")
	f.link.Metas[main].Wrap = graph.WrapCJS
	f.link.Metas[main].WrapperRef = ast.SomeRef(f.symbol(main, "require_main"))
	chunk := f.entryChunk("main", main, main)

	asset, _ := f.generate(t, chunk)
	test.AssertEqualWithDiff(t, asset.Content, `(function() {
var require_main = __commonJS(() => {});
require_main();
})();`)

	f.options.Name = "Lib"
	asset, _ = f.generate(t, chunk)
	test.AssertEqualWithDiff(t, asset.Content, `var Lib = (function() {
var require_main = __commonJS(() => {});
return require_main();
})();`)

	// Only ECMAScript modules can be given an explicit export mode
	f.options.Exports = config.OutputExportsNamed
	msg := f.generateError(t, chunk)
	test.AssertEqual(t, msg.ID, logger.MsgID_Linker_UnsupportedModuleShape)
}

func TestIIFEDefaultExport(t *testing.T) {
	f := newFixture(config.FormatIIFE)
	main := f.module("/project/src/main.js", graph.ExportsESM, "var main_default = 1;")
	f.export(main, "default", f.symbol(main, "main_default"))
	chunk := f.entryChunk("main", main, main)
	f.options.Name = "Lib"

	asset, _ := f.generate(t, chunk)
	test.AssertEqualWithDiff(t, asset.Content, `var Lib = (function() {
"use strict";
var main_default = 1;
return main_default;
})();`)
}

func TestAMDDefine(t *testing.T) {
	f := newFixture(config.FormatAMD)
	main := f.module("/project/src/main.js", graph.ExportsESM, "var main_default = helper();")
	dep := f.external("./dep")
	f.export(main, "default", f.symbol(main, "main_default"))
	chunk := f.entryChunk("main", main, main)
	f.chunk(chunk).ImportsFromExternalModules = []graph.ExternalImport{
		{Module: dep, Specifiers: []graph.ImportSpecifier{{Imported: "helper", Local: f.symbol(main, "helper")}}},
	}
	f.options.Amd = config.AmdOptions{AutoID: true, BasePath: "pkg", ForceJsExtensionForImports: true}

	asset, warnings := f.generate(t, chunk)
	test.AssertEqualWithDiff(t, asset.Content, `define('pkg/main', ['./dep.js'], (function(__dep) {
"use strict";
const { helper } = __dep;
var main_default = helper();
return main_default;
}));`)

	// AMD gets its externals from the loader, not from globals
	test.AssertEqual(t, len(warnings), 0)
}

func TestAMDNamedExports(t *testing.T) {
	f, chunk := newJQueryFixture(config.FormatAMD)
	f.options.Amd = config.AmdOptions{ID: "my-lib", Define: "requirejs.define"}

	asset, _ := f.generate(t, chunk)
	test.AssertEqualWithDiff(t, asset.Content, `requirejs.define('my-lib', ['exports', 'jquery'], (function(exports, jquery) {
"use strict";
Object.defineProperty(exports, '__esModule', { value: true });
const $ = jquery;
const x = $.fn;
exports.x = x;
return exports;
}));`)

	f.options.Amd = config.AmdOptions{}
	asset, _ = f.generate(t, chunk)
	if !strings.HasPrefix(asset.Content, "define(['exports', 'jquery'], (function(exports, jquery) {") {
		t.Fatalf("unexpected define call:\n%s", asset.Content)
	}
}

func TestAMDWithoutDependencies(t *testing.T) {
	f := newFixture(config.FormatAMD)
	main := f.module("/project/src/main.js", graph.ExportsESM, "run();")
	chunk := f.entryChunk("main", main, main)

	asset, _ := f.generate(t, chunk)
	test.AssertEqualWithDiff(t, asset.Content, `define((function() {
"use strict";
run();
}));`)
}

func newNamespaceFixture(format config.Format, namespace string) (*fixture, ast.ChunkIndex) {
	f := newFixture(format)
	main := f.module("/project/src/main.js", graph.ExportsESM, "var main_default = "+namespace+".readFileSync;")
	fs := f.external("fs")
	f.export(main, "default", f.symbol(main, "main_default"))
	chunk := f.entryChunk("main", main, main)
	f.chunk(chunk).ImportsFromExternalModules = []graph.ExternalImport{
		{Module: fs, NamespaceRef: ast.SomeRef(f.symbol(main, namespace))},
	}
	return f, chunk
}

func TestIIFENamespaceNamedLikeParameter(t *testing.T) {
	f, chunk := newNamespaceFixture(config.FormatIIFE, "fs")
	f.options.Name = "Lib"
	f.options.Globals = config.Globals{"fs": "NodeFS"}

	asset, warnings := f.generate(t, chunk)
	test.AssertEqualWithDiff(t, asset.Content, `var Lib = (function(fs) {
"use strict";
var main_default = fs.readFileSync;
return main_default;
})(NodeFS);`)
	test.AssertNotContains(t, asset.Content, "const fs = fs;")
	test.AssertEqual(t, len(warnings), 0)

	// A namespace with some other name still aliases the parameter
	f, chunk = newNamespaceFixture(config.FormatIIFE, "nodeFs")
	f.options.Name = "Lib"
	f.options.Globals = config.Globals{"fs": "NodeFS"}
	asset, _ = f.generate(t, chunk)
	test.AssertContains(t, asset.Content, "(function(fs) {\n\"use strict\";\nconst nodeFs = fs;\nvar main_default = nodeFs.readFileSync;")
}

func TestAMDNamespaceNamedLikeParameter(t *testing.T) {
	f, chunk := newNamespaceFixture(config.FormatAMD, "fs")

	asset, _ := f.generate(t, chunk)
	test.AssertEqualWithDiff(t, asset.Content, `define(['fs'], (function(fs) {
"use strict";
var main_default = fs.readFileSync;
return main_default;
}));`)

	f, chunk = newNamespaceFixture(config.FormatAMD, "nodeFs")
	asset, _ = f.generate(t, chunk)
	test.AssertContains(t, asset.Content, "define(['fs'], (function(fs) {\n\"use strict\";\nconst nodeFs = fs;\n")
}

func TestIIFEImportsInES5(t *testing.T) {
	f := newFixture(config.FormatIIFE)
	main := f.module("/project/src/main.js", graph.ExportsESM, "debounce(throttled);")
	lodash := f.external("lodash-es")
	chunk := f.entryChunk("main", main, main)
	f.chunk(chunk).ImportsFromExternalModules = []graph.ExternalImport{
		{Module: lodash, NamespaceRef: ast.SomeRef(f.symbol(main, "_")), Specifiers: []graph.ImportSpecifier{
			{Imported: "debounce", Local: f.symbol(main, "debounce")},
			{Imported: "throttle", Local: f.symbol(main, "throttled")},
		}},
	}
	f.options.Globals = config.Globals{"lodash-es": "_"}
	f.options.GeneratedCode.Preset = config.PresetES5

	asset, _ := f.generate(t, chunk)
	test.AssertEqualWithDiff(t, asset.Content, `(function(lodash_es) {
"use strict";
var _ = lodash_es;
var debounce = _.debounce, throttled = _.throttle;
debounce(throttled);
})(_);`)
	test.AssertNotContains(t, asset.Content, "const")
}
