package linker

import (
	"testing"

	"github.com/jsemit/chunkgen/internal/ast"
	"github.com/jsemit/chunkgen/internal/config"
	"github.com/jsemit/chunkgen/internal/graph"
	"github.com/jsemit/chunkgen/internal/logger"
	"github.com/jsemit/chunkgen/internal/sourcemap"
	"github.com/jsemit/chunkgen/internal/test"
)

func TestResolveExportMode(t *testing.T) {
	esm := &graph.Module{ID: "/src/main.js", ExportsKind: graph.ExportsESM}
	cjs := &graph.Module{ID: "/src/main.cjs", ExportsKind: graph.ExportsCommonJS}

	items := func(names ...string) []ExportItem {
		result := make([]ExportItem, len(names))
		for i, name := range names {
			result[i] = ExportItem{Name: name, Ref: ast.Ref{InnerIndex: uint32(i)}}
		}
		return result
	}

	cases := []struct {
		name     string
		setting  config.OutputExports
		entry    *graph.Module
		items    []ExportItem
		format   config.Format
		expected config.OutputExports
		errorID  logger.MsgID
		warnID   logger.MsgID
	}{
		{name: "auto empty", setting: config.OutputExportsAuto, entry: esm, format: config.FormatCommonJS, expected: config.OutputExportsNone},
		{name: "auto default only", setting: config.OutputExportsAuto, entry: esm, items: items("default"), format: config.FormatCommonJS, expected: config.OutputExportsDefault},
		{name: "auto named", setting: config.OutputExportsAuto, entry: esm, items: items("a", "b"), format: config.FormatCommonJS, expected: config.OutputExportsNamed},
		{name: "auto mixed", setting: config.OutputExportsAuto, entry: esm, items: items("a", "default"), format: config.FormatIIFE, expected: config.OutputExportsNamed, warnID: logger.MsgID_Output_MixedExport},
		{name: "auto mixed esm", setting: config.OutputExportsAuto, entry: esm, items: items("a", "default"), format: config.FormatESModule, expected: config.OutputExportsNamed},
		{name: "named", setting: config.OutputExportsNamed, entry: esm, items: items("default"), format: config.FormatCommonJS, expected: config.OutputExportsNamed},
		{name: "named without exports", setting: config.OutputExportsNamed, entry: esm, format: config.FormatAMD, expected: config.OutputExportsNamed},
		{name: "default", setting: config.OutputExportsDefault, entry: esm, items: items("default"), format: config.FormatCommonJS, expected: config.OutputExportsDefault},
		{name: "default with named", setting: config.OutputExportsDefault, entry: esm, items: items("a"), format: config.FormatCommonJS, errorID: logger.MsgID_Output_InvalidExportOption},
		{name: "default empty", setting: config.OutputExportsDefault, entry: esm, format: config.FormatCommonJS, errorID: logger.MsgID_Output_InvalidExportOption},
		{name: "none", setting: config.OutputExportsNone, entry: esm, format: config.FormatCommonJS, expected: config.OutputExportsNone},
		{name: "none with exports", setting: config.OutputExportsNone, entry: esm, items: items("a"), format: config.FormatCommonJS, errorID: logger.MsgID_Output_InvalidExportOption},
		{name: "named on commonjs", setting: config.OutputExportsNamed, entry: cjs, format: config.FormatIIFE, errorID: logger.MsgID_Linker_UnsupportedModuleShape},
		{name: "default on commonjs", setting: config.OutputExportsDefault, entry: cjs, format: config.FormatIIFE, errorID: logger.MsgID_Linker_UnsupportedModuleShape},
		{name: "auto on commonjs", setting: config.OutputExportsAuto, entry: cjs, format: config.FormatIIFE, expected: config.OutputExportsNone},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			log := logger.NewDeferLog()
			mode, msg := ResolveExportMode(c.setting, c.entry, c.items, c.format, log)
			warnings := log.Done()

			if c.errorID != logger.MsgID_None {
				if msg == nil {
					t.Fatalf("expected %s", logger.MsgIDToString(c.errorID))
				}
				test.AssertEqual(t, msg.ID, c.errorID)
				test.AssertEqual(t, msg.Kind, logger.Error)
				return
			}

			if msg != nil {
				t.Fatalf("unexpected error: %s", msg.Text)
			}
			test.AssertEqual(t, mode, c.expected)
			if c.warnID != logger.MsgID_None {
				test.AssertEqual(t, len(warnings), 1)
				test.AssertEqual(t, warnings[0].ID, c.warnID)
				test.AssertEqual(t, warnings[0].Data.ModuleID, c.entry.ID)
			} else {
				test.AssertEqual(t, len(warnings), 0)
			}
		})
	}
}

func TestRenderNamespaceMarkers(t *testing.T) {
	test.AssertEqual(t, renderNamespaceMarkers(config.EsModuleAlways, false, false),
		"Object.defineProperty(exports, '__esModule', { value: true });")
	test.AssertEqual(t, renderNamespaceMarkers(config.EsModuleIfDefaultProp, false, false), "")
	test.AssertEqual(t, renderNamespaceMarkers(config.EsModuleIfDefaultProp, true, false),
		"Object.defineProperty(exports, '__esModule', { value: true });")
	test.AssertEqual(t, renderNamespaceMarkers(config.EsModuleNever, true, false), "")
	test.AssertEqual(t, renderNamespaceMarkers(config.EsModuleNever, true, true),
		"Object.defineProperty(exports, Symbol.toStringTag, { value: 'Module' });")
	test.AssertEqual(t, renderNamespaceMarkers(config.EsModuleAlways, false, true),
		"Object.defineProperties(exports, { __esModule: { value: true }, [Symbol.toStringTag]: { value: 'Module' } });")
}

func TestDetermineUseStrict(t *testing.T) {
	strict := &graph.Module{ExportsKind: graph.ExportsCommonJS, HasUseStrictDirective: true}
	sloppy := &graph.Module{ExportsKind: graph.ExportsNone}
	esm := &graph.Module{ExportsKind: graph.ExportsESM}
	nonEmpty := []sourcemap.Source{sourcemap.RawSource("x;")}

	g := &generator{}
	test.AssertEqual(t, g.determineUseStrict(nil), true)
	test.AssertEqual(t, g.determineUseStrict([]renderedModuleSources{
		{module: esm, sources: nonEmpty},
		{module: strict, sources: nonEmpty},
	}), true)
	test.AssertEqual(t, g.determineUseStrict([]renderedModuleSources{
		{module: esm, sources: nonEmpty},
		{module: sloppy, sources: nonEmpty},
	}), false)

	// Modules without code don't count
	test.AssertEqual(t, g.determineUseStrict([]renderedModuleSources{
		{module: esm, sources: nonEmpty},
		{module: sloppy},
	}), true)
}
