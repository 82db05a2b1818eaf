package graph

import (
	"sort"

	"github.com/jsemit/chunkgen/internal/ast"
)

type WrapKind uint8

const (
	WrapNone WrapKind = iota

	// The module will be bundled CommonJS-style like this:
	//
	//   // foo.ts
	//   var require_foo = __commonJS((exports, module) => {
	//     exports.foo = 123;
	//   });
	//
	//   // bar.ts
	//   var foo = flag ? require_foo() : null;
	//
	WrapCJS

	// The module will be bundled ESM-style like this:
	//
	//   // foo.ts
	//   var foo, foo_exports = {};
	//   __export(foo_exports, {
	//     foo: () => foo
	//   });
	//   var init_foo = __esm(() => {
	//     foo = 123;
	//   });
	//
	//   // bar.ts
	//   var foo = flag ? (init_foo(), foo_exports) : null;
	//
	WrapESM
)

// This contains linker-specific metadata corresponding to a module. It's
// separated out because it's the result of a single linking operation and
// is never changed once linking is done.
type ModuleMeta struct {
	// This includes both named exports and re-exports. Never iterate over this
	// map directly since map iteration order is random. Use "SortedExportAliases"
	// instead.
	ResolvedExports map[string]ast.Ref

	// Each "export * from" statement that targets a CommonJS-shaped module
	// can't be resolved at link time. The entry point instead binds the module
	// to a local variable and copies its properties onto "exports" at run time.
	RequireBindingsForStarExports []StarExportBinding

	// The symbol for "init_foo" or "require_foo" if "Wrap" isn't "WrapNone"
	WrapperRef ast.OptionalRef

	Wrap WrapKind
}

type StarExportBinding struct {
	Importee ast.ModuleIndex
	Binding  ast.Ref
}

func (meta *ModuleMeta) SortedExportAliases() []string {
	aliases := make([]string, 0, len(meta.ResolvedExports))
	for alias := range meta.ResolvedExports {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	return aliases
}
