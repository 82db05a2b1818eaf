package linker

import (
	"github.com/jsemit/chunkgen/internal/sourcemap"
)

// The app format is a plain script. There are no imports, no exports, and no
// wrapper to decide anything about.
func (g *generator) renderApp(moduleSources []renderedModuleSources, addons addons) *sourcemap.ConcatSource {
	concat := &sourcemap.ConcatSource{}
	concat.AddOptionalRaw(addons.banner)
	concat.AddOptionalRaw(addons.intro)
	addModuleSources(concat, moduleSources)
	concat.AddOptionalRaw(addons.outro)
	concat.AddOptionalRaw(addons.footer)
	return concat
}
