package linker

import (
	"context"

	"github.com/jsemit/chunkgen/internal/graph"
	"github.com/jsemit/chunkgen/internal/sourcemap"
)

// A module renderer turns one module into the code fragments that make up its
// part of the chunk. It's called concurrently for different modules of the
// same chunk and must not modify the module. Returning nil means the module
// contributes no code.
type ModuleRenderer interface {
	RenderModule(ctx context.Context, module *graph.Module) ([]sourcemap.Source, error)
}

// This uses the body that was already rendered when the module was linked
type BodyRenderer struct{}

func (BodyRenderer) RenderModule(ctx context.Context, module *graph.Module) ([]sourcemap.Source, error) {
	return module.Body, nil
}

// Adapts a plain function to the "ModuleRenderer" interface
type ModuleRendererFunc func(ctx context.Context, module *graph.Module) ([]sourcemap.Source, error)

func (f ModuleRendererFunc) RenderModule(ctx context.Context, module *graph.Module) ([]sourcemap.Source, error) {
	return f(ctx, module)
}
