package config

import (
	"context"
	"fmt"

	"github.com/jsemit/chunkgen/internal/graph"
	"github.com/jsemit/chunkgen/internal/helpers"
)

type Format uint8

const (
	// The ES module format looks like this:
	//
	//   import { a } from "./chunk.js";
	//   ... bundled code ...
	//   export { b };
	//
	FormatESModule Format = iota

	// The CommonJS format looks like this:
	//
	//   "use strict";
	//   const chunk = require('./chunk.js');
	//   ... bundled code ...
	//   exports.b = b;
	//
	FormatCommonJS

	// IIFE stands for immediately-invoked function expression. That looks like
	// this:
	//
	//   var moduleName = (function(exports) {
	//     ... bundled code ...
	//     return exports;
	//   })({});
	//
	FormatIIFE

	// The AMD format hands the wrapper function to a loader:
	//
	//   define(['exports'], (function(exports) {
	//     ... bundled code ...
	//   }));
	//
	FormatAMD

	// The app format is a plain script with no module contract at all
	FormatApp
)

func (f Format) String() string {
	switch f {
	case FormatESModule:
		return "es"
	case FormatCommonJS:
		return "cjs"
	case FormatIIFE:
		return "iife"
	case FormatAMD:
		return "amd"
	case FormatApp:
		return "app"
	}
	return ""
}

func ParseFormat(text string) (Format, error) {
	switch text {
	case "es", "esm", "module":
		return FormatESModule, nil
	case "cjs", "commonjs":
		return FormatCommonJS, nil
	case "iife":
		return FormatIIFE, nil
	case "amd":
		return FormatAMD, nil
	case "app":
		return FormatApp, nil
	}
	if corrected, ok := formatTypos.MaybeCorrectTypo(text); ok {
		return FormatESModule, fmt.Errorf("Invalid output format %q (did you mean %q?)", text, corrected)
	}
	return FormatESModule, fmt.Errorf("Invalid output format %q (valid: es, cjs, iife, amd, app)", text)
}

var formatTypos = helpers.MakeTypoDetector([]string{"es", "esm", "module", "cjs", "commonjs", "iife", "amd", "app"})

type OutputExports uint8

const (
	// This must be resolved into one of the others before code is generated
	OutputExportsAuto OutputExports = iota

	OutputExportsNamed
	OutputExportsDefault
	OutputExportsNone
)

func (e OutputExports) String() string {
	switch e {
	case OutputExportsAuto:
		return "auto"
	case OutputExportsNamed:
		return "named"
	case OutputExportsDefault:
		return "default"
	case OutputExportsNone:
		return "none"
	}
	return ""
}

func ParseOutputExports(text string) (OutputExports, error) {
	switch text {
	case "", "auto":
		return OutputExportsAuto, nil
	case "named":
		return OutputExportsNamed, nil
	case "default":
		return OutputExportsDefault, nil
	case "none":
		return OutputExportsNone, nil
	}
	return OutputExportsAuto, fmt.Errorf("Invalid exports mode %q (valid: auto, named, default, none)", text)
}

// This controls when "__esModule" is defined on the exports object
type EsModuleFlag uint8

const (
	EsModuleAlways EsModuleFlag = iota
	EsModuleIfDefaultProp
	EsModuleNever
)

func ParseEsModuleFlag(text string) (EsModuleFlag, error) {
	switch text {
	case "", "true", "always":
		return EsModuleAlways, nil
	case "if-default-prop":
		return EsModuleIfDefaultProp, nil
	case "false", "never":
		return EsModuleNever, nil
	}
	return EsModuleAlways, fmt.Errorf("Invalid esModule value %q (valid: true, false, if-default-prop)", text)
}

// This controls how default and namespace imports of external modules are
// normalized when the external module may be CommonJS
type InteropMode uint8

const (
	InteropDefault InteropMode = iota
	InteropCompact
	InteropAuto
	InteropESModule
	InteropDefaultOnly
)

func (mode InteropMode) String() string {
	switch mode {
	case InteropDefault:
		return "default"
	case InteropCompact:
		return "compact"
	case InteropAuto:
		return "auto"
	case InteropESModule:
		return "esm"
	case InteropDefaultOnly:
		return "defaultOnly"
	}
	return ""
}

// Unknown values fall back to "default" instead of being rejected
func ParseInteropMode(text string) InteropMode {
	switch text {
	case "compact":
		return InteropCompact
	case "auto":
		return InteropAuto
	case "esm":
		return InteropESModule
	case "defaultOnly":
		return InteropDefaultOnly
	}
	return InteropDefault
}

type AmdOptions struct {
	// An explicit module id for the "define" call
	ID string

	// The name of the function to call instead of "define"
	Define string

	// When true, the module id is "BasePath" followed by the chunk name
	AutoID   bool
	BasePath string

	// Relative dependency ids get a ".js" extension appended
	ForceJsExtensionForImports bool
}

func (amd *AmdOptions) DefineName() string {
	if amd.Define == "" {
		return "define"
	}
	return amd.Define
}

type GeneratedCodePreset uint8

const (
	PresetES2015 GeneratedCodePreset = iota
	PresetES5
)

func ParseGeneratedCodePreset(text string) (GeneratedCodePreset, error) {
	switch text {
	case "", "es2015":
		return PresetES2015, nil
	case "es5":
		return PresetES5, nil
	}
	return PresetES2015, fmt.Errorf("Invalid GeneratedCodePreset: %s", text)
}

type GeneratedCodeOptions struct {
	Preset GeneratedCodePreset

	// Use "Symbol.toStringTag" to mark namespace objects
	Symbols bool

	// Properties named after reserved words are always quoted
	QuoteReservedNames bool
}

// "Symbol" doesn't exist in ES5 environments
func (gc GeneratedCodeOptions) UseSymbols() bool {
	return gc.Symbols && gc.Preset != PresetES5
}

type SourceMap uint8

const (
	SourceMapNone SourceMap = iota
	SourceMapInline
	SourceMapLinkedWithComment
	SourceMapExternalWithoutComment
)

func ParseSourceMap(text string) (SourceMap, error) {
	switch text {
	case "", "false", "none":
		return SourceMapNone, nil
	case "true", "linked":
		return SourceMapLinkedWithComment, nil
	case "inline":
		return SourceMapInline, nil
	case "hidden", "external":
		return SourceMapExternalWithoutComment, nil
	}
	return SourceMapNone, fmt.Errorf("Invalid sourcemap value %q (valid: true, false, inline, hidden)", text)
}

// An addon hook produces text for one of the banner, intro, outro, or footer
// slots of a chunk. Returning an empty string means there is nothing to add.
type AddonHook func(ctx context.Context, chunk *graph.RenderedChunk) (string, error)

func StaticAddon(text string) AddonHook {
	return func(context.Context, *graph.RenderedChunk) (string, error) {
		return text, nil
	}
}

// Maps the specifier of an external module to the global variable it is
// available as in function wrapper formats
type Globals map[string]string

func (g Globals) Lookup(specifier string) (string, bool) {
	name, ok := g[specifier]
	return name, ok
}

type Options struct {
	Banner AddonHook
	Intro  AddonHook
	Outro  AddonHook
	Footer AddonHook

	Globals Globals

	// The global variable (possibly dotted) the exports are assigned to in
	// function wrapper formats
	Name string

	// This is used with "Dir" and the chunk's file name to work out where the
	// chunk will be written. Source map paths are relative to that location.
	Cwd string
	Dir string

	Amd           AmdOptions
	GeneratedCode GeneratedCodeOptions

	Format    Format
	Exports   OutputExports
	EsModule  EsModuleFlag
	Interop   InteropMode
	SourceMap SourceMap

	// If true, a dotted or plain "Name" is extended instead of being replaced
	Extend bool
}
