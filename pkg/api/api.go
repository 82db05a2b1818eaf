package api

import "context"

type Format uint8

const (
	// The format from the config file, or "es" if there is none
	FormatDefault Format = iota
	FormatESModule
	FormatCommonJS
	FormatIIFE
	FormatAMD
	FormatApp
)

type Exports uint8

const (
	ExportsDefaultMode Exports = iota
	ExportsAuto
	ExportsNamed
	ExportsDefault
	ExportsNone
)

type EsModule uint8

const (
	EsModuleDefault EsModule = iota
	EsModuleAlways
	EsModuleIfDefaultProp
	EsModuleNever
)

type SourceMap uint8

const (
	SourceMapNone SourceMap = iota
	SourceMapInline
	SourceMapLinked
	SourceMapExternal
)

type StderrColor uint8

const (
	ColorIfTerminal StderrColor = iota
	ColorNever
	ColorAlways
)

type LogLevel uint8

const (
	LogLevelSilent LogLevel = iota
	LogLevelInfo
	LogLevelWarning
	LogLevelError
)

type Message struct {
	// A stable name for the kind of message such as "missing-global-name".
	// This is empty for errors that aren't diagnostics (e.g. a failing hook).
	ID string

	Text  string
	Chunk string
}

////////////////////////////////////////////////////////////////////////////////
// Render API

type AmdOptions struct {
	ID                         string
	Define                     string
	AutoID                     bool
	BasePath                   string
	ForceJsExtensionForImports bool
}

// What an addon callback can see about the chunk it's producing text for
type ChunkInfo struct {
	Name           string
	FileName       string
	FacadeModuleID string
	IsEntry        bool
	IsDynamicEntry bool
	ModuleIDs      []string
	Exports        []string
	Imports        []string
}

type AddonCallback func(chunk ChunkInfo) (string, error)

type Plugin struct {
	Name string

	Banner AddonCallback
	Intro  AddonCallback
	Outro  AddonCallback
	Footer AddonCallback
}

type RenderOptions struct {
	Color    StderrColor
	LogLevel LogLevel

	// Options from this TOML file are used for everything that isn't set here
	ConfigFile string

	// The same as "ConfigFile" but given as text. Only one of these can be set.
	ConfigText string

	Format     Format
	Exports    Exports
	EsModule   EsModule
	Sourcemap  SourceMap
	Interop    string
	GlobalName string
	Extend     bool
	Globals    map[string]string
	Amd        *AmdOptions

	Cwd    string
	Outdir string

	Banner string
	Intro  string
	Outro  string
	Footer string

	Plugins []Plugin

	// The maximum number of modules rendered at once per chunk
	Concurrency int

	// Adds a summary of where time was spent to the result
	Timing bool
}

type RenderResult struct {
	Errors   []Message
	Warnings []Message

	OutputFiles []OutputFile

	// Only set when "Timing" was requested
	Timing string
}

type OutputFile struct {
	Path     string
	Contents []byte
}

// Renders every chunk of an already linked chunk graph. Chunks that fail are
// reported in "Errors" and produce no output files.
func RenderChunks(ctx context.Context, fixture *Fixture, options RenderOptions) RenderResult {
	return renderImpl(ctx, fixture, options)
}
