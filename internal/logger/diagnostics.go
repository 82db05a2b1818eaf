package logger

import (
	"fmt"

	"github.com/jsemit/chunkgen/internal/helpers"
)

// These construct the diagnostics raised while emitting a chunk. Each one
// stores its context in "Data" so the text can always be reproduced from it.

func IllegalIdentifierAsName(name string) Msg {
	return Msg{
		ID:   MsgID_Output_IllegalIdentifierAsName,
		Kind: Error,
		Text: fmt.Sprintf("Given name %q is not a legal JS identifier. If you need this, you can try \"output.extend: true\".", name),
		Data: MsgData{ConfiguredName: name},
	}
}

func MissingGlobalName(specifier string, fallback string) Msg {
	return Msg{
		ID:   MsgID_Output_MissingGlobalName,
		Kind: Warning,
		Text: fmt.Sprintf("No name was provided for external module %q in \"output.globals\", guessing %q.", specifier, fallback),
		Data: MsgData{Specifier: specifier, Fallback: fallback},
	}
}

func MissingNameOptionForIifeExport() Msg {
	return Msg{
		ID:   MsgID_Output_MissingNameOptionForIifeExport,
		Kind: Warning,
		Text: "If you do not supply \"output.name\", you may not be able to access the exports of an IIFE bundle.",
	}
}

func InvalidExportOption(exportMode string, moduleID string, exports []string) Msg {
	return Msg{
		ID:   MsgID_Output_InvalidExportOption,
		Kind: Error,
		Text: fmt.Sprintf("%q was specified for \"output.exports\", but entry module %q has the following exports: %s",
			exportMode, moduleID, helpers.StringArrayToQuotedCommaSeparatedString(exports)),
		Data: MsgData{ExportMode: exportMode, ModuleID: moduleID, Exports: exports},
	}
}

func MixedExport(moduleID string) Msg {
	return Msg{
		ID:   MsgID_Output_MixedExport,
		Kind: Warning,
		Text: fmt.Sprintf("Entry module %q is using named and default exports together. "+
			"Consumers of your bundle will have to use `chunk.default` to access the default export, "+
			"which may not be what you want. Use `output.exports: \"named\"` to disable this warning.", moduleID),
		Data: MsgData{ModuleID: moduleID},
	}
}

func UnsupportedModuleShape(moduleID string, format string) Msg {
	return Msg{
		ID:   MsgID_Linker_UnsupportedModuleShape,
		Kind: Error,
		Text: fmt.Sprintf("Internal error: entry module %q must use ECMAScript module exports for the %q output format", moduleID, format),
		Data: MsgData{ModuleID: moduleID, ExportMode: format},
	}
}

// Attaches the chunk a message was raised for.
func (msg Msg) InChunk(chunkName string) Msg {
	msg.Data.ChunkName = chunkName
	return msg
}
