package logger

// Most diagnostics raised during chunk emission are given a message ID that
// identifies the diagnostic kind independently of its text. Internal messages
// that are not part of the diagnostic taxonomy use "MsgID_None" instead.
type MsgID = uint8

const (
	MsgID_None MsgID = iota

	// Output options
	MsgID_Output_IllegalIdentifierAsName
	MsgID_Output_InvalidExportOption
	MsgID_Output_MissingGlobalName
	MsgID_Output_MissingNameOptionForIifeExport
	MsgID_Output_MixedExport

	// Linker invariants
	MsgID_Linker_UnsupportedModuleShape

	MsgID_END // Keep this at the end (used only for tests)
)

func MsgIDToString(id MsgID) string {
	switch id {
	case MsgID_Output_IllegalIdentifierAsName:
		return "illegal-identifier-as-name"
	case MsgID_Output_InvalidExportOption:
		return "invalid-export-option"
	case MsgID_Output_MissingGlobalName:
		return "missing-global-name"
	case MsgID_Output_MissingNameOptionForIifeExport:
		return "missing-name-option-for-iife-export"
	case MsgID_Output_MixedExport:
		return "mixed-export"

	case MsgID_Linker_UnsupportedModuleShape:
		return "unsupported-module-shape"
	}

	return ""
}

func StringToMsgID(str string) (MsgID, bool) {
	for id := MsgID_None + 1; id < MsgID_END; id++ {
		if MsgIDToString(id) == str {
			return id, true
		}
	}
	return MsgID_None, false
}
