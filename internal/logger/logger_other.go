//go:build !darwin && !linux && !windows

package logger

import "os"

// Terminal detection is only implemented for the platforms above. Everything
// else gets plain uncolored output.
const SupportsColorEscapes = false

func GetTerminalInfo(*os.File) TerminalInfo {
	return TerminalInfo{}
}

func writeStringWithColor(file *os.File, text string) {
	file.WriteString(text)
}
