//go:build darwin || linux

package logger

import (
	"os"

	"golang.org/x/sys/unix"
)

const SupportsColorEscapes = true

// Asking for the window size fails with ENOTTY for anything that isn't a
// terminal, which makes it double as the terminal check on every unix.
func GetTerminalInfo(file *os.File) TerminalInfo {
	size, err := unix.IoctlGetWinsize(int(file.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		return TerminalInfo{}
	}
	return TerminalInfo{
		IsTTY:           true,
		UseColorEscapes: !hasNoColorEnvironmentVariable(),
		Width:           int(size.Col),
		Height:          int(size.Row),
	}
}

func writeStringWithColor(file *os.File, text string) {
	file.WriteString(text)
}
