//go:build windows

package logger

import (
	"os"

	"golang.org/x/sys/windows"
)

const SupportsColorEscapes = true

func GetTerminalInfo(file *os.File) (info TerminalInfo) {
	handle := windows.Handle(file.Fd())

	// Is this handle a console?
	var mode uint32
	if err := windows.GetConsoleMode(handle, &mode); err != nil {
		return
	}
	info.IsTTY = true

	// Ask the console to interpret escape sequences instead of translating
	// colors into console attributes
	if mode&windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING != 0 ||
		windows.SetConsoleMode(handle, mode|windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING) == nil {
		info.UseColorEscapes = !hasNoColorEnvironmentVariable()
	}

	// Get the width of the window
	var screen windows.ConsoleScreenBufferInfo
	if err := windows.GetConsoleScreenBufferInfo(handle, &screen); err == nil {
		info.Width = int(screen.Size.X) - 1
		info.Height = int(screen.Size.Y) - 1
	}

	return
}

func writeStringWithColor(file *os.File, text string) {
	file.WriteString(text)
}
