package helpers

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

// Describes the calling goroutine's stack with one "package.Function
// (dir/file.go:line)" line per frame. Frames inside the Go runtime, such as
// the panic machinery when this is called from a recover, are left out.
func PrettyPrintedStack() string {
	pcs := make([]uintptr, 64)
	frames := runtime.CallersFrames(pcs[:runtime.Callers(2, pcs)])
	sb := strings.Builder{}

	for {
		frame, more := frames.Next()
		if frame.Function != "" && !strings.HasPrefix(frame.Function, "runtime.") {
			name := frame.Function
			if slash := strings.LastIndexByte(name, '/'); slash != -1 {
				name = name[slash+1:]
			}
			file := filepath.Join(filepath.Base(filepath.Dir(frame.File)), filepath.Base(frame.File))
			if sb.Len() > 0 {
				sb.WriteByte('\n')
			}
			fmt.Fprintf(&sb, "%s (%s:%d)", name, filepath.ToSlash(file), frame.Line)
		}
		if !more {
			break
		}
	}

	return sb.String()
}
