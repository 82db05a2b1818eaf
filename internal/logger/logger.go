package logger

// Warnings are accumulated per chunk render and drained exactly once, while
// errors abort the render of the current chunk. Messages carry a stable ID
// plus the context needed to reproduce the user-facing text.

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
)

type Log struct {
	AddMsg    func(Msg)
	HasErrors func() bool
	Done      func() []Msg
}

type LogLevel int8

const (
	LevelNone LogLevel = iota
	LevelInfo
	LevelWarning
	LevelError
	LevelSilent
)

type MsgKind uint8

const (
	Error MsgKind = iota
	Warning
)

func (kind MsgKind) String() string {
	switch kind {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		panic("Internal error")
	}
}

type Msg struct {
	ID   MsgID
	Kind MsgKind
	Text string
	Data MsgData
}

// This is the context a diagnostic was raised with. Only the fields relevant
// to the message ID are filled in, so a caller can inspect a message without
// parsing its text.
type MsgData struct {
	Specifier      string
	Fallback       string
	ChunkName      string
	ConfiguredName string
	ModuleID       string
	ExportMode     string
	Exports        []string
}

func (msg Msg) Error() string {
	return msg.Text
}

// Messages are reported grouped by chunk, errors first
func sortMsgs(msgs []Msg) {
	sort.SliceStable(msgs, func(i int, j int) bool {
		a, b := &msgs[i], &msgs[j]
		switch {
		case a.Data.ChunkName != b.Data.ChunkName:
			return a.Data.ChunkName < b.Data.ChunkName
		case a.Kind != b.Kind:
			return a.Kind < b.Kind
		case a.ID != b.ID:
			return a.ID < b.ID
		}
		return a.Text < b.Text
	})
}

func countSummary(errors int, warnings int) string {
	counted := func(count int, noun string) string {
		if count != 1 {
			noun += "s"
		}
		return fmt.Sprintf("%d %s", count, noun)
	}
	switch {
	case errors == 0:
		return counted(warnings, "warning")
	case warnings == 0:
		return counted(errors, "error")
	}
	return counted(warnings, "warning") + " and " + counted(errors, "error")
}

type TerminalInfo struct {
	IsTTY           bool
	UseColorEscapes bool
	Width           int
	Height          int
}

func hasNoColorEnvironmentVariable() bool {
	// https://no-color.org/
	_, ok := os.LookupEnv("NO_COLOR")
	return ok
}

type StderrColor uint8

const (
	ColorIfTerminal StderrColor = iota
	ColorNever
	ColorAlways
)

type StderrOptions struct {
	Color    StderrColor
	LogLevel LogLevel
}

// Prints each message to stderr as it arrives if the log level lets it
// through, and a count of everything reported when done.
func NewStderrLog(options StderrOptions) Log {
	terminalInfo := GetTerminalInfo(os.Stderr)
	switch options.Color {
	case ColorNever:
		terminalInfo.UseColorEscapes = false
	case ColorAlways:
		terminalInfo.UseColorEscapes = SupportsColorEscapes
	}

	var mutex sync.Mutex
	var msgs []Msg
	counts := map[MsgKind]int{}
	threshold := map[MsgKind]LogLevel{Error: LevelError, Warning: LevelWarning}

	return Log{
		AddMsg: func(msg Msg) {
			mutex.Lock()
			defer mutex.Unlock()
			msgs = append(msgs, msg)
			counts[msg.Kind]++
			if options.LogLevel <= threshold[msg.Kind] {
				writeStringWithColor(os.Stderr, msg.String(options, terminalInfo))
			}
		},
		HasErrors: func() bool {
			mutex.Lock()
			defer mutex.Unlock()
			return counts[Error] > 0
		},
		Done: func() []Msg {
			mutex.Lock()
			defer mutex.Unlock()
			if options.LogLevel <= LevelInfo && len(msgs) > 0 {
				writeStringWithColor(os.Stderr, countSummary(counts[Error], counts[Warning])+"\n")
			}
			sortMsgs(msgs)
			return msgs
		},
	}
}

// The deferred log keeps messages in arrival order until "Done" is called.
// Each chunk render owns one of these as its warnings accumulator.
func NewDeferLog() Log {
	var msgs []Msg
	var mutex sync.Mutex
	var hasErrors bool

	return Log{
		AddMsg: func(msg Msg) {
			mutex.Lock()
			defer mutex.Unlock()
			if msg.Kind == Error {
				hasErrors = true
			}
			msgs = append(msgs, msg)
		},
		HasErrors: func() bool {
			mutex.Lock()
			defer mutex.Unlock()
			return hasErrors
		},
		Done: func() []Msg {
			mutex.Lock()
			defer mutex.Unlock()
			drained := msgs
			msgs = nil
			return drained
		},
	}
}

const (
	colorReset     = "\033[0m"
	colorRed       = "\033[31m"
	colorMagenta   = "\033[35m"
	colorDim       = "\033[37m"
	colorBold      = "\033[1m"
	colorResetBold = "\033[0;1m"
)

// "main.js: warning: text [id]", with the kind colored on terminals
func (msg Msg) String(options StderrOptions, terminalInfo TerminalInfo) string {
	var where, id string
	if msg.Data.ChunkName != "" {
		where = msg.Data.ChunkName + ": "
	}
	if name := MsgIDToString(msg.ID); name != "" {
		id = " [" + name + "]"
	}

	if !terminalInfo.UseColorEscapes {
		return fmt.Sprintf("%s%s: %s%s\n", where, msg.Kind, msg.Text, id)
	}

	kindColor := colorRed
	if msg.Kind == Warning {
		kindColor = colorMagenta
	}
	return fmt.Sprintf("%s%s%s%s: %s%s%s%s%s\n",
		colorBold, where, kindColor, msg.Kind, colorResetBold, msg.Text, colorDim, id, colorReset)
}

// Renders messages without terminal escapes, for tests and error strings
func MsgsToString(msgs []Msg) string {
	sb := strings.Builder{}
	for _, msg := range msgs {
		sb.WriteString(msg.String(StderrOptions{}, TerminalInfo{}))
	}
	return sb.String()
}
