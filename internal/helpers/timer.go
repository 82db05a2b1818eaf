package helpers

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// A nil timer does nothing, so callers never need to check whether timing
// was requested
type Timer struct {
	data  []timerData
	mutex sync.Mutex
}

type timerData struct {
	time  time.Time
	name  string
	isEnd bool
}

func (t *Timer) Begin(name string) { t.record(name, false) }
func (t *Timer) End(name string)   { t.record(name, true) }

func (t *Timer) record(name string, isEnd bool) {
	if t == nil {
		return
	}
	now := time.Now()
	t.mutex.Lock()
	t.data = append(t.data, timerData{time: now, name: name, isEnd: isEnd})
	t.mutex.Unlock()
}

// Returns one line per measured phase, indented by nesting depth. Nothing is
// returned for a nil timer.
func (t *Timer) Summary() string {
	if t == nil {
		return ""
	}
	t.mutex.Lock()
	defer t.mutex.Unlock()

	type pair struct {
		timerData
		index int
	}

	var lines []string
	var stack []pair
	indent := 0

	for _, item := range t.data {
		if !item.isEnd {
			stack = append(stack, pair{timerData: item, index: len(lines)})
			lines = append(lines, "")
			indent++
		} else {
			indent--
			last := len(stack) - 1
			top := stack[last]
			stack = stack[:last]
			if item.name != top.name {
				panic("Internal error")
			}
			lines[top.index] = fmt.Sprintf("%s%s: %dms",
				strings.Repeat("  ", indent),
				top.name,
				item.time.Sub(top.time).Milliseconds())
		}
	}

	return strings.Join(lines, "\n")
}
