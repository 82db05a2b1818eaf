package test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/kylelemons/godebug/diff"
)

func AssertEqual(t *testing.T, observed interface{}, expected interface{}) {
	t.Helper()
	if observed != expected {
		t.Fatalf("%s != %s", observed, expected)
	}
}

// Multi-line output is much easier to debug as a line diff than as two big
// quoted strings, so fall back to a diff whenever either side has a newline.
func AssertEqualWithDiff(t *testing.T, observed interface{}, expected interface{}) {
	t.Helper()
	if observed != expected {
		stringA := fmt.Sprintf("%v", observed)
		stringB := fmt.Sprintf("%v", expected)
		if strings.Contains(stringA, "\n") || strings.Contains(stringB, "\n") {
			t.Fatal("\n" + diff.Diff(stringB, stringA))
		} else {
			t.Fatalf("%q != %q", stringA, stringB)
		}
	}
}

func AssertContains(t *testing.T, text string, substring string) {
	t.Helper()
	if !strings.Contains(text, substring) {
		t.Fatalf("expected to find %q in:\n%s", substring, text)
	}
}

func AssertNotContains(t *testing.T, text string, substring string) {
	t.Helper()
	if strings.Contains(text, substring) {
		t.Fatalf("expected not to find %q in:\n%s", substring, text)
	}
}
