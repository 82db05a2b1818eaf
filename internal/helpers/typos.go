package helpers

import (
	"strings"
	"unicode/utf8"
)

// Suggests the known name a misspelled option most likely meant. Only one
// edit counts as a typo: a rune inserted, deleted or replaced, or two
// neighboring runes swapped. Names of three runes or fewer are too easy to
// confuse with each other and are never suggested.
type TypoDetector struct {
	candidates []string
}

func MakeTypoDetector(valid []string) TypoDetector {
	detector := TypoDetector{}
	for _, name := range valid {
		if utf8.RuneCountInString(name) > 3 {
			detector.candidates = append(detector.candidates, name)
		}
	}
	return detector
}

// The first candidate in the original order wins a tie
func (detector TypoDetector) MaybeCorrectTypo(typo string) (string, bool) {
	typo = strings.ToLower(typo)
	for _, name := range detector.candidates {
		if editDistanceAtMostOne(typo, name) {
			return name, true
		}
	}
	return "", false
}

func editDistanceAtMostOne(a string, b string) bool {
	ra, rb := []rune(a), []rune(b)
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}
	if len(rb)-len(ra) > 1 {
		return false
	}

	// Skip the common prefix and suffix, then whatever is left in the middle
	// must be a single edit
	start := 0
	for start < len(ra) && ra[start] == rb[start] {
		start++
	}
	endA, endB := len(ra), len(rb)
	for endA > start && ra[endA-1] == rb[endB-1] {
		endA--
		endB--
	}
	restA, restB := ra[start:endA], rb[start:endB]

	switch {
	case len(restB) <= 1:
		return len(restA) <= 1
	case len(restA) == 2 && len(restB) == 2:
		return restA[0] == restB[1] && restA[1] == restB[0]
	}
	return false
}
