package helpers

import (
	"encoding/base64"
	"strings"
	"unicode/utf8"
)

// Inline source maps are written as "data:" URLs. This picks whichever of
// the base64 and percent-escaped forms comes out shorter.
func EncodeStringAsShortestDataURL(mimeType string, text string) string {
	url := "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString([]byte(text))
	if escaped, ok := EncodeStringAsPercentEscapedDataURL(mimeType, text); ok && len(escaped) < len(url) {
		return escaped
	}
	return url
}

// Only a few characters need escaping in a data URL: tabs and line breaks
// (browsers strip them), "#" (it starts the fragment), a "%" that would read
// as an escape, and trailing whitespace or control characters (browsers trim
// them). Invalid UTF-8 can't be represented and returns false.
func EncodeStringAsPercentEscapedDataURL(mimeType string, text string) (string, bool) {
	if !utf8.ValidString(text) {
		return "", false
	}

	const hex = "0123456789ABCDEF"
	trailingStart := len(strings.TrimRightFunc(text, isTrimmedFromDataURL))
	sb := strings.Builder{}
	sb.Grow(len("data:,") + len(mimeType) + len(text))
	sb.WriteString("data:")
	sb.WriteString(mimeType)
	sb.WriteByte(',')

	for i := 0; i < len(text); i++ {
		c := text[i]
		if i >= trailingStart || mustEscapeInDataURL(text, i) {
			sb.WriteByte('%')
			sb.WriteByte(hex[c>>4])
			sb.WriteByte(hex[c&15])
		} else {
			sb.WriteByte(c)
		}
	}

	return sb.String(), true
}

func isTrimmedFromDataURL(r rune) bool {
	return r <= 0x20 && r != '\t' && r != '\n' && r != '\r'
}

func mustEscapeInDataURL(text string, i int) bool {
	switch text[i] {
	case '\t', '\n', '\r', '#':
		return true
	case '%':
		return i+2 < len(text) && isHex(text[i+1]) && isHex(text[i+2])
	}
	return false
}

func isHex(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}
