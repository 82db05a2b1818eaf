package helpers

import (
	"strings"
	"unicode/utf8"
)

// Every string literal in generated code goes through here: require paths,
// export names in brackets, AMD dependency ids. Escapes are the ones any
// JavaScript engine accepts, so the output never depends on the format.

// Double-quoted JavaScript string literal
func QuoteString(text string) string {
	return quote(text, '"')
}

// Single-quoted JavaScript string literal, as used for relative chunk paths
// and AMD dependency arrays
func QuoteSingleString(text string) string {
	return quote(text, '\'')
}

// "a", "b", "c"
func StringArrayToQuotedCommaSeparatedString(a []string) string {
	quoted := make([]string, len(a))
	for i, str := range a {
		quoted[i] = QuoteString(str)
	}
	return strings.Join(quoted, ", ")
}

var shortEscapes = map[rune]string{
	'\b': `\b`,
	'\f': `\f`,
	'\n': `\n`,
	'\r': `\r`,
	'\t': `\t`,
	'\v': `\v`,
	'\\': `\\`,
}

func quote(text string, quoteChar rune) string {
	sb := strings.Builder{}
	sb.Grow(len(text) + 2)
	sb.WriteRune(quoteChar)

	for i, c := range text {
		if c == utf8.RuneError {
			if _, width := utf8.DecodeRuneInString(text[i:]); width == 1 {
				// Invalid UTF-8 can't appear in a JavaScript string as-is
				writeUnicodeEscape(&sb, rune(text[i]))
				continue
			}
		}

		switch {
		case c == quoteChar:
			sb.WriteByte('\\')
			sb.WriteRune(c)
		case shortEscapes[c] != "":
			sb.WriteString(shortEscapes[c])
		case c < 0x20, c == 0x7F:
			writeUnicodeEscape(&sb, c)

		// Line and paragraph separators end a line in older engines, a byte
		// order mark is dropped by some loaders, and lone surrogates only come
		// from broken input
		case c == '\u2028', c == '\u2029', c == '\uFEFF', c >= 0xD800 && c <= 0xDFFF:
			writeUnicodeEscape(&sb, c)

		default:
			sb.WriteRune(c)
		}
	}

	sb.WriteRune(quoteChar)
	return sb.String()
}

func writeUnicodeEscape(sb *strings.Builder, c rune) {
	const hex = "0123456789ABCDEF"
	sb.WriteString(`\u`)
	for shift := 12; shift >= 0; shift -= 4 {
		sb.WriteByte(hex[(c>>shift)&15])
	}
}
