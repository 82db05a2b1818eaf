package js_ident

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// These are the words that can never be used as a binding name. Unlike the
// lexer's keyword table these are only used for membership checks.
var Keywords = map[string]bool{
	// Reserved words
	"break":      true,
	"case":       true,
	"catch":      true,
	"class":      true,
	"const":      true,
	"continue":   true,
	"debugger":   true,
	"default":    true,
	"delete":     true,
	"do":         true,
	"else":       true,
	"enum":       true,
	"export":     true,
	"extends":    true,
	"false":      true,
	"finally":    true,
	"for":        true,
	"function":   true,
	"if":         true,
	"import":     true,
	"in":         true,
	"instanceof": true,
	"new":        true,
	"null":       true,
	"return":     true,
	"super":      true,
	"switch":     true,
	"this":       true,
	"throw":      true,
	"true":       true,
	"try":        true,
	"typeof":     true,
	"var":        true,
	"void":       true,
	"while":      true,
	"with":       true,
}

var StrictModeReservedWords = map[string]bool{
	"implements": true,
	"interface":  true,
	"let":        true,
	"package":    true,
	"private":    true,
	"protected":  true,
	"public":     true,
	"static":     true,
	"yield":      true,
}

// Assigning to these is either a syntax error in strict mode or silently
// does nothing, so they are never valid targets for a generated binding.
var restrictedAssignees = map[string]bool{
	"arguments": true,
	"await":     true,
	"eval":      true,
	"undefined": true,
	"NaN":       true,
	"Infinity":  true,
}

// Property names that every plain object already inherits. A generated
// "a.b = a.b || {}" on one of these never creates the intermediate object.
var objectPrototypeMembers = map[string]bool{
	"__defineGetter__":     true,
	"__defineSetter__":     true,
	"__lookupGetter__":     true,
	"__lookupSetter__":     true,
	"__proto__":            true,
	"constructor":          true,
	"hasOwnProperty":       true,
	"isPrototypeOf":        true,
	"propertyIsEnumerable": true,
	"toLocaleString":       true,
	"toString":             true,
	"valueOf":              true,
}

func IsIdentifier(text string) bool {
	if len(text) == 0 {
		return false
	}
	for i, codePoint := range text {
		if i == 0 {
			if !IsIdentifierStart(codePoint) {
				return false
			}
		} else {
			if !IsIdentifierContinue(codePoint) {
				return false
			}
		}
	}
	return true
}

func IsReservedWord(text string) bool {
	return Keywords[text] || StrictModeReservedWords[text]
}

// Reports whether "var <text> = ..." is legal in strict mode code.
func IsValidAssigneeIdentifierName(text string) bool {
	return IsIdentifier(text) && !IsReservedWord(text) && !restrictedAssignees[text]
}

func IsObjectPrototypeMember(text string) bool {
	return objectPrototypeMembers[text]
}

// Reports whether "<object>.<text>" can be used instead of "<object>["<text>"]"
// when building a namespace path.
func CanUseDotAccess(text string) bool {
	return IsValidAssigneeIdentifierName(text) && !IsObjectPrototypeMember(text)
}

// Every character that can't appear in an identifier is replaced with "_".
// Reserved words get a leading "_" so the result can always be declared.
func ForceValidIdentifier(text string) string {
	if IsIdentifier(text) {
		if IsReservedWord(text) || restrictedAssignees[text] {
			return "_" + text
		}
		return text
	}
	if text == "" {
		return "_"
	}
	sb := strings.Builder{}

	// Identifier start
	c, width := utf8.DecodeRuneInString(text)
	text = text[width:]
	if IsIdentifierStart(c) {
		sb.WriteRune(c)
	} else {
		sb.WriteRune('_')
	}

	// Identifier continue
	for text != "" {
		c, width := utf8.DecodeRuneInString(text)
		text = text[width:]
		if IsIdentifierContinue(c) {
			sb.WriteRune(c)
		} else {
			sb.WriteRune('_')
		}
	}

	return sb.String()
}

func IsIdentifierStart(codePoint rune) bool {
	switch codePoint {
	case '_', '$',
		'a', 'b', 'c', 'd', 'e', 'f', 'g', 'h', 'i', 'j', 'k', 'l', 'm',
		'n', 'o', 'p', 'q', 'r', 's', 't', 'u', 'v', 'w', 'x', 'y', 'z',
		'A', 'B', 'C', 'D', 'E', 'F', 'G', 'H', 'I', 'J', 'K', 'L', 'M',
		'N', 'O', 'P', 'Q', 'R', 'S', 'T', 'U', 'V', 'W', 'X', 'Y', 'Z':
		return true
	}

	// All ASCII identifier start code points are listed above
	if codePoint < 0x7F {
		return false
	}

	return unicode.In(codePoint, unicode.L, unicode.Nl, unicode.Other_ID_Start)
}

func IsIdentifierContinue(codePoint rune) bool {
	switch codePoint {
	case '_', '$', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9',
		'a', 'b', 'c', 'd', 'e', 'f', 'g', 'h', 'i', 'j', 'k', 'l', 'm',
		'n', 'o', 'p', 'q', 'r', 's', 't', 'u', 'v', 'w', 'x', 'y', 'z',
		'A', 'B', 'C', 'D', 'E', 'F', 'G', 'H', 'I', 'J', 'K', 'L', 'M',
		'N', 'O', 'P', 'Q', 'R', 'S', 'T', 'U', 'V', 'W', 'X', 'Y', 'Z':
		return true
	}

	// All ASCII identifier continue code points are listed above
	if codePoint < 0x7F {
		return false
	}

	// ZWNJ and ZWJ are allowed in identifiers
	if codePoint == 0x200C || codePoint == 0x200D {
		return true
	}

	return unicode.In(codePoint, unicode.L, unicode.Nl, unicode.Other_ID_Start,
		unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc, unicode.Other_ID_Continue)
}
