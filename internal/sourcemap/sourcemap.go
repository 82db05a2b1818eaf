package sourcemap

import (
	"bytes"
	"fmt"

	"fortio.org/safecast"

	"github.com/jsemit/chunkgen/internal/ast"
)

type Mapping struct {
	GeneratedLine   int32 // 0-based
	GeneratedColumn int32 // 0-based count of UTF-16 code units

	SourceIndex    int32       // 0-based
	OriginalLine   int32       // 0-based
	OriginalColumn int32       // 0-based count of UTF-16 code units
	OriginalName   ast.Index32 // 0-based, optional
}

type SourceMap struct {
	File           string
	Sources        []string
	SourcesContent []SourceContent
	Mappings       []Mapping
	Names          []string
}

type SourceContent struct {
	Value string

	// A source without content is serialized as "null"
	Present bool
}

func (sm *SourceMap) GetSources() []string {
	return sm.Sources
}

// Replaces the list of source paths. The new list must line up with the old
// one since mappings refer to sources by index.
func (sm *SourceMap) SetSources(sources []string) {
	if len(sources) != len(sm.Sources) {
		panic(fmt.Sprintf("Internal error: expected %d sources but got %d", len(sm.Sources), len(sources)))
	}
	sm.Sources = sources
}

var base64 = []byte("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/")

// A single base 64 digit can contain 6 bits of data. For the base 64 variable
// length quantities used by source maps, the first bit is the sign,
// the next four bits are the actual value, and the 6th bit is the continuation
// bit. The continuation bit tells us whether there are more digits in this
// value following this digit.
//
//	Continuation
//	|    Sign
//	|    |
//	V    V
//	101011
func encodeVLQ(encoded []byte, value int) []byte {
	var vlq int
	if value < 0 {
		vlq = ((-value) << 1) | 1
	} else {
		vlq = value << 1
	}

	// Handle the common case
	if (vlq >> 5) == 0 {
		digit := vlq & 31
		encoded = append(encoded, base64[digit])
		return encoded
	}

	for {
		digit := vlq & 31
		vlq >>= 5

		// If there are still more digits in this value, we must make sure the
		// continuation bit is marked
		if vlq != 0 {
			digit |= 32
		}

		encoded = append(encoded, base64[digit])

		if vlq == 0 {
			break
		}
	}

	return encoded
}

// Returns the decoded value and the index after it. The boolean is false if
// the input ended in the middle of a value or contained a non-base64 byte.
func DecodeVLQ(encoded []byte, start int) (int, int, bool) {
	shift := 0
	vlq := 0

	// Scan over the input
	for {
		if start >= len(encoded) {
			return 0, start, false
		}
		index := bytes.IndexByte(base64, encoded[start])
		if index < 0 {
			return 0, start, false
		}

		// Decode a single byte
		vlq |= (index & 31) << shift
		start++
		shift += 5

		// Stop if there's no continuation bit
		if (index & 32) == 0 {
			break
		}
	}

	// Recover the value
	value := vlq >> 1
	if (vlq & 1) != 0 {
		value = -value
	}
	return value, start, true
}

// Serializes the mappings into the "mappings" field of a version 3 source map.
// Mappings must be sorted by generated position, which is always the case for
// maps produced by concatenation.
func (sm *SourceMap) EncodeMappings() []byte {
	var encoded []byte
	var prevLine int32
	var prevColumn, prevSource, prevOriginalLine, prevOriginalColumn, prevName int
	needComma := false

	for _, m := range sm.Mappings {
		// Handle line breaks in between this mapping and the previous one
		if m.GeneratedLine > prevLine {
			encoded = append(encoded, bytes.Repeat([]byte{';'}, int(m.GeneratedLine-prevLine))...)
			prevLine = m.GeneratedLine
			prevColumn = 0
			needComma = false
		}
		if needComma {
			encoded = append(encoded, ',')
		}

		encoded = encodeVLQ(encoded, int(m.GeneratedColumn)-prevColumn)
		prevColumn = int(m.GeneratedColumn)
		encoded = encodeVLQ(encoded, int(m.SourceIndex)-prevSource)
		prevSource = int(m.SourceIndex)
		encoded = encodeVLQ(encoded, int(m.OriginalLine)-prevOriginalLine)
		prevOriginalLine = int(m.OriginalLine)
		encoded = encodeVLQ(encoded, int(m.OriginalColumn)-prevOriginalColumn)
		prevOriginalColumn = int(m.OriginalColumn)
		if m.OriginalName.IsValid() {
			name := int(m.OriginalName.GetIndex())
			encoded = encodeVLQ(encoded, name-prevName)
			prevName = name
		}
		needComma = true
	}

	return encoded
}

// The inverse of "EncodeMappings". Segments without an original position
// carry no information we can use and are dropped.
func DecodeMappings(encoded []byte) ([]Mapping, error) {
	var mappings []Mapping
	var generatedLine int32
	var generatedColumn, sourceIndex, originalLine, originalColumn, originalName int
	current := 0

	for current < len(encoded) {
		switch encoded[current] {
		case ';':
			generatedLine++
			generatedColumn = 0
			current++
			continue
		case ',':
			current++
			continue
		}

		var fields [5]int
		count := 0
		for count < 5 && current < len(encoded) && encoded[current] != ',' && encoded[current] != ';' {
			value, next, ok := DecodeVLQ(encoded, current)
			if !ok {
				return nil, fmt.Errorf("invalid VLQ data at offset %d", current)
			}
			fields[count] = value
			count++
			current = next
		}

		switch count {
		case 1:
			generatedColumn += fields[0]
		case 4, 5:
			generatedColumn += fields[0]
			sourceIndex += fields[1]
			originalLine += fields[2]
			originalColumn += fields[3]
			var mapping Mapping
			var err error
			mapping.GeneratedLine = generatedLine
			if mapping.GeneratedColumn, err = safecast.Conv[int32](generatedColumn); err != nil {
				return nil, fmt.Errorf("generated column out of range at offset %d: %w", current, err)
			}
			if mapping.SourceIndex, err = safecast.Conv[int32](sourceIndex); err != nil {
				return nil, fmt.Errorf("source index out of range at offset %d: %w", current, err)
			}
			if mapping.OriginalLine, err = safecast.Conv[int32](originalLine); err != nil {
				return nil, fmt.Errorf("original line out of range at offset %d: %w", current, err)
			}
			if mapping.OriginalColumn, err = safecast.Conv[int32](originalColumn); err != nil {
				return nil, fmt.Errorf("original column out of range at offset %d: %w", current, err)
			}
			if count == 5 {
				originalName += fields[4]
				name, err := safecast.Conv[uint32](originalName)
				if err != nil {
					return nil, fmt.Errorf("name index out of range at offset %d: %w", current, err)
				}
				mapping.OriginalName = ast.MakeIndex32(name)
			}
			mappings = append(mappings, mapping)
		default:
			return nil, fmt.Errorf("invalid segment with %d fields ending at offset %d", count, current)
		}
	}

	return mappings, nil
}

// Counts line breaks the way mapping positions count them: "\r\n" is a
// single break and so are U+2028 and U+2029
func lineCount(text string) int {
	lines := 0
	for i, c := range text {
		switch c {
		case '\n', '\u2028', '\u2029':
			lines++
		case '\r':
			if i+1 == len(text) || text[i+1] != '\n' {
				lines++
			}
		}
	}
	return lines
}
