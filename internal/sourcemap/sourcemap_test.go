package sourcemap

import (
	"math"
	"testing"

	"github.com/jsemit/chunkgen/internal/ast"
	"github.com/jsemit/chunkgen/internal/test"
)

func TestVLQ(t *testing.T) {
	for _, value := range []int{0, 1, -1, 15, 16, -16, 123456, -987654} {
		encoded := encodeVLQ(nil, value)
		decoded, end, ok := DecodeVLQ(encoded, 0)
		test.AssertEqual(t, ok, true)
		test.AssertEqual(t, end, len(encoded))
		test.AssertEqual(t, decoded, value)
	}

	_, _, ok := DecodeVLQ([]byte("g"), 0)
	test.AssertEqual(t, ok, false)
}

func TestEncodeMappings(t *testing.T) {
	sm := SourceMap{
		Sources: []string{"a.js"},
		Names:   []string{"foo"},
		Mappings: []Mapping{
			{GeneratedLine: 0, GeneratedColumn: 0, SourceIndex: 0, OriginalLine: 0, OriginalColumn: 0},
			{GeneratedLine: 0, GeneratedColumn: 4, SourceIndex: 0, OriginalLine: 0, OriginalColumn: 4, OriginalName: ast.MakeIndex32(0)},
			{GeneratedLine: 2, GeneratedColumn: 2, SourceIndex: 0, OriginalLine: 1, OriginalColumn: 0},
		},
	}
	test.AssertEqual(t, string(sm.EncodeMappings()), "AAAA,IAAIA;;EACJ")

	decoded, err := DecodeMappings(sm.EncodeMappings())
	test.AssertEqual(t, err, nil)
	test.AssertEqual(t, len(decoded), 3)
	for i := range decoded {
		test.AssertEqual(t, decoded[i], sm.Mappings[i])
	}
}

func TestDecodeMappingsOutOfRange(t *testing.T) {
	_, err := DecodeMappings(append(encodeVLQ(nil, math.MaxInt32+1), "AAA"...))
	if err == nil {
		t.Fatal("expected an error for a column past the int32 range")
	}
	test.AssertContains(t, err.Error(), "generated column out of range")

	_, err = DecodeMappings([]byte("AAAAD"))
	if err == nil {
		t.Fatal("expected an error for a negative name index")
	}
	test.AssertContains(t, err.Error(), "name index out of range")

	// Large values that still fit decode normally
	decoded, err := DecodeMappings(append(encodeVLQ(nil, math.MaxInt32), "AAA"...))
	test.AssertEqual(t, err, nil)
	test.AssertEqual(t, decoded[0].GeneratedColumn, int32(math.MaxInt32))
}

func TestLineCount(t *testing.T) {
	test.AssertEqual(t, lineCount(""), 0)
	test.AssertEqual(t, lineCount("a\nb\n"), 2)
	test.AssertEqual(t, lineCount("a\r\nb\rc"), 2)
	test.AssertEqual(t, lineCount("a\u2028b\u2029"), 2)
}

func TestJSONRoundTrip(t *testing.T) {
	sm := &SourceMap{
		File:           "main.js",
		Sources:        []string{"src/a.js", "src/b.js"},
		SourcesContent: []SourceContent{{Value: "let a = 1", Present: true}, {}},
		Names:          []string{},
		Mappings:       []Mapping{{GeneratedLine: 1, SourceIndex: 1, OriginalLine: 2}},
	}
	data, err := sm.ToJSON()
	test.AssertEqual(t, err, nil)
	test.AssertEqual(t, string(data),
		`{"version":3,"file":"main.js","sources":["src/a.js","src/b.js"],"sourcesContent":["let a = 1",null],"names":[],"mappings":";ACEA"}`)

	parsed, err := ParseJSON(data)
	test.AssertEqual(t, err, nil)
	test.AssertEqual(t, parsed.Sources[1], "src/b.js")
	test.AssertEqual(t, parsed.SourcesContent[1].Present, false)
	test.AssertEqual(t, parsed.Mappings[0], sm.Mappings[0])

	_, err = ParseJSON([]byte(`{"version":3,"sources":[],"names":[],"mappings":"AAAA"}`))
	if err == nil {
		t.Fatal("expected an out-of-range source index to be rejected")
	}
}
