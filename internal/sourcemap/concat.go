package sourcemap

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"github.com/jsemit/chunkgen/internal/ast"
)

// A fragment of emitted code. Fragments without a source map (generated glue
// such as wrapper headers and export statements) are plain "RawSource" values.
type Source interface {
	Content() string
	SourceMap() *SourceMap
}

type RawSource string

func (s RawSource) Content() string      { return string(s) }
func (RawSource) SourceMap() *SourceMap { return nil }

// Code paired with a map whose generated positions are relative to the start
// of "Code".
type MappedSource struct {
	Code string
	Map  *SourceMap
}

func (s *MappedSource) Content() string       { return s.Code }
func (s *MappedSource) SourceMap() *SourceMap { return s.Map }

// This joins fragments in the order they were added, separated by newlines.
// The order is the emission order of the chunk and is never changed here.
type ConcatSource struct {
	sources []Source
	length  int
}

func (c *ConcatSource) AddSource(source Source) {
	c.sources = append(c.sources, source)
	c.length += len(source.Content())
}

func (c *ConcatSource) AddRaw(text string) {
	c.AddSource(RawSource(text))
}

// Empty addon text (no banner, no intro, ...) doesn't produce a blank line
func (c *ConcatSource) AddOptionalRaw(text string) {
	if text != "" {
		c.AddRaw(text)
	}
}

func (c *ConcatSource) Sources() []Source {
	return c.sources
}

func (c *ConcatSource) Content() string {
	content, _, _ := c.join(false)
	return content
}

// Returns the joined text and, if any fragment carried a map, a single map for
// the whole text with every fragment's mappings shifted to its final line.
func (c *ConcatSource) ContentAndSourceMap() (string, *SourceMap, error) {
	return c.join(true)
}

func (c *ConcatSource) join(withMap bool) (string, *SourceMap, error) {
	sb := strings.Builder{}
	if n := len(c.sources); n > 0 {
		sb.Grow(c.length + n - 1)
	}

	var merged *SourceMap
	sourceIndices := make(map[string]int32)
	nameIndices := make(map[string]uint32)
	lineOffset := 0

	for i, source := range c.sources {
		if i > 0 {
			sb.WriteByte('\n')
			lineOffset++
		}
		content := source.Content()
		sb.WriteString(content)

		if withMap {
			if sm := source.SourceMap(); sm != nil {
				if merged == nil {
					merged = &SourceMap{}
				}
				shift, err := safecast.Conv[int32](lineOffset)
				if err != nil {
					return "", nil, fmt.Errorf("source map line offset out of range: %w", err)
				}
				if err := merged.appendShifted(sm, shift, sourceIndices, nameIndices); err != nil {
					return "", nil, err
				}
			}
		}

		lineOffset += lineCount(content)
	}

	// Drop the content list if no fragment provided any content
	if merged != nil {
		hasContent := false
		for _, content := range merged.SourcesContent {
			if content.Present {
				hasContent = true
				break
			}
		}
		if !hasContent {
			merged.SourcesContent = nil
		}
	}

	return sb.String(), merged, nil
}

func (merged *SourceMap) appendShifted(sm *SourceMap, lineShift int32, sourceIndices map[string]int32, nameIndices map[string]uint32) error {
	// Translate this fragment's source indices into the merged list
	sourceRemap := make([]int32, len(sm.Sources))
	for i, path := range sm.Sources {
		index, ok := sourceIndices[path]
		if !ok {
			next, err := safecast.Conv[int32](len(merged.Sources))
			if err != nil {
				return fmt.Errorf("too many sources in source map: %w", err)
			}
			index = next
			sourceIndices[path] = index
			merged.Sources = append(merged.Sources, path)
			merged.SourcesContent = append(merged.SourcesContent, SourceContent{})
		}
		if i < len(sm.SourcesContent) && sm.SourcesContent[i].Present {
			merged.SourcesContent[index] = sm.SourcesContent[i]
		}
		sourceRemap[i] = index
	}

	// Same for names
	nameRemap := make([]uint32, len(sm.Names))
	for i, name := range sm.Names {
		index, ok := nameIndices[name]
		if !ok {
			next, err := safecast.Conv[uint32](len(merged.Names))
			if err != nil {
				return fmt.Errorf("too many names in source map: %w", err)
			}
			index = next
			nameIndices[name] = index
			merged.Names = append(merged.Names, name)
		}
		nameRemap[i] = index
	}

	for _, m := range sm.Mappings {
		m.GeneratedLine += lineShift
		m.SourceIndex = sourceRemap[m.SourceIndex]
		if m.OriginalName.IsValid() {
			m.OriginalName = ast.MakeIndex32(nameRemap[m.OriginalName.GetIndex()])
		}
		merged.Mappings = append(merged.Mappings, m)
	}

	return nil
}
