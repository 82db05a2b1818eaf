package sourcemap

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// This is the standard version 3 source map shape. It is only used at the
// edges: maps are built and merged as "SourceMap" values and serialized once.
type jsonSourceMap struct {
	Version        int       `json:"version"`
	File           string    `json:"file,omitempty"`
	Sources        []string  `json:"sources"`
	SourcesContent []*string `json:"sourcesContent,omitempty"`
	Names          []string  `json:"names"`
	Mappings       string    `json:"mappings"`
}

func (sm *SourceMap) ToJSON() ([]byte, error) {
	out := jsonSourceMap{
		Version:  3,
		File:     sm.File,
		Sources:  sm.Sources,
		Names:    sm.Names,
		Mappings: string(sm.EncodeMappings()),
	}
	if out.Sources == nil {
		out.Sources = []string{}
	}
	if out.Names == nil {
		out.Names = []string{}
	}
	if len(sm.SourcesContent) > 0 {
		out.SourcesContent = make([]*string, len(sm.SourcesContent))
		for i := range sm.SourcesContent {
			if content := &sm.SourcesContent[i]; content.Present {
				out.SourcesContent[i] = &content.Value
			}
		}
	}

	buffer := bytes.Buffer{}
	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(out); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buffer.Bytes(), []byte("\n")), nil
}

func ParseJSON(data []byte) (*SourceMap, error) {
	var in jsonSourceMap
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("invalid source map: %w", err)
	}
	if in.Version != 3 {
		return nil, fmt.Errorf("unsupported source map version %d", in.Version)
	}
	mappings, err := DecodeMappings([]byte(in.Mappings))
	if err != nil {
		return nil, fmt.Errorf("invalid source map mappings: %w", err)
	}

	sm := &SourceMap{
		File:     in.File,
		Sources:  in.Sources,
		Names:    in.Names,
		Mappings: mappings,
	}
	if len(in.SourcesContent) > 0 {
		sm.SourcesContent = make([]SourceContent, len(in.SourcesContent))
		for i, content := range in.SourcesContent {
			if content != nil {
				sm.SourcesContent[i] = SourceContent{Value: *content, Present: true}
			}
		}
	}

	for _, m := range mappings {
		if m.SourceIndex < 0 || int(m.SourceIndex) >= len(sm.Sources) {
			return nil, fmt.Errorf("invalid source map: source index %d is out of range", m.SourceIndex)
		}
		if m.OriginalName.IsValid() && int(m.OriginalName.GetIndex()) >= len(sm.Names) {
			return nil, fmt.Errorf("invalid source map: name index %d is out of range", m.OriginalName.GetIndex())
		}
	}
	return sm, nil
}
