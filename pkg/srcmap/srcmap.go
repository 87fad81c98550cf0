// Package srcmap maps positions in an emitted gen/ source file back to the
// original compilation unit that produced it, for downstream static
// analysers reading compiled output. Adapted from the transpiler's source
// map generator: same Source Map v3 JSON shell and go-sourcemap consumer,
// repurposed here for slice/stub provenance instead of Dingo-to-Go lines.
package srcmap

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"go/token"

	"github.com/go-sourcemap/sourcemap"
)

// Generator accumulates position mappings for one emitted gen/ file.
type Generator struct {
	sourceFile string
	genFile    string
	mappings   []Mapping
}

// Mapping is one original-to-generated position pair, optionally naming
// the symbol at that position (a stubbed method/field name, for example).
type Mapping struct {
	SourceLine   int
	SourceColumn int
	GenLine      int
	GenColumn    int
	Name         string
}

// NewGenerator starts a mapping set from sourceFile (the original, possibly
// itself synthetic, compilation unit) to genFile (its emitted path under
// gen/).
func NewGenerator(sourceFile, genFile string) *Generator {
	return &Generator{sourceFile: sourceFile, genFile: genFile}
}

// Add records that src maps to gen.
func (g *Generator) Add(src, gen token.Position) {
	g.mappings = append(g.mappings, Mapping{
		SourceLine: src.Line, SourceColumn: src.Column,
		GenLine: gen.Line, GenColumn: gen.Column,
	})
}

// AddNamed records a mapping and associates a symbol name with it, e.g. a
// stubbed method so later tooling can explain where a synthetic body came
// from.
func (g *Generator) AddNamed(src, gen token.Position, name string) {
	g.mappings = append(g.mappings, Mapping{
		SourceLine: src.Line, SourceColumn: src.Column,
		GenLine: gen.Line, GenColumn: gen.Column, Name: name,
	})
}

// Generate produces a Source Map v3 document.
//
// TODO(mapping-export): mappings is left empty; only the file/sources/names
// header round-trips today. VLQ-encoding g.mappings into the "mappings"
// field is the only piece missing for a fully queryable consumer.
func (g *Generator) Generate() ([]byte, error) {
	sm := struct {
		Version    int      `json:"version"`
		File       string   `json:"file"`
		SourceRoot string   `json:"sourceRoot"`
		Sources    []string `json:"sources"`
		Names      []string `json:"names"`
		Mappings   string   `json:"mappings"`
	}{
		Version: 3,
		File:    g.genFile,
		Sources: []string{g.sourceFile},
		Names:   g.collectNames(),
	}
	data, err := json.MarshalIndent(sm, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("srcmap: marshal: %w", err)
	}
	return data, nil
}

// GenerateInline returns the Generate() output as a base64 inline comment
// suitable for appending to the emitted source file.
func (g *Generator) GenerateInline() (string, error) {
	data, err := g.Generate()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("//# sourceMappingURL=data:application/json;base64,%s",
		base64.StdEncoding.EncodeToString(data)), nil
}

func (g *Generator) collectNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, m := range g.mappings {
		if m.Name != "" && !seen[m.Name] {
			seen[m.Name] = true
			names = append(names, m.Name)
		}
	}
	return names
}

// Consumer resolves a generated position back to its original one.
type Consumer struct {
	sm *sourcemap.Consumer
}

// NewConsumer parses a Source Map v3 document.
func NewConsumer(data []byte) (*Consumer, error) {
	sm, err := sourcemap.Parse("", data)
	if err != nil {
		return nil, fmt.Errorf("srcmap: parse: %w", err)
	}
	return &Consumer{sm: sm}, nil
}

// Source resolves the original position for a 1-based generated line/column.
func (c *Consumer) Source(line, column int) (*token.Position, error) {
	file, _, line, col, ok := c.sm.Source(line-1, column-1)
	if !ok {
		return nil, fmt.Errorf("srcmap: no mapping for %d:%d", line, column)
	}
	return &token.Position{Filename: file, Line: line + 1, Column: col + 1}, nil
}
