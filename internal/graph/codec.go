package graph

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/heartmarshall/wordgraph/internal/domain"
)

// FormatVersion is written to every encoded document.
const FormatVersion = 1

// Format is a textual exchange format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the format by file extension; YAML is the default.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

type document struct {
	Version int       `json:"version" yaml:"version"`
	Nodes   []nodeDoc `json:"nodes"   yaml:"nodes"`
	Edges   []edgeDoc `json:"edges"   yaml:"edges"`
}

type keyDoc struct {
	Lemma string `json:"lemma" yaml:"lemma"`
	POS   string `json:"pos"   yaml:"pos"`
}

type nodeDoc struct {
	Lemma       string   `json:"lemma"                 yaml:"lemma"`
	POS         string   `json:"pos"                   yaml:"pos"`
	Depth       int      `json:"depth"                 yaml:"depth"`
	Definitions []string `json:"definitions,omitempty" yaml:"definitions,omitempty"`
}

type edgeDoc struct {
	Source          keyDoc `json:"source"           yaml:"source"`
	Target          keyDoc `json:"target"           yaml:"target"`
	DefinitionIndex int    `json:"definition_index" yaml:"definition_index"`
	POS             string `json:"pos"              yaml:"pos"`
}

func toDocument(g *Graph) document {
	doc := document{
		Version: FormatVersion,
		Nodes:   make([]nodeDoc, 0, g.NodeCount()),
		Edges:   make([]edgeDoc, 0, g.EdgeCount()),
	}
	for _, k := range g.order {
		n := g.nodes[k]
		doc.Nodes = append(doc.Nodes, nodeDoc{
			Lemma:       k.Lemma,
			POS:         string(k.POS),
			Depth:       n.Depth,
			Definitions: n.Definitions,
		})
	}
	for _, e := range g.edgeSeq {
		doc.Edges = append(doc.Edges, edgeDoc{
			Source:          keyDoc{Lemma: e.Source.Lemma, POS: string(e.Source.POS)},
			Target:          keyDoc{Lemma: e.Target.Lemma, POS: string(e.Target.POS)},
			DefinitionIndex: e.DefinitionIndex,
			POS:             string(e.POS),
		})
	}
	return doc
}

// Encode writes g to w in the given format.
func Encode(w io.Writer, g *Graph, format Format) error {
	doc := toDocument(g)
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
	default:
		return fmt.Errorf("unknown format %q: %w", format, domain.ErrValidation)
	}
	return nil
}

// Decode reads a graph from r. The document is validated in full before a
// graph is returned; on any violation the error wraps domain.ErrSerialization
// and no graph is returned. The result is frozen.
func Decode(r io.Reader, format Format) (*Graph, error) {
	var doc document
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode json: %v: %w", err, domain.ErrSerialization)
		}
		if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode json: trailing data after document: %w", domain.ErrSerialization)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode yaml: %v: %w", err, domain.ErrSerialization)
		}
		var extra yaml.Node
		if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode yaml: more than one document: %w", domain.ErrSerialization)
		}
	default:
		return nil, fmt.Errorf("unknown format %q: %w", format, domain.ErrSerialization)
	}

	g, err := fromDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return g, nil
}

func fromDocument(doc document) (*Graph, error) {
	if doc.Version != FormatVersion {
		return nil, serializationError("unsupported version %d", doc.Version)
	}

	g := New()
	for i, nd := range doc.Nodes {
		key, err := docKey(nd.Lemma, nd.POS)
		if err != nil {
			return nil, serializationError("node %d: %v", i, err)
		}
		if nd.Depth < 0 {
			return nil, serializationError("node %s: negative depth %d", key, nd.Depth)
		}
		if g.Has(key) {
			return nil, serializationError("node %s: duplicate key", key)
		}
		if _, err := g.AddNode(key, nd.Definitions, nd.Depth); err != nil {
			return nil, serializationError("node %s: %v", key, err)
		}
	}

	for i, ed := range doc.Edges {
		src, err := docKey(ed.Source.Lemma, ed.Source.POS)
		if err != nil {
			return nil, serializationError("edge %d source: %v", i, err)
		}
		dst, err := docKey(ed.Target.Lemma, ed.Target.POS)
		if err != nil {
			return nil, serializationError("edge %d target: %v", i, err)
		}
		if ed.DefinitionIndex < 0 {
			return nil, serializationError("edge %s -> %s: negative definition index", src, dst)
		}
		pos := domain.PartOfSpeech(ed.POS)
		if ed.POS != "" && !pos.IsValid() {
			return nil, serializationError("edge %s -> %s: unknown part of speech %q", src, dst, ed.POS)
		}
		if g.HasEdge(src, dst) {
			return nil, serializationError("edge %s -> %s: duplicate", src, dst)
		}
		if _, err := g.AddEdge(Edge{Source: src, Target: dst, DefinitionIndex: ed.DefinitionIndex, POS: pos}); err != nil {
			return nil, serializationError("edge %s -> %s: %v", src, dst, err)
		}
	}

	g.Freeze()
	return g, nil
}

// docKey validates a stored key. Stored lemmas are already normalized, so a
// lemma that changes under normalization is rejected.
func docKey(lemma, pos string) (Key, error) {
	if lemma == "" {
		return Key{}, fmt.Errorf("empty lemma")
	}
	if domain.NormalizeText(lemma) != lemma {
		return Key{}, fmt.Errorf("lemma %q is not normalized", lemma)
	}
	p := domain.PartOfSpeech(pos)
	if !p.IsContent() {
		return Key{}, fmt.Errorf("lemma %q: unknown part of speech %q", lemma, pos)
	}
	return Key{Lemma: lemma, POS: p}, nil
}

func serializationError(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), domain.ErrSerialization)
}

// WriteFile encodes g into path, choosing the format by extension. The file
// is written to a temporary sibling first and renamed into place.
func WriteFile(path string, g *Graph) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Encode(tmp, g, FormatFromPath(path)); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename into %s: %w", path, err)
	}
	return nil
}

// ReadFile decodes the graph stored at path.
func ReadFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open graph file: %w", err)
	}
	defer f.Close()

	return Decode(f, FormatFromPath(path))
}
