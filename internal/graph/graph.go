// Package graph holds the semantic word graph: sense nodes keyed by
// (lemma, part of speech) joined by directed "defined using" edges.
package graph

import (
	"fmt"
	"slices"
	"strings"

	"github.com/heartmarshall/wordgraph/internal/domain"
)

// Key identifies a node: one sense of a word.
type Key struct {
	Lemma string              `json:"lemma" yaml:"lemma"`
	POS   domain.PartOfSpeech `json:"pos"   yaml:"pos"`
}

// NewKey builds a Key with a normalized lemma.
func NewKey(lemma string, pos domain.PartOfSpeech) Key {
	return Key{Lemma: domain.NormalizeText(lemma), POS: pos}
}

// String renders the key as "lemma/pos", e.g. "ease/noun".
func (k Key) String() string {
	return k.Lemma + "/" + strings.ToLower(string(k.POS))
}

// ParseKey is the inverse of Key.String. The "/pos" suffix is required.
func ParseKey(s string) (Key, error) {
	i := strings.LastIndexByte(s, '/')
	if i <= 0 || i == len(s)-1 {
		return Key{}, fmt.Errorf("key %q: want lemma/pos: %w", s, domain.ErrValidation)
	}
	pos := domain.ParsePartOfSpeech(s[i+1:])
	if !pos.IsContent() {
		return Key{}, fmt.Errorf("key %q: unknown part of speech: %w", s, domain.ErrValidation)
	}
	return NewKey(s[:i], pos), nil
}

// Node is one sense of a word. Definitions are attached when the node is
// created and never change afterwards.
type Node struct {
	Key         Key
	Definitions []string
	// Depth is the minimum number of hops from the seed.
	Depth int
}

// Edge records that Target appears in definition DefinitionIndex of Source.
type Edge struct {
	Source          Key
	Target          Key
	DefinitionIndex int
	// POS is the part of speech of the definition the target was found in.
	POS domain.PartOfSpeech
}

type edgeKey struct{ from, to Key }

// Graph is append-only while it is being built and read-only once frozen.
// A frozen graph is safe for concurrent readers; an unfrozen one is not
// safe for concurrent use.
type Graph struct {
	nodes   map[Key]*Node
	order   []Key
	out     map[Key][]Key
	in      map[Key][]Key
	edges   map[edgeKey]int
	edgeSeq []Edge
	byLemma map[string][]Key
	frozen  bool
}

// New returns an empty, mutable graph.
func New() *Graph {
	return &Graph{
		nodes:   make(map[Key]*Node),
		out:     make(map[Key][]Key),
		in:      make(map[Key][]Key),
		edges:   make(map[edgeKey]int),
		byLemma: make(map[string][]Key),
	}
}

// AddNode inserts a node, or lowers the depth of an existing one. It reports
// whether the node was created. Definitions of an existing node are kept.
func (g *Graph) AddNode(key Key, definitions []string, depth int) (bool, error) {
	if g.frozen {
		return false, domain.ErrGraphFrozen
	}
	if key.Lemma == "" {
		return false, fmt.Errorf("add node: empty lemma: %w", domain.ErrValidation)
	}
	if depth < 0 {
		return false, fmt.Errorf("add node %s: negative depth %d: %w", key, depth, domain.ErrValidation)
	}

	if n, ok := g.nodes[key]; ok {
		n.Depth = min(n.Depth, depth)
		return false, nil
	}

	g.nodes[key] = &Node{Key: key, Definitions: slices.Clone(definitions), Depth: depth}
	g.order = append(g.order, key)
	g.byLemma[key.Lemma] = append(g.byLemma[key.Lemma], key)
	return true, nil
}

// AddEdge inserts a directed edge. Both endpoints must exist. It reports
// whether the edge was new; a duplicate keeps its first provenance.
func (g *Graph) AddEdge(e Edge) (bool, error) {
	if g.frozen {
		return false, domain.ErrGraphFrozen
	}
	if e.Source == e.Target {
		return false, fmt.Errorf("add edge %s: self-loop: %w", e.Source, domain.ErrValidation)
	}
	if _, ok := g.nodes[e.Source]; !ok {
		return false, fmt.Errorf("add edge source %s: %w", e.Source, domain.ErrNodeNotFound)
	}
	if _, ok := g.nodes[e.Target]; !ok {
		return false, fmt.Errorf("add edge target %s: %w", e.Target, domain.ErrNodeNotFound)
	}

	ek := edgeKey{e.Source, e.Target}
	if _, ok := g.edges[ek]; ok {
		return false, nil
	}
	g.edges[ek] = len(g.edgeSeq)
	g.edgeSeq = append(g.edgeSeq, e)
	g.out[e.Source] = append(g.out[e.Source], e.Target)
	g.in[e.Target] = append(g.in[e.Target], e.Source)
	return true, nil
}

// Freeze makes the graph read-only. It is idempotent.
func (g *Graph) Freeze() { g.frozen = true }

// Frozen reports whether Freeze has been called.
func (g *Graph) Frozen() bool { return g.frozen }

// Node returns a copy of the node with the given key.
func (g *Graph) Node(key Key) (Node, bool) {
	n, ok := g.nodes[key]
	if !ok {
		return Node{}, false
	}
	return Node{Key: n.Key, Definitions: slices.Clone(n.Definitions), Depth: n.Depth}, true
}

// Has reports whether key is a node of g.
func (g *Graph) Has(key Key) bool {
	_, ok := g.nodes[key]
	return ok
}

// Neighbors returns the targets of key's outgoing edges in insertion order.
func (g *Graph) Neighbors(key Key) []Key { return slices.Clone(g.out[key]) }

// Predecessors returns the sources of key's incoming edges in insertion order.
func (g *Graph) Predecessors(key Key) []Key { return slices.Clone(g.in[key]) }

// HasEdge reports whether the directed edge a -> b exists.
func (g *Graph) HasEdge(a, b Key) bool {
	_, ok := g.edges[edgeKey{a, b}]
	return ok
}

// Edge returns the directed edge a -> b.
func (g *Graph) Edge(a, b Key) (Edge, bool) {
	i, ok := g.edges[edgeKey{a, b}]
	if !ok {
		return Edge{}, false
	}
	return g.edgeSeq[i], true
}

func (g *Graph) NodeCount() int { return len(g.order) }

func (g *Graph) EdgeCount() int { return len(g.edgeSeq) }

// Density is E / (N·(N−1)) for a directed graph without self-loops, and 0
// when there are fewer than two nodes.
func (g *Graph) Density() float64 {
	n := float64(len(g.order))
	if n < 2 {
		return 0
	}
	return float64(len(g.edgeSeq)) / (n * (n - 1))
}

// Keys returns all node keys in insertion order.
func (g *Graph) Keys() []Key { return slices.Clone(g.order) }

// Nodes returns copies of all nodes in insertion order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, 0, len(g.order))
	for _, k := range g.order {
		n, _ := g.Node(k)
		out = append(out, n)
	}
	return out
}

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edgeSeq) }

// KeysForLemma returns every sense of lemma present in g, in insertion order.
func (g *Graph) KeysForLemma(lemma string) []Key {
	return slices.Clone(g.byLemma[domain.NormalizeText(lemma)])
}

// Induced returns a frozen copy of g restricted to keys and the edges among
// them. Unknown keys are ignored. Node order follows g.
func (g *Graph) Induced(keys []Key) *Graph {
	keep := make(map[Key]bool, len(keys))
	for _, k := range keys {
		if g.Has(k) {
			keep[k] = true
		}
	}

	sub := New()
	for _, k := range g.order {
		if keep[k] {
			n := g.nodes[k]
			_, _ = sub.AddNode(k, n.Definitions, n.Depth)
		}
	}
	for _, e := range g.edgeSeq {
		if keep[e.Source] && keep[e.Target] {
			_, _ = sub.AddEdge(e)
		}
	}
	sub.Freeze()
	return sub
}

// SameStructure reports whether g and other hold the same nodes (key, depth
// and definitions) and the same edges, in any insertion order.
func (g *Graph) SameStructure(other *Graph) bool {
	if g.NodeCount() != other.NodeCount() || g.EdgeCount() != other.EdgeCount() {
		return false
	}
	for k, a := range g.nodes {
		b, ok := other.nodes[k]
		if !ok || a.Depth != b.Depth || !slices.Equal(a.Definitions, b.Definitions) {
			return false
		}
	}
	edges := make(map[Edge]struct{}, len(g.edgeSeq))
	for _, e := range g.edgeSeq {
		edges[e] = struct{}{}
	}
	for _, e := range other.edgeSeq {
		if _, ok := edges[e]; !ok {
			return false
		}
	}
	return true
}

// Equal is SameStructure plus identical node and edge insertion order, which
// a deterministic build and the exchange formats both preserve.
func (g *Graph) Equal(other *Graph) bool {
	if g.NodeCount() != other.NodeCount() || g.EdgeCount() != other.EdgeCount() {
		return false
	}
	for i, k := range g.order {
		if other.order[i] != k {
			return false
		}
		a, b := g.nodes[k], other.nodes[k]
		if a.Depth != b.Depth || !slices.Equal(a.Definitions, b.Definitions) {
			return false
		}
	}
	return slices.Equal(g.edgeSeq, other.edgeSeq)
}
