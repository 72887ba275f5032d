// Package search answers path, similarity and neighborhood queries over a
// frozen semantic graph. An Engine holds no mutable state and is safe for
// concurrent use.
package search

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/heartmarshall/wordgraph/internal/domain"
	"github.com/heartmarshall/wordgraph/internal/graph"
)

// Direction selects which edges a traversal may follow.
type Direction string

const (
	// DirectionOutgoing follows edges as stored: from a word to the words
	// of its definitions.
	DirectionOutgoing Direction = "outgoing"
	// DirectionBoth ignores edge direction.
	DirectionBoth Direction = "both"
)

// ParseDirection converts a configuration value to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(s))); d {
	case DirectionOutgoing, DirectionBoth:
		return d, nil
	case "":
		return DirectionOutgoing, nil
	}
	return "", domain.NewValidationError("direction", fmt.Sprintf("unknown direction %q", s))
}

// Options configures an Engine.
type Options struct {
	Direction Direction
	// Alpha weighs the path score against neighbor overlap in Similarity.
	Alpha float64
	// MaxPaths is the default limit for ConnectingPaths.
	MaxPaths int
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{Direction: DirectionOutgoing, Alpha: 0.7, MaxPaths: 5}
}

// Engine runs queries against one frozen graph.
type Engine struct {
	g    *graph.Graph
	opts Options
}

// New creates an Engine over g, which must be frozen.
func New(g *graph.Graph, opts Options) (*Engine, error) {
	if g == nil || !g.Frozen() {
		return nil, domain.NewValidationError("graph", "must be frozen")
	}
	if opts.Direction == "" {
		opts.Direction = DirectionOutgoing
	}
	if opts.Direction != DirectionOutgoing && opts.Direction != DirectionBoth {
		return nil, domain.NewValidationError("direction", fmt.Sprintf("unknown direction %q", opts.Direction))
	}
	if opts.Alpha < 0 || opts.Alpha > 1 {
		return nil, domain.NewValidationError("alpha", "must be within [0, 1]")
	}
	if opts.MaxPaths <= 0 {
		opts.MaxPaths = DefaultOptions().MaxPaths
	}
	return &Engine{g: g, opts: opts}, nil
}

// Graph returns the graph the engine searches.
func (e *Engine) Graph() *graph.Graph { return e.g }

// Options returns the engine's effective options.
func (e *Engine) Options() Options { return e.opts }

// Resolve returns every sense of word present in the graph.
func (e *Engine) Resolve(word string) []graph.Key {
	return e.g.KeysForLemma(word)
}

// Keys interprets user input: an exact "lemma/pos" key present in the
// graph, otherwise every sense of the lemma.
func (e *Engine) Keys(word string) []graph.Key {
	if k, err := graph.ParseKey(word); err == nil && e.g.Has(k) {
		return []graph.Key{k}
	}
	return e.Resolve(word)
}

// neighbors returns the keys one hop from k, outgoing first.
func (e *Engine) neighbors(k graph.Key) []graph.Key {
	out := e.g.Neighbors(k)
	if e.opts.Direction != DirectionBoth {
		return out
	}
	for _, p := range e.g.Predecessors(k) {
		if !slices.Contains(out, p) {
			out = append(out, p)
		}
	}
	return out
}

func (e *Engine) require(keys ...graph.Key) error {
	for _, k := range keys {
		if !e.g.Has(k) {
			return fmt.Errorf("%s: %w", k, domain.ErrNodeNotFound)
		}
	}
	return nil
}

// bfs walks from start and calls visit for every newly discovered node with
// its distance and the node it was reached from. Walking stops when visit
// returns false. Distances beyond limit are not explored; a negative limit
// means no limit.
func (e *Engine) bfs(start graph.Key, limit int, visit func(k, from graph.Key, dist int) bool) {
	dist := map[graph.Key]int{start: 0}
	queue := []graph.Key{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		d := dist[cur]
		if limit >= 0 && d >= limit {
			continue
		}
		for _, nb := range e.neighbors(cur) {
			if _, seen := dist[nb]; seen {
				continue
			}
			dist[nb] = d + 1
			if !visit(nb, cur, d+1) {
				return
			}
			queue = append(queue, nb)
		}
	}
}

// ShortestPath returns a minimum-hop path from a to b inclusive. Among
// equally short paths the one discovered first in neighbor order wins.
func (e *Engine) ShortestPath(a, b graph.Key) ([]graph.Key, error) {
	if err := e.require(a, b); err != nil {
		return nil, err
	}
	if a == b {
		return []graph.Key{a}, nil
	}

	parent := make(map[graph.Key]graph.Key)
	found := false
	e.bfs(a, -1, func(k, from graph.Key, _ int) bool {
		parent[k] = from
		found = k == b
		return !found
	})
	if !found {
		return nil, fmt.Errorf("%s -> %s: %w", a, b, domain.ErrNoPath)
	}

	path := []graph.Key{b}
	for cur := b; cur != a; {
		cur = parent[cur]
		path = append(path, cur)
	}
	slices.Reverse(path)
	return path, nil
}

// Distance returns the number of hops on a shortest path from a to b.
func (e *Engine) Distance(a, b graph.Key) (int, error) {
	path, err := e.ShortestPath(a, b)
	if err != nil {
		return 0, err
	}
	return len(path) - 1, nil
}

// Similarity scores a and b in [0, 1] as
// Alpha*(1/d) + (1-Alpha)*jaccard(N(a), N(b)), where d is the shortest path
// length and N the one-hop neighbor set. The path term is 0 when b is
// unreachable. A node is fully similar to itself.
func (e *Engine) Similarity(a, b graph.Key) (float64, error) {
	if err := e.require(a, b); err != nil {
		return 0, err
	}
	if a == b {
		return 1, nil
	}

	var pathScore float64
	d, err := e.Distance(a, b)
	switch {
	case err == nil:
		pathScore = 1 / float64(d)
	case !errors.Is(err, domain.ErrNoPath):
		return 0, err
	}

	overlap := jaccard(e.neighbors(a), e.neighbors(b))
	return e.opts.Alpha*pathScore + (1-e.opts.Alpha)*overlap, nil
}

// WordSimilarity is the best Similarity over every pair of senses of the two
// words. found is false when either word has no node in the graph.
func (e *Engine) WordSimilarity(w1, w2 string) (score float64, found bool, err error) {
	ks1, ks2 := e.Resolve(w1), e.Resolve(w2)
	if len(ks1) == 0 || len(ks2) == 0 {
		return 0, false, nil
	}
	for _, a := range ks1 {
		for _, b := range ks2 {
			s, err := e.Similarity(a, b)
			if err != nil {
				return 0, true, err
			}
			score = max(score, s)
		}
	}
	return score, true, nil
}

func jaccard(a, b []graph.Key) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	set := make(map[graph.Key]struct{}, len(a))
	for _, k := range a {
		set[k] = struct{}{}
	}
	inter := 0
	union := len(set)
	for _, k := range b {
		if _, ok := set[k]; ok {
			inter++
		} else {
			union++
		}
	}
	return float64(inter) / float64(union)
}

// Neighborhood returns every node within radius hops of a, including a, in
// BFS order.
func (e *Engine) Neighborhood(a graph.Key, radius int) ([]graph.Key, error) {
	layers, err := e.Layers(a, radius)
	if err != nil {
		return nil, err
	}
	var out []graph.Key
	for _, l := range layers {
		out = append(out, l...)
	}
	return out, nil
}

// Layers groups the neighborhood of a by distance: layer i holds the nodes
// exactly i hops away. Trailing empty layers are omitted.
func (e *Engine) Layers(a graph.Key, radius int) ([][]graph.Key, error) {
	if err := e.require(a); err != nil {
		return nil, err
	}
	if radius < 0 {
		return nil, domain.NewValidationError("radius", "must be >= 0")
	}
	layers := [][]graph.Key{{a}}
	e.bfs(a, radius, func(k, _ graph.Key, d int) bool {
		if d == len(layers) {
			layers = append(layers, nil)
		}
		layers[d] = append(layers[d], k)
		return true
	})
	return layers, nil
}

// Subgraph returns the read-only subgraph induced by keys.
func (e *Engine) Subgraph(keys []graph.Key) (*graph.Graph, error) {
	if err := e.require(keys...); err != nil {
		return nil, err
	}
	return e.g.Induced(keys), nil
}

// NeighborhoodGraph returns the subgraph induced by every node within radius
// hops of any of keys.
func (e *Engine) NeighborhoodGraph(keys []graph.Key, radius int) (*graph.Graph, error) {
	var members []graph.Key
	seen := make(map[graph.Key]bool)
	for _, k := range keys {
		ns, err := e.Neighborhood(k, radius)
		if err != nil {
			return nil, err
		}
		for _, n := range ns {
			if !seen[n] {
				seen[n] = true
				members = append(members, n)
			}
		}
	}
	return e.g.Induced(members), nil
}

// Scored is a node with a relatedness score.
type Scored struct {
	Key      graph.Key `json:"key"`
	Distance int       `json:"distance"`
	Score    float64   `json:"score"`
}

// SimilarWords ranks every node reachable from a by 1/(1+distance), nearest
// first, ties in BFS order, and returns at most topN of them.
func (e *Engine) SimilarWords(a graph.Key, topN int) ([]Scored, error) {
	if err := e.require(a); err != nil {
		return nil, err
	}
	if topN <= 0 {
		return nil, domain.NewValidationError("top_n", "must be > 0")
	}

	var out []Scored
	e.bfs(a, -1, func(k, _ graph.Key, d int) bool {
		out = append(out, Scored{Key: k, Distance: d, Score: 1 / float64(1+d)})
		return true
	})
	slices.SortStableFunc(out, func(x, y Scored) int { return cmp.Compare(x.Distance, y.Distance) })
	if len(out) > topN {
		out = out[:topN]
	}
	return out, nil
}

// ConnectingPaths returns up to limit distinct shortest paths from a to b.
// A limit <= 0 uses the engine's MaxPaths. Paths are ordered by neighbor
// insertion order along the way.
func (e *Engine) ConnectingPaths(a, b graph.Key, limit int) ([][]graph.Key, error) {
	if err := e.require(a, b); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = e.opts.MaxPaths
	}
	if a == b {
		return [][]graph.Key{{a}}, nil
	}

	// Layered BFS recording every shortest-path parent of each node.
	dist := map[graph.Key]int{a: 0}
	parents := make(map[graph.Key][]graph.Key)
	frontier := []graph.Key{a}
	for len(frontier) > 0 {
		if _, ok := dist[b]; ok {
			break
		}
		var next []graph.Key
		for _, cur := range frontier {
			for _, nb := range e.neighbors(cur) {
				d, seen := dist[nb]
				if !seen {
					dist[nb] = dist[cur] + 1
					next = append(next, nb)
				} else if d != dist[cur]+1 {
					continue
				}
				parents[nb] = append(parents[nb], cur)
			}
		}
		frontier = next
	}
	if _, ok := dist[b]; !ok {
		return nil, fmt.Errorf("%s -> %s: %w", a, b, domain.ErrNoPath)
	}

	var paths [][]graph.Key
	suffix := []graph.Key{b}
	var walk func(cur graph.Key)
	walk = func(cur graph.Key) {
		if len(paths) >= limit {
			return
		}
		if cur == a {
			p := slices.Clone(suffix)
			slices.Reverse(p)
			paths = append(paths, p)
			return
		}
		for _, p := range parents[cur] {
			suffix = append(suffix, p)
			walk(p)
			suffix = suffix[:len(suffix)-1]
		}
	}
	walk(b)
	return paths, nil
}
