package graph

import (
	"cmp"
	"slices"
)

// Summary holds structural metrics of a graph. Degree, components and
// clustering are computed on the undirected view of the graph.
type Summary struct {
	Nodes            int
	Edges            int
	Density          float64
	AverageDegree    float64
	Components       int
	LargestComponent int
	Clustering       float64
	TopDegrees       []DegreeEntry
}

// DegreeEntry pairs a node with its undirected degree.
type DegreeEntry struct {
	Key    Key
	Degree int
}

// Analyze computes a Summary, listing the top nodes by degree.
func Analyze(g *Graph, top int) Summary {
	adj := g.undirected()

	s := Summary{
		Nodes:   g.NodeCount(),
		Edges:   g.EdgeCount(),
		Density: g.Density(),
	}
	if s.Nodes == 0 {
		return s
	}

	undirectedEdges := 0
	for _, k := range g.order {
		undirectedEdges += len(adj[k])
	}
	s.AverageDegree = float64(undirectedEdges) / float64(s.Nodes)

	comps := g.components(adj)
	s.Components = len(comps)
	for _, c := range comps {
		s.LargestComponent = max(s.LargestComponent, len(c))
	}

	s.Clustering = averageClustering(g.order, adj)
	s.TopDegrees = topDegrees(g.order, adj, top)
	return s
}

// Components returns the weakly connected components, each in BFS order,
// ordered by their first node's insertion position.
func (g *Graph) Components() [][]Key {
	return g.components(g.undirected())
}

// Degree returns the number of distinct nodes adjacent to key in either
// direction.
func (g *Graph) Degree(key Key) int {
	return len(g.undirected()[key])
}

// undirected builds neighbor sets ignoring edge direction.
func (g *Graph) undirected() map[Key]map[Key]struct{} {
	adj := make(map[Key]map[Key]struct{}, len(g.order))
	for _, k := range g.order {
		adj[k] = make(map[Key]struct{})
	}
	for _, e := range g.edgeSeq {
		adj[e.Source][e.Target] = struct{}{}
		adj[e.Target][e.Source] = struct{}{}
	}
	return adj
}

func (g *Graph) components(adj map[Key]map[Key]struct{}) [][]Key {
	seen := make(map[Key]bool, len(g.order))
	var comps [][]Key

	for _, start := range g.order {
		if seen[start] {
			continue
		}
		seen[start] = true
		comp := []Key{start}
		for i := 0; i < len(comp); i++ {
			cur := comp[i]
			// Outgoing then incoming, so the order is stable.
			for _, nbs := range [][]Key{g.out[cur], g.in[cur]} {
				for _, nb := range nbs {
					if !seen[nb] {
						seen[nb] = true
						comp = append(comp, nb)
					}
				}
			}
		}
		comps = append(comps, comp)
	}
	return comps
}

// averageClustering is the mean local clustering coefficient; nodes with
// fewer than two neighbors contribute zero.
func averageClustering(order []Key, adj map[Key]map[Key]struct{}) float64 {
	var total float64
	for _, k := range order {
		nbs := adj[k]
		deg := len(nbs)
		if deg < 2 {
			continue
		}
		links := 0
		for a := range nbs {
			for b := range adj[a] {
				if _, ok := nbs[b]; ok {
					links++
				}
			}
		}
		// Each link between two neighbors was counted from both ends.
		total += float64(links) / float64(deg*(deg-1))
	}
	return total / float64(len(order))
}

func topDegrees(order []Key, adj map[Key]map[Key]struct{}, top int) []DegreeEntry {
	entries := make([]DegreeEntry, 0, len(order))
	for _, k := range order {
		entries = append(entries, DegreeEntry{Key: k, Degree: len(adj[k])})
	}
	slices.SortStableFunc(entries, func(a, b DegreeEntry) int {
		return cmp.Compare(b.Degree, a.Degree)
	})
	if top >= 0 && top < len(entries) {
		entries = entries[:top]
	}
	return entries
}
