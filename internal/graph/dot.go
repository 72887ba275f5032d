package graph

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// WriteDOT renders g in Graphviz DOT syntax. Nodes at depth 0 are drawn as
// double circles.
func WriteDOT(w io.Writer, g *Graph, name string) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "digraph %s {\n", strconv.Quote(name))
	fmt.Fprintln(bw, "  node [shape=ellipse, style=filled, fillcolor=lightblue];")
	for _, k := range g.order {
		attrs := fmt.Sprintf("label=%s", strconv.Quote(k.Lemma+"\n("+k.POS.String()+")"))
		if g.nodes[k].Depth == 0 {
			attrs += ", shape=doublecircle"
		}
		fmt.Fprintf(bw, "  %s [%s];\n", strconv.Quote(k.String()), attrs)
	}
	for _, e := range g.edgeSeq {
		fmt.Fprintf(bw, "  %s -> %s;\n", strconv.Quote(e.Source.String()), strconv.Quote(e.Target.String()))
	}
	fmt.Fprintln(bw, "}")

	return bw.Flush()
}
