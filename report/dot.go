package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/mahbod-afarin/liveness/ir"
	"github.com/mahbod-afarin/liveness/pass"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/multi"
)

type blockNode struct {
	block *ir.Block
	out   []string
}

func (n blockNode) ID() int64 { return int64(n.block.ID) }

func (n blockNode) DOTID() string { return n.block.Name }

func (n blockNode) Attributes() []encoding.Attribute {
	label := n.block.Name + ":"
	if len(n.out) > 0 {
		label += " " + strings.Join(n.out, " ")
	}
	return []encoding.Attribute{
		{Key: "shape", Value: "box"},
		{Key: "label", Value: label},
	}
}

// Graph builds the control flow graph of a result. Nodes carry the block
// live-out sets; parallel edges and self loops are kept.
func Graph(r *pass.Result) graph.Multigraph {
	g := multi.NewDirectedGraph()
	nodes := make([]blockNode, len(r.Unit.Blocks))
	for i, b := range r.Unit.Blocks {
		nodes[i] = blockNode{block: b, out: r.LiveOut(b)}
		g.AddNode(nodes[i])
	}
	for _, b := range r.Unit.Blocks {
		for _, s := range b.Succs {
			g.SetLine(g.NewLine(nodes[b.ID], nodes[s.ID]))
		}
	}
	return g
}

// DOT writes the control flow graph of r in Graphviz syntax.
func DOT(w io.Writer, r *pass.Result) error {
	b, err := dot.MarshalMulti(Graph(r), r.Unit.Name, "", "\t")
	if err != nil {
		return fmt.Errorf("marshalling %s: %w", r.Unit.Name, err)
	}
	_, err = fmt.Fprintf(w, "%s\n", b)
	return err
}

// DOTAll writes one digraph per result.
func DOTAll(w io.Writer, results []*pass.Result) error {
	for _, r := range results {
		if err := DOT(w, r); err != nil {
			return err
		}
	}
	return nil
}
