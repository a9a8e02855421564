package main

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
)

// TraversalDOT converts a traversal to Graphviz DOT. Nodes are placed at
// their plan-view position and edges are labeled with their visit order.
func TraversalDOT(g *Graph, visited []VisitedEdge) string {
	var buf bytes.Buffer
	buf.WriteString("graph lattice {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, width=0.2, fixedsize=true, fontsize=8];\n")
	buf.WriteString("  edge [fontsize=8, color=red];\n")
	buf.WriteString("\n")

	for i, p := range g.Nodes {
		fmt.Fprintf(&buf, "  n%d [label=\"%d\", pos=\"%.2f,%.2f!\", tooltip=\"z=%.2f\"];\n", i, i, p.X, p.Y, p.Z)
	}

	buf.WriteString("\n")
	for _, ve := range visited {
		fmt.Fprintf(&buf, "  n%d -- n%d [label=\"%d\"];\n", ve.From, ve.To, ve.Order)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
