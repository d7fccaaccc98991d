// Package basis draws the basis of a shipping plan as a Graphviz graph.
//
// Sources and destinations become nodes; every basic cell becomes an edge
// labelled with its quantity and unit cost. A spanning tree means the plan
// is non-degenerate. An improvement cycle, if given, is highlighted, with
// the entering cell drawn dashed.
package basis

import (
	"bytes"
	"context"
	"fmt"
	"slices"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/potentials/pkg/transport"
)

// Options configures the drawing.
type Options struct {
	// Cycle, when set, is highlighted; Cycle[0] is the entering cell.
	Cycle []transport.Cell
}

// ToDOT converts the plan in s to Graphviz DOT.
func ToDOT(s transport.Snapshot, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph basis {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14];\n")
	buf.WriteString("\n")

	for i, x := range s.Supply {
		fmt.Fprintf(&buf, "  %q [label=\"A%d\\n%d\", fillcolor=\"#e8f0fe\"];\n", source(i), i+1, x)
	}
	for j, x := range s.Demand {
		fmt.Fprintf(&buf, "  %q [label=\"B%d\\n%d\", fillcolor=\"#fef3e8\"];\n", dest(j), j+1, x)
	}

	buf.WriteString("\n")
	for i, row := range s.Plan {
		for j, q := range row {
			c := transport.Cell{Row: i, Col: j}
			k := slices.Index(opts.Cycle, c)
			if !q.IsAllocated() && k != 0 {
				continue
			}
			attrs := fmt.Sprintf("label=\"%s @ %d\"", q, s.Costs[i][j])
			switch {
			case k == 0:
				attrs += ", color=red, penwidth=2, style=dashed"
			case k > 0:
				attrs += ", color=red, penwidth=2"
			}
			fmt.Fprintf(&buf, "  %q -- %q [%s];\n", source(i), dest(j), attrs)
		}
	}
	buf.WriteString("}\n")
	return buf.String()
}

func source(i int) string { return fmt.Sprintf("A%d", i+1) }
func dest(j int) string   { return fmt.Sprintf("B%d", j+1) }

// RenderSVG renders a DOT graph to SVG using Graphviz.
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
