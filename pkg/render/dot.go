package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pzaremba/flowxmi/pkg/flow"
)

// Options configures DOT generation.
type Options struct {
	// Detailed includes node IDs and swimlane names in node labels.
	// When false, only the label (or kind) is shown.
	Detailed bool
}

// ToDOT converts an activity graph to Graphviz DOT format for preview
// rendering. Swimlanes become clusters, guards become edge labels, and each
// node kind uses its conventional activity-diagram shape.
//
// The resulting DOT string can be rendered with [RenderSVG].
func ToDOT(g *flow.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontsize=12, fontname=\"Helvetica\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.4;\n")
	buf.WriteString("\n")

	byLane := make(map[string][]*flow.Node)
	var free []*flow.Node
	for _, n := range g.Nodes() {
		if n.Swimlane == "" {
			free = append(free, n)
			continue
		}
		byLane[n.Swimlane] = append(byLane[n.Swimlane], n)
	}

	for i, lane := range g.Swimlanes() {
		fmt.Fprintf(&buf, "  subgraph cluster_%d {\n", i)
		fmt.Fprintf(&buf, "    label=%q;\n", lane.Name)
		buf.WriteString("    style=filled;\n")
		buf.WriteString("    fillcolor=\"#F2F7FB\";\n")
		for _, n := range byLane[lane.Name] {
			fmt.Fprintf(&buf, "    %q [%s];\n", n.ID, strings.Join(nodeAttrs(n, opts.Detailed), ", "))
		}
		buf.WriteString("  }\n")
	}

	for _, n := range free {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(n, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		if e.Guard != "" {
			fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", e.Source, e.Target, "["+e.Guard+"]")
		} else {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.Source, e.Target)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n *flow.Node, detailed bool) []string {
	label := n.Label
	if label == "" {
		label = n.Kind.String()
	}
	if detailed {
		parts := []string{label, "id: " + n.ID}
		if n.Swimlane != "" {
			parts = append(parts, "lane: "+n.Swimlane)
		}
		label = strings.Join(parts, "\n")
	}

	switch n.Kind {
	case flow.KindInitial:
		return []string{`label=""`, "shape=circle", `style=filled`, `fillcolor=black`, "width=0.25", "fixedsize=true"}
	case flow.KindFinal:
		return []string{`label=""`, "shape=doublecircle", `style=filled`, `fillcolor=black`, "width=0.2", "fixedsize=true"}
	case flow.KindDecision, flow.KindMerge:
		return []string{fmt.Sprintf("label=%q", label), "shape=diamond", `style=filled`, `fillcolor="#FFFF66"`}
	case flow.KindFork, flow.KindJoin:
		return []string{`label=""`, "shape=box", `style=filled`, `fillcolor=black`, "height=0.08", "width=1.2", "fixedsize=true"}
	case flow.KindNote:
		return []string{fmt.Sprintf("label=%q", label), "shape=note", `style=dashed`}
	default:
		return []string{fmt.Sprintf("label=%q", label), "shape=box", `style="rounded,filled"`, `fillcolor="#CCFFCC"`}
	}
}
