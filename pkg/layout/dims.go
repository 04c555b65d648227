package layout

import "github.com/pzaremba/flowxmi/pkg/flow"

// Default node dimensions in diagram units, keyed by kind. Action widths
// grow with the label; fork and join bars grow with their branch count.
const (
	controlSize = 40 // initial and final circles

	diamondSize = 80 // decision and merge diamonds

	noteWidth  = 80
	noteHeight = 40

	actionHeight      = 40
	actionWidthShort  = 100 // labels up to 25 characters
	actionWidthMedium = 120 // labels up to 40 characters
	actionWidthLong   = 148

	barHeight   = 10 // fork and join synchronization bars
	barMinWidth = 100
	barPerBranch = 40
)

// Measure assigns a width and height to every node in g. Measurement is
// pure: it depends only on the node kind, its label length and, for
// synchronization bars, its degree.
func Measure(g *flow.Graph) {
	for _, n := range g.Nodes() {
		w, h := nodeSize(g, n)
		n.Width = w
		n.Height = h
	}
}

func nodeSize(g *flow.Graph, n *flow.Node) (w, h float64) {
	switch n.Kind {
	case flow.KindInitial, flow.KindFinal:
		return controlSize, controlSize
	case flow.KindDecision, flow.KindMerge:
		return diamondSize, diamondSize
	case flow.KindFork, flow.KindJoin:
		return barWidth(g, n), barHeight
	case flow.KindNote:
		return noteWidth, noteHeight
	default:
		return actionWidth(n.Label), actionHeight
	}
}

// barWidth sizes a fork or join bar to its branch count so every branch
// connector has its own attachment point.
func barWidth(g *flow.Graph, n *flow.Node) float64 {
	branches := g.OutDegree(n.ID)
	if in := g.InDegree(n.ID); in > branches {
		branches = in
	}
	w := float64(branches) * barPerBranch
	if w < barMinWidth {
		return barMinWidth
	}
	return w
}

func actionWidth(label string) float64 {
	switch n := len(label); {
	case n > 40:
		return actionWidthLong
	case n > 25:
		return actionWidthMedium
	default:
		return actionWidthShort
	}
}

// maxNodeSize returns the largest measured width and height over all nodes.
// Grid cells are sized from this so no node overflows its cell.
func maxNodeSize(g *flow.Graph) (w, h float64) {
	for _, n := range g.Nodes() {
		if n.Width > w {
			w = n.Width
		}
		if n.Height > h {
			h = n.Height
		}
	}
	return w, h
}
