package layout

import "github.com/pzaremba/flowxmi/pkg/flow"

// overlaps reports whether the bounding boxes of a and b intersect.
func overlaps(a, b *flow.Node) bool {
	return a.X < b.X+b.Width && a.X+a.Width > b.X &&
		a.Y < b.Y+b.Height && a.Y+a.Height > b.Y
}

// resolveOverlaps separates colliding nodes in at most
// cfg.MaxOverlapIterations sweeps.
//
// Nodes in the same layer split the horizontal overlap between them; nodes
// in different layers keep their columns and the lower one moves further
// down. Each sweep compares nodes in insertion order, so resolution is
// deterministic. Collisions that survive the iteration cap are reported and
// left in place.
func resolveOverlaps(g *flow.Graph, cfg Config, rep *flow.Report) {
	nodes := g.Nodes()
	for iter := 0; iter < cfg.MaxOverlapIterations; iter++ {
		moved := false
		for i := 0; i < len(nodes); i++ {
			for j := i + 1; j < len(nodes); j++ {
				a, b := nodes[i], nodes[j]
				if !overlaps(a, b) {
					continue
				}
				separate(a, b)
				moved = true
			}
		}
		if !moved {
			return
		}
	}

	for i := 0; i < len(nodes); i++ {
		for j := i + 1; j < len(nodes); j++ {
			if overlaps(nodes[i], nodes[j]) {
				rep.Add(flow.WarnUnresolvedOverlap, nodes[i].ID,
					"nodes %q and %q still overlap after %d iterations",
					nodes[i].ID, nodes[j].ID, cfg.MaxOverlapIterations)
			}
		}
	}
}

// separate pushes two colliding nodes apart along one axis.
func separate(a, b *flow.Node) {
	overlapX := min(a.X+a.Width, b.X+b.Width) - max(a.X, b.X)
	overlapY := min(a.Y+a.Height, b.Y+b.Height) - max(a.Y, b.Y)

	if a.Layer == b.Layer {
		// Same layer: split the horizontal overlap between both nodes.
		half := overlapX/2 + 1
		if a.X <= b.X {
			a.X -= half
			b.X += half
		} else {
			a.X += half
			b.X -= half
		}
		return
	}

	// Different layers: keep columns, push the lower node further down.
	lower := b
	if a.Y > b.Y {
		lower = a
	}
	lower.Y += overlapY + 1
}
