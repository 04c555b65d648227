package layout

import "github.com/pzaremba/flowxmi/pkg/flow"

// AssignLayers assigns every node to a horizontal layer and returns the
// layers in top-to-bottom order.
//
// Layering starts from the Initial nodes at layer 0 and advances a wavefront:
// a node joins the next layer only once all of its predecessors are assigned,
// so join and merge nodes sit below the last of their incoming branches.
// Nodes the wavefront never reaches (cycle members fed only by the cycle,
// disconnected fragments, free-standing notes) are collected into a single
// trailing layer; each such node except notes is reported as an orphan.
//
// Node Layer fields are overwritten. The result is deterministic: within a
// layer, nodes keep their graph insertion order.
func AssignLayers(g *flow.Graph, rep *flow.Report) [][]string {
	nodes := g.Nodes()
	if len(nodes) == 0 {
		return nil
	}

	assigned := make(map[string]int, len(nodes))
	var current []string
	for _, n := range nodes {
		if n.Kind == flow.KindInitial {
			current = append(current, n.ID)
			assigned[n.ID] = 0
		}
	}
	if len(current) == 0 {
		// No explicit start; fall back to nodes without predecessors.
		for _, n := range nodes {
			if g.InDegree(n.ID) == 0 && n.Kind != flow.KindNote {
				current = append(current, n.ID)
				assigned[n.ID] = 0
			}
		}
	}
	if len(current) == 0 {
		// Every node sits on a cycle; anchor the first one.
		current = []string{nodes[0].ID}
		assigned[nodes[0].ID] = 0
	}

	layers := [][]string{current}
	for depth := 1; len(assigned) < len(nodes); depth++ {
		var next []string
		for _, id := range current {
			for _, child := range g.Children(id) {
				if _, done := assigned[child]; done {
					continue
				}
				if !allParentsAssigned(g, child, assigned) {
					continue
				}
				assigned[child] = depth
				next = append(next, child)
			}
		}
		if len(next) == 0 {
			break
		}
		layers = append(layers, next)
		current = next
	}

	// Trailing layer for everything the wavefront never reached.
	var orphans []string
	for _, n := range nodes {
		if _, done := assigned[n.ID]; done {
			continue
		}
		assigned[n.ID] = len(layers)
		orphans = append(orphans, n.ID)
		if n.Kind != flow.KindNote {
			rep.Add(flow.WarnOrphanLayer, n.ID,
				"%s %q could not be layered through its predecessors, placed in trailing layer", n.Kind, n.Label)
		}
	}
	if len(orphans) > 0 {
		layers = append(layers, orphans)
	}

	for _, n := range nodes {
		n.Layer = assigned[n.ID]
	}
	return layers
}

// allParentsAssigned reports whether every predecessor of id has a layer.
// Predecessors stuck behind the node itself (direct back-references) do not
// hold it back forever because unreachable parents end in the trailing layer.
func allParentsAssigned(g *flow.Graph, id string, assigned map[string]int) bool {
	for _, p := range g.Parents(id) {
		if _, ok := assigned[p]; !ok {
			return false
		}
	}
	return true
}
