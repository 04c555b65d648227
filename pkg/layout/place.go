package layout

import "github.com/pzaremba/flowxmi/pkg/flow"

// place positions every node at the center of a grid cell.
//
// Column selection within a layer:
//   - nodes in a swimlane take their lane's column, stacking the flow into
//     vertical lane bands
//   - a single free node goes to the middle column
//   - several free nodes spread evenly across the row
//
// The node's top-left corner is the cell center minus half its size, so
// differently sized nodes in one layer share a visual centerline.
func place(g *flow.Graph, cfg Config, plan Plan) {
	for row, layer := range plan.Layers {
		free := 0
		for _, id := range layer {
			if laneColumn(g, id) < 0 {
				free++
			}
		}

		idx := 0
		for _, id := range layer {
			n, ok := g.Node(id)
			if !ok {
				continue
			}
			col := laneColumn(g, id)
			if col < 0 {
				col = freeColumn(plan.Columns, free, idx)
				idx++
			}
			cx, cy := plan.cellCenter(cfg, col, row)
			n.X = cx - n.Width/2
			n.Y = cy - n.Height/2
			n.Placed = true
		}
	}
}

// laneColumn returns the grid column owned by the node's swimlane, or -1 for
// nodes outside any lane.
func laneColumn(g *flow.Graph, id string) int {
	n, ok := g.Node(id)
	if !ok || n.Swimlane == "" {
		return -1
	}
	for i, lane := range g.Swimlanes() {
		if lane.Name == n.Swimlane {
			return i
		}
	}
	return -1
}

// freeColumn spreads count unlaned nodes across cols columns; i is the
// node's index among them.
func freeColumn(cols, count, i int) int {
	if count <= 1 {
		return cols / 2
	}
	spacing := cols / (count + 1)
	if spacing < 1 {
		spacing = 1
	}
	col := (i + 1) * spacing
	if col > cols-1 {
		col = cols - 1
	}
	return col
}
