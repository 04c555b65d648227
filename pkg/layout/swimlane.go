package layout

import "github.com/pzaremba/flowxmi/pkg/flow"

// Fallback lane geometry for swimlanes that own no nodes. Empty lanes still
// appear in the diagram, side by side after the populated area.
const (
	emptyLaneWidth  = 250
	emptyLaneHeight = 400
	emptyLaneStride = 280
)

// boundSwimlanes derives every swimlane rectangle from the bounding box of
// its member nodes, expanded by the configured padding and clamped to the
// canvas. The bottom gets extra padding so connector labels near the lane
// edge stay inside it.
func boundSwimlanes(g *flow.Graph, cfg Config) {
	for i, lane := range g.Swimlanes() {
		minX, minY, maxX, maxY, found := memberBounds(g, lane.Name)
		if !found {
			lane.X = cfg.MarginX + float64(i)*emptyLaneStride
			lane.Y = cfg.MarginY
			lane.Width = emptyLaneWidth
			lane.Height = emptyLaneHeight
			continue
		}

		left := clamp(minX-cfg.LanePadding, 0, cfg.CanvasWidth)
		top := clamp(minY-cfg.LanePadding, 0, cfg.CanvasHeight)
		right := clamp(maxX+cfg.LanePadding, 0, cfg.CanvasWidth)
		bottom := clamp(maxY+cfg.LaneBottomPadding, 0, cfg.CanvasHeight)

		lane.X = left
		lane.Y = top
		lane.Width = right - left
		lane.Height = bottom - top
	}
}

func memberBounds(g *flow.Graph, laneName string) (minX, minY, maxX, maxY float64, found bool) {
	for _, n := range g.Nodes() {
		if n.Swimlane != laneName || !n.Placed {
			continue
		}
		if !found {
			minX, minY = n.X, n.Y
			maxX, maxY = n.X+n.Width, n.Y+n.Height
			found = true
			continue
		}
		minX = min(minX, n.X)
		minY = min(minY, n.Y)
		maxX = max(maxX, n.X+n.Width)
		maxY = max(maxY, n.Y+n.Height)
	}
	return minX, minY, maxX, maxY, found
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
