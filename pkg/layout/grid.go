package layout

import (
	"math"

	"github.com/pzaremba/flowxmi/pkg/flow"
)

// Plan is the result of one layout run: the grid the nodes were placed on
// and the layers they were assigned to. Node and swimlane coordinates live
// on the graph itself; the plan carries the derived grid metrics.
type Plan struct {
	Columns    int        `json:"columns"`
	Rows       int        `json:"rows"`
	CellWidth  float64    `json:"cell_width"`
	CellHeight float64    `json:"cell_height"`
	Layers     [][]string `json:"layers"`
}

// planGrid sizes the placement grid. Cells scale with the largest node so
// nothing overflows; the column count is at least the number of swimlanes so
// every lane owns a column.
func planGrid(g *flow.Graph, cfg Config, layers [][]string) Plan {
	maxW, maxH := maxNodeSize(g)
	cols := int(math.Ceil(math.Sqrt(float64(g.NodeCount()))))
	if lanes := len(g.Swimlanes()); lanes > cols {
		cols = lanes
	}
	if cols < 1 {
		cols = 1
	}
	return Plan{
		Columns:    cols,
		Rows:       len(layers),
		CellWidth:  maxW * cfg.Spacing,
		CellHeight: maxH * cfg.Spacing,
		Layers:     layers,
	}
}

// cellCenter returns the center of grid cell (col, row) in canvas units.
func (p Plan) cellCenter(cfg Config, col, row int) (x, y float64) {
	x = cfg.MarginX + float64(col)*p.CellWidth + p.CellWidth/2
	y = cfg.MarginY + float64(row)*p.CellHeight + p.CellHeight/2
	return x, y
}
