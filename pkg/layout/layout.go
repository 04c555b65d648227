// Package layout positions activity-diagram nodes on a canvas.
//
// The engine works in phases: measure node dimensions, assign layers,
// plan a grid scaled to the largest node, place each node at a cell
// center, separate residual collisions, and finally derive swimlane
// rectangles from their members. All phases iterate the graph in
// insertion order, so equal graphs always produce equal coordinates.
package layout

import (
	"github.com/pzaremba/flowxmi/pkg/errors"
	"github.com/pzaremba/flowxmi/pkg/flow"
)

// Engine runs the layout phases with a fixed configuration. An Engine is
// stateless and safe for concurrent use across graphs.
type Engine struct {
	cfg Config
}

// New creates a layout engine, validating the configuration once up front.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config { return e.cfg }

// Layout sizes and positions every node and swimlane of g in place and
// returns the grid plan. Non-fatal findings (orphan layers, unresolved
// overlaps) are recorded in rep.
func (e *Engine) Layout(g *flow.Graph, rep *flow.Report) (*Plan, error) {
	if g == nil {
		return nil, errors.New(errors.ErrCodeInternal, "layout called with nil graph")
	}
	if g.NodeCount() == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "cannot lay out an empty graph")
	}

	Measure(g)
	layers := AssignLayers(g, rep)
	plan := planGrid(g, e.cfg, layers)
	place(g, e.cfg, plan)
	resolveOverlaps(g, e.cfg, rep)
	boundSwimlanes(g, e.cfg)

	return &plan, nil
}
