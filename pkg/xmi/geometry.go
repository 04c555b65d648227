package xmi

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"github.com/pzaremba/flowxmi/pkg/flow"
)

// Synthetic nodes created during repair never went through layout. They are
// stacked in a fixed column so they stay visible and out of the main flow.
const (
	syntheticX       = 350
	syntheticBaseY   = 100
	syntheticStrideY = 80
)

// geometry is the resolved diagram rectangle of one node.
type geometry struct {
	Left, Top, Right, Bottom int
}

func (g geometry) String() string {
	return fmt.Sprintf("Left=%d;Top=%d;Right=%d;Bottom=%d;", g.Left, g.Top, g.Right, g.Bottom)
}

// geometryResolver validates node positions at emission time and hands out
// fallback placements for nodes the layout engine failed, keyed
// deterministically so equal inputs keep producing equal documents.
type geometryResolver struct {
	canvasW, canvasH float64
	anchors          map[[2]int]string // occupied top-left corners
	syntheticSeq     int
}

func newGeometryResolver(canvasW, canvasH float64) *geometryResolver {
	return &geometryResolver{
		canvasW: canvasW,
		canvasH: canvasH,
		anchors: make(map[[2]int]string),
	}
}

// resolve returns the node's diagram rectangle. Nodes with a missing,
// out-of-canvas or colliding position get a fallback rectangle and a
// diagnostic. Callers must reject zero-sized nodes before resolving.
func (r *geometryResolver) resolve(n *flow.Node, rep *flow.Report) geometry {
	x, y := n.X, n.Y
	valid := n.Placed &&
		x >= 0 && y >= 0 &&
		x+n.Width <= r.canvasW && y+n.Height <= r.canvasH &&
		!r.occupied(x, y, n.ID)

	if !valid {
		if n.Synthetic && !n.Placed {
			x = syntheticX
			y = float64(syntheticBaseY + r.syntheticSeq*syntheticStrideY)
			r.syntheticSeq++
			// The fixed column may already hold a laid-out node; step down
			// until the anchor is free.
			for r.occupied(x, y, n.ID) {
				y += syntheticStrideY
				if y+n.Height > r.canvasH {
					y = syntheticBaseY
					x += n.Width + 10
				}
			}
		} else {
			x, y = r.fallback(n)
			rep.Add(flow.WarnFallbackGeometry, n.ID,
				"%s %q had no valid position, placed at fallback (%g, %g)", n.Kind, n.Label, x, y)
		}
	}

	r.claim(x, y, n.ID)
	return geometry{
		Left:   int(x),
		Top:    int(y),
		Right:  int(x + n.Width),
		Bottom: int(y + n.Height),
	}
}

// fallback derives a position from the node ID's hash. The canvas is split
// into three horizontal bands: start nodes fall into the top band, terminal
// nodes into the bottom band, everything else into the middle. Occupied
// anchors are skipped by stepping down.
func (r *geometryResolver) fallback(n *flow.Node) (x, y float64) {
	sum := sha256.Sum256([]byte(n.ID))
	hx := binary.BigEndian.Uint64(sum[0:8])
	hy := binary.BigEndian.Uint64(sum[8:16])

	usableW := r.canvasW - n.Width
	bandH := r.canvasH / 3

	x = float64(hx%uint64(max(int(usableW), 1)))
	var bandTop float64
	switch n.Kind {
	case flow.KindInitial:
		bandTop = 0
	case flow.KindFinal:
		bandTop = 2 * bandH
	default:
		bandTop = bandH
	}
	y = bandTop + float64(hy%uint64(max(int(bandH-n.Height), 1)))

	for r.occupied(x, y, n.ID) {
		y += n.Height + 10
		if y+n.Height > r.canvasH {
			y = bandTop
			x += n.Width + 10
			if x+n.Width > r.canvasW {
				x = 0
			}
		}
	}
	return x, y
}

func (r *geometryResolver) occupied(x, y float64, id string) bool {
	owner, taken := r.anchors[[2]int{int(x), int(y)}]
	return taken && owner != id
}

func (r *geometryResolver) claim(x, y float64, id string) {
	r.anchors[[2]int{int(x), int(y)}] = id
}
