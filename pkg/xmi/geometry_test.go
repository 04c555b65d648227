package xmi

import (
	"testing"

	"github.com/pzaremba/flowxmi/pkg/flow"
)

func TestResolveSyntheticColumn(t *testing.T) {
	r := newGeometryResolver(1400, 1000)
	var rep flow.Report

	first := r.resolve(&flow.Node{ID: "s1", Kind: flow.KindFinal, Width: 40, Height: 40, Synthetic: true}, &rep)
	second := r.resolve(&flow.Node{ID: "s2", Kind: flow.KindFinal, Width: 40, Height: 40, Synthetic: true}, &rep)

	if first.Left != syntheticX || first.Top != syntheticBaseY {
		t.Errorf("first synthetic node at (%d,%d), want (%d,%d)", first.Left, first.Top, syntheticX, syntheticBaseY)
	}
	if second.Top != syntheticBaseY+syntheticStrideY {
		t.Errorf("second synthetic node top = %d, want stacked below the first", second.Top)
	}
	if rep.Count() != 0 {
		t.Errorf("synthetic placement produced warnings: %v", rep.Warnings())
	}
}

func TestResolveSyntheticAvoidsOccupiedAnchor(t *testing.T) {
	r := newGeometryResolver(1400, 1000)
	var rep flow.Report

	placed := r.resolve(&flow.Node{
		ID: "n1", Kind: flow.KindAction, Label: "Archive",
		X: syntheticX, Y: syntheticBaseY, Width: 100, Height: 40, Placed: true,
	}, &rep)
	fin := r.resolve(&flow.Node{
		ID: "n2", Kind: flow.KindFinal, Width: 40, Height: 40, Synthetic: true,
	}, &rep)

	if placed.Left == fin.Left && placed.Top == fin.Top {
		t.Fatalf("synthetic node shares anchor (%d,%d) with a laid-out node", fin.Left, fin.Top)
	}
	if fin.Left != syntheticX || fin.Top != syntheticBaseY+syntheticStrideY {
		t.Errorf("synthetic node at (%d,%d), want stepped down within the column", fin.Left, fin.Top)
	}
}
