package render

import (
	"strings"
	"testing"

	"github.com/pzaremba/flowxmi/pkg/flow"
)

func previewGraph(t *testing.T) *flow.Graph {
	t.Helper()
	g := flow.New()
	if err := g.AddSwimlane("lane1", "Clerk"); err != nil {
		t.Fatal(err)
	}
	nodes := []flow.Node{
		{ID: "n1", Kind: flow.KindInitial, Swimlane: "Clerk"},
		{ID: "n2", Kind: flow.KindAction, Label: "Check order", Swimlane: "Clerk"},
		{ID: "n3", Kind: flow.KindDecision, Label: "Valid?", Swimlane: "Clerk"},
		{ID: "n4", Kind: flow.KindFinal},
		{ID: "n5", Kind: flow.KindNote, Label: "See policy"},
	}
	for _, n := range nodes {
		if err := g.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	edges := []flow.Edge{
		{ID: "e1", Source: "n1", Target: "n2"},
		{ID: "e2", Source: "n2", Target: "n3"},
		{ID: "e3", Source: "n3", Target: "n4", Guard: "yes"},
	}
	for _, e := range edges {
		if err := g.AddEdge(e); err != nil {
			t.Fatal(err)
		}
	}
	return g
}

func TestToDOTShapes(t *testing.T) {
	dot := ToDOT(previewGraph(t), Options{})

	for _, want := range []string{
		"digraph G {",
		"shape=circle",       // initial
		"shape=doublecircle", // final
		"shape=diamond",      // decision
		"shape=note",
		`label="Check order"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOTSwimlaneCluster(t *testing.T) {
	dot := ToDOT(previewGraph(t), Options{})

	if !strings.Contains(dot, "subgraph cluster_0") {
		t.Error("swimlane should become a cluster")
	}
	if !strings.Contains(dot, `label="Clerk"`) {
		t.Error("cluster should carry the lane name")
	}

	// Lane members render inside the cluster, free nodes outside.
	cluster := dot[strings.Index(dot, "subgraph cluster_0"):]
	cluster = cluster[:strings.Index(cluster, "}")]
	if !strings.Contains(cluster, `"n2"`) {
		t.Error("lane member should be inside the cluster")
	}
	if strings.Contains(cluster, `"n4"`) {
		t.Error("free node should not be inside the cluster")
	}
}

func TestToDOTGuardLabels(t *testing.T) {
	dot := ToDOT(previewGraph(t), Options{})

	if !strings.Contains(dot, `"n3" -> "n4" [label="[yes]"]`) {
		t.Errorf("guarded edge should carry a bracketed label:\n%s", dot)
	}
	if !strings.Contains(dot, `"n1" -> "n2";`) {
		t.Error("unguarded edge should have no label")
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(previewGraph(t), Options{Detailed: true})

	if !strings.Contains(dot, "id: n2") {
		t.Error("detailed mode should include node IDs")
	}
	if !strings.Contains(dot, "lane: Clerk") {
		t.Error("detailed mode should include the swimlane")
	}
}

func TestToDOTDeterministic(t *testing.T) {
	g := previewGraph(t)
	if ToDOT(g, Options{}) != ToDOT(g, Options{}) {
		t.Error("DOT output must be deterministic")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="8pt" height="6pt" viewBox="0.00 0.00 100.75 200.00">`)
	out := string(normalizeViewBox(in))

	if !strings.Contains(out, `viewBox="0 0 100.75 200.00"`) {
		t.Errorf("viewBox not normalized: %s", out)
	}
	if !strings.Contains(out, `width="101"`) || !strings.Contains(out, `height="200"`) {
		t.Errorf("dimensions not rewritten: %s", out)
	}
}
