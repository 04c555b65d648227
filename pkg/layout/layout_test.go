package layout

import (
	"strings"
	"testing"

	"github.com/pzaremba/flowxmi/pkg/flow"
)

// testGraph builds a graph from compact node and edge specs.
// Nodes are "id:kind:label[:lane]", edges are "src->dst".
func testGraph(t *testing.T, lanes []string, nodes []string, edges []string) *flow.Graph {
	t.Helper()
	g := flow.New()
	for i, name := range lanes {
		if err := g.AddSwimlane(string(rune('a'+i)), name); err != nil {
			t.Fatalf("AddSwimlane(%q): %v", name, err)
		}
	}
	for _, spec := range nodes {
		parts := strings.Split(spec, ":")
		kind, ok := flow.ParseKind(parts[1])
		if !ok {
			t.Fatalf("bad kind in %q", spec)
		}
		n := flow.Node{ID: parts[0], Kind: kind, Label: parts[2]}
		if len(parts) > 3 {
			n.Swimlane = parts[3]
		}
		if err := g.AddNode(n); err != nil {
			t.Fatalf("AddNode(%q): %v", spec, err)
		}
	}
	for i, spec := range edges {
		src, dst, ok := strings.Cut(spec, "->")
		if !ok {
			t.Fatalf("bad edge %q", spec)
		}
		if err := g.AddEdge(flow.Edge{ID: string(rune('e')) + string(rune('0'+i)), Source: src, Target: dst}); err != nil {
			t.Fatalf("AddEdge(%q): %v", spec, err)
		}
	}
	return g
}

func TestMeasure(t *testing.T) {
	tests := []struct {
		name  string
		node  string
		wantW float64
		wantH float64
	}{
		{"initial circle", "n1:Initial:", 40, 40},
		{"final circle", "n1:Final:", 40, 40},
		{"decision diamond", "n1:Decision:in stock?", 80, 80},
		{"merge diamond", "n1:Merge:", 80, 80},
		{"note", "n1:Note:remember this", 80, 40},
		{"short action", "n1:Action:ship order", 100, 40},
		{"medium action", "n1:Action:" + strings.Repeat("m", 26), 120, 40},
		{"long action", "n1:Action:" + strings.Repeat("l", 41), 148, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := testGraph(t, nil, []string{tt.node}, nil)
			Measure(g)
			n, _ := g.Node("n1")
			if n.Width != tt.wantW || n.Height != tt.wantH {
				t.Errorf("size = %gx%g, want %gx%g", n.Width, n.Height, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestMeasureForkGrowsWithBranches(t *testing.T) {
	g := testGraph(t, nil,
		[]string{"f:Fork:", "a:Action:one", "b:Action:two", "c:Action:three", "d:Action:four"},
		[]string{"f->a", "f->b", "f->c", "f->d"},
	)
	Measure(g)

	n, _ := g.Node("f")
	if n.Width != 160 {
		t.Errorf("fork width = %g, want 160 for 4 branches", n.Width)
	}
	if n.Height != 10 {
		t.Errorf("fork height = %g, want 10", n.Height)
	}

	// Below the minimum branch count the bar keeps its floor width.
	g2 := testGraph(t, nil,
		[]string{"f:Fork:", "a:Action:one", "b:Action:two"},
		[]string{"f->a", "f->b"},
	)
	Measure(g2)
	n2, _ := g2.Node("f")
	if n2.Width != 100 {
		t.Errorf("fork width = %g, want minimum 100", n2.Width)
	}
}

func TestAssignLayersChain(t *testing.T) {
	g := testGraph(t, nil,
		[]string{"s:Initial:", "a:Action:validate", "f:Final:"},
		[]string{"s->a", "a->f"},
	)
	var rep flow.Report
	layers := AssignLayers(g, &rep)

	if len(layers) != 3 {
		t.Fatalf("layers = %d, want 3", len(layers))
	}
	for want, id := range []string{"s", "a", "f"} {
		n, _ := g.Node(id)
		if n.Layer != want {
			t.Errorf("node %s layer = %d, want %d", id, n.Layer, want)
		}
	}
	if rep.Count() != 0 {
		t.Errorf("unexpected warnings: %v", rep.Warnings())
	}
}

func TestAssignLayersMergeWaitsForAllBranches(t *testing.T) {
	// s -> d -> a -> m and d -> b -> c -> m: the merge must sit below the
	// longer branch, not next to it.
	g := testGraph(t, nil,
		[]string{"s:Initial:", "d:Decision:ok?", "a:Action:fast", "b:Action:slow", "c:Action:slower", "m:Merge:", "f:Final:"},
		[]string{"s->d", "d->a", "d->b", "b->c", "a->m", "c->m", "m->f"},
	)
	var rep flow.Report
	AssignLayers(g, &rep)

	m, _ := g.Node("m")
	c, _ := g.Node("c")
	if m.Layer <= c.Layer {
		t.Errorf("merge layer = %d, want below slower branch at %d", m.Layer, c.Layer)
	}
}

func TestAssignLayersOrphans(t *testing.T) {
	g := testGraph(t, nil,
		[]string{"s:Initial:", "a:Action:work", "x:Action:island", "note:Note:aside"},
		[]string{"s->a"},
	)
	var rep flow.Report
	layers := AssignLayers(g, &rep)

	last := layers[len(layers)-1]
	if len(last) != 2 {
		t.Fatalf("trailing layer = %v, want the island and the note", last)
	}
	if got := rep.CountCode(flow.WarnOrphanLayer); got != 1 {
		t.Errorf("orphan warnings = %d, want 1 (notes are exempt)", got)
	}
}

func TestLayoutDeterministic(t *testing.T) {
	build := func() *flow.Graph {
		return testGraph(t, []string{"Customer", "Backoffice"},
			[]string{
				"s:Initial::Customer",
				"a:Action:place order:Customer",
				"d:Decision:in stock?:Backoffice",
				"b:Action:ship:Backoffice",
				"c:Action:backorder:Backoffice",
				"m:Merge::Backoffice",
				"f:Final::Customer",
			},
			[]string{"s->a", "a->d", "d->b", "d->c", "b->m", "c->m", "m->f"},
		)
	}

	eng, err := New(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	g1, g2 := build(), build()
	var rep1, rep2 flow.Report
	if _, err := eng.Layout(g1, &rep1); err != nil {
		t.Fatal(err)
	}
	if _, err := eng.Layout(g2, &rep2); err != nil {
		t.Fatal(err)
	}

	for _, n1 := range g1.Nodes() {
		n2, ok := g2.Node(n1.ID)
		if !ok {
			t.Fatalf("node %s missing from second run", n1.ID)
		}
		if n1.X != n2.X || n1.Y != n2.Y {
			t.Errorf("node %s at (%g,%g) vs (%g,%g)", n1.ID, n1.X, n1.Y, n2.X, n2.Y)
		}
	}
}

func TestLayoutSeparatesNodes(t *testing.T) {
	// Ten actions in one layer force column reuse; the resolver must still
	// end without collisions.
	nodes := []string{"s:Initial:", "f:Fork:"}
	edges := []string{"s->f"}
	for i := 0; i < 10; i++ {
		id := "a" + string(rune('0'+i))
		nodes = append(nodes, id+":Action:step")
		edges = append(edges, "f->"+id)
	}
	g := testGraph(t, nil, nodes, edges)

	eng, err := New(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	var rep flow.Report
	if _, err := eng.Layout(g, &rep); err != nil {
		t.Fatal(err)
	}

	all := g.Nodes()
	for i := 0; i < len(all); i++ {
		for j := i + 1; j < len(all); j++ {
			if overlaps(all[i], all[j]) {
				t.Errorf("nodes %s and %s overlap", all[i].ID, all[j].ID)
			}
		}
	}
}

func TestBoundSwimlanes(t *testing.T) {
	cfg := DefaultConfig()
	g := testGraph(t, []string{"Customer", "Archive"},
		[]string{"s:Initial::Customer", "a:Action:order:Customer"},
		[]string{"s->a"},
	)

	eng, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	var rep flow.Report
	if _, err := eng.Layout(g, &rep); err != nil {
		t.Fatal(err)
	}

	lane, ok := g.Swimlane("Customer")
	if !ok {
		t.Fatal("Customer lane missing")
	}
	for _, id := range []string{"s", "a"} {
		n, _ := g.Node(id)
		if n.X < lane.X || n.X+n.Width > lane.X+lane.Width {
			t.Errorf("node %s outside lane horizontally", id)
		}
		if n.Y < lane.Y || n.Y+n.Height > lane.Y+lane.Height {
			t.Errorf("node %s outside lane vertically", id)
		}
	}

	empty, ok := g.Swimlane("Archive")
	if !ok {
		t.Fatal("Archive lane missing")
	}
	if empty.Width != emptyLaneWidth || empty.Height != emptyLaneHeight {
		t.Errorf("empty lane = %gx%g, want fallback %dx%d", empty.Width, empty.Height, emptyLaneWidth, emptyLaneHeight)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"zero canvas", func(c *Config) { c.CanvasWidth = 0 }, true},
		{"negative margin", func(c *Config) { c.MarginY = -1 }, true},
		{"margins exceed canvas", func(c *Config) { c.MarginX = 700 }, true},
		{"spacing below one", func(c *Config) { c.Spacing = 0.5 }, true},
		{"negative iterations", func(c *Config) { c.MaxOverlapIterations = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
