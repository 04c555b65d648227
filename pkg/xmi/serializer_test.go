package xmi

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"github.com/pzaremba/flowxmi/pkg/flow"
)

// placedNode adds a node with explicit geometry, as the layout engine would
// leave it.
func placedNode(t *testing.T, g *flow.Graph, id string, kind flow.Kind, label, lane string, x, y, w, h float64) {
	t.Helper()
	err := g.AddNode(flow.Node{
		ID: id, Kind: kind, Label: label, Swimlane: lane,
		X: x, Y: y, Width: w, Height: h, Placed: true,
	})
	if err != nil {
		t.Fatalf("AddNode(%s): %v", id, err)
	}
}

func addEdge(t *testing.T, g *flow.Graph, id, src, dst, guard string) {
	t.Helper()
	if err := g.AddEdge(flow.Edge{ID: id, Source: src, Target: dst, Guard: guard}); err != nil {
		t.Fatalf("AddEdge(%s->%s): %v", src, dst, err)
	}
}

// approvalGraph is a small two-branch flow used across the serializer tests.
func approvalGraph(t *testing.T) *flow.Graph {
	t.Helper()
	g := flow.New()
	if err := g.AddSwimlane("l1", "Clerk"); err != nil {
		t.Fatal(err)
	}
	if err := g.AddSwimlane("l2", "System"); err != nil {
		t.Fatal(err)
	}
	clerk, _ := g.Swimlane("Clerk")
	clerk.X, clerk.Y, clerk.Width, clerk.Height = 130, 50, 220, 770
	system, _ := g.Swimlane("System")
	system.X, system.Y, system.Width, system.Height = 430, 50, 360, 830
	placedNode(t, g, "s", flow.KindInitial, "", "Clerk", 200, 100, 40, 40)
	placedNode(t, g, "v", flow.KindAction, "Validate", "Clerk", 180, 260, 100, 40)
	placedNode(t, g, "d", flow.KindDecision, "Valid?", "System", 500, 420, 80, 80)
	placedNode(t, g, "ap", flow.KindAction, "Approve", "System", 480, 580, 100, 40)
	placedNode(t, g, "rj", flow.KindAction, "Reject", "System", 640, 580, 100, 40)
	placedNode(t, g, "f1", flow.KindFinal, "", "System", 510, 740, 40, 40)
	placedNode(t, g, "f2", flow.KindFinal, "", "System", 670, 740, 40, 40)
	addEdge(t, g, "e1", "s", "v", "")
	addEdge(t, g, "e2", "v", "d", "")
	addEdge(t, g, "e3", "d", "ap", "yes")
	addEdge(t, g, "e4", "d", "rj", "no")
	addEdge(t, g, "e5", "ap", "f1", "")
	addEdge(t, g, "e6", "rj", "f2", "")
	return g
}

func TestSerializeDeterministic(t *testing.T) {
	s := NewSerializer(Options{DiagramName: "Approval"})

	var rep1, rep2 flow.Report
	doc1, err := s.Serialize(approvalGraph(t), &rep1)
	if err != nil {
		t.Fatal(err)
	}
	doc2, err := s.Serialize(approvalGraph(t), &rep2)
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(doc1, doc2) {
		t.Error("two runs on identical input produced different documents")
	}
	if rep1.Count() != 0 {
		t.Errorf("unexpected diagnostics: %v", rep1.Warnings())
	}
}

func TestSerializeModelStructure(t *testing.T) {
	s := NewSerializer(Options{DiagramName: "Approval"})
	var rep flow.Report
	data, err := s.Serialize(approvalGraph(t), &rep)
	if err != nil {
		t.Fatal(err)
	}
	doc := string(data)

	for _, want := range []string{
		`<xmi:XMI xmi:version="2.1"`,
		`exporter="Enterprise Architect"`,
		`xmi:type="uml:Package"`,
		`xmi:type="uml:Activity"`,
		`xmi:type="uml:ActivityPartition" `,
		`name="Clerk"`,
		`xmi:type="uml:InitialNode"`,
		`xmi:type="uml:DecisionNode"`,
		`xmi:type="uml:ActivityFinalNode"`,
		`xmi:type="uml:ControlFlow"`,
		`<xmi:Extension extender="Enterprise Architect"`,
		`ea_type="ControlFlow"`,
		`Shape=Diamond;`,
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q", want)
		}
	}
}

func TestSerializeGuardAsNestedLiteral(t *testing.T) {
	s := NewSerializer(Options{DiagramName: "Approval"})
	var rep flow.Report
	data, err := s.Serialize(approvalGraph(t), &rep)
	if err != nil {
		t.Fatal(err)
	}
	doc := string(data)

	guards := regexp.MustCompile(`<guard xmi:type="uml:LiteralString" xmi:id="EAID_[0-9A-F_]+" value="(yes|no)">`).FindAllString(doc, -1)
	if len(guards) != 2 {
		t.Errorf("guard literals = %d, want 2:\n%v", len(guards), guards)
	}
}

func TestSerializeUniqueIdentifiers(t *testing.T) {
	s := NewSerializer(Options{DiagramName: "Approval"})
	var rep flow.Report
	data, err := s.Serialize(approvalGraph(t), &rep)
	if err != nil {
		t.Fatal(err)
	}

	ids := regexp.MustCompile(`xmi:id="([^"]+)"`).FindAllStringSubmatch(string(data), -1)
	seen := make(map[string]bool)
	for _, m := range ids {
		if seen[m[1]] {
			t.Errorf("duplicate xmi:id %q", m[1])
		}
		seen[m[1]] = true
	}
	if len(seen) == 0 {
		t.Fatal("no xmi:id attributes found")
	}
}

func TestSerializeUniqueAnchors(t *testing.T) {
	g := approvalGraph(t)
	// Force a collision: two nodes sharing one anchor.
	n, _ := g.Node("rj")
	ap, _ := g.Node("ap")
	n.X, n.Y = ap.X, ap.Y

	s := NewSerializer(Options{DiagramName: "Approval"})
	var rep flow.Report
	data, err := s.Serialize(g, &rep)
	if err != nil {
		t.Fatal(err)
	}

	if !rep.Has(flow.WarnFallbackGeometry) {
		t.Error("expected fallback-geometry warning for the colliding node")
	}

	anchors := make(map[string]bool)
	for _, m := range regexp.MustCompile(`geometry="Left=(-?\d+);Top=(-?\d+);`).FindAllStringSubmatch(string(data), -1) {
		key := m[1] + "," + m[2]
		if anchors[key] {
			t.Errorf("two elements share anchor (%s)", key)
		}
		anchors[key] = true
	}
}

func TestSerializeRoundTripCompleteness(t *testing.T) {
	g := approvalGraph(t)
	s := NewSerializer(Options{DiagramName: "Approval"})
	var rep flow.Report
	data, err := s.Serialize(g, &rep)
	if err != nil {
		t.Fatal(err)
	}
	doc := string(data)

	// Each node appears once in the model, once in the element records and
	// once in the diagram.
	if got := strings.Count(doc, `<node xmi:type=`); got != g.NodeCount() {
		t.Errorf("model node elements = %d, want %d", got, g.NodeCount())
	}
	if got := strings.Count(doc, `<element xmi:idref=`); got != g.NodeCount() {
		t.Errorf("extension element records = %d, want %d", got, g.NodeCount())
	}
	if got := strings.Count(doc, `<connector xmi:idref=`); got != g.EdgeCount() {
		t.Errorf("connector records = %d, want %d", got, g.EdgeCount())
	}
	if got := strings.Count(doc, `<edge xmi:type="uml:ControlFlow"`); got != g.EdgeCount() {
		t.Errorf("control flow edges = %d, want %d", got, g.EdgeCount())
	}
}

func TestSerializeSkipsZeroSizeNode(t *testing.T) {
	g := approvalGraph(t)
	broken, _ := g.Node("rj")
	broken.Width = 0

	s := NewSerializer(Options{DiagramName: "Approval"})
	var rep flow.Report
	data, err := s.Serialize(g, &rep)
	if err != nil {
		t.Fatal(err)
	}
	doc := string(data)

	if !rep.Has(flow.WarnElementSkipped) {
		t.Error("expected element-skipped warning")
	}
	if strings.Contains(doc, `name="Reject"`) {
		t.Error("skipped node still present in document")
	}
	// Its edges must disappear as well, the rest of the document survives.
	if got := strings.Count(doc, `<connector xmi:idref=`); got != 4 {
		t.Errorf("connector records = %d, want 4 after dropping the node's edges", got)
	}
	if !strings.Contains(doc, `name="Approve"`) {
		t.Error("healthy sibling missing from document")
	}
}

func TestSerializeSyntheticNodePlacement(t *testing.T) {
	g := flow.New()
	placedNode(t, g, "s", flow.KindInitial, "", "", 200, 100, 40, 40)
	placedNode(t, g, "a", flow.KindAction, "work", "", 180, 260, 100, 40)
	addEdge(t, g, "e1", "s", "a", "")
	if err := g.AddNode(flow.Node{
		ID: "final", Kind: flow.KindFinal, Synthetic: true, Width: 40, Height: 40,
	}); err != nil {
		t.Fatal(err)
	}
	addEdge(t, g, "e2", "a", "final", "")

	s := NewSerializer(Options{DiagramName: "Repaired"})
	var rep flow.Report
	data, err := s.Serialize(g, &rep)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(string(data), "Left=350;Top=100;") {
		t.Error("synthetic node not placed in the fixed fallback column")
	}
	if rep.Has(flow.WarnFallbackGeometry) {
		t.Errorf("synthetic placement should not count as fallback: %v", rep.Warnings())
	}
}

func TestSerializeCrossLaneRouting(t *testing.T) {
	g := flow.New()
	if err := g.AddSwimlane("l1", "A"); err != nil {
		t.Fatal(err)
	}
	if err := g.AddSwimlane("l2", "B"); err != nil {
		t.Fatal(err)
	}
	placedNode(t, g, "x", flow.KindAction, "hand over", "A", 150, 200, 100, 40)
	placedNode(t, g, "y", flow.KindAction, "receive", "B", 500, 200, 100, 40)
	addEdge(t, g, "e1", "x", "y", "")

	s := NewSerializer(Options{DiagramName: "Handover"})
	var rep flow.Report
	data, err := s.Serialize(g, &rep)
	if err != nil {
		t.Fatal(err)
	}
	doc := string(data)

	if !strings.Contains(doc, `routing="Orthogonal"`) {
		t.Error("cross-lane connector should route orthogonally")
	}
	if !strings.Contains(doc, `linemode="3"`) {
		t.Error("cross-lane connector should use linemode 3")
	}
	if !strings.Contains(doc, "Mode=3;TREE=OS;") {
		t.Error("cross-lane diagram link should use tree routing")
	}
}

func TestSerializeNoteBecomesComment(t *testing.T) {
	g := flow.New()
	placedNode(t, g, "a", flow.KindAction, "check stock", "", 150, 200, 100, 40)
	placedNode(t, g, "note", flow.KindNote, "nightly batch only", "", 400, 200, 80, 40)
	addEdge(t, g, "e1", "note", "a", "")

	s := NewSerializer(Options{DiagramName: "Annotated"})
	var rep flow.Report
	data, err := s.Serialize(g, &rep)
	if err != nil {
		t.Fatal(err)
	}
	doc := string(data)

	if !strings.Contains(doc, `<ownedComment xmi:type="uml:Comment"`) {
		t.Error("note missing as uml:Comment")
	}
	if !strings.Contains(doc, `<annotatedElement xmi:idref=`) {
		t.Error("comment not anchored to its neighbor")
	}
	if strings.Contains(doc, `<edge xmi:type="uml:ControlFlow"`) {
		t.Error("note edge must not become a control flow")
	}
}

func TestSerializeEmptyGraph(t *testing.T) {
	s := NewSerializer(Options{})
	var rep flow.Report
	if _, err := s.Serialize(flow.New(), &rep); err == nil {
		t.Error("expected error for empty graph")
	}
}

func TestSerializeLanesPrecedeNodes(t *testing.T) {
	g := approvalGraph(t)
	s := NewSerializer(Options{DiagramName: "Approval"})
	var rep flow.Report
	data, err := s.Serialize(g, &rep)
	if err != nil {
		t.Fatal(err)
	}
	doc := string(data)

	laneRecord := strings.Index(doc, laneStyle)
	nodeRecord := strings.Index(doc, "Shape=Circle;")
	if laneRecord < 0 || nodeRecord < 0 {
		t.Fatal("diagram records missing")
	}
	if laneRecord > nodeRecord {
		t.Error("swimlane records must precede node records in the diagram")
	}
}
