package flow

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is empty.
	// All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists in the graph. Node IDs must be unique.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the Source node
	// does not exist in the graph.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the Target node
	// does not exist in the graph.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrDuplicateSwimlane is returned by [Graph.AddSwimlane] when a lane with
	// the same name was already registered.
	ErrDuplicateSwimlane = errors.New("duplicate swimlane name")
)

// Kind identifies the activity-diagram role of a node. The set is closed:
// every node carries exactly one of the eight kinds below.
type Kind int

const (
	// KindAction is a rounded-rectangle activity step.
	KindAction Kind = iota
	// KindInitial is the filled-circle entry point of the flow.
	KindInitial
	// KindFinal is the bullseye terminal node. Final nodes never have
	// outgoing edges after repair.
	KindFinal
	// KindDecision is a diamond branch point with guarded outgoing edges.
	KindDecision
	// KindMerge is a diamond join point reuniting decision branches.
	KindMerge
	// KindFork is a thin bar splitting control flow into parallel branches.
	KindFork
	// KindJoin is a thin bar synchronizing parallel branches.
	KindJoin
	// KindNote is an annotation attached to another element. Notes do not
	// participate in control flow.
	KindNote
)

var kindNames = [...]string{
	KindAction:   "Action",
	KindInitial:  "Initial",
	KindFinal:    "Final",
	KindDecision: "Decision",
	KindMerge:    "Merge",
	KindFork:     "Fork",
	KindJoin:     "Join",
	KindNote:     "Note",
}

// String returns the canonical name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Action"
}

// IsControl reports whether the kind is a control node (everything except
// Action and Note).
func (k Kind) IsControl() bool {
	return k != KindAction && k != KindNote
}

// ParseKind maps a kind name from the input contract to a Kind.
// The second return value is false for unknown names.
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return Kind(k), true
		}
	}
	return KindAction, false
}

// Node is a single activity-diagram element. Width/Height are filled by the
// dimension calculator and X/Y by the layout engine; both are zero until then.
// Nodes are owned by their Graph for the duration of one conversion.
type Node struct {
	ID       string
	Kind     Kind
	Label    string
	Swimlane string // lane name, empty when the node belongs to no lane

	Width  float64
	Height float64
	X      float64
	Y      float64
	Layer  int
	Placed bool // true once the layout engine assigned a position

	// Synthetic marks nodes created during structural repair rather than
	// taken from the input flow. They receive fallback geometry at
	// serialization time.
	Synthetic bool
}

// Edge is a guarded control flow between two nodes.
type Edge struct {
	ID     string
	Source string
	Target string
	Guard  string // normalized lowercase, e.g. "yes"/"no"; empty when unguarded
}

// Swimlane is a named partition grouping nodes by actor. Bounds are derived
// from member node positions after layout.
type Swimlane struct {
	ID     string
	Name   string
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Graph owns the nodes, edges and swimlanes of one conversion. All iteration
// helpers return elements in insertion order so downstream phases and the
// serialized output are deterministic. Graph is not safe for concurrent use.
type Graph struct {
	nodes    map[string]*Node
	order    []string
	edges    []Edge
	outgoing map[string][]string
	incoming map[string][]string
	lanes    []*Swimlane
	laneIdx  map[string]*Swimlane
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		nodes:    make(map[string]*Node),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
		laneIdx:  make(map[string]*Swimlane),
	}
}

// AddNode adds a node to the graph. Returns ErrInvalidNodeID for an empty ID
// or ErrDuplicateNodeID if the ID is already taken.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	node := &n
	g.nodes[node.ID] = node
	g.order = append(g.order, node.ID)
	return nil
}

// AddEdge adds a directed control flow between two existing nodes.
// Returns ErrUnknownSourceNode or ErrUnknownTargetNode if an endpoint is
// missing. Parallel edges are allowed here; the repair phase removes
// duplicates of the same (source, target, guard) triple.
func (g *Graph) AddEdge(e Edge) error {
	if _, ok := g.nodes[e.Source]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := g.nodes[e.Target]; !ok {
		return ErrUnknownTargetNode
	}
	g.edges = append(g.edges, e)
	g.outgoing[e.Source] = append(g.outgoing[e.Source], e.Target)
	g.incoming[e.Target] = append(g.incoming[e.Target], e.Source)
	return nil
}

// RemoveEdge removes the first edge matching (source, target, guard).
// No error is returned if no such edge exists.
func (g *Graph) RemoveEdge(source, target, guard string) {
	idx := slices.IndexFunc(g.edges, func(e Edge) bool {
		return e.Source == source && e.Target == target && e.Guard == guard
	})
	if idx < 0 {
		return
	}
	g.edges = slices.Delete(g.edges, idx, idx+1)
	if i := slices.Index(g.outgoing[source], target); i >= 0 {
		g.outgoing[source] = slices.Delete(g.outgoing[source], i, i+1)
	}
	if i := slices.Index(g.incoming[target], source); i >= 0 {
		g.incoming[target] = slices.Delete(g.incoming[target], i, i+1)
	}
}

// AddSwimlane registers a named lane. Lane order is preserved for layout
// column assignment and serialization.
func (g *Graph) AddSwimlane(id, name string) error {
	if _, exists := g.laneIdx[name]; exists {
		return ErrDuplicateSwimlane
	}
	lane := &Swimlane{ID: id, Name: name}
	g.lanes = append(g.lanes, lane)
	g.laneIdx[name] = lane
	return nil
}

// Node returns the node with the given ID and true, or nil and false.
// The returned pointer refers to the graph's node, so position and dimension
// updates are visible to later phases.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	nodes := make([]*Node, 0, len(g.order))
	for _, id := range g.order {
		nodes = append(nodes, g.nodes[id])
	}
	return nodes
}

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Children returns the target IDs of the node's outgoing edges.
// The returned slice is a read-only view.
func (g *Graph) Children(id string) []string { return g.outgoing[id] }

// Parents returns the source IDs of the node's incoming edges.
// The returned slice is a read-only view.
func (g *Graph) Parents(id string) []string { return g.incoming[id] }

// OutDegree returns the number of outgoing edges from the node.
func (g *Graph) OutDegree(id string) int { return len(g.outgoing[id]) }

// InDegree returns the number of incoming edges to the node.
func (g *Graph) InDegree(id string) int { return len(g.incoming[id]) }

// Swimlanes returns the lanes in registration order. The returned slice
// contains pointers to the actual lanes, so bound updates affect the graph.
func (g *Graph) Swimlanes() []*Swimlane { return g.lanes }

// Swimlane returns the lane with the given name and true, or nil and false.
func (g *Graph) Swimlane(name string) (*Swimlane, bool) {
	l, ok := g.laneIdx[name]
	return l, ok
}

// CrossesSwimlane reports whether the edge connects nodes in two different,
// non-empty lanes. Cross-lane connectors are routed orthogonally by the
// serializer.
func (g *Graph) CrossesSwimlane(e Edge) bool {
	src, okS := g.nodes[e.Source]
	dst, okD := g.nodes[e.Target]
	if !okS || !okD {
		return false
	}
	return src.Swimlane != "" && dst.Swimlane != "" && src.Swimlane != dst.Swimlane
}

// NodesByKind returns all nodes of the given kind in insertion order.
func (g *Graph) NodesByKind(kind Kind) []*Node {
	var nodes []*Node
	for _, id := range g.order {
		if n := g.nodes[id]; n.Kind == kind {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// GuardedEdges returns the outgoing edges of the node keyed by guard value.
// Unguarded edges are grouped under the empty string.
func (g *Graph) GuardedEdges(id string) map[string][]Edge {
	byGuard := make(map[string][]Edge)
	for _, e := range g.edges {
		if e.Source == id {
			byGuard[e.Guard] = append(byGuard[e.Guard], e)
		}
	}
	return byGuard
}
