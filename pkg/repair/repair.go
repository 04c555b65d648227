// Package repair restores structural invariants of an activity graph before
// serialization: final nodes keep no outgoing edges, decisions carry both
// branches, every non-terminal node leads somewhere, and reachability
// problems are surfaced as diagnostics.
//
// Repair is idempotent. Running it on an already repaired graph changes
// nothing and adds no diagnostics beyond the unreachability reports, which
// restate the same facts on every run.
package repair

import (
	"fmt"

	"github.com/pzaremba/flowxmi/pkg/errors"
	"github.com/pzaremba/flowxmi/pkg/flow"
)

// Repairer applies the structural repair passes with a pluggable
// branch-target heuristic. The zero value uses [KeywordSuggester].
type Repairer struct {
	suggester Suggester
}

// New creates a Repairer. A nil suggester selects [KeywordSuggester].
func New(s Suggester) *Repairer {
	if s == nil {
		s = KeywordSuggester{}
	}
	return &Repairer{suggester: s}
}

// Repair runs all passes on g in place, in a fixed order:
//
//  1. drop edges leaving final nodes and self-loops
//  2. drop duplicate (source, target, guard) edges
//  3. complete decisions missing a yes/no branch via the suggester
//  4. connect dead-end nodes to a final node, creating one if needed
//  5. report nodes unreachable from any initial node
//
// Every change is recorded in rep. Notes are exempt from the dead-end and
// reachability passes because they carry no control flow.
func (r *Repairer) Repair(g *flow.Graph, rep *flow.Report) error {
	if g == nil {
		return errors.New(errors.ErrCodeInternal, "repair called with nil graph")
	}
	r.dropInvalidEdges(g, rep)
	r.dropDuplicateEdges(g, rep)
	r.completeDecisions(g, rep)
	r.connectDeadEnds(g, rep)
	r.reportUnreachable(g, rep)
	return nil
}

func (r *Repairer) dropInvalidEdges(g *flow.Graph, rep *flow.Report) {
	for _, e := range g.Edges() {
		src, ok := g.Node(e.Source)
		if !ok {
			continue
		}
		switch {
		case src.Kind == flow.KindFinal:
			g.RemoveEdge(e.Source, e.Target, e.Guard)
			rep.Add(flow.WarnInvalidEdgeRemoved, e.Source,
				"removed edge %s -> %s leaving final node", e.Source, e.Target)
		case e.Source == e.Target:
			g.RemoveEdge(e.Source, e.Target, e.Guard)
			rep.Add(flow.WarnInvalidEdgeRemoved, e.Source,
				"removed self-loop on %s", e.Source)
		}
	}
}

func (r *Repairer) dropDuplicateEdges(g *flow.Graph, rep *flow.Report) {
	type triple struct{ src, dst, guard string }
	seen := make(map[triple]bool, g.EdgeCount())
	for _, e := range g.Edges() {
		key := triple{e.Source, e.Target, e.Guard}
		if seen[key] {
			g.RemoveEdge(e.Source, e.Target, e.Guard)
			rep.Add(flow.WarnDuplicateEdgeRemoved, e.Source,
				"removed duplicate edge %s -> %s (guard %q)", e.Source, e.Target, e.Guard)
			continue
		}
		seen[key] = true
	}
}

// completeDecisions gives every decision a second branch. A decision with
// two or more outgoing edges is left alone regardless of its guards; a
// decision with fewer asks the suggester for the missing branch's target.
func (r *Repairer) completeDecisions(g *flow.Graph, rep *flow.Report) {
	for _, d := range g.NodesByKind(flow.KindDecision) {
		for g.OutDegree(d.ID) < 2 {
			guard := missingGuard(g, d.ID)
			target, ok := r.suggester.SuggestMissingBranchTarget(g, d, guard)
			if !ok {
				rep.Add(flow.WarnDecisionIncomplete, d.ID,
					"decision %q has no %q branch and no target could be suggested", d.Label, guard)
				break
			}
			if err := g.AddEdge(flow.Edge{
				ID:     syntheticEdgeID(g),
				Source: d.ID,
				Target: target,
				Guard:  guard,
			}); err != nil {
				rep.Add(flow.WarnDecisionIncomplete, d.ID,
					"decision %q: suggested target %q rejected: %v", d.Label, target, err)
				break
			}
			rep.Add(flow.WarnDecisionRepaired, d.ID,
				"connected %q branch of decision %q to %s", guard, d.Label, target)
		}
	}
}

// missingGuard picks the canonical guard absent from the decision's
// outgoing edges, defaulting to "no" when both are taken by other guards.
func missingGuard(g *flow.Graph, id string) string {
	present := g.GuardedEdges(id)
	if _, ok := present[flow.GuardYes]; !ok {
		return flow.GuardYes
	}
	if _, ok := present[flow.GuardNo]; !ok {
		return flow.GuardNo
	}
	return flow.GuardNo
}

// connectDeadEnds routes every non-terminal node without outgoing edges to a
// final node: one in the node's own lane if present, any final otherwise,
// and a synthetic final created on demand when the graph has none.
func (r *Repairer) connectDeadEnds(g *flow.Graph, rep *flow.Report) {
	var deadEnds []*flow.Node
	for _, n := range g.Nodes() {
		if n.Kind == flow.KindFinal || n.Kind == flow.KindNote {
			continue
		}
		if g.OutDegree(n.ID) == 0 {
			deadEnds = append(deadEnds, n)
		}
	}
	if len(deadEnds) == 0 {
		return
	}

	for _, n := range deadEnds {
		target := pickFinal(g, n.Swimlane)
		if target == "" {
			target = syntheticNodeID(g, "final")
			if err := g.AddNode(flow.Node{
				ID:        target,
				Kind:      flow.KindFinal,
				Swimlane:  n.Swimlane,
				Synthetic: true,
			}); err != nil {
				rep.Add(flow.WarnDeadEndConnected, n.ID,
					"dead end %q could not be terminated: %v", n.Label, err)
				continue
			}
		}
		if err := g.AddEdge(flow.Edge{
			ID:     syntheticEdgeID(g),
			Source: n.ID,
			Target: target,
			Guard:  "",
		}); err != nil {
			rep.Add(flow.WarnDeadEndConnected, n.ID,
				"dead end %q could not be terminated: %v", n.Label, err)
			continue
		}
		rep.Add(flow.WarnDeadEndConnected, n.ID,
			"connected dead end %s %q to final node %s", n.Kind, n.Label, target)
	}
}

// pickFinal returns a final node preferring the given lane, or "" when the
// graph has no final node at all.
func pickFinal(g *flow.Graph, lane string) string {
	var any string
	for _, n := range g.NodesByKind(flow.KindFinal) {
		if n.Swimlane == lane {
			return n.ID
		}
		if any == "" {
			any = n.ID
		}
	}
	return any
}

// reportUnreachable walks forward from every initial node with a worklist
// and reports each flow node the walk never visits. The graph itself is not
// changed; unreachable fragments stay in the output for the modeler to fix.
func (r *Repairer) reportUnreachable(g *flow.Graph, rep *flow.Report) {
	initials := g.NodesByKind(flow.KindInitial)
	if len(initials) == 0 {
		return
	}

	visited := make(map[string]bool, g.NodeCount())
	work := make([]string, 0, len(initials))
	for _, n := range initials {
		visited[n.ID] = true
		work = append(work, n.ID)
	}
	for len(work) > 0 {
		curr := work[0]
		work = work[1:]
		for _, child := range g.Children(curr) {
			if !visited[child] {
				visited[child] = true
				work = append(work, child)
			}
		}
	}

	for _, n := range g.Nodes() {
		if visited[n.ID] || n.Kind == flow.KindNote {
			continue
		}
		rep.Add(flow.WarnUnreachableNode, n.ID,
			"%s %q is not reachable from any initial node", n.Kind, n.Label)
	}
}

// syntheticNodeID returns the first free ID of the form prefix, prefix2,
// prefix3 and so on.
func syntheticNodeID(g *flow.Graph, prefix string) string {
	if _, taken := g.Node(prefix); !taken {
		return prefix
	}
	for i := 2; ; i++ {
		id := fmt.Sprintf("%s%d", prefix, i)
		if _, taken := g.Node(id); !taken {
			return id
		}
	}
}

// syntheticEdgeID returns a fresh "eN" identifier not used by any existing
// edge, so repair-added edges never shadow builder-assigned ones.
func syntheticEdgeID(g *flow.Graph) string {
	taken := make(map[string]bool, g.EdgeCount())
	for _, e := range g.Edges() {
		taken[e.ID] = true
	}
	for i := g.EdgeCount() + 1; ; i++ {
		id := fmt.Sprintf("e%d", i)
		if !taken[id] {
			return id
		}
	}
}
