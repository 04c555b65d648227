package repair

import (
	"strings"

	"github.com/pzaremba/flowxmi/pkg/flow"
)

// Suggester proposes a target node for a decision branch that has no edge.
// Implementations must not modify the graph; the repairer adds the edge.
type Suggester interface {
	// SuggestMissingBranchTarget returns the node a new edge with the given
	// guard should point to, and whether a suggestion exists.
	SuggestMissingBranchTarget(g *flow.Graph, decision *flow.Node, guard string) (string, bool)
}

// NullSuggester never suggests a target. Decisions with missing branches are
// then only reported, never completed.
type NullSuggester struct{}

// SuggestMissingBranchTarget always returns false.
func (NullSuggester) SuggestMissingBranchTarget(*flow.Graph, *flow.Node, string) (string, bool) {
	return "", false
}

// Guard-specific label keywords. An unconnected action whose label contains
// one of these is a likely continuation of the matching branch.
var branchKeywords = map[string][]string{
	flow.GuardYes: {"success", "accept", "approve", "confirm", "complete", "ok"},
	flow.GuardNo:  {"fail", "error", "reject", "cancel", "abort", "retry", "deny"},
}

// KeywordSuggester completes missing decision branches with a cascade of
// heuristics, most specific first:
//
//  1. an unconnected action whose label matches the guard's keyword set,
//     preferring the decision's own swimlane
//  2. a merge or join node in the decision's swimlane
//  3. a final node in the decision's swimlane
//  4. any final node
//
// All candidate scans run in graph insertion order, so suggestions are
// deterministic.
type KeywordSuggester struct{}

func (KeywordSuggester) SuggestMissingBranchTarget(g *flow.Graph, decision *flow.Node, guard string) (string, bool) {
	if id, ok := keywordAction(g, decision, guard); ok {
		return id, true
	}
	for _, kind := range []flow.Kind{flow.KindMerge, flow.KindJoin} {
		for _, n := range g.NodesByKind(kind) {
			if n.ID != decision.ID && n.Swimlane == decision.Swimlane {
				return n.ID, true
			}
		}
	}
	var anyFinal string
	for _, n := range g.NodesByKind(flow.KindFinal) {
		if n.Swimlane == decision.Swimlane {
			return n.ID, true
		}
		if anyFinal == "" {
			anyFinal = n.ID
		}
	}
	if anyFinal != "" {
		return anyFinal, true
	}
	return "", false
}

// keywordAction looks for an action without incoming edges whose label
// matches the guard's keywords. Same-lane candidates win over others.
func keywordAction(g *flow.Graph, decision *flow.Node, guard string) (string, bool) {
	keywords := branchKeywords[guard]
	if len(keywords) == 0 {
		return "", false
	}

	var fallback string
	for _, n := range g.NodesByKind(flow.KindAction) {
		if n.ID == decision.ID || g.InDegree(n.ID) > 0 {
			continue
		}
		if !matchesAny(n.Label, keywords) {
			continue
		}
		if n.Swimlane == decision.Swimlane {
			return n.ID, true
		}
		if fallback == "" {
			fallback = n.ID
		}
	}
	if fallback != "" {
		return fallback, true
	}
	return "", false
}

func matchesAny(label string, keywords []string) bool {
	l := strings.ToLower(label)
	for _, kw := range keywords {
		if strings.Contains(l, kw) {
			return true
		}
	}
	return false
}
