package flow

import "fmt"

// WarningCode identifies a class of non-fatal structural diagnostics.
// Warnings are collected into a [Report] and returned alongside the output;
// they never abort a conversion.
type WarningCode string

// Warning codes emitted across the pipeline.
const (
	// WarnConnectionDropped: an input connection referenced an unknown flow
	// item and was discarded by the builder.
	WarnConnectionDropped WarningCode = "connection-dropped"

	// WarnDuplicateNodeMerged: two flow items with identical
	// (kind, label, swimlane) were unified into a single node.
	WarnDuplicateNodeMerged WarningCode = "duplicate-node-merged"

	// WarnInvalidEdgeRemoved: an edge originated at a Final node or was a
	// self-loop and was dropped during repair.
	WarnInvalidEdgeRemoved WarningCode = "invalid-edge-removed"

	// WarnDuplicateEdgeRemoved: an edge duplicated an existing
	// (source, target, guard) triple and was dropped during repair.
	WarnDuplicateEdgeRemoved WarningCode = "duplicate-edge-removed"

	// WarnDecisionRepaired: a missing decision branch was completed by the
	// branch-target heuristic.
	WarnDecisionRepaired WarningCode = "decision-branch-repaired"

	// WarnDecisionIncomplete: a decision is missing a branch and no suitable
	// target could be suggested.
	WarnDecisionIncomplete WarningCode = "decision-branch-incomplete"

	// WarnDeadEndConnected: a non-terminal node without outgoing edges was
	// connected to a Final node during repair.
	WarnDeadEndConnected WarningCode = "dead-end-connected"

	// WarnUnreachableNode: the node cannot be reached from any Initial node.
	WarnUnreachableNode WarningCode = "unreachable-node"

	// WarnOrphanLayer: leveling could not reach the node through predecessor
	// edges; it was placed in the trailing orphan layer.
	WarnOrphanLayer WarningCode = "orphan-layer"

	// WarnUnresolvedOverlap: bounding boxes still collide after the overlap
	// resolver hit its iteration cap.
	WarnUnresolvedOverlap WarningCode = "unresolved-overlap"

	// WarnFallbackGeometry: a node failed geometry validation at emission
	// time and received a deterministic fallback position.
	WarnFallbackGeometry WarningCode = "fallback-geometry"

	// WarnElementSkipped: an element violated a required invariant at
	// emission time and was omitted from the document.
	WarnElementSkipped WarningCode = "element-skipped"
)

// Warning is a single diagnostic entry. Subject names the node or edge the
// warning refers to, when one applies.
type Warning struct {
	Code    WarningCode `json:"code"`
	Subject string      `json:"subject,omitempty"`
	Message string      `json:"message"`
}

func (w Warning) String() string {
	if w.Subject != "" {
		return fmt.Sprintf("%s [%s]: %s", w.Code, w.Subject, w.Message)
	}
	return fmt.Sprintf("%s: %s", w.Code, w.Message)
}

// Report collects the diagnostics of one conversion. The zero value is ready
// to use. Reports are per-conversion and never shared across requests.
type Report struct {
	warnings []Warning
}

// Add records a warning with a formatted message.
func (r *Report) Add(code WarningCode, subject, format string, args ...any) {
	r.warnings = append(r.warnings, Warning{
		Code:    code,
		Subject: subject,
		Message: fmt.Sprintf(format, args...),
	})
}

// Warnings returns all collected warnings in the order they were recorded.
func (r *Report) Warnings() []Warning { return r.warnings }

// Count returns the number of collected warnings.
func (r *Report) Count() int { return len(r.warnings) }

// CountCode returns the number of warnings with the given code.
func (r *Report) CountCode(code WarningCode) int {
	n := 0
	for _, w := range r.warnings {
		if w.Code == code {
			n++
		}
	}
	return n
}

// Has reports whether any warning with the given code was recorded.
func (r *Report) Has(code WarningCode) bool { return r.CountCode(code) > 0 }

// ByCode returns all warnings with the given code, in recording order.
func (r *Report) ByCode(code WarningCode) []Warning {
	var out []Warning
	for _, w := range r.warnings {
		if w.Code == code {
			out = append(out, w)
		}
	}
	return out
}
