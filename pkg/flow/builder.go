package flow

import (
	"fmt"
	"strings"

	"github.com/pzaremba/flowxmi/pkg/errors"
)

// Guard values recognized on decision branches. The builder normalizes
// guards to lowercase and maps the legacy Polish labels onto these.
const (
	GuardYes = "yes"
	GuardNo  = "no"
)

// legacyGuards maps guard spellings from older diagram sources onto the
// canonical vocabulary. Unknown guard strings pass through untouched.
var legacyGuards = map[string]string{
	"tak": GuardYes,
	"nie": GuardNo,
}

// NormalizeGuard lowercases a guard label and maps legacy spellings to the
// canonical "yes"/"no" vocabulary.
func NormalizeGuard(guard string) string {
	g := strings.ToLower(strings.TrimSpace(guard))
	if canonical, ok := legacyGuards[g]; ok {
		return canonical
	}
	return g
}

// Item is one entry of the ordered flow list produced by the external
// diagram-source parser. ID is the parser's identifier; connections reference
// items by it.
type Item struct {
	ID       string `json:"id"`
	Kind     string `json:"kind"`
	Label    string `json:"label"`
	Swimlane string `json:"swimlane,omitempty"`
}

// Connection is a control flow between two flow items, referencing their
// parser IDs.
type Connection struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Guard  string `json:"guard,omitempty"`
}

// Document is the input contract of one conversion: the ordered flow items,
// the connections between them, and the swimlane name set.
type Document struct {
	Title       string       `json:"title,omitempty"`
	Swimlanes   []string     `json:"swimlanes,omitempty"`
	Flows       []Item       `json:"flows"`
	Connections []Connection `json:"connections,omitempty"`
}

// Build turns a Document into a populated Graph, not yet sized or positioned.
//
// One node is created per flow item with a fresh unique ID. A later labeled
// item with identical (kind, label, swimlane) does not create a second node:
// its parser ID is aliased to the existing node and all connection references
// resolve to it (duplicate suppression). Unlabeled items are never unified;
// a diagram routinely ends in several distinct Final markers. Connections
// referencing an unknown parser ID are dropped and recorded as a warning.
//
// Build fails with an INVALID_INPUT error for structurally malformed input:
// empty or duplicate item IDs, unknown kinds, connections with empty
// endpoints, or items referencing an undeclared swimlane. Fatal input errors
// produce no partial graph.
func Build(doc *Document, rep *Report) (*Graph, error) {
	if doc == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "input document is nil")
	}
	if len(doc.Flows) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "input document has no flow items")
	}

	g := New()
	for i, name := range doc.Swimlanes {
		if err := errors.ValidateSwimlaneName(name); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "swimlane %d", i)
		}
		if err := g.AddSwimlane(fmt.Sprintf("lane%d", i+1), name); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "swimlane %q", name)
		}
	}

	// alias maps parser IDs to graph node IDs; identity is
	// (kind, label, swimlane) so duplicate items share one node.
	alias := make(map[string]string, len(doc.Flows))
	identity := make(map[string]string, len(doc.Flows))

	for i, item := range doc.Flows {
		if item.ID == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "flow item %d has an empty id", i)
		}
		if _, seen := alias[item.ID]; seen {
			return nil, errors.New(errors.ErrCodeInvalidInput, "flow item id %q appears twice", item.ID)
		}
		kind, ok := ParseKind(item.Kind)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidKind, "flow item %q has unknown kind %q", item.ID, item.Kind)
		}
		if err := errors.ValidateLabel(item.Label); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "flow item %q", item.ID)
		}
		if item.Swimlane != "" {
			if _, ok := g.Swimlane(item.Swimlane); !ok {
				return nil, errors.New(errors.ErrCodeInvalidInput,
					"flow item %q references undeclared swimlane %q", item.ID, item.Swimlane)
			}
		}

		// Only labeled items take part in duplicate suppression. Unlabeled
		// markers (Initial, Final, Fork, ...) are distinct by construction.
		key := identityKey(kind, item.Label, item.Swimlane)
		if item.Label != "" {
			if existing, dup := identity[key]; dup {
				alias[item.ID] = existing
				rep.Add(WarnDuplicateNodeMerged, existing,
					"flow item %q duplicates %s %q in lane %q, unified", item.ID, kind, item.Label, item.Swimlane)
				continue
			}
		}

		nodeID := fmt.Sprintf("n%d", g.NodeCount()+1)
		if err := g.AddNode(Node{
			ID:       nodeID,
			Kind:     kind,
			Label:    item.Label,
			Swimlane: item.Swimlane,
		}); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "flow item %q", item.ID)
		}
		alias[item.ID] = nodeID
		if item.Label != "" {
			identity[key] = nodeID
		}
	}

	edgeSeq := 0
	for i, conn := range doc.Connections {
		if conn.Source == "" || conn.Target == "" {
			return nil, errors.New(errors.ErrCodeInvalidConnection,
				"connection %d has an empty endpoint (%q -> %q)", i, conn.Source, conn.Target)
		}
		src, okS := alias[conn.Source]
		dst, okD := alias[conn.Target]
		if !okS || !okD {
			rep.Add(WarnConnectionDropped, "",
				"connection %q -> %q references an unknown flow item", conn.Source, conn.Target)
			continue
		}
		edgeSeq++
		if err := g.AddEdge(Edge{
			ID:     fmt.Sprintf("e%d", edgeSeq),
			Source: src,
			Target: dst,
			Guard:  NormalizeGuard(conn.Guard),
		}); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConnection, err, "connection %q -> %q", conn.Source, conn.Target)
		}
	}

	return g, nil
}

func identityKey(kind Kind, label, swimlane string) string {
	return kind.String() + "\x00" + label + "\x00" + swimlane
}
