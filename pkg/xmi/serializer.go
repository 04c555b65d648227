// Package xmi emits Enterprise Architect XMI 2.1 documents from laid-out
// activity graphs.
//
// A document has three parts: the UML model (activity, partitions, nodes and
// control flows), EA's extension block (element records, connector records)
// and the diagram section carrying geometry and styles. EA's importer reads
// all three; a missing extension record makes the element invisible even
// when the model is complete.
//
// Serialization is deterministic: element identifiers are name-based UUIDs
// derived from the document title and graph IDs, local IDs follow emission
// order, and all collections are walked in graph insertion order.
package xmi

import (
	"fmt"

	"github.com/pzaremba/flowxmi/pkg/errors"
	"github.com/pzaremba/flowxmi/pkg/flow"
)

// Options configures document metadata. Zero fields fall back to defaults;
// the timestamps default to a fixed value so output stays reproducible
// unless the caller opts into real dates.
type Options struct {
	DiagramName  string
	Author       string
	Version      string
	Created      string // "2006-01-02 15:04:05"
	Modified     string
	CanvasWidth  float64
	CanvasHeight float64
}

const defaultTimestamp = "2025-01-01 00:00:00"

func (o *Options) setDefaults() {
	if o.DiagramName == "" {
		o.DiagramName = "Activity Diagram"
	}
	if o.Author == "" {
		o.Author = "flowxmi"
	}
	if o.Version == "" {
		o.Version = "1.0"
	}
	if o.Created == "" {
		o.Created = defaultTimestamp
	}
	if o.Modified == "" {
		o.Modified = o.Created
	}
	if o.CanvasWidth <= 0 {
		o.CanvasWidth = 1400
	}
	if o.CanvasHeight <= 0 {
		o.CanvasHeight = 1000
	}
}

// Serializer renders graphs into EA XMI documents. A Serializer is stateless
// across calls and safe for concurrent use.
type Serializer struct {
	opts Options
}

// NewSerializer creates a serializer with the given options.
func NewSerializer(opts Options) *Serializer {
	opts.setDefaults()
	return &Serializer{opts: opts}
}

// Serialize renders g as an XMI 2.1 document.
//
// An edge referencing a node absent from the graph is unrepairable at this
// point and aborts with a SERIALIZATION_ERROR. Nodes with broken dimensions
// are omitted (with their edges) and reported; nodes with invalid positions
// get deterministic fallback geometry.
func (s *Serializer) Serialize(g *flow.Graph, rep *flow.Report) ([]byte, error) {
	if g == nil || g.NodeCount() == 0 {
		return nil, errors.New(errors.ErrCodeSerialization, "nothing to serialize")
	}
	if err := checkEdgeRefs(g); err != nil {
		return nil, err
	}

	d := &docBuilder{
		g:    g,
		opts: s.opts,
		ids:  newIDAllocator(s.opts.DiagramName),
		geo:  newGeometryResolver(s.opts.CanvasWidth, s.opts.CanvasHeight),
		rep:  rep,
		skip: make(map[string]bool),
	}
	d.validateNodes()

	root := newElem("xmi:XMI").
		attr("xmi:version", "2.1").
		attr("xmlns:uml", "http://schema.omg.org/spec/UML/2.1").
		attr("xmlns:xmi", "http://schema.omg.org/spec/XMI/2.1")
	root.child("xmi:Documentation").
		attr("exporter", "Enterprise Architect").
		attr("exporterVersion", "6.5").
		attr("exporterID", "1560")

	d.buildModel(root)
	d.buildExtension(root)

	data, err := root.render()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSerialization, err, "render document")
	}
	return data, nil
}

// checkEdgeRefs rejects edges whose endpoints left the graph. The graph API
// keeps adjacency consistent, so a dangling reference means corruption
// upstream and the document cannot be trusted.
func checkEdgeRefs(g *flow.Graph) error {
	for _, e := range g.Edges() {
		if _, ok := g.Node(e.Source); !ok {
			return errors.New(errors.ErrCodeSerialization, "edge %s references missing source %s", e.ID, e.Source)
		}
		if _, ok := g.Node(e.Target); !ok {
			return errors.New(errors.ErrCodeSerialization, "edge %s references missing target %s", e.ID, e.Target)
		}
	}
	return nil
}

// docBuilder carries the state of one document emission.
type docBuilder struct {
	g    *flow.Graph
	opts Options
	ids  *idAllocator
	geo  *geometryResolver
	rep  *flow.Report
	skip map[string]bool // node IDs omitted from the document

	pkgID      string
	activityID string
	diagramID  string
}

// validateNodes finds nodes that cannot be emitted at all. Their edges are
// dropped alongside, otherwise the model would carry dangling references.
func (d *docBuilder) validateNodes() {
	for _, n := range d.g.Nodes() {
		if n.Width <= 0 || n.Height <= 0 {
			d.skip[n.ID] = true
			d.rep.Add(flow.WarnElementSkipped, n.ID,
				"%s %q has invalid dimensions %gx%g, omitted from document", n.Kind, n.Label, n.Width, n.Height)
		}
	}
}

func (d *docBuilder) nodes() []*flow.Node {
	var out []*flow.Node
	for _, n := range d.g.Nodes() {
		if !d.skip[n.ID] {
			out = append(out, n)
		}
	}
	return out
}

// flowEdges returns the control-flow edges to emit: edges between two kept
// non-note nodes. Edges touching notes become comment anchors instead.
func (d *docBuilder) flowEdges() []flow.Edge {
	var out []flow.Edge
	for _, e := range d.g.Edges() {
		if d.skip[e.Source] || d.skip[e.Target] {
			continue
		}
		if d.isNote(e.Source) || d.isNote(e.Target) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func (d *docBuilder) isNote(id string) bool {
	n, ok := d.g.Node(id)
	return ok && n.Kind == flow.KindNote
}

// ===== Model Section =====

func (d *docBuilder) buildModel(root *elem) {
	d.pkgID = d.ids.PackageID("package")
	d.activityID = d.ids.ElementID("activity")
	d.diagramID = d.ids.ElementID("diagram")
	d.ids.LocalID("package")
	d.ids.LocalID("activity")

	model := root.child("uml:Model").
		attr("xmi:type", "uml:Model").
		attr("name", "EA_Model").
		attr("visibility", "public")
	pkg := model.child("packagedElement").
		attr("xmi:type", "uml:Package").
		attr("xmi:id", d.pkgID).
		attr("name", d.opts.DiagramName).
		attr("visibility", "public")
	act := pkg.child("packagedElement").
		attr("xmi:type", "uml:Activity").
		attr("xmi:id", d.activityID).
		attr("name", "EA_Activity1").
		attr("visibility", "public")

	for _, lane := range d.g.Swimlanes() {
		grp := act.child("group").
			attr("xmi:type", "uml:ActivityPartition").
			attr("xmi:id", d.ids.ElementID("lane:"+lane.ID)).
			attr("name", lane.Name).
			attr("visibility", "public")
		d.ids.LocalID("lane:" + lane.ID)
		for _, n := range d.nodes() {
			if n.Swimlane == lane.Name && n.Kind != flow.KindNote {
				grp.child("node").attr("xmi:idref", d.ids.ElementID(n.ID))
			}
		}
	}

	for _, n := range d.nodes() {
		if n.Kind == flow.KindNote {
			d.buildComment(act, n)
			continue
		}
		d.buildNode(act, n)
	}

	for _, e := range d.flowEdges() {
		d.buildEdge(act, e)
	}
}

func (d *docBuilder) buildNode(act *elem, n *flow.Node) {
	el := act.child("node").
		attr("xmi:type", umlType(n.Kind)).
		attr("xmi:id", d.ids.ElementID(n.ID)).
		attr("name", n.Label).
		attr("visibility", "public")
	d.ids.LocalID(n.ID)

	if n.Swimlane != "" {
		if lane, ok := d.g.Swimlane(n.Swimlane); ok {
			el.child("inPartition").attr("xmi:idref", d.ids.ElementID("lane:"+lane.ID))
		}
	}
	for _, e := range d.flowEdges() {
		if e.Source == n.ID {
			el.child("outgoing").attr("xmi:idref", d.ids.ElementID("edge:"+e.ID))
		}
	}
	for _, e := range d.flowEdges() {
		if e.Target == n.ID {
			el.child("incoming").attr("xmi:idref", d.ids.ElementID("edge:"+e.ID))
		}
	}
}

// buildComment emits a note as a UML comment anchored to its graph
// neighbors. Notes carry no control flow, so their edges turn into
// annotatedElement references.
func (d *docBuilder) buildComment(act *elem, n *flow.Node) {
	el := act.child("ownedComment").
		attr("xmi:type", "uml:Comment").
		attr("xmi:id", d.ids.ElementID(n.ID)).
		attr("body", n.Label)
	d.ids.LocalID(n.ID)

	seen := make(map[string]bool)
	for _, other := range append(d.g.Children(n.ID), d.g.Parents(n.ID)...) {
		if seen[other] || d.skip[other] {
			continue
		}
		seen[other] = true
		el.child("annotatedElement").attr("xmi:idref", d.ids.ElementID(other))
	}
}

func (d *docBuilder) buildEdge(act *elem, e flow.Edge) {
	el := act.child("edge").
		attr("xmi:type", "uml:ControlFlow").
		attr("xmi:id", d.ids.ElementID("edge:"+e.ID)).
		attr("visibility", "public").
		attr("source", d.ids.ElementID(e.Source)).
		attr("target", d.ids.ElementID(e.Target))
	d.ids.LocalID("edge:" + e.ID)

	if e.Guard != "" {
		el.child("guard").
			attr("xmi:type", "uml:LiteralString").
			attr("xmi:id", d.ids.ElementID("guard:"+e.ID)).
			attr("value", e.Guard)
	}
}

// ===== Extension Section =====

func (d *docBuilder) buildExtension(root *elem) {
	ext := root.child("xmi:Extension").
		attr("extender", "Enterprise Architect").
		attr("extenderID", "6.5")

	elements := ext.child("elements")
	for _, n := range d.nodes() {
		d.buildElementRecord(elements, n)
	}

	connectors := ext.child("connectors")
	for i, e := range d.flowEdges() {
		d.buildConnectorRecord(connectors, e, i+1)
	}

	d.buildDiagram(ext)
}

func (d *docBuilder) buildElementRecord(elements *elem, n *flow.Node) {
	el := elements.child("element").
		attr("xmi:idref", d.ids.ElementID(n.ID)).
		attr("xmi:type", umlType(n.Kind)).
		attr("name", n.Label).
		attr("scope", "public")
	el.child("model").
		attr("package", d.pkgID).
		attr("tpos", "0").
		attrInt("ea_localid", d.ids.LocalID(n.ID)).
		attr("ea_eleType", "element").
		attr("owner", d.activityID)
	el.child("properties").
		attr("isSpecification", "false").
		attr("sType", eaSType(n.Kind)).
		attrInt("nType", eaNType(n.Kind)).
		attr("scope", "public")
	el.child("extendedProperties").
		attr("tagged", "0").
		attr("package_name", d.opts.DiagramName)
}

func (d *docBuilder) buildConnectorRecord(connectors *elem, e flow.Edge, seq int) {
	cross := d.g.CrossesSwimlane(e)

	conn := connectors.child("connector").
		attr("xmi:idref", d.ids.ElementID("edge:"+e.ID))

	d.buildConnectorEnd(conn, "source", e.Source, false)
	d.buildConnectorEnd(conn, "target", e.Target, true)

	conn.child("model").attrInt("ea_localid", d.ids.LocalID("edge:"+e.ID))

	props := conn.child("properties").
		attr("ea_type", "ControlFlow").
		attr("direction", "Source -> Destination")
	if e.Guard != "" {
		props.attr("name", e.Guard)
	}

	conn.child("documentation")

	if e.Guard != "" {
		pt := "MiddleRight"
		if cross {
			pt = "Center"
		}
		conn.child("labels").
			attr("lb", e.Guard).
			attr("mt", "0").
			attr("pt", pt)
	}

	appearance := conn.child("appearance").
		attr("linemode", lineMode(cross)).
		attr("linecolor", "-1").
		attr("linewidth", "1").
		attrInt("seqno", seq).
		attr("headStyle", "0").
		attr("lineStyle", "0")
	if cross {
		appearance.
			attr("routing", "Orthogonal").
			attr("startPointX", "-1").
			attr("startPointY", "-1").
			attr("endPointX", "-1").
			attr("endPointY", "-1")
	}

	tags := conn.child("tags")
	if e.Guard != "" {
		tags.child("tag").
			attr("xmi:id", d.ids.ElementID("tag:"+e.ID)).
			attr("name", "guard").
			attr("value", e.Guard)
	}
	conn.child("xrefs")

	extProps := conn.child("extendedProperties").
		attr("diagram", d.diagramID)
	if e.Guard != "" {
		extProps.attr("conditional", e.Guard)
	}
}

func lineMode(cross bool) string {
	if cross {
		return "3"
	}
	return "1"
}

func (d *docBuilder) buildConnectorEnd(conn *elem, role, nodeID string, navigable bool) {
	n, _ := d.g.Node(nodeID)

	end := conn.child(role).attr("xmi:idref", d.ids.ElementID(nodeID))
	end.child("model").
		attrInt("ea_localid", d.ids.LocalID(nodeID)).
		attr("type", eaSType(n.Kind)).
		attr("name", n.Label)
	end.child("role").
		attr("visibility", "Public").
		attr("targetScope", "instance")
	end.child("type").
		attr("aggregation", "none").
		attr("containment", "Unspecified")
	end.child("constraints")
	end.child("modifiers").
		attr("isOrdered", "false").
		attr("changeable", "none").
		attr("isNavigable", fmt.Sprintf("%t", navigable))
	end.child("style").attr("value", "Union=0;Derived=0;AllowDuplicates=0;")
	if n.Swimlane != "" {
		end.child("properties").attr("swimlane", n.Swimlane)
	}
}

// ===== Diagram Section =====

func (d *docBuilder) buildDiagram(ext *elem) {
	diagrams := ext.child("diagrams")
	diag := diagrams.child("diagram").attr("xmi:id", d.diagramID)

	diag.child("model").
		attr("package", d.pkgID).
		attrInt("localID", d.ids.LocalID("diagram")).
		attr("owner", d.activityID)
	diag.child("properties").
		attr("name", d.opts.DiagramName).
		attr("type", "Activity")
	diag.child("project").
		attr("author", d.opts.Author).
		attr("version", d.opts.Version).
		attr("created", d.opts.Created).
		attr("modified", d.opts.Modified)
	diag.child("style1").attr("value", diagramStyle1)
	diag.child("style2").attr("value", diagramStyle2)
	diag.child("swimlanes").attr("value", d.swimlaneValue())

	elements := diag.child("elements")
	seq := 0

	// Lanes come first so EA paints them behind their members.
	for _, lane := range d.g.Swimlanes() {
		seq++
		geom := geometry{
			Left:   int(lane.X),
			Top:    int(lane.Y),
			Right:  int(lane.X + lane.Width),
			Bottom: int(lane.Y + lane.Height),
		}
		elements.child("element").
			attr("geometry", geom.String()).
			attr("subject", d.ids.ElementID("lane:"+lane.ID)).
			attrInt("seqno", seq).
			attr("style", laneStyle)
	}

	for _, n := range d.nodes() {
		geom := d.geo.resolve(n, d.rep)
		seq++
		elements.child("element").
			attr("geometry", geom.String()).
			attr("subject", d.ids.ElementID(n.ID)).
			attrInt("seqno", seq).
			attr("style", nodeStyle(n))
	}

	for _, e := range d.flowEdges() {
		styleStr := "Mode=1;"
		if d.g.CrossesSwimlane(e) {
			styleStr = "Mode=3;TREE=OS;"
		}
		elements.child("element").
			attr("geometry", "SX=0;SY=0;EX=0;EY=0;EDGE=1;").
			attr("subject", d.ids.ElementID("edge:"+e.ID)).
			attr("style", styleStr)
	}
}

// swimlaneValue builds EA's packed swimlane definition: the fixed header
// followed by one entry per lane with its title and pixel width.
func (d *docBuilder) swimlaneValue() string {
	v := swimlaneHeader
	for _, lane := range d.g.Swimlanes() {
		v += fmt.Sprintf("swlane=%s;width=%d;", lane.Name, int(lane.Width))
	}
	return v
}
