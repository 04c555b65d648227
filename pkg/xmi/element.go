package xmi

import (
	"bytes"
	"encoding/xml"
	"fmt"
)

// elem is a minimal XML element tree. The serializer builds the whole
// document as an elem tree and renders it in one pass; attributes keep their
// slice order, which matters because Enterprise Architect's importer is
// sensitive to attribute layout in a few places.
//
// Names are written literally, including namespace prefixes like "xmi:id".
// The stock encoding/xml attribute marshaling rewrites prefixed names, so
// the tree bypasses struct marshaling entirely and feeds tokens straight to
// an encoder.
type elem struct {
	name     string
	attrs    []xml.Attr
	text     string
	children []*elem
}

func newElem(name string) *elem {
	return &elem{name: name}
}

// attr appends an attribute and returns the element for chaining.
func (e *elem) attr(name, value string) *elem {
	e.attrs = append(e.attrs, xml.Attr{Name: xml.Name{Local: name}, Value: value})
	return e
}

func (e *elem) attrInt(name string, value int) *elem {
	return e.attr(name, fmt.Sprintf("%d", value))
}

// child creates, appends and returns a new child element.
func (e *elem) child(name string) *elem {
	c := newElem(name)
	e.children = append(e.children, c)
	return c
}

// render writes the tree as an indented XML document with the standard
// declaration header.
func (e *elem) render() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)

	enc := xml.NewEncoder(&buf)
	enc.Indent("", "\t")
	if err := e.encode(enc); err != nil {
		return nil, err
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func (e *elem) encode(enc *xml.Encoder) error {
	start := xml.StartElement{Name: xml.Name{Local: e.name}, Attr: e.attrs}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if e.text != "" {
		if err := enc.EncodeToken(xml.CharData(e.text)); err != nil {
			return err
		}
	}
	for _, c := range e.children {
		if err := c.encode(enc); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}
