package flow

import (
	"encoding/json"
	"io"
	"os"

	"github.com/pzaremba/flowxmi/pkg/errors"
)

// ReadDocument decodes a flow document from r.
//
// The input is the JSON form of the conversion contract:
//
//	{
//	  "title": "Order processing",
//	  "swimlanes": ["Customer", "Backoffice"],
//	  "flows": [
//	    {"id": "f1", "kind": "Initial", "label": "Start", "swimlane": "Customer"},
//	    {"id": "f2", "kind": "Action", "label": "Validate order", "swimlane": "Backoffice"}
//	  ],
//	  "connections": [
//	    {"source": "f1", "target": "f2"}
//	  ]
//	}
//
// ReadDocument only checks JSON well-formedness; structural validation of the
// items and connections happens in [Build]. ReadDocument does not close r.
func ReadDocument(r io.Reader) (*Document, error) {
	var doc Document
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode flow document")
	}
	return &doc, nil
}

// ImportDocument reads the flow document at path.
// The error wraps the underlying cause with the file path for context.
func ImportDocument(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	defer f.Close()
	return ReadDocument(f)
}

// MarshalDocument encodes a document as canonical JSON. The pipeline hashes
// this form for cache keys, so encoding must stay stable for equal inputs.
func MarshalDocument(doc *Document) ([]byte, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode flow document")
	}
	return data, nil
}
