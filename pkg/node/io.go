package node

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/boxsvg/pkg/errors"
)

// Document is a tree plus the viewport it renders into.
type Document struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Root   *Node   `json:"root"`

	// GraphemeImages maps graphemes (usually emoji) to image sources that
	// are painted instead of font glyphs.
	GraphemeImages map[string]string `json:"graphemeImages,omitempty"`
	// Locale is the preferred locale for text classification and case
	// mapping, e.g. "ja-JP".
	Locale string `json:"locale,omitempty"`
}

// ReadJSON decodes a document from r.
//
// The input is a JSON object with a root node:
//
//	{
//	  "width": 1200, "height": 630,
//	  "root": {
//	    "type": "box",
//	    "style": {"display": "flex", "backgroundColor": "#fff"},
//	    "box": {"left": 0, "top": 0, "width": 1200, "height": 630},
//	    "children": [{"type": "text", "content": "Hello"}]
//	  }
//	}
//
// Styles are objects (camelCase or kebab-case keys) or inline declaration
// strings. Unknown style properties are rejected. Nodes without an id get
// a path-based one (see [AssignIDs]).
//
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		if errors.GetCode(err) != "" {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode document")
	}
	if doc.Root == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "document has no root node")
	}
	AssignIDs(doc.Root)
	if err := Validate(doc.Root); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ImportJSON reads a JSON document file at path.
func ImportJSON(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// WriteJSON encodes a document as indented JSON. The output can be read
// back with [ReadJSON].
func WriteJSON(doc *Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a document to a JSON file at path.
func ExportJSON(doc *Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(doc, f)
}
