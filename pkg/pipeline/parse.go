package pipeline

import (
	"bytes"

	"github.com/matzehuels/boxsvg/pkg/node"
)

// Parse reads the document named by opts: an in-memory tree, raw JSON, or
// a file path, in that order of precedence. In-memory trees get ids
// assigned and are validated like decoded ones.
func Parse(opts Options) (*node.Document, error) {
	switch {
	case opts.Document != nil:
		doc := *opts.Document
		node.AssignIDs(doc.Root)
		if err := node.Validate(doc.Root); err != nil {
			return nil, err
		}
		return &doc, nil
	case len(opts.Data) > 0:
		return node.ReadJSON(bytes.NewReader(opts.Data))
	default:
		return node.ImportJSON(opts.Input)
	}
}
