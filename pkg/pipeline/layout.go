package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/boxsvg/pkg/layout"
	"github.com/matzehuels/boxsvg/pkg/node"
)

// Layout runs engine over doc and returns a copy whose nodes carry their
// computed boxes. doc itself is not modified.
func Layout(ctx context.Context, engine layout.Engine, doc *node.Document) (*node.Document, error) {
	boxes, err := engine.Layout(ctx, doc.Root, doc.Width, doc.Height)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	out := *doc
	out.Root = withBoxes(doc.Root, boxes)
	return &out, nil
}

func withBoxes(n *node.Node, boxes layout.Boxes) *node.Node {
	c := *n
	if b, ok := boxes[n.ID]; ok {
		c.Box = &b
	}
	if len(n.Children) > 0 {
		c.Children = make([]*node.Node, len(n.Children))
		for i, k := range n.Children {
			c.Children[i] = withBoxes(k, boxes)
		}
	}
	return &c
}
