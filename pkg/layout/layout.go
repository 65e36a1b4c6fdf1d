// Package layout defines the box-layout contract the renderer relies on.
//
// Box layout (flexbox, margins, padding) is solved outside this module.
// An [Engine] returns the document-space box of every node before any
// painting starts, and the renderer treats the result as authoritative.
package layout

import (
	"context"

	"github.com/matzehuels/boxsvg/pkg/errors"
	"github.com/matzehuels/boxsvg/pkg/node"
)

// Boxes maps node ids to their computed boxes.
type Boxes map[string]node.Box

// Engine computes the box of every node of a tree laid out in a viewport
// of width x height.
type Engine interface {
	Layout(ctx context.Context, root *node.Node, width, height float64) (Boxes, error)
}

// Static reads boxes that were computed ahead of time and stored on the
// nodes. A node without a box takes its parent's box; the root falls back
// to the viewport.
type Static struct{}

// Layout implements Engine.
func (Static) Layout(ctx context.Context, root *node.Node, width, height float64) (Boxes, error) {
	if root == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "layout: nil root")
	}
	if err := errors.ValidateDimensions(width, height); err != nil {
		return nil, err
	}
	boxes := make(Boxes, node.Count(root))
	viewport := node.Box{Width: width, Height: height}
	if err := place(ctx, root, viewport, boxes); err != nil {
		return nil, err
	}
	return boxes, nil
}

func place(ctx context.Context, n *node.Node, parent node.Box, boxes Boxes) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b := parent
	if n.Box != nil {
		if err := n.Box.Validate(); err != nil {
			return err
		}
		b = *n.Box
	}
	boxes[n.ID] = b
	for _, c := range n.Children {
		if err := place(ctx, c, b, boxes); err != nil {
			return err
		}
	}
	return nil
}

// Func adapts a function to Engine.
type Func func(ctx context.Context, root *node.Node, width, height float64) (Boxes, error)

// Layout implements Engine.
func (f Func) Layout(ctx context.Context, root *node.Node, width, height float64) (Boxes, error) {
	return f(ctx, root, width, height)
}
