// Package node defines the tree the renderer consumes.
//
// A tree is fully resolved before rendering: every node is a box, a text
// run or an image, carries a closed [style.Style], and optionally the box
// geometry an external layout pass computed for it. Nodes are not mutated
// during a render.
package node

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/matzehuels/boxsvg/pkg/errors"
	"github.com/matzehuels/boxsvg/pkg/style"
)

// Kind is the node variant.
type Kind int

const (
	KindBox Kind = iota
	KindText
	KindImage
)

var kindNames = map[Kind]string{
	KindBox:   "box",
	KindText:  "text",
	KindImage: "image",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// ParseKind converts a kind name. An empty name means box.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "", "box", "div":
		return KindBox, nil
	case "text", "span":
		return KindText, nil
	case "image", "img":
		return KindImage, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "unknown node type %q", s)
}

// MarshalJSON encodes the kind by name.
func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON decodes a kind name.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("kind: %w", err)
	}
	parsed, err := ParseKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Box is a node's geometry in document space.
type Box struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Validate rejects negative sizes.
func (b Box) Validate() error {
	if b.Width < 0 || b.Height < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "box has negative size %gx%g", b.Width, b.Height)
	}
	return nil
}

// Right returns the right edge.
func (b Box) Right() float64 { return b.Left + b.Width }

// Bottom returns the bottom edge.
func (b Box) Bottom() float64 { return b.Top + b.Height }

// Node is one element of the tree.
type Node struct {
	ID       string      `json:"id,omitempty"`
	Kind     Kind        `json:"type"`
	Style    style.Style `json:"style"`
	Children []*Node     `json:"children,omitempty"`
	Content  string      `json:"content,omitempty"`
	Src      string      `json:"src,omitempty"`

	// Box is geometry computed ahead of time, consumed by layout.Static.
	Box *Box `json:"box,omitempty"`
}

// Walk visits n and its descendants depth-first, parents before children.
// Returning false from fn skips the node's children.
func Walk(n *Node, fn func(n *Node, depth int) bool) {
	walk(n, 0, fn)
}

func walk(n *Node, depth int, fn func(*Node, int) bool) {
	if n == nil || !fn(n, depth) {
		return
	}
	for _, c := range n.Children {
		walk(c, depth+1, fn)
	}
}

// Count returns the number of nodes in the tree.
func Count(n *Node) int {
	count := 0
	Walk(n, func(*Node, int) bool { count++; return true })
	return count
}

// AssignIDs gives every node without an id a path-based one: the root is
// "n0", its second child "n0-1" and so on. Explicit ids are kept.
func AssignIDs(root *Node) {
	assign(root, "n0")
}

func assign(n *Node, path string) {
	if n == nil {
		return
	}
	if n.ID == "" {
		n.ID = path
	}
	for i, c := range n.Children {
		assign(c, path+"-"+strconv.Itoa(i))
	}
}

// Validate checks structural invariants of the tree: unique ids, text
// nodes without children, and valid boxes.
func Validate(root *Node) error {
	if root == nil {
		return errors.New(errors.ErrCodeInvalidInput, "document has no root node")
	}
	seen := make(map[string]bool)
	var err error
	Walk(root, func(n *Node, _ int) bool {
		if err != nil {
			return false
		}
		if seen[n.ID] {
			err = errors.New(errors.ErrCodeInvalidInput, "duplicate node id %q", n.ID)
			return false
		}
		seen[n.ID] = true
		if n.Kind != KindBox && len(n.Children) > 0 {
			err = errors.New(errors.ErrCodeInvalidInput, "%s node %q cannot have children", n.Kind, n.ID)
			return false
		}
		if n.Box != nil {
			if e := n.Box.Validate(); e != nil {
				err = fmt.Errorf("node %s: %w", n.ID, e)
				return false
			}
		}
		return true
	})
	return err
}
