package layout

import (
	"context"
	"testing"

	"github.com/matzehuels/boxsvg/pkg/errors"
	"github.com/matzehuels/boxsvg/pkg/node"
)

func tree() *node.Node {
	root := &node.Node{
		Box: &node.Box{Width: 200, Height: 100},
		Children: []*node.Node{
			{Box: &node.Box{Left: 10, Top: 10, Width: 50, Height: 20}, Children: []*node.Node{
				{Kind: node.KindText, Content: "hi"},
			}},
			{},
		},
	}
	node.AssignIDs(root)
	return root
}

func TestStatic(t *testing.T) {
	boxes, err := Static{}.Layout(context.Background(), tree(), 300, 150)
	if err != nil {
		t.Fatalf("Layout() error = %v", err)
	}

	tests := []struct {
		id   string
		want node.Box
	}{
		{"n0", node.Box{Width: 200, Height: 100}},
		{"n0-0", node.Box{Left: 10, Top: 10, Width: 50, Height: 20}},
		{"n0-0-0", node.Box{Left: 10, Top: 10, Width: 50, Height: 20}},
		{"n0-1", node.Box{Width: 200, Height: 100}},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := boxes[tt.id]; got != tt.want {
				t.Errorf("box = %+v, want %+v", got, tt.want)
			}
		})
	}
	if len(boxes) != 4 {
		t.Errorf("len(boxes) = %d, want 4", len(boxes))
	}
}

func TestStaticViewportFallback(t *testing.T) {
	root := &node.Node{ID: "root"}
	boxes, err := Static{}.Layout(context.Background(), root, 300, 150)
	if err != nil {
		t.Fatalf("Layout() error = %v", err)
	}
	if got, want := boxes["root"], (node.Box{Width: 300, Height: 150}); got != want {
		t.Errorf("root box = %+v, want %+v", got, want)
	}
}

func TestStaticErrors(t *testing.T) {
	tests := []struct {
		name   string
		root   *node.Node
		width  float64
		height float64
		code   errors.Code
	}{
		{"nil root", nil, 10, 10, errors.ErrCodeInvalidInput},
		{"zero viewport", &node.Node{ID: "a"}, 0, 10, errors.ErrCodeInvalidInput},
		{"negative box", &node.Node{ID: "a", Box: &node.Box{Width: -1}}, 10, 10, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Static{}.Layout(context.Background(), tt.root, tt.width, tt.height)
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("GetCode(%v) = %q, want %q", err, got, tt.code)
			}
		})
	}
}

func TestStaticCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (Static{}).Layout(ctx, tree(), 10, 10); err != context.Canceled {
		t.Errorf("Layout() error = %v, want context.Canceled", err)
	}
}

func TestFunc(t *testing.T) {
	var called bool
	eng := Func(func(ctx context.Context, root *node.Node, w, h float64) (Boxes, error) {
		called = true
		return Boxes{root.ID: {Width: w, Height: h}}, nil
	})
	boxes, err := eng.Layout(context.Background(), &node.Node{ID: "x"}, 5, 6)
	if err != nil || !called {
		t.Fatalf("Layout() = %v, %v", boxes, err)
	}
	if boxes["x"].Height != 6 {
		t.Errorf("height = %v, want 6", boxes["x"].Height)
	}
}
