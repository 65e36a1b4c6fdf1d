package render

import (
	"context"
	stderrors "errors"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/boxsvg/pkg/errors"
	"github.com/matzehuels/boxsvg/pkg/font"
	"github.com/matzehuels/boxsvg/pkg/node"
	"github.com/matzehuels/boxsvg/pkg/render/geom"
	"github.com/matzehuels/boxsvg/pkg/render/svg"
	"github.com/matzehuels/boxsvg/pkg/resource"
	"github.com/matzehuels/boxsvg/pkg/style"
)

// fakeEngine gives every grapheme half the font size as advance. Glyphs
// in "gjpqy" descend by a fifth of the size.
type fakeEngine struct{ empty bool }

func (fakeEngine) Measure(_ string, s font.Spec) float64 { return s.Size/2 + s.LetterSpacing }

func (fakeEngine) GlyphBoxes(gs []string, s font.Spec, x, baseline float64) []font.GlyphBox {
	out := make([]font.GlyphBox, len(gs))
	for i, g := range gs {
		bottom := baseline
		if strings.ContainsAny(g, "gjpqy") {
			bottom += s.Size * 0.2
		}
		out[i] = font.GlyphBox{X1: x, Y1: baseline - s.Size*0.7, X2: x + s.Size/2, Y2: bottom}
		x += s.Size/2 + s.LetterSpacing
	}
	return out
}

func (fakeEngine) Metrics(s font.Spec) font.Metrics {
	return font.Metrics{Ascent: s.Size * 0.8, Descent: s.Size * 0.2}
}

func (e fakeEngine) Empty() bool { return e.empty }

func boxAt(x, y, w, h float64) *node.Box { return &node.Box{Left: x, Top: y, Width: w, Height: h} }

func newTestRenderer(opts ...Option) *Renderer {
	return New(append([]Option{WithFontEngine(fakeEngine{})}, opts...)...)
}

func TestRenderBox(t *testing.T) {
	root := &node.Node{Kind: node.KindBox, Style: style.Style{BackgroundColor: "red"}, Box: boxAt(0, 0, 100, 50)}

	out, err := newTestRenderer().Render(context.Background(), root, 100, 50)
	require.NoError(t, err)
	assert.Equal(t, `<svg width="100" height="50" viewBox="0 0 100 50" xmlns="http://www.w3.org/2000/svg">`+
		`<mask id="content-mask-n0"><rect x="0" y="0" width="100" height="50" fill="#fff"/></mask>`+
		`<rect x="0" y="0" width="100" height="50" fill="#ff0000"/>`+
		`</svg>`, out)
}

func TestRenderText(t *testing.T) {
	root := &node.Node{Kind: node.KindText, Content: "Hi", Style: style.Style{FontSize: 10}, Box: boxAt(0, 0, 100, 20)}

	out, err := newTestRenderer().Render(context.Background(), root, 100, 20)
	require.NoError(t, err)
	assert.Contains(t, out, `<text x="0" y="9" font-size="10" fill="#000000">Hi</text>`)
}

func TestRenderTextInheritsTypography(t *testing.T) {
	root := &node.Node{
		Kind:  node.KindBox,
		Style: style.Style{Color: "#336699", FontSize: 20, FontWeight: 700},
		Box:   boxAt(0, 0, 200, 40),
		Children: []*node.Node{
			{Kind: node.KindText, Content: "ok", Style: style.Style{TextAlign: "right"}, Box: boxAt(0, 0, 200, 40)},
		},
	}
	out, err := newTestRenderer().Render(context.Background(), root, 200, 40)
	require.NoError(t, err)
	// "ok" is 20 wide, right aligned in 200.
	assert.Contains(t, out, `<text x="180" y="18" font-size="20" font-weight="700" fill="#336699">ok</text>`)
}

func TestRenderDecoration(t *testing.T) {
	tests := []struct {
		name    string
		content string
		skipInk string
		want    string
	}{
		{"no descender", "Hi", "", `<line x1="0" y1="9.8" x2="10" y2="9.8" stroke="#000000" stroke-width="1" stroke-linecap="square"/>`},
		{"skip descender", "Hp", "", `<line x1="0" y1="9.8" x2="3.75" y2="9.8" stroke="#000000" stroke-width="1" stroke-linecap="square"/>`},
		{"skip-ink none", "Hp", "none", `<line x1="0" y1="9.8" x2="10" y2="9.8" stroke="#000000" stroke-width="1" stroke-linecap="square"/>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := &node.Node{
				Kind:    node.KindText,
				Content: tt.content,
				Style: style.Style{
					FontSize:              10,
					TextDecorationLine:    "underline",
					TextDecorationSkipInk: tt.skipInk,
				},
				Box: boxAt(0, 0, 100, 20),
			}
			out, err := newTestRenderer().Render(context.Background(), root, 100, 20)
			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestRenderGroups(t *testing.T) {
	root := &node.Node{
		Kind: node.KindBox,
		Style: style.Style{
			Overflow:  "hidden",
			Transform: "rotate(90deg)",
			Opacity:   style.Float(0.5),
		},
		Box: boxAt(0, 0, 100, 100),
		Children: []*node.Node{
			{Kind: node.KindBox, Style: style.Style{BackgroundColor: "blue"}, Box: boxAt(0, 0, 50, 50)},
		},
	}
	out, err := newTestRenderer().Render(context.Background(), root, 100, 100)
	require.NoError(t, err)

	assert.Contains(t, out, `<clipPath id="overflow-n0" transform="matrix(0,1,-1,0,100,0)"><rect x="0" y="0" width="100" height="100"/></clipPath>`)
	assert.Contains(t, out, `<g opacity="0.5"><g clip-path="url(#overflow-n0)"><g transform="matrix(0,1,-1,0,100,0)">`)
	assert.Contains(t, out, `<rect x="0" y="0" width="50" height="50" fill="#0000ff"/>`)
	assert.Less(t, strings.Index(out, `id="overflow-n0"`), strings.Index(out, `url(#overflow-n0)`), "defs precede their use")
}

func TestRenderShadowAndClipPath(t *testing.T) {
	root := &node.Node{
		Kind: node.KindBox,
		Style: style.Style{
			BackgroundColor: "white",
			BoxShadow:       "0 2px 4px rgba(0,0,0,0.5)",
			ClipPath:        "circle(50%)",
		},
		Box: boxAt(0, 0, 100, 100),
	}
	out, err := newTestRenderer().Render(context.Background(), root, 100, 100)
	require.NoError(t, err)

	assert.Contains(t, out, `<filter id="filter-n0"`)
	assert.Contains(t, out, `<clipPath id="clip-n0">`)
	assert.Contains(t, out, `<g clip-path="url(#clip-n0)"><rect x="0" y="0" width="100" height="100" fill="#000" filter="url(#filter-n0)"/>`)
}

func TestRenderIDsUnique(t *testing.T) {
	decorated := func(id string, display string, kids ...*node.Node) *node.Node {
		return &node.Node{
			ID:   id,
			Kind: node.KindBox,
			Style: style.Style{
				Display:         display,
				MaskImage:       "linear-gradient(black, transparent)",
				ClipPath:        "inset(1px)",
				BackgroundImage: "linear-gradient(red, blue), radial-gradient(white, black)",
				BoxShadow:       "0 1px 2px black",
				Overflow:        "hidden",
				BorderTopWidth:  1, BorderRightWidth: 1, BorderBottomWidth: 1, BorderLeftWidth: 1,
				BorderTopColor: "red", BorderRightColor: "red", BorderBottomColor: "red", BorderLeftColor: "red",
				BorderStyle: "solid",
			},
			Children: kids,
			Box:      boxAt(0, 0, 50, 50),
		}
	}
	root := decorated("", "flex",
		decorated("", "", decorated("", "")),
		decorated("n0-border", ""),
		decorated("a b", ""),
		decorated("a_b", ""),
		decorated("n0.0", ""),
	)

	out, err := newTestRenderer().Render(context.Background(), root, 50, 50)
	require.NoError(t, err)

	seen := make(map[string]int)
	for _, m := range regexp.MustCompile(` id="([^"]+)"`).FindAllStringSubmatch(out, -1) {
		seen[m[1]]++
	}
	require.NotEmpty(t, seen)
	for id, n := range seen {
		assert.Equal(t, 1, n, "id %q defined %d times", id, n)
	}
	assert.Contains(t, seen, "mask-n0.0")
	assert.Contains(t, seen, "mask-n0-0")
	assert.Contains(t, seen, "clip-n0.border")
	assert.Contains(t, seen, "clip-n0-border")
}

func TestRenderChildrenInsideAncestorMaskAndClip(t *testing.T) {
	root := &node.Node{
		Kind:  node.KindBox,
		Style: style.Style{MaskImage: "linear-gradient(black, transparent)", ClipPath: "inset(2px)"},
		Box:   boxAt(0, 0, 40, 40),
		Children: []*node.Node{
			{Kind: node.KindBox, Style: style.Style{BackgroundColor: "red"}, Box: boxAt(0, 0, 10, 10)},
		},
	}
	out, err := newTestRenderer().Render(context.Background(), root, 40, 40)
	require.NoError(t, err)

	open := strings.Index(out, `mask="url(#mask-n0)" clip-path="url(#clip-n0)"`)
	child := strings.Index(out, `fill="#ff0000"`)
	require.True(t, open >= 0 && child >= 0, out)
	assert.Less(t, open, child, "child paints inside the masked and clipped group")
}

func TestRenderImage(t *testing.T) {
	res := resource.Static{"logo.png": geom.Image{Href: "data:image/png;base64,AA==", Width: 1, Height: 1}}
	root := &node.Node{Kind: node.KindImage, Src: "logo.png", Style: style.Style{ObjectFit: "cover"}, Box: boxAt(0, 0, 10, 10)}

	out, err := newTestRenderer(WithResolver(res)).Render(context.Background(), root, 10, 10)
	require.NoError(t, err)
	assert.Contains(t, out, `<image href="data:image/png;base64,AA==" x="0" y="0" width="10" height="10" preserveAspectRatio="xMidYMid slice" mask="url(#content-mask-n0)"/>`)
	assert.Contains(t, out, `<g clip-path="url(#overflow-n0)">`)

	root.Src = "missing.png"
	_, err = newTestRenderer(WithResolver(res)).Render(context.Background(), root, 10, 10)
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound), "error: %v", err)
}

func TestRenderGraphemeImages(t *testing.T) {
	res := resource.Static{"star.svg": geom.Image{Href: "data:star"}}
	root := &node.Node{Kind: node.KindText, Content: "a★b", Style: style.Style{FontSize: 10}, Box: boxAt(0, 0, 100, 20)}

	r := newTestRenderer(WithResolver(res), WithGraphemeImages(map[string]string{"★": "star.svg"}))
	out, err := r.Render(context.Background(), root, 100, 20)
	require.NoError(t, err)
	assert.Contains(t, out, `<text x="0" y="9" font-size="10" fill="#000000">a</text>`+
		`<image href="data:star" x="5" y="1" width="10" height="10"/>`+
		`<text x="15" y="9" font-size="10" fill="#000000">b</text>`)
}

func TestRenderErrors(t *testing.T) {
	text := func(content string) *node.Node { return &node.Node{Kind: node.KindText, Content: content} }
	tests := []struct {
		name string
		root *node.Node
		opts []Option
		code errors.Code
	}{
		{"nil root", nil, nil, errors.ErrCodeInvalidInput},
		{
			"invalid property",
			&node.Node{Kind: node.KindBox, Style: style.Style{Overflow: "scroll"}},
			nil, errors.ErrCodeInvalidPropertyValue,
		},
		{
			"missing display mode",
			&node.Node{Kind: node.KindBox, Children: []*node.Node{text("a"), text("b")}},
			nil, errors.ErrCodeMissingDisplayMode,
		},
		{
			"no font",
			text("hello"),
			[]Option{WithFontEngine(fakeEngine{empty: true})},
			errors.ErrCodeNoFontLoaded,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestRenderer(tt.opts...).Render(context.Background(), tt.root, 100, 100)
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetCode(err), "error: %v", err)
		})
	}
}

func TestRenderInvalidDimensions(t *testing.T) {
	root := &node.Node{Kind: node.KindBox}
	_, err := newTestRenderer().Render(context.Background(), root, 0, 100)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestRenderDisplayNoneSkipsSubtree(t *testing.T) {
	root := &node.Node{
		Kind:  node.KindBox,
		Style: style.Style{Display: "flex"},
		Children: []*node.Node{
			{Kind: node.KindBox, Style: style.Style{Display: "none", BackgroundColor: "red"}, Children: []*node.Node{
				{Kind: node.KindBox, Style: style.Style{Overflow: "scroll"}},
			}},
			{Kind: node.KindBox, Style: style.Style{BackgroundColor: "blue"}},
		},
	}
	out, err := newTestRenderer().Render(context.Background(), root, 10, 10)
	require.NoError(t, err)
	assert.NotContains(t, out, "#ff0000")
	assert.Contains(t, out, "#0000ff")
}

func TestRenderConcurrentMatchesSequential(t *testing.T) {
	build := func() *node.Node {
		root := &node.Node{Kind: node.KindBox, Style: style.Style{Display: "flex", FontSize: 12}, Box: boxAt(0, 0, 400, 100)}
		colors := []string{"red", "green", "blue", "orange", "purple", "teal"}
		for i, c := range colors {
			x := float64(i) * 60
			child := &node.Node{
				Kind:  node.KindBox,
				Style: style.Style{BackgroundColor: c, BorderTopLeftRadius: style.Px(4)},
				Box:   boxAt(x, 0, 50, 50),
				Children: []*node.Node{
					{Kind: node.KindText, Content: c, Box: boxAt(x, 50, 50, 20)},
				},
			}
			root.Children = append(root.Children, child)
		}
		return root
	}

	seq, err := newTestRenderer().Render(context.Background(), build(), 400, 100)
	require.NoError(t, err)
	par, err := newTestRenderer(WithConcurrency(4)).Render(context.Background(), build(), 400, 100)
	require.NoError(t, err)
	assert.Equal(t, seq, par)
	assert.Less(t, strings.Index(seq, "#ff0000"), strings.Index(seq, "#008000"), "children keep declaration order")
}

func TestRenderCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestRenderer().Render(ctx, &node.Node{Kind: node.KindBox}, 10, 10)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, context.Canceled))
	assert.True(t, errors.Is(err, errors.ErrCodeCanceled))
}

func TestRenderEmbedFonts(t *testing.T) {
	root := &node.Node{Kind: node.KindText, Content: "Hi", Style: style.Style{FontFamily: "Go"}, Box: boxAt(0, 0, 100, 30)}

	out, err := New(WithFontEngine(font.Default()), WithEmbedFonts()).Render(context.Background(), root, 100, 30)
	require.NoError(t, err)
	assert.Contains(t, out, `<defs><style type="text/css">@font-face{font-family:"Go";font-weight:400;font-style:normal;src:url(data:font/ttf;base64,`)
	assert.NotContains(t, out, `font-family:"Go Mono"`)

	plain, err := New(WithFontEngine(font.Default())).Render(context.Background(), root, 100, 30)
	require.NoError(t, err)
	assert.NotContains(t, plain, "@font-face")
}

func TestNewDefaults(t *testing.T) {
	r := New()
	assert.NotNil(t, r.FontEngine())
	assert.NotNil(t, r.MeasureCache())
	assert.Same(t, r.MeasureCache().Engine(), r.FontEngine())

	shared := New(WithFontEngine(fakeEngine{})).MeasureCache()
	r2 := New(WithMeasureCache(shared))
	assert.Same(t, shared, r2.MeasureCache())
	assert.Equal(t, fakeEngine{}, r2.FontEngine())
}

func TestGroup(t *testing.T) {
	assert.Equal(t, "", group(nil, ""))
	assert.Equal(t, "<rect/>", group(nil, "<rect/>"))
	assert.Equal(t, "<rect/>", group(svg.Attrs{svg.A("transform", nil)}, "<rect/>"))
	assert.Equal(t, `<g transform="scale(2)"><rect/></g>`, group(svg.Attrs{svg.A("transform", "scale(2)")}, "<rect/>"))
}
