package pipeline

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/matzehuels/boxsvg/pkg/cache"
	"github.com/matzehuels/boxsvg/pkg/errors"
	"github.com/matzehuels/boxsvg/pkg/font"
	"github.com/matzehuels/boxsvg/pkg/layout"
	"github.com/matzehuels/boxsvg/pkg/node"
	"github.com/matzehuels/boxsvg/pkg/style"
)

const cardJSON = `{
  "width": 300, "height": 100,
  "root": {
    "type": "box",
    "style": {"display": "flex", "backgroundColor": "#eee"},
    "children": [
      {"type": "text", "content": "Hello", "style": {"fontSize": 20}, "box": {"left": 10, "top": 10, "width": 200, "height": 30}}
    ]
  }
}`

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestOptionsValidateAndSetDefaults(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); err == nil {
		t.Error("Missing input should fail")
	}

	opts = Options{Input: "card.json", Formats: []string{"gif"}}
	if err := opts.ValidateAndSetDefaults(); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Invalid format should fail with INVALID_INPUT, got %v", err)
	}

	opts = Options{Input: "card.json", Width: -1}
	if err := opts.ValidateAndSetDefaults(); err == nil {
		t.Error("Negative width should fail")
	}

	opts = Options{Input: "card.json"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Valid options should pass: %v", err)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats should be [svg], got %v", opts.Formats)
	}
	if opts.Scale != DefaultScale {
		t.Errorf("Scale should be %v, got %v", DefaultScale, opts.Scale)
	}
	if opts.Concurrency != DefaultConcurrency {
		t.Errorf("Concurrency should be %d, got %d", DefaultConcurrency, opts.Concurrency)
	}
	if opts.Logger == nil {
		t.Error("Logger should be set")
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Input: "card.json", Formats: []string{"png"}}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("First validation failed: %v", err)
	}
	opts.Scale = 3
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Second validation failed: %v", err)
	}
	if opts.Scale != 3 {
		t.Error("Scale changed on second call")
	}
}

func TestOptionsApply(t *testing.T) {
	tests := []struct {
		name       string
		opts       Options
		doc        node.Document
		wantWidth  float64
		wantHeight float64
		wantLocale string
	}{
		{"defaults", Options{}, node.Document{}, DefaultWidth, DefaultHeight, ""},
		{"document", Options{}, node.Document{Width: 300, Height: 100, Locale: "ja-JP"}, 300, 100, "ja-JP"},
		{"override", Options{Width: 64, Locale: "ko-KR"}, node.Document{Width: 300, Height: 100, Locale: "ja-JP"}, 64, 100, "ko-KR"},
	}

	for _, tt := range tests {
		doc := tt.doc
		tt.opts.Apply(&doc)
		if doc.Width != tt.wantWidth || doc.Height != tt.wantHeight {
			t.Errorf("%s: size = %vx%v, want %vx%v", tt.name, doc.Width, doc.Height, tt.wantWidth, tt.wantHeight)
		}
		if doc.Locale != tt.wantLocale {
			t.Errorf("%s: locale = %q, want %q", tt.name, doc.Locale, tt.wantLocale)
		}
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{Scale: 2, EmbedFonts: true}
	doc := &node.Document{Width: 10, Height: 20, Locale: "th-TH"}

	svg := opts.ArtifactKeyOpts(doc, FormatSVG, "fonts")
	if svg.Scale != 0 {
		t.Errorf("SVG key should ignore scale, got %v", svg.Scale)
	}
	png := opts.ArtifactKeyOpts(doc, FormatPNG, "fonts")
	if png.Scale != 2 || png.Width != 10 || png.Height != 20 || !png.EmbedFonts || png.Locale != "th-TH" || png.Fonts != "fonts" {
		t.Errorf("Unexpected PNG key options: %+v", png)
	}
}

func TestParse(t *testing.T) {
	doc, err := Parse(Options{Data: []byte(cardJSON)})
	if err != nil {
		t.Fatalf("Parse data: %v", err)
	}
	if doc.Root.ID != "n0" || doc.Root.Children[0].ID != "n0-0" {
		t.Errorf("ids not assigned: %q, %q", doc.Root.ID, doc.Root.Children[0].ID)
	}

	tree := &node.Document{Root: &node.Node{Children: []*node.Node{{Kind: node.KindText, Content: "x"}}}}
	doc, err = Parse(Options{Document: tree})
	if err != nil {
		t.Fatalf("Parse document: %v", err)
	}
	if doc.Root.Children[0].ID != "n0-0" {
		t.Errorf("ids not assigned to in-memory tree: %q", doc.Root.Children[0].ID)
	}

	_, err = Parse(Options{Input: "does-not-exist.json"})
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Missing file should fail with FILE_NOT_FOUND, got %v", err)
	}

	_, err = Parse(Options{Document: &node.Document{}})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Document without root should fail with INVALID_INPUT, got %v", err)
	}
}

func TestLayout(t *testing.T) {
	root := &node.Node{
		ID:  "root",
		Box: &node.Box{Width: 100, Height: 50},
		Children: []*node.Node{
			{ID: "child", Kind: node.KindText, Content: "hi"},
		},
	}
	doc := &node.Document{Width: 100, Height: 50, Root: root}

	laid, err := Layout(context.Background(), layout.Static{}, doc)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	got := laid.Root.Children[0].Box
	if got == nil || *got != (node.Box{Width: 100, Height: 50}) {
		t.Errorf("child box = %+v, want parent box", got)
	}
	if root.Children[0].Box != nil {
		t.Error("Layout must not modify the input document")
	}
}

func TestRunnerExecute(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	runner := NewRunner(c, nil, nil)
	defer runner.Close()

	ctx := context.Background()
	opts := Options{Data: []byte(cardJSON), Formats: []string{FormatSVG, FormatJSON}}

	first, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if first.CacheInfo.RenderHit {
		t.Error("First run should miss the cache")
	}
	if first.Stats.NodeCount != 2 {
		t.Errorf("NodeCount = %d, want 2", first.Stats.NodeCount)
	}
	svg := string(first.Artifacts[FormatSVG])
	if !strings.HasPrefix(svg, `<svg width="300" height="100"`) || !strings.Contains(svg, ">Hello</text>") {
		t.Errorf("unexpected svg: %s", svg)
	}

	var laid node.Document
	if err := json.Unmarshal(first.Artifacts[FormatJSON], &laid); err != nil {
		t.Fatalf("json artifact: %v", err)
	}
	if laid.Root.Box == nil || laid.Root.Box.Width != 300 {
		t.Errorf("root box = %+v, want viewport", laid.Root.Box)
	}

	second, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute (cached): %v", err)
	}
	if !second.CacheInfo.RenderHit {
		t.Error("Second run should hit the cache")
	}
	if string(second.Artifacts[FormatSVG]) != svg {
		t.Error("Cached svg differs from rendered svg")
	}

	opts.Refresh = true
	third, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute (refresh): %v", err)
	}
	if third.CacheInfo.RenderHit {
		t.Error("Refresh should bypass the cache")
	}

	resized, err := runner.Execute(ctx, Options{Data: []byte(cardJSON), Width: 400})
	if err != nil {
		t.Fatalf("Execute (resized): %v", err)
	}
	if resized.CacheInfo.RenderHit || resized.DocHash == first.DocHash {
		t.Error("Different viewport should produce a different document hash")
	}
}

func TestRunnerExecuteRenderError(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	doc := &node.Document{Root: &node.Node{Style: style.Style{Overflow: "scroll"}}}

	_, err := runner.Execute(context.Background(), Options{Document: doc})
	if !errors.Is(err, errors.ErrCodeInvalidPropertyValue) {
		t.Errorf("expected INVALID_PROPERTY_VALUE, got %v", err)
	}
}

func TestFontsKey(t *testing.T) {
	a := FontsKey(font.Default())
	if a != FontsKey(font.Default()) {
		t.Error("FontsKey should be stable")
	}
	if a == FontsKey(font.NewRegistry()) {
		t.Error("Different face sets should have different keys")
	}
}
