package font

import (
	"encoding/base64"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/matzehuels/boxsvg/pkg/errors"
)

// Face is one registered font file.
type Face struct {
	Family string
	Weight int
	Style  string
	Data   []byte

	font       *opentype.Font
	base64     string
	base64Once sync.Once
}

// Base64 returns the font data base64-encoded, computed once.
func (f *Face) Base64() string {
	f.base64Once.Do(func() {
		f.base64 = base64.StdEncoding.EncodeToString(f.Data)
	})
	return f.base64
}

// Has reports whether the face has a glyph for every rune in s.
func (f *Face) Has(s string) bool {
	var buf sfnt.Buffer
	for _, r := range s {
		if r == '\u200d' || (r >= '\ufe00' && r <= '\ufe0f') {
			continue
		}
		idx, err := f.font.GlyphIndex(&buf, r)
		if err != nil || idx == 0 {
			return false
		}
	}
	return true
}

// Registry is a concurrency-safe set of faces implementing Engine.
type Registry struct {
	mu    sync.RWMutex
	faces []*Face
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Default returns a registry holding the Go fonts, registered as the
// families "Go", "Go Mono" and "sans-serif".
func Default() *Registry {
	r := NewRegistry()
	for _, f := range []struct {
		family string
		weight int
		style  string
		data   []byte
	}{
		{"Go", 400, "normal", goregular.TTF},
		{"Go", 700, "normal", gobold.TTF},
		{"Go", 400, "italic", goitalic.TTF},
		{"Go", 700, "italic", gobolditalic.TTF},
		{"Go Mono", 400, "normal", gomono.TTF},
		{"sans-serif", 400, "normal", goregular.TTF},
	} {
		// The bundled fonts always parse.
		_ = r.Add(f.family, f.weight, f.style, f.data)
	}
	return r
}

// Add parses and registers font data.
func (r *Registry) Add(family string, weight int, style string, data []byte) error {
	parsed, err := opentype.Parse(data)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse font %q", family)
	}
	if weight <= 0 {
		weight = 400
	}
	if style == "" {
		style = "normal"
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.faces = append(r.faces, &Face{
		Family: family,
		Weight: weight,
		Style:  style,
		Data:   data,
		font:   parsed,
	})
	return nil
}

// AddFile reads and registers a font file.
func (r *Registry) AddFile(path, family string, weight int, style string) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "font file %s", path)
		}
		return fmt.Errorf("read font %s: %w", path, err)
	}
	return r.Add(family, weight, style, data)
}

// Faces returns the registered faces sorted by family, weight and style.
func (r *Registry) Faces() []*Face {
	r.mu.RLock()
	out := make([]*Face, len(r.faces))
	copy(out, r.faces)
	r.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Family != out[j].Family {
			return out[i].Family < out[j].Family
		}
		if out[i].Weight != out[j].Weight {
			return out[i].Weight < out[j].Weight
		}
		return out[i].Style < out[j].Style
	})
	return out
}

// Empty implements Engine.
func (r *Registry) Empty() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.faces) == 0
}

// candidates orders faces for spec: requested families first in list
// order, then everything else. Within a family the closest weight with a
// matching style comes first.
func (r *Registry) candidates(spec Spec) []*Face {
	r.mu.RLock()
	faces := make([]*Face, len(r.faces))
	copy(faces, r.faces)
	r.mu.RUnlock()

	families := Families(spec.Family)
	rank := func(f *Face) int {
		name := strings.ToLower(f.Family)
		for i, fam := range families {
			if fam == name {
				return i
			}
		}
		return len(families)
	}
	weight, style := spec.weight(), spec.style()
	score := func(f *Face) int {
		d := f.Weight - weight
		if d < 0 {
			d = -d
		}
		if f.Style != style {
			d += 1000
		}
		return d
	}
	sort.SliceStable(faces, func(i, j int) bool {
		ri, rj := rank(faces[i]), rank(faces[j])
		if ri != rj {
			return ri < rj
		}
		return score(faces[i]) < score(faces[j])
	})
	return faces
}

// pick returns the first candidate that covers grapheme, or the first
// candidate when none does.
func (r *Registry) pick(grapheme string, spec Spec) *Face {
	faces := r.candidates(spec)
	if len(faces) == 0 {
		return nil
	}
	for _, f := range faces {
		if f.Has(grapheme) {
			return f
		}
	}
	return faces[0]
}

func ppem(size float64) fixed.Int26_6 {
	return fixed.Int26_6(size * 64)
}

func toFloat(x fixed.Int26_6) float64 {
	return float64(x) / 64
}

// advance returns the unspaced advance of a grapheme in f.
func advance(f *Face, grapheme string, size float64) float64 {
	var (
		buf   sfnt.Buffer
		total fixed.Int26_6
		prev  sfnt.GlyphIndex
	)
	for i, r := range grapheme {
		idx, err := f.font.GlyphIndex(&buf, r)
		if err != nil {
			continue
		}
		// Combining marks and joiners of a cluster do not advance.
		if i > 0 && (r == '\u200d' || (r >= '\ufe00' && r <= '\ufe0f') || (r >= '\u0300' && r <= '\u036f')) {
			continue
		}
		if i > 0 {
			if k, err := f.font.Kern(&buf, prev, idx, ppem(size), font.HintingNone); err == nil {
				total += k
			}
		}
		adv, err := f.font.GlyphAdvance(&buf, idx, ppem(size), font.HintingNone)
		if err == nil {
			total += adv
		}
		prev = idx
	}
	return toFloat(total)
}

// Measure implements Engine.
func (r *Registry) Measure(grapheme string, spec Spec) float64 {
	f := r.pick(grapheme, spec)
	if f == nil {
		return 0
	}
	return advance(f, grapheme, spec.Size) + spec.LetterSpacing
}

// GlyphBoxes implements Engine.
func (r *Registry) GlyphBoxes(graphemes []string, spec Spec, x, baseline float64) []GlyphBox {
	boxes := make([]GlyphBox, 0, len(graphemes))
	var buf sfnt.Buffer
	for _, g := range graphemes {
		f := r.pick(g, spec)
		if f == nil {
			break
		}
		box := GlyphBox{X1: x, Y1: baseline, X2: x, Y2: baseline}
		first := true
		for _, rn := range g {
			idx, err := f.font.GlyphIndex(&buf, rn)
			if err != nil || idx == 0 {
				continue
			}
			b, _, err := f.font.GlyphBounds(&buf, idx, ppem(spec.Size), font.HintingNone)
			if err != nil {
				continue
			}
			gb := GlyphBox{
				X1: x + toFloat(b.Min.X),
				Y1: baseline + toFloat(b.Min.Y),
				X2: x + toFloat(b.Max.X),
				Y2: baseline + toFloat(b.Max.Y),
			}
			if first {
				box, first = gb, false
				continue
			}
			box.X1 = min(box.X1, gb.X1)
			box.Y1 = min(box.Y1, gb.Y1)
			box.X2 = max(box.X2, gb.X2)
			box.Y2 = max(box.Y2, gb.Y2)
		}
		boxes = append(boxes, box)
		x += advance(f, g, spec.Size) + spec.LetterSpacing
	}
	return boxes
}

// Metrics implements Engine.
func (r *Registry) Metrics(spec Spec) Metrics {
	faces := r.candidates(spec)
	if len(faces) == 0 {
		return Metrics{Ascent: spec.Size * 0.8, Descent: spec.Size * 0.2}
	}
	var buf sfnt.Buffer
	m, err := faces[0].font.Metrics(&buf, ppem(spec.Size), font.HintingNone)
	if err != nil {
		return Metrics{Ascent: spec.Size * 0.8, Descent: spec.Size * 0.2}
	}
	return Metrics{Ascent: toFloat(m.Ascent), Descent: toFloat(m.Descent)}
}
