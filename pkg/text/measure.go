package text

import (
	"sync"
	"sync/atomic"

	"github.com/matzehuels/boxsvg/pkg/errors"
	"github.com/matzehuels/boxsvg/pkg/font"
)

// MeasureCache holds grapheme widths per measurement configuration
// (family, weight, style, size, letter spacing). It is safe for concurrent
// use and lives as long as the engine it wraps.
type MeasureCache struct {
	engine font.Engine

	mu     sync.Mutex
	tables map[string]*sync.Map

	hits   atomic.Int64
	misses atomic.Int64
}

// NewMeasureCache returns a cache in front of engine.
func NewMeasureCache(engine font.Engine) *MeasureCache {
	return &MeasureCache{engine: engine, tables: make(map[string]*sync.Map)}
}

// Engine returns the wrapped font engine.
func (c *MeasureCache) Engine() font.Engine { return c.engine }

// Stats returns cache hit and miss counts.
func (c *MeasureCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Measurer returns a measurer for spec. Measurers for equal specs share
// one width table. images maps graphemes that are painted as images; they
// are priced at the font size and never hit the engine.
func (c *MeasureCache) Measurer(spec font.Spec, images map[string]string) *Measurer {
	key := spec.Key()
	c.mu.Lock()
	table, ok := c.tables[key]
	if !ok {
		table = &sync.Map{}
		c.tables[key] = table
	}
	c.mu.Unlock()
	return &Measurer{cache: c, spec: spec, widths: table, images: images}
}

// Measurer measures graphemes for one font configuration.
type Measurer struct {
	cache  *MeasureCache
	spec   font.Spec
	widths *sync.Map
	images map[string]string
}

// Spec returns the measurer's font spec.
func (m *Measurer) Spec() font.Spec { return m.spec }

// IsImage reports whether g is painted as an image.
func (m *Measurer) IsImage(g string) bool {
	_, ok := m.images[g]
	return ok
}

// Image returns the image source for g.
func (m *Measurer) Image(g string) (string, bool) {
	src, ok := m.images[g]
	return src, ok
}

// Measure returns the advance of one grapheme.
func (m *Measurer) Measure(g string) float64 {
	if m.IsImage(g) {
		return m.spec.Size
	}
	if w, ok := m.widths.Load(g); ok {
		m.cache.hits.Add(1)
		return w.(float64)
	}
	m.cache.misses.Add(1)
	w := m.cache.engine.Measure(g, m.spec)
	// Racing writers store the same value.
	m.widths.Store(g, w)
	return w
}

// MeasureGraphemes sums the advances of gs.
func (m *Measurer) MeasureGraphemes(gs []string) float64 {
	var total float64
	for _, g := range gs {
		total += m.Measure(g)
	}
	return total
}

// MeasureText sums the advances of the graphemes of s.
func (m *Measurer) MeasureText(s string) float64 {
	return m.MeasureGraphemes(Graphemes(s))
}

// Check returns a NoFontLoadedError when s needs the font engine but the
// engine has no font data.
func (m *Measurer) Check(s string) error {
	if !m.cache.engine.Empty() {
		return nil
	}
	for _, g := range Graphemes(s) {
		if !m.IsImage(g) {
			return &errors.NoFontLoadedError{Text: s}
		}
	}
	return nil
}
