package style

import (
	"encoding/json"
	"slices"
	"sort"
	"strings"
	"unicode"

	"github.com/aymerick/douceur/parser"

	"github.com/matzehuels/boxsvg/pkg/errors"
)

// FromMap builds a Style from a decoded JSON object. Keys may be camelCase
// (fontSize, WebkitLineClamp) or kebab-case (font-size, -webkit-line-clamp).
// Shorthands are applied before longhands so that a longhand always wins.
//
// Unknown property names are rejected with ErrCodeUnknownProperty. Values
// that cannot be converted leave the property unset.
func FromMap(m map[string]any) (Style, error) {
	type entry struct {
		name  string
		value any
	}
	entries := make([]entry, 0, len(m))
	for k, v := range m {
		entries = append(entries, entry{name: canonicalName(k), value: v})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		_, si := shorthands[entries[i].name]
		_, sj := shorthands[entries[j].name]
		if si != sj {
			return si
		}
		return entries[i].name < entries[j].name
	})

	var s Style
	for _, e := range entries {
		if err := s.Set(e.name, e.value); err != nil {
			return Style{}, err
		}
	}
	return s, nil
}

// ParseDeclarations builds a Style from inline CSS declarations such as
// "color: red; font-size: 24px". Declarations apply in source order.
func ParseDeclarations(css string) (Style, error) {
	var s Style
	if strings.TrimSpace(css) == "" {
		return s, nil
	}
	decls, err := parser.ParseDeclarations(css)
	if err != nil {
		return Style{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse style declarations")
	}
	for _, d := range decls {
		if err := s.Set(d.Property, d.Value); err != nil {
			return Style{}, err
		}
	}
	return s, nil
}

// Set assigns one property. Names are normalized first; layout-only
// properties are accepted and ignored.
func (s *Style) Set(name string, value any) error {
	name = canonicalName(name)
	if layoutOnly[name] {
		return nil
	}
	if fn, ok := shorthands[name]; ok {
		if v, ok := stringValue(value); ok {
			fn(s, v)
		}
		return nil
	}
	p, ok := byName[name]
	if !ok {
		return errors.New(errors.ErrCodeUnknownProperty, "unknown style property %q", name)
	}
	setField(p.field(s), value)
	return nil
}

func canonicalName(name string) string {
	name = NormalizeName(name)
	if canonical, ok := aliases[name]; ok {
		return canonical
	}
	return name
}

// NormalizeName converts a camelCase property name to kebab-case. Vendor
// prefixes (WebkitLineClamp, webkitBoxOrient) gain a leading dash.
func NormalizeName(name string) string {
	name = strings.TrimSpace(name)
	if strings.ContainsRune(name, '-') || strings.ToLower(name) == name {
		return strings.ToLower(name)
	}
	var b strings.Builder
	if strings.HasPrefix(name, "Webkit") || strings.HasPrefix(name, "webkit") {
		b.WriteString("-webkit")
		name = name[len("webkit"):]
	}
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 || b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// shorthands expand into longhands. They never fail: unusable parts are
// skipped.
var shorthands = map[string]func(*Style, string){
	"border-radius":   setBorderRadius,
	"border":          func(s *Style, v string) { setBorderSides(s, v, 0, 1, 2, 3) },
	"border-top":      func(s *Style, v string) { setBorderSides(s, v, 0) },
	"border-right":    func(s *Style, v string) { setBorderSides(s, v, 1) },
	"border-bottom":   func(s *Style, v string) { setBorderSides(s, v, 2) },
	"border-left":     func(s *Style, v string) { setBorderSides(s, v, 3) },
	"border-width":    setBorderWidth,
	"border-color":    setBorderColor,
	"text-decoration": setTextDecoration,
	"mask":            setMask,
	"background":      setBackground,
}

func setBorderRadius(s *Style, v string) {
	if i := strings.IndexByte(v, '/'); i >= 0 {
		v = v[:i]
	}
	vals, ok := expand4(Fields(v))
	if !ok {
		return
	}
	fields := []*Length{&s.BorderTopLeftRadius, &s.BorderTopRightRadius, &s.BorderBottomRightRadius, &s.BorderBottomLeftRadius}
	for i, f := range fields {
		if l, ok := lengthValue(vals[i]); ok {
			*f = l
		}
	}
}

func (s *Style) borderWidths() []*float64 {
	return []*float64{&s.BorderTopWidth, &s.BorderRightWidth, &s.BorderBottomWidth, &s.BorderLeftWidth}
}

func (s *Style) borderColors() []*string {
	return []*string{&s.BorderTopColor, &s.BorderRightColor, &s.BorderBottomColor, &s.BorderLeftColor}
}

func setBorderSides(s *Style, v string, sides ...int) {
	width, color, styleSet := -1.0, "", ""
	for _, tok := range Fields(v) {
		if w, ok := pxValue(tok); ok {
			width = w
			continue
		}
		if slices.Contains(borderStyleValues, tok) {
			styleSet = tok
			continue
		}
		color = tok
	}
	if styleSet == "none" || styleSet == "hidden" {
		width = 0
	}
	if styleSet != "" {
		s.BorderStyle = styleSet
	} else if s.BorderStyle == "" {
		s.BorderStyle = "solid"
	}
	widths, colors := s.borderWidths(), s.borderColors()
	for _, side := range sides {
		if width >= 0 {
			*widths[side] = width
		}
		if color != "" {
			*colors[side] = color
		}
	}
}

func setBorderWidth(s *Style, v string) {
	vals, ok := expand4(Fields(v))
	if !ok {
		return
	}
	for i, f := range s.borderWidths() {
		if w, ok := pxValue(vals[i]); ok {
			*f = w
		}
	}
}

func setBorderColor(s *Style, v string) {
	vals, ok := expand4(Fields(v))
	if !ok {
		return
	}
	for i, f := range s.borderColors() {
		*f = vals[i]
	}
}

var decorationLines = []string{"none", "underline", "overline", "line-through"}

func setTextDecoration(s *Style, v string) {
	var lines []string
	for _, tok := range Fields(v) {
		switch {
		case slices.Contains(decorationLines, tok):
			lines = append(lines, tok)
		case slices.Contains(decorationStyles, tok):
			s.TextDecorationStyle = tok
		default:
			s.TextDecorationColor = tok
		}
	}
	if len(lines) > 0 {
		s.TextDecorationLine = strings.Join(lines, " ")
	}
}

var repeatKeywords = []string{"repeat", "no-repeat", "repeat-x", "repeat-y", "space", "round"}

func setMask(s *Style, v string) {
	var images, repeats []string
	for _, layer := range SplitCommas(v) {
		image, repeat := "none", "repeat"
		for _, tok := range Fields(layer) {
			switch {
			case strings.Contains(tok, "("):
				image = tok
			case slices.Contains(repeatKeywords, tok):
				repeat = tok
			}
		}
		images = append(images, image)
		repeats = append(repeats, repeat)
	}
	s.MaskImage = strings.Join(images, ", ")
	s.MaskRepeat = strings.Join(repeats, ", ")
}

func setBackground(s *Style, v string) {
	if strings.Contains(v, "gradient(") || strings.Contains(v, "url(") {
		s.BackgroundImage = v
		return
	}
	s.BackgroundColor = v
}

// MarshalJSON encodes the set longhands as a kebab-case object.
func (s Style) MarshalJSON() ([]byte, error) {
	m := make(map[string]string)
	s.Each(func(name, value string) { m[name] = value })
	return json.Marshal(m)
}

// UnmarshalJSON accepts either a property object or an inline declaration
// string.
func (s *Style) UnmarshalJSON(data []byte) error {
	var decl string
	if err := json.Unmarshal(data, &decl); err == nil {
		parsed, err := ParseDeclarations(decl)
		if err != nil {
			return err
		}
		*s = parsed
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode style")
	}
	parsed, err := FromMap(m)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
