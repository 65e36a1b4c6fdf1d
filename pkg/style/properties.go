package style

import (
	"sort"
	"strconv"
	"strings"
)

// property describes one longhand property of Style.
type property struct {
	name    string
	field   func(*Style) any // pointer to the backing field
	inherit bool
	allowed []string // enumerated values; nil when free-form
}

var (
	displayValues       = []string{"flex", "block", "none", "-webkit-box", "contents"}
	positionValues      = []string{"relative", "absolute", "static"}
	overflowValues      = []string{"visible", "hidden"}
	textTransformValues = []string{"none", "uppercase", "lowercase", "capitalize"}
	whiteSpaceValues    = []string{"normal", "pre", "pre-wrap", "pre-line", "nowrap"}
	wordBreakValues     = []string{"normal", "break-all", "break-word", "keep-all"}
	overflowWrapValues  = []string{"normal", "break-word", "anywhere"}
	textAlignValues     = []string{"left", "right", "center", "justify", "start", "end"}
	objectFitValues     = []string{"contain", "cover", "fill", "none", "scale-down"}
	decorationStyles    = []string{"solid", "double", "dotted", "dashed", "wavy"}
	textOverflowValues  = []string{"clip", "ellipsis"}
	fontStyleValues     = []string{"normal", "italic", "oblique"}
	borderStyleValues   = []string{"none", "solid", "dashed", "dotted", "double", "hidden"}
	boxOrientValues     = []string{"horizontal", "vertical"}
	skipInkValues       = []string{"auto", "none", "all"}
)

// properties is the static table of supported longhands, in validation order.
var properties = []property{
	{name: "display", field: func(s *Style) any { return &s.Display }, allowed: displayValues},
	{name: "position", field: func(s *Style) any { return &s.Position }, allowed: positionValues},
	{name: "overflow", field: func(s *Style) any { return &s.Overflow }, allowed: overflowValues},
	{name: "transform", field: func(s *Style) any { return &s.Transform }},
	{name: "transform-origin", field: func(s *Style) any { return &s.TransformOrigin }},
	{name: "clip-path", field: func(s *Style) any { return &s.ClipPath }},
	{name: "opacity", field: func(s *Style) any { return &s.Opacity }, inherit: true},
	{name: "filter", field: func(s *Style) any { return &s.Filter }, inherit: true},
	{name: "box-shadow", field: func(s *Style) any { return &s.BoxShadow }},
	{name: "object-fit", field: func(s *Style) any { return &s.ObjectFit }, allowed: objectFitValues},

	{name: "background-color", field: func(s *Style) any { return &s.BackgroundColor }},
	{name: "background-image", field: func(s *Style) any { return &s.BackgroundImage }},
	{name: "background-position", field: func(s *Style) any { return &s.BackgroundPosition }},
	{name: "background-size", field: func(s *Style) any { return &s.BackgroundSize }},
	{name: "background-repeat", field: func(s *Style) any { return &s.BackgroundRepeat }},
	{name: "background-clip", field: func(s *Style) any { return &s.BackgroundClip }},

	{name: "border-top-left-radius", field: func(s *Style) any { return &s.BorderTopLeftRadius }},
	{name: "border-top-right-radius", field: func(s *Style) any { return &s.BorderTopRightRadius }},
	{name: "border-bottom-right-radius", field: func(s *Style) any { return &s.BorderBottomRightRadius }},
	{name: "border-bottom-left-radius", field: func(s *Style) any { return &s.BorderBottomLeftRadius }},
	{name: "border-top-width", field: func(s *Style) any { return &s.BorderTopWidth }},
	{name: "border-right-width", field: func(s *Style) any { return &s.BorderRightWidth }},
	{name: "border-bottom-width", field: func(s *Style) any { return &s.BorderBottomWidth }},
	{name: "border-left-width", field: func(s *Style) any { return &s.BorderLeftWidth }},
	{name: "border-top-color", field: func(s *Style) any { return &s.BorderTopColor }},
	{name: "border-right-color", field: func(s *Style) any { return &s.BorderRightColor }},
	{name: "border-bottom-color", field: func(s *Style) any { return &s.BorderBottomColor }},
	{name: "border-left-color", field: func(s *Style) any { return &s.BorderLeftColor }},
	{name: "border-style", field: func(s *Style) any { return &s.BorderStyle }, allowed: borderStyleValues},

	{name: "mask-image", field: func(s *Style) any { return &s.MaskImage }},
	{name: "mask-position", field: func(s *Style) any { return &s.MaskPosition }},
	{name: "mask-size", field: func(s *Style) any { return &s.MaskSize }},
	{name: "mask-repeat", field: func(s *Style) any { return &s.MaskRepeat }},
	{name: "mask-origin", field: func(s *Style) any { return &s.MaskOrigin }},
	{name: "mask-clip", field: func(s *Style) any { return &s.MaskClip }},

	{name: "color", field: func(s *Style) any { return &s.Color }, inherit: true},
	{name: "font-family", field: func(s *Style) any { return &s.FontFamily }, inherit: true},
	{name: "font-size", field: func(s *Style) any { return &s.FontSize }, inherit: true},
	{name: "font-weight", field: func(s *Style) any { return &s.FontWeight }, inherit: true},
	{name: "font-style", field: func(s *Style) any { return &s.FontStyle }, inherit: true, allowed: fontStyleValues},
	{name: "line-height", field: func(s *Style) any { return &s.LineHeight }, inherit: true},
	{name: "letter-spacing", field: func(s *Style) any { return &s.LetterSpacing }, inherit: true},
	{name: "text-align", field: func(s *Style) any { return &s.TextAlign }, inherit: true, allowed: textAlignValues},
	{name: "text-transform", field: func(s *Style) any { return &s.TextTransform }, inherit: true, allowed: textTransformValues},
	{name: "white-space", field: func(s *Style) any { return &s.WhiteSpace }, inherit: true, allowed: whiteSpaceValues},
	{name: "word-break", field: func(s *Style) any { return &s.WordBreak }, inherit: true, allowed: wordBreakValues},
	{name: "overflow-wrap", field: func(s *Style) any { return &s.OverflowWrap }, inherit: true, allowed: overflowWrapValues},
	{name: "text-overflow", field: func(s *Style) any { return &s.TextOverflow }, allowed: textOverflowValues},
	{name: "line-clamp", field: func(s *Style) any { return &s.LineClamp }},
	{name: "-webkit-line-clamp", field: func(s *Style) any { return &s.WebkitLineClamp }},
	{name: "-webkit-box-orient", field: func(s *Style) any { return &s.WebkitBoxOrient }, allowed: boxOrientValues},
	{name: "text-decoration-line", field: func(s *Style) any { return &s.TextDecorationLine }, inherit: true},
	{name: "text-decoration-style", field: func(s *Style) any { return &s.TextDecorationStyle }, inherit: true, allowed: decorationStyles},
	{name: "text-decoration-color", field: func(s *Style) any { return &s.TextDecorationColor }, inherit: true},
	{name: "text-decoration-skip-ink", field: func(s *Style) any { return &s.TextDecorationSkipInk }, inherit: true, allowed: skipInkValues},
}

// byName indexes properties; built once and never written afterwards.
var byName = func() map[string]property {
	m := make(map[string]property, len(properties))
	for _, p := range properties {
		m[p.name] = p
	}
	return m
}()

// layoutOnly lists properties consumed by the external layout engine. They
// are accepted on input and dropped.
var layoutOnly = map[string]bool{
	"width": true, "height": true, "min-width": true, "min-height": true,
	"max-width": true, "max-height": true, "left": true, "top": true,
	"right": true, "bottom": true, "flex": true, "flex-direction": true,
	"flex-wrap": true, "flex-grow": true, "flex-shrink": true, "flex-basis": true,
	"flex-flow": true, "align-items": true, "align-self": true, "align-content": true,
	"justify-content": true, "gap": true, "row-gap": true, "column-gap": true,
	"box-sizing": true, "z-index": true,
	"margin": true, "margin-top": true, "margin-right": true, "margin-bottom": true, "margin-left": true,
	"padding": true, "padding-top": true, "padding-right": true, "padding-bottom": true, "padding-left": true,
}

// aliases maps alternate spellings onto canonical names.
var aliases = map[string]string{
	"word-wrap":                "overflow-wrap",
	"-webkit-mask-image":       "mask-image",
	"-webkit-mask-position":    "mask-position",
	"-webkit-mask-size":        "mask-size",
	"-webkit-mask-repeat":      "mask-repeat",
	"-webkit-mask-origin":      "mask-origin",
	"-webkit-mask-clip":        "mask-clip",
	"-webkit-mask":             "mask",
	"-webkit-background-clip":  "background-clip",
	"-webkit-clip-path":        "clip-path",
	"-webkit-transform":        "transform",
	"-webkit-transform-origin": "transform-origin",
	"-webkit-box-shadow":       "box-shadow",
	"-webkit-filter":           "filter",
	"-webkit-text-decoration":  "text-decoration",
}

// Names returns the supported longhand property names, sorted.
func Names() []string {
	names := make([]string, 0, len(properties))
	for _, p := range properties {
		names = append(names, p.name)
	}
	sort.Strings(names)
	return names
}

// Get returns the value of a longhand property formatted as a CSS token, and
// whether it is set.
func (s *Style) Get(name string) (string, bool) {
	p, ok := byName[name]
	if !ok {
		return "", false
	}
	return formatField(p.field(s))
}

// Each calls fn for every set longhand property in table order.
func (s *Style) Each(fn func(name, value string)) {
	for _, p := range properties {
		if v, ok := formatField(p.field(s)); ok {
			fn(p.name, v)
		}
	}
}

func formatField(f any) (string, bool) {
	switch v := f.(type) {
	case *string:
		return *v, *v != ""
	case *float64:
		return strconv.FormatFloat(*v, 'f', -1, 64), *v != 0
	case **float64:
		if *v == nil {
			return "", false
		}
		return strconv.FormatFloat(**v, 'f', -1, 64), true
	case *int:
		return strconv.Itoa(*v), *v != 0
	case *Length:
		return v.String(), !v.IsZero()
	}
	return "", false
}

// setField assigns a raw value to the field. It reports false when the
// value could not be converted; the field is left untouched in that case.
func setField(f any, raw any) bool {
	switch v := f.(type) {
	case *string:
		s, ok := stringValue(raw)
		if !ok {
			return false
		}
		*v = s
	case *float64:
		n, ok := pxValue(raw)
		if !ok {
			return false
		}
		*v = n
	case **float64:
		n, ok := numberValue(raw)
		if !ok {
			return false
		}
		*v = &n
	case *int:
		n, ok := intValue(raw)
		if !ok {
			return false
		}
		*v = n
	case *Length:
		l, ok := lengthValue(raw)
		if !ok {
			return false
		}
		*v = l
	default:
		return false
	}
	return true
}

func copyField(dst, src any) {
	switch d := dst.(type) {
	case *string:
		*d = *src.(*string)
	case *float64:
		*d = *src.(*float64)
	case **float64:
		if p := *src.(**float64); p != nil {
			v := *p
			*d = &v
		} else {
			*d = nil
		}
	case *int:
		*d = *src.(*int)
	case *Length:
		*d = *src.(*Length)
	}
}

func stringValue(raw any) (string, bool) {
	switch v := raw.(type) {
	case string:
		return strings.TrimSpace(v), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case int:
		return strconv.Itoa(v), true
	}
	return "", false
}

func numberValue(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return n, err == nil
	}
	return 0, false
}

func intValue(raw any) (int, bool) {
	switch v := raw.(type) {
	case string:
		switch strings.TrimSpace(v) {
		case "normal":
			return 400, true
		case "bold":
			return 700, true
		}
	}
	n, ok := numberValue(raw)
	if !ok || n != float64(int(n)) {
		return 0, false
	}
	return int(n), true
}

// pxValue accepts a number, a bare numeric string or a "px" string.
func pxValue(raw any) (float64, bool) {
	if s, ok := raw.(string); ok {
		s = strings.TrimSpace(s)
		s = strings.TrimSuffix(s, "px")
		raw = s
	}
	return numberValue(raw)
}

func lengthValue(raw any) (Length, bool) {
	if s, ok := raw.(string); ok {
		s = strings.TrimSpace(s)
		if pct, found := strings.CutSuffix(s, "%"); found {
			n, err := strconv.ParseFloat(pct, 64)
			if err != nil {
				return Length{}, false
			}
			return Pct(n), true
		}
	}
	n, ok := pxValue(raw)
	if !ok {
		return Length{}, false
	}
	return Px(n), true
}
