package svg

import (
	"strconv"
	"strings"
)

// Concern namespaces generated ids.
type Concern string

// Id concerns.
const (
	Clip        Concern = "clip"
	Overflow    Concern = "overflow"
	Mask        Concern = "mask"
	ContentMask Concern = "content-mask"
	Filter      Concern = "filter"
	Gradient    Concern = "gradient"
	Pattern     Concern = "pattern"
	TextClip    Concern = "text-clip"
)

// subSep joins nested id parts. Escaped node ids never contain it.
const subSep = "."

// ID derives the id for a concern of a node. Bytes outside [A-Za-z0-9-]
// are escaped as _xx, so distinct node ids always yield distinct ids.
func ID(c Concern, nodeID string) string {
	return string(c) + "-" + escape(nodeID)
}

// Sub derives a nested id, e.g. the gradient of the second mask layer.
// Parts are joined with a dot, which no ID ever contains.
func Sub(id string, parts ...string) string {
	for _, p := range parts {
		id += subSep + escape(p)
	}
	return id
}

// URL formats an id reference for paint and clip attributes.
func URL(id string) string { return "url(#" + id + ")" }

func escape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-':
			b.WriteByte(c)
		default:
			b.WriteByte('_')
			if c < 0x10 {
				b.WriteByte('0')
			}
			b.WriteString(strconv.FormatUint(uint64(c), 16))
		}
	}
	return b.String()
}
