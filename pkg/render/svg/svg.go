// Package svg encodes elements to SVG markup.
//
// Attributes with a nil value are left out entirely. Generated ids are
// derived from the owning node id and a per-concern prefix, so they are
// unique within a document without a global counter.
package svg

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Attr is one attribute. A nil Value omits the attribute.
type Attr struct {
	Name  string
	Value any
}

// Attrs is an ordered attribute list.
type Attrs []Attr

// A is shorthand for building an Attr.
func A(name string, value any) Attr { return Attr{Name: name, Value: value} }

// Opt returns value, or nil when value is the zero value of its type, so
// that the attribute is omitted.
func Opt[T comparable](value T) any {
	var zero T
	if value == zero {
		return nil
	}
	return value
}

// Emit renders an element. Without children it self-closes.
func Emit(tag string, attrs Attrs, children ...string) string {
	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(tag)
	for _, a := range attrs {
		if a.Value == nil {
			continue
		}
		v, ok := format(a.Value)
		if !ok {
			continue
		}
		b.WriteByte(' ')
		b.WriteString(a.Name)
		b.WriteString(`="`)
		b.WriteString(Escape(v))
		b.WriteByte('"')
	}
	if len(children) == 0 {
		b.WriteString("/>")
		return b.String()
	}
	b.WriteByte('>')
	for _, c := range children {
		b.WriteString(c)
	}
	b.WriteString("</")
	b.WriteString(tag)
	b.WriteByte('>')
	return b.String()
}

func format(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case *string:
		if x == nil {
			return "", false
		}
		return *x, true
	case float64:
		return Num(x), true
	case *float64:
		if x == nil {
			return "", false
		}
		return Num(*x), true
	case int:
		return strconv.Itoa(x), true
	case bool:
		return strconv.FormatBool(x), true
	case fmt.Stringer:
		return x.String(), true
	}
	return fmt.Sprint(v), true
}

// Num formats a number compactly, rounded to three decimals.
func Num(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	v = math.Round(v*1000) / 1000
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Escape escapes text for use in attribute values and character data.
func Escape(s string) string {
	if !strings.ContainsAny(s, `<>&'"`+"\t\n\r") {
		return s
	}
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// Text escapes character data.
func Text(s string) string { return Escape(s) }

// Document wraps defs and body into a root svg element.
func Document(width, height float64, defs, body string) string {
	var children []string
	if defs != "" {
		children = append(children, Emit("defs", nil, defs))
	}
	children = append(children, body)
	return Emit("svg", Attrs{
		A("width", width),
		A("height", height),
		A("viewBox", "0 0 "+Num(width)+" "+Num(height)),
		A("xmlns", "http://www.w3.org/2000/svg"),
	}, children...)
}
