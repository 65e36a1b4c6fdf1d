package style

// Inherit returns the subset of s that children receive. The result is a
// fresh value; s is not modified.
func Inherit(s Style) Style {
	var out Style
	for _, p := range properties {
		if p.inherit {
			copyField(p.field(&out), p.field(&s))
		}
	}
	out.InheritedClipPathID = s.InheritedClipPathID
	out.InheritedMaskID = s.InheritedMaskID
	out.ViewportWidth = s.ViewportWidth
	out.ViewportHeight = s.ViewportHeight
	return out
}

// Cascade merges a node's own style over the style inherited from its parent.
// Inheritable properties the node leaves unset take the parent's value.
// Opacity and filter are not cascaded: nested groups already compose them.
func Cascade(inherited, own Style) Style {
	out := own
	for _, p := range properties {
		if !p.inherit || p.name == "opacity" || p.name == "filter" {
			continue
		}
		dst := p.field(&out)
		if _, set := formatField(dst); set {
			continue
		}
		copyField(dst, p.field(&inherited))
	}
	out.InheritedClipPathID = inherited.InheritedClipPathID
	out.InheritedMaskID = inherited.InheritedMaskID
	out.ViewportWidth = inherited.ViewportWidth
	out.ViewportHeight = inherited.ViewportHeight
	return out
}

// InheritedProperties lists the property names Inherit keeps, in table order.
func InheritedProperties() []string {
	var names []string
	for _, p := range properties {
		if p.inherit {
			names = append(names, p.name)
		}
	}
	return names
}
