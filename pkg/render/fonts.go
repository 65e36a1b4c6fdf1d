package render

import (
	"fmt"
	"strings"

	"github.com/matzehuels/boxsvg/pkg/font"
	"github.com/matzehuels/boxsvg/pkg/render/svg"
)

// faceLister is implemented by engines that can hand out their font data,
// such as *font.Registry.
type faceLister interface {
	Faces() []*font.Face
}

func (rc *renderContext) useFamilies(list string) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	for _, f := range font.Families(list) {
		rc.families[f] = true
	}
}

// fontFaces returns a <style> element embedding every face whose family
// a text node asked for by name.
func (rc *renderContext) fontFaces() string {
	fl, ok := rc.r.engine.(faceLister)
	if !ok {
		return ""
	}
	var css strings.Builder
	seen := make(map[string]bool)
	for _, f := range fl.Faces() {
		if !rc.families[strings.ToLower(f.Family)] {
			continue
		}
		key := fmt.Sprintf("%s|%d|%s", f.Family, f.Weight, f.Style)
		if seen[key] {
			continue
		}
		seen[key] = true
		fmt.Fprintf(&css, "@font-face{font-family:%q;font-weight:%d;font-style:%s;src:url(data:font/ttf;base64,%s)}",
			f.Family, f.Weight, f.Style, f.Base64())
	}
	if css.Len() == 0 {
		return ""
	}
	return svg.Emit("style", svg.Attrs{svg.A("type", "text/css")}, css.String())
}
