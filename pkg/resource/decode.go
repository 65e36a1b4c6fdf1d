package resource

import (
	"bytes"
	"encoding/base64"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/matzehuels/boxsvg/pkg/errors"
	"github.com/matzehuels/boxsvg/pkg/render/geom"
)

const mimeSVG = "image/svg+xml"

// parseDataURI splits data:[<mediatype>][;base64],<data>.
func parseDataURI(uri string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, errors.New(errors.ErrCodeInvalidFormat, "not a data URI")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, errors.New(errors.ErrCodeInvalidFormat, "data URI without payload")
	}
	mime, isBase64 := strings.CutSuffix(meta, ";base64")
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	if isBase64 {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return "", nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "data URI payload")
		}
		return mime, data, nil
	}
	data, err := url.PathUnescape(payload)
	if err != nil {
		return "", nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "data URI payload")
	}
	return mime, []byte(data), nil
}

func encodeDataURI(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// sniff returns the image media type of data. A hinted image/* type from a
// Content-Type header or file extension wins over content sniffing.
func sniff(data []byte, hint string) string {
	if i := strings.IndexByte(hint, ';'); i >= 0 {
		hint = hint[:i]
	}
	hint = strings.ToLower(strings.TrimSpace(hint))
	if strings.HasPrefix(hint, "image/") {
		return hint
	}
	detected := http.DetectContentType(data)
	if strings.HasPrefix(detected, "image/") {
		return detected
	}
	if bytes.Contains(data[:min(len(data), 1024)], []byte("<svg")) {
		return mimeSVG
	}
	return detected
}

var (
	svgTag     = regexp.MustCompile(`(?s)<svg\b[^>]*>`)
	svgAttr    = regexp.MustCompile(`\b(width|height|viewBox)\s*=\s*["']([^"']*)["']`)
	svgNumeric = regexp.MustCompile(`^\s*([0-9.]+)\s*(px)?\s*$`)
)

// svgSize reads width/height from the root element, falling back to the
// viewBox dimensions.
func svgSize(data []byte) (float64, float64, bool) {
	tag := svgTag.Find(data)
	if tag == nil {
		return 0, 0, false
	}
	var w, h, vw, vh float64
	for _, m := range svgAttr.FindAllSubmatch(tag, -1) {
		val := string(m[2])
		switch string(m[1]) {
		case "width":
			w = svgLength(val)
		case "height":
			h = svgLength(val)
		case "viewBox":
			f := strings.Fields(strings.ReplaceAll(val, ",", " "))
			if len(f) == 4 {
				vw, _ = strconv.ParseFloat(f[2], 64)
				vh, _ = strconv.ParseFloat(f[3], 64)
			}
		}
	}
	switch {
	case w > 0 && h > 0:
		return w, h, true
	case vw > 0 && vh > 0:
		return vw, vh, true
	}
	return 0, 0, false
}

func svgLength(v string) float64 {
	m := svgNumeric.FindStringSubmatch(v)
	if m == nil {
		return 0
	}
	f, _ := strconv.ParseFloat(m[1], 64)
	return f
}

// decodeImage builds the inline image for data, decoding only the header
// to find the intrinsic size.
func decodeImage(src, mime string, data []byte) (geom.Image, error) {
	if mime == mimeSVG {
		w, h, _ := svgSize(data)
		return geom.Image{Href: encodeDataURI(mime, data), Width: w, Height: h}, nil
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return geom.Image{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode image %s", shorten(src))
	}
	if !strings.HasPrefix(mime, "image/") {
		mime = "image/" + format
	}
	return geom.Image{
		Href:   encodeDataURI(mime, data),
		Width:  float64(cfg.Width),
		Height: float64(cfg.Height),
	}, nil
}

// shorten keeps data URIs out of error messages.
func shorten(src string) string {
	if strings.HasPrefix(src, "data:") && len(src) > 40 {
		return src[:40] + "..."
	}
	return src
}
