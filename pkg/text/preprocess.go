package text

import "github.com/matzehuels/boxsvg/pkg/style"

// Processed is text content ready for line breaking.
type Processed struct {
	Text string
	LineBreakResult
	Limit LineLimit
}

// Preprocess runs the fixed pipeline: text-transform, white-space
// normalization, word-break segmentation, then line-limit resolution.
func Preprocess(content string, s style.Style, locale string) Processed {
	transformed := Transform(content, s.TextTransform, locale)
	normalized, allowSoftWrap := NormalizeWhitespace(transformed, s.WhiteSpace)
	words := SplitWords(normalized, s.WordBreak, s.OverflowWrap)
	words.AllowSoftWrap = allowSoftWrap
	return Processed{
		Text:            normalized,
		LineBreakResult: words,
		Limit:           ResolveLineLimit(s, allowSoftWrap),
	}
}
