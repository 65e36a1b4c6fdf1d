package text

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/boxsvg/pkg/errors"
	"github.com/matzehuels/boxsvg/pkg/font"
	"github.com/matzehuels/boxsvg/pkg/style"
)

// monoEngine gives every grapheme the same advance.
type monoEngine struct {
	advance float64
	empty   bool
	calls   int
}

func (e *monoEngine) Measure(g string, spec font.Spec) float64 {
	e.calls++
	return e.advance + spec.LetterSpacing
}

func (e *monoEngine) GlyphBoxes(gs []string, spec font.Spec, x, baseline float64) []font.GlyphBox {
	return nil
}

func (e *monoEngine) Metrics(spec font.Spec) font.Metrics {
	return font.Metrics{Ascent: spec.Size * 0.8, Descent: spec.Size * 0.2}
}

func (e *monoEngine) Empty() bool { return e.empty }

func newMeasurer(advance float64) (*Measurer, *monoEngine) {
	e := &monoEngine{advance: advance}
	return NewMeasureCache(e).Measurer(font.Spec{Size: 10}, nil), e
}

func TestClassify(t *testing.T) {
	tests := []struct {
		segment   string
		preferred string
		want      []string
	}{
		{"😀", "", []string{"emoji"}},
		{"🇩🇪", "", []string{"emoji"}},
		{"1️⃣", "", []string{"emoji"}},
		{"❤️", "", []string{"emoji"}},
		{"桜", "", []string{"ja-JP", "zh-CN", "zh-TW", "zh-HK"}},
		{"桜", "zh-TW", []string{"zh-TW", "ja-JP", "zh-CN", "zh-HK"}},
		{"桜", "ko-KR", []string{"ja-JP", "zh-CN", "zh-TW", "zh-HK"}},
		{"さくら", "", []string{"ja-JP"}},
		{"한국어", "", []string{"ko-KR"}},
		{"สวัสดี", "", []string{"th-TH"}},
		{"שלום", "", []string{"he-IL"}},
		{"नमस्ते", "", []string{"devanagari"}},
		{"∑", "", []string{"math"}},
		{"★", "", []string{"symbol"}},
		{"hello", "", []string{"unknown"}},
	}

	for _, tt := range tests {
		t.Run(tt.segment, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.segment, tt.preferred))
		})
	}
}

func TestTransform(t *testing.T) {
	assert.Equal(t, "HELLO WORLD", Transform("hello world", "uppercase", ""))
	assert.Equal(t, "hello", Transform("HELLO", "lowercase", ""))
	assert.Equal(t, "İSTANBUL", Transform("istanbul", "uppercase", "tr"))
	assert.Equal(t, "Hello World-Wide", Transform("hello world-wide", "capitalize", ""))
	assert.Equal(t, "as is", Transform("as is", "none", ""))
}

func TestCapitalizeKeepsGraphemeIntact(t *testing.T) {
	// e + combining acute accent forms one grapheme.
	in := "e\u0301cole ok"
	got := Transform(in, "capitalize", "")
	assert.Equal(t, "E\u0301cole Ok", got)
	assert.Equal(t, len(Graphemes(in)), len(Graphemes(got)))
}

func TestNormalizeWhitespace(t *testing.T) {
	tests := []struct {
		mode     string
		in       string
		want     string
		softWrap bool
	}{
		{"normal", "  a \t b\nc  ", "a b c", true},
		{"", "a  b", "a b", true},
		{"nowrap", "a\n\nb", "a b", false},
		{"pre", "  a\n b ", "  a\n b ", false},
		{"pre-wrap", "a  \nb", "a  \nb", true},
		{"pre-line", "  a   b\nc ", "a b\nc", true},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			got, soft := NormalizeWhitespace(tt.in, tt.mode)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.softWrap, soft)
		})
	}
}

func TestSplitWords(t *testing.T) {
	res := SplitWords("Hello big world", "normal", "")
	assert.Equal(t, []string{"Hello ", "big ", "world"}, res.Words)
	assert.Equal(t, []bool{false, false, false}, res.RequiredBreaks)
	assert.False(t, res.AllowBreakWord)

	res = SplitWords("a\n\nb", "normal", "")
	assert.Equal(t, []string{"a", "", "b"}, res.Words)
	assert.Equal(t, []bool{true, true, false}, res.RequiredBreaks)

	res = SplitWords("ab cd", "break-all", "")
	assert.Equal(t, []string{"a", "b", " ", "c", "d"}, res.Words)
	assert.True(t, res.AllowBreakWord)

	res = SplitWords("abc", "normal", "anywhere")
	assert.True(t, res.AllowBreakWord)
}

func TestSplitWordsKeepAll(t *testing.T) {
	res := SplitWords("日本語 テキスト", "keep-all", "")
	assert.Equal(t, []string{"日本語 ", "テキスト"}, res.Words)

	normal := SplitWords("日本語", "normal", "")
	assert.Greater(t, len(normal.Words), 1)
}

func TestResolveLineLimit(t *testing.T) {
	tests := []struct {
		name  string
		style style.Style
		soft  bool
		want  LineLimit
	}{
		{"numeric clamp", style.Style{Display: "block", LineClamp: "3"}, true, LineLimit{3, "…"}},
		{"custom ellipsis", style.Style{Display: "block", LineClamp: `2 "… more"`}, true, LineLimit{2, "… more"}},
		{"clamp needs block", style.Style{Display: "flex", LineClamp: "3"}, true, LineLimit{}},
		{"webkit box", style.Style{WebkitBoxOrient: "vertical", WebkitLineClamp: 4, TextOverflow: "ellipsis"}, true, LineLimit{4, "…"}},
		{"webkit needs ellipsis", style.Style{WebkitBoxOrient: "vertical", WebkitLineClamp: 4}, true, LineLimit{}},
		{"nowrap ellipsis", style.Style{TextOverflow: "ellipsis", Overflow: "hidden"}, false, LineLimit{1, "…"}},
		{"wrapping ellipsis", style.Style{TextOverflow: "ellipsis", Overflow: "hidden"}, true, LineLimit{}},
		{
			"numeric clamp wins over webkit",
			style.Style{Display: "block", LineClamp: "2", WebkitBoxOrient: "vertical", WebkitLineClamp: 5, TextOverflow: "ellipsis"},
			true, LineLimit{2, "…"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveLineLimit(tt.style, tt.soft))
		})
	}
}

func TestPreprocessOrder(t *testing.T) {
	s := style.Style{TextTransform: "uppercase", WhiteSpace: "normal"}
	p := Preprocess("  hello\n  world ", s, "")
	assert.Equal(t, "HELLO WORLD", p.Text)
	assert.Equal(t, []string{"HELLO ", "WORLD"}, p.Words)
	assert.True(t, p.AllowSoftWrap)
	assert.False(t, p.Limit.Limited())
}

func TestMeasurer(t *testing.T) {
	e := &monoEngine{advance: 7}
	cache := NewMeasureCache(e)
	m := cache.Measurer(font.Spec{Size: 20}, map[string]string{"🦊": "data:image/png;base64,AA=="})

	assert.Equal(t, 21.0, m.MeasureText("abc"))
	assert.Equal(t, 3, e.calls)
	assert.Equal(t, 14.0, m.MeasureText("ab"))
	assert.Equal(t, 3, e.calls, "graphemes are memoized")

	assert.Equal(t, 20.0, m.Measure("🦊"), "image graphemes cost exactly font size")
	assert.Equal(t, 3, e.calls)

	other := cache.Measurer(font.Spec{Size: 20}, nil)
	other.Measure("a")
	assert.Equal(t, 3, e.calls, "same spec shares the table")

	spaced := cache.Measurer(font.Spec{Size: 20, LetterSpacing: 1}, nil)
	assert.Equal(t, 8.0, spaced.Measure("a"))
	assert.Equal(t, 4, e.calls)

	hits, misses := cache.Stats()
	assert.Equal(t, int64(4), misses)
	assert.Positive(t, hits)
}

func TestLayoutNoFont(t *testing.T) {
	e := &monoEngine{advance: 10, empty: true}
	m := NewMeasureCache(e).Measurer(font.Spec{Size: 10}, nil)
	_, err := Layout(Preprocess("hi", style.Style{}, ""), m, LayoutOptions{Width: 100, LineHeight: 12})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeNoFontLoaded))
}

func TestLayoutGreedy(t *testing.T) {
	m, _ := newMeasurer(10)
	p := Preprocess("aaaa bbbb cccc", style.Style{}, "")
	b, err := Layout(p, m, LayoutOptions{Width: 90, LineHeight: 20, Ascent: 8, Descent: 2})
	require.NoError(t, err)

	require.Len(t, b.Lines, 2)
	assert.Equal(t, "aaaa bbbb", b.Lines[0].Text())
	assert.Equal(t, "cccc", b.Lines[1].Text())
	assert.Equal(t, 90.0, b.Lines[0].Width)
	assert.Equal(t, 40.0, b.Height)
	// baseline = top + (lh - (asc+desc))/2 + asc
	assert.Equal(t, 13.0, b.Lines[0].Runs[0].Y)
	assert.Equal(t, 33.0, b.Lines[1].Runs[0].Y)
}

func TestLayoutRequiredBreak(t *testing.T) {
	m, _ := newMeasurer(10)
	p := Preprocess("a\n\nb", style.Style{WhiteSpace: "pre-wrap"}, "")
	b, err := Layout(p, m, LayoutOptions{Width: 100, LineHeight: 10})
	require.NoError(t, err)
	require.Len(t, b.Lines, 3)
	assert.Equal(t, "a", b.Lines[0].Text())
	assert.Empty(t, b.Lines[1].Runs)
	assert.Equal(t, "b", b.Lines[2].Text())
}

func TestLayoutBreakWord(t *testing.T) {
	m, _ := newMeasurer(10)
	p := Preprocess("abcdefgh", style.Style{WordBreak: "break-word"}, "")
	b, err := Layout(p, m, LayoutOptions{Width: 30, LineHeight: 10})
	require.NoError(t, err)
	var got []string
	for _, l := range b.Lines {
		got = append(got, l.Text())
	}
	assert.Equal(t, []string{"abc", "def", "gh"}, got)
}

func TestLayoutAlign(t *testing.T) {
	m, _ := newMeasurer(10)
	p := Preprocess("ab", style.Style{}, "")
	for align, x := range map[string]float64{"left": 5, "start": 5, "right": 85, "end": 85, "center": 45} {
		b, err := Layout(p, m, LayoutOptions{Left: 5, Width: 100, LineHeight: 10, Align: align})
		require.NoError(t, err)
		assert.Equal(t, x, b.Lines[0].Runs[0].X, align)
	}
}

func TestLayoutJustify(t *testing.T) {
	m, _ := newMeasurer(10)
	p := Preprocess("aa bb cc dd", style.Style{}, "")
	b, err := Layout(p, m, LayoutOptions{Width: 100, LineHeight: 10, Align: "justify"})
	require.NoError(t, err)
	require.Len(t, b.Lines, 2)
	runs := b.Lines[0].Runs
	require.Len(t, runs, 3)
	assert.Equal(t, 0.0, runs[0].X)
	assert.Equal(t, 80.0, runs[2].X)
	assert.Len(t, b.Lines[1].Runs, 1, "last line is not justified")
}

func TestLineClampCustomEllipsis(t *testing.T) {
	m, _ := newMeasurer(10)
	s := style.Style{Display: "block", LineClamp: `2 "… more"`}
	p := Preprocess("aaaa bbbb cccc dddd eeee ffff", s, "")

	b, err := Layout(p, m, LayoutOptions{Width: 100, LineHeight: 10})
	require.NoError(t, err)
	require.Len(t, b.Lines, 2)
	assert.True(t, b.Truncated)
	last := b.Lines[1].Text()
	assert.True(t, strings.HasSuffix(last, "… more"), last)
	assert.LessOrEqual(t, m.MeasureText(last), 100.0)
}

func TestLineClampEllipsisFallback(t *testing.T) {
	m, _ := newMeasurer(10)
	s := style.Style{Display: "block", LineClamp: `2 "… more"`}
	p := Preprocess("aaaa bbbb cccc dddd", s, "")

	b, err := Layout(p, m, LayoutOptions{Width: 50, LineHeight: 10})
	require.NoError(t, err)
	require.Len(t, b.Lines, 2)
	last := b.Lines[1].Text()
	assert.Equal(t, "bbbb…", last)
	assert.NotContains(t, last, "more")
}

func TestSingleLineEllipsis(t *testing.T) {
	m, _ := newMeasurer(10)
	s := style.Style{WhiteSpace: "nowrap", Overflow: "hidden", TextOverflow: "ellipsis"}
	p := Preprocess("abcdefghijkl", s, "")

	b, err := Layout(p, m, LayoutOptions{Width: 50, LineHeight: 10})
	require.NoError(t, err)
	require.Len(t, b.Lines, 1)
	assert.Equal(t, "abcd…", b.Lines[0].Text())
}
