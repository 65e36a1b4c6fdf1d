package text_test

import (
	"fmt"

	"github.com/matzehuels/boxsvg/pkg/text"
)

func ExampleClassify() {
	// Han matches every CJK locale; the preferred one moves to the front.
	fmt.Println(text.Classify("漢字", "zh-CN"))
	fmt.Println(text.Classify("hello", ""))
	// Output:
	// [zh-CN ja-JP zh-TW zh-HK]
	// [unknown]
}

func ExampleTransform() {
	fmt.Println(text.Transform("hello wörld", "capitalize", ""))
	fmt.Println(text.Transform("straße", "uppercase", "de"))
	// Output:
	// Hello Wörld
	// STRASSE
}

func ExampleSplitWords() {
	res := text.SplitWords("hello world\nagain", "normal", "normal")
	fmt.Printf("%q\n", res.Words)
	fmt.Println(res.RequiredBreaks)
	// Output:
	// ["hello " "world" "again"]
	// [false true false]
}
