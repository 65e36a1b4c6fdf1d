package svg_test

import (
	"fmt"

	"github.com/matzehuels/boxsvg/pkg/render/svg"
)

func ExampleEmit() {
	rect := svg.Emit("rect", svg.Attrs{
		svg.A("id", svg.ID(svg.Clip, "card/1")),
		svg.A("width", 12.5),
		svg.A("fill", nil),
	})
	fmt.Println(rect)
	// Output:
	// <rect id="clip-card_2f1" width="12.5"/>
}

func ExampleDocument() {
	fmt.Println(svg.Document(10, 10, "", svg.Emit("g", nil)))
	// Output:
	// <svg width="10" height="10" viewBox="0 0 10 10" xmlns="http://www.w3.org/2000/svg"><g/></svg>
}
