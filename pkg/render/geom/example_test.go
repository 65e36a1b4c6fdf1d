package geom_test

import (
	"fmt"

	"github.com/matzehuels/boxsvg/pkg/node"
	"github.com/matzehuels/boxsvg/pkg/render/geom"
)

func ExampleResolveRadii() {
	// Both left corners exceed half the 40px edge, so each gets half.
	r := geom.ResolveRadii(geom.Radii{TopLeft: 30, BottomLeft: 30}, 100, 40)
	fmt.Printf("%+v\n", r)
	// Output:
	// {TopLeft:20 TopRight:0 BottomRight:0 BottomLeft:20}
}

func ExampleRoundedRectPath() {
	b := node.Box{Width: 40, Height: 20}
	fmt.Println(geom.RoundedRectPath(b, geom.Radii{TopLeft: 10, TopRight: 10, BottomRight: 10, BottomLeft: 10}))
	fmt.Printf("%q\n", geom.RoundedRectPath(b, geom.Radii{}))
	// Output:
	// M 10 0 H 30 A 10 10 0 0 1 40 10 V 10 A 10 10 0 0 1 30 20 H 10 A 10 10 0 0 1 0 10 V 10 A 10 10 0 0 1 10 0 Z
	// ""
}

func ExampleNormalizeStops() {
	stops := geom.NormalizeStops([]geom.ColorStop{
		{Color: "red"}, {Color: "green"}, {Color: "blue"},
	}, 100, false)
	for _, s := range stops {
		fmt.Printf("%.2f %s\n", s.Offset, s.Color)
	}
	// Output:
	// 0.00 red
	// 0.50 green
	// 1.00 blue
}
