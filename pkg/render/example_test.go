package render_test

import (
	"fmt"

	"github.com/matzehuels/waterfall/pkg/masonry"
	"github.com/matzehuels/waterfall/pkg/render"
)

func ExamplePosition() {
	e, _ := masonry.New(2)
	e.PlaceAll([]masonry.Item{
		{ID: "a", Height: 300},
		{ID: "b", Height: 250},
		{ID: "c", Height: 400},
	})

	scene := render.Position(e.Snapshot(), render.DefaultGeometry())
	for _, c := range scene.Cards {
		fmt.Printf("%s col=%d x=%.0f y=%.0f\n", c.ID, c.Column, c.X, c.Y)
	}
	// Output:
	// a col=0 x=10 y=10
	// b col=1 x=220 y=10
	// c col=1 x=220 y=270
}

func ExampleGeometry_ColumnWidth() {
	g := render.DefaultGeometry()
	fmt.Println(g.ColumnWidth(2), g.ColumnWidth(3))
	// Output: 200 130
}
