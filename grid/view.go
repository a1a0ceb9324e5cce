package grid

import "fmt"

// View is an immutable rectangular window into a Grid.
// It copies no pixels and keeps the parent grid alive while referenced.
type View struct {
	parent *Grid
	x      int
	y      int
	width  int
	height int
}

// NewView returns the view of g at (x, y) with size w x h.
// The rectangle must lie fully within the grid.
func NewView(g *Grid, x, y, w, h int) (*View, error) {
	if g == nil {
		return nil, fmt.Errorf("%w: nil grid", ErrInvalidArgument)
	}
	if err := g.checkRect(x, y, w, h); err != nil {
		return nil, err
	}
	return &View{parent: g, x: x, y: y, width: w, height: h}, nil
}

// View is a shorthand for NewView(g, x, y, w, h).
func (g *Grid) View(x, y, w, h int) (*View, error) {
	return NewView(g, x, y, w, h)
}

func (v *View) Width() int  { return v.width }
func (v *View) Height() int { return v.height }

// Origin returns the position of the view's top-left pixel in the parent grid.
func (v *View) Origin() (x, y int) { return v.x, v.y }

func (v *View) Grid() *Grid { return v.parent }

// At returns the feature id at view-local coordinates.
func (v *View) At(x, y int) (ID, error) {
	if x < 0 || y < 0 || x >= v.width || y >= v.height {
		return NoFeature, fmt.Errorf("%w: pixel (%d,%d) outside %dx%d view", ErrIndexOutOfRange, x, y, v.width, v.height)
	}
	return v.parent.pixels[(v.y+y)*v.parent.width+v.x+x], nil
}

// Row returns the pixels of view row y. The slice aliases the parent grid
// and must not be modified.
func (v *View) Row(y int) []ID {
	start := (v.y+y)*v.parent.width + v.x
	return v.parent.pixels[start : start+v.width : start+v.width]
}
