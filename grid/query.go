package grid

// Pixel returns the feature id at view-local coordinates.
// Coordinates outside the view report false instead of an error.
func (v *View) Pixel(x, y int) (ID, bool) {
	if x < 0 || y < 0 || x >= v.width || y >= v.height {
		return NoFeature, false
	}
	return v.Row(y)[x], true
}

// IsSolid reports whether every pixel equals pixel (0,0).
// Empty views are solid.
func (v *View) IsSolid() bool {
	if v.width == 0 || v.height == 0 {
		return true
	}
	first := v.Row(0)[0]
	for y := range v.height {
		for _, pixel := range v.Row(y) {
			if pixel != first {
				return false
			}
		}
	}
	return true
}
