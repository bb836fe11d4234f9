package tiling

// Rect represents a window position and size in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Fraction bounds for the master area. Adjustments are clamped to this range
// before any geometry is computed.
const (
	MasterFractionMin = 0.1
	MasterFractionMax = 0.9
)

// ClampFraction forces a master fraction into [MasterFractionMin, MasterFractionMax].
func ClampFraction(f float64) float64 {
	if f < MasterFractionMin {
		return MasterFractionMin
	}
	if f > MasterFractionMax {
		return MasterFractionMax
	}
	return f
}

// Layout computes master-stack geometry for count windows on screen.
//
// The first window is the master and spans the full height on the left at
// masterFraction of the screen width. The remaining windows split the right
// region into equal-height bands, top to bottom; the last band absorbs the
// integer rounding remainder so the union of all rects covers the screen
// exactly. A single window gets the whole screen. count <= 0 returns nil.
func Layout(count int, masterFraction float64, screen Rect) []Rect {
	if count <= 0 {
		return nil
	}
	if count == 1 {
		return []Rect{screen}
	}

	masterFraction = ClampFraction(masterFraction)
	masterWidth := int(float64(screen.Width) * masterFraction)

	rects := make([]Rect, count)
	rects[0] = Rect{
		X:      screen.X,
		Y:      screen.Y,
		Width:  masterWidth,
		Height: screen.Height,
	}

	stackCount := count - 1
	stackWidth := screen.Width - masterWidth
	bandHeight := screen.Height / stackCount

	for i := 0; i < stackCount; i++ {
		h := bandHeight
		if i == stackCount-1 {
			h = screen.Height - i*bandHeight
		}
		rects[i+1] = Rect{
			X:      screen.X + masterWidth,
			Y:      screen.Y + i*bandHeight,
			Width:  stackWidth,
			Height: h,
		}
	}

	return rects
}
