package cascade

import (
	"log"
	"math/rand/v2"
)

// ResolveOrigin turns a symbolic focal-point name into a grid coordinate,
// clamped into the detected grid bounds. Recognized names (case and
// separator insensitive): center, top-left, top, top-right, left, right,
// bottom-left, bottom, bottom-right, first, last, random. Unknown names fall
// back to center with a logged warning.
//
// The resolved point is also stored on the layout as OriginPoint.
func ResolveOrigin(layout *GridLayout, name string) Point {
	if layout.Empty() {
		layout.OriginPoint = Point{}
		return layout.OriginPoint
	}

	maxCol := float64(layout.Columns - 1)
	maxRow := float64(layout.Rows - 1)
	midCol := maxCol / 2
	midRow := maxRow / 2

	var p Point
	switch normalizeName(name) {
	case "", "center", "middle":
		p = Point{X: midCol, Y: midRow}
	case "topleft", "start":
		p = Point{X: 0, Y: 0}
	case "top":
		p = Point{X: midCol, Y: 0}
	case "topright":
		p = Point{X: maxCol, Y: 0}
	case "left":
		p = Point{X: 0, Y: midRow}
	case "right":
		p = Point{X: maxCol, Y: midRow}
	case "bottomleft":
		p = Point{X: 0, Y: maxRow}
	case "bottom":
		p = Point{X: midCol, Y: maxRow}
	case "bottomright", "end":
		p = Point{X: maxCol, Y: maxRow}
	case "first":
		p = layout.Elements[0].Position
	case "last":
		p = layout.Elements[len(layout.Elements)-1].Position
	case "random":
		p = layout.Elements[rand.IntN(len(layout.Elements))].Position
	default:
		log.Printf("cascade: unknown stagger origin %q, using center", name)
		p = Point{X: midCol, Y: midRow}
	}

	p.X = clamp(p.X, 0, maxCol)
	p.Y = clamp(p.Y, 0, maxRow)
	layout.OriginPoint = p
	return p
}

// clamp limits v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
