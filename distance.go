package cascade

import (
	"math"
	"sort"
)

// bandPrecision rounds normalized distances before banding so elements that
// differ only by floating-point noise share a band (and thus a delay).
const bandPrecision = 1000

// ComputeDistances populates Distance and NormalizedDistance on every
// element of the layout, measuring from the given origin (grid coordinates)
// under the selected metric, and records MaxDistance. Distances are measured
// in pixel space between each element's bounding-box center and the origin
// projected onto the pixel bounding box of the whole set.
//
// When every element is equidistant from the origin (including the
// one-element case) all normalized distances are 0.
func ComputeDistances(layout *GridLayout, origin Point, metric DistanceMetric) {
	if layout.Empty() {
		layout.MaxDistance = 0
		return
	}

	ox, oy := originPixel(layout, origin)

	maxDist := 0.0
	minDist := math.Inf(1)
	for i := range layout.Elements {
		cx, cy := layout.Elements[i].PixelBounds.Center()
		d := metricDistance(metric, cx-ox, cy-oy, layout, origin)
		layout.Elements[i].Distance = d
		if d > maxDist {
			maxDist = d
		}
		if d < minDist {
			minDist = d
		}
	}
	layout.MaxDistance = maxDist

	if maxDist == 0 || maxDist-minDist < 1e-9 {
		for i := range layout.Elements {
			layout.Elements[i].NormalizedDistance = 0
		}
		return
	}
	for i := range layout.Elements {
		layout.Elements[i].NormalizedDistance = clamp(layout.Elements[i].Distance/maxDist, 0, 1)
	}
}

// originPixel converts a grid-coordinate origin to a pixel coordinate by
// linear interpolation across the pixel bounding box of all elements. Exact
// edge and center coordinates are special-cased so they land precisely on
// the box edge or midpoint instead of accumulating rounding drift.
func originPixel(layout *GridLayout, origin Point) (x, y float64) {
	box := unionBounds(layout.Elements)

	x = box.X + axisFraction(origin.X, layout.Columns)*box.Width
	y = box.Y + axisFraction(origin.Y, layout.Rows)*box.Height
	return x, y
}

// axisFraction maps a grid coordinate on one axis to a [0,1] fraction of the
// pixel bounding box along that axis.
func axisFraction(coord float64, count int) float64 {
	if count <= 1 {
		return 0.5
	}
	max := float64(count - 1)
	switch {
	case coord <= 0:
		return 0
	case coord >= max:
		return 1
	case coord == max/2:
		return 0.5
	}
	return coord / max
}

// unionBounds returns the pixel bounding box enclosing all elements.
func unionBounds(elems []GridElement) Rect {
	b := elems[0].PixelBounds
	minX, minY := b.X, b.Y
	maxX, maxY := b.X+b.Width, b.Y+b.Height
	for i := 1; i < len(elems); i++ {
		e := elems[i].PixelBounds
		minX = math.Min(minX, e.X)
		minY = math.Min(minY, e.Y)
		maxX = math.Max(maxX, e.X+e.Width)
		maxY = math.Max(maxY, e.Y+e.Height)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// metricDistance measures a pixel-space delta under the selected metric.
// The layout and grid origin are needed by MetricMin's edge-aware rule.
func metricDistance(metric DistanceMetric, dx, dy float64, layout *GridLayout, origin Point) float64 {
	adx, ady := math.Abs(dx), math.Abs(dy)
	switch metric {
	case MetricManhattan:
		return adx + ady
	case MetricChebyshev:
		return math.Max(adx, ady)
	case MetricMin:
		return minAxisDistance(adx, ady, layout, origin)
	default:
		return math.Hypot(dx, dy)
	}
}

// minAxisDistance is the edge-aware minimum metric. Ordinarily it is the
// smaller absolute axis delta, but when the origin sits exactly on a grid
// edge while centered on the other axis, every element sharing the origin's
// row or column would collapse into a zero-distance band. In that case the
// metric degenerates to the single-axis distance measured away from the
// edge.
func minAxisDistance(adx, ady float64, layout *GridLayout, origin Point) float64 {
	maxCol := float64(layout.Columns - 1)
	maxRow := float64(layout.Rows - 1)

	onXEdge := origin.X == 0 || origin.X == maxCol
	onYEdge := origin.Y == 0 || origin.Y == maxRow
	yCentered := origin.Y == maxRow/2
	xCentered := origin.X == maxCol/2

	if onXEdge && yCentered && !onYEdge {
		return adx
	}
	if onYEdge && xCentered && !onXEdge {
		return ady
	}
	return math.Min(adx, ady)
}

// DistanceBands returns the distinct rounded normalized distances present in
// the layout, sorted ascending. Band index 0 is the first to animate in
// forward order. ComputeDistances must have run first.
func DistanceBands(layout *GridLayout) []float64 {
	seen := make(map[float64]bool, len(layout.Elements))
	var bands []float64
	for i := range layout.Elements {
		b := roundBand(layout.Elements[i].NormalizedDistance)
		if !seen[b] {
			seen[b] = true
			bands = append(bands, b)
		}
	}
	sort.Float64s(bands)
	return bands
}

// StaggerDelays groups elements into distance bands and assigns each band a
// delay that is a whole multiple of amount. Elements in one band start
// simultaneously.
//
// Forward order starts at the band nearest the origin. With reverse set and
// ReverseLatestElements, band order is inverted: the farthest band gets
// delay 0. With ReverseSameOrigin the delays are identical to forward order;
// the caller is expected to play each element's timeline backward instead.
// ComputeDistances must have run first.
func StaggerDelays(layout *GridLayout, amount float64, reverse bool, mode ReverseMode) map[ElementID]float64 {
	delays := make(map[ElementID]float64, len(layout.Elements))
	if layout.Empty() {
		return delays
	}

	bands := DistanceBands(layout)
	index := make(map[float64]int, len(bands))
	for i, b := range bands {
		index[b] = i
	}
	maxGroupIndex := len(bands) - 1

	for i := range layout.Elements {
		el := &layout.Elements[i]
		band := index[roundBand(el.NormalizedDistance)]
		if reverse && mode == ReverseLatestElements {
			band = maxGroupIndex - band
		}
		delays[el.ID] = amount * float64(band)
	}
	return delays
}

// roundBand rounds a normalized distance to band precision.
func roundBand(d float64) float64 {
	return math.Round(d*bandPrecision) / bandPrecision
}
