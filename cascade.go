package cascade

import (
	"log"
	"strings"
)

// ElementID is a stable, opaque identifier for a visual element. The host may
// destroy and re-create the underlying node at any time; all engine state is
// keyed by ElementID and handles are re-resolved through an ElementResolver
// whenever geometry is needed.
type ElementID string

// Rect is an axis-aligned bounding box in scroll-content coordinates. The
// coordinate system has its origin at the top-left, with Y increasing
// downward (scroll direction).
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Center returns the center point of the rectangle.
func (r Rect) Center() (x, y float64) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// Point is a 2D coordinate. In grid space components may be fractional: the
// center of a 4-column grid is x=1.5.
type Point struct {
	X, Y float64
}

// Element is a handle to a visual element. The engine only ever reads
// geometry from it; writing resolved property values back is the applier's
// job.
type Element interface {
	// Bounds returns the element's bounding box in the coordinates of its
	// scroll content (i.e. unaffected by the current scroll offset).
	Bounds() Rect
}

// ParentedElement is an optional Element extension that exposes the host's
// containment hierarchy. FindScroller walks it to locate the nearest
// scrollable ancestor.
type ParentedElement interface {
	Element
	Parent() Element
}

// Scroller is a scrollable container: a camera over a tall canvas, a
// terminal pane, a list widget. The engine reads positions from it and never
// writes.
type Scroller interface {
	// ScrollOffset returns the current scroll position in pixels.
	ScrollOffset() float64
	// ViewportSize returns the visible extent in pixels along the scroll
	// axis.
	ViewportSize() float64
	// ContentSize returns the total scrollable extent in pixels.
	ContentSize() float64
}

// ElementResolver looks up live element handles by ID. Resolve returns nil
// when the element does not currently exist; callers treat that as a soft
// condition, not an error.
type ElementResolver interface {
	Resolve(id ElementID) Element
}

// ResolverFunc adapts a plain function to the ElementResolver interface.
type ResolverFunc func(id ElementID) Element

// Resolve calls f(id).
func (f ResolverFunc) Resolve(id ElementID) Element { return f(id) }

// FindScroller walks the parent chain of el looking for the nearest ancestor
// that is itself a Scroller with overflowing content. If none is found (or
// el does not expose parents) the fallback scroller is returned.
func FindScroller(el Element, fallback Scroller) Scroller {
	p, ok := el.(ParentedElement)
	for ok {
		parent := p.Parent()
		if parent == nil {
			break
		}
		if sc, is := parent.(Scroller); is && sc.ContentSize() > sc.ViewportSize() {
			return sc
		}
		p, ok = parent.(ParentedElement)
	}
	return fallback
}

// StaggerMode selects how per-element timing offsets are consumed.
type StaggerMode uint8

const (
	ModeScrubbed  StaggerMode = iota // progress is a continuous function of scroll within each element's window
	ModeThreshold                    // one-shot trigger when scroll progress crosses an element's checkpoint
)

// StaggerStrategy selects how offsets/checkpoints are distributed across
// elements.
type StaggerStrategy uint8

const (
	StrategyLinear StaggerStrategy = iota // evenly spaced in input order
	StrategyGrid                          // distance bands from an origin, or row/column waves
	StrategyRandom                        // uniform random spread
)

// GridMode selects the grouping scheme used by StrategyGrid.
type GridMode uint8

const (
	GridPointBased  GridMode = iota // distance from a focal origin point
	GridRowBased                    // wave across rows
	GridColumnBased                 // wave across columns
)

// DistanceMetric selects how point-based grid distance is measured.
type DistanceMetric uint8

const (
	MetricEuclidean DistanceMetric = iota // straight-line distance
	MetricManhattan                       // sum of absolute axis deltas
	MetricChebyshev                       // maximum absolute axis delta
	MetricMin                             // minimum absolute axis delta, edge-aware
)

// ReverseMode selects what "reversed" means for a grid stagger.
type ReverseMode uint8

const (
	// ReverseSameOrigin keeps the forward delay order; the caller plays each
	// element's own timeline backward instead.
	ReverseSameOrigin ReverseMode = iota
	// ReverseLatestElements inverts the band order so the band farthest from
	// the origin starts first, a true timing inversion.
	ReverseLatestElements
)

// WaveDirection selects the visitation order for row/column waves.
type WaveDirection uint8

const (
	WaveForward   WaveDirection = iota // top-to-bottom / left-to-right
	WaveReverse                        // bottom-to-top / right-to-left
	WaveCenterOut                      // center first, expanding outward
	WaveEdgesIn                        // both extremes first, converging
)

// StaggerConfig describes how one animation's timing is distributed across
// its elements. Zero value: scrubbed, linear, full-range windows.
type StaggerConfig struct {
	Mode        StaggerMode
	Strategy    StaggerStrategy
	ScrubWindow float64 // percent [0,100] of the scroll range each element's animation spans (scrubbed only)
	Grid        GridStaggerConfig

	// BackwardRetrigger re-fires threshold elements when scroll progress
	// crosses back below their checkpoint.
	BackwardRetrigger bool
}

// GridStaggerConfig holds the StrategyGrid sub-options.
type GridStaggerConfig struct {
	Mode        GridMode
	Origin      string // symbolic origin name, resolved by ResolveOrigin
	Metric      DistanceMetric
	Reverse     bool
	ReverseMode ReverseMode
	Direction   WaveDirection // row/column waves only

	// Rows and Columns override grid detection when non-zero.
	Rows, Columns int

	// Tolerance is the pixel tolerance for clustering element positions.
	// Zero means DefaultGridTolerance.
	Tolerance float64
}

// DefaultGridTolerance is the pixel tolerance within which two element edges
// are considered to share a row or column.
const DefaultGridTolerance = 2.0

// normalizeName lowercases a symbolic config name and strips separators, so
// "Top-Left", "top_left" and "topleft" all compare equal.
func normalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(name)
}

// ParseStaggerMode maps a config string to a StaggerMode. Unknown names fall
// back to ModeScrubbed with a logged warning.
func ParseStaggerMode(name string) StaggerMode {
	switch normalizeName(name) {
	case "", "scrub", "scrubbed":
		return ModeScrubbed
	case "threshold", "trigger":
		return ModeThreshold
	}
	log.Printf("cascade: unknown stagger mode %q, using scrubbed", name)
	return ModeScrubbed
}

// ParseStaggerStrategy maps a config string to a StaggerStrategy. Unknown
// names fall back to StrategyLinear with a logged warning.
func ParseStaggerStrategy(name string) StaggerStrategy {
	switch normalizeName(name) {
	case "", "linear":
		return StrategyLinear
	case "grid":
		return StrategyGrid
	case "random":
		return StrategyRandom
	}
	log.Printf("cascade: unknown stagger strategy %q, using linear", name)
	return StrategyLinear
}

// ParseGridMode maps a config string to a GridMode. Unknown names fall back
// to GridPointBased with a logged warning.
func ParseGridMode(name string) GridMode {
	switch normalizeName(name) {
	case "", "point", "pointbased":
		return GridPointBased
	case "row", "rowbased", "rows":
		return GridRowBased
	case "column", "columnbased", "columns":
		return GridColumnBased
	}
	log.Printf("cascade: unknown grid mode %q, using point-based", name)
	return GridPointBased
}

// ParseDistanceMetric maps a config string to a DistanceMetric. Unknown
// names fall back to MetricEuclidean with a logged warning.
func ParseDistanceMetric(name string) DistanceMetric {
	switch normalizeName(name) {
	case "", "euclidean":
		return MetricEuclidean
	case "manhattan":
		return MetricManhattan
	case "chebyshev", "max":
		return MetricChebyshev
	case "min", "edge":
		return MetricMin
	}
	log.Printf("cascade: unknown distance metric %q, using euclidean", name)
	return MetricEuclidean
}

// ParseReverseMode maps a config string to a ReverseMode. Unknown names fall
// back to ReverseSameOrigin with a logged warning.
func ParseReverseMode(name string) ReverseMode {
	switch normalizeName(name) {
	case "", "sameorigin":
		return ReverseSameOrigin
	case "latestelements", "latest":
		return ReverseLatestElements
	}
	log.Printf("cascade: unknown reverse mode %q, using same-origin", name)
	return ReverseSameOrigin
}

// ParseWaveDirection maps a config string to a WaveDirection. Unknown names
// fall back to WaveForward with a logged warning.
func ParseWaveDirection(name string) WaveDirection {
	switch normalizeName(name) {
	case "", "linear", "forward", "toptobottom", "lefttoright":
		return WaveForward
	case "reverse", "backward", "bottomtotop", "righttoleft":
		return WaveReverse
	case "centerout", "center":
		return WaveCenterOut
	case "edgesin", "edges":
		return WaveEdgesIn
	}
	log.Printf("cascade: unknown wave direction %q, using linear", name)
	return WaveForward
}
