package cascade

import (
	"math"
	"testing"
)

// testElement is a stub element with fixed bounds and an optional parent.
type testElement struct {
	bounds Rect
	parent Element
}

func (e *testElement) Bounds() Rect    { return e.bounds }
func (e *testElement) Parent() Element { return e.parent }

// scrollerElement is a stub element that is also a scrollable container.
type scrollerElement struct {
	testElement
	ScriptedScroller
}

// testWorld is a mutable element registry backing an ElementResolver.
type testWorld struct {
	elems map[ElementID]Element
	order []ElementID
}

func newTestWorld() *testWorld {
	return &testWorld{elems: make(map[ElementID]Element)}
}

func (w *testWorld) add(id ElementID, bounds Rect) *testElement {
	el := &testElement{bounds: bounds}
	w.elems[id] = el
	w.order = append(w.order, id)
	return el
}

func (w *testWorld) remove(id ElementID) {
	delete(w.elems, id)
}

func (w *testWorld) Resolve(id ElementID) Element {
	return w.elems[id]
}

// gridWorld lays rows x cols cells of size w x h with the given gap, in
// row-major order, and returns the world plus the ordered IDs.
func gridWorld(rows, cols int, w, h, gap float64) (*testWorld, []ElementID) {
	world := newTestWorld()
	var ids []ElementID
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			id := ElementID(string(rune('a' + r*cols + c)))
			world.add(id, Rect{
				X:     float64(c) * (w + gap),
				Y:     float64(r) * (h + gap),
				Width: w, Height: h,
			})
			ids = append(ids, id)
		}
	}
	return world, ids
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 30, Height: 40}

	if !r.Contains(10, 20) {
		t.Error("top-left corner should be inside")
	}
	if !r.Contains(40, 60) {
		t.Error("bottom-right corner should be inside")
	}
	if r.Contains(9, 20) {
		t.Error("point left of rect should be outside")
	}
	if r.Contains(25, 61) {
		t.Error("point below rect should be outside")
	}
}

func TestRectCenter(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 30, Height: 40}
	cx, cy := r.Center()
	if !near(cx, 25) || !near(cy, 40) {
		t.Errorf("Center = (%f, %f), want (25, 40)", cx, cy)
	}
}

func TestFindScrollerWalksToNearestScrollableAncestor(t *testing.T) {
	fallback := &ScriptedScroller{Viewport: 800, Content: 3000}

	// Non-overflowing ancestor should be skipped.
	tight := &scrollerElement{}
	tight.Viewport = 500
	tight.Content = 500

	overflowing := &scrollerElement{}
	overflowing.Viewport = 400
	overflowing.Content = 2000

	leaf := &testElement{parent: tight}
	tight.parent = overflowing

	got := FindScroller(leaf, fallback)
	if got != overflowing {
		t.Fatal("expected the overflowing ancestor to be chosen")
	}
}

func TestFindScrollerFallsBack(t *testing.T) {
	fallback := &ScriptedScroller{Viewport: 800, Content: 3000}

	if got := FindScroller(&testElement{}, fallback); got != fallback {
		t.Error("element without parents should use the fallback")
	}

	// Parent chain without any scroller.
	top := &testElement{}
	leaf := &testElement{parent: top}
	if got := FindScroller(leaf, fallback); got != fallback {
		t.Error("chain without scrollers should use the fallback")
	}
}

func TestParseDistanceMetric(t *testing.T) {
	cases := []struct {
		name string
		want DistanceMetric
	}{
		{"euclidean", MetricEuclidean},
		{"Manhattan", MetricManhattan},
		{"chebyshev", MetricChebyshev},
		{"max", MetricChebyshev},
		{"min", MetricMin},
		{"edge", MetricMin},
		{"", MetricEuclidean},
		{"warp", MetricEuclidean}, // unknown falls back
	}
	for _, c := range cases {
		if got := ParseDistanceMetric(c.name); got != c.want {
			t.Errorf("ParseDistanceMetric(%q) = %d, want %d", c.name, got, c.want)
		}
	}
}

func TestParseWaveDirection(t *testing.T) {
	cases := []struct {
		name string
		want WaveDirection
	}{
		{"linear", WaveForward},
		{"top-to-bottom", WaveForward},
		{"reverse", WaveReverse},
		{"center-out", WaveCenterOut},
		{"edges-in", WaveEdgesIn},
		{"sideways", WaveForward}, // unknown falls back
	}
	for _, c := range cases {
		if got := ParseWaveDirection(c.name); got != c.want {
			t.Errorf("ParseWaveDirection(%q) = %d, want %d", c.name, got, c.want)
		}
	}
}

func TestParseModeStrategyAndReverse(t *testing.T) {
	if ParseStaggerMode("threshold") != ModeThreshold {
		t.Error("threshold should parse")
	}
	if ParseStaggerMode("bogus") != ModeScrubbed {
		t.Error("unknown mode should fall back to scrubbed")
	}
	if ParseStaggerStrategy("grid") != StrategyGrid {
		t.Error("grid should parse")
	}
	if ParseStaggerStrategy("Random") != StrategyRandom {
		t.Error("random should parse case-insensitively")
	}
	if ParseReverseMode("latest-elements") != ReverseLatestElements {
		t.Error("latest-elements should parse")
	}
	if ParseReverseMode("") != ReverseSameOrigin {
		t.Error("empty reverse mode should default to same-origin")
	}
	if ParseGridMode("row-based") != GridRowBased {
		t.Error("row-based should parse")
	}
}
