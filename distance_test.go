package cascade

import (
	"math"
	"testing"
)

func TestComputeDistancesCenterOrigin3x3(t *testing.T) {
	world, ids := gridWorld(3, 3, 100, 80, 10)
	layout := DetectGrid(world, ids)
	origin := ResolveOrigin(&layout, "center")

	ComputeDistances(&layout, origin, MetricEuclidean)

	// The center element is at distance 0 and is the sole occupant of the
	// first band; the four corners form the farthest band.
	bands := DistanceBands(&layout)
	if len(bands) != 4 {
		t.Fatalf("bands = %d, want 4", len(bands))
	}
	if !near(bands[0], 0) {
		t.Errorf("first band = %v, want 0", bands[0])
	}

	var zeroCount, farCount int
	for _, el := range layout.Elements {
		if near(el.NormalizedDistance, 0) {
			zeroCount++
		}
		if near(el.NormalizedDistance, 1) {
			farCount++
		}
	}
	if zeroCount != 1 {
		t.Errorf("band-0 occupants = %d, want 1 (center element)", zeroCount)
	}
	if farCount != 4 {
		t.Errorf("farthest band occupants = %d, want 4 (corners)", farCount)
	}
}

func TestComputeDistancesNormalizationBounds(t *testing.T) {
	world, ids := gridWorld(4, 5, 60, 60, 8)
	layout := DetectGrid(world, ids)
	origin := ResolveOrigin(&layout, "top-left")

	ComputeDistances(&layout, origin, MetricEuclidean)

	maxNorm, minNorm := 0.0, math.Inf(1)
	for _, el := range layout.Elements {
		maxNorm = math.Max(maxNorm, el.NormalizedDistance)
		minNorm = math.Min(minNorm, el.NormalizedDistance)
	}
	if !near(maxNorm, 1) {
		t.Errorf("max normalized distance = %v, want 1", maxNorm)
	}
	if minNorm < 0 {
		t.Errorf("min normalized distance = %v, want >= 0", minNorm)
	}
}

func TestComputeDistancesAllEqualNormalizeToZero(t *testing.T) {
	world, ids := gridWorld(1, 2, 100, 80, 10)
	layout := DetectGrid(world, ids)
	origin := ResolveOrigin(&layout, "center")

	ComputeDistances(&layout, origin, MetricEuclidean)

	for _, el := range layout.Elements {
		if !near(el.NormalizedDistance, 0) {
			t.Errorf("equidistant element normalized = %v, want 0", el.NormalizedDistance)
		}
	}
}

func TestComputeDistancesMetrics(t *testing.T) {
	world, ids := gridWorld(3, 3, 100, 80, 10)
	layout := DetectGrid(world, ids)
	origin := ResolveOrigin(&layout, "center")

	// A corner element sits 110px away in x, 90px in y from the center.
	corner := func() *GridElement {
		for i := range layout.Elements {
			if layout.Elements[i].ID == "a" {
				return &layout.Elements[i]
			}
		}
		t.Fatal("corner element missing")
		return nil
	}

	ComputeDistances(&layout, origin, MetricEuclidean)
	if !near(corner().Distance, math.Hypot(110, 90)) {
		t.Errorf("euclidean corner = %v, want %v", corner().Distance, math.Hypot(110, 90))
	}

	ComputeDistances(&layout, origin, MetricManhattan)
	if !near(corner().Distance, 200) {
		t.Errorf("manhattan corner = %v, want 200", corner().Distance)
	}

	ComputeDistances(&layout, origin, MetricChebyshev)
	if !near(corner().Distance, 110) {
		t.Errorf("chebyshev corner = %v, want 110", corner().Distance)
	}

	ComputeDistances(&layout, origin, MetricMin)
	if !near(corner().Distance, 90) {
		t.Errorf("min corner = %v, want 90", corner().Distance)
	}
}

func TestMinMetricEdgeAware(t *testing.T) {
	world, ids := gridWorld(3, 3, 100, 80, 10)
	layout := DetectGrid(world, ids)

	// Origin on the left edge, vertically centered. The plain min metric
	// would put every middle-row element at distance 0; edge awareness
	// measures along x instead.
	origin := ResolveOrigin(&layout, "left")
	ComputeDistances(&layout, origin, MetricMin)

	for _, el := range layout.Elements {
		cx, _ := el.PixelBounds.Center()
		if !near(el.Distance, cx) {
			t.Errorf("element %q edge-aware distance = %v, want %v", el.ID, el.Distance, cx)
		}
	}
}

func TestStaggerDelaysForward(t *testing.T) {
	world, ids := gridWorld(3, 3, 100, 80, 10)
	layout := DetectGrid(world, ids)
	origin := ResolveOrigin(&layout, "center")
	ComputeDistances(&layout, origin, MetricEuclidean)

	delays := StaggerDelays(&layout, 0.25, false, ReverseSameOrigin)

	// Center element starts first; corners are in the last of 4 bands.
	if !near(delays["e"], 0) {
		t.Errorf("center delay = %v, want 0", delays["e"])
	}
	if !near(delays["a"], 0.75) {
		t.Errorf("corner delay = %v, want 0.75", delays["a"])
	}

	// Ties share a band: all four corners get the same delay.
	for _, id := range []ElementID{"a", "c", "g", "i"} {
		if !near(delays[id], delays["a"]) {
			t.Errorf("corner %q delay = %v, want %v", id, delays[id], delays["a"])
		}
	}
}

func TestStaggerDelaysReverseLatestElements(t *testing.T) {
	world, ids := gridWorld(3, 3, 100, 80, 10)
	layout := DetectGrid(world, ids)
	origin := ResolveOrigin(&layout, "center")
	ComputeDistances(&layout, origin, MetricEuclidean)

	forward := StaggerDelays(&layout, 1, false, ReverseSameOrigin)
	reversed := StaggerDelays(&layout, 1, true, ReverseLatestElements)

	// True timing inversion: the farthest band starts first.
	if !near(reversed["a"], 0) {
		t.Errorf("reversed corner delay = %v, want 0", reversed["a"])
	}
	if !near(reversed["e"], 3) {
		t.Errorf("reversed center delay = %v, want 3", reversed["e"])
	}

	// Same set of band delays, order inverted.
	fwdSet := make(map[float64]bool)
	revSet := make(map[float64]bool)
	for id := range forward {
		fwdSet[forward[id]] = true
		revSet[reversed[id]] = true
	}
	if len(fwdSet) != len(revSet) {
		t.Fatalf("band count differs: forward %d, reverse %d", len(fwdSet), len(revSet))
	}
	for d := range fwdSet {
		if !revSet[d] {
			t.Errorf("band delay %v present forward but not reversed", d)
		}
	}
}

func TestStaggerDelaysReverseSameOriginKeepsOrder(t *testing.T) {
	world, ids := gridWorld(3, 3, 100, 80, 10)
	layout := DetectGrid(world, ids)
	origin := ResolveOrigin(&layout, "center")
	ComputeDistances(&layout, origin, MetricEuclidean)

	forward := StaggerDelays(&layout, 1, false, ReverseSameOrigin)
	reversed := StaggerDelays(&layout, 1, true, ReverseSameOrigin)

	for id := range forward {
		if !near(forward[id], reversed[id]) {
			t.Errorf("element %q: same-origin reverse delay %v != forward %v",
				id, reversed[id], forward[id])
		}
	}
}

func TestStaggerDelaysEmptyLayout(t *testing.T) {
	layout := GridLayout{}
	delays := StaggerDelays(&layout, 1, false, ReverseSameOrigin)
	if len(delays) != 0 {
		t.Error("empty layout should produce no delays")
	}
}
