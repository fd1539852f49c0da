package cascade

import (
	"log"
	"math"
	"time"
)

// ScrollBoundary anchors one end of a tracked scroll range. Both anchors are
// fractions in [0,1]: ElementAnchor into the trigger element's box (0 = top
// edge, 1 = bottom edge) and ViewportAnchor into the viewport (0 = top,
// 1 = bottom). The absolute scroll position of a boundary is
//
//	elementTop + ElementAnchor*elementHeight - ViewportAnchor*viewportSize
//
// so {0, 1} means "element top meets viewport bottom": the element just
// entering view.
type ScrollBoundary struct {
	ElementAnchor  float64
	ViewportAnchor float64
}

// BoundaryPair is the start and end of a tracked trigger region. Progress is
// 0 at Start, 1 at End.
type BoundaryPair struct {
	Start, End ScrollBoundary
}

// EnterToLeave is the common default range: progress runs from the trigger
// element entering the viewport bottom to its bottom leaving the viewport
// top.
var EnterToLeave = BoundaryPair{
	Start: ScrollBoundary{ElementAnchor: 0, ViewportAnchor: 1},
	End:   ScrollBoundary{ElementAnchor: 1, ViewportAnchor: 0},
}

const (
	// minScrollDelta is the minimum scroll movement in pixels worth
	// recomputing progress for.
	minScrollDelta = 0.1

	// emitEpsilon is the minimum progress change worth emitting downstream.
	emitEpsilon = 0.0005

	// boundsCacheTTL bounds how stale cached boundary pixels may get even
	// without a resize notification.
	boundsCacheTTL = 2 * time.Second

	// resizeDebounce delays cache invalidation after a resize notification
	// so bursts of notifications cost one recompute.
	resizeDebounce = 150 * time.Millisecond
)

// ProgressTracker maps the scroll position of one trigger region to a
// normalized [0,1] progress value. One instance serves one active animation.
//
// The tracker registers a medium-priority callback with the shared
// ScrollScheduler on Start and computes nothing between ticks. Boundary
// pixel positions are cached; the cache is refreshed when it expires or
// after a (debounced) NotifyResize.
type ProgressTracker struct {
	sched    *ScrollScheduler
	resolver ElementResolver
	fallback Scroller
	now      func() time.Time

	trigger  ElementID
	bounds   BoundaryPair
	callback func(progress float64)

	scroller Scroller
	handle   *TickHandle

	startPx, endPx float64
	boundsValid    bool
	cachedAt       time.Time

	pendingInvalidate bool
	invalidateAt      time.Time

	lastOffset  float64
	hasOffset   bool
	lastEmitted float64
	hasEmitted  bool
	warnedRange bool
}

// NewProgressTracker creates an idle tracker. The fallback scroller is used
// when no scrollable ancestor of the trigger element can be located (the
// usual case for hosts with a single top-level scroller).
func NewProgressTracker(sched *ScrollScheduler, resolver ElementResolver, fallback Scroller) *ProgressTracker {
	return &ProgressTracker{
		sched:    sched,
		resolver: resolver,
		fallback: fallback,
		now:      time.Now,
	}
}

// SetClock overrides the tracker's time source. Tests use this to exercise
// debounce and cache-expiry behavior deterministically.
func (t *ProgressTracker) SetClock(now func() time.Time) {
	t.now = now
}

// Start begins tracking the trigger region and invokes fn with a new
// progress value on every meaningful change. Starting an already-started
// tracker restarts it.
func (t *ProgressTracker) Start(trigger ElementID, bounds BoundaryPair, fn func(progress float64)) {
	t.Stop()

	t.trigger = trigger
	t.bounds = bounds
	t.callback = fn
	t.scroller = t.locateScroller()
	t.handle = t.sched.Register(PriorityMedium, t.tick)
}

// Stop deregisters the tracker from the scheduler and clears all cached
// state. Synchronous: no callback fires after Stop returns.
func (t *ProgressTracker) Stop() {
	if t.handle != nil {
		t.handle.Stop()
		t.handle = nil
	}
	t.callback = nil
	t.boundsValid = false
	t.pendingInvalidate = false
	t.hasOffset = false
	t.hasEmitted = false
	t.warnedRange = false
}

// Tracking reports whether the tracker is currently registered.
func (t *ProgressTracker) Tracking() bool { return t.handle != nil }

// NotifyResize schedules a boundary-cache invalidation. Bursts of
// notifications within the debounce window collapse into one recompute on a
// later tick.
func (t *ProgressTracker) NotifyResize() {
	t.pendingInvalidate = true
	t.invalidateAt = t.now().Add(resizeDebounce)
}

// Progress returns the last emitted progress value, or 0 before any emit.
func (t *ProgressTracker) Progress() float64 {
	if !t.hasEmitted {
		return 0
	}
	return t.lastEmitted
}

// CurrentProgress computes progress for the current scroll position without
// emitting or consulting the movement threshold. Used for initial state
// application before any scroll occurs.
func (t *ProgressTracker) CurrentProgress() float64 {
	if t.scroller == nil {
		t.scroller = t.locateScroller()
		if t.scroller == nil {
			return 0
		}
	}
	if !t.ensureBounds() {
		return 0
	}
	return t.progressAt(t.scroller.ScrollOffset())
}

// locateScroller finds the nearest scrollable ancestor of the trigger, or
// the fallback.
func (t *ProgressTracker) locateScroller() Scroller {
	el := t.resolver.Resolve(t.trigger)
	if el == nil {
		if t.trigger != "" {
			log.Printf("cascade: trigger %q not found, using fallback scroller", t.trigger)
		}
		return t.fallback
	}
	return FindScroller(el, t.fallback)
}

// tick is the scheduler callback: skip sub-threshold movement, refresh the
// boundary cache when due, and emit new progress past the epsilon.
func (t *ProgressTracker) tick() {
	if t.callback == nil || t.scroller == nil {
		return
	}

	if t.pendingInvalidate && !t.now().Before(t.invalidateAt) {
		t.pendingInvalidate = false
		t.boundsValid = false
	}

	offset := t.scroller.ScrollOffset()
	if t.hasOffset && math.Abs(offset-t.lastOffset) < minScrollDelta {
		return
	}
	t.lastOffset = offset
	t.hasOffset = true

	if !t.ensureBounds() {
		return
	}

	p := t.progressAt(offset)
	// A sub-epsilon step onto an exact 0 or 1 still emits, so the endpoint
	// keyframe values always land.
	terminal := (p == 0 || p == 1) && p != t.lastEmitted
	if t.hasEmitted && !terminal && math.Abs(p-t.lastEmitted) <= emitEpsilon {
		return
	}
	t.lastEmitted = p
	t.hasEmitted = true
	t.callback(p)
}

// ensureBounds recomputes cached boundary pixels when invalid or expired.
// Returns false when the trigger element cannot currently be resolved.
func (t *ProgressTracker) ensureBounds() bool {
	if t.boundsValid && t.now().Sub(t.cachedAt) < boundsCacheTTL {
		return true
	}

	el := t.resolver.Resolve(t.trigger)
	if el == nil {
		log.Printf("cascade: trigger %q not found, keeping last progress", t.trigger)
		return false
	}

	box := el.Bounds()
	viewport := t.scroller.ViewportSize()
	t.startPx = boundaryPixels(box, viewport, t.bounds.Start)
	t.endPx = boundaryPixels(box, viewport, t.bounds.End)
	t.boundsValid = true
	t.cachedAt = t.now()
	return true
}

// progressAt maps a scroll offset to clamped [0,1] progress. A degenerate
// range (end at or before start) yields 0 with a once-per-start warning.
func (t *ProgressTracker) progressAt(offset float64) float64 {
	span := t.endPx - t.startPx
	if span <= 0 {
		if !t.warnedRange {
			t.warnedRange = true
			log.Printf("cascade: trigger %q has non-positive scroll range (%.1f), progress pinned to 0",
				t.trigger, span)
		}
		return 0
	}
	return clamp((offset-t.startPx)/span, 0, 1)
}

// boundaryPixels resolves one boundary to an absolute scroll position.
func boundaryPixels(box Rect, viewport float64, b ScrollBoundary) float64 {
	return box.Y + b.ElementAnchor*box.Height - b.ViewportAnchor*viewport
}
