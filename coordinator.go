package cascade

import (
	"log"
	"math/rand/v2"
	"sort"
	"strings"
)

// ApplyFunc hands resolved per-element property values to the host's
// property-application layer. The engine never mutates visual state itself.
// progress is the element's own [0,1] progress, not the global one.
type ApplyFunc func(id ElementID, values map[string]any, progress float64)

// BehaviorExecutor runs one-shot element animations for threshold-mode
// staggers. The executor owns per-element elapsed state; the coordinator
// never re-issues a play instruction for an element while its trigger state
// is unchanged.
type BehaviorExecutor interface {
	Play(id ElementID, timeline *ScrollTimeline, forward bool)
}

// AnimationState is the lifecycle of one ActiveAnimation.
type AnimationState uint8

const (
	StateCreated  AnimationState = iota // built, not yet tracking
	StateTracking                       // registered with the scheduler
	StateStopped                        // deregistered, terminal
)

// AnimationConfig describes one scroll animation to activate: which trigger
// region drives progress, which elements animate, what their keyframes are,
// and how timing is staggered across them.
type AnimationConfig struct {
	Trigger    ElementID
	Elements   []ElementID
	Timelines  []*PropertyTimeline
	Boundaries BoundaryPair
	Stagger    StaggerConfig
}

// thresholdTolerance is the band around a threshold checkpoint within which
// a crossing is recognized.
const thresholdTolerance = 0.01

// checkpointLo and checkpointHi bound threshold checkpoints away from the
// progress extremes, where "crossed" would be ambiguous.
const (
	checkpointLo = 0.01
	checkpointHi = 0.99
)

// elementTiming is one element's precomputed stagger data.
type elementTiming struct {
	id ElementID

	// Scrubbed mode: the element's own animation spans global progress
	// [offset, offset+window].
	offset float64
	window float64

	// Threshold mode.
	checkpoint   float64
	forwardFired bool
}

// animKey identifies an animation by trigger and property set; exactly one
// animation may be active per key.
type animKey struct {
	trigger    ElementID
	properties string
}

// ActiveAnimation is one live (trigger, property-set) animation: a tracker,
// a progress-mapped timeline, and per-element timing.
type ActiveAnimation struct {
	key      animKey
	cfg      AnimationConfig
	timeline *ScrollTimeline
	tracker  *ProgressTracker
	coord    *Coordinator
	state    AnimationState
	elements []elementTiming
}

// State returns the animation's lifecycle state.
func (a *ActiveAnimation) State() AnimationState { return a.state }

// Timeline returns the animation's progress-mapped timeline.
func (a *ActiveAnimation) Timeline() *ScrollTimeline { return a.timeline }

// Tracker returns the animation's progress tracker.
func (a *ActiveAnimation) Tracker() *ProgressTracker { return a.tracker }

// Stop halts the animation and removes it from its coordinator. Synchronous:
// no further applies or plays occur after Stop returns. Idempotent.
func (a *ActiveAnimation) Stop() {
	if a.state == StateStopped {
		return
	}
	a.state = StateStopped
	a.tracker.Stop()
	if a.coord != nil {
		delete(a.coord.animations, a.key)
	}
}

// Coordinator is the top-level orchestrator: it owns one ActiveAnimation per
// (trigger, property-set) pair, wires progress trackers to per-element
// progress through the stagger machinery, and pushes resolved values to the
// host's applier.
type Coordinator struct {
	sched    *ScrollScheduler
	resolver ElementResolver
	fallback Scroller
	apply    ApplyFunc
	executor BehaviorExecutor

	animations map[animKey]*ActiveAnimation
}

// NewCoordinator creates a coordinator. All collaborators are injected: the
// shared scheduler, the host's element lookup, the default scroller, and the
// property applier.
func NewCoordinator(sched *ScrollScheduler, resolver ElementResolver, fallback Scroller, apply ApplyFunc) *Coordinator {
	return &Coordinator{
		sched:      sched,
		resolver:   resolver,
		fallback:   fallback,
		apply:      apply,
		animations: make(map[animKey]*ActiveAnimation),
	}
}

// SetBehaviorExecutor installs the executor used for threshold-mode
// one-shots. Without one, threshold triggers degrade to applying the
// timeline's endpoint values directly.
func (c *Coordinator) SetBehaviorExecutor(ex BehaviorExecutor) {
	c.executor = ex
}

// Activate builds and starts an animation. An existing animation for the
// same trigger and property set is stopped and replaced. The returned
// animation is already tracking, and initial values have been applied so
// elements are visually correct before any scroll occurs.
func (c *Coordinator) Activate(cfg AnimationConfig) *ActiveAnimation {
	key := animKey{trigger: cfg.Trigger, properties: propertySetKey(cfg.Timelines)}
	if old, ok := c.animations[key]; ok {
		old.Stop()
	}

	a := &ActiveAnimation{
		key:      key,
		cfg:      cfg,
		timeline: MapTimelineToScroll(cfg.Timelines),
		tracker:  NewProgressTracker(c.sched, c.resolver, c.fallback),
		coord:    c,
		elements: c.buildTimings(cfg),
	}
	c.animations[key] = a

	a.tracker.Start(cfg.Trigger, cfg.Boundaries, a.onProgress)
	a.state = StateTracking

	a.applyInitial(a.tracker.CurrentProgress())
	return a
}

// Animation returns the active animation for a trigger and property set, or
// nil.
func (c *Coordinator) Animation(trigger ElementID, properties []string) *ActiveAnimation {
	sorted := append([]string(nil), properties...)
	sort.Strings(sorted)
	return c.animations[animKey{trigger: trigger, properties: strings.Join(sorted, ",")}]
}

// StopTrigger stops every animation driven by the given trigger element.
func (c *Coordinator) StopTrigger(trigger ElementID) {
	for key, a := range c.animations {
		if key.trigger == trigger {
			a.Stop()
		}
	}
}

// StopAll stops every active animation.
func (c *Coordinator) StopAll() {
	for _, a := range c.animations {
		a.Stop()
	}
}

// NotifyResize forwards a host resize notification to every tracker so
// cached boundary geometry is recomputed (debounced).
func (c *Coordinator) NotifyResize() {
	for _, a := range c.animations {
		a.tracker.NotifyResize()
	}
}

// propertySetKey canonicalizes a timeline set's property names.
func propertySetKey(timelines []*PropertyTimeline) string {
	names := make([]string, 0, len(timelines))
	for _, tl := range timelines {
		names = append(names, tl.Property)
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}

// buildTimings precomputes per-element stagger data from the chosen
// strategy. Offsets and checkpoints are fixed at activation; only crossing
// state mutates afterward.
func (c *Coordinator) buildTimings(cfg AnimationConfig) []elementTiming {
	n := len(cfg.Elements)
	timings := make([]elementTiming, n)
	for i, id := range cfg.Elements {
		timings[i].id = id
	}
	if n == 0 {
		return timings
	}

	window := cfg.Stagger.ScrubWindow / 100
	if window <= 0 || window > 1 {
		window = 1
	}
	spread := 1 - window

	// weights in [0,1] order the elements within the spread; 0 starts
	// first.
	weights := c.staggerWeights(cfg)

	for i := range timings {
		w := weights[i]
		timings[i].window = window
		timings[i].offset = w * spread
		timings[i].checkpoint = checkpointLo + w*(checkpointHi-checkpointLo)
	}
	return timings
}

// staggerWeights returns one normalized [0,1] timing weight per element,
// according to the configured strategy.
func (c *Coordinator) staggerWeights(cfg AnimationConfig) []float64 {
	n := len(cfg.Elements)
	weights := make([]float64, n)

	switch cfg.Stagger.Strategy {
	case StrategyRandom:
		for i := range weights {
			weights[i] = rand.Float64()
		}
	case StrategyGrid:
		if w, ok := c.gridWeights(cfg); ok {
			return w
		}
		// Empty or unmeasurable grid: degrade to linear.
		fallthrough
	default:
		if n > 1 {
			for i := range weights {
				weights[i] = float64(i) / float64(n-1)
			}
		}
	}
	return weights
}

// gridWeights runs the grid stagger pipeline (detection, origin, distances
// or waves, band delays) and normalizes the resulting delays to [0,1].
// Returns ok=false when the grid is degenerate, so the caller can fall back.
func (c *Coordinator) gridWeights(cfg AnimationConfig) ([]float64, bool) {
	g := cfg.Stagger.Grid

	var layout GridLayout
	if g.Rows > 0 || g.Columns > 0 {
		layout = DetectGridManual(c.resolver, cfg.Elements, g.Rows, g.Columns)
	} else {
		layout = DetectGridTolerance(c.resolver, cfg.Elements, g.Tolerance)
	}
	if layout.Empty() {
		log.Printf("cascade: trigger %q grid stagger found no measurable elements, using linear", cfg.Trigger)
		return nil, false
	}

	var delays map[ElementID]float64
	switch g.Mode {
	case GridRowBased:
		delays = RowWaveDelays(&layout, g.Direction, 1)
	case GridColumnBased:
		delays = ColumnWaveDelays(&layout, g.Direction, 1, g.Tolerance)
	default:
		origin := ResolveOrigin(&layout, g.Origin)
		ComputeDistances(&layout, origin, g.Metric)
		delays = StaggerDelays(&layout, 1, g.Reverse, g.ReverseMode)
	}

	maxDelay := 0.0
	for _, d := range delays {
		if d > maxDelay {
			maxDelay = d
		}
	}

	weights := make([]float64, len(cfg.Elements))
	for i, id := range cfg.Elements {
		d, ok := delays[id]
		if !ok || maxDelay == 0 {
			continue
		}
		weights[i] = d / maxDelay
	}
	return weights, true
}

// applyInitial runs once at activation so elements are visually correct
// before any scroll occurs. Scrubbed elements take their current scrubbed
// values. Threshold elements whose checkpoint lies strictly behind the
// current progress fire their forward play now; every other threshold
// element gets the timeline's starting values.
func (a *ActiveAnimation) applyInitial(global float64) {
	if a.cfg.Stagger.Mode != ModeThreshold {
		a.tickScrubbed(global)
		return
	}
	for i := range a.elements {
		et := &a.elements[i]
		if global > et.checkpoint {
			et.forwardFired = true
			a.play(et.id, true)
			continue
		}
		a.coord.apply(et.id, a.timeline.ValuesAt(0), 0)
	}
}

// onProgress is the tracker callback: distribute one global progress value
// across all elements under the configured stagger mode.
func (a *ActiveAnimation) onProgress(global float64) {
	if a.state == StateStopped {
		return
	}
	if a.cfg.Stagger.Mode == ModeThreshold {
		a.tickThreshold(global)
		return
	}
	a.tickScrubbed(global)
}

// tickScrubbed remaps global progress into each element's own window and
// applies the resulting values. Global progress outside a window clamps the
// element to 0 or 1.
func (a *ActiveAnimation) tickScrubbed(global float64) {
	for i := range a.elements {
		et := &a.elements[i]
		local := clamp((global-et.offset)/et.window, 0, 1)
		a.coord.apply(et.id, a.timeline.ValuesAt(local), local)
	}
}

// tickThreshold fires one-shot forward/backward plays as global progress
// crosses element checkpoints. An element already forward-triggered is left
// alone until (with backward retrigger enabled) progress falls back below
// its checkpoint band.
func (a *ActiveAnimation) tickThreshold(global float64) {
	for i := range a.elements {
		et := &a.elements[i]
		above := global >= et.checkpoint-thresholdTolerance
		switch {
		case above && !et.forwardFired:
			et.forwardFired = true
			a.play(et.id, true)
		case !above && et.forwardFired && a.cfg.Stagger.BackwardRetrigger:
			et.forwardFired = false
			a.play(et.id, false)
		}
	}
}

// play delegates a one-shot to the behavior executor, or degrades to
// applying endpoint values directly when no executor is installed.
func (a *ActiveAnimation) play(id ElementID, forward bool) {
	if ex := a.coord.executor; ex != nil {
		ex.Play(id, a.timeline, forward)
		return
	}
	p := 0.0
	if forward {
		p = 1.0
	}
	a.coord.apply(id, a.timeline.ValuesAt(p), p)
}
