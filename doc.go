// Package cascade drives visual-property animations from scroll position
// instead of wall-clock time, and distributes that progress across many
// elements with controllable stagger timing.
//
// Cascade decides when, in scroll-progress terms, each element's animation
// runs. It does not apply property values to elements, split text, or own
// the scroll listener. Those stay with the host, which injects small
// collaborators ([ElementResolver], [Scroller], [ApplyFunc]) and ticks a
// shared [ScrollScheduler] once per frame.
//
// # Quick start
//
//	sched := cascade.NewScrollScheduler()
//	coord := cascade.NewCoordinator(sched, resolver, scroller, applyFn)
//
//	coord.Activate(cascade.AnimationConfig{
//		Trigger:    "gallery",
//		Elements:   ids,
//		Timelines:  timelines,
//		Boundaries: cascade.EnterToLeave,
//		Stagger: cascade.StaggerConfig{
//			Mode:        cascade.ModeScrubbed,
//			Strategy:    cascade.StrategyGrid,
//			ScrubWindow: 50,
//			Grid:        cascade.GridStaggerConfig{Origin: "center"},
//		},
//	})
//
//	// host frame loop:
//	sched.Tick()
//
// # Progress mapping
//
// A [ProgressTracker] maps the scroll position of a trigger region to a
// normalized [0,1] progress value, caching boundary geometry between resize
// notifications. [MapTimelineToScroll] remaps duration-based keyframe
// timelines into progress space; evaluation converts progress back to the
// equivalent time and delegates to the original interpolator, so curve
// shapes match a time-based player exactly.
//
// # Stagger
//
// [DetectGrid] infers rows and columns from element bounding boxes alone.
// [ResolveOrigin], [ComputeDistances] and [StaggerDelays] turn a symbolic
// focal point ("center", "top-left", ...) into per-element distance bands
// under euclidean, manhattan, chebyshev or edge-aware minimum metrics.
// [RowWaveDelays] and [ColumnWaveDelays] sweep rows or columns instead,
// linearly, center-out, or edges-in.
//
// Two regimes consume those offsets: scrubbed staggers give every element a
// progress window it scrubs through continuously, while threshold staggers
// fire one-shot plays as progress crosses per-element checkpoints.
//
// Animation code never throws into a scroll tick: unknown names fall back to
// documented defaults, degenerate geometry yields empty results, and a
// non-positive scroll range pins progress to 0, all with logged warnings.
//
// Keyframe easing uses [gween]'s curve functions.
//
// [gween]: https://github.com/tanema/gween
package cascade
