package cascade

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Keyframe is one point on a duration-based property timeline. Easing shapes
// the segment from this keyframe to the next; nil means linear. Value is
// opaque to the engine; the timeline's Interpolator decides what it means.
type Keyframe struct {
	Time   float64
	Value  any
	Easing ease.TweenFunc
}

// Interpolator evaluates a keyframe sequence at an arbitrary time. The
// authoring layer supplies one per timeline for non-numeric values (colors,
// paths); numeric timelines can leave it nil and get NumericInterpolator.
type Interpolator interface {
	ValueAt(frames []Keyframe, t float64) any
}

// PropertyTimeline is a duration-based keyframe timeline for one property.
// Owned by the authoring layer and read-only to the engine. Frames must be
// ordered by Time ascending.
type PropertyTimeline struct {
	Property string
	Frames   []Keyframe
	Interp   Interpolator // nil = NumericInterpolator
	Unit     string       // optional unit tag ("px", "deg"); opaque here
}

// Duration returns the time of the last keyframe, or 0 for an empty
// timeline.
func (tl *PropertyTimeline) Duration() float64 {
	if len(tl.Frames) == 0 {
		return 0
	}
	return tl.Frames[len(tl.Frames)-1].Time
}

// ValueAt evaluates the timeline at time t through its interpolator. Times
// outside the keyframe range clamp to the nearest endpoint value. An empty
// timeline yields nil.
func (tl *PropertyTimeline) ValueAt(t float64) any {
	if len(tl.Frames) == 0 {
		return nil
	}
	interp := tl.Interp
	if interp == nil {
		interp = NumericInterpolator{}
	}
	return interp.ValueAt(tl.Frames, t)
}

// NumericInterpolator interpolates float64 keyframe values, honoring each
// segment's easing curve via gween. Non-float64 values hold at the segment's
// starting keyframe (step behavior).
type NumericInterpolator struct{}

// ValueAt implements Interpolator.
func (NumericInterpolator) ValueAt(frames []Keyframe, t float64) any {
	if len(frames) == 0 {
		return nil
	}
	if t <= frames[0].Time || len(frames) == 1 {
		return frames[0].Value
	}
	last := frames[len(frames)-1]
	if t >= last.Time {
		return last.Value
	}

	// Locate the segment containing t.
	i := 0
	for i < len(frames)-2 && frames[i+1].Time <= t {
		i++
	}
	a, b := frames[i], frames[i+1]

	from, okA := toFloat(a.Value)
	to, okB := toFloat(b.Value)
	if !okA || !okB {
		return a.Value
	}

	dur := b.Time - a.Time
	if dur <= 0 {
		return b.Value
	}
	fn := a.Easing
	if fn == nil {
		fn = ease.Linear
	}
	v, _ := gween.New(float32(from), float32(to), float32(dur), fn).Set(float32(t - a.Time))
	return float64(v)
}

// toFloat widens the numeric types a config loader is likely to produce.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	}
	return 0, false
}

// ScrollKeyframe is a keyframe remapped from time space into progress space.
// OriginalTime is retained so evaluation can convert back and delegate to
// the original interpolator.
type ScrollKeyframe struct {
	Progress     float64
	Value        any
	Easing       ease.TweenFunc
	OriginalTime float64
}

// ScrollTrack is one property's progress-based timeline. Source points back
// to the original PropertyTimeline; all evaluation delegates there so the
// curve shape is identical to a time-based player, merely reparametrized.
type ScrollTrack struct {
	Property string
	Unit     string
	Frames   []ScrollKeyframe
	Source   *PropertyTimeline
}

// ScrollTimeline is an immutable set of progress-based tracks sharing one
// progress space. Built once per animation activation.
type ScrollTimeline struct {
	Tracks []ScrollTrack

	// Duration is the longest source timeline duration; progress 1
	// corresponds to this time.
	Duration float64
}

// MapTimelineToScroll remaps a set of duration-based timelines into the full
// [0,1] progress range. Keyframe times are scaled by the longest timeline's
// duration, so shorter properties finish before progress reaches 1.
func MapTimelineToScroll(timelines []*PropertyTimeline) *ScrollTimeline {
	return MapTimelineToScrollRange(timelines, 0, 1)
}

// MapTimelineToScrollRange remaps timelines into the progress sub-range
// [lo, hi]. Used for staged or sequenced mappings where one scroll range
// hosts several animation phases.
func MapTimelineToScrollRange(timelines []*PropertyTimeline, lo, hi float64) *ScrollTimeline {
	st := &ScrollTimeline{}
	for _, tl := range timelines {
		if d := tl.Duration(); d > st.Duration {
			st.Duration = d
		}
	}

	for _, tl := range timelines {
		if len(tl.Frames) == 0 {
			continue
		}
		track := ScrollTrack{
			Property: tl.Property,
			Unit:     tl.Unit,
			Source:   tl,
			Frames:   make([]ScrollKeyframe, len(tl.Frames)),
		}
		for i, kf := range tl.Frames {
			frac := 0.0
			if st.Duration > 0 {
				frac = kf.Time / st.Duration
			}
			track.Frames[i] = ScrollKeyframe{
				Progress:     lo + (hi-lo)*frac,
				Value:        kf.Value,
				Easing:       kf.Easing,
				OriginalTime: kf.Time,
			}
		}
		st.Tracks = append(st.Tracks, track)
	}
	return st
}

// ValuesAt evaluates every track at the given progress and returns a
// property name to value map, ready for the host's applier.
func (st *ScrollTimeline) ValuesAt(progress float64) map[string]any {
	values := make(map[string]any, len(st.Tracks))
	for i := range st.Tracks {
		values[st.Tracks[i].Property] = st.Tracks[i].ValueAt(progress)
	}
	return values
}

// ValueAt evaluates one track at the given progress. The bracketing
// progress-space keyframes are converted back to original times and the
// source timeline's interpolator does the actual work. Progress outside the
// keyframe range clamps to the nearest endpoint value; a single-keyframe
// track always returns that keyframe's value.
func (tr *ScrollTrack) ValueAt(progress float64) any {
	if len(tr.Frames) == 0 {
		return nil
	}
	first := tr.Frames[0]
	if progress <= first.Progress || len(tr.Frames) == 1 {
		return first.Value
	}
	last := tr.Frames[len(tr.Frames)-1]
	if progress >= last.Progress {
		return last.Value
	}

	i := 0
	for i < len(tr.Frames)-2 && tr.Frames[i+1].Progress <= progress {
		i++
	}
	a, b := tr.Frames[i], tr.Frames[i+1]

	span := b.Progress - a.Progress
	if span <= 0 {
		return b.Value
	}
	t := a.OriginalTime + (progress-a.Progress)/span*(b.OriginalTime-a.OriginalTime)
	return tr.Source.ValueAt(t)
}

// ProgressRange returns the progress span this track's keyframes occupy.
func (tr *ScrollTrack) ProgressRange() (lo, hi float64) {
	if len(tr.Frames) == 0 {
		return 0, 0
	}
	return tr.Frames[0].Progress, tr.Frames[len(tr.Frames)-1].Progress
}

// ActiveAt reports whether the given progress lies within this track's
// keyframe span.
func (tr *ScrollTrack) ActiveAt(progress float64) bool {
	lo, hi := tr.ProgressRange()
	return progress >= lo && progress <= hi
}
