package cascade

import (
	"fmt"
	"os"
	"sort"
)

// The debug surface is for diagnostics only: a host can inspect how many
// animations are live, which progress span a property occupies, and whether
// a property is mid-keyframes at a given progress. None of it is part of the
// steady-state contract.

// ActiveAnimationCount returns the number of live animations.
func (c *Coordinator) ActiveAnimationCount() int {
	return len(c.animations)
}

// PropertyScrollRange returns the progress span the named property's
// keyframes occupy on the given trigger's animations. ok is false when no
// active animation on that trigger carries the property.
func (c *Coordinator) PropertyScrollRange(trigger ElementID, property string) (lo, hi float64, ok bool) {
	tr := c.findTrack(trigger, property)
	if tr == nil {
		return 0, 0, false
	}
	lo, hi = tr.ProgressRange()
	return lo, hi, true
}

// PropertyActiveAt reports whether the named property is within its keyframe
// span at the given progress on the given trigger's animations.
func (c *Coordinator) PropertyActiveAt(trigger ElementID, property string, progress float64) bool {
	tr := c.findTrack(trigger, property)
	return tr != nil && tr.ActiveAt(progress)
}

// findTrack locates a property's scroll track among a trigger's animations.
func (c *Coordinator) findTrack(trigger ElementID, property string) *ScrollTrack {
	for key, a := range c.animations {
		if key.trigger != trigger {
			continue
		}
		for i := range a.timeline.Tracks {
			if a.timeline.Tracks[i].Property == property {
				return &a.timeline.Tracks[i]
			}
		}
	}
	return nil
}

// DebugDump prints every active animation's state to stderr: key, lifecycle
// state, element count, last progress, and per-track progress spans.
func (c *Coordinator) DebugDump() {
	keys := make([]animKey, 0, len(c.animations))
	for k := range c.animations {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].trigger != keys[j].trigger {
			return keys[i].trigger < keys[j].trigger
		}
		return keys[i].properties < keys[j].properties
	})

	_, _ = fmt.Fprintf(os.Stderr, "[cascade] %d active animation(s)\n", len(keys))
	for _, k := range keys {
		a := c.animations[k]
		_, _ = fmt.Fprintf(os.Stderr, "[cascade] trigger=%q props=%q state=%d elements=%d progress=%.4f\n",
			k.trigger, k.properties, a.state, len(a.elements), a.tracker.Progress())
		for i := range a.timeline.Tracks {
			tr := &a.timeline.Tracks[i]
			lo, hi := tr.ProgressRange()
			_, _ = fmt.Fprintf(os.Stderr, "[cascade]   %s: span %.3f..%.3f (%d frames)\n",
				tr.Property, lo, hi, len(tr.Frames))
		}
	}
}
