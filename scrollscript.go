package cascade

import (
	"encoding/json"
	"fmt"
)

// ScriptedScroller is a Scroller whose offset is set programmatically. Demos
// and tests use it in place of a real scrolling host.
type ScriptedScroller struct {
	Offset   float64
	Viewport float64
	Content  float64
}

// ScrollOffset implements Scroller.
func (s *ScriptedScroller) ScrollOffset() float64 { return s.Offset }

// ViewportSize implements Scroller.
func (s *ScriptedScroller) ViewportSize() float64 { return s.Viewport }

// ContentSize implements Scroller.
func (s *ScriptedScroller) ContentSize() float64 { return s.Content }

// scriptStep represents a single action in a scroll script.
type scriptStep struct {
	Action   string  `json:"action"` // "scroll" | "jump" | "wait" | "resize"
	To       float64 `json:"to,omitempty"`
	Frames   int     `json:"frames,omitempty"`
	Viewport float64 `json:"viewport,omitempty"`
}

// scrollScript is the top-level JSON structure for a scroll script.
type scrollScript struct {
	Steps []scriptStep `json:"steps"`
}

// ScriptRunner replays a scripted scroll sequence frame by frame: each Step
// moves the scroller (smoothly for "scroll", instantly for "jump"), then
// runs one scheduler pass. This gives deterministic end-to-end coverage of
// the tracker/coordinator pipeline without a real scrolling host.
type ScriptRunner struct {
	steps    []scriptStep
	scroller *ScriptedScroller
	sched    *ScrollScheduler
	coord    *Coordinator // optional, receives resize notifications

	cursor    int
	waitCount int

	// active smooth-scroll state
	scrolling  bool
	fromOffset float64
	toOffset   float64
	frame      int
	frames     int

	done bool
}

// LoadScrollScript parses a JSON scroll script into a runner. Bind it to a
// scroller and scheduler before stepping.
func LoadScrollScript(jsonData []byte) (*ScriptRunner, error) {
	var script scrollScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse scroll script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse scroll script: no steps")
	}
	return &ScriptRunner{steps: script.Steps}, nil
}

// Bind attaches the runner to a scroller and scheduler. The coordinator may
// be nil; when set, "resize" steps notify it.
func (r *ScriptRunner) Bind(scroller *ScriptedScroller, sched *ScrollScheduler, coord *Coordinator) {
	r.scroller = scroller
	r.sched = sched
	r.coord = coord
}

// Done reports whether all steps have been executed.
func (r *ScriptRunner) Done() bool { return r.done }

// Step advances one frame: applies any in-flight scroll motion or begins the
// next step, then ticks the scheduler once.
func (r *ScriptRunner) Step() {
	if r.done {
		return
	}

	switch {
	case r.scrolling:
		r.frame++
		t := float64(r.frame) / float64(r.frames)
		r.scroller.Offset = r.fromOffset + (r.toOffset-r.fromOffset)*t
		if r.frame >= r.frames {
			r.scrolling = false
		}
	case r.waitCount > 0:
		r.waitCount--
	default:
		r.beginNextStep()
	}

	r.sched.Tick()

	if r.cursor >= len(r.steps) && !r.scrolling && r.waitCount == 0 {
		r.done = true
	}
}

// Run steps until the script completes.
func (r *ScriptRunner) Run() {
	for !r.done {
		r.Step()
	}
}

// beginNextStep starts executing the step at the cursor. The first frame of
// a "scroll" already moves; "jump" and "resize" take effect immediately.
func (r *ScriptRunner) beginNextStep() {
	if r.cursor >= len(r.steps) {
		return
	}
	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "scroll":
		frames := st.Frames
		if frames < 1 {
			frames = 1
		}
		r.scrolling = true
		r.fromOffset = r.scroller.Offset
		r.toOffset = st.To
		r.frame = 1
		r.frames = frames
		t := float64(r.frame) / float64(r.frames)
		r.scroller.Offset = r.fromOffset + (r.toOffset-r.fromOffset)*t
		if r.frame >= r.frames {
			r.scrolling = false
		}
	case "jump":
		r.scroller.Offset = st.To
	case "wait":
		if st.Frames > 1 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "resize":
		if st.Viewport > 0 {
			r.scroller.Viewport = st.Viewport
		}
		if r.coord != nil {
			r.coord.NotifyResize()
		}
	}
}
