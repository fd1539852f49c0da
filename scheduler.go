package cascade

import "sort"

// TickPriority orders callbacks within one scheduler pass. Lower values run
// first.
type TickPriority uint8

const (
	PriorityHigh   TickPriority = iota // geometry reads, layout-sensitive work
	PriorityMedium                     // progress trackers (the engine default)
	PriorityLow                        // diagnostics, logging
)

// ScrollScheduler fans one host scroll tick out to registered callbacks in
// priority order. The host owns the raw scroll notification (an
// animation-frame callback, a game loop Update, a terminal event loop) and
// calls Tick once per frame; the engine never installs listeners of its own.
//
// Construct one at application start and pass it to every tracker and
// coordinator. The scheduler is single-threaded by contract: Register, Stop
// and Tick must all be called from the host's tick goroutine.
type ScrollScheduler struct {
	handles []*TickHandle
	pending []*TickHandle // registered mid-pass, merged after the pass
	nextSeq uint64
	ticking bool
}

// TickHandle identifies one registered callback. Stop it to deregister.
type TickHandle struct {
	sched    *ScrollScheduler
	priority TickPriority
	seq      uint64
	fn       func()
	stopped  bool
}

// NewScrollScheduler creates an empty scheduler.
func NewScrollScheduler() *ScrollScheduler {
	return &ScrollScheduler{}
}

// Register adds a callback at the given priority. Callbacks registered at
// the same priority run in registration order. Registering during a Tick is
// allowed; the new callback first runs on the next Tick.
func (s *ScrollScheduler) Register(priority TickPriority, fn func()) *TickHandle {
	h := &TickHandle{sched: s, priority: priority, seq: s.nextSeq, fn: fn}
	s.nextSeq++
	if s.ticking {
		// The running pass iterates s.handles; a mid-pass insert must
		// not reorder it under the loop.
		s.pending = append(s.pending, h)
		return h
	}
	s.handles = append(s.handles, h)
	s.sortHandles()
	return h
}

func (s *ScrollScheduler) sortHandles() {
	sort.SliceStable(s.handles, func(a, b int) bool {
		return s.handles[a].priority < s.handles[b].priority
	})
}

// Stop deregisters the callback. Synchronous: once Stop returns the callback
// will not fire again, even when called from inside a Tick pass for a
// handle that has not yet run this pass.
func (h *TickHandle) Stop() {
	if h.stopped {
		return
	}
	h.stopped = true
	if h.sched != nil && !h.sched.ticking {
		h.sched.compact()
	}
}

// Stopped reports whether the handle has been deregistered.
func (h *TickHandle) Stopped() bool { return h.stopped }

// Tick runs all live callbacks once, in priority order. Callbacks stopped
// mid-pass are skipped; callbacks registered mid-pass are deferred to the
// next pass.
func (s *ScrollScheduler) Tick() {
	s.ticking = true
	for _, h := range s.handles {
		if !h.stopped {
			h.fn()
		}
	}
	s.ticking = false
	s.compact()

	if len(s.pending) > 0 {
		for _, h := range s.pending {
			if !h.stopped {
				s.handles = append(s.handles, h)
			}
		}
		s.pending = s.pending[:0]
		s.sortHandles()
	}
}

// Len returns the number of live registered callbacks, including any still
// waiting for their first pass.
func (s *ScrollScheduler) Len() int {
	n := 0
	for _, h := range s.handles {
		if !h.stopped {
			n++
		}
	}
	for _, h := range s.pending {
		if !h.stopped {
			n++
		}
	}
	return n
}

// compact drops stopped handles.
func (s *ScrollScheduler) compact() {
	live := s.handles[:0]
	for _, h := range s.handles {
		if !h.stopped {
			live = append(live, h)
		}
	}
	for i := len(live); i < len(s.handles); i++ {
		s.handles[i] = nil
	}
	s.handles = live
}
