package frame

import "time"

// Scheduler owns the redraw loop. It keeps at most one outstanding request
// and is the only code that requests or cancels frames for its instance.
type Scheduler struct {
	req     Requester
	step    Callback
	reduced bool

	id      ID
	pending bool
	running bool
	frames  int
}

// NewScheduler creates a stopped scheduler that calls step once per frame.
// With reducedMotion set the scheduler never requests a frame.
func NewScheduler(req Requester, step Callback, reducedMotion bool) *Scheduler {
	return &Scheduler{req: req, step: step, reduced: reducedMotion}
}

// Start begins the loop and reports whether it is running. Under reduced
// motion, or without a refresh signal, it renders a single static frame
// instead.
func (s *Scheduler) Start() bool {
	if s.running {
		return true
	}
	if s.reduced || s.req == nil {
		s.Static()
		return false
	}
	s.running = true
	s.schedule()
	return true
}

// Static renders one frame at time zero, once per scheduler lifetime, without
// requesting further frames.
func (s *Scheduler) Static() {
	if s.frames > 0 || s.running {
		return
	}
	s.frames++
	s.step(0)
}

// Stop cancels the pending request. No step runs after Stop returns.
func (s *Scheduler) Stop() {
	s.running = false
	s.cancel()
}

// Tick runs one frame and requests the next unless the loop was stopped,
// including by the step itself.
func (s *Scheduler) Tick(now time.Duration) {
	s.pending = false
	if !s.running {
		return
	}
	s.frames++
	s.step(now)
	if s.running {
		s.schedule()
	}
}

// Frames returns the number of steps run.
func (s *Scheduler) Frames() int { return s.frames }

// Running reports whether the loop is active.
func (s *Scheduler) Running() bool { return s.running }

func (s *Scheduler) schedule() {
	s.cancel()
	s.id = s.req.RequestFrame(s.Tick)
	s.pending = true
}

func (s *Scheduler) cancel() {
	if s.pending {
		s.req.CancelFrame(s.id)
		s.pending = false
	}
}
