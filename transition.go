package nodebox

import (
	"github.com/tanema/gween/ease"
)

// easeSmoothstep is a smoothstep easing in gween's TweenFunc form: slow at
// the beginning and end, fastest halfway through.
func easeSmoothstep(t, b, c, d float32) float32 {
	s := float32(smoothstep(0, 1, float64(t/d)))
	return b + c*s
}

func easeFor(interp Interpolation) ease.TweenFunc {
	if interp == Linear {
		return ease.Linear
	}
	return easeSmoothstep
}

// Transition is a single-value animation primitive. It holds a start,
// current and target value together with a start and end time on the shared
// animation clock, and glides current toward target each time Update is
// called. Transitions underlie every animated Layer attribute.
type Transition struct {
	v0, vi, v1 float64 // start, current, target value
	t0, t1     float64 // start, end time
	interp     Interpolation
	easing     ease.TweenFunc
}

// NewTransition creates a transition resting at value
// (start = current = target).
func NewTransition(value float64, interp Interpolation) *Transition {
	return &Transition{
		v0:     value,
		vi:     value,
		v1:     value,
		t0:     sharedClock.now,
		t1:     sharedClock.now,
		interp: interp,
		easing: easeFor(interp),
	}
}

// Copy returns an independent copy of the transition.
func (t *Transition) Copy() *Transition {
	c := *t
	return &c
}

// Start returns the value the transition last departed from.
func (t *Transition) Start() float64 {
	return t.v0
}

// Stop returns the target value.
func (t *Transition) Stop() float64 {
	return t.v1
}

// Current returns the in-flight value, between Start and Stop.
func (t *Transition) Current() float64 {
	return t.vi
}

// Done reports whether the transition has run out its duration at time now.
func (t *Transition) Done(now float64) bool {
	return now >= t.t1
}

// Set re-targets the transition: the current value becomes the new start
// and the target will be reached in the given duration (seconds), counted
// from now. A zero or negative duration applies the value immediately.
func (t *Transition) Set(value, duration, now float64) {
	if duration <= 0 {
		t.vi = value
	}
	t.v1 = value
	t.v0 = t.vi
	t.t0 = now
	if duration > 0 {
		t.t1 = now + duration
	} else {
		t.t1 = now
	}
}

// Update recalculates the current value for time now and reports whether
// the transition is done. At or past the end time the current value equals
// the target exactly; calling Update again leaves it unchanged.
func (t *Transition) Update(now float64) bool {
	if now >= t.t1 {
		t.vi = t.v1
		return true
	}
	// Elapsed time as a number between 0.0 and 1.0.
	frac := (now - t.t0) / (t.t1 - t.t0)
	t.vi = t.v0 + (t.v1-t.v0)*float64(t.easing(float32(frac), 0, 1, 1))
	return false
}
