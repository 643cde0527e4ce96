package nodebox

import (
	"testing"
)

func TestTransitionAtRest(t *testing.T) {
	sharedClock.now = 0
	tr := NewTransition(5, Linear)
	assertNear(t, "start", tr.Start(), 5)
	assertNear(t, "current", tr.Current(), 5)
	assertNear(t, "stop", tr.Stop(), 5)
	if !tr.Done(0) {
		t.Error("fresh transition not done")
	}
}

func TestTransitionInstantSet(t *testing.T) {
	tr := NewTransition(0, Smooth)
	tr.Set(10, 0, 0)
	// A zero duration applies immediately, before any Update.
	assertNear(t, "current", tr.Current(), 10)
	if !tr.Done(0) {
		t.Error("instant set not done")
	}
}

func TestTransitionLinearGlide(t *testing.T) {
	tr := NewTransition(0, Linear)
	tr.Set(10, 1.0, 0)
	assertNear(t, "before update", tr.Current(), 0)

	if tr.Update(0.5) {
		t.Error("done at midpoint")
	}
	assertNear(t, "midpoint", tr.Current(), 5)

	if !tr.Update(1.0) {
		t.Error("not done at end time")
	}
	assertNear(t, "end", tr.Current(), 10)
}

func TestTransitionSmoothGlide(t *testing.T) {
	tr := NewTransition(0, Smooth)
	tr.Set(10, 1.0, 0)

	tr.Update(0.25)
	assertNear(t, "quarter", tr.Current(), 1.5625)
	tr.Update(0.5)
	// Smoothstep crosses the midpoint at half time, like linear.
	assertNear(t, "midpoint", tr.Current(), 5)
	tr.Update(0.75)
	assertNear(t, "three quarters", tr.Current(), 8.4375)
}

func TestTransitionExactConvergence(t *testing.T) {
	tr := NewTransition(3, Smooth)
	tr.Set(7.123456789, 0.3, 0)
	tr.Update(0.9)
	// Past the end time the value is the target exactly, not approximately.
	if tr.Current() != 7.123456789 {
		t.Errorf("current = %v, want exact target", tr.Current())
	}
	// Further updates are idempotent.
	tr.Update(1.5)
	if tr.Current() != 7.123456789 {
		t.Errorf("current after extra update = %v, want exact target", tr.Current())
	}
}

func TestTransitionReanchorMidFlight(t *testing.T) {
	tr := NewTransition(0, Linear)
	tr.Set(10, 1.0, 0)
	tr.Update(0.5)
	assertNear(t, "midpoint", tr.Current(), 5)

	// Re-targeting mid-flight departs from the current value, not the old
	// start or target.
	tr.Set(0, 1.0, 0.5)
	assertNear(t, "re-anchored start", tr.Start(), 5)
	tr.Update(1.0)
	assertNear(t, "halfway back", tr.Current(), 2.5)
	tr.Update(1.5)
	assertNear(t, "settled", tr.Current(), 0)
}

func TestTransitionCopyIndependent(t *testing.T) {
	tr := NewTransition(0, Linear)
	tr.Set(10, 1.0, 0)
	cp := tr.Copy()
	tr.Update(1.0)
	assertNear(t, "original", tr.Current(), 10)
	assertNear(t, "copy untouched", cp.Current(), 0)
}
