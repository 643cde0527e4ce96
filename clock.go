package nodebox

// clock is the process-wide animation clock. Every Transition created or
// re-targeted by a Layer is anchored against it, and Canvas.Update advances
// it exactly once per tick before any layer updates run, so all transitions
// in one frame interpolate against the same "now".
//
// Multiple canvases share the clock, as they share one game loop.
type clock struct {
	now float64
}

var sharedClock clock

func (c *clock) advance(dt float64) {
	c.now += dt
}
