package nodebox

import (
	"time"

	"github.com/sirupsen/logrus"
)

// How often debug frame stats are written. Logging every frame at 60 TPS
// would drown the output.
const debugLogInterval = 60

// SetDebugMode toggles per-frame diagnostics: update and draw timings and
// the live layer count, written as structured debug logs once per second.
func (c *Canvas) SetDebugMode(enabled bool) {
	c.debug = enabled
	if enabled {
		logrus.SetLevel(logrus.DebugLevel)
		logrus.WithFields(logrus.Fields{
			"width":  c.width,
			"height": c.height,
			"layers": c.countLayers(),
		}).Debug("debug mode enabled")
	}
}

// DebugMode reports whether debug diagnostics are enabled.
func (c *Canvas) DebugMode() bool {
	return c.debug
}

func (c *Canvas) countLayers() int {
	n := 0
	for _, l := range c.layers {
		l.Traverse(func(*Layer) { n++ })
	}
	return n
}

func (c *Canvas) logFrame(phase string, took time.Duration) {
	if c.frame%debugLogInterval != 0 {
		return
	}
	logrus.WithFields(logrus.Fields{
		"phase":  phase,
		"frame":  c.frame,
		"took":   took,
		"fps":    c.FPS(),
		"layers": c.countLayers(),
		"paused": c.Paused,
	}).Debug("frame")
}
