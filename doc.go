// Package nodebox is a retained-mode 2D animation and interaction core for
// [Ebitengine].
//
// Nodebox provides the layer tree, animated transform hierarchy, transition
// tweening, hit testing and event dispatch that creative-coding sketches and
// simple UIs are built on.
//
// # Quick start
//
// Create a [Canvas], append [Layer] trees to it and hand it to [Run], which
// opens a window and drives the frame loop:
//
//	canvas := nodebox.NewCanvas(640, 480)
//
//	box := nodebox.NewLayer("box")
//	box.SetSize(80, 40)
//	box.SetPosition(100, 50)
//	box.OnDraw = func(l *nodebox.Layer, e nodebox.PaintEngine) {
//		e.FillRect(0, 0, l.Width(), l.Height(), nodebox.Color{R: 0.3, G: 0.7, B: 1, A: 1})
//	}
//	canvas.Append(box)
//
//	nodebox.Run(canvas, nodebox.RunConfig{Title: "My Sketch"})
//
// # Animation
//
// Every layer attribute setter ([Layer.SetPosition], [Layer.SetScale],
// [Layer.SetRotation], [Layer.SetOpacity], ...) is animated: the value
// glides to its target over the layer's Duration (in seconds) instead of
// jumping. With Duration 0 changes apply instantly. [Layer.Done] reports
// when all of a layer's transitions have settled. The [Transition] type
// underlying this is exported for custom animation.
//
// # Layers
//
// Layers form a tree. Children transform relative to their parent's origin
// point, so rotating a parent rotates its whole subtree as a group. Each
// layer has a drawing callback (OnDraw), a per-frame update callback
// (OnUpdate), and event callbacks inherited from [EventHandler]. The canvas
// dispatches an event to exactly one layer — the frontmost enabled layer
// under the cursor — and never propagates it up the tree.
//
// # Headless use
//
// A canvas works without a window: call [Canvas.Update] yourself and draw
// with any [PaintEngine], e.g. [NullPaintEngine] for pure simulation or
// [Layer.Flatten] to rasterize a layer tree to an image.
//
// [Ebitengine]: https://ebitengine.org
package nodebox
