package nodebox

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// layerIDCounter is a plain counter (no atomic — the layer tree is
// single-threaded, mutated only from the frame tick).
var layerIDCounter int

func nextLayerID() int {
	layerIDCounter++
	return layerIDCounter
}

// Layer is a node in the retained-mode scene tree. It has a drawing callback
// where drawing commands can be put, a transformation origin point about
// which its content rotates and scales as a group, and child layers that
// transform relative to it. When its attributes (position, scale, rotation,
// opacity, ...) change, they tween smoothly over Duration seconds.
type Layer struct {
	EventHandler

	id     int
	Name   string
	parent *Layer
	canvas *Canvas

	children []*Layer

	x, y          *Transition
	width, height *Transition
	dx, dy        *Transition
	scale         *Transition
	rotation      *Transition
	opacity       *Transition
	originMode    OriginMode

	// Duration is the time (seconds) it takes to animate transformations
	// or opacity. When all transitions have terminated, Done reports true.
	Duration float64

	// Top draws this layer on top of its parent's own content (true) or
	// beneath it (false).
	Top bool
	// Flipped mirrors the layer horizontally.
	Flipped bool
	// Clipped constrains child layers to the layer's bounds.
	Clipped bool
	// Hidden skips the layer and its children during drawing and hit testing.
	Hidden bool

	group bool

	localCache *Transform // local transformation matrix, nil when invalid
	worldCache *Transform // cumulative transformation matrix, nil when invalid

	// OnUpdate runs every frame after the layer's transitions have advanced.
	OnUpdate func(*Layer)
	// OnDraw supplies the layer's own content. The paint engine is already
	// transformed; drawing happens in local coordinates.
	OnDraw func(*Layer, PaintEngine)
}

// NewLayer creates a detached layer with no size (unbounded width/height),
// resting at position (0, 0) with scale 1 and full opacity. Attribute
// changes tween over the layer's Duration, which starts at 0 (instant).
func NewLayer(name string) *Layer {
	l := &Layer{
		id:       nextLayerID(),
		Name:     name,
		x:        NewTransition(0, Smooth),
		y:        NewTransition(0, Smooth),
		width:    NewTransition(Unbounded, Smooth),
		height:   NewTransition(Unbounded, Smooth),
		dx:       NewTransition(0, Smooth),
		dy:       NewTransition(0, Smooth),
		scale:    NewTransition(1, Smooth),
		rotation: NewTransition(0, Smooth),
		opacity:  NewTransition(1, Smooth),
		originMode: Absolute,
		Top:      true,
	}
	l.Enabled = true
	return l
}

// NewGroup creates a layer that serves purely as a container for other
// layers: it has no width or height, draws nothing of its own, and hit
// testing passes straight through to its children.
func NewGroup(name string) *Layer {
	l := NewLayer(name)
	l.group = true
	l.width = NewTransition(0, Smooth)
	l.height = NewTransition(0, Smooth)
	return l
}

// NewImageLayer creates a layer that renders the given image. The layer is
// sized to the image.
func NewImageLayer(name string, img *ebiten.Image) *Layer {
	l := NewLayer(name)
	b := img.Bounds()
	l.width = NewTransition(float64(b.Dx()), Smooth)
	l.height = NewTransition(float64(b.Dy()), Smooth)
	l.OnDraw = func(_ *Layer, e PaintEngine) {
		e.DrawImage(img)
	}
	return l
}

// ID returns the layer's process-unique id. Two layers are the same layer
// exactly when their ids match.
func (l *Layer) ID() int {
	return l.id
}

// Parent returns the layer this layer is a child of, or nil when detached
// or attached directly to a canvas.
func (l *Layer) Parent() *Layer {
	return l.parent
}

// Root returns the topmost ancestor layer (possibly the layer itself).
func (l *Layer) Root() *Layer {
	if l.parent != nil {
		return l.parent.Root()
	}
	return l
}

// Canvas returns the canvas this layer's tree is attached to, or nil.
func (l *Layer) Canvas() *Canvas {
	return l.Root().canvas
}

// Children returns the child list in z-order (first drawn first within each
// Top class). The returned slice MUST NOT be mutated by the caller.
func (l *Layer) Children() []*Layer {
	return l.children
}

// Find returns the direct child with the given name, or nil.
func (l *Layer) Find(name string) *Layer {
	for _, child := range l.children {
		if child.Name == name {
			return child
		}
	}
	return nil
}

// Traverse recurses the layer structure and calls visit on the layer and
// each descendant.
func (l *Layer) Traverse(visit func(*Layer)) {
	visit(l)
	for _, child := range l.children {
		child.Traverse(visit)
	}
}

// --- Tree manipulation -------------------------------------------------

// isAncestorLayer reports whether candidate is l or an ancestor of l.
func isAncestorLayer(candidate, l *Layer) bool {
	for p := l; p != nil; p = p.parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// detach removes the layer from whichever container currently lists it,
// leaving its subtree intact. Membership and the back-reference change
// together, so a layer is never listed by two containers at once.
func (l *Layer) detach() {
	if l.parent != nil {
		l.parent.removeChild(l)
		l.parent = nil
	}
	if l.canvas != nil {
		l.canvas.removeLayer(l)
		l.canvas = nil
	}
}

func (l *Layer) removeChild(child *Layer) {
	for i, c := range l.children {
		if c == child {
			copy(l.children[i:], l.children[i+1:])
			l.children[len(l.children)-1] = nil
			l.children = l.children[:len(l.children)-1]
			return
		}
	}
}

// Append adds child as the frontmost sibling. If child is already in a
// container (layer or canvas), it is removed from that container first.
// Panics if child is nil or an ancestor of this layer (cycle).
func (l *Layer) Append(child *Layer) {
	if child == nil {
		panic("nodebox: cannot append nil layer")
	}
	if isAncestorLayer(child, l) {
		panic("nodebox: appending layer would create a cycle")
	}
	child.detach()
	child.parent = l
	l.children = append(l.children, child)
	flushWorld(child)
}

// Insert adds child at the given index among its siblings. Same reparenting
// and cycle-check behavior as Append.
func (l *Layer) Insert(index int, child *Layer) {
	if child == nil {
		panic("nodebox: cannot insert nil layer")
	}
	if isAncestorLayer(child, l) {
		panic("nodebox: inserting layer would create a cycle")
	}
	if index < 0 || index > len(l.children) {
		panic("nodebox: layer index out of range")
	}
	child.detach()
	child.parent = l
	l.children = append(l.children, nil)
	copy(l.children[index+1:], l.children[index:])
	l.children[index] = child
	flushWorld(child)
}

// Extend appends each of the given layers in order.
func (l *Layer) Extend(layers ...*Layer) {
	for _, child := range layers {
		l.Append(child)
	}
}

// Remove detaches child from this layer, preserving child's subtree.
// Panics if child's parent is not this layer.
func (l *Layer) Remove(child *Layer) {
	if child == nil || child.parent != l {
		panic("nodebox: layer's parent is not this layer")
	}
	l.removeChild(child)
	child.parent = nil
	flushWorld(child)
}

// Pop removes and returns the child at the given index.
func (l *Layer) Pop(index int) *Layer {
	if index < 0 || index >= len(l.children) {
		panic("nodebox: layer index out of range")
	}
	child := l.children[index]
	l.Remove(child)
	return child
}

// flushWorld invalidates the cumulative transform of a layer and all its
// descendants. Called when the layer's place in the tree changes.
func flushWorld(l *Layer) {
	l.Traverse(func(d *Layer) { d.worldCache = nil })
}

// invalidateTransform flushes the local matrix and, transitively, the
// cumulative matrices of the whole subtree. Every geometric mutation goes
// through here so that the next WorldTransform read anywhere in the subtree
// recomputes instead of returning a stale matrix.
func (l *Layer) invalidateTransform() {
	l.localCache = nil
	flushWorld(l)
}

// --- Animated attributes -----------------------------------------------

// X returns the current horizontal position in pixels.
func (l *Layer) X() float64 { return l.x.Current() }

// Y returns the current vertical position in pixels.
func (l *Layer) Y() float64 { return l.y.Current() }

// Position returns the current position.
func (l *Layer) Position() (x, y float64) { return l.x.Current(), l.y.Current() }

// Width returns the current width in pixels, or Unbounded when unset.
func (l *Layer) Width() float64 { return l.width.Current() }

// Height returns the current height in pixels, or Unbounded when unset.
func (l *Layer) Height() float64 { return l.height.Current() }

// Scale returns the current scale factor.
func (l *Layer) Scale() float64 { return l.scale.Current() }

// Rotation returns the current rotation in radians.
func (l *Layer) Rotation() float64 { return l.rotation.Current() }

// Opacity returns the current opacity (0-1).
func (l *Layer) Opacity() float64 { return l.opacity.Current() }

// SetX glides the horizontal position to x over the layer's Duration.
func (l *Layer) SetX(x float64) {
	l.invalidateTransform()
	l.x.Set(x, l.Duration, sharedClock.now)
}

// SetY glides the vertical position to y over the layer's Duration.
func (l *Layer) SetY(y float64) {
	l.invalidateTransform()
	l.y.Set(y, l.Duration, sharedClock.now)
}

// SetPosition glides the position to (x, y) over the layer's Duration.
func (l *Layer) SetPosition(x, y float64) {
	l.SetX(x)
	l.SetY(y)
}

// SetWidth glides the width to w over the layer's Duration.
func (l *Layer) SetWidth(w float64) {
	l.invalidateTransform()
	l.width.Set(w, l.Duration, sharedClock.now)
}

// SetHeight glides the height to h over the layer's Duration.
func (l *Layer) SetHeight(h float64) {
	l.invalidateTransform()
	l.height.Set(h, l.Duration, sharedClock.now)
}

// SetSize glides the size to (w, h) over the layer's Duration.
func (l *Layer) SetSize(w, h float64) {
	l.SetWidth(w)
	l.SetHeight(h)
}

// SetScale glides the scale factor to s over the layer's Duration.
func (l *Layer) SetScale(s float64) {
	l.invalidateTransform()
	l.scale.Set(s, l.Duration, sharedClock.now)
}

// SetRotation glides the rotation to r radians over the layer's Duration.
func (l *Layer) SetRotation(r float64) {
	l.invalidateTransform()
	l.rotation.Set(r, l.Duration, sharedClock.now)
}

// SetOpacity glides the opacity to a over the layer's Duration.
// Opacity does not affect the transform, so no cache is invalidated.
func (l *Layer) SetOpacity(a float64) {
	l.opacity.Set(a, l.Duration, sharedClock.now)
}

// Translate glides the layer by (dx, dy) relative to its target position.
func (l *Layer) Translate(dx, dy float64) {
	l.SetX(l.x.Stop() + dx)
	l.SetY(l.y.Stop() + dy)
}

// Rotate glides the rotation by da radians relative to its target rotation.
func (l *Layer) Rotate(da float64) {
	l.SetRotation(l.rotation.Stop() + da)
}

// ScaleBy glides the scale by factor f relative to its target scale.
func (l *Layer) ScaleBy(f float64) {
	l.SetScale(l.scale.Stop() * f)
}

// Flip toggles horizontal mirroring.
func (l *Layer) Flip() {
	l.invalidateTransform()
	l.Flipped = !l.Flipped
}

// Animate runs fn with the layer's Duration temporarily replaced, so a
// change (or group of changes) can glide at its own pace:
//
//	l.Animate(2.0, func(l *Layer) { l.SetOpacity(0) })
//
// A duration of 0 forces instantaneous application.
func (l *Layer) Animate(duration float64, fn func(*Layer)) {
	prev := l.Duration
	l.Duration = duration
	fn(l)
	l.Duration = prev
}

// Done reports whether all of the layer's transitions have finished.
func (l *Layer) Done() bool {
	now := sharedClock.now
	return l.x.Done(now) &&
		l.y.Done(now) &&
		l.width.Done(now) &&
		l.height.Done(now) &&
		l.dx.Done(now) &&
		l.dy.Done(now) &&
		l.scale.Done(now) &&
		l.rotation.Done(now) &&
		l.opacity.Done(now)
}

// --- Origin -------------------------------------------------------------

// Origin returns the point from which all layer transformations originate.
// With relative=true, x and y are fractions (0.0-1.0) of width and height.
//
// In some cases 0 is returned: for an unbounded layer the absolute origin
// cannot be deduced from relative coordinates (what is infinity * 0.5?), and
// vice versa the relative origin cannot be deduced from absolute ones.
func (l *Layer) Origin(relative bool) (x, y float64) {
	dx := l.dx.Current()
	dy := l.dy.Current()
	w := l.width.Current()
	h := l.height.Current()

	switch {
	case l.originMode == Absolute && relative:
		if IsUnbounded(w) {
			w = 0
		}
		if IsUnbounded(h) {
			h = 0
		}
		if w != 0 {
			dx = dx / w
		} else {
			dx = 0
		}
		if h != 0 {
			dy = dy / h
		} else {
			dy = 0
		}
	case l.originMode == Relative && !relative:
		if !IsUnbounded(w) {
			dx = dx * w
		} else {
			dx = 0
		}
		if !IsUnbounded(h) {
			dy = dy * h
		} else {
			dy = 0
		}
	}
	return dx, dy
}

// SetOrigin sets the transformation origin point, gliding over the layer's
// Duration. For example, a 400x200 layer with origin (200, 100) — or
// (0.5, 0.5) with relative=true — transforms around its center.
func (l *Layer) SetOrigin(x, y float64, relative bool) {
	l.invalidateTransform()
	l.dx.Set(x, l.Duration, sharedClock.now)
	l.dy.Set(y, l.Duration, sharedClock.now)
	if relative {
		l.originMode = Relative
	} else {
		l.originMode = Absolute
	}
}

// SetOriginCenter places the origin at the center of the layer.
func (l *Layer) SetOriginCenter() {
	l.SetOrigin(0.5, 0.5, true)
}

// --- Transform ----------------------------------------------------------

// LocalTransform returns the layer's local transformation matrix: the
// calculated state of its translation, flip, rotation, scaling and origin.
// The matrix is cached until the next geometric mutation.
func (l *Layer) LocalTransform() Transform {
	if l.localCache == nil {
		// Be careful that the transformations happen in the same order as
		// in Layer.draw: translate => flip => rotate => scale => origin.
		dx, dy := l.Origin(false)
		tf := Identity().Translate(l.x.Current(), l.y.Current())
		if l.Flipped {
			tf = tf.Scale(-1, 1)
		}
		tf = tf.Rotate(l.rotation.Current())
		s := l.scale.Current()
		tf = tf.Scale(s, s).Translate(-dx, -dy)
		l.localCache = &tf
	}
	return *l.localCache
}

// WorldTransform returns the cumulative transformation matrix: the local
// matrix with all parent transformations prepended. Cached per layer; any
// outdated ancestor is recalculated in the process.
func (l *Layer) WorldTransform() Transform {
	local := l.LocalTransform()
	if l.worldCache == nil {
		if l.parent == nil {
			w := local
			l.worldCache = &w
		} else {
			// Layers are drawn relative to the parent's origin point.
			pdx, pdy := l.parent.Origin(false)
			tf := l.parent.WorldTransform().Translate(pdx, pdy)
			w := local.Prepend(tf)
			l.worldCache = &w
		}
	}
	return *l.worldCache
}

// AbsolutePosition returns the (x, y) position cumulative with all parent
// positions up to (excluding) root, or the whole chain when root is nil.
func (l *Layer) AbsolutePosition(root *Layer) (x, y float64) {
	for p := l; p != nil && p != root; p = p.parent {
		x += p.x.Current()
		y += p.y.Current()
	}
	return x, y
}

func (l *Layer) corners() []Point {
	w := l.width.Current()
	h := l.height.Current()
	return []Point{{0, 0}, {w, 0}, {w, h}, {0, h}}
}

// Bounds returns the rectangle encompassing the transformed layer and all
// of its children. If any layer involved is unbounded, so are the bounds.
func (l *Layer) Bounds() Bounds {
	b := l.localBounds()
	for _, child := range l.children {
		b = b.Union(child.Bounds())
	}
	return b
}

func (l *Layer) localBounds() Bounds {
	p := l.WorldTransform().Map(l.corners())
	minX, minY := p[0].X, p[0].Y
	maxX, maxY := minX, minY
	for _, q := range p[1:] {
		if q.X < minX {
			minX = q.X
		}
		if q.Y < minY {
			minY = q.Y
		}
		if q.X > maxX {
			maxX = q.X
		}
		if q.Y > maxY {
			maxY = q.Y
		}
	}
	return Bounds{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// --- Hit testing --------------------------------------------------------

// Contains reports whether (x, y) falls within the layer's rectangular
// area. With transformed=false an axis-aligned check against the absolute
// position is used instead, which is much faster but only correct while the
// layer (and its ancestors) are unrotated and unscaled with origin (0, 0).
func (l *Layer) Contains(x, y float64, transformed bool) bool {
	w := l.width.Current()
	h := l.height.Current()
	if !transformed {
		x0, y0 := l.AbsolutePosition(nil)
		return x0 <= x && x <= x0+w && y0 <= y && y <= y0+h
	}
	return pointInPolygon(l.WorldTransform().Map(l.corners()), x, y)
}

// HitTest selects how LayerAt filters and tests layers.
type HitTest struct {
	// Clipped excludes the parts of child layers that stick out of their
	// parent's bounds, as if the parent were drawn with Clipped set.
	Clipped bool
	// Enabled only considers enabled layers (useful for event dispatch).
	Enabled bool
	// Untransformed uses the cheap axis-aligned Contains check.
	Untransformed bool
}

// LayerAt returns the topmost (visually frontmost) layer containing the
// point, or nil. Hidden layers and their children are never returned, and a
// layer covered by one of its ancestors never steals the hit from the layer
// covering it.
func (l *Layer) LayerAt(x, y float64, opt HitTest) *Layer {
	return l.layerAt(x, y, opt, false)
}

func (l *Layer) layerAt(x, y float64, opt HitTest, covered bool) *Layer {
	if l.Hidden {
		// Don't do costly operations on layers the user can't see.
		return nil
	}
	if opt.Enabled && !l.Enabled {
		return nil
	}
	if covered {
		// An ancestor is blocking this layer, so we can't select it.
		return nil
	}

	if l.group {
		// A group has no size of its own: pass straight through to the
		// children, frontmost first.
		for i := len(l.children) - 1; i >= 0; i-- {
			if hit := l.children[i].layerAt(x, y, opt, covered); hit != nil {
				return hit
			}
		}
		return nil
	}

	hit := l.Contains(x, y, !opt.Untransformed)

	var order []*Layer
	if opt.Clipped {
		// Children protruding beyond the layer's bounds are clipped, so
		// only children drawn on top can contain the point. Each child is
		// drawn on top of the previous one: test in reverse order.
		if !hit {
			return nil
		}
		for i := len(l.children) - 1; i >= 0; i-- {
			if l.children[i].Top {
				order = append(order, l.children[i])
			}
		}
	} else {
		// Traverse children in on-top-first order so that a child drawn
		// beneath the layer is not selected when a peer on top of the
		// layer actually covers it.
		for i := len(l.children) - 1; i >= 0; i-- {
			if l.children[i].Top {
				order = append(order, l.children[i])
			}
		}
		for i := len(l.children) - 1; i >= 0; i-- {
			if !l.children[i].Top {
				order = append(order, l.children[i])
			}
		}
	}

	for _, child := range order {
		// Once this layer contains the point, every child drawn beneath
		// its own content is covered. The covered state starts false but
		// sticks once it switches.
		covered = covered || (hit && !child.Top)
		if found := child.layerAt(x, y, opt, covered); found != nil {
			return found
		}
	}
	if hit {
		return l
	}
	return nil
}

// --- Frame tick ---------------------------------------------------------

// update advances the layer's transitions for this frame, then recurses
// into children in declaration order (update order does not affect visuals,
// only draw order does).
func (l *Layer) update(now float64) {
	done := l.x.Update(now)
	done = l.y.Update(now) && done
	done = l.width.Update(now) && done
	done = l.height.Update(now) && done
	done = l.dx.Update(now) && done
	done = l.dy.Update(now) && done
	done = l.scale.Update(now) && done
	done = l.rotation.Update(now) && done
	if !done {
		// The layer is mid-transformation: the cached matrix is stale even
		// though the values only moved fractionally.
		l.invalidateTransform()
	}
	l.opacity.Update(now)
	if l.OnUpdate != nil {
		l.OnUpdate(l)
	}
	for _, child := range l.children {
		child.update(now)
	}
}

// draw renders the transformed layer and all of its children.
func (l *Layer) draw(e PaintEngine) {
	if l.Hidden {
		return
	}
	e.Push()

	// Same order as LocalTransform: translate => flip => rotate => scale
	// => origin. The origin translation is deferred so that child layers
	// position relative to the origin point.
	dx, dy := l.Origin(false)
	tf := Identity().Translate(l.x.Current(), l.y.Current())
	if l.Flipped {
		tf = tf.Scale(-1, 1)
	}
	tf = tf.Rotate(l.rotation.Current())
	s := l.scale.Current()
	tf = tf.Scale(s, s)
	e.Transform(tf)

	if l.Clipped {
		e.BeginClip(l.width.Current(), l.height.Current())
	}

	for _, child := range l.children {
		if !child.Top {
			child.draw(e)
		}
	}

	e.Push()
	e.Transform(Identity().Translate(-dx, -dy))
	e.SetAlpha(l.opacity.Current())
	if l.OnDraw != nil {
		l.OnDraw(l, e)
	}
	e.SetAlpha(1)
	e.Pop()

	for _, child := range l.children {
		if child.Top {
			child.draw(e)
		}
	}

	if l.Clipped {
		e.EndClip()
	}
	e.Pop()
}

// --- Copy ---------------------------------------------------------------

// Copy returns a deep copy of the layer and its children. The copy is
// detached: it has no parent and no canvas.
func (l *Layer) Copy() *Layer {
	c := NewLayer(l.Name)
	c.x = l.x.Copy()
	c.y = l.y.Copy()
	c.width = l.width.Copy()
	c.height = l.height.Copy()
	c.dx = l.dx.Copy()
	c.dy = l.dy.Copy()
	c.scale = l.scale.Copy()
	c.rotation = l.rotation.Copy()
	c.opacity = l.opacity.Copy()
	c.originMode = l.originMode
	c.Duration = l.Duration
	c.Top = l.Top
	c.Flipped = l.Flipped
	c.Clipped = l.Clipped
	c.Hidden = l.Hidden
	c.Enabled = l.Enabled
	c.group = l.group
	c.OnUpdate = l.OnUpdate
	c.OnDraw = l.OnDraw
	for _, child := range l.children {
		c.Append(child.Copy())
	}
	return c
}
