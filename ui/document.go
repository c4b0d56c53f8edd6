package ui

import (
	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"
)

// PointerEvent describes a primary button press.
type PointerEvent struct {
	X, Y  int
	Node  *Node // deepest node under the pointer, nil when nothing was hit
	Event tcell.Event
}

// BodyStyle is the document-level style touched by scroll locking.
type BodyStyle struct {
	Overflow     Overflow
	PaddingRight int
}

// Identifier is implemented by elements that carry an id.
type Identifier interface {
	ElementID() string
}

// scrollable is implemented by elements that can be scrolled by the user.
type scrollable interface {
	ScrollBy(dx, dy int) bool
}

type listener[F any] struct {
	fn      F
	removed bool
}

// listeners is an ordered set of callbacks. Adding returns the func that
// removes the callback again.
type listeners[F any] struct {
	list []*listener[F]
}

func (ls *listeners[F]) add(fn F) (off func()) {
	l := &listener[F]{fn: fn}
	ls.list = append(ls.list, l)
	return func() {
		if l.removed {
			return
		}
		l.removed = true
		for i, x := range ls.list {
			if x == l {
				ls.list = append(ls.list[:i:i], ls.list[i+1:]...)
				break
			}
		}
	}
}

// snapshot returns the live callbacks. Callbacks removed while the caller
// iterates are still skipped.
func (ls *listeners[F]) snapshot() []*listener[F] {
	return append([]*listener[F](nil), ls.list...)
}

func (ls *listeners[F]) len() int { return len(ls.list) }

// layer is an overlay drawn on top of the main tree.
type layer struct {
	content   Element // positioned wrapper of the overlay content
	mask      Element // optional backdrop
	container Element // nil means the root
	style     PositionStyle
	visible   bool // drawn and hit tested
	placed    bool // style holds a computed position

	node     *Node
	maskNode *Node
}

func (l *layer) shown() bool {
	return l.visible && l.placed && !l.style.Hidden && l.node != nil
}

// Document owns the element tree, its latest layout and the document-wide
// event listeners. It must only be used from the UI goroutine.
type Document struct {
	root   Element
	tree   *Node
	width  int
	height int

	nodes map[Element]*Node
	ids   map[string]Element
	sizes map[Element]Rect

	layers []*layer
	dirty  bool

	focused Element
	hovered Element
	pressed *Node
	buttons tcell.ButtonMask

	body     BodyStyle
	lock     *ScrollLock
	registry *Registry

	sched  Scheduler
	logger *log.Logger

	pointerDown listeners[func(PointerEvent)]
	keyDown     listeners[func(*tcell.EventKey) bool]
	scroll      listeners[func(Element)]
	resize      map[Element]*listeners[func()]
}

// NewDocument returns a document for root. Deferred work goes through sched.
func NewDocument(root Element, sched Scheduler) *Document {
	d := &Document{
		root:     root,
		sched:    sched,
		logger:   discardLogger(),
		nodes:    make(map[Element]*Node),
		ids:      make(map[string]Element),
		sizes:    make(map[Element]Rect),
		resize:   make(map[Element]*listeners[func()]),
		registry: NewRegistry(),
	}
	d.lock = NewScrollLock(d)
	return d
}

func (d *Document) SetLogger(l *log.Logger) { d.logger = l }
func (d *Document) Logger() *log.Logger     { return d.logger }
func (d *Document) Scheduler() Scheduler    { return d.sched }
func (d *Document) Registry() *Registry     { return d.registry }
func (d *Document) ScrollLock() *ScrollLock { return d.lock }
func (d *Document) Root() Element           { return d.root }

// Tree returns the root node of the latest layout.
func (d *Document) Tree() *Node { return d.tree }

// NodeOf returns the node e produced in the latest layout, or nil when e
// is not part of the document.
func (d *Document) NodeOf(e Element) *Node {
	if e == nil {
		return nil
	}
	return d.nodes[e]
}

// ElementByID finds an element decorated with ID.
func (d *Document) ElementByID(id string) Element {
	return d.ids[id]
}

func (d *Document) BodyStyle() BodyStyle { return d.body }

func (d *Document) SetBodyStyle(s BodyStyle) {
	d.body = s
	d.invalidate()
}

// ScrollbarWidth is the width the root gives to a vertical scrollbar.
func (d *Document) ScrollbarWidth() int {
	if s, ok := d.root.(Scroller); ok && d.tree != nil {
		if _, h := s.ScrollSize(); h > d.tree.Rect.H {
			return 1
		}
	}
	return 0
}

func (d *Document) invalidate() { d.dirty = true }

// Dirty reports whether something changed since the last layout.
func (d *Document) Dirty() bool { return d.dirty }

// OnPointerDown registers fn for every primary button press.
func (d *Document) OnPointerDown(fn func(PointerEvent)) (off func()) {
	return d.pointerDown.add(fn)
}

// OnKeyDown registers fn for key presses. The most recently registered
// listener is called first; returning true stops the key from going further.
func (d *Document) OnKeyDown(fn func(*tcell.EventKey) bool) (off func()) {
	return d.keyDown.add(fn)
}

// OnScroll registers fn to be called with every element that scrolled.
func (d *Document) OnScroll(fn func(Element)) (off func()) {
	return d.scroll.add(fn)
}

// ObserveResize calls fn after a layout pass in which the size of e changed.
func (d *Document) ObserveResize(e Element, fn func()) (off func()) {
	ls := d.resize[e]
	if ls == nil {
		ls = &listeners[func()]{}
		d.resize[e] = ls
	}
	remove := ls.add(fn)
	return func() {
		remove()
		if ls.len() == 0 && d.resize[e] == ls {
			delete(d.resize, e)
			delete(d.sizes, e)
		}
	}
}

func (d *Document) addLayer(l *layer) {
	d.layers = append(d.layers, l)
	d.invalidate()
}

func (d *Document) removeLayer(l *layer) {
	for i, x := range d.layers {
		if x == l {
			d.layers = append(d.layers[:i:i], d.layers[i+1:]...)
			break
		}
	}
	d.unindex(l.node)
	d.unindex(l.maskNode)
	l.node, l.maskNode = nil, nil
	d.invalidate()
}

// inLayer reports whether n belongs to a shown overlay.
func (d *Document) inLayer(n *Node) bool {
	for _, l := range d.layers {
		if l.shown() && l.node.Contains(n) {
			return true
		}
	}
	return false
}

// Layout lays out the main tree in a w*h screen and then every overlay layer.
func (d *Document) Layout(w, h int) {
	d.width, d.height = w, h
	clear(d.nodes)
	clear(d.ids)

	rw := max(w-d.body.PaddingRight, 0)
	d.tree = d.root.Layout(Rect{X: 0, Y: 0, W: rw, H: h})
	link(d.tree)
	d.index(d.tree)

	for _, l := range d.layers {
		d.layoutLayer(l)
	}
	d.dirty = false
	d.diffSizes()
}

func (d *Document) layoutLayer(l *layer) {
	cont := d.nodes[l.container]
	if cont == nil {
		cont = d.tree
	}
	frame := RelativePositionedAncestor(cont)

	w, h := l.content.Size()
	var x, y int
	if l.style.Position == PositionFixed {
		x, y = l.style.Left, l.style.Top
	} else {
		sc := ScrollOf(frame)
		x = frame.Rect.X - int(sc.Left) + l.style.Left
		y = frame.Rect.Y - int(sc.Top) + l.style.Top
	}
	l.node = l.content.Layout(Rect{X: x, Y: y, W: w, H: h})
	link(l.node)
	// attached below the frame without being one of its children, the
	// way a portal hangs off its container
	l.node.Parent = frame
	d.index(l.node)

	l.maskNode = nil
	if l.mask != nil {
		vp := Viewport(frame)
		r := vp.Rect
		if vp.Parent == nil {
			r = Rect{W: d.width, H: d.height}
		}
		l.maskNode = l.mask.Layout(r)
		l.maskNode.Parent = frame
		d.nodes[l.mask] = l.maskNode
	}
}

func (d *Document) index(n *Node) {
	if n == nil {
		return
	}
	d.nodes[n.Element] = n
	if e, ok := n.Element.(Identifier); ok && e.ElementID() != "" {
		d.ids[e.ElementID()] = n.Element
	}
	for _, c := range n.Children {
		d.index(c)
	}
}

func (d *Document) unindex(n *Node) {
	if n == nil {
		return
	}
	if d.nodes[n.Element] == n {
		delete(d.nodes, n.Element)
	}
	for _, c := range n.Children {
		d.unindex(c)
	}
}

// diffSizes notifies resize observers whose element changed size.
func (d *Document) diffSizes() {
	var changed []*listeners[func()]
	for e, ls := range d.resize {
		n := d.nodes[e]
		if n == nil {
			delete(d.sizes, e)
			continue
		}
		cur := Rect{W: n.Rect.W, H: n.Rect.H}
		prev, seen := d.sizes[e]
		d.sizes[e] = cur
		if seen && prev != cur {
			changed = append(changed, ls)
		}
	}
	for _, ls := range changed {
		for _, l := range ls.snapshot() {
			if !l.removed {
				l.fn()
			}
		}
	}
}

// Draw renders the main tree and then the shown overlays, topmost last.
func (d *Document) Draw(s Screen) {
	drawTree(d.tree, s)
	for _, l := range d.layers {
		if !l.shown() {
			continue
		}
		if l.maskNode != nil {
			drawTree(l.maskNode, s)
		}
		clip := Rect{W: d.width, H: d.height}
		if vp := Viewport(l.node); vp.Parent != nil {
			clip = vp.Rect
		}
		drawTree(l.node, withClip(s, clip))
	}
}

func drawTree(n *Node, s Screen) {
	if n == nil {
		return
	}
	n.Element.Draw(s, n.Rect)
	cs := s
	if clips(n) {
		cs = withClip(s, n.Rect)
	}
	for _, c := range n.Children {
		drawTree(c, cs)
	}
}

// find deepest node whose Rect contains (x, y)
func hitTest(n *Node, x, y int) *Node {
	if n == nil || !n.Rect.Contains(x, y) {
		return nil
	}
	// later siblings are drawn on top
	for i := len(n.Children) - 1; i >= 0; i-- {
		if hit := hitTest(n.Children[i], x, y); hit != nil {
			return hit
		}
	}
	return n
}

// HitTest returns the deepest node at (x, y). Overlays are tested first,
// topmost first, then the main tree.
func (d *Document) HitTest(x, y int) *Node {
	for i := len(d.layers) - 1; i >= 0; i-- {
		l := d.layers[i]
		if !l.shown() {
			continue
		}
		if n := hitTest(l.node, x, y); n != nil {
			return n
		}
		if n := hitTest(l.maskNode, x, y); n != nil {
			return n
		}
	}
	return hitTest(d.tree, x, y)
}

// Focused returns the element holding keyboard focus.
func (d *Document) Focused() Element { return d.focused }

// Focus moves keyboard focus to e, following FocusTarget delegation.
// A nil e clears the focus.
func (d *Document) Focus(e Element) {
	for range 8 {
		ft, ok := e.(FocusTarget)
		if !ok {
			break
		}
		next := ft.FocusTarget()
		if next == nil || next == e {
			break
		}
		e = next
	}
	if e == d.focused {
		return
	}
	if f, ok := d.focused.(Focusable); ok {
		f.OnBlur()
	}
	d.focused = e
	if f, ok := e.(Focusable); ok {
		f.OnFocus()
	}
}

// HandleKey dispatches a key press to the key listeners and then to the
// focused element. It reports whether the key was consumed.
func (d *Document) HandleKey(ev *tcell.EventKey) bool {
	list := d.keyDown.snapshot()
	for i := len(list) - 1; i >= 0; i-- {
		if list[i].removed {
			continue
		}
		if list[i].fn(ev) {
			return true
		}
	}
	if h, ok := d.focused.(KeyHandler); ok {
		return h.HandleKey(ev)
	}
	return false
}

// HandleMouse dispatches a mouse event: button transitions, hover and wheel.
func (d *Document) HandleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	btn := ev.Buttons()
	prev := d.buttons
	d.buttons = btn & (tcell.Button1 | tcell.Button2 | tcell.Button3)
	hit := d.HitTest(x, y)

	switch {
	case btn&tcell.WheelUp != 0:
		d.wheel(hit, -1)
		return
	case btn&tcell.WheelDown != 0:
		d.wheel(hit, 1)
		return
	}

	d.hover(hit)

	switch {
	case btn&tcell.ButtonPrimary != 0 && prev&tcell.ButtonPrimary == 0:
		d.PointerDown(PointerEvent{X: x, Y: y, Node: hit, Event: ev})
	case btn&tcell.ButtonPrimary == 0 && prev&tcell.ButtonPrimary != 0:
		if p := d.pressed; p != nil {
			if h, ok := p.Element.(MouseHandler); ok {
				h.OnMouseUp(x-p.Rect.X, y-p.Rect.Y)
			}
		}
		d.pressed = nil
	}
}

// PointerDown runs the pointer-down listeners, then presses and focuses
// the element that was hit.
func (d *Document) PointerDown(ev PointerEvent) {
	for _, l := range d.pointerDown.snapshot() {
		if !l.removed {
			l.fn(ev)
		}
	}
	n := ev.Node
	if n == nil {
		return
	}
	d.pressed = n
	if h, ok := n.Element.(MouseHandler); ok {
		h.OnMouseDown(ev.X-n.Rect.X, ev.Y-n.Rect.Y)
	}
	if _, ok := n.Element.(Focusable); ok {
		d.Focus(n.Element)
	}
}

func (d *Document) hover(n *Node) {
	var e Element
	if n != nil {
		e = n.Element
	}
	if e == d.hovered {
		return
	}
	if h, ok := d.hovered.(Hoverable); ok {
		h.OnMouseLeave()
	}
	d.hovered = e
	if h, ok := e.(Hoverable); ok {
		h.OnMouseEnter()
	}
}

// wheel scrolls the nearest scrollable ancestor of n. While the body is
// locked only content of overlays scrolls.
func (d *Document) wheel(n *Node, dy int) {
	if d.body.Overflow == OverflowHidden && !d.inLayer(n) {
		return
	}
	for p := n; p != nil; p = p.Parent {
		if _, ok := p.Element.(scrollable); ok {
			if d.ScrollBy(p.Element, 0, dy) {
				return
			}
		}
	}
}

// ScrollBy scrolls e and notifies the scroll listeners when the offset
// changed.
func (d *Document) ScrollBy(e Element, dx, dy int) bool {
	s, ok := e.(scrollable)
	if !ok || !s.ScrollBy(dx, dy) {
		return false
	}
	d.NotifyScroll(e)
	return true
}

// NotifyScroll tells the scroll listeners that e scrolled.
func (d *Document) NotifyScroll(e Element) {
	d.invalidate()
	for _, l := range d.scroll.snapshot() {
		if !l.removed {
			l.fn(e)
		}
	}
}
