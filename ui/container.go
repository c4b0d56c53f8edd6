package ui

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// decorator wraps an Element and modifies its layout and rendering.
// It can act as a marker (e.g., grow, position) or wrapper (e.g., padding, border, frame).
// Decorators are merged: decorating a decorator edits it in place, so the
// wrapper keeps one identity no matter how many are stacked.
type decorator struct {
	Element
	grow                   int
	padT, padB, padL, padR int
	width, height          int
	border                 bool

	position        Position
	overflow        Overflow
	containingBlock bool
	id              string
}

func (d *decorator) Size() (w, h int) {
	mw, mh := d.Element.Size()

	mw += d.padL + d.padR
	mh += d.padT + d.padB

	if d.border {
		mw += 2
		mh += 2
	}

	// respect Frame constraints
	if d.width > 0 {
		mw = d.width
	}
	if d.height > 0 {
		mh = d.height
	}
	return mw, mh
}

func (d *decorator) Layout(r Rect) *Node {
	inner := r
	if d.border {
		inner = Rect{X: inner.X + 1, Y: inner.Y + 1, W: inner.W - 2, H: inner.H - 2}
	}

	inner.X += d.padL
	inner.Y += d.padT
	inner.W -= d.padL + d.padR
	inner.H -= d.padT + d.padB
	inner.W = max(inner.W, 0)
	inner.H = max(inner.H, 0)

	node := NewLayoutNode(d, r.X, r.Y, r.W, r.H)
	node.Children = []*Node{d.Element.Layout(inner)}
	return node
}

func (d *decorator) Draw(s Screen, rect Rect) {
	if d.border {
		drawBorder(s, rect)
	}
}

func (d *decorator) Position() Position    { return d.position }
func (d *decorator) Overflow() Overflow    { return d.overflow }
func (d *decorator) ContainingBlock() bool { return d.containingBlock }
func (d *decorator) ElementID() string     { return d.id }
func (d *decorator) FocusTarget() Element  { return d.Element }
func (d *decorator) Unwrap() Element       { return d.Element }

// get or build decorator
func getDecorator(e Element) *decorator {
	if d, ok := e.(*decorator); ok {
		return d
	}
	return &decorator{Element: e}
}

// Pad adds spaces around the element
func Pad(e Element, amount int) Element {
	d := getDecorator(e)
	d.padT, d.padB, d.padL, d.padR = amount, amount, amount, amount
	return d
}

func PadH(e Element, amount int) Element {
	d := getDecorator(e)
	d.padL, d.padR = amount, amount
	return d
}

func PadV(e Element, amount int) Element {
	d := getDecorator(e)
	d.padT, d.padB = amount, amount
	return d
}

// Spacer fills the remaining space between siblings inside an HStack or VStack.
var Spacer = Grow(empty{})

func Grow(e Element) Element {
	d := getDecorator(e)
	d.grow = 1
	return d
}

// Frame fixes the preferred size of the element.
func Frame(e Element, w, h int) Element {
	d := getDecorator(e)
	d.width, d.height = w, h
	return d
}

func Border(e Element) Element {
	d := getDecorator(e)
	d.border = true
	return d
}

// Relative makes e a positioned element. Overlays mounted inside it use
// its box as their coordinate frame.
func Relative(e Element) Element {
	d := getDecorator(e)
	d.position = PositionRelative
	return d
}

// Absolute marks e as absolutely positioned. Its box is still the one its
// parent hands out; the mark changes which ancestors may clip it.
func Absolute(e Element) Element {
	d := getDecorator(e)
	d.position = PositionAbsolute
	return d
}

// Fixed marks e as fixed: only ancestors established by Isolate may clip it.
func Fixed(e Element) Element {
	d := getDecorator(e)
	d.position = PositionFixed
	return d
}

func Sticky(e Element) Element {
	d := getDecorator(e)
	d.position = PositionSticky
	return d
}

// Clip hides whatever the content of e draws outside its box.
func Clip(e Element) Element {
	d := getDecorator(e)
	d.overflow = OverflowHidden
	return d
}

// Isolate makes e a containing block for fixed and absolute descendants.
func Isolate(e Element) Element {
	d := getDecorator(e)
	d.containingBlock = true
	return d
}

// ID names e so that it can be looked up with Document.ElementByID.
func ID(e Element, id string) Element {
	d := getDecorator(e)
	d.id = id
	return d
}

func growOf(e Element) int {
	if d, ok := e.(*decorator); ok {
		return d.grow
	}
	return 0
}

// axis is the main direction of a stack.
type axis int

const (
	axisV axis = iota
	axisH
)

// stack lays children out one after another along its axis, giving
// Grow children an equal share of the room left over. It draws nothing.
type stack struct {
	axis     axis
	children []Element
	spacing  int
}

// along returns the main and cross extents of w, h.
func (st *stack) along(w, h int) (int, int) {
	if st.axis == axisH {
		return w, h
	}
	return h, w
}

func (st *stack) size() (int, int) {
	main, cross := 0, 0
	for i, child := range st.children {
		m, c := st.along(child.Size())
		main += m
		cross = max(cross, c)
		if i > 0 {
			main += st.spacing
		}
	}
	return st.along(main, cross)
}

func (st *stack) layout(e Element, r Rect) *Node {
	n := NewLayoutNode(e, r.X, r.Y, r.W, r.H)
	avail, _ := st.along(r.W, r.H)

	fixed, grow := 0, 0
	for _, child := range st.children {
		if g := growOf(child); g > 0 {
			grow += g
			continue
		}
		m, _ := st.along(child.Size())
		fixed += m
	}
	spare := max(avail-fixed-st.spacing*(len(st.children)-1), 0)
	var share float64
	if grow > 0 {
		share = float64(spare) / float64(grow)
	}

	pos := 0
	for i, child := range st.children {
		if d, ok := child.(*Divider); ok {
			d.Vertical = st.axis == axisH
		}
		m, _ := st.along(child.Size())
		if g := growOf(child); g > 0 {
			m = min(int(math.Ceil(float64(g)*share)), spare)
			spare -= m
		}
		m = min(m, avail-pos)
		if m > 0 {
			n.Children = append(n.Children, child.Layout(st.slot(r, pos, m)))
		}
		pos += m
		if i < len(st.children)-1 {
			pos += st.spacing
		}
	}
	return n
}

// slot is the rect of a child placed at pos with main extent m.
func (st *stack) slot(r Rect, pos, m int) Rect {
	if st.axis == axisH {
		return Rect{X: r.X + pos, Y: r.Y, W: m, H: r.H}
	}
	return Rect{X: r.X, Y: r.Y + pos, W: r.W, H: m}
}

type vstack struct{ stack }

// VStack arranges children top to bottom.
func VStack(children ...Element) *vstack {
	return &vstack{stack{axis: axisV, children: children}}
}

func (v *vstack) Size() (int, int)    { return v.size() }
func (v *vstack) Layout(r Rect) *Node { return v.layout(v, r) }
func (v *vstack) Draw(Screen, Rect)   {}

func (v *vstack) Append(e ...Element) *vstack {
	v.children = append(v.children, e...)
	return v
}

// Spacing sets the number of empty rows between children.
func (v *vstack) Spacing(rows int) *vstack {
	v.spacing = rows
	return v
}

type hstack struct{ stack }

// HStack arranges children left to right.
func HStack(children ...Element) *hstack {
	return &hstack{stack{axis: axisH, children: children}}
}

func (h *hstack) Size() (int, int)    { return h.size() }
func (h *hstack) Layout(r Rect) *Node { return h.layout(h, r) }
func (h *hstack) Draw(Screen, Rect)   {}

func (h *hstack) Append(e ...Element) *hstack {
	h.children = append(h.children, e...)
	return h
}

// Spacing sets the number of empty columns between children.
func (h *hstack) Spacing(cols int) *hstack {
	h.spacing = cols
	return h
}

// ScrollView shows a window onto a child that may be larger than the
// view. Content outside the view is clipped.
type ScrollView struct {
	child Element

	offX, offY         int
	contentW, contentH int
	viewW, viewH       int
}

func NewScrollView(child Element) *ScrollView {
	return &ScrollView{child: child}
}

func (sv *ScrollView) Size() (int, int) { return sv.child.Size() }

func (sv *ScrollView) Layout(r Rect) *Node {
	cw, ch := sv.child.Size()
	sv.viewW, sv.viewH = r.W, r.H
	sv.contentW, sv.contentH = max(cw, r.W), max(ch, r.H)
	sv.offX, sv.offY = sv.clamp(sv.offX, sv.offY)

	n := NewLayoutNode(sv, r.X, r.Y, r.W, r.H)
	n.Children = []*Node{sv.child.Layout(Rect{
		X: r.X - sv.offX,
		Y: r.Y - sv.offY,
		W: sv.contentW,
		H: sv.contentH,
	})}
	return n
}

func (sv *ScrollView) Draw(s Screen, rect Rect) {
	if sv.contentH <= sv.viewH || rect.H < 2 {
		return
	}
	// thumb on the right edge; children draw over the rest
	thumb := max(1, rect.H*rect.H/sv.contentH)
	pos := 0
	if room := sv.contentH - sv.viewH; room > 0 {
		pos = sv.offY * (rect.H - thumb) / room
	}
	st := Style{FG: Theme.Border}.Apply()
	for i := range thumb {
		s.SetContent(rect.X+rect.W-1, rect.Y+pos+i, '┃', nil, st)
	}
}

func (sv *ScrollView) Overflow() Overflow { return OverflowAuto }

func (sv *ScrollView) ScrollOffset() (int, int) { return sv.offX, sv.offY }

func (sv *ScrollView) ScrollSize() (int, int) { return sv.contentW, sv.contentH }

func (sv *ScrollView) clamp(x, y int) (int, int) {
	x = max(0, min(x, sv.contentW-sv.viewW))
	y = max(0, min(y, sv.contentH-sv.viewH))
	return x, y
}

// ScrollTo moves the view to the given content offset. It reports whether
// the offset changed. The new offset takes effect on the next layout.
func (sv *ScrollView) ScrollTo(x, y int) bool {
	x, y = sv.clamp(x, y)
	if x == sv.offX && y == sv.offY {
		return false
	}
	sv.offX, sv.offY = x, y
	return true
}

func (sv *ScrollView) ScrollBy(dx, dy int) bool {
	return sv.ScrollTo(sv.offX+dx, sv.offY+dy)
}

const (
	hLine = '─'
	vLine = '│'
)

// borderCorners are the top-left, top-right, bottom-left and
// bottom-right corner runes.
var borderCorners = [4]rune{'┌', '┐', '└', '┘'}

func drawBorder(s Screen, r Rect) {
	if r.W < 2 || r.H < 2 {
		return
	}
	st := Style{FG: Theme.Border}.Apply()
	right, bottom := r.X+r.W-1, r.Y+r.H-1
	for x := r.X + 1; x < right; x++ {
		s.SetContent(x, r.Y, hLine, nil, st)
		s.SetContent(x, bottom, hLine, nil, st)
	}
	for y := r.Y + 1; y < bottom; y++ {
		s.SetContent(r.X, y, vLine, nil, st)
		s.SetContent(right, y, vLine, nil, st)
	}
	for i, c := range borderCorners {
		x, y := r.X, r.Y
		if i%2 == 1 {
			x = right
		}
		if i >= 2 {
			y = bottom
		}
		s.SetContent(x, y, c, nil, st)
	}
}

type TabItem struct {
	t       *TabView
	label   string
	body    Element
	hovered bool
}

func (ti *TabItem) OnMouseEnter()        { ti.hovered = true }
func (ti *TabItem) OnMouseLeave()        { ti.hovered = false }
func (ti *TabItem) OnMouseUp(rx, ry int) {}
func (ti *TabItem) OnMouseDown(rx, ry int) {
	for i, item := range ti.t.items {
		if item == ti {
			ti.t.SetActive(i)
			return
		}
	}
}

func (ti *TabItem) Size() (int, int) {
	return runewidth.StringWidth(ti.label), 1
}

func (ti *TabItem) Layout(r Rect) *Node {
	return &Node{Element: ti, Rect: r}
}

func (ti *TabItem) Draw(s Screen, rect Rect) {
	var st Style
	if ti == ti.t.items[ti.t.active] {
		st.FontUnderline = true
	} else if ti.hovered {
		st.BG = Theme.Hover
	}
	DrawString(s, rect.X, rect.Y, rect.W, ti.label, st)
}

func (ti *TabItem) FocusTarget() Element {
	return ti.body
}

// TabView shows one of several bodies, picked by a row of labels.
type TabView struct {
	items  []*TabItem
	active int
	header *hstack
}

func NewTabView() *TabView {
	return &TabView{}
}

func (t *TabView) Append(label string, e Element) *TabView {
	t.items = append(t.items, &TabItem{
		t:     t,
		label: label,
		body:  e,
	})
	t.header = nil
	return t
}

func (t *TabView) SetActive(i int) {
	if i >= 0 && i < len(t.items) {
		t.active = i
	}
}

func (t *TabView) Active() int { return t.active }

func (t *TabView) Size() (int, int) {
	maxW, maxH := 0, 0
	for _, item := range t.items {
		w, h := item.body.Size()
		maxW = max(maxW, w)
		maxH = max(maxH, h)
	}
	return maxW, maxH + 1 // +1 for tab labels
}

func (t *TabView) Layout(r Rect) *Node {
	n := NewLayoutNode(t, r.X, r.Y, r.W, r.H)

	// the header is kept so its elements stay the same between passes
	if t.header == nil {
		t.header = HStack().Spacing(1)
		for i, item := range t.items {
			t.header.Append(item)
			if i != len(t.items)-1 {
				t.header.Append(&Divider{})
			}
		}
	}
	n.Children = append(n.Children, t.header.Layout(Rect{X: r.X, Y: r.Y, W: r.W, H: 1}))

	if t.active >= 0 && t.active < len(t.items) {
		body := t.items[t.active].body.Layout(Rect{X: r.X, Y: r.Y + 1, W: r.W, H: r.H - 1})
		n.Children = append(n.Children, body)
	}
	return n
}

func (t *TabView) Draw(s Screen, rect Rect) {}

func (t *TabView) FocusTarget() Element {
	if t.active < 0 || t.active >= len(t.items) {
		return nil
	}
	return t.items[t.active].body
}

func (t *TabView) HandleKey(ev *tcell.EventKey) bool {
	if len(t.items) == 0 || ev.Modifiers()&tcell.ModAlt == 0 {
		return false
	}
	switch ev.Key() {
	case tcell.KeyLeft:
		t.SetActive((t.active - 1 + len(t.items)) % len(t.items))
	case tcell.KeyRight:
		t.SetActive((t.active + 1) % len(t.items))
	default:
		return false
	}
	return true
}
