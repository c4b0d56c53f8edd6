// Package ui provides a lightweight text user interface toolkit built on top of tcell.
// It offers a clean event–state–render pipeline with basic UI components, layouts
// and floating overlays that are positioned next to a reference element.
package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

type Screen = tcell.Screen
type EventKey = tcell.EventKey
type EventMouse = tcell.EventMouse

// Element is the interface implemented by all UI elements.
// An element is a persistent identity; its geometry lives in the Node
// produced by the latest layout pass.
type Element interface {
	// Size returns the preferred (intrinsic) size of the element.
	Size() (w, h int)
	// Layout computes the layout node for this element inside r.
	// Children of the node are drawn by the document after the element itself.
	Layout(r Rect) *Node
	// Draw renders the element onto the screen within rect.
	Draw(s Screen, rect Rect)
}

// MouseHandler is implemented by elements that react to the primary button.
// x, y are relative to the element.
type MouseHandler interface {
	OnMouseDown(x, y int)
	OnMouseUp(x, y int)
}

// Hoverable is implemented by elements with hover feedback.
type Hoverable interface {
	OnMouseEnter()
	OnMouseLeave()
}

// Focusable is implemented by elements that can hold keyboard focus.
type Focusable interface {
	OnFocus()
	OnBlur()
}

// FocusTarget lets a wrapper delegate focus to another element.
type FocusTarget interface {
	FocusTarget() Element
}

// AutoFocuser marks elements that should win the initial focus of an
// overlay over plain focusable elements.
type AutoFocuser interface {
	AutoFocus() bool
}

// KeyHandler is implemented by elements that can handle key events.
// It reports whether the event was consumed.
type KeyHandler interface {
	HandleKey(ev *tcell.EventKey) bool
}

// Node is the result of laying out an element: its box in screen cells
// plus the nodes of its children.
type Node struct {
	Element  Element
	Rect     Rect
	Parent   *Node
	Children []*Node
}

// NewLayoutNode returns a leaf node for e.
func NewLayoutNode(e Element, x, y, w, h int) *Node {
	return &Node{
		Element: e,
		Rect:    Rect{X: x, Y: y, W: w, H: h},
	}
}

// link sets the Parent pointers of the subtree rooted at n.
func link(n *Node) {
	if n == nil {
		return
	}
	for _, c := range n.Children {
		if c == nil {
			continue
		}
		c.Parent = n
		link(c)
	}
}

// Root returns the top of the tree that n belongs to.
func (n *Node) Root() *Node {
	if n == nil {
		return nil
	}
	for n.Parent != nil {
		n = n.Parent
	}
	return n
}

// Contains reports whether other is n or one of its descendants.
func (n *Node) Contains(other *Node) bool {
	if n == nil {
		return false
	}
	for ; other != nil; other = other.Parent {
		if other == n {
			return true
		}
	}
	return false
}

type Rect struct {
	X, Y, W, H int
}

func (r Rect) Contains(x, y int) bool {
	return x >= r.X && y >= r.Y && x < r.X+r.W && y < r.Y+r.H
}

func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Intersect returns the overlapping area of r and o.
func (r Rect) Intersect(o Rect) Rect {
	x0, y0 := max(r.X, o.X), max(r.Y, o.Y)
	x1, y1 := min(r.X+r.W, o.X+o.W), min(r.Y+r.H, o.Y+o.H)
	if x1 <= x0 || y1 <= y0 {
		return Rect{X: x0, Y: y0}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

type Style struct {
	FG            string
	BG            string
	FontBold      bool
	FontItalic    bool
	FontUnderline bool
	Reverse       bool
}

func (s Style) Apply() tcell.Style {
	st := tcell.StyleDefault
	if s.FG != "" {
		st = st.Foreground(tcell.GetColor(s.FG))
	}
	if s.BG != "" {
		st = st.Background(tcell.GetColor(s.BG))
	}
	if s.FontBold {
		st = st.Bold(true)
	}
	if s.FontItalic {
		st = st.Italic(true)
	}
	if s.FontUnderline {
		st = st.Underline(true)
	}
	if s.Reverse {
		st = st.Reverse(true)
	}
	return st
}

// Merge returns a new Style by applying the child style's non-default attributes
// over the receiver (parent) style.
func (s Style) Merge(child Style) Style {
	if child.FG == "" {
		child.FG = s.FG
	}
	if child.BG == "" {
		child.BG = s.BG
	}
	child.FontBold = child.FontBold || s.FontBold
	child.FontItalic = child.FontItalic || s.FontItalic
	child.FontUnderline = child.FontUnderline || s.FontUnderline
	child.Reverse = child.Reverse || s.Reverse
	return child
}

// DrawString draws text starting at (x, y), truncated to w cells.
// It returns the number of cells used.
func DrawString(s Screen, x, y, w int, text string, style Style) int {
	st := style.Apply()
	used := 0
	for _, r := range text {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if used+rw > w {
			break
		}
		s.SetContent(x+used, y, r, nil, st)
		used += rw
	}
	return used
}

// clipScreen drops writes outside clip.
type clipScreen struct {
	tcell.Screen
	clip Rect
}

func (c clipScreen) SetContent(x, y int, primary rune, combining []rune, style tcell.Style) {
	if !c.clip.Contains(x, y) {
		return
	}
	c.Screen.SetContent(x, y, primary, combining, style)
}

func (c clipScreen) ShowCursor(x, y int) {
	if !c.clip.Contains(x, y) {
		return
	}
	c.Screen.ShowCursor(x, y)
}

// withClip returns a screen that only writes inside clip.
func withClip(s Screen, clip Rect) Screen {
	if cs, ok := s.(clipScreen); ok {
		return clipScreen{Screen: cs.Screen, clip: cs.clip.Intersect(clip)}
	}
	return clipScreen{Screen: s, clip: clip}
}

// ResetRect resets the content of the given rectangle to the specified style.
func ResetRect(s Screen, rect Rect, style Style) {
	st := style.Apply()
	for x := rect.X; x < rect.X+rect.W; x++ {
		for y := rect.Y; y < rect.Y+rect.H; y++ {
			s.SetContent(x, y, ' ', nil, st)
		}
	}
}
