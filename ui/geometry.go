package ui

import "math"

// Position is the positioning scheme of an element, mirroring CSS.
type Position int

const (
	PositionStatic Position = iota
	PositionRelative
	PositionAbsolute
	PositionFixed
	PositionSticky
)

func (p Position) String() string {
	switch p {
	case PositionRelative:
		return "relative"
	case PositionAbsolute:
		return "absolute"
	case PositionFixed:
		return "fixed"
	case PositionSticky:
		return "sticky"
	default:
		return "static"
	}
}

// Overflow controls whether content outside an element's box is clipped.
type Overflow int

const (
	OverflowVisible Overflow = iota
	OverflowHidden
	OverflowScroll
	OverflowAuto
)

// Positioned is implemented by elements with a non-static position.
type Positioned interface {
	Position() Position
}

// Clipper is implemented by elements that may clip their content.
type Clipper interface {
	Overflow() Overflow
}

// ContainingBlock is implemented by elements that establish a containing
// block for fixed and absolute descendants, the way a CSS transform does.
type ContainingBlock interface {
	ContainingBlock() bool
}

// Scroller is implemented by elements whose content can be scrolled.
type Scroller interface {
	// ScrollOffset returns the current scroll position of the content.
	ScrollOffset() (x, y int)
	// ScrollSize returns the full extent of the scrollable content.
	ScrollSize() (w, h int)
}

// Box is an axis-aligned rectangle in a shared coordinate frame.
// Unlike Rect it keeps fractional values so that center alignment does
// not lose half cells before the final rounding.
type Box struct {
	Left, Top     float64
	Width, Height float64
}

func (b Box) Right() float64  { return b.Left + b.Width }
func (b Box) Bottom() float64 { return b.Top + b.Height }

// Empty reports whether the box has no area.
func (b Box) Empty() bool { return b.Width <= 0 || b.Height <= 0 }

func (b Box) Translate(dx, dy float64) Box {
	b.Left += dx
	b.Top += dy
	return b
}

// Intersects reports whether b and o overlap.
// Touching edges do not count as an overlap.
func (b Box) Intersects(o Box) bool {
	return b.Left < o.Right() && o.Left < b.Right() &&
		b.Top < o.Bottom() && o.Top < b.Bottom()
}

// Rect rounds the box to whole cells.
func (b Box) Rect() Rect {
	return Rect{
		X: int(math.Round(b.Left)),
		Y: int(math.Round(b.Top)),
		W: int(math.Round(b.Width)),
		H: int(math.Round(b.Height)),
	}
}

func boxFromRect(r Rect) Box {
	return Box{Left: float64(r.X), Top: float64(r.Y), Width: float64(r.W), Height: float64(r.H)}
}

// Scroll describes the scroll state of a node.
type Scroll struct {
	Left, Top     float64 // scroll offset
	Width, Height float64 // scrollable extent
}

// BoxOf returns the visual box of n in screen cells.
// A nil node yields the zero box.
func BoxOf(n *Node) Box {
	if n == nil {
		return Box{}
	}
	return boxFromRect(n.Rect)
}

// ScrollOf returns the scroll offset and scrollable extent of n.
// Nodes that do not scroll report a zero offset and their own size as extent.
func ScrollOf(n *Node) Scroll {
	if n == nil {
		return Scroll{}
	}
	sc := Scroll{Width: float64(n.Rect.W), Height: float64(n.Rect.H)}
	if s, ok := n.Element.(Scroller); ok {
		x, y := s.ScrollOffset()
		w, h := s.ScrollSize()
		sc.Left, sc.Top = float64(x), float64(y)
		sc.Width = math.Max(sc.Width, float64(w))
		sc.Height = math.Max(sc.Height, float64(h))
	}
	return sc
}

func positionOf(n *Node) Position {
	if p, ok := n.Element.(Positioned); ok {
		return p.Position()
	}
	return PositionStatic
}

func clips(n *Node) bool {
	if c, ok := n.Element.(Clipper); ok {
		return c.Overflow() != OverflowVisible
	}
	return false
}

func isContainingBlock(n *Node) bool {
	if c, ok := n.Element.(ContainingBlock); ok {
		return c.ContainingBlock()
	}
	return false
}

// offsetParent is the next node to inspect when looking for the box that
// bounds n. It returns nil when the chain ends at the root.
func offsetParent(n *Node) *Node {
	switch positionOf(n) {
	case PositionFixed:
		for p := n.Parent; p != nil; p = p.Parent {
			if isContainingBlock(p) {
				return p
			}
		}
		return nil
	case PositionAbsolute:
		for p := n.Parent; p != nil; p = p.Parent {
			if positionOf(p) != PositionStatic || isContainingBlock(p) {
				return p
			}
		}
		return nil
	default:
		return n.Parent
	}
}

// Viewport returns the nearest node, n itself included, that clips
// overflow and therefore bounds where content of n can be seen.
// Fixed and absolute nodes skip ancestors that cannot contain them.
// The root of the tree is returned when nothing clips; nil when n is nil.
func Viewport(n *Node) *Node {
	if n == nil {
		return nil
	}
	root := n.Root()
	for cur := n; cur != nil; cur = offsetParent(cur) {
		if clips(cur) {
			return cur
		}
	}
	return root
}

// OverflowAncestors returns the scrollable ancestors strictly between from
// and to, nearest first. The root is never included. When to is not an
// ancestor of from the walk stops at the root.
func OverflowAncestors(from, to *Node) []*Node {
	if from == nil {
		return nil
	}
	var out []*Node
	for p := from.Parent; p != nil && p != to; p = p.Parent {
		if p.Parent == nil {
			break
		}
		if Viewport(p) == p {
			out = append(out, p)
		}
	}
	return out
}

// RelativePositionedAncestor returns the nearest node, n itself included,
// whose position is not static. That node is the coordinate frame for
// absolutely positioned content mounted in n. It falls back to the root.
func RelativePositionedAncestor(n *Node) *Node {
	if n == nil {
		return nil
	}
	for cur := n; cur != nil; cur = cur.Parent {
		if positionOf(cur) != PositionStatic {
			return cur
		}
		if cur.Parent == nil {
			return cur
		}
	}
	return nil
}

// BoxRelativeTo returns the box of n expressed in the content coordinates
// of container, taking the container's scroll offset into account.
func BoxRelativeTo(n, container *Node) Box {
	if n == nil {
		return Box{}
	}
	b := BoxOf(n)
	if container == nil {
		return b
	}
	c := BoxOf(container)
	sc := ScrollOf(container)
	return b.Translate(sc.Left-c.Left, sc.Top-c.Top)
}
