package ui

import (
	"math"
	"strings"
)

// Placement names where an overlay goes relative to its target:
// the side of the target it sits on plus how it aligns along that side.
type Placement string

const (
	PlacementNone        Placement = ""
	PlacementTopStart    Placement = "top-start"
	PlacementTop         Placement = "top"
	PlacementTopEnd      Placement = "top-end"
	PlacementBottomStart Placement = "bottom-start"
	PlacementBottom      Placement = "bottom"
	PlacementBottomEnd   Placement = "bottom-end"
	PlacementLeftStart   Placement = "left-start"
	PlacementLeft        Placement = "left"
	PlacementLeftEnd     Placement = "left-end"
	PlacementRightStart  Placement = "right-start"
	PlacementRight       Placement = "right"
	PlacementRightEnd    Placement = "right-end"
)

// Placements lists every placement code in table order.
var Placements = []Placement{
	PlacementTopStart, PlacementTop, PlacementTopEnd,
	PlacementLeftStart, PlacementLeft, PlacementLeftEnd,
	PlacementBottomStart, PlacementBottom, PlacementBottomEnd,
	PlacementRightStart, PlacementRight, PlacementRightEnd,
}

// Point is a two letter anchor on a box: vertical (t, c, b) then
// horizontal (l, c, r).
type Point string

// Points pairs the overlay anchor with the target anchor it is pinned to.
type Points [2]Point

// DefaultPoints pins the overlay's top-left corner to the target's bottom-left.
var DefaultPoints = Points{"tl", "bl"}

var placementPoints = map[Placement]Points{
	PlacementTopStart:    {"bl", "tl"},
	PlacementTop:         {"bc", "tc"},
	PlacementTopEnd:      {"br", "tr"},
	PlacementLeftStart:   {"tr", "tl"},
	PlacementLeft:        {"cr", "cl"},
	PlacementLeftEnd:     {"br", "bl"},
	PlacementBottomStart: {"tl", "bl"},
	PlacementBottom:      {"tc", "bc"},
	PlacementBottomEnd:   {"tr", "br"},
	PlacementRightStart:  {"tl", "tr"},
	PlacementRight:       {"cl", "cr"},
	PlacementRightEnd:    {"bl", "br"},
}

var placementAliases = map[string]Placement{
	"tl": PlacementTopStart, "t": PlacementTop, "tr": PlacementTopEnd,
	"bl": PlacementBottomStart, "b": PlacementBottom, "br": PlacementBottomEnd,
	"lt": PlacementLeftStart, "l": PlacementLeft, "lb": PlacementLeftEnd,
	"rt": PlacementRightStart, "r": PlacementRight, "rb": PlacementRightEnd,
	"topleft": PlacementTopStart, "topright": PlacementTopEnd,
	"bottomleft": PlacementBottomStart, "bottomright": PlacementBottomEnd,
	"lefttop": PlacementLeftStart, "leftbottom": PlacementLeftEnd,
	"righttop": PlacementRightStart, "rightbottom": PlacementRightEnd,
	"top-center": PlacementTop, "bottom-center": PlacementBottom,
	"left-center": PlacementLeft, "right-center": PlacementRight,
}

// ParsePlacement accepts the canonical codes, their short aliases
// ("tl", "b", "rb"...) and the camel case names ("topLeft").
// Unknown codes return PlacementNone and false.
func ParsePlacement(s string) (Placement, bool) {
	s = strings.TrimSpace(s)
	if _, ok := placementPoints[Placement(s)]; ok {
		return Placement(s), true
	}
	if p, ok := placementAliases[strings.ToLower(s)]; ok {
		return p, true
	}
	return PlacementNone, false
}

// Valid reports whether p is one of the twelve placement codes.
func (p Placement) Valid() bool {
	_, ok := placementPoints[p]
	return ok
}

// Points returns the anchor pair of p, or false for an unknown code.
func (p Placement) Points() (Points, bool) {
	pts, ok := placementPoints[p]
	return pts, ok
}

type side int

const (
	sideTop side = iota
	sideLeft
	sideBottom
	sideRight
)

var sideNames = [...]string{"top", "left", "bottom", "right"}

func (s side) String() string { return sideNames[s] }

func (s side) vertical() bool { return s == sideTop || s == sideBottom }

type align int

const (
	alignStart align = iota
	alignCenter
	alignEnd
)

var alignSuffix = [...]string{"-start", "", "-end"}

func (p Placement) side() side {
	switch {
	case strings.HasPrefix(string(p), "top"):
		return sideTop
	case strings.HasPrefix(string(p), "bottom"):
		return sideBottom
	case strings.HasPrefix(string(p), "left"):
		return sideLeft
	default:
		return sideRight
	}
}

func (p Placement) align() align {
	switch {
	case strings.HasSuffix(string(p), "-start"):
		return alignStart
	case strings.HasSuffix(string(p), "-end"):
		return alignEnd
	default:
		return alignCenter
	}
}

func makePlacement(s side, a align) Placement {
	return Placement(sideNames[s] + alignSuffix[a])
}

// mirror swaps the horizontal component of both anchors.
func (pts Points) mirror() Points {
	flip := func(p Point) Point {
		if len(p) != 2 {
			return p
		}
		h := p[1]
		switch h {
		case 'l':
			h = 'r'
		case 'r':
			h = 'l'
		}
		return Point([]byte{p[0], h})
	}
	return Points{flip(pts[0]), flip(pts[1])}
}

// PositionStyle is what gets applied to the overlay's wrapper.
type PositionStyle struct {
	Position Position // PositionAbsolute or PositionFixed
	Left     int
	Top      int
	Hidden   bool // the target scrolled out of an intermediate scroll ancestor
}

// PlacementResult is the outcome of one placement pass.
type PlacementResult struct {
	Placement Placement // chosen placement; PlacementNone when raw points were used
	Points    Points
	Style     PositionStyle
}

// PositionContext is handed to the BeforePosition hook.
type PositionContext struct {
	Requested Placement
	Target    Box
	Overlay   Box
	Container Box
	Viewport  Box
}

// PlacementRequest carries everything a placement pass reads. It is built
// fresh for every pass and never mutated by the engine.
// All boxes share the screen coordinate frame.
type PlacementRequest struct {
	Position Position // PositionFixed skips all geometry

	Target          Box
	Overlay         Box // only the size is used
	Container       Box // coordinate frame of the resulting style
	ContainerScroll Scroll
	Viewport        Box // box bounding the overlay; zero means Container
	ViewportScroll  Scroll

	// ScrollAncestors are the visible boxes of the scrollable nodes
	// between the target and the container.
	ScrollAncestors []Box

	Placement   Placement
	Points      Points // used when Placement is not a known code
	AlignOffset int    // gap along the placement's primary side
	Offset      [2]int

	AutoAdjust             bool
	AutoHideScrollOverflow bool
	RTL                    bool

	// BeforePosition may rewrite the result; its return value is used as is.
	BeforePosition func(PlacementResult, PositionContext) PlacementResult
}

// ComputePlacement computes where the overlay goes. It reports false when
// the target has no geometry (detached or not laid out yet) and the pass
// should be skipped.
func ComputePlacement(req PlacementRequest) (PlacementResult, bool) {
	if req.Position == PositionFixed {
		return PlacementResult{
			Placement: req.Placement,
			Style: PositionStyle{
				Position: PositionFixed,
				Left:     req.Offset[0],
				Top:      req.Offset[1],
			},
		}, true
	}

	c := newPlacementCalc(req)
	if c.target.Width == 0 && c.target.Height == 0 {
		if c.ow != 0 || c.oh != 0 {
			return PlacementResult{}, false
		}
		// nothing to collide: pin to the target origin
		l, t := c.origin()
		return c.finish(PlacementResult{Placement: req.Placement, Points: req.Points}, l, t), true
	}

	placement, points, known := c.resolve(req.Placement)
	res := PlacementResult{Placement: placement, Points: points}
	if !known {
		res.Placement = PlacementNone
	}
	left, top := c.xy(placement, points)

	if req.AutoAdjust && known {
		res.Placement, res.Points, left, top = c.adjust(placement, points, left, top)
	}
	return c.finish(res, left, top), true
}

// placementCalc holds the values derived from a request for one pass.
type placementCalc struct {
	req          PlacementRequest
	target       Box
	ow, oh       float64
	viewport     Box
	vscroll      Scroll
	sameViewport bool
}

func newPlacementCalc(req PlacementRequest) *placementCalc {
	c := &placementCalc{
		req:      req,
		target:   req.Target,
		ow:       req.Overlay.Width,
		oh:       req.Overlay.Height,
		viewport: req.Viewport,
		vscroll:  req.ViewportScroll,
	}
	if c.viewport == (Box{}) {
		c.viewport = req.Container
		c.vscroll = req.ContainerScroll
	}
	if c.vscroll.Width == 0 && c.vscroll.Height == 0 {
		c.vscroll.Width, c.vscroll.Height = c.viewport.Width, c.viewport.Height
	}
	c.sameViewport = c.viewport == req.Container && c.vscroll == req.ContainerScroll
	return c
}

// resolve maps a placement to its anchor points, mirrored for RTL.
func (c *placementCalc) resolve(p Placement) (Placement, Points, bool) {
	pts, ok := placementPoints[p]
	if !ok {
		pts = c.req.Points
		if pts == (Points{}) {
			pts = DefaultPoints
		}
	}
	if c.req.RTL {
		pts = pts.mirror()
	}
	return p, pts, ok
}

// origin is the target's top-left corner in container coordinates.
func (c *placementCalc) origin() (float64, float64) {
	cont := c.req.Container
	sc := c.req.ContainerScroll
	return c.target.Left - cont.Left + sc.Left, c.target.Top - cont.Top + sc.Top
}

// xy applies the anchor arithmetic for p and returns container coordinates.
func (c *placementCalc) xy(p Placement, pts Points) (float64, float64) {
	x, y := c.origin()

	if off := float64(c.req.AlignOffset); off != 0 && p.Valid() {
		switch p.side() {
		case sideTop:
			y -= off
		case sideBottom:
			y += off
		case sideLeft:
			x -= off
		case sideRight:
			x += off
		}
	}

	tx, ty := anchorOffset(pts[1], c.target.Width, c.target.Height)
	ox, oy := anchorOffset(pts[0], c.ow, c.oh)
	x += tx - ox + float64(c.req.Offset[0])
	y += ty - oy + float64(c.req.Offset[1])
	return x, y
}

// anchorOffset returns the position of point p inside a w*h box.
func anchorOffset(p Point, w, h float64) (x, y float64) {
	if len(p) != 2 {
		return 0, 0
	}
	switch p[0] {
	case 'c':
		y = h / 2
	case 'b':
		y = h
	}
	switch p[1] {
	case 'c':
		x = w / 2
	case 'r':
		x = w
	}
	return x, y
}

// finish rounds the coordinates, applies scroll-overflow hiding and the hook.
func (c *placementCalc) finish(res PlacementResult, left, top float64) PlacementResult {
	res.Style = PositionStyle{
		Position: PositionAbsolute,
		Left:     int(math.Round(left)),
		Top:      int(math.Round(top)),
	}
	if c.req.AutoHideScrollOverflow {
		for _, a := range c.req.ScrollAncestors {
			if !c.target.Intersects(a) {
				res.Style.Hidden = true
				break
			}
		}
	}
	if c.req.BeforePosition != nil {
		res = c.req.BeforePosition(res, PositionContext{
			Requested: c.req.Placement,
			Target:    c.target,
			Overlay:   Box{Width: c.ow, Height: c.oh},
			Container: c.req.Container,
			Viewport:  c.viewport,
		})
	}
	return res
}
