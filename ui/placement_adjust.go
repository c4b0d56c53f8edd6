package ui

import (
	"cmp"
	"math/bits"
	"slices"
)

// sides is a set of viewport edges crossed by the overlay.
type sides uint8

func (s sides) has(sd side) bool { return s&(1<<sd) != 0 }
func (s sides) count() int       { return bits.OnesCount8(uint8(s)) }

// missing returns the one side not in s. Only meaningful when count is 3.
func (s sides) missing() side {
	for sd := sideTop; sd <= sideRight; sd++ {
		if !s.has(sd) {
			return sd
		}
	}
	return sideBottom
}

// mirror swaps the left and right edges.
func (s sides) mirror() sides {
	l, r := s.has(sideLeft), s.has(sideRight)
	s &^= 1<<sideLeft | 1<<sideRight
	if l {
		s |= 1 << sideRight
	}
	if r {
		s |= 1 << sideLeft
	}
	return s
}

// shift converts container coordinates into viewport content coordinates.
func (c *placementCalc) shift() (dx, dy float64) {
	if c.sameViewport {
		return 0, 0
	}
	cont, cs := c.req.Container, c.req.ContainerScroll
	dx = cont.Left - cs.Left - c.viewport.Left + c.vscroll.Left
	dy = cont.Top - cs.Top - c.viewport.Top + c.vscroll.Top
	return dx, dy
}

// overflow reports the viewport edges an overlay at (left, top) crosses.
func (c *placementCalc) overflow(left, top float64) sides {
	dx, dy := c.shift()
	l, t := left+dx, top+dy
	var s sides
	if t < 0 {
		s |= 1 << sideTop
	}
	if l < 0 {
		s |= 1 << sideLeft
	}
	if t+c.oh > c.vscroll.Height {
		s |= 1 << sideBottom
	}
	if l+c.ow > c.vscroll.Width {
		s |= 1 << sideRight
	}
	return s
}

// clamp pushes an overlay at (left, top) inside the viewport. On an axis
// where the overlay is larger than the viewport it is pinned to the start
// edge, or to the right edge horizontally in RTL mode.
func (c *placementCalc) clamp(left, top float64) (float64, float64) {
	dx, dy := c.shift()
	l, t := left+dx, top+dy
	vw, vh := c.vscroll.Width, c.vscroll.Height

	switch {
	case c.ow > vw && c.req.RTL:
		l = vw - c.ow
	case c.ow > vw:
		l = 0
	default:
		l = max(0, min(l, vw-c.ow))
	}
	if c.oh > vh {
		t = 0
	} else {
		t = max(0, min(t, vh-c.oh))
	}
	return l - dx, t - dy
}

// adjust runs the collision handling for a known placement.
func (c *placementCalc) adjust(p Placement, pts Points, left, top float64) (Placement, Points, float64, float64) {
	crossed := c.overflow(left, top)
	if crossed == 0 {
		return p, pts, left, top
	}
	// overflow is measured on screen; codes name sides before mirroring
	if c.req.RTL {
		crossed = crossed.mirror()
	}

	for _, cand := range rankCandidates(p, crossed) {
		_, cpts, _ := c.resolve(cand)
		l, t := c.xy(cand, cpts)
		if c.overflow(l, t) == 0 {
			return cand, cpts, l, t
		}
	}

	if crossed.count() == 3 {
		forced := makePlacement(crossed.missing(), p.align())
		_, fpts, _ := c.resolve(forced)
		l, t := c.xy(forced, fpts)
		l, t = c.clamp(l, t)
		return forced, fpts, l, t
	}

	left, top = c.clamp(left, top)
	return p, pts, left, top
}

// rankCandidates orders the alternatives to p. Placements on a side that
// is already crossed are left out. The order is: same axis before the
// other axis, same side before the opposite side, same alignment before a
// different one, then top and left before bottom and right.
func rankCandidates(p Placement, crossed sides) []Placement {
	reqSide, reqAlign := p.side(), p.align()
	rank := func(q Placement) [5]int {
		var r [5]int
		if q.side().vertical() != reqSide.vertical() {
			r[0] = 1
		}
		if q.side() != reqSide {
			r[1] = 1
		}
		if q.align() != reqAlign {
			r[2] = 1
		}
		r[3] = int(q.side())
		r[4] = int(q.align())
		return r
	}

	var out []Placement
	for _, q := range Placements {
		if q == p || crossed.has(q.side()) {
			continue
		}
		out = append(out, q)
	}
	slices.SortStableFunc(out, func(a, b Placement) int {
		ra, rb := rank(a), rank(b)
		for i := range ra {
			if c := cmp.Compare(ra[i], rb[i]); c != 0 {
				return c
			}
		}
		return 0
	})
	return out
}

// PlaceNodes fills the geometry of req from live layout nodes and computes
// the placement. The overlay is positioned in the frame of the nearest
// positioned ancestor of container and bounded by that frame's viewport.
// It reports false when target or container has not been laid out.
func PlaceNodes(target, overlay, container *Node, req PlacementRequest) (PlacementResult, bool) {
	if req.Position != PositionFixed && (target == nil || container == nil) {
		return PlacementResult{}, false
	}
	frame := RelativePositionedAncestor(container)
	vp := Viewport(frame)

	req.Target = BoxOf(target)
	req.Overlay = BoxOf(overlay)
	req.Container = BoxOf(frame)
	req.ContainerScroll = ScrollOf(frame)
	req.Viewport = BoxOf(vp)
	req.ViewportScroll = ScrollOf(vp)
	req.ScrollAncestors = req.ScrollAncestors[:0:0]
	for _, a := range OverflowAncestors(target, frame) {
		req.ScrollAncestors = append(req.ScrollAncestors, BoxOf(a))
	}
	return ComputePlacement(req)
}
