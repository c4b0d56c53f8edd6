package ui

import (
	"slices"
	"testing"
)

func screenReq(target, overlay Box, p Placement) PlacementRequest {
	return PlacementRequest{
		Position:  PositionAbsolute,
		Target:    target,
		Overlay:   overlay,
		Container: Box{Width: 80, Height: 24},
		Placement: p,
	}
}

func TestComputePlacement_Codes(t *testing.T) {
	target := Box{Left: 20, Top: 10, Width: 10, Height: 2}
	overlay := Box{Width: 6, Height: 4}

	tests := []struct {
		placement Placement
		left, top int
	}{
		{PlacementTopStart, 20, 6},
		{PlacementTop, 22, 6},
		{PlacementTopEnd, 24, 6},
		{PlacementLeftStart, 14, 10},
		{PlacementLeft, 14, 9},
		{PlacementLeftEnd, 14, 8},
		{PlacementBottomStart, 20, 12},
		{PlacementBottom, 22, 12},
		{PlacementBottomEnd, 24, 12},
		{PlacementRightStart, 30, 10},
		{PlacementRight, 30, 9},
		{PlacementRightEnd, 30, 8},
	}

	for _, adjust := range []bool{false, true} {
		for _, tt := range tests {
			t.Run(string(tt.placement), func(t *testing.T) {
				req := screenReq(target, overlay, tt.placement)
				req.AutoAdjust = adjust
				got, ok := ComputePlacement(req)
				if !ok {
					t.Fatal("ComputePlacement() ok = false")
				}
				if got.Placement != tt.placement {
					t.Errorf("Placement = %q, want %q (adjust %v)", got.Placement, tt.placement, adjust)
				}
				if got.Style.Left != tt.left || got.Style.Top != tt.top {
					t.Errorf("Style = (%d, %d), want (%d, %d) (adjust %v)", got.Style.Left, got.Style.Top, tt.left, tt.top, adjust)
				}
				if want := placementPoints[tt.placement]; got.Points != want {
					t.Errorf("Points = %v, want %v", got.Points, want)
				}
				if got.Style.Position != PositionAbsolute {
					t.Errorf("Position = %v, want absolute", got.Style.Position)
				}
			})
		}
	}
}

func TestComputePlacement_Adjust(t *testing.T) {
	tests := []struct {
		name      string
		req       PlacementRequest
		rtl       bool
		want      Placement
		left, top int
	}{
		{
			name: "corner flips to bottom",
			req: PlacementRequest{
				Target:    Box{Left: 88, Top: 88, Width: 20, Height: 10},
				Overlay:   Box{Width: 100, Height: 100},
				Container: Box{Width: 1000, Height: 1000},
				Placement: PlacementTopStart,
			},
			want: PlacementBottomStart, left: 88, top: 98,
		},
		{
			name: "top at the screen edge",
			req:  screenReq(Box{Width: 10, Height: 1}, Box{Width: 6, Height: 3}, PlacementTop),
			want: PlacementBottom,
			left: 2,
			top:  1,
		},
		{
			name: "three sides crossed forces the fourth",
			req:  screenReq(Box{Left: 35, Width: 10, Height: 1}, Box{Width: 100, Height: 3}, PlacementTop),
			want: PlacementBottom,
			left: 0,
			top:  1,
		},
		{
			name: "nothing fits keeps the placement and clamps",
			req:  screenReq(Box{Width: 80, Height: 24}, Box{Width: 10, Height: 5}, PlacementBottomStart),
			want: PlacementBottomStart,
			left: 0,
			top:  19,
		},
		{
			name: "right edge flips to left",
			req:  screenReq(Box{Left: 70, Top: 5, Width: 5, Height: 1}, Box{Width: 8, Height: 3}, PlacementRightStart),
			want: PlacementLeftStart,
			left: 62,
			top:  5,
		},
		{
			name: "top at the corner with a wider overlay",
			req:  screenReq(Box{Width: 10, Height: 1}, Box{Width: 20, Height: 3}, PlacementTop),
			want: PlacementBottomStart,
			left: 0,
			top:  1,
		},
		{
			name: "rtl left edge flips to the other code",
			req:  screenReq(Box{Top: 10, Width: 5, Height: 1}, Box{Width: 8, Height: 3}, PlacementRightStart),
			rtl:  true,
			want: PlacementLeftStart,
			left: 5,
			top:  10,
		},
		{
			name: "rtl right edge flips to the other code",
			req:  screenReq(Box{Left: 70, Top: 5, Width: 5, Height: 1}, Box{Width: 8, Height: 3}, PlacementLeftStart),
			rtl:  true,
			want: PlacementRightStart,
			left: 62,
			top:  5,
		},
		{
			name: "rtl three sides forces the mirrored fourth",
			req:  screenReq(Box{Top: 10, Width: 5, Height: 1}, Box{Width: 8, Height: 30}, PlacementRight),
			rtl:  true,
			want: PlacementLeft,
			left: 5,
			top:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.req.AutoAdjust = true
			tt.req.RTL = tt.rtl
			got, ok := ComputePlacement(tt.req)
			if !ok {
				t.Fatal("ComputePlacement() ok = false")
			}
			if got.Placement != tt.want {
				t.Errorf("Placement = %q, want %q", got.Placement, tt.want)
			}
			if got.Style.Left != tt.left || got.Style.Top != tt.top {
				t.Errorf("Style = (%d, %d), want (%d, %d)", got.Style.Left, got.Style.Top, tt.left, tt.top)
			}

			again, _ := ComputePlacement(tt.req)
			if again != got {
				t.Errorf("second pass = %+v, want %+v", again, got)
			}
		})
	}
}

func TestComputePlacement_NoAdjust(t *testing.T) {
	req := PlacementRequest{
		Target:    Box{Left: 88, Top: 88, Width: 20, Height: 10},
		Overlay:   Box{Width: 100, Height: 100},
		Container: Box{Width: 1000, Height: 1000},
		Placement: PlacementTopStart,
	}
	got, _ := ComputePlacement(req)
	if got.Placement != PlacementTopStart || got.Style.Left != 88 || got.Style.Top != -12 {
		t.Errorf("ComputePlacement() = %q (%d, %d), want top-start (88, -12)", got.Placement, got.Style.Left, got.Style.Top)
	}
}

func TestComputePlacement_Viewport(t *testing.T) {
	// the container sits inside a larger viewport: there is room above
	// the target on screen although not inside the container
	req := PlacementRequest{
		Target:     Box{Left: 12, Top: 6, Width: 4, Height: 1},
		Overlay:    Box{Width: 6, Height: 3},
		Container:  Box{Left: 10, Top: 5, Width: 50, Height: 10},
		Viewport:   Box{Width: 80, Height: 24},
		Placement:  PlacementTopStart,
		AutoAdjust: true,
	}
	got, _ := ComputePlacement(req)
	if got.Placement != PlacementTopStart || got.Style.Left != 2 || got.Style.Top != -2 {
		t.Errorf("with viewport = %q (%d, %d), want top-start (2, -2)", got.Placement, got.Style.Left, got.Style.Top)
	}

	req.Viewport = Box{}
	got, _ = ComputePlacement(req)
	if got.Placement != PlacementBottomStart || got.Style.Left != 2 || got.Style.Top != 2 {
		t.Errorf("container only = %q (%d, %d), want bottom-start (2, 2)", got.Placement, got.Style.Left, got.Style.Top)
	}
}

func TestComputePlacement_ContainerScroll(t *testing.T) {
	req := screenReq(Box{Left: 20, Top: 10, Width: 10, Height: 2}, Box{Width: 6, Height: 4}, PlacementBottomStart)
	req.ContainerScroll = Scroll{Left: 3, Top: 7, Width: 80, Height: 100}
	got, _ := ComputePlacement(req)
	if got.Style.Left != 23 || got.Style.Top != 19 {
		t.Errorf("Style = (%d, %d), want (23, 19)", got.Style.Left, got.Style.Top)
	}
}

func TestComputePlacement_Offsets(t *testing.T) {
	target := Box{Left: 20, Top: 10, Width: 10, Height: 2}
	overlay := Box{Width: 6, Height: 4}

	tests := []struct {
		name        string
		placement   Placement
		alignOffset int
		offset      [2]int
		left, top   int
	}{
		{"top gap", PlacementTop, 2, [2]int{}, 22, 4},
		{"bottom gap", PlacementBottom, 2, [2]int{}, 22, 14},
		{"left gap", PlacementLeft, 1, [2]int{}, 13, 9},
		{"right gap", PlacementRight, 1, [2]int{}, 31, 9},
		{"offset", PlacementBottomStart, 0, [2]int{3, -1}, 23, 11},
		{"both", PlacementBottomStart, 1, [2]int{1, 1}, 21, 14},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := screenReq(target, overlay, tt.placement)
			req.AlignOffset = tt.alignOffset
			req.Offset = tt.offset
			got, _ := ComputePlacement(req)
			if got.Style.Left != tt.left || got.Style.Top != tt.top {
				t.Errorf("Style = (%d, %d), want (%d, %d)", got.Style.Left, got.Style.Top, tt.left, tt.top)
			}
		})
	}
}

func TestComputePlacement_Points(t *testing.T) {
	tests := []struct {
		name      string
		placement Placement
		points    Points
		wantPts   Points
		left, top int
	}{
		{"centered", PlacementNone, Points{"cc", "cc"}, Points{"cc", "cc"}, 30, 7},
		{"unknown code uses points", "sideways", Points{"tl", "tl"}, Points{"tl", "tl"}, 0, 0},
		{"default points", PlacementNone, Points{}, DefaultPoints, 0, 24},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := screenReq(Box{Width: 80, Height: 24}, Box{Width: 20, Height: 10}, tt.placement)
			req.Points = tt.points
			req.AutoAdjust = true
			got, ok := ComputePlacement(req)
			if !ok {
				t.Fatal("ComputePlacement() ok = false")
			}
			if got.Placement != PlacementNone {
				t.Errorf("Placement = %q, want none", got.Placement)
			}
			if got.Points != tt.wantPts {
				t.Errorf("Points = %v, want %v", got.Points, tt.wantPts)
			}
			if got.Style.Left != tt.left || got.Style.Top != tt.top {
				t.Errorf("Style = (%d, %d), want (%d, %d)", got.Style.Left, got.Style.Top, tt.left, tt.top)
			}
		})
	}
}

func TestComputePlacement_ZeroTarget(t *testing.T) {
	req := screenReq(Box{Left: 5, Top: 5}, Box{Width: 6, Height: 4}, PlacementBottomStart)
	if _, ok := ComputePlacement(req); ok {
		t.Error("zero-size target with a sized overlay: ok = true, want false")
	}

	req.Overlay = Box{}
	got, ok := ComputePlacement(req)
	if !ok {
		t.Fatal("zero-size target and overlay: ok = false, want true")
	}
	if got.Style.Left != 5 || got.Style.Top != 5 {
		t.Errorf("Style = (%d, %d), want (5, 5)", got.Style.Left, got.Style.Top)
	}
}

func TestComputePlacement_Fixed(t *testing.T) {
	req := PlacementRequest{
		Position:  PositionFixed,
		Offset:    [2]int{3, 4},
		Placement: PlacementTop,
	}
	got, ok := ComputePlacement(req)
	if !ok {
		t.Fatal("ComputePlacement() ok = false")
	}
	want := PositionStyle{Position: PositionFixed, Left: 3, Top: 4}
	if got.Style != want {
		t.Errorf("Style = %+v, want %+v", got.Style, want)
	}
}

func TestComputePlacement_RTL(t *testing.T) {
	req := screenReq(Box{Left: 20, Top: 10, Width: 10, Height: 2}, Box{Width: 6, Height: 4}, PlacementBottomStart)
	req.RTL = true
	got, _ := ComputePlacement(req)
	if want := (Points{"tr", "br"}); got.Points != want {
		t.Errorf("Points = %v, want %v", got.Points, want)
	}
	if got.Style.Left != 24 || got.Style.Top != 12 {
		t.Errorf("Style = (%d, %d), want (24, 12)", got.Style.Left, got.Style.Top)
	}
}

func TestComputePlacement_RTLClamp(t *testing.T) {
	// too wide for the viewport: pinned to the right edge
	req := screenReq(Box{Left: 35, Width: 10, Height: 1}, Box{Width: 100, Height: 3}, PlacementBottomStart)
	req.RTL = true
	req.AutoAdjust = true
	got, _ := ComputePlacement(req)
	if got.Placement != PlacementBottomStart || got.Style.Left != -20 || got.Style.Top != 1 {
		t.Errorf("ComputePlacement() = %q (%d, %d), want bottom-start (-20, 1)", got.Placement, got.Style.Left, got.Style.Top)
	}
}

func TestComputePlacement_Rounding(t *testing.T) {
	req := screenReq(Box{Width: 5, Height: 1}, Box{Width: 2, Height: 1}, PlacementBottom)
	got, _ := ComputePlacement(req)
	if got.Style.Left != 2 || got.Style.Top != 1 {
		t.Errorf("Style = (%d, %d), want (2, 1)", got.Style.Left, got.Style.Top)
	}
}

func TestComputePlacement_Hidden(t *testing.T) {
	scroller := Box{Width: 10, Height: 10}

	tests := []struct {
		name   string
		target Box
		auto   bool
		want   bool
	}{
		{"inside", Box{Left: 2, Top: 2, Width: 4, Height: 1}, true, false},
		{"scrolled out", Box{Left: 20, Top: 20, Width: 4, Height: 1}, true, true},
		{"touching edge", Box{Left: 2, Top: 10, Width: 4, Height: 1}, true, true},
		{"disabled", Box{Left: 20, Top: 20, Width: 4, Height: 1}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := screenReq(tt.target, Box{Width: 3, Height: 1}, PlacementBottomStart)
			req.AutoHideScrollOverflow = tt.auto
			req.ScrollAncestors = []Box{{Width: 80, Height: 24}, scroller}
			got, _ := ComputePlacement(req)
			if got.Style.Hidden != tt.want {
				t.Errorf("Hidden = %v, want %v", got.Style.Hidden, tt.want)
			}
		})
	}
}

func TestComputePlacement_BeforePosition(t *testing.T) {
	var ctx PositionContext
	req := screenReq(Box{Width: 10, Height: 1}, Box{Width: 6, Height: 3}, PlacementTop)
	req.AutoAdjust = true
	req.BeforePosition = func(res PlacementResult, c PositionContext) PlacementResult {
		ctx = c
		res.Style.Left = 99
		return res
	}
	got, _ := ComputePlacement(req)
	if got.Style.Left != 99 {
		t.Errorf("Left = %d, want the hook's 99", got.Style.Left)
	}
	if got.Placement != PlacementBottom {
		t.Errorf("Placement = %q, want bottom", got.Placement)
	}
	if ctx.Requested != PlacementTop {
		t.Errorf("context Requested = %q, want top", ctx.Requested)
	}
	if ctx.Overlay.Width != 6 || ctx.Viewport.Width != 80 {
		t.Errorf("context Overlay = %+v Viewport = %+v", ctx.Overlay, ctx.Viewport)
	}
}

func TestParsePlacement(t *testing.T) {
	tests := []struct {
		in   string
		want Placement
		ok   bool
	}{
		{"bottom-end", PlacementBottomEnd, true},
		{"tl", PlacementTopStart, true},
		{"b", PlacementBottom, true},
		{" rb ", PlacementRightEnd, true},
		{"topLeft", PlacementTopStart, true},
		{"leftBottom", PlacementLeftEnd, true},
		{"top-center", PlacementTop, true},
		{"", PlacementNone, false},
		{"middle", PlacementNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParsePlacement(tt.in)
			if got != tt.want || ok != tt.ok {
				t.Errorf("ParsePlacement(%q) = %q, %v, want %q, %v", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestPlacement_SideAlign(t *testing.T) {
	for _, p := range Placements {
		if got := makePlacement(p.side(), p.align()); got != p {
			t.Errorf("makePlacement(%v, %v) = %q, want %q", p.side(), p.align(), got, p)
		}
	}
}

func TestPoints_Mirror(t *testing.T) {
	tests := []struct {
		in, want Points
	}{
		{Points{"tl", "br"}, Points{"tr", "bl"}},
		{Points{"cc", "bc"}, Points{"cc", "bc"}},
		{Points{"x", "cl"}, Points{"x", "cr"}},
	}
	for _, tt := range tests {
		if got := tt.in.mirror(); got != tt.want {
			t.Errorf("%v.mirror() = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRankCandidates(t *testing.T) {
	tests := []struct {
		name    string
		p       Placement
		crossed sides
		want    []Placement
	}{
		{
			name:    "top crossed",
			p:       PlacementTop,
			crossed: 1 << sideTop,
			want: []Placement{
				PlacementBottom, PlacementBottomStart, PlacementBottomEnd,
				PlacementLeft, PlacementRight,
				PlacementLeftStart, PlacementLeftEnd, PlacementRightStart, PlacementRightEnd,
			},
		},
		{
			name:    "bottom and right crossed",
			p:       PlacementBottomStart,
			crossed: 1<<sideBottom | 1<<sideRight,
			want: []Placement{
				PlacementTopStart, PlacementTop, PlacementTopEnd,
				PlacementLeftStart, PlacementLeft, PlacementLeftEnd,
			},
		},
		{
			name:    "same side other alignment first",
			p:       PlacementRightStart,
			crossed: 1 << sideBottom,
			want: []Placement{
				PlacementRight, PlacementRightEnd,
				PlacementLeftStart, PlacementLeft, PlacementLeftEnd,
				PlacementTopStart, PlacementTop, PlacementTopEnd,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rankCandidates(tt.p, tt.crossed)
			if !slices.Equal(got, tt.want) {
				t.Errorf("rankCandidates(%q) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestSides(t *testing.T) {
	s := sides(1<<sideTop | 1<<sideLeft | 1<<sideRight)
	if s.count() != 3 {
		t.Errorf("count() = %d, want 3", s.count())
	}
	if s.missing() != sideBottom {
		t.Errorf("missing() = %v, want bottom", s.missing())
	}

	m := sides(1<<sideTop | 1<<sideLeft | 1<<sideBottom).mirror()
	if m != sides(1<<sideTop|1<<sideRight|1<<sideBottom) {
		t.Errorf("mirror() = %04b, want top, right and bottom", m)
	}
	if m.missing() != sideLeft {
		t.Errorf("mirror().missing() = %v, want left", m.missing())
	}
}
