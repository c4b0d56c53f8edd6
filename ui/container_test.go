package ui

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
)

func TestScrollView_ScrollTo(t *testing.T) {
	sv := NewScrollView(NewText(strings.Repeat("x\n", 29) + "x"))
	sv.Layout(Rect{W: 10, H: 10})

	tests := []struct {
		name    string
		x, y    int
		changed bool
		wantY   int
	}{
		{"down", 0, 5, true, 5},
		{"same", 0, 5, false, 5},
		{"past the end", 0, 100, true, 20},
		{"before the start", 0, -3, true, 0},
		{"no horizontal room", 4, 0, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sv.ScrollTo(tt.x, tt.y); got != tt.changed {
				t.Errorf("ScrollTo(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.changed)
			}
			if x, y := sv.ScrollOffset(); x != 0 || y != tt.wantY {
				t.Errorf("ScrollOffset() = (%d, %d), want (0, %d)", x, y, tt.wantY)
			}
		})
	}
}

func TestScrollView_Layout(t *testing.T) {
	text := NewText(strings.Repeat("x\n", 29) + "x")
	sv := NewScrollView(text)
	sv.Layout(Rect{W: 10, H: 10})
	sv.ScrollBy(0, 7)

	n := sv.Layout(Rect{X: 2, Y: 3, W: 10, H: 10})
	if got := n.Children[0].Rect; got != (Rect{X: 2, Y: -4, W: 10, H: 30}) {
		t.Errorf("child rect = %+v", got)
	}
	if w, h := sv.ScrollSize(); w != 10 || h != 30 {
		t.Errorf("ScrollSize() = (%d, %d), want (10, 30)", w, h)
	}
	if sv.Overflow() == OverflowVisible {
		t.Error("scroll view must clip")
	}
}

func TestDecorator(t *testing.T) {
	text := NewText("hello")

	tests := []struct {
		name  string
		e     Element
		w, h  int
		inner Rect
	}{
		{"pad", Pad(NewText("hello"), 1), 7, 3, Rect{X: 1, Y: 1, W: 8, H: 3}},
		{"pad h", PadH(NewText("hello"), 2), 9, 1, Rect{X: 2, W: 6, H: 5}},
		{"border", Border(NewText("hello")), 7, 3, Rect{X: 1, Y: 1, W: 8, H: 3}},
		{"frame", Frame(NewText("hello"), 20, 4), 20, 4, Rect{W: 10, H: 5}},
		{"stacked keeps one wrapper", Border(Pad(text, 1)), 9, 5, Rect{X: 2, Y: 2, W: 6, H: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w, h := tt.e.Size(); w != tt.w || h != tt.h {
				t.Errorf("Size() = (%d, %d), want (%d, %d)", w, h, tt.w, tt.h)
			}
			n := tt.e.Layout(Rect{W: 10, H: 5})
			if len(n.Children) != 1 {
				t.Fatalf("decorator has %d children, want 1", len(n.Children))
			}
			if got := n.Children[0].Rect; got != tt.inner {
				t.Errorf("inner rect = %+v, want %+v", got, tt.inner)
			}
		})
	}
}

func TestDecorator_Traits(t *testing.T) {
	e := ID(Isolate(Clip(Relative(NewText("x")))), "box")
	d, ok := e.(*decorator)
	if !ok {
		t.Fatalf("decorators returned %T, want one *decorator", e)
	}
	if d.Position() != PositionRelative || d.Overflow() != OverflowHidden || !d.ContainingBlock() || d.ElementID() != "box" {
		t.Errorf("traits = %v %v %v %q", d.Position(), d.Overflow(), d.ContainingBlock(), d.ElementID())
	}
	if _, ok := d.Unwrap().(*Text); !ok {
		t.Errorf("Unwrap() = %T, want *Text", d.Unwrap())
	}

	for _, tt := range []struct {
		e    Element
		want Position
	}{
		{Absolute(NewText("a")), PositionAbsolute},
		{Fixed(NewText("f")), PositionFixed},
		{Sticky(NewText("s")), PositionSticky},
	} {
		if got := tt.e.(Positioned).Position(); got != tt.want {
			t.Errorf("Position() = %v, want %v", got, tt.want)
		}
	}
}

func TestStack_Grow(t *testing.T) {
	top := NewText("top")
	fill := Grow(NewText("fill"))
	bottom := NewText("bottom")

	n := VStack(top, fill, bottom).Layout(Rect{W: 20, H: 10})
	want := []Rect{
		{W: 20, H: 1},
		{Y: 1, W: 20, H: 8},
		{Y: 9, W: 20, H: 1},
	}
	for i, c := range n.Children {
		if c.Rect != want[i] {
			t.Errorf("child %d rect = %+v, want %+v", i, c.Rect, want[i])
		}
	}

	n = HStack(NewText("ab"), Grow(NewText("")), NewText("cd")).Spacing(1).Layout(Rect{W: 20, H: 1})
	if got := n.Children[2].Rect.X; got != 18 {
		t.Errorf("last child x = %d, want 18", got)
	}
}

func TestTabView(t *testing.T) {
	one, two := NewText("one"), NewText("two")
	tabs := NewTabView().Append("One", one).Append("Two", two)

	n := tabs.Layout(Rect{W: 20, H: 5})
	if n.Children[1].Element != one {
		t.Errorf("active body = %T, want the first tab", n.Children[1].Element)
	}
	header := n.Children[0]

	alt := func(k tcell.Key) *tcell.EventKey { return tcell.NewEventKey(k, 0, tcell.ModAlt) }
	if !tabs.HandleKey(alt(tcell.KeyRight)) || tabs.Active() != 1 {
		t.Errorf("Alt+Right: active = %d, want 1", tabs.Active())
	}
	if !tabs.HandleKey(alt(tcell.KeyRight)) || tabs.Active() != 0 {
		t.Errorf("Alt+Right wraps: active = %d, want 0", tabs.Active())
	}
	if tabs.HandleKey(tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone)) {
		t.Error("plain Right was consumed")
	}

	tabs.SetActive(1)
	if tabs.FocusTarget() != two {
		t.Error("FocusTarget() is not the active body")
	}
	n = tabs.Layout(Rect{W: 20, H: 5})
	if n.Children[0].Children[0].Element != header.Children[0].Element {
		t.Error("header elements changed between layouts")
	}
}
