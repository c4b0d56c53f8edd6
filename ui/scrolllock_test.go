package ui

import (
	"strings"
	"testing"
)

type fakeBody struct {
	style     BodyStyle
	scrollbar int
}

func (b *fakeBody) BodyStyle() BodyStyle     { return b.style }
func (b *fakeBody) SetBodyStyle(s BodyStyle) { b.style = s }
func (b *fakeBody) ScrollbarWidth() int      { return b.scrollbar }

func TestScrollLock(t *testing.T) {
	open := BodyStyle{}
	lockedOnce := BodyStyle{Overflow: OverflowHidden, PaddingRight: 1}

	type op struct {
		push  bool
		owner string
		want  BodyStyle
	}
	tests := []struct {
		name  string
		start BodyStyle
		ops   []op
	}{
		{
			name: "single",
			ops: []op{
				{true, "a", lockedOnce},
				{false, "a", open},
			},
		},
		{
			name: "nested lifo",
			ops: []op{
				{true, "a", lockedOnce},
				{true, "b", lockedOnce},
				{false, "b", lockedOnce},
				{false, "a", open},
			},
		},
		{
			name: "outer released first",
			ops: []op{
				{true, "a", lockedOnce},
				{true, "b", lockedOnce},
				{false, "a", lockedOnce},
				{false, "b", open},
			},
		},
		{
			name:  "body hidden before the first lock",
			start: BodyStyle{Overflow: OverflowHidden},
			ops: []op{
				{true, "a", BodyStyle{Overflow: OverflowHidden}},
				{true, "b", BodyStyle{Overflow: OverflowHidden}},
				{false, "a", BodyStyle{Overflow: OverflowHidden}},
				{false, "b", BodyStyle{Overflow: OverflowHidden}},
			},
		},
		{
			name: "double push and unknown pop",
			ops: []op{
				{true, "a", lockedOnce},
				{true, "a", lockedOnce},
				{false, "z", lockedOnce},
				{false, "a", open},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := &fakeBody{style: tt.start, scrollbar: 1}
			l := NewScrollLock(body)
			for i, o := range tt.ops {
				if o.push {
					l.Push(o.owner)
				} else {
					l.Pop(o.owner)
				}
				if body.style != o.want {
					t.Errorf("op %d: body = %+v, want %+v", i, body.style, o.want)
				}
			}
			if l.Locked() {
				t.Error("Locked() = true after every owner popped")
			}
			if body.style != tt.start {
				t.Errorf("body = %+v after every pop, want %+v", body.style, tt.start)
			}
		})
	}
}

func TestScrollLock_NestedGutter(t *testing.T) {
	sv := NewScrollView(NewText(strings.Repeat("line\n", 99) + "line"))
	d := NewDocument(sv, newFakeScheduler())
	d.Layout(testW, testH)

	a, b := new(int), new(int)
	d.ScrollLock().Push(a)
	d.ScrollLock().Push(b)
	d.Layout(testW, testH)
	if got := d.Tree().Rect.W; got != testW-1 {
		t.Errorf("root width with two locks = %d, want %d", got, testW-1)
	}

	d.ScrollLock().Pop(b)
	d.ScrollLock().Pop(a)
	d.Layout(testW, testH)
	if got := d.Tree().Rect.W; got != testW {
		t.Errorf("root width after unlocking = %d, want %d", got, testW)
	}
}
