package ui

import (
	"slices"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

const ellipsis = "…"

// fitWidth truncates s with an ellipsis or pads it with spaces so it
// takes exactly w cells.
func fitWidth(s string, w int) string {
	if runewidth.StringWidth(s) > w {
		return runewidth.Truncate(s, w, ellipsis)
	}
	return runewidth.FillRight(s, w)
}

// Text is static, possibly multi-line text. Lines wider than the
// element are cut with an ellipsis.
type Text struct {
	Style   Style
	Content string
}

func NewText(text string) *Text {
	return &Text{Content: text}
}

func (t *Text) SetText(text string) { t.Content = text }

func (t *Text) Size() (int, int) {
	w, h := 0, 0
	for line := range strings.Lines(t.Content) {
		w = max(w, runewidth.StringWidth(strings.TrimSuffix(line, "\n")))
		h++
	}
	if strings.HasSuffix(t.Content, "\n") || t.Content == "" {
		h++
	}
	return w, h
}

func (t *Text) Layout(r Rect) *Node { return NewLayoutNode(t, r.X, r.Y, r.W, r.H) }

func (t *Text) Draw(s Screen, rect Rect) {
	y := rect.Y
	for line := range strings.Lines(t.Content) {
		if y >= rect.Y+rect.H {
			return
		}
		line = strings.TrimSuffix(line, "\n")
		if runewidth.StringWidth(line) > rect.W {
			line = runewidth.Truncate(line, rect.W, ellipsis)
		}
		DrawString(s, rect.X, y, rect.W, line, t.Style)
		y++
	}
}

// Button is a one-line clickable label. It activates on a click that
// starts and ends on it, or on Enter/Space while focused.
type Button struct {
	Style   Style
	Text    string
	OnClick func()
	// NoFeedback keeps the style fixed on hover, press and focus.
	NoFeedback bool

	hovered bool
	pressed bool
	focused bool
}

func NewButton(text string, onClick func()) *Button {
	return &Button{Text: text, OnClick: onClick}
}

func (b *Button) Size() (int, int)     { return runewidth.StringWidth(b.Text) + 2, 1 }
func (b *Button) Layout(r Rect) *Node  { return NewLayoutNode(b, r.X, r.Y, r.W, r.H) }
func (b *Button) OnMouseEnter()        { b.hovered = true }
func (b *Button) OnMouseDown(x, y int) { b.pressed = true }
func (b *Button) OnFocus()             { b.focused = true }
func (b *Button) OnBlur()              { b.focused = false }

func (b *Button) Draw(s Screen, rect Rect) {
	st := b.Style
	switch {
	case b.NoFeedback:
	case b.pressed || b.focused:
		st.BG = Theme.Selection
	case b.hovered:
		st.BG = Theme.Hover
	}
	DrawString(s, rect.X, rect.Y, rect.W, " "+b.Text+" ", st)
}

func (b *Button) OnMouseLeave() {
	b.hovered = false
	b.pressed = false
}

func (b *Button) OnMouseUp(x, y int) {
	clicked := b.pressed && b.hovered
	b.pressed = false
	if clicked {
		b.click()
	}
}

func (b *Button) HandleKey(ev *tcell.EventKey) bool {
	if ev.Key() != tcell.KeyEnter && !(ev.Key() == tcell.KeyRune && ev.Rune() == ' ') {
		return false
	}
	b.click()
	return true
}

func (b *Button) click() {
	if b.OnClick != nil {
		b.OnClick()
	}
}

// Input is a single-line text field. The zero value is ready to use.
// Escape and Tab are left to the enclosing overlay.
type Input struct {
	Placeholder string
	Style       Style
	// Autofocus makes the field take focus when its overlay opens.
	Autofocus bool
	OnChange  func()
	OnCommit  func(string)

	text    []rune
	cursor  int
	scroll  int // first visible rune
	focused bool
}

func (in *Input) String() string { return string(in.text) }

func (in *Input) SetText(s string) {
	in.text = []rune(s)
	in.cursor = len(in.text)
	in.changed()
}

func (in *Input) Size() (int, int)     { return 10, 1 }
func (in *Input) Layout(r Rect) *Node  { return NewLayoutNode(in, r.X, r.Y, r.W, r.H) }
func (in *Input) OnFocus()             { in.focused = true }
func (in *Input) OnBlur()              { in.focused = false }
func (in *Input) Focused() bool        { return in.focused }
func (in *Input) AutoFocus() bool      { return in.Autofocus }
func (in *Input) OnMouseUp(x, y int)   {}
func (in *Input) OnMouseDown(x, y int) { in.cursor = min(max(in.scroll+x, 0), len(in.text)) }

func (in *Input) Draw(s Screen, rect Rect) {
	if rect.W <= 0 {
		return
	}
	ResetRect(s, Rect{X: rect.X, Y: rect.Y, W: rect.W, H: 1}, in.Style)
	if len(in.text) == 0 {
		DrawString(s, rect.X, rect.Y, rect.W, in.Placeholder, in.Style.Merge(Theme.Placeholder))
		if in.focused {
			s.ShowCursor(rect.X, rect.Y)
		}
		return
	}

	// keep the cursor cell inside the field
	if in.cursor < in.scroll {
		in.scroll = in.cursor
	}
	for runewidth.StringWidth(string(in.text[in.scroll:in.cursor])) >= rect.W {
		in.scroll++
	}
	used := DrawString(s, rect.X, rect.Y, rect.W, string(in.text[in.scroll:]), in.Style)
	if in.focused {
		x := runewidth.StringWidth(string(in.text[in.scroll:in.cursor]))
		s.ShowCursor(rect.X+min(x, used), rect.Y)
	}
}

func (in *Input) HandleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyLeft:
		in.cursor = max(in.cursor-1, 0)
	case tcell.KeyRight:
		in.cursor = min(in.cursor+1, len(in.text))
	case tcell.KeyHome, tcell.KeyCtrlA:
		in.cursor = 0
	case tcell.KeyEnd, tcell.KeyCtrlE:
		in.cursor = len(in.text)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if in.cursor == 0 {
			return true
		}
		in.text = slices.Delete(in.text, in.cursor-1, in.cursor)
		in.cursor--
		in.changed()
	case tcell.KeyDelete:
		if in.cursor == len(in.text) {
			return true
		}
		in.text = slices.Delete(in.text, in.cursor, in.cursor+1)
		in.changed()
	case tcell.KeyCtrlU:
		in.text = slices.Delete(in.text, 0, in.cursor)
		in.cursor = 0
		in.changed()
	case tcell.KeyRune:
		in.text = slices.Insert(in.text, in.cursor, ev.Rune())
		in.cursor++
		in.changed()
	case tcell.KeyEnter:
		if in.OnCommit != nil {
			in.OnCommit(in.String())
		}
	default:
		return false
	}
	return true
}

func (in *Input) changed() {
	if in.OnChange != nil {
		in.OnChange()
	}
}

type ListItem struct {
	Name  string
	Value any
}

// List is a vertical menu of items, the usual content of a dropdown.
// Index is the highlighted row, -1 for none. OnSelect runs on click or
// Enter.
type List struct {
	Items    []ListItem
	Index    int
	OnSelect func(ListItem)

	focused bool
}

func (l *List) Append(item ListItem) { l.Items = append(l.Items, item) }
func (l *List) Len() int             { return len(l.Items) }
func (l *List) OnFocus()             { l.focused = true }
func (l *List) OnBlur()              { l.focused = false }
func (l *List) OnMouseUp(x, y int)   {}
func (l *List) Layout(r Rect) *Node  { return NewLayoutNode(l, r.X, r.Y, r.W, r.H) }

// Selected returns the highlighted item.
func (l *List) Selected() (ListItem, bool) {
	if l.Index < 0 || l.Index >= len(l.Items) {
		return ListItem{}, false
	}
	return l.Items[l.Index], true
}

func (l *List) Size() (int, int) {
	w := 10
	for _, it := range l.Items {
		w = max(w, runewidth.StringWidth(it.Name))
	}
	return w + 2, len(l.Items)
}

func (l *List) Draw(s Screen, rect Rect) {
	for i, item := range l.Items[:min(len(l.Items), max(rect.H, 0))] {
		var st Style
		if i == l.Index {
			st.BG = Theme.Selection
			st.FontBold = l.focused
		}
		DrawString(s, rect.X, rect.Y+i, rect.W, fitWidth(" "+item.Name+" ", rect.W), st)
	}
}

func (l *List) OnMouseDown(x, y int) {
	if y < 0 || y >= len(l.Items) {
		return
	}
	l.Index = y
	l.activate()
}

func (l *List) HandleKey(ev *tcell.EventKey) bool {
	n := len(l.Items)
	if n == 0 {
		return false
	}
	switch ev.Key() {
	case tcell.KeyUp, tcell.KeyCtrlP:
		l.Index = (max(l.Index, 0) - 1 + n) % n
	case tcell.KeyDown, tcell.KeyCtrlN:
		l.Index = (l.Index + 1) % n
	case tcell.KeyHome:
		l.Index = 0
	case tcell.KeyEnd:
		l.Index = n - 1
	case tcell.KeyEnter:
		l.activate()
	default:
		return false
	}
	return true
}

func (l *List) activate() {
	if it, ok := l.Selected(); ok && l.OnSelect != nil {
		l.OnSelect(it)
	}
}

// Divider draws a rule along the bottom row, or the right column when
// vertical. Stacks give it the full cross-axis extent.
type Divider struct {
	Vertical bool
}

func (d *Divider) Size() (int, int)    { return 1, 1 }
func (d *Divider) Layout(r Rect) *Node { return NewLayoutNode(d, r.X, r.Y, r.W, r.H) }

func (d *Divider) Draw(s Screen, rect Rect) {
	st := Style{FG: Theme.Border}.Apply()
	if d.Vertical {
		for y := rect.Y; y < rect.Y+rect.H; y++ {
			s.SetContent(rect.X+rect.W-1, y, vLine, nil, st)
		}
		return
	}
	for x := rect.X; x < rect.X+rect.W; x++ {
		s.SetContent(x, rect.Y+rect.H-1, hLine, nil, st)
	}
}

type empty struct{}

func (empty) Size() (int, int)      { return 0, 0 }
func (e empty) Layout(r Rect) *Node { return NewLayoutNode(e, r.X, r.Y, r.W, r.H) }
func (empty) Draw(Screen, Rect)     {}
