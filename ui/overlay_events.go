package ui

import "github.com/gdamore/tcell/v2"

// opened runs once per showing, after the first successful placement.
func (o *Overlay) opened() {
	o.open = true
	parent := ""
	if o.cfg.parent != nil {
		parent = o.cfg.parent.id
	}
	o.doc.Registry().Register(o.id, parent, o.Node)

	if o.mask != nil && o.cfg.disableScroll {
		o.doc.ScrollLock().Push(o)
	}

	o.offs = append(o.offs,
		o.doc.OnPointerDown(o.onPointerDown),
		o.doc.OnKeyDown(o.onKeyDown),
	)

	if o.cfg.autoFocus {
		o.prevFocus = o.doc.Focused()
		o.offs = append(o.offs, o.doc.Scheduler().NextFrame(o.focusFirst))
	}
	if o.cfg.onOpen != nil {
		o.cfg.onOpen(o.Node())
	}
}

// close undoes opened. onClose runs before anything is detached.
func (o *Overlay) close() {
	o.open = false
	if o.cfg.onClose != nil {
		o.cfg.onClose()
	}
	for _, off := range o.offs {
		off()
	}
	o.offs = nil
	o.doc.Registry().Unregister(o.id)
	o.doc.ScrollLock().Pop(o)

	if o.cfg.autoFocus {
		if f := o.doc.Focused(); f == nil || o.contains(f) {
			o.doc.Focus(o.prevFocus)
		}
		o.prevFocus = nil
	}
}

// scrollsTarget reports whether scrolling e moves the target.
func (o *Overlay) scrollsTarget(e Element) bool {
	n := o.doc.NodeOf(e)
	t := o.cfg.target.node(o.doc, nil)
	return n != nil && t != nil && n != t && n.Contains(t)
}

func (o *Overlay) contains(e Element) bool {
	n := o.doc.NodeOf(e)
	return n != nil && o.Node().Contains(n)
}

func (o *Overlay) requestClose(reason CloseReason, ev tcell.Event) {
	o.log.Debug("request close", "reason", reason)
	if o.cfg.onRequestClose != nil {
		o.cfg.onRequestClose(reason, ev)
		return
	}
	o.SetVisible(false)
}

func (o *Overlay) onPointerDown(ev PointerEvent) {
	if !o.open {
		return
	}
	hit := ev.Node
	if hit != nil && o.layer.maskNode != nil && hit == o.layer.maskNode {
		if o.cfg.canCloseByMask {
			o.requestClose(CloseMaskClick, ev.Event)
		}
		return
	}
	if !o.cfg.canCloseByOutsideClick || o.inside(hit) {
		return
	}
	o.requestClose(CloseDocClick, ev.Event)
}

// inside reports whether a click on n belongs to the overlay: its own
// content, its target, a safe node or a nested overlay.
func (o *Overlay) inside(n *Node) bool {
	if n == nil {
		return false
	}
	if o.Node().Contains(n) {
		return true
	}
	// the trigger toggles the overlay itself
	if el := o.cfg.target.Element(o.doc); el != nil && o.doc.NodeOf(el).Contains(n) {
		return true
	}
	for _, t := range o.cfg.safeNodes {
		if o.doc.NodeOf(t.Element(o.doc)).Contains(n) {
			return true
		}
	}
	for _, child := range o.doc.Registry().Descendants(o.id) {
		if child.Contains(n) {
			return true
		}
	}
	return false
}

func (o *Overlay) onKeyDown(ev *tcell.EventKey) bool {
	if !o.open || ev.Key() != tcell.KeyEscape || !o.cfg.canCloseByEsc {
		return false
	}
	// the innermost overlay closes first
	if o.doc.Registry().HasChildren(o.id) {
		return false
	}
	o.requestClose(CloseEsc, ev)
	return true
}

// focusFirst moves focus into the overlay.
func (o *Overlay) focusFirst() {
	if !o.open {
		return
	}
	if e := findAutoFocus(o.Node()); e != nil {
		o.doc.Focus(e)
	}
}

// findAutoFocus walks n depth-first. An element that asks for auto focus
// wins; otherwise the first focusable element is returned.
func findAutoFocus(n *Node) Element {
	var first Element
	var walk func(*Node) Element
	walk = func(n *Node) Element {
		if n == nil {
			return nil
		}
		if a, ok := n.Element.(AutoFocuser); ok && a.AutoFocus() {
			return n.Element
		}
		if _, ok := n.Element.(Focusable); ok && first == nil {
			first = n.Element
		}
		for _, c := range n.Children {
			if e := walk(c); e != nil {
				return e
			}
		}
		return nil
	}
	if e := walk(n); e != nil {
		return e
	}
	return first
}

// AddOverlay binds o to the document. An overlay belongs to one document.
func (d *Document) AddOverlay(o *Overlay) {
	o.bind(d)
}
