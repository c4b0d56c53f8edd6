package ui

type targetKind int

const (
	targetViewport targetKind = iota
	targetID
	targetFunc
	targetElement
)

// Target tells an overlay what to position against. It is resolved again
// on every placement pass, so it may name elements that do not exist yet.
// The zero Target is TargetViewport.
type Target struct {
	kind targetKind
	id   string
	fn   func() Element
	el   Element
}

// TargetID resolves to the element decorated with ID(e, id).
func TargetID(id string) Target { return Target{kind: targetID, id: id} }

// TargetFunc resolves to whatever fn returns at placement time.
func TargetFunc(fn func() Element) Target { return Target{kind: targetFunc, fn: fn} }

// TargetElement resolves to e.
func TargetElement(e Element) Target { return Target{kind: targetElement, el: e} }

// TargetViewport resolves to the overlay's mask when it has one, else to
// the root of the document.
func TargetViewport() Target { return Target{kind: targetViewport} }

// Element returns the element the target names, or nil.
// Viewport targets have no element of their own.
func (t Target) Element(d *Document) Element {
	switch t.kind {
	case targetID:
		return d.ElementByID(t.id)
	case targetFunc:
		if t.fn == nil {
			return nil
		}
		return t.fn()
	case targetElement:
		return t.el
	}
	return nil
}

// node resolves the target in the latest layout of d.
func (t Target) node(d *Document, mask *Node) *Node {
	if t.kind == targetViewport {
		if mask != nil {
			return mask
		}
		return d.Tree()
	}
	return d.NodeOf(t.Element(d))
}
