package ui

import "testing"

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	a, b, c := r.NewID(), r.NewID(), r.NewID()
	if a == b || b == c {
		t.Fatal("NewID() returned duplicate ids")
	}

	nb := &Node{}
	r.Register(a, "", func() *Node { return &Node{} })
	r.Register(b, a, func() *Node { return nb })
	r.Register(c, b, func() *Node { return nil }) // not laid out yet

	if !r.HasChildren(a) || !r.HasChildren(b) {
		t.Error("HasChildren() = false for a parent")
	}
	if r.HasChildren(c) {
		t.Error("HasChildren(c) = true, want false")
	}

	got := r.Descendants(a)
	if len(got) != 1 || got[0] != nb {
		t.Errorf("Descendants(a) = %v, want [b's node]", got)
	}

	r.Unregister(b)
	if r.Registered(b) {
		t.Error("Registered(b) = true after Unregister")
	}
	if r.HasChildren(a) {
		t.Error("HasChildren(a) = true after its child closed")
	}
	if got := r.Descendants(a); len(got) != 0 {
		t.Errorf("Descendants(a) = %v, want none", got)
	}
}

func TestRegistry_DescendantsCycle(t *testing.T) {
	r := NewRegistry()
	n := &Node{}
	r.Register("a", "b", func() *Node { return n })
	r.Register("b", "a", func() *Node { return n })
	if got := r.Descendants("a"); len(got) != 1 {
		t.Errorf("Descendants() = %d nodes, want 1", len(got))
	}
}
