package ui

import "github.com/google/uuid"

type registryEntry struct {
	parent string
	node   func() *Node
}

// Registry tracks the visible overlays of a document and who opened whom,
// so that a parent overlay can tell its nested overlays apart from the
// outside world.
type Registry struct {
	entries map[string]registryEntry
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]registryEntry)}
}

// NewID returns a fresh overlay id.
func (r *Registry) NewID() string {
	return uuid.NewString()
}

// Register records a visible overlay. node reports its current layout node.
func (r *Registry) Register(id, parent string, node func() *Node) {
	r.entries[id] = registryEntry{parent: parent, node: node}
}

func (r *Registry) Unregister(id string) {
	delete(r.entries, id)
}

func (r *Registry) Registered(id string) bool {
	_, ok := r.entries[id]
	return ok
}

// HasChildren reports whether a visible overlay was opened under id.
func (r *Registry) HasChildren(id string) bool {
	for _, e := range r.entries {
		if e.parent == id {
			return true
		}
	}
	return false
}

// Descendants returns the nodes of every visible overlay nested under id,
// at any depth.
func (r *Registry) Descendants(id string) []*Node {
	var out []*Node
	queue := []string{id}
	seen := map[string]bool{id: true}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for cid, e := range r.entries {
			if e.parent != cur || seen[cid] {
				continue
			}
			seen[cid] = true
			queue = append(queue, cid)
			if n := e.node(); n != nil {
				out = append(out, n)
			}
		}
	}
	return out
}
