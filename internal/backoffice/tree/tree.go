// Package tree indexes a flat list of (id, parent id) pairs as a forest and
// answers hierarchy questions without recursion. Input coming from storage may
// be corrupted (a node listed as its own ancestor); every walk tracks visited
// ids so such input never loops.
package tree

// Node is one entry of the flat table: an id and an optional parent id.
type Node struct {
	ID       uint
	ParentID *uint
}

// Forest is an arena of nodes with a parent index and a children index.
type Forest struct {
	parent   map[uint]uint
	hasNode  map[uint]bool
	children map[uint][]uint
	roots    []uint
}

// New indexes nodes. Nodes whose parent is missing from the input are
// treated as roots.
func New(nodes []Node) *Forest {
	f := &Forest{
		parent:   make(map[uint]uint, len(nodes)),
		hasNode:  make(map[uint]bool, len(nodes)),
		children: make(map[uint][]uint),
	}
	for _, n := range nodes {
		f.hasNode[n.ID] = true
	}
	for _, n := range nodes {
		if n.ParentID != nil && f.hasNode[*n.ParentID] {
			f.parent[n.ID] = *n.ParentID
			f.children[*n.ParentID] = append(f.children[*n.ParentID], n.ID)
			continue
		}
		f.roots = append(f.roots, n.ID)
	}
	return f
}

// Has reports whether id is part of the forest.
func (f *Forest) Has(id uint) bool {
	return f.hasNode[id]
}

// Roots returns the ids without a (known) parent, in input order.
func (f *Forest) Roots() []uint {
	return append([]uint(nil), f.roots...)
}

// Children returns the direct children of id, in input order.
func (f *Forest) Children(id uint) []uint {
	return append([]uint(nil), f.children[id]...)
}

// Descendants returns every node below id in breadth-first order, nearest
// levels first. id itself is not included.
func (f *Forest) Descendants(id uint) []uint {
	var out []uint
	seen := map[uint]bool{id: true}
	queue := append([]uint(nil), f.children[id]...)
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if seen[cur] {
			continue
		}
		seen[cur] = true
		out = append(out, cur)
		queue = append(queue, f.children[cur]...)
	}
	return out
}

// Levels groups the descendants of id by distance: Levels(id)[0] holds the
// direct children, [1] the grandchildren and so on.
func (f *Forest) Levels(id uint) [][]uint {
	var out [][]uint
	seen := map[uint]bool{id: true}
	frontier := []uint{id}
	for len(frontier) > 0 {
		var next []uint
		for _, n := range frontier {
			for _, c := range f.children[n] {
				if seen[c] {
					continue
				}
				seen[c] = true
				next = append(next, c)
			}
		}
		if len(next) > 0 {
			out = append(out, next)
		}
		frontier = next
	}
	return out
}

// Ancestors walks from id up to its root and returns the chain, nearest
// parent first.
func (f *Forest) Ancestors(id uint) []uint {
	var out []uint
	seen := map[uint]bool{id: true}
	cur := id
	for {
		p, ok := f.parent[cur]
		if !ok || seen[p] {
			return out
		}
		seen[p] = true
		out = append(out, p)
		cur = p
	}
}

// IsDescendant reports whether candidate sits somewhere below of.
func (f *Forest) IsDescendant(candidate, of uint) bool {
	for _, a := range f.Ancestors(candidate) {
		if a == of {
			return true
		}
	}
	return false
}

// Depth is the number of ancestors of id; roots have depth 0.
func (f *Forest) Depth(id uint) int {
	return len(f.Ancestors(id))
}

// CanReparent reports whether id may be moved under newParent without
// creating a cycle. A nil parent (becoming a root) is always allowed.
func (f *Forest) CanReparent(id uint, newParent *uint) bool {
	if newParent == nil {
		return true
	}
	if *newParent == id {
		return false
	}
	return !f.IsDescendant(*newParent, id)
}
