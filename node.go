package motion

import "slices"

// nodeIDCounter is a plain counter (no atomic; motion is single-threaded).
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// Node is a retained tree element that storyboards can target by name. It
// carries the common animatable properties; anything else can be animated
// through a SinkProvider or a struct field on UserData.
type Node struct {
	// Identity
	ID   uint32
	Name string

	// Hierarchy
	Parent   *Node
	children []*Node

	// Animatable properties
	X, Y     float64
	ScaleX   float64
	ScaleY   float64
	Rotation float64 // radians
	Alpha    float64
	Color    Color
	Padding  Thickness
	Visible  bool

	// Metadata
	UserData any

	names    *NameScope
	dirty    bool
	disposed bool
}

// NewNode creates a node with identity transform, full alpha and a white tint.
func NewNode(name string) *Node {
	return &Node{
		ID:      nextNodeID(),
		Name:    name,
		ScaleX:  1,
		ScaleY:  1,
		Alpha:   1,
		Color:   ColorWhite,
		Visible: true,
		dirty:   true,
	}
}

func (n *Node) String() string { return n.Name }

// MarkDirty flags the node as changed since the last ClearDirty.
func (n *Node) MarkDirty() { n.dirty = true }

// Dirty reports whether a property changed since the last ClearDirty.
func (n *Node) Dirty() bool { return n.dirty }

// ClearDirty resets the dirty flag, typically after a frame was drawn.
func (n *Node) ClearDirty() { n.dirty = false }

// --- Tree manipulation ---

// AddChild appends child as the last child, detaching it from any previous
// parent. The child becomes reachable by FindName from n and its ancestors
// and picks up the nearest name scope above it. Panics on nil or on a cycle.
func (n *Node) AddChild(child *Node) {
	n.attach(child, len(n.children))
}

// AddChildAt is AddChild at a position. Earlier siblings win FindName ties,
// so index decides which same-named node a storyboard targets.
func (n *Node) AddChildAt(child *Node, index int) {
	if index < 0 || index > len(n.children) {
		panic("motion: child index out of range")
	}
	n.attach(child, index)
}

func (n *Node) attach(child *Node, index int) {
	switch {
	case child == nil:
		panic("motion: cannot add nil child")
	case isAncestor(child, n):
		panic("motion: adding child would create a cycle")
	}
	if globalDebug {
		debugCheckDisposed(n, "AddChild (parent)")
		debugCheckDisposed(child, "AddChild (child)")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
		if child.Parent == n && index > len(n.children) {
			index = len(n.children)
		}
	}
	child.Parent = n
	n.children = slices.Insert(n.children, index, child)
	if globalDebug {
		debugCheckTreeDepth(child)
	}
}

// RemoveChild detaches child. Storyboards begun later no longer find it by
// name; sinks already bound to it keep writing. Panics if n is not the parent.
func (n *Node) RemoveChild(child *Node) {
	if child.Parent != n {
		panic("motion: child's parent is not this node")
	}
	n.removeChildByPtr(child)
	child.Parent = nil
}

// RemoveChildAt detaches and returns the child at index.
func (n *Node) RemoveChildAt(index int) *Node {
	if index < 0 || index >= len(n.children) {
		panic("motion: child index out of range")
	}
	child := n.children[index]
	copy(n.children[index:], n.children[index+1:])
	n.children[len(n.children)-1] = nil
	n.children = n.children[:len(n.children)-1]
	child.Parent = nil
	return child
}

// RemoveFromParent detaches n if it has a parent.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// RemoveChildren detaches every child without disposing it, so running
// animations on them continue.
func (n *Node) RemoveChildren() {
	for _, child := range n.children {
		child.Parent = nil
	}
	n.children = n.children[:0]
}

// Children returns the children in lookup order. Callers must not modify it.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren reports len(Children()).
func (n *Node) NumChildren() int {
	return len(n.children)
}

// ChildAt returns Children()[index].
func (n *Node) ChildAt(index int) *Node {
	return n.children[index]
}

// --- Names ---

// FindName returns the first node named name in this subtree, depth-first,
// including n itself. Returns nil when nothing matches.
func (n *Node) FindName(name string) any {
	if found := n.findNode(name); found != nil {
		return found
	}
	return nil
}

func (n *Node) findNode(name string) *Node {
	stack := []*Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur.Name == name {
			return cur
		}
		for i := len(cur.children) - 1; i >= 0; i-- {
			stack = append(stack, cur.children[i])
		}
	}
	return nil
}

// SetNameScope attaches a name scope to this node. Descendants without a
// scope of their own resolve names through it.
func (n *Node) SetNameScope(s *NameScope) {
	n.names = s
}

// NameScope returns the scope attached to the nearest node on the path from n
// to the root, or nil.
func (n *Node) NameScope() *NameScope {
	for p := n; p != nil; p = p.Parent {
		if p.names != nil {
			return p.names
		}
	}
	return nil
}

// --- Disposal ---

// Dispose removes this node from its parent, marks it as disposed,
// and recursively disposes all descendants. Sinks bound to a disposed node
// stop writing to it.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	n.ID = 0
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	n.children = nil
	n.names = nil
	n.UserData = nil
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// --- Helpers ---

// isAncestor reports whether candidate is an ancestor of node.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing child.Parent.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}
