package csg

import "github.com/chazu/csg2d/pkg/geom"

// node is one node of a BSP tree. Every node that carries a splitting line
// also owns the segments lying on that line. Segments on the right of the
// line live in the right subtree, those on the left in the left subtree.
//
// A root with no line represents a tree built from no segments. Such a root
// has no boundary, so whether it covers nothing or the whole plane is kept in
// full, which invert toggles.
type node struct {
	line     *geom.Line
	segments []*geom.Segment
	right    *node
	left     *node
	full     bool
}

func newNode(segments []*geom.Segment) *node {
	n := &node{}
	n.build(segments)
	return n
}

// clone returns a deep copy of the tree. No segment or line is shared.
func (n *node) clone() *node {
	if n == nil {
		return nil
	}
	c := &node{
		segments: cloneSegments(n.segments),
		right:    n.right.clone(),
		left:     n.left.clone(),
		full:     n.full,
	}
	if n.line != nil {
		l := *n.line
		c.line = &l
	}
	return c
}

// invert swaps solid and empty space.
func (n *node) invert() {
	if n.line == nil {
		n.full = !n.full
		return
	}
	for _, s := range n.segments {
		s.Flip()
	}
	n.line.Flip()
	if n.right != nil {
		n.right.invert()
	}
	if n.left != nil {
		n.left.invert()
	}
	n.right, n.left = n.left, n.right
}

// clipSegments removes the parts of segments lying outside the region this
// tree bounds, splitting segments that cross a partition line. Segments on
// the boundary survive only when they run in the same direction.
func (n *node) clipSegments(segments []*geom.Segment) []*geom.Segment {
	if n.line == nil {
		if n.full {
			return append([]*geom.Segment(nil), segments...)
		}
		return nil
	}

	var right, left []*geom.Segment
	for _, s := range segments {
		sp := n.line.SplitSegment(s)
		if sp.ColinearRight != nil {
			right = append(right, sp.ColinearRight)
		}
		if sp.ColinearLeft != nil {
			left = append(left, sp.ColinearLeft)
		}
		if sp.Right != nil {
			right = append(right, sp.Right)
		}
		if sp.Left != nil {
			left = append(left, sp.Left)
		}
	}

	if n.right != nil {
		right = n.right.clipSegments(right)
	}
	if n.left != nil {
		left = n.left.clipSegments(left)
	} else {
		left = nil
	}
	return append(right, left...)
}

// clipTo removes every part of this tree's segments that lies outside other.
func (n *node) clipTo(other *node) {
	n.segments = other.clipSegments(n.segments)
	if n.right != nil {
		n.right.clipTo(other)
	}
	if n.left != nil {
		n.left.clipTo(other)
	}
}

// allSegments returns every segment in the tree, in pre-order: the node's
// own segments, then the right subtree, then the left subtree.
func (n *node) allSegments() []*geom.Segment {
	out := append([]*geom.Segment(nil), n.segments...)
	if n.right != nil {
		out = append(out, n.right.allSegments()...)
	}
	if n.left != nil {
		out = append(out, n.left.allSegments()...)
	}
	return out
}

// build inserts segments into the tree. A node without a line adopts the line
// of the first segment; new subtrees are created below as needed.
func (n *node) build(segments []*geom.Segment) {
	if len(segments) == 0 {
		return
	}
	if n.line == nil {
		l := segments[0].Line
		n.line = &l
	}

	var right, left []*geom.Segment
	for _, s := range segments {
		sp := n.line.SplitSegment(s)
		if sp.ColinearRight != nil {
			n.segments = append(n.segments, sp.ColinearRight)
		}
		if sp.ColinearLeft != nil {
			n.segments = append(n.segments, sp.ColinearLeft)
		}
		if sp.Right != nil {
			right = append(right, sp.Right)
		}
		if sp.Left != nil {
			left = append(left, sp.Left)
		}
	}

	if len(right) > 0 {
		if n.right == nil {
			n.right = &node{}
		}
		n.right.build(right)
	}
	if len(left) > 0 {
		if n.left == nil {
			n.left = &node{}
		}
		n.left.build(left)
	}
}

// depth returns the height of the tree. An empty tree has depth zero.
func (n *node) depth() int {
	if n == nil || n.line == nil {
		return 0
	}
	return 1 + max(n.right.depth(), n.left.depth())
}

func cloneSegments(segments []*geom.Segment) []*geom.Segment {
	if segments == nil {
		return nil
	}
	out := make([]*geom.Segment, len(segments))
	for i, s := range segments {
		out[i] = s.Clone()
	}
	return out
}
