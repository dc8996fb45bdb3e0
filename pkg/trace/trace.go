// Package trace walks a shape graph and produces outlines using a geometry
// kernel. One outline is produced per root shape.
package trace

import (
	"fmt"

	"github.com/chazu/csg2d/pkg/csg"
	"github.com/chazu/csg2d/pkg/graph"
	"github.com/chazu/csg2d/pkg/kernel"
)

// Tracer evaluates graph nodes into kernel solids. Results are memoized by
// content hash, so structurally equal subtrees are built once.
type Tracer struct {
	g        *graph.ShapeGraph
	k        kernel.Kernel
	byHash   map[graph.ContentHash]kernel.Solid
	byID     map[graph.NodeID]kernel.Solid
	visiting map[graph.NodeID]bool
}

// New returns a Tracer for g. If k accepts options, it is configured with
// the graph's snap distance and simplification setting.
func New(g *graph.ShapeGraph, k kernel.Kernel) *Tracer {
	if c, ok := k.(kernel.Configurable); ok && g != nil {
		c.SetOptions(csg.Options{
			SnapDistance: g.Defaults.SnapDistance,
			Simplify:     g.Defaults.Simplify,
		})
	}
	return &Tracer{
		g:        g,
		k:        k,
		byHash:   make(map[graph.ContentHash]kernel.Solid),
		byID:     make(map[graph.NodeID]kernel.Solid),
		visiting: make(map[graph.NodeID]bool),
	}
}

// Trace walks the shape graph and produces one outline per root using the
// provided kernel. The graph is never mutated.
func Trace(g *graph.ShapeGraph, k kernel.Kernel) ([]*kernel.Outline, error) {
	if g == nil {
		return nil, nil
	}
	return New(g, k).Outlines()
}

// Outlines builds every root shape and extracts its outline.
func (t *Tracer) Outlines() ([]*kernel.Outline, error) {
	var outlines []*kernel.Outline
	for _, n := range t.g.Shapes() {
		s, err := t.Solid(n)
		if err != nil {
			return nil, fmt.Errorf("trace: error walking root %s: %w", n.DisplayName(), err)
		}
		o, err := t.k.ToOutline(s)
		if err != nil {
			return nil, fmt.Errorf("trace: ToOutline failed for %s: %w", n.DisplayName(), err)
		}
		o.PartName = n.DisplayName()
		outlines = append(outlines, o)
	}
	return outlines, nil
}

// Solid returns the region described by n.
func (t *Tracer) Solid(n *graph.Node) (kernel.Solid, error) {
	if !n.ContentHash.IsZero() {
		if s, ok := t.byHash[n.ContentHash]; ok {
			return s, nil
		}
	} else if s, ok := t.byID[n.ID]; ok {
		return s, nil
	}

	if t.visiting[n.ID] {
		return nil, fmt.Errorf("cycle through node %s", n.DisplayName())
	}
	t.visiting[n.ID] = true
	defer delete(t.visiting, n.ID)

	s, err := t.build(n)
	if err != nil {
		return nil, err
	}

	if !n.ContentHash.IsZero() {
		t.byHash[n.ContentHash] = s
	} else {
		t.byID[n.ID] = s
	}
	return s, nil
}

// build dispatches on the node kind.
func (t *Tracer) build(n *graph.Node) (kernel.Solid, error) {
	switch n.Kind {
	case graph.NodePolygon:
		return t.handlePolygon(n)
	case graph.NodeBoolean:
		return t.handleBoolean(n)
	case graph.NodeInverse:
		return t.handleInverse(n)
	case graph.NodeTransform:
		return t.handleTransform(n)
	case graph.NodeGroup:
		return t.handleGroup(n)
	default:
		return nil, fmt.Errorf("unknown node kind: %v", n.Kind)
	}
}

// children resolves n's children, failing on dangling references.
func (t *Tracer) children(n *graph.Node) ([]kernel.Solid, error) {
	solids := make([]kernel.Solid, 0, len(n.Children))
	for _, cid := range n.Children {
		c := t.g.Get(cid)
		if c == nil {
			return nil, fmt.Errorf("%s node %s: child %s does not exist", n.Kind, n.DisplayName(), cid.Short())
		}
		s, err := t.Solid(c)
		if err != nil {
			return nil, err
		}
		solids = append(solids, s)
	}
	return solids, nil
}

// child resolves the single child of a unary node.
func (t *Tracer) child(n *graph.Node) (kernel.Solid, error) {
	if len(n.Children) != 1 {
		return nil, fmt.Errorf("%s node %s has %d children, want 1", n.Kind, n.DisplayName(), len(n.Children))
	}
	solids, err := t.children(n)
	if err != nil {
		return nil, err
	}
	return solids[0], nil
}

func (t *Tracer) handlePolygon(n *graph.Node) (kernel.Solid, error) {
	pd, ok := n.Data.(graph.PolygonData)
	if !ok {
		return nil, fmt.Errorf("polygon node %s has unexpected data type %T", n.DisplayName(), n.Data)
	}
	s, err := t.k.Polygon(pd.Loops, pd.Tag)
	if err != nil {
		return nil, fmt.Errorf("polygon node %s: %w", n.DisplayName(), err)
	}
	return s, nil
}

// handleBoolean folds the operands left to right.
func (t *Tracer) handleBoolean(n *graph.Node) (kernel.Solid, error) {
	bd, ok := n.Data.(graph.BooleanData)
	if !ok {
		return nil, fmt.Errorf("boolean node %s has unexpected data type %T", n.DisplayName(), n.Data)
	}
	solids, err := t.children(n)
	if err != nil {
		return nil, err
	}
	if len(solids) < 2 {
		return nil, fmt.Errorf("%s node %s has %d operands, want at least 2", bd.Op, n.DisplayName(), len(solids))
	}

	acc := solids[0]
	for _, s := range solids[1:] {
		switch bd.Op {
		case graph.OpUnion:
			acc = t.k.Union(acc, s)
		case graph.OpSubtract:
			acc = t.k.Difference(acc, s)
		case graph.OpIntersect:
			acc = t.k.Intersection(acc, s)
		default:
			return nil, fmt.Errorf("boolean node %s has unknown op %d", n.DisplayName(), int(bd.Op))
		}
	}
	return acc, nil
}

func (t *Tracer) handleInverse(n *graph.Node) (kernel.Solid, error) {
	s, err := t.child(n)
	if err != nil {
		return nil, err
	}
	inv, err := t.k.Complement(s)
	if err != nil {
		return nil, fmt.Errorf("inverse node %s: %w", n.DisplayName(), err)
	}
	return inv, nil
}

// handleTransform applies the rotation first, then the translation.
func (t *Tracer) handleTransform(n *graph.Node) (kernel.Solid, error) {
	td, ok := n.Data.(graph.TransformData)
	if !ok {
		return nil, fmt.Errorf("transform node %s has unexpected data type %T", n.DisplayName(), n.Data)
	}
	s, err := t.child(n)
	if err != nil {
		return nil, err
	}
	if td.Rotation != nil && *td.Rotation != 0 {
		s = t.k.Rotate(s, *td.Rotation)
	}
	if td.Translation != nil && (td.Translation.X != 0 || td.Translation.Y != 0) {
		s = t.k.Translate(s, td.Translation.X, td.Translation.Y)
	}
	return s, nil
}

// handleGroup unions the children.
func (t *Tracer) handleGroup(n *graph.Node) (kernel.Solid, error) {
	solids, err := t.children(n)
	if err != nil {
		return nil, err
	}
	if len(solids) == 0 {
		return nil, fmt.Errorf("group node %s has no children", n.DisplayName())
	}
	acc := solids[0]
	for _, s := range solids[1:] {
		acc = t.k.Union(acc, s)
	}
	return acc, nil
}
