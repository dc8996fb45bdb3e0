package graph

import "fmt"

// DefaultSnapDistance is the default loop reconstruction tolerance in units.
const DefaultSnapDistance = 1.0

// GlobalDefaults contains graph-wide default settings.
type GlobalDefaults struct {
	SnapDistance float64 `json:"snap_distance"` // endpoint joining tolerance for outlines
	Simplify     bool    `json:"simplify"`      // drop colinear vertices from outlines
	Units        string  `json:"units"`         // "mm" (only option for now)
}

// ShapeGraph is the top-level immutable data structure produced by Lisp evaluation.
// It is never mutated in place; each evaluation produces a new graph.
type ShapeGraph struct {
	Nodes     map[NodeID]*Node  `json:"nodes"`
	Roots     []NodeID          `json:"roots"`
	NameIndex map[string]NodeID `json:"name_index"`
	Defaults  GlobalDefaults    `json:"defaults"`
	Version   uint64            `json:"version"`
}

// New creates an empty ShapeGraph with default settings.
func New() *ShapeGraph {
	return &ShapeGraph{
		Nodes:     make(map[NodeID]*Node),
		NameIndex: make(map[string]NodeID),
		Defaults: GlobalDefaults{
			SnapDistance: DefaultSnapDistance,
			Units:        "mm",
		},
	}
}

// AddNode adds a node to the graph. It does not check for duplicates.
func (g *ShapeGraph) AddNode(n *Node) {
	g.Nodes[n.ID] = n
	if n.Name != "" {
		g.NameIndex[n.Name] = n.ID
	}
}

// AddRoot registers a node ID as a root of the graph. Adding the same
// root twice is a no-op.
func (g *ShapeGraph) AddRoot(id NodeID) {
	for _, r := range g.Roots {
		if r == id {
			return
		}
	}
	g.Roots = append(g.Roots, id)
}

// Lookup returns the node with the given user-assigned name, or nil.
func (g *ShapeGraph) Lookup(name string) *Node {
	id, ok := g.NameIndex[name]
	if !ok {
		return nil
	}
	return g.Nodes[id]
}

// MustLookup returns the node with the given name, or panics.
func (g *ShapeGraph) MustLookup(name string) *Node {
	n := g.Lookup(name)
	if n == nil {
		panic(fmt.Sprintf("graph: no node named %q", name))
	}
	return n
}

// Get returns the node with the given ID, or nil.
func (g *ShapeGraph) Get(id NodeID) *Node {
	return g.Nodes[id]
}

// Polygons returns all polygon leaf nodes in the graph.
func (g *ShapeGraph) Polygons() []*Node {
	var polys []*Node
	for _, n := range g.Nodes {
		if n.Kind == NodePolygon {
			polys = append(polys, n)
		}
	}
	return polys
}

// Shapes returns the nodes to be traced, in root order: every root, each
// named or not.
func (g *ShapeGraph) Shapes() []*Node {
	shapes := make([]*Node, 0, len(g.Roots))
	for _, rid := range g.Roots {
		if n := g.Nodes[rid]; n != nil {
			shapes = append(shapes, n)
		}
	}
	return shapes
}

// Children returns the child nodes of the given node.
func (g *ShapeGraph) Children(n *Node) []*Node {
	children := make([]*Node, 0, len(n.Children))
	for _, cid := range n.Children {
		if c := g.Nodes[cid]; c != nil {
			children = append(children, c)
		}
	}
	return children
}

// NodeCount returns the total number of nodes.
func (g *ShapeGraph) NodeCount() int {
	return len(g.Nodes)
}
