package graph

// NodeKind enumerates the types of nodes in the shape graph.
type NodeKind int

const (
	NodePolygon   NodeKind = iota // leaf region bounded by loops
	NodeBoolean                   // union, subtract or intersect of children
	NodeInverse                   // complement of a single child
	NodeTransform                 // rotation then translation of a single child
	NodeGroup                     // logical grouping, traced as the union of children
)

func (k NodeKind) String() string {
	switch k {
	case NodePolygon:
		return "polygon"
	case NodeBoolean:
		return "boolean"
	case NodeInverse:
		return "inverse"
	case NodeTransform:
		return "transform"
	case NodeGroup:
		return "group"
	default:
		return "unknown"
	}
}

// Node is the fundamental element of the shape graph.
type Node struct {
	ID          NodeID      `json:"id"`
	Kind        NodeKind    `json:"kind"`
	Name        string      `json:"name,omitempty"`
	Source      SourceRef   `json:"source"`
	ContentHash ContentHash `json:"content_hash"`
	Children    []NodeID    `json:"children,omitempty"`
	Data        NodeData    `json:"data"`
}

// NodeData is the interface for kind-specific node payloads.
type NodeData interface {
	nodeData() // marker method restricting implementations to this package
}

// DisplayName returns the node's name, or its short ID when unnamed.
func (n *Node) DisplayName() string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID.Short()
}
