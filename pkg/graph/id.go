package graph

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// NodeID identifies a node. It is derived from the node's path in the
// source (for example "defshape/plate") so that re-evaluating unchanged
// source yields the same IDs.
type NodeID [32]byte

// ZeroID is the zero NodeID, used where no node is referenced.
var ZeroID NodeID

// NewNodeID hashes a source path into a NodeID.
func NewNodeID(path string) NodeID {
	return NodeID(sha256.Sum256([]byte(path)))
}

// IsZero reports whether id is the zero NodeID.
func (id NodeID) IsZero() bool {
	return id == ZeroID
}

// String returns the full hex encoding.
func (id NodeID) String() string {
	return hex.EncodeToString(id[:])
}

// Short returns the first 6 bytes as hex, for messages.
func (id NodeID) Short() string {
	return hex.EncodeToString(id[:6])
}

// MarshalText lets NodeID be used as a JSON map key.
func (id NodeID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText parses a hex encoded NodeID.
func (id *NodeID) UnmarshalText(b []byte) error {
	if hex.DecodedLen(len(b)) != len(id) {
		return fmt.Errorf("node id: want %d hex chars, got %d", 2*len(id), len(b))
	}
	_, err := hex.Decode(id[:], b)
	return err
}

// ContentHash fingerprints a node's geometry: its kind, its data and the
// content hashes of its children. Two nodes with equal content hashes
// describe the same region regardless of where they appear in the source.
type ContentHash [32]byte

// IsZero reports whether h has not been computed.
func (h ContentHash) IsZero() bool {
	return h == ContentHash{}
}

// Short returns the first 6 bytes as hex.
func (h ContentHash) Short() string {
	return hex.EncodeToString(h[:6])
}

// HashContent computes the content hash of a node with the given kind,
// data and children. Children must already be in g with their own
// content hashes set.
func (g *ShapeGraph) HashContent(kind NodeKind, data NodeData, children []NodeID) (ContentHash, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return ContentHash{}, fmt.Errorf("hash %s data: %w", kind, err)
	}

	h := sha256.New()
	fmt.Fprintf(h, "%s\x00", kind)
	h.Write(payload)
	for _, cid := range children {
		c := g.Nodes[cid]
		if c == nil {
			return ContentHash{}, fmt.Errorf("hash %s: child %s not in graph", kind, cid.Short())
		}
		h.Write(c.ContentHash[:])
	}

	var out ContentHash
	copy(out[:], h.Sum(nil))
	return out, nil
}

// SourceRef locates the form that produced a node.
type SourceRef struct {
	Line int    `json:"line,omitempty"`
	Col  int    `json:"col,omitempty"`
	Form string `json:"form,omitempty"` // builtin name, e.g. "polygon"
}
