package graph

import "github.com/chazu/csg2d/pkg/geom"

// ---------------------------------------------------------------------------
// Polygon
// ---------------------------------------------------------------------------

// PolygonData is a region bounded by one or more closed loops.
// Counter-clockwise loops enclose area, clockwise loops are holes.
type PolygonData struct {
	Loops []geom.Loop `json:"loops"`
	Tag   string      `json:"tag,omitempty"` // carried onto every edge of the region
}

func (PolygonData) nodeData() {}

// ---------------------------------------------------------------------------
// Boolean
// ---------------------------------------------------------------------------

// BooleanOp selects the set operation of a boolean node.
type BooleanOp int

const (
	OpUnion BooleanOp = iota
	OpSubtract
	OpIntersect
)

func (op BooleanOp) String() string {
	switch op {
	case OpUnion:
		return "union"
	case OpSubtract:
		return "subtract"
	case OpIntersect:
		return "intersect"
	default:
		return "unknown"
	}
}

// BooleanData combines the node's children left to right:
// ((c0 op c1) op c2) ...
type BooleanData struct {
	Op BooleanOp `json:"op"`
}

func (BooleanData) nodeData() {}

// ---------------------------------------------------------------------------
// Inverse
// ---------------------------------------------------------------------------

// InverseData swaps the inside and outside of its single child.
type InverseData struct{}

func (InverseData) nodeData() {}

// ---------------------------------------------------------------------------
// Transform
// ---------------------------------------------------------------------------

// TransformData represents a rigid motion applied to a child node.
// Rotation is applied about the origin before translation.
type TransformData struct {
	Translation *geom.Vec2 `json:"translation,omitempty"`
	Rotation    *float64   `json:"rotation,omitempty"` // degrees, counter-clockwise
}

func (TransformData) nodeData() {}

// ---------------------------------------------------------------------------
// Group
// ---------------------------------------------------------------------------

// GroupData represents a logical collection of shapes.
// Created by the (group ...) Lisp form.
type GroupData struct {
	Description string `json:"description,omitempty"`
}

func (GroupData) nodeData() {}
