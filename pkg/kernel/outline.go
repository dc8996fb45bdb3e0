package kernel

import "github.com/chazu/csg2d/pkg/geom"

// Outline is the boundary of a region as closed loops, suitable for
// rendering. Counter-clockwise loops are outer boundaries, clockwise loops
// are holes.
type Outline struct {
	Loops    []geom.Loop `json:"loops"`
	Tags     []string    `json:"tags,omitempty"` // per loop, when the backend tracks them
	PartName string      `json:"partName"`       // which shape graph part this came from
}

// LoopCount returns the number of loops.
func (o *Outline) LoopCount() int {
	return len(o.Loops)
}

// VertexCount returns the total number of points over all loops.
func (o *Outline) VertexCount() int {
	n := 0
	for _, l := range o.Loops {
		n += len(l)
	}
	return n
}

// Holes returns the number of clockwise loops.
func (o *Outline) Holes() int {
	n := 0
	for _, l := range o.Loops {
		if l.IsHole() {
			n++
		}
	}
	return n
}

// Area returns the net signed area of all loops.
func (o *Outline) Area() float64 {
	var a float64
	for _, l := range o.Loops {
		a += l.SignedArea()
	}
	return a
}

// IsEmpty returns true if the outline has no loops.
func (o *Outline) IsEmpty() bool {
	return len(o.Loops) == 0
}
