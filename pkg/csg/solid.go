// Package csg implements boolean operations on 2D regions using BSP trees.
//
// A Solid is an unordered set of directed boundary segments. The interior of
// the region is on the Right side of each segment's line as reported by
// geom.Line.Classify, whose normal is the direction turned clockwise. Loops
// with positive signed area enclose solid area and loops with negative signed
// area enclose holes. Union, Subtract and Intersect are built from two tree
// primitives: clipping one tree against another removes the segments of the
// first that fall outside the second, and inverting a tree swaps solid and
// empty space.
package csg

import (
	"fmt"
	"math"

	"github.com/chazu/csg2d/pkg/geom"
)

// Solid is a region of the plane described by its boundary segments. Every
// operation returns a new Solid and leaves its operands untouched.
type Solid struct {
	segments []*geom.Segment

	// full marks a Solid without segments as the whole plane rather than
	// the empty region. It is ignored when segments is non-empty.
	full bool
}

// Edge is a read-only view of one boundary segment.
type Edge struct {
	Start geom.Vec2
	End   geom.Vec2
	Tag   any
}

// New returns the empty region.
func New() *Solid {
	return &Solid{}
}

// FromSegments wraps segments in a Solid. The Solid takes ownership of the
// slice and its segments.
func FromSegments(segments []*geom.Segment) *Solid {
	return &Solid{segments: segments}
}

// FromLoops builds a Solid from closed point loops, one segment per edge
// including the closing edge. Loops are validated first; see FromTaggedLoops.
func FromLoops(loops []geom.Loop) (*Solid, error) {
	return FromTaggedLoops(loops, nil)
}

// FromTaggedLoops is like FromLoops but sets the Shared tag of every segment
// to tag. A loop is rejected with an *InvalidLoopError when it has fewer than
// three points, a non-finite coordinate, or two consecutive coincident points.
func FromTaggedLoops(loops []geom.Loop, tag any) (*Solid, error) {
	if err := ValidateLoops(loops); err != nil {
		return nil, err
	}
	var segs []*geom.Segment
	for _, l := range loops {
		for j := range l {
			segs = append(segs, geom.EdgeSegment(l[j], l[(j+1)%len(l)], tag))
		}
	}
	return &Solid{segments: segs}, nil
}

// ValidateLoops checks that every loop can bound a region. It returns an
// *InvalidLoopError for the first offending loop.
func ValidateLoops(loops []geom.Loop) error {
	for i, l := range loops {
		if err := validateLoop(i, l); err != nil {
			return err
		}
	}
	return nil
}

func validateLoop(li int, l geom.Loop) error {
	if len(l) < 3 {
		return &InvalidLoopError{Loop: li, Index: len(l), Reason: fmt.Sprintf("has %d points, need at least 3", len(l))}
	}
	for j, p := range l {
		if !p.IsFinite() {
			return &InvalidLoopError{Loop: li, Index: j, Reason: "non-finite coordinate"}
		}
	}
	for j, p := range l {
		q := l[(j+1)%len(l)]
		if p.DistanceSquared(q) <= geom.Epsilon*geom.Epsilon {
			return &InvalidLoopError{Loop: li, Index: j, Reason: "zero-length edge"}
		}
	}
	return nil
}

// Clone returns a deep copy of s.
func (s *Solid) Clone() *Solid {
	return &Solid{segments: cloneSegments(s.segments), full: s.isFull()}
}

// Len returns the number of boundary segments.
func (s *Solid) Len() int {
	return len(s.segments)
}

// IsEmpty reports whether s is the empty region.
func (s *Solid) IsEmpty() bool {
	return len(s.segments) == 0 && !s.full
}

// IsFull reports whether s is the whole plane, the inverse of the empty
// region.
func (s *Solid) IsFull() bool {
	return s.isFull()
}

func (s *Solid) isFull() bool {
	return len(s.segments) == 0 && s.full
}

// plane returns the whole plane.
func plane() *Solid {
	return &Solid{full: true}
}

// Segments returns copies of the boundary segments.
func (s *Solid) Segments() []*geom.Segment {
	return cloneSegments(s.segments)
}

// Edges returns the boundary as plain values.
func (s *Solid) Edges() []Edge {
	out := make([]Edge, len(s.segments))
	for i, seg := range s.segments {
		out[i] = Edge{Start: seg.Start(), End: seg.End(), Tag: seg.Shared}
	}
	return out
}

// Union returns the region covered by s or o.
func (s *Solid) Union(o *Solid) *Solid {
	if s.isFull() || o.isFull() {
		return plane()
	}
	a := newNode(s.Clone().segments)
	b := newNode(o.Clone().segments)
	a.invert()
	b.clipTo(a)
	b.invert()
	a.clipTo(b)
	b.clipTo(a)
	a.build(b.allSegments())
	a.invert()
	return FromSegments(a.allSegments())
}

// Subtract returns the region covered by s but not by o.
func (s *Solid) Subtract(o *Solid) *Solid {
	switch {
	case o.isFull():
		return New()
	case s.isFull():
		return o.Inverse()
	}
	b := newNode(s.Clone().segments)
	a := newNode(o.Clone().segments)
	a.invert()
	a.clipTo(b)
	b.clipTo(a)
	b.invert()
	b.clipTo(a)
	b.invert()
	a.build(b.allSegments())
	a.invert()
	return FromSegments(flipSegments(a.allSegments()))
}

// Intersect returns the region covered by both s and o.
func (s *Solid) Intersect(o *Solid) *Solid {
	switch {
	case s.isFull():
		return o.Clone()
	case o.isFull():
		return s.Clone()
	}
	a := newNode(s.Clone().segments)
	b := newNode(o.Clone().segments)
	a.clipTo(b)
	b.clipTo(a)
	b.invert()
	b.clipTo(a)
	b.invert()
	a.build(b.allSegments())
	return FromSegments(a.allSegments())
}

// Inverse returns the complement of s: every segment reversed. The inverse
// of the empty region is the whole plane and vice versa.
func (s *Solid) Inverse() *Solid {
	if len(s.segments) == 0 {
		return &Solid{full: !s.full}
	}
	return FromSegments(flipSegments(cloneSegments(s.segments)))
}

// flipSegments reverses every segment in place and returns the slice.
func flipSegments(segments []*geom.Segment) []*geom.Segment {
	for _, seg := range segments {
		seg.Flip()
	}
	return segments
}

// Translate returns s moved by d.
func (s *Solid) Translate(d geom.Vec2) *Solid {
	return s.transform(func(v geom.Vertex) geom.Vertex {
		return geom.Vertex{Pos: v.Pos.Add(d), Normal: v.Normal}
	})
}

// Rotate returns s rotated counter-clockwise by rad radians about the origin.
func (s *Solid) Rotate(rad float64) *Solid {
	return s.transform(func(v geom.Vertex) geom.Vertex {
		return geom.Vertex{Pos: v.Pos.Rotate(rad), Normal: v.Normal.Rotate(rad)}
	})
}

func (s *Solid) transform(f func(geom.Vertex) geom.Vertex) *Solid {
	out := make([]*geom.Segment, len(s.segments))
	for i, seg := range s.segments {
		out[i] = geom.NewSegment(f(seg.Vertices[0]), f(seg.Vertices[1]), seg.Shared)
	}
	return &Solid{segments: out, full: s.isFull()}
}

// Area returns the signed area enclosed by the boundary. Holes count
// negatively; the complement of a bounded region has negative area. The whole
// plane has no boundary and reports zero.
func (s *Solid) Area() float64 {
	var sum float64
	for _, seg := range s.segments {
		sum += seg.Start().Cross(seg.End())
	}
	return sum / 2
}

// Contains reports whether p lies inside the region. Points on the boundary
// may count either way. A region whose boundary winds clockwise around p,
// such as the complement of a bounded shape, contains p when the winding is
// zero.
func (s *Solid) Contains(p geom.Vec2) bool {
	if len(s.segments) == 0 {
		return s.full
	}
	w := s.Winding(p)
	if s.Area() < 0 {
		return w == 0
	}
	return w > 0
}

// Winding returns the winding number of the boundary around p.
func (s *Solid) Winding(p geom.Vec2) int {
	w := 0
	for _, seg := range s.segments {
		a, b := seg.Start(), seg.End()
		side := b.Sub(a).Cross(p.Sub(a))
		if a.Y <= p.Y {
			if b.Y > p.Y && side > 0 {
				w++
			}
		} else if b.Y <= p.Y && side < 0 {
			w--
		}
	}
	return w
}

// Bounds returns the axis-aligned bounding box of the boundary. The empty
// region reports a zero box.
func (s *Solid) Bounds() (min, max geom.Vec2) {
	if len(s.segments) == 0 {
		return geom.Vec2{}, geom.Vec2{}
	}
	min = geom.V2(math.Inf(1), math.Inf(1))
	max = geom.V2(math.Inf(-1), math.Inf(-1))
	for _, seg := range s.segments {
		for _, v := range seg.Vertices {
			min.X = math.Min(min.X, v.Pos.X)
			min.Y = math.Min(min.Y, v.Pos.Y)
			max.X = math.Max(max.X, v.Pos.X)
			max.Y = math.Max(max.Y, v.Pos.Y)
		}
	}
	return min, max
}

// ToLoops stitches the boundary into closed loops using DefaultOptions.
func (s *Solid) ToLoops() []geom.Loop {
	return Reconstruct(s.segments, DefaultOptions())
}

// ToLoopsWith stitches the boundary into closed loops.
func (s *Solid) ToLoopsWith(opts Options) []geom.Loop {
	return Reconstruct(s.segments, opts)
}

// TaggedLoops stitches the boundary into loops and returns the tag of the
// segment each loop started from.
func (s *Solid) TaggedLoops(opts Options) ([]geom.Loop, []any) {
	return ReconstructTagged(s.segments, opts)
}

// Tags returns the distinct non-nil segment tags in order of first
// appearance. Tags must be comparable.
func (s *Solid) Tags() []any {
	var out []any
	seen := make(map[any]bool)
	for _, seg := range s.segments {
		if seg.Shared == nil || seen[seg.Shared] {
			continue
		}
		seen[seg.Shared] = true
		out = append(out, seg.Shared)
	}
	return out
}
