// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx 2D signed distance functions. Regions are implicit,
// so point membership is exact but outlines cannot be extracted; the kernel
// serves as an independent membership oracle for the BSP engine.
package sdfx

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"

	"github.com/chazu/csg2d/pkg/csg"
	"github.com/chazu/csg2d/pkg/geom"
	"github.com/chazu/csg2d/pkg/kernel"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// sdfxSolid wraps an sdf.SDF2 to implement kernel.Solid.
type sdfxSolid struct {
	s sdf.SDF2
}

// BoundingBox returns the axis-aligned bounding box. For complemented
// regions this is the box of the boundary, not of the (unbounded) region.
func (s *sdfxSolid) BoundingBox() (min, max geom.Vec2) {
	bb := s.s.BoundingBox()
	return geom.V2(bb.Min.X, bb.Min.Y), geom.V2(bb.Max.X, bb.Max.Y)
}

// emptySDF2 contains no points.
type emptySDF2 struct{}

func (emptySDF2) Evaluate(p v2.Vec) float64 { return math.Inf(1) }
func (emptySDF2) BoundingBox() sdf.Box2     { return sdf.Box2{} }

// complementSDF2 swaps the inside and outside of another SDF2.
type complementSDF2 struct {
	s sdf.SDF2
}

func (c complementSDF2) Evaluate(p v2.Vec) float64 { return -c.s.Evaluate(p) }
func (c complementSDF2) BoundingBox() sdf.Box2     { return c.s.BoundingBox() }

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct{}

// New returns a new SdfxKernel.
func New() *SdfxKernel {
	return &SdfxKernel{}
}

// unwrap extracts the underlying sdf.SDF2 from a kernel.Solid.
func unwrap(s kernel.Solid) sdf.SDF2 {
	return s.(*sdfxSolid).s
}

// wrap creates a kernel.Solid from an sdf.SDF2.
func wrap(s sdf.SDF2) kernel.Solid {
	return &sdfxSolid{s: s}
}

// Polygon builds a region from loops. Counter-clockwise loops are unioned
// and clockwise loops are subtracted from the result. The tag is ignored.
func (k *SdfxKernel) Polygon(loops []geom.Loop, _ string) (kernel.Solid, error) {
	if err := csg.ValidateLoops(loops); err != nil {
		return nil, fmt.Errorf("sdfx polygon: %w", err)
	}

	var outers, holes []sdf.SDF2
	for i, l := range loops {
		hole := l.IsHole()
		if hole {
			// Polygon2D is fed counter-clockwise vertices throughout.
			l = l.Reverse()
		}
		vs := make([]v2.Vec, len(l))
		for j, p := range l {
			vs[j] = v2.Vec{X: p.X, Y: p.Y}
		}
		s, err := sdf.Polygon2D(vs)
		if err != nil {
			return nil, fmt.Errorf("sdfx.Polygon2D loop %d: %w", i, err)
		}
		if hole {
			holes = append(holes, s)
		} else {
			outers = append(outers, s)
		}
	}

	region := union(outers)
	if len(holes) > 0 {
		region = sdf.Difference2D(region, union(holes))
	}
	return wrap(region), nil
}

func union(ss []sdf.SDF2) sdf.SDF2 {
	switch len(ss) {
	case 0:
		return emptySDF2{}
	case 1:
		return ss[0]
	default:
		return sdf.Union2D(ss...)
	}
}

// Union returns the union of two regions.
func (k *SdfxKernel) Union(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Union2D(unwrap(a), unwrap(b)))
}

// Difference returns the difference a - b.
func (k *SdfxKernel) Difference(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Difference2D(unwrap(a), unwrap(b)))
}

// Intersection returns the intersection of two regions.
func (k *SdfxKernel) Intersection(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Intersect2D(unwrap(a), unwrap(b)))
}

// Complement returns the region with inside and outside swapped.
func (k *SdfxKernel) Complement(s kernel.Solid) (kernel.Solid, error) {
	if c, ok := unwrap(s).(complementSDF2); ok {
		return wrap(c.s), nil
	}
	return wrap(complementSDF2{s: unwrap(s)}), nil
}

// Translate moves a region by (x, y).
func (k *SdfxKernel) Translate(s kernel.Solid, x, y float64) kernel.Solid {
	m := sdf.Translate2d(v2.Vec{X: x, Y: y})
	return wrap(sdf.Transform2D(unwrap(s), m))
}

// Rotate rotates a region counter-clockwise by deg degrees about the origin.
func (k *SdfxKernel) Rotate(s kernel.Solid, deg float64) kernel.Solid {
	m := sdf.Rotate2d(deg * math.Pi / 180.0)
	return wrap(sdf.Transform2D(unwrap(s), m))
}

// Contains reports whether the distance field is negative at p.
func (k *SdfxKernel) Contains(s kernel.Solid, p geom.Vec2) bool {
	return k.Distance(s, p) < 0
}

// Distance returns the signed distance from p to the region's boundary,
// negative inside.
func (k *SdfxKernel) Distance(s kernel.Solid, p geom.Vec2) float64 {
	return unwrap(s).Evaluate(v2.Vec{X: p.X, Y: p.Y})
}

// ToOutline is not available for implicit regions.
func (k *SdfxKernel) ToOutline(_ kernel.Solid) (*kernel.Outline, error) {
	return nil, fmt.Errorf("sdfx outline: %w", kernel.ErrUnsupported)
}
