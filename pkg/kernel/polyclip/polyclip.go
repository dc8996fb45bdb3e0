// Package polyclip implements the kernel.Kernel interface using the
// github.com/akavel/polyclip-go sweep-line clipper. It is used to
// cross-check the BSP engine's areas and outlines.
package polyclip

import (
	"fmt"
	"math"

	polyclip "github.com/akavel/polyclip-go"

	"github.com/chazu/csg2d/pkg/csg"
	"github.com/chazu/csg2d/pkg/geom"
	"github.com/chazu/csg2d/pkg/kernel"
)

// Compile-time interface check.
var _ kernel.Kernel = (*PolyclipKernel)(nil)

// polySolid wraps a polyclip.Polygon to implement kernel.Solid. Contours
// combine with the even-odd rule.
type polySolid struct {
	p polyclip.Polygon
}

// BoundingBox returns the axis-aligned bounding box of all contours.
func (s *polySolid) BoundingBox() (min, max geom.Vec2) {
	if len(s.p) == 0 {
		return geom.Vec2{}, geom.Vec2{}
	}
	min = geom.V2(math.Inf(1), math.Inf(1))
	max = geom.V2(math.Inf(-1), math.Inf(-1))
	for _, c := range s.p {
		for _, pt := range c {
			min.X = math.Min(min.X, pt.X)
			min.Y = math.Min(min.Y, pt.Y)
			max.X = math.Max(max.X, pt.X)
			max.Y = math.Max(max.Y, pt.Y)
		}
	}
	return min, max
}

// PolyclipKernel implements kernel.Kernel using polyclip-go.
type PolyclipKernel struct{}

// New returns a new PolyclipKernel.
func New() *PolyclipKernel {
	return &PolyclipKernel{}
}

// unwrap extracts the underlying polyclip.Polygon from a kernel.Solid.
func unwrap(s kernel.Solid) polyclip.Polygon {
	return s.(*polySolid).p
}

// wrap creates a kernel.Solid from a polyclip.Polygon.
func wrap(p polyclip.Polygon) kernel.Solid {
	return &polySolid{p: p}
}

// Polygon builds a region from loops. The tag is ignored.
func (k *PolyclipKernel) Polygon(loops []geom.Loop, _ string) (kernel.Solid, error) {
	if err := csg.ValidateLoops(loops); err != nil {
		return nil, fmt.Errorf("polyclip polygon: %w", err)
	}
	p := make(polyclip.Polygon, len(loops))
	for i, l := range loops {
		c := make(polyclip.Contour, len(l))
		for j, pt := range l {
			c[j] = polyclip.Point{X: pt.X, Y: pt.Y}
		}
		p[i] = c
	}
	return wrap(p), nil
}

func (k *PolyclipKernel) construct(op polyclip.Op, a, b kernel.Solid) kernel.Solid {
	pa, pb := unwrap(a), unwrap(b)
	switch {
	case len(pa) == 0:
		if op == polyclip.UNION {
			return wrap(pb)
		}
		return wrap(nil)
	case len(pb) == 0:
		if op == polyclip.INTERSECTION {
			return wrap(nil)
		}
		return wrap(pa)
	}
	return wrap(pa.Construct(op, pb))
}

// Union returns the union of two regions.
func (k *PolyclipKernel) Union(a, b kernel.Solid) kernel.Solid {
	return k.construct(polyclip.UNION, a, b)
}

// Difference returns the difference a - b.
func (k *PolyclipKernel) Difference(a, b kernel.Solid) kernel.Solid {
	return k.construct(polyclip.DIFFERENCE, a, b)
}

// Intersection returns the intersection of two regions.
func (k *PolyclipKernel) Intersection(a, b kernel.Solid) kernel.Solid {
	return k.construct(polyclip.INTERSECTION, a, b)
}

// Complement is not available: polyclip only represents bounded regions.
func (k *PolyclipKernel) Complement(_ kernel.Solid) (kernel.Solid, error) {
	return nil, fmt.Errorf("polyclip complement: %w", kernel.ErrUnsupported)
}

func (k *PolyclipKernel) mapPoints(s kernel.Solid, f func(geom.Vec2) geom.Vec2) kernel.Solid {
	src := unwrap(s)
	out := make(polyclip.Polygon, len(src))
	for i, c := range src {
		oc := make(polyclip.Contour, len(c))
		for j, pt := range c {
			v := f(geom.V2(pt.X, pt.Y))
			oc[j] = polyclip.Point{X: v.X, Y: v.Y}
		}
		out[i] = oc
	}
	return wrap(out)
}

// Translate moves a region by (x, y).
func (k *PolyclipKernel) Translate(s kernel.Solid, x, y float64) kernel.Solid {
	d := geom.V2(x, y)
	return k.mapPoints(s, func(v geom.Vec2) geom.Vec2 { return v.Add(d) })
}

// Rotate rotates a region counter-clockwise by deg degrees about the origin.
func (k *PolyclipKernel) Rotate(s kernel.Solid, deg float64) kernel.Solid {
	rad := deg * math.Pi / 180.0
	return k.mapPoints(s, func(v geom.Vec2) geom.Vec2 { return v.Rotate(rad) })
}

// Contains applies the even-odd rule over all contours.
func (k *PolyclipKernel) Contains(s kernel.Solid, p geom.Vec2) bool {
	inside := false
	for _, l := range loops(unwrap(s)) {
		if l.Contains(p) {
			inside = !inside
		}
	}
	return inside
}

// ToOutline returns the contours as loops, oriented so that outer
// boundaries run counter-clockwise and holes clockwise.
func (k *PolyclipKernel) ToOutline(s kernel.Solid) (*kernel.Outline, error) {
	ls := loops(unwrap(s))
	for i, l := range ls {
		probe := l[0].Lerp(l[1], 0.5)
		depth := 0
		for j, other := range ls {
			if j != i && other.Contains(probe) {
				depth++
			}
		}
		hole := depth%2 == 1
		if hole != l.IsHole() {
			ls[i] = l.Reverse()
		}
	}
	return &kernel.Outline{Loops: ls}, nil
}

// loops converts contours to loops, skipping degenerate ones.
func loops(p polyclip.Polygon) []geom.Loop {
	out := make([]geom.Loop, 0, len(p))
	for _, c := range p {
		if len(c) < 3 {
			continue
		}
		l := make(geom.Loop, len(c))
		for i, pt := range c {
			l[i] = geom.V2(pt.X, pt.Y)
		}
		out = append(out, l)
	}
	return out
}
