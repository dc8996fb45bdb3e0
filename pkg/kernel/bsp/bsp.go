// Package bsp implements the kernel.Kernel interface on top of the BSP tree
// boolean engine in pkg/csg.
package bsp

import (
	"fmt"
	"math"

	"github.com/chazu/csg2d/pkg/csg"
	"github.com/chazu/csg2d/pkg/geom"
	"github.com/chazu/csg2d/pkg/kernel"
)

// Compile-time interface checks.
var (
	_ kernel.Kernel       = (*BSPKernel)(nil)
	_ kernel.Configurable = (*BSPKernel)(nil)
)

// bspSolid wraps a *csg.Solid to implement kernel.Solid.
type bspSolid struct {
	s *csg.Solid
}

// BoundingBox returns the axis-aligned bounding box of the boundary.
func (s *bspSolid) BoundingBox() (min, max geom.Vec2) {
	return s.s.Bounds()
}

// BSPKernel implements kernel.Kernel using pkg/csg.
type BSPKernel struct {
	opts csg.Options
}

// New returns a new BSPKernel with default reconstruction options.
func New() *BSPKernel {
	return &BSPKernel{opts: csg.DefaultOptions()}
}

// SetOptions sets the options used by ToOutline.
func (k *BSPKernel) SetOptions(opts csg.Options) {
	k.opts = opts
}

// unwrap extracts the underlying *csg.Solid from a kernel.Solid.
func unwrap(s kernel.Solid) *csg.Solid {
	return s.(*bspSolid).s
}

// wrap creates a kernel.Solid from a *csg.Solid.
func wrap(s *csg.Solid) kernel.Solid {
	return &bspSolid{s: s}
}

// Polygon builds a region from loops. Every boundary segment carries tag.
func (k *BSPKernel) Polygon(loops []geom.Loop, tag string) (kernel.Solid, error) {
	var shared any
	if tag != "" {
		shared = tag
	}
	s, err := csg.FromTaggedLoops(loops, shared)
	if err != nil {
		return nil, fmt.Errorf("bsp polygon: %w", err)
	}
	return wrap(s), nil
}

// Union returns the union of two regions.
func (k *BSPKernel) Union(a, b kernel.Solid) kernel.Solid {
	return wrap(unwrap(a).Union(unwrap(b)))
}

// Difference returns the difference a - b.
func (k *BSPKernel) Difference(a, b kernel.Solid) kernel.Solid {
	return wrap(unwrap(a).Subtract(unwrap(b)))
}

// Intersection returns the intersection of two regions.
func (k *BSPKernel) Intersection(a, b kernel.Solid) kernel.Solid {
	return wrap(unwrap(a).Intersect(unwrap(b)))
}

// Complement returns the region with solid and empty space swapped.
func (k *BSPKernel) Complement(s kernel.Solid) (kernel.Solid, error) {
	return wrap(unwrap(s).Inverse()), nil
}

// Translate moves a region by (x, y).
func (k *BSPKernel) Translate(s kernel.Solid, x, y float64) kernel.Solid {
	return wrap(unwrap(s).Translate(geom.V2(x, y)))
}

// Rotate rotates a region counter-clockwise by deg degrees about the origin.
func (k *BSPKernel) Rotate(s kernel.Solid, deg float64) kernel.Solid {
	return wrap(unwrap(s).Rotate(deg * math.Pi / 180.0))
}

// Contains reports whether p lies inside the region.
func (k *BSPKernel) Contains(s kernel.Solid, p geom.Vec2) bool {
	return unwrap(s).Contains(p)
}

// ToOutline stitches the region's boundary into loops. Each loop is tagged
// with the tag of the segment it was seeded from.
func (k *BSPKernel) ToOutline(s kernel.Solid) (*kernel.Outline, error) {
	loops, shared := unwrap(s).TaggedLoops(k.opts)

	tags := make([]string, len(shared))
	tagged := false
	for i, t := range shared {
		if str, ok := t.(string); ok {
			tags[i] = str
			tagged = true
		}
	}
	if !tagged {
		tags = nil
	}

	return &kernel.Outline{Loops: loops, Tags: tags}, nil
}
