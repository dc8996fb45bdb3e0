// Package kernel defines the abstract 2D geometry kernel interface.
// Implementations (bsp, sdfx, polyclip) provide polygon regions and
// boolean operations behind this interface. The kernel abstraction
// allows swapping backends without changing the rest of the system.
package kernel

import (
	"errors"

	"github.com/chazu/csg2d/pkg/csg"
	"github.com/chazu/csg2d/pkg/geom"
)

// ErrUnsupported is returned (wrapped) when a backend lacks a capability,
// such as outline extraction from an implicit representation.
var ErrUnsupported = errors.New("kernel: operation not supported")

// Solid is an opaque handle to a kernel region.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max geom.Vec2)
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Primitives. Counter-clockwise loops bound solid area, clockwise
	// loops bound holes. The tag travels with the boundary where the
	// backend supports it.
	Polygon(loops []geom.Loop, tag string) (Solid, error)

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid
	Complement(s Solid) (Solid, error)

	// Transforms
	Translate(s Solid, x, y float64) Solid
	Rotate(s Solid, deg float64) Solid // counter-clockwise about the origin

	// Queries
	Contains(s Solid, p geom.Vec2) bool

	// Outline output
	ToOutline(s Solid) (*Outline, error)
}

// Configurable is implemented by kernels whose outline extraction can be
// tuned.
type Configurable interface {
	SetOptions(opts csg.Options)
}
