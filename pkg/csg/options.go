package csg

import "math"

// DefaultSnapDistance is the largest gap between the end of one segment and
// the start of the next that loop reconstruction will bridge.
const DefaultSnapDistance = 1.0

// Options controls how a solid's segments are stitched back into loops.
type Options struct {
	// SnapDistance is the joining tolerance. Values that are not positive
	// and finite fall back to DefaultSnapDistance.
	SnapDistance float64

	// Simplify removes duplicate and colinear vertices from emitted loops.
	Simplify bool
}

// DefaultOptions returns the reconstruction settings used by ToLoops.
func DefaultOptions() Options {
	return Options{SnapDistance: DefaultSnapDistance}
}

func (o Options) snap() float64 {
	if !(o.SnapDistance > 0) || math.IsInf(o.SnapDistance, 0) {
		return DefaultSnapDistance
	}
	return o.SnapDistance
}
