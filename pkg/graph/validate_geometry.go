package graph

import (
	"fmt"
	"math"

	"github.com/chazu/csg2d/pkg/geom"
)

// ---------------------------------------------------------------------------
// Tier 2: geometric validation (errors + warnings)
// ---------------------------------------------------------------------------

// validateGeometry runs all Tier 2 geometric checks.
// Returns errors (blocking) and warnings (advisory) separately.
func validateGeometry(g *ShapeGraph) ([]ValidationError, []ValidationWarning) {
	var errs []ValidationError
	var warnings []ValidationWarning

	loopErrs, loopWarnings := validateLoops(g)
	errs = append(errs, loopErrs...)
	warnings = append(warnings, loopWarnings...)

	transformErrs, transformWarnings := validateTransforms(g)
	errs = append(errs, transformErrs...)
	warnings = append(warnings, transformWarnings...)

	return errs, warnings
}

// validateLoops checks every polygon loop for degenerate geometry. Loops the
// boolean engine would reject are errors; loops it accepts but that are
// likely mistakes are warnings.
func validateLoops(g *ShapeGraph) ([]ValidationError, []ValidationWarning) {
	var errs []ValidationError
	var warnings []ValidationWarning

	for _, node := range g.Nodes {
		pd, ok := node.Data.(PolygonData)
		if !ok {
			continue
		}

		if len(pd.Loops) == 0 {
			warnings = append(warnings, ValidationWarning{
				NodeID:  node.ID,
				Message: "polygon has no loops and is empty",
			})
			continue
		}

		var total float64
		for li, l := range pd.Loops {
			if msg := degenerateLoop(l); msg != "" {
				errs = append(errs, ValidationError{
					NodeID:   node.ID,
					Message:  fmt.Sprintf("loop %d: %s", li, msg),
					Severity: SeverityError,
				})
				continue
			}

			area := l.SignedArea()
			if math.Abs(area) < geom.Epsilon {
				errs = append(errs, ValidationError{
					NodeID:   node.ID,
					Message:  fmt.Sprintf("loop %d has zero area", li),
					Severity: SeverityError,
				})
				continue
			}
			total += area

			if i, j, crossed := selfIntersection(l); crossed {
				warnings = append(warnings, ValidationWarning{
					NodeID:  node.ID,
					Message: fmt.Sprintf("loop %d is self-intersecting (edges %d and %d cross)", li, i, j),
				})
			}
		}

		if total < 0 {
			warnings = append(warnings, ValidationWarning{
				NodeID: node.ID,
				Message: fmt.Sprintf(
					"polygon has negative net area %.4f: loops run clockwise and describe the outside of a region",
					total,
				),
			})
		}
	}

	return errs, warnings
}

// degenerateLoop returns a description of why l cannot bound a region, or
// the empty string.
func degenerateLoop(l geom.Loop) string {
	if len(l) < 3 {
		return fmt.Sprintf("has %d points, need at least 3", len(l))
	}
	for i, p := range l {
		if !p.IsFinite() {
			return fmt.Sprintf("point %d is not finite", i)
		}
	}
	for i, p := range l {
		q := l[(i+1)%len(l)]
		if p.DistanceSquared(q) < geom.Epsilon*geom.Epsilon {
			return fmt.Sprintf("zero-length edge at point %d", i)
		}
	}
	return ""
}

// selfIntersection reports the first pair of non-adjacent edges of l that
// properly cross.
func selfIntersection(l geom.Loop) (int, int, bool) {
	n := len(l)
	for i := 0; i < n; i++ {
		a, b := l[i], l[(i+1)%n]
		for j := i + 2; j < n; j++ {
			if i == 0 && j == n-1 {
				continue // adjacent through the closing edge
			}
			c, d := l[j], l[(j+1)%n]
			if segmentsCross(a, b, c, d) {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}

// segmentsCross reports whether segments ab and cd cross at a single
// interior point. Touching and colinear overlaps do not count.
func segmentsCross(a, b, c, d geom.Vec2) bool {
	d1 := b.Sub(a).Cross(c.Sub(a))
	d2 := b.Sub(a).Cross(d.Sub(a))
	d3 := d.Sub(c).Cross(a.Sub(c))
	d4 := d.Sub(c).Cross(b.Sub(c))
	return opposite(d1, d2) && opposite(d3, d4)
}

func opposite(x, y float64) bool {
	return (x > geom.Epsilon && y < -geom.Epsilon) || (x < -geom.Epsilon && y > geom.Epsilon)
}

// validateTransforms checks that transform parameters are finite and warns
// about transforms that do nothing.
func validateTransforms(g *ShapeGraph) ([]ValidationError, []ValidationWarning) {
	var errs []ValidationError
	var warnings []ValidationWarning

	for _, node := range g.Nodes {
		td, ok := node.Data.(TransformData)
		if !ok {
			continue
		}

		if td.Translation != nil && !td.Translation.IsFinite() {
			errs = append(errs, ValidationError{
				NodeID:   node.ID,
				Message:  fmt.Sprintf("translation %v is not finite", *td.Translation),
				Severity: SeverityError,
			})
		}
		if td.Rotation != nil && (math.IsNaN(*td.Rotation) || math.IsInf(*td.Rotation, 0)) {
			errs = append(errs, ValidationError{
				NodeID:   node.ID,
				Message:  fmt.Sprintf("rotation %v is not finite", *td.Rotation),
				Severity: SeverityError,
			})
		}

		noMove := td.Translation == nil || *td.Translation == (geom.Vec2{})
		noTurn := td.Rotation == nil || *td.Rotation == 0
		if noMove && noTurn {
			warnings = append(warnings, ValidationWarning{
				NodeID:  node.ID,
				Message: "transform has no effect",
			})
		}
	}

	return errs, warnings
}
