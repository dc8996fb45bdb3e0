package csg

import (
	"github.com/dhconnelly/rtreego"

	"github.com/chazu/csg2d/pkg/geom"
)

// pending is a segment waiting to be linked into a loop, indexed in the
// R-tree by its start point.
type pending struct {
	seg   *geom.Segment
	index int
	used  bool
}

func (p *pending) Bounds() rtreego.Rect {
	return point(p.seg.Start()).ToRect(geom.Epsilon)
}

func point(v geom.Vec2) rtreego.Point {
	return rtreego.Point{v.X, v.Y}
}

// Reconstruct stitches an unordered set of directed segments into closed
// loops. See ReconstructTagged.
func Reconstruct(segments []*geom.Segment, opts Options) []geom.Loop {
	loops, _ := ReconstructTagged(segments, opts)
	return loops
}

// ReconstructTagged stitches segments into loops and also returns, for every
// loop, the Shared tag of the segment that seeded it.
//
// Each loop is seeded with the earliest unused segment. It is extended with
// the unused segment whose start lies nearest the current end, provided that
// distance is below the snap distance; ties go to the earlier segment. A loop
// is finished when it returns to its starting point or no continuation
// exists. Loops with fewer than three points are dropped.
func ReconstructTagged(segments []*geom.Segment, opts Options) ([]geom.Loop, []any) {
	snap := opts.snap()
	snap2 := snap * snap

	items := make([]*pending, len(segments))
	objs := make([]rtreego.Spatial, len(segments))
	for i, s := range segments {
		items[i] = &pending{seg: s, index: i}
		objs[i] = items[i]
	}
	tree := rtreego.NewTree(2, 25, 50, objs...)

	take := func(p *pending) {
		p.used = true
		tree.Delete(p)
	}

	next := func(end geom.Vec2) *pending {
		var best *pending
		bestD := snap2
		for _, obj := range tree.SearchIntersect(point(end).ToRect(snap)) {
			c := obj.(*pending)
			d := c.seg.Start().DistanceSquared(end)
			if d >= snap2 {
				continue
			}
			if best == nil || d < bestD || (d == bestD && c.index < best.index) {
				best, bestD = c, d
			}
		}
		return best
	}

	var loops []geom.Loop
	var tags []any
	for _, seed := range items {
		if seed.used {
			continue
		}
		take(seed)

		pts := geom.Loop{seed.seg.Start(), seed.seg.End()}
		start := pts[0]
		for {
			c := next(pts[len(pts)-1])
			if c == nil {
				break
			}
			take(c)
			pts = append(pts, c.seg.End())
			if len(pts) >= 4 && pts[len(pts)-1].DistanceSquared(start) < snap2 {
				break
			}
		}
		if len(pts) > 1 && pts[len(pts)-1].DistanceSquared(start) < snap2 {
			pts = pts[:len(pts)-1]
		}

		if opts.Simplify {
			pts = pts.Simplify(geom.Epsilon)
		}
		if len(pts) < 3 {
			continue
		}
		loops = append(loops, pts)
		tags = append(tags, seed.seg.Shared)
	}
	return loops, tags
}
