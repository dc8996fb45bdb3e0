package geom

// Epsilon is the tolerance used to classify a point as lying on a line.
// Classification and splitting must share it so that a segment whose two
// endpoints are both On is never treated as spanning.
const Epsilon = 1e-5

// Side is the classification of a point against an oriented line.
type Side int

const (
	On    Side = 0
	Right Side = 1
	Left  Side = 2

	// spanning is the bitwise union of Right and Left; it only describes
	// segments, never points.
	spanning = Right | Left
)

func (s Side) String() string {
	switch s {
	case On:
		return "on"
	case Right:
		return "right"
	case Left:
		return "left"
	case spanning:
		return "spanning"
	default:
		return "unknown"
	}
}

// Line is an infinite oriented line splitting the plane into two half-planes.
// Normal is Direction rotated a quarter turn clockwise; points with a negative
// signed distance along Normal lie on the Right.
type Line struct {
	Origin    Vec2
	Direction Vec2 // unit length
	Normal    Vec2
}

// LineFromPoints returns the line through a and b, oriented from a to b.
func LineFromPoints(a, b Vec2) Line {
	dir := b.Sub(a).Normalize()
	return Line{
		Origin:    a,
		Direction: dir,
		Normal:    Vec2{dir.Y, -dir.X},
	}
}

// Flip reverses the orientation of the line in place, swapping its half-planes.
func (l *Line) Flip() {
	l.Direction = l.Direction.Neg()
	l.Normal = l.Normal.Neg()
}

// SignedDistance returns the distance from p to the line along Normal.
func (l Line) SignedDistance(p Vec2) float64 {
	return l.Normal.Dot(p.Sub(l.Origin))
}

// Classify reports which side of the line p falls on.
func (l Line) Classify(p Vec2) Side {
	d := l.SignedDistance(p)
	switch {
	case d < -Epsilon:
		return Right
	case d > Epsilon:
		return Left
	default:
		return On
	}
}

// Split holds the outcome of splitting a segment against a line. At most one
// of the colinear fields is set, and then neither fragment field is.
type Split struct {
	ColinearRight *Segment // on the line, same direction
	ColinearLeft  *Segment // on the line, opposite direction
	Right         *Segment
	Left          *Segment
}

// SplitSegment classifies s against the line, cutting it in two when its
// endpoints fall strictly on opposite sides. Segments that are not cut are
// returned as is; fragments are new segments inheriting s.Shared.
func (l Line) SplitSegment(s *Segment) Split {
	var out Split

	t0 := l.Classify(s.Vertices[0].Pos)
	t1 := l.Classify(s.Vertices[1].Pos)

	switch t0 | t1 {
	case On:
		if s.Line.Direction.Dot(l.Direction) >= 0 {
			out.ColinearRight = s
		} else {
			out.ColinearLeft = s
		}
	case Right:
		out.Right = s
	case Left:
		out.Left = s
	case spanning:
		v0, v1 := s.Vertices[0], s.Vertices[1]
		t := l.Normal.Dot(l.Origin.Sub(v0.Pos)) / l.Normal.Dot(v1.Pos.Sub(v0.Pos))
		mid := v0.Interpolate(v1, t)

		first := newFragment(v0, mid, s.Shared)
		second := newFragment(mid, v1, s.Shared)
		if t0 == Right {
			out.Right, out.Left = first, second
		} else {
			out.Left, out.Right = first, second
		}
	}
	return out
}

// newFragment builds a split fragment, or returns nil when the fragment is
// too short to carry a direction.
func newFragment(a, b Vertex, shared any) *Segment {
	if a.Pos.DistanceSquared(b.Pos) <= Epsilon*Epsilon {
		return nil
	}
	return NewSegment(a, b, shared)
}
