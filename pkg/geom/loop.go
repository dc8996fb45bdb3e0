package geom

import "math"

// Loop is a closed polygon contour. The last point implicitly connects back
// to the first. Counter-clockwise loops (positive signed area) bound solid
// regions; clockwise loops bound holes.
type Loop []Vec2

// SignedArea returns the shoelace area of the loop.
func (l Loop) SignedArea() float64 {
	var sum float64
	for i := range l {
		j := (i + 1) % len(l)
		sum += l[i].Cross(l[j])
	}
	return sum / 2
}

// IsHole reports whether the loop winds clockwise.
func (l Loop) IsHole() bool {
	return l.SignedArea() < 0
}

// Winding returns the winding number of the loop around p. Points exactly on
// the boundary may count either way.
func (l Loop) Winding(p Vec2) int {
	w := 0
	for i := range l {
		a := l[i]
		b := l[(i+1)%len(l)]
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

// Contains reports whether p lies inside the loop, regardless of its winding.
func (l Loop) Contains(p Vec2) bool {
	return l.Winding(p) != 0
}

// Reverse returns the loop with its point order reversed.
func (l Loop) Reverse() Loop {
	out := make(Loop, len(l))
	for i, p := range l {
		out[len(l)-1-i] = p
	}
	return out
}

// Bounds returns the axis-aligned bounding box of the loop.
func (l Loop) Bounds() (min, max Vec2) {
	if len(l) == 0 {
		return Vec2{}, Vec2{}
	}
	min, max = l[0], l[0]
	for _, p := range l[1:] {
		min.X = math.Min(min.X, p.X)
		min.Y = math.Min(min.Y, p.Y)
		max.X = math.Max(max.X, p.X)
		max.Y = math.Max(max.Y, p.Y)
	}
	return min, max
}

// Simplify removes repeated points and points lying within eps of the line
// through their neighbours. It returns nil if fewer than three points remain.
func (l Loop) Simplify(eps float64) Loop {
	out := make(Loop, 0, len(l))
	for _, p := range l {
		if len(out) > 0 && out[len(out)-1].DistanceSquared(p) <= eps*eps {
			continue
		}
		out = append(out, p)
	}
	if len(out) > 1 && out[0].DistanceSquared(out[len(out)-1]) <= eps*eps {
		out = out[:len(out)-1]
	}

	for changed := true; changed && len(out) >= 3; {
		changed = false
		for i := 0; i < len(out) && len(out) >= 3; i++ {
			prev := out[(i+len(out)-1)%len(out)]
			next := out[(i+1)%len(out)]
			span := next.Sub(prev)
			if span.LengthSquared() == 0 {
				continue
			}
			// distance of out[i] from the chord prev -> next
			if math.Abs(span.Cross(out[i].Sub(prev)))/span.Length() <= eps {
				out = append(out[:i], out[i+1:]...)
				changed = true
				i--
			}
		}
	}
	if len(out) < 3 {
		return nil
	}
	return out
}

// Winding returns the total winding number of a set of loops around p.
func Winding(loops []Loop, p Vec2) int {
	w := 0
	for _, l := range loops {
		w += l.Winding(p)
	}
	return w
}

// Rect returns the counter-clockwise w x h rectangle with its minimum
// corner at the origin.
func Rect(w, h float64) Loop {
	return Loop{{0, 0}, {w, 0}, {w, h}, {0, h}}
}

// RegularPolygon returns a counter-clockwise regular polygon with the given
// circumradius, centered on the origin, with its first vertex on the +X axis.
func RegularPolygon(radius float64, sides int) Loop {
	l := make(Loop, sides)
	for i := range l {
		l[i] = Vec2{radius, 0}.Rotate(2 * math.Pi * float64(i) / float64(sides))
	}
	return l
}
