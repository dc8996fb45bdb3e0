package geom

// Vertex is a segment endpoint. Normal is an orientation-sensitive attribute:
// it is negated when the owning segment is flipped and interpolated when the
// segment is split. The engine never reads it.
type Vertex struct {
	Pos    Vec2
	Normal Vec2
}

// Flip returns the vertex with its orientation attribute reversed.
func (v Vertex) Flip() Vertex {
	return Vertex{Pos: v.Pos, Normal: v.Normal.Neg()}
}

// Interpolate returns the vertex at parameter t between v and o, blending
// every attribute.
func (v Vertex) Interpolate(o Vertex, t float64) Vertex {
	return Vertex{
		Pos:    v.Pos.Lerp(o.Pos, t),
		Normal: v.Normal.Lerp(o.Normal, t),
	}
}

// Segment is one directed boundary edge. Line is always derived from the two
// vertex positions; Shared is an opaque caller tag carried through clone,
// split and flip unchanged.
type Segment struct {
	Vertices [2]Vertex
	Shared   any
	Line     Line
}

// NewSegment returns the directed edge a -> b.
func NewSegment(a, b Vertex, shared any) *Segment {
	return &Segment{
		Vertices: [2]Vertex{a, b},
		Shared:   shared,
		Line:     LineFromPoints(a.Pos, b.Pos),
	}
}

// EdgeSegment returns the edge a -> b with vertex normals set to the edge's
// own line normal.
func EdgeSegment(a, b Vec2, shared any) *Segment {
	l := LineFromPoints(a, b)
	return &Segment{
		Vertices: [2]Vertex{{Pos: a, Normal: l.Normal}, {Pos: b, Normal: l.Normal}},
		Shared:   shared,
		Line:     l,
	}
}

// Clone returns an independent copy of s.
func (s *Segment) Clone() *Segment {
	c := *s
	return &c
}

// Flip reverses the edge direction in place.
func (s *Segment) Flip() {
	s.Vertices[0], s.Vertices[1] = s.Vertices[1].Flip(), s.Vertices[0].Flip()
	s.Line = LineFromPoints(s.Vertices[0].Pos, s.Vertices[1].Pos)
}

func (s *Segment) Start() Vec2 { return s.Vertices[0].Pos }
func (s *Segment) End() Vec2   { return s.Vertices[1].Pos }

func (s *Segment) Length() float64 {
	return s.End().Sub(s.Start()).Length()
}
