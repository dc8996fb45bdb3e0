package csg

import (
	"errors"
	"math"
	"testing"

	"github.com/chazu/csg2d/pkg/geom"
)

var (
	triA = geom.Loop{geom.V2(10, 10), geom.V2(100, 10), geom.V2(50, 140)}
	triB = geom.Loop{geom.V2(10, 100), geom.V2(50, 10), geom.V2(100, 100)}
)

func mustSolid(t *testing.T, loops ...geom.Loop) *Solid {
	t.Helper()
	s, err := FromLoops(loops)
	if err != nil {
		t.Fatalf("FromLoops: %v", err)
	}
	return s
}

func square(x0, y0, x1, y1 float64) geom.Loop {
	return geom.Loop{geom.V2(x0, y0), geom.V2(x1, y0), geom.V2(x1, y1), geom.V2(x0, y1)}
}

func near(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func loopAreas(loops []geom.Loop) []float64 {
	out := make([]float64, len(loops))
	for i, l := range loops {
		out[i] = l.SignedArea()
	}
	return out
}

func hasArea(areas []float64, want float64) bool {
	for _, a := range areas {
		if near(a, want, 0.01) {
			return true
		}
	}
	return false
}

// samples returns grid points offset so that none lands on the boundaries
// used in these tests.
func samples() []geom.Vec2 {
	var out []geom.Vec2
	for i := 0; i < 24; i++ {
		for j := 0; j < 24; j++ {
			out = append(out, geom.V2(-8.83+7.31*float64(i), -6.29+7.07*float64(j)))
		}
	}
	return out
}

// --- construction ---

func TestFromLoops(t *testing.T) {
	s := mustSolid(t, triA)
	if s.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", s.Len())
	}
	edges := s.Edges()
	if edges[2].Start != triA[2] || edges[2].End != triA[0] {
		t.Errorf("closing edge = %v -> %v, want %v -> %v", edges[2].Start, edges[2].End, triA[2], triA[0])
	}
	if got := s.Area(); !near(got, 5850, 1e-9) {
		t.Errorf("Area() = %v, want 5850", got)
	}
}

func TestFromLoopsRejectsInvalid(t *testing.T) {
	tests := []struct {
		name      string
		loops     []geom.Loop
		wantLoop  int
		wantIndex int
	}{
		{"too few points", []geom.Loop{triA, {geom.V2(0, 0), geom.V2(1, 1)}}, 1, 2},
		{"nan coordinate", []geom.Loop{{geom.V2(0, 0), geom.V2(math.NaN(), 0), geom.V2(0, 1)}}, 0, 1},
		{"infinite coordinate", []geom.Loop{{geom.V2(0, 0), geom.V2(1, 0), geom.V2(0, math.Inf(1))}}, 0, 2},
		{"coincident points", []geom.Loop{{geom.V2(0, 0), geom.V2(5, 0), geom.V2(5, 0), geom.V2(0, 5)}}, 0, 1},
		{"closing edge collapses", []geom.Loop{{geom.V2(0, 0), geom.V2(5, 0), geom.V2(0, 5), geom.V2(0, 0)}}, 0, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromLoops(tt.loops)
			if !errors.Is(err, ErrInvalidLoop) {
				t.Fatalf("err = %v, want ErrInvalidLoop", err)
			}
			var le *InvalidLoopError
			if !errors.As(err, &le) {
				t.Fatalf("err = %T, want *InvalidLoopError", err)
			}
			if le.Loop != tt.wantLoop || le.Index != tt.wantIndex {
				t.Errorf("loop %d index %d, want loop %d index %d", le.Loop, le.Index, tt.wantLoop, tt.wantIndex)
			}
		})
	}
}

func TestCloneIsDeep(t *testing.T) {
	s := mustSolid(t, triA)
	c := s.Clone()
	c.segments[0].Flip()
	if s.Edges()[0].Start != triA[0] {
		t.Error("mutating a clone changed the original")
	}

	segs := s.Segments()
	segs[1].Flip()
	if s.Edges()[1].Start != triA[1] {
		t.Error("mutating Segments() output changed the solid")
	}
}

// --- boolean operators ---

func TestTwoTriangles(t *testing.T) {
	a := mustSolid(t, triA)
	b := mustSolid(t, triB)

	t.Run("union", func(t *testing.T) {
		loops := a.Union(b).ToLoops()
		if len(loops) != 1 {
			t.Fatalf("got %d loops, want 1", len(loops))
		}
		if got := loops[0].SignedArea(); !near(got, 6997.03, 0.01) {
			t.Errorf("area = %v, want 6997.03", got)
		}
		corners := []geom.Vec2{
			{X: 10, Y: 10}, {X: 100, Y: 10}, {X: 100, Y: 100}, {X: 50, Y: 140}, {X: 10, Y: 100},
			{X: 79.545, Y: 63.182}, {X: 65.385, Y: 100}, {X: 37.692, Y: 100}, {X: 26.364, Y: 63.182},
		}
		for _, c := range corners {
			found := false
			for _, p := range loops[0] {
				if p.ApproxEqual(c, 1e-3) {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("corner %v missing from union loop %v", c, loops[0])
			}
		}
	})

	t.Run("union simplified", func(t *testing.T) {
		loops := a.Union(b).ToLoopsWith(Options{Simplify: true})
		if len(loops) != 1 || len(loops[0]) != 9 {
			t.Fatalf("got %v, want one 9-point loop", loops)
		}
	})

	t.Run("intersect", func(t *testing.T) {
		loops := a.Intersect(b).ToLoops()
		if len(loops) != 1 {
			t.Fatalf("got %d loops, want 1", len(loops))
		}
		if got := loops[0].SignedArea(); !near(got, 2902.97, 0.01) {
			t.Errorf("area = %v, want 2902.97", got)
		}
	})

	t.Run("subtract", func(t *testing.T) {
		loops := a.Subtract(b).ToLoops()
		if len(loops) != 3 {
			t.Fatalf("got %d loops, want 3", len(loops))
		}
		areas := loopAreas(loops)
		for _, want := range []float64{1063.64, 1329.55, 553.85} {
			if !hasArea(areas, want) {
				t.Errorf("no loop with area %v in %v", want, areas)
			}
		}
	})

	t.Run("subtract reversed", func(t *testing.T) {
		loops := b.Subtract(a).ToLoops()
		if len(loops) != 2 {
			t.Fatalf("got %d loops, want 2", len(loops))
		}
		areas := loopAreas(loops)
		for _, want := range []float64{637.24, 509.79} {
			if !hasArea(areas, want) {
				t.Errorf("no loop with area %v in %v", want, areas)
			}
		}
	})

	t.Run("area identity", func(t *testing.T) {
		u := a.Union(b).Area()
		i := a.Intersect(b).Area()
		if !near(u+i, a.Area()+b.Area(), 1e-6) {
			t.Errorf("area(A|B)+area(A&B) = %v, want %v", u+i, a.Area()+b.Area())
		}
		d := a.Subtract(b).Area()
		if !near(d+i, a.Area(), 1e-6) {
			t.Errorf("area(A-B)+area(A&B) = %v, want %v", d+i, a.Area())
		}
	})
}

func TestOverlappingSquares(t *testing.T) {
	a := mustSolid(t, square(0, 0, 100, 100))
	b := mustSolid(t, square(50, 0, 150, 100))

	tests := []struct {
		name  string
		got   *Solid
		area  float64
		loops int
	}{
		{"union", a.Union(b), 15000, 1},
		{"intersect", a.Intersect(b), 5000, 1},
		{"subtract", a.Subtract(b), 5000, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.got.Area(); !near(got, tt.area, 1e-6) {
				t.Errorf("Area() = %v, want %v", got, tt.area)
			}
			loops := tt.got.ToLoops()
			if len(loops) != tt.loops {
				t.Fatalf("got %d loops, want %d", len(loops), tt.loops)
			}
			if got := loops[0].SignedArea(); !near(got, tt.area, 1e-6) {
				t.Errorf("loop area = %v, want %v", got, tt.area)
			}
		})
	}
}

func TestIdenticalSquares(t *testing.T) {
	a := mustSolid(t, square(0, 0, 100, 100))
	b := mustSolid(t, square(0, 0, 100, 100))

	if got := a.Union(b).Area(); !near(got, 10000, 1e-6) {
		t.Errorf("union area = %v, want 10000", got)
	}
	if got := a.Intersect(b).Area(); !near(got, 10000, 1e-6) {
		t.Errorf("intersect area = %v, want 10000", got)
	}
	if d := a.Subtract(b); !d.IsEmpty() {
		t.Errorf("subtract left %d segments, want none", d.Len())
	}
}

func TestSquareWithHole(t *testing.T) {
	outer := mustSolid(t, square(0, 0, 100, 100))
	inner := mustSolid(t, square(25, 25, 75, 75))

	ring := outer.Subtract(inner)
	loops := ring.ToLoops()
	if len(loops) != 2 {
		t.Fatalf("got %d loops, want 2", len(loops))
	}
	areas := loopAreas(loops)
	if !hasArea(areas, 10000) || !hasArea(areas, -2500) {
		t.Errorf("loop areas = %v, want 10000 and -2500", areas)
	}
	if ring.Contains(geom.V2(50, 50)) {
		t.Error("hole center reported inside")
	}
	if !ring.Contains(geom.V2(10, 50)) {
		t.Error("ring point reported outside")
	}
}

func TestDisjointUnion(t *testing.T) {
	a := mustSolid(t, square(0, 0, 10, 10))
	b := mustSolid(t, square(20, 0, 30, 10))
	loops := a.Union(b).ToLoops()
	if len(loops) != 2 {
		t.Fatalf("got %d loops, want 2", len(loops))
	}
	if got := a.Intersect(b); !got.IsEmpty() {
		t.Errorf("disjoint intersect has %d segments, want none", got.Len())
	}
}

func TestEmptyOperands(t *testing.T) {
	a := mustSolid(t, triA)
	empty := New()

	tests := []struct {
		name string
		got  *Solid
		area float64
	}{
		{"a | empty", a.Union(empty), 5850},
		{"empty | a", empty.Union(a), 5850},
		{"a & empty", a.Intersect(empty), 0},
		{"empty & a", empty.Intersect(a), 0},
		{"a - empty", a.Subtract(empty), 5850},
		{"empty - a", empty.Subtract(a), 0},
		{"empty | empty", empty.Union(empty), 0},
		{"a & inverse(empty)", a.Intersect(empty.Inverse()), 5850},
		{"inverse(empty) & a", empty.Inverse().Intersect(a), 5850},
		{"a - inverse(empty)", a.Subtract(empty.Inverse()), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.got.Area(); !near(got, tt.area, 1e-9) {
				t.Errorf("Area() = %v, want %v", got, tt.area)
			}
			if tt.area == 0 && !tt.got.IsEmpty() {
				t.Errorf("got %d segments, want none", tt.got.Len())
			}
		})
	}
}

func TestWholePlane(t *testing.T) {
	a := mustSolid(t, triA)
	full := New().Inverse()

	if !full.IsFull() || full.IsEmpty() {
		t.Fatalf("inverse(empty): IsFull() = %v, IsEmpty() = %v", full.IsFull(), full.IsEmpty())
	}
	if !full.Inverse().IsEmpty() {
		t.Error("inverse(inverse(empty)) should be empty")
	}

	tests := []struct {
		name string
		got  *Solid
		full bool
	}{
		{"full | a", full.Union(a), true},
		{"a | full", a.Union(full), true},
		{"full & full", full.Intersect(full), true},
		{"full & empty", full.Intersect(New()), false},
		{"empty - full", New().Subtract(full), false},
		{"full - empty", full.Subtract(New()), true},
		{"full translated", full.Translate(geom.V2(5, 5)), true},
		{"full clone", full.Clone(), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.got.IsFull(); got != tt.full {
				t.Errorf("IsFull() = %v, want %v", got, tt.full)
			}
			if got := tt.got.Contains(geom.V2(1e6, -1e6)); got != tt.full {
				t.Errorf("Contains(far point) = %v, want %v", got, tt.full)
			}
		})
	}

	// full - a is the complement of a.
	c := full.Subtract(a)
	if c.Contains(geom.V2(50, 50)) || !c.Contains(geom.V2(500, 500)) {
		t.Error("full - a should be the complement of a")
	}
}

// a - b and a & inverse(b) enclose the same points, including for empty b.
func TestSubtractMatchesIntersectInverse(t *testing.T) {
	a := mustSolid(t, triA)
	b := mustSolid(t, triB)

	for _, o := range []struct {
		name string
		s    *Solid
	}{{"b", b}, {"empty", New()}, {"full", New().Inverse()}} {
		t.Run(o.name, func(t *testing.T) {
			d := a.Subtract(o.s)
			i := a.Intersect(o.s.Inverse())
			for x := 1.0; x < 150; x += 7 {
				for y := 1.0; y < 150; y += 7 {
					p := geom.V2(x, y)
					if d.Contains(p) != i.Contains(p) {
						t.Errorf("at %v: subtract=%v intersect-inverse=%v", p, d.Contains(p), i.Contains(p))
					}
				}
			}
		})
	}
}

func TestOperandsUnchanged(t *testing.T) {
	a := mustSolid(t, triA)
	b := mustSolid(t, triB)
	ea, eb := a.Edges(), b.Edges()

	a.Union(b)
	a.Subtract(b)
	b.Subtract(a)
	a.Intersect(b)
	a.Inverse()
	a.Translate(geom.V2(1, 1))

	for i, e := range a.Edges() {
		if e != ea[i] {
			t.Errorf("a edge %d = %+v, want %+v", i, e, ea[i])
		}
	}
	for i, e := range b.Edges() {
		if e != eb[i] {
			t.Errorf("b edge %d = %+v, want %+v", i, e, eb[i])
		}
	}
}

// --- membership properties ---

func TestMembershipMatchesSetAlgebra(t *testing.T) {
	a := mustSolid(t, triA)
	b := mustSolid(t, triB)

	tests := []struct {
		name string
		got  *Solid
		want func(inA, inB bool) bool
	}{
		{"union", a.Union(b), func(x, y bool) bool { return x || y }},
		{"union commuted", b.Union(a), func(x, y bool) bool { return x || y }},
		{"intersect", a.Intersect(b), func(x, y bool) bool { return x && y }},
		{"intersect commuted", b.Intersect(a), func(x, y bool) bool { return x && y }},
		{"subtract", a.Subtract(b), func(x, y bool) bool { return x && !y }},
		{"intersect inverse", a.Intersect(b.Inverse()), func(x, y bool) bool { return x && !y }},
		{"inverse", a.Inverse(), func(x, _ bool) bool { return !x }},
		{"double inverse", a.Inverse().Inverse(), func(x, _ bool) bool { return x }},
		{"inverse of union", a.Union(b).Inverse(), func(x, y bool) bool { return !(x || y) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mismatches := 0
			for _, p := range samples() {
				want := tt.want(triA.Contains(p), triB.Contains(p))
				if tt.got.Contains(p) != want {
					mismatches++
					if mismatches <= 3 {
						t.Errorf("Contains(%v) = %v, want %v", p, !want, want)
					}
				}
			}
			if mismatches > 0 {
				t.Errorf("%d mismatches", mismatches)
			}
		})
	}
}

// --- tags and transforms ---

func TestTagsSurviveOperators(t *testing.T) {
	a, err := FromTaggedLoops([]geom.Loop{triA}, "a")
	if err != nil {
		t.Fatal(err)
	}
	b, err := FromTaggedLoops([]geom.Loop{triB}, "b")
	if err != nil {
		t.Fatal(err)
	}

	tags := a.Union(b).Tags()
	if len(tags) != 2 {
		t.Fatalf("Tags() = %v, want [a b] in some order", tags)
	}
	for _, seg := range a.Subtract(b).Segments() {
		if seg.Shared != "a" && seg.Shared != "b" {
			t.Errorf("segment tag = %v", seg.Shared)
		}
	}

	_, loopTags := a.Subtract(b).TaggedLoops(DefaultOptions())
	if len(loopTags) != 3 {
		t.Errorf("got %d loop tags, want 3", len(loopTags))
	}
}

func TestTransforms(t *testing.T) {
	sq := mustSolid(t, square(0, 0, 10, 10))

	moved := sq.Translate(geom.V2(100, 50))
	if min, max := moved.Bounds(); min != geom.V2(100, 50) || max != geom.V2(110, 60) {
		t.Errorf("translated bounds = %v %v", min, max)
	}
	if !near(moved.Area(), 100, 1e-9) {
		t.Errorf("translated area = %v, want 100", moved.Area())
	}

	rot := sq.Rotate(math.Pi / 2)
	if !near(rot.Area(), 100, 1e-9) {
		t.Errorf("rotated area = %v, want 100", rot.Area())
	}
	if !rot.Contains(geom.V2(-5, 5)) {
		t.Error("rotated square does not contain (-5, 5)")
	}
}

func TestInteriorIsRightOfEveryEdge(t *testing.T) {
	s := mustSolid(t, square(0, 0, 10, 10))
	if s.Area() <= 0 {
		t.Fatalf("Area() = %v, want positive", s.Area())
	}
	center := geom.V2(5, 5)
	for i, seg := range s.Segments() {
		if got := seg.Line.Classify(center); got != geom.Right {
			t.Errorf("edge %d: interior classified %v, want Right", i, got)
		}
	}
}
