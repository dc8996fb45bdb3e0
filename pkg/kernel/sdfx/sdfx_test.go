package sdfx

import (
	"errors"
	"math"
	"testing"

	"github.com/chazu/csg2d/pkg/csg"
	"github.com/chazu/csg2d/pkg/geom"
	"github.com/chazu/csg2d/pkg/kernel"
)

var (
	triA = geom.Loop{{X: 10, Y: 10}, {X: 100, Y: 10}, {X: 50, Y: 140}}
	triB = geom.Loop{{X: 10, Y: 100}, {X: 50, Y: 10}, {X: 100, Y: 100}}
)

func mustPolygon(t *testing.T, k *SdfxKernel, loops ...geom.Loop) kernel.Solid {
	t.Helper()
	s, err := k.Polygon(loops, "")
	if err != nil {
		t.Fatalf("Polygon failed: %v", err)
	}
	return s
}

func TestPolygon(t *testing.T) {
	k := New()
	tri := mustPolygon(t, k, triA)

	if !k.Contains(tri, geom.V2(50, 50)) {
		t.Error("triangle should contain (50, 50)")
	}
	if k.Contains(tri, geom.V2(5, 5)) {
		t.Error("triangle should not contain (5, 5)")
	}
}

func TestPolygonWithHole(t *testing.T) {
	k := New()
	hole := geom.Loop{{X: 25, Y: 25}, {X: 75, Y: 25}, {X: 75, Y: 75}, {X: 25, Y: 75}}.Reverse()
	ring := mustPolygon(t, k, geom.Rect(100, 100), hole)

	tests := []struct {
		name string
		p    geom.Vec2
		want bool
	}{
		{"in ring", geom.V2(10, 50), true},
		{"in hole", geom.V2(50, 50), false},
		{"outside", geom.V2(150, 50), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := k.Contains(ring, tt.p); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestPolygonInvalid(t *testing.T) {
	k := New()
	_, err := k.Polygon([]geom.Loop{{{X: 0, Y: 0}, {X: 1, Y: 1}}}, "")
	if !errors.Is(err, csg.ErrInvalidLoop) {
		t.Errorf("Polygon error = %v, want ErrInvalidLoop", err)
	}
}

func TestBooleans(t *testing.T) {
	k := New()
	a := mustPolygon(t, k, triA)
	b := mustPolygon(t, k, triB)

	// (20, 20) is only in A, (20, 95) only in B, (50, 60) in both,
	// (5, 5) in neither.
	points := []geom.Vec2{{X: 20, Y: 20}, {X: 20, Y: 95}, {X: 50, Y: 60}, {X: 5, Y: 5}}

	tests := []struct {
		name string
		s    kernel.Solid
		want []bool
	}{
		{"union", k.Union(a, b), []bool{true, true, true, false}},
		{"difference", k.Difference(a, b), []bool{true, false, false, false}},
		{"intersection", k.Intersection(a, b), []bool{false, false, true, false}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i, p := range points {
				if got := k.Contains(tt.s, p); got != tt.want[i] {
					t.Errorf("Contains(%v) = %v, want %v", p, got, tt.want[i])
				}
			}
		})
	}
}

func TestComplement(t *testing.T) {
	k := New()
	a := mustPolygon(t, k, triA)
	c, err := k.Complement(a)
	if err != nil {
		t.Fatalf("Complement failed: %v", err)
	}
	if k.Contains(c, geom.V2(50, 50)) {
		t.Error("complement should not contain (50, 50)")
	}
	if !k.Contains(c, geom.V2(500, 500)) {
		t.Error("complement should contain (500, 500)")
	}
	cc, _ := k.Complement(c)
	if !k.Contains(cc, geom.V2(50, 50)) {
		t.Error("double complement should contain (50, 50)")
	}
}

func TestEmptyPolygonSet(t *testing.T) {
	k := New()
	empty := mustPolygon(t, k)
	a := mustPolygon(t, k, triA)

	if k.Contains(empty, geom.V2(0, 0)) {
		t.Error("empty region should contain nothing")
	}
	if !k.Contains(k.Union(a, empty), geom.V2(50, 50)) {
		t.Error("a | empty should contain (50, 50)")
	}
	if k.Contains(k.Intersection(a, empty), geom.V2(50, 50)) {
		t.Error("a & empty should be empty")
	}
}

func TestTranslate(t *testing.T) {
	k := New()
	sq := mustPolygon(t, k, geom.Rect(10, 10))
	translated := k.Translate(sq, 100, 200)

	min, max := translated.BoundingBox()

	const tol = 0.5
	expectMin := geom.V2(100, 200)
	expectMax := geom.V2(110, 210)
	if !min.ApproxEqual(expectMin, tol) {
		t.Errorf("min = %v, expected ~%v", min, expectMin)
	}
	if !max.ApproxEqual(expectMax, tol) {
		t.Errorf("max = %v, expected ~%v", max, expectMax)
	}
	if !k.Contains(translated, geom.V2(105, 205)) {
		t.Error("translated square should contain (105, 205)")
	}
}

func TestRotate(t *testing.T) {
	k := New()
	bar := mustPolygon(t, k, geom.Rect(100, 10))

	// A long bar along X rotated 90 degrees should extend along Y instead.
	rotated := k.Rotate(bar, 90)
	min, max := rotated.BoundingBox()

	xExtent := max.X - min.X
	yExtent := max.Y - min.Y

	const tol = 1.0
	if math.Abs(xExtent-10) > tol {
		t.Errorf("rotated X extent = %f, expected ~10", xExtent)
	}
	if math.Abs(yExtent-100) > tol {
		t.Errorf("rotated Y extent = %f, expected ~100", yExtent)
	}
	if !k.Contains(rotated, geom.V2(-5, 50)) {
		t.Error("rotated bar should contain (-5, 50)")
	}
}

func TestToOutlineUnsupported(t *testing.T) {
	k := New()
	_, err := k.ToOutline(mustPolygon(t, k, triA))
	if !errors.Is(err, kernel.ErrUnsupported) {
		t.Errorf("ToOutline error = %v, want ErrUnsupported", err)
	}
}
