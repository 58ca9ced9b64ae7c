package sky

import (
	"errors"
	"math"
	"testing"
)

func TestNewPoint_WrapsAndValidates(t *testing.T) {
	p, err := NewPoint(-math.Pi/2, 0.3)
	if err != nil {
		t.Fatalf("NewPoint err: %v", err)
	}
	if math.Abs(p.Lon-3*math.Pi/2) > 1e-15 {
		t.Fatalf("lon not wrapped: got %g", p.Lon)
	}

	if _, err := NewPoint(0, 1.6); !errors.Is(err, ErrRange) {
		t.Fatalf("expected ErrRange for lat > pi/2, got %v", err)
	}
	if _, err := NewPoint(math.NaN(), 0); !errors.Is(err, ErrRange) {
		t.Fatalf("expected ErrRange for NaN lon, got %v", err)
	}
}

func TestWrapLon(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{0, 0},
		{TwoPi, 0},
		{-0.5, TwoPi - 0.5},
		{TwoPi + 1, 1},
		{3 * TwoPi, 0},
	}
	for _, c := range cases {
		if got := WrapLon(c.in); math.Abs(got-c.want) > 1e-12 {
			t.Fatalf("WrapLon(%g) = %g, want %g", c.in, got, c.want)
		}
	}
}

func TestDist(t *testing.T) {
	a := Point{Lon: 0, Lat: 0}
	b := Point{Lon: math.Pi / 2, Lat: 0}
	if d := a.Dist(b); math.Abs(d-math.Pi/2) > 1e-12 {
		t.Fatalf("quarter turn: got %g", d)
	}
	np := Point{Lon: 1.2, Lat: HalfPi}
	sp := Point{Lon: 4.5, Lat: -HalfPi}
	if d := np.Dist(sp); math.Abs(d-math.Pi) > 1e-12 {
		t.Fatalf("pole to pole: got %g", d)
	}
	if d := a.Dist(a); d != 0 {
		t.Fatalf("self distance: got %g", d)
	}
	// small separation stays accurate
	c := Point{Lon: 1e-8, Lat: 0}
	if d := a.Dist(c); math.Abs(d-1e-8) > 1e-16 {
		t.Fatalf("small separation: got %g", d)
	}
}

func TestVecRoundTrip(t *testing.T) {
	pts := []Point{
		{Lon: 0.1, Lat: 0.2},
		{Lon: 3.5, Lat: -1.2},
		{Lon: 5.9, Lat: 1.5},
	}
	for _, p := range pts {
		q := p.Vec().Point()
		if math.Abs(q.Lon-p.Lon) > 1e-12 || math.Abs(q.Lat-p.Lat) > 1e-12 {
			t.Fatalf("round trip %+v -> %+v", p, q)
		}
	}
}

func TestVecAngle(t *testing.T) {
	x := Vec{X: 1}
	y := Vec{Y: 1}
	if a := x.Angle(y); math.Abs(a-HalfPi) > 1e-15 {
		t.Fatalf("orthogonal angle: got %g", a)
	}
	if a := x.Angle(Vec{X: -1}); math.Abs(a-math.Pi) > 1e-15 {
		t.Fatalf("antipodal angle: got %g", a)
	}
	if a := x.Angle(x); a != 0 {
		t.Fatalf("self angle: got %g", a)
	}
}
