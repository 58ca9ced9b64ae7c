package proj

import (
	"errors"
	"math"
	"testing"

	"github.com/skyproj/healpix/pkg/sky"
)

func TestProject_FacetCenters(t *testing.T) {
	polarLat := math.Asin(2.0 / 3.0)
	for f := 0; f < 12; f++ {
		var lat float64
		switch {
		case f < 4:
			lat = polarLat
		case f < 8:
			lat = 0
		default:
			lat = -polarLat
		}
		p := sky.Point{Lon: facetCenterX[f] * quarterPi, Lat: lat}
		x, y := Project(p)
		if math.Abs(x-facetCenterX[f]) > 1e-12 || math.Abs(y-facetCenterY[f]) > 1e-12 {
			t.Fatalf("facet %d center: got (%g, %g), want (%g, %g)",
				f, x, y, facetCenterX[f], facetCenterY[f])
		}
	}
}

func TestProjectUnproject_RoundTrip(t *testing.T) {
	for _, lon := range []float64{0.05, 0.7, 1.3, 2.9, 4.1, 5.6, 6.2} {
		for _, lat := range []float64{-1.45, -1.1, -0.73, -0.2, 0, 0.3, 0.73, 1.2, 1.5} {
			p := sky.Point{Lon: lon, Lat: lat}
			x, y := Project(p)
			if x < 0 || x >= 8 || y < -2 || y > 2 {
				t.Fatalf("projection of (%g, %g) out of plane: (%g, %g)", lon, lat, x, y)
			}
			q, err := Unproject(x, y)
			if err != nil {
				t.Fatalf("Unproject(%g, %g): %v", x, y, err)
			}
			if math.Abs(q.Lon-p.Lon) > 1e-9 || math.Abs(q.Lat-p.Lat) > 1e-9 {
				t.Fatalf("round trip (%g, %g) -> (%g, %g)", lon, lat, q.Lon, q.Lat)
			}
		}
	}
}

func TestProject_Poles(t *testing.T) {
	x, y := Project(sky.Point{Lon: 0.4, Lat: sky.HalfPi})
	if math.Abs(y-2) > 1e-12 {
		t.Fatalf("north pole y: got %g", y)
	}
	p, err := Unproject(x, y)
	if err != nil {
		t.Fatalf("Unproject north pole: %v", err)
	}
	if math.Abs(p.Lat-sky.HalfPi) > 1e-9 {
		t.Fatalf("north pole lat: got %g", p.Lat)
	}

	_, y = Project(sky.Point{Lon: 3.0, Lat: -sky.HalfPi})
	if math.Abs(y+2) > 1e-12 {
		t.Fatalf("south pole y: got %g", y)
	}
}

func TestUnproject_RangeError(t *testing.T) {
	if _, err := Unproject(1, 2.5); !errors.Is(err, sky.ErrRange) {
		t.Fatalf("expected ErrRange for y=2.5, got %v", err)
	}
	// x wraps instead of erroring
	if _, err := Unproject(9, 0); err != nil {
		t.Fatalf("x should wrap: %v", err)
	}
}

func TestFacetXY_ReconstructsPosition(t *testing.T) {
	for _, nside := range []uint64{1, 2, 8, 1024} {
		for _, lon := range []float64{0.01, 1.1, 2.4, 3.9, 5.2, 6.27} {
			for _, lat := range []float64{-1.5, -0.9, -0.4, 0, 0.5, 1.0, 1.45} {
				p := sky.Point{Lon: lon, Lat: lat}
				face, ix, iy, dx, dy := FacetXY(p, nside)
				if face < 0 || face > 11 || ix >= nside || iy >= nside {
					t.Fatalf("nside %d (%g, %g): facet out of range (%d, %d, %d)",
						nside, lon, lat, face, ix, iy)
				}
				if dx < 0 || dx > 1 || dy < 0 || dy > 1 {
					t.Fatalf("nside %d (%g, %g): offsets out of range (%g, %g)",
						nside, lon, lat, dx, dy)
				}
				x, y := PlaneXY(face, float64(ix)+dx, float64(iy)+dy, nside)
				q, err := Unproject(x, y)
				if err != nil {
					t.Fatalf("Unproject: %v", err)
				}
				if d := p.Dist(q); d > 1e-9 {
					t.Fatalf("nside %d (%g, %g): reconstructed %g rad away", nside, lon, lat, d)
				}
			}
		}
	}
}

func TestPlaneXY_WrapsLongitude(t *testing.T) {
	// West neighbour of facet 4 (centered on x=0) lands below x=0 and
	// must wrap into [0, 8).
	x, _ := PlaneXY(4, 0.25, 0.75, 1)
	if x < 0 || x >= 8 {
		t.Fatalf("x not wrapped: %g", x)
	}
}
