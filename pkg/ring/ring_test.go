package ring

import (
	"errors"
	"math"
	"testing"

	"github.com/skyproj/healpix/pkg/sky"
)

const degree = math.Pi / 180

func TestCheckNside(t *testing.T) {
	for _, ok := range []uint64{1, 2, 4, 1 << 20, 1 << 29} {
		if err := CheckNside(ok); err != nil {
			t.Fatalf("nside %d must be valid: %v", ok, err)
		}
	}
	for _, bad := range []uint64{0, 3, 6, 12, 1 << 30} {
		if err := CheckNside(bad); !errors.Is(err, sky.ErrRange) {
			t.Fatalf("expected ErrRange for nside %d, got %v", bad, err)
		}
	}
}

func TestHash_KnownValues(t *testing.T) {
	cases := []struct {
		lon, lat float64 // degrees
		nside    uint64
		want     uint64
	}{
		{5, 5, 2, 12},
		{180, 5, 2, 16},
		{179, -88, 2, 45},
	}
	for _, c := range cases {
		got, _, _, err := Hash(sky.Point{Lon: c.lon * degree, Lat: c.lat * degree}, c.nside)
		if err != nil {
			t.Fatalf("Hash(%g, %g): %v", c.lon, c.lat, err)
		}
		if got != c.want {
			t.Fatalf("Hash(%g, %g, nside %d) = %d, want %d", c.lon, c.lat, c.nside, got, c.want)
		}
	}
}

func TestProjectedCenters_Nside1(t *testing.T) {
	wantX := [12]float64{1, 3, 5, 7, 0, 2, 4, 6, 1, 3, 5, 7}
	wantY := [12]float64{1, 1, 1, 1, 0, 0, 0, 0, -1, -1, -1, -1}
	for i := uint64(0); i < 12; i++ {
		x, y, err := ProjectedCenter(i, 1)
		if err != nil {
			t.Fatalf("ProjectedCenter(%d): %v", i, err)
		}
		if math.Abs(x-wantX[i]) > 1e-12 || math.Abs(y-wantY[i]) > 1e-12 {
			t.Fatalf("cell %d: got (%g, %g), want (%g, %g)", i, x, y, wantX[i], wantY[i])
		}
	}
}

func TestCenterHash_RoundTrip(t *testing.T) {
	for _, nside := range []uint64{1, 2, 4, 8, 16} {
		for ix := uint64(0); ix < NumCells(nside); ix++ {
			c, err := Center(ix, nside)
			if err != nil {
				t.Fatalf("Center(%d, %d): %v", ix, nside, err)
			}
			back, dx, dy, err := Hash(c, nside)
			if err != nil {
				t.Fatalf("Hash of center: %v", err)
			}
			if back != ix {
				t.Fatalf("nside %d: center of cell %d hashes to %d", nside, ix, back)
			}
			if math.Abs(dx-0.5) > 1e-6 || math.Abs(dy-0.5) > 1e-6 {
				t.Fatalf("nside %d cell %d: center offsets (%g, %g)", nside, ix, dx, dy)
			}
		}
	}
}

func TestNestedConversion_RoundTrip(t *testing.T) {
	for _, nside := range []uint64{1, 2, 8, 32} {
		step := NumCells(nside) / 53
		if step == 0 {
			step = 1
		}
		for ix := uint64(0); ix < NumCells(nside); ix += step {
			n, err := ToNested(ix, nside)
			if err != nil {
				t.Fatalf("ToNested(%d, %d): %v", ix, nside, err)
			}
			back, err := FromNested(n, nside)
			if err != nil {
				t.Fatalf("FromNested(%d, %d): %v", n, nside, err)
			}
			if back != ix {
				t.Fatalf("nside %d: ring %d -> nested %d -> ring %d", nside, ix, n, back)
			}
		}
	}
}

func TestUnhash_OffsetValidation(t *testing.T) {
	if _, err := Unhash(0, 2, 1.5, 0.5); !errors.Is(err, sky.ErrRange) {
		t.Fatalf("expected ErrRange for dx 1.5, got %v", err)
	}
	if _, err := Unhash(0, 2, 0.5, -0.1); !errors.Is(err, sky.ErrRange) {
		t.Fatalf("expected ErrRange for dy -0.1, got %v", err)
	}
	if _, err := Unhash(0, 2, 0, 1); err != nil {
		t.Fatalf("corner offsets must be valid: %v", err)
	}
}

func TestVertices_StepLimitation(t *testing.T) {
	if _, err := Vertices(0, 2, 2); !errors.Is(err, sky.ErrRange) {
		t.Fatalf("expected ErrRange for step 2, got %v", err)
	}
	vs, err := Vertices(13, 2, 1)
	if err != nil {
		t.Fatalf("Vertices: %v", err)
	}
	if len(vs) != 4 {
		t.Fatalf("expected 4 corners, got %d", len(vs))
	}
	// south, east, north, west ordering
	if vs[0].Lat >= vs[2].Lat {
		t.Fatalf("south corner not below north corner")
	}
}

func TestHash_PoleAndWrap(t *testing.T) {
	// The north pole belongs to the first ring.
	ix, _, _, err := Hash(sky.Point{Lon: 0.3, Lat: sky.HalfPi}, 8)
	if err != nil {
		t.Fatalf("Hash at pole: %v", err)
	}
	if ix >= 4 {
		t.Fatalf("north pole cell %d not in the first ring", ix)
	}
	// Longitude wrap: 360 degrees equals 0 degrees.
	a, _, _, err := Hash(sky.Point{Lon: 0, Lat: 0.4}, 16)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	b, _, _, err := Hash(sky.Point{Lon: sky.TwoPi, Lat: 0.4}, 16)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if a != b {
		t.Fatalf("wrap mismatch: %d vs %d", a, b)
	}
}
