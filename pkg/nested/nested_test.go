package nested

import (
	"errors"
	"math"
	"testing"

	"github.com/skyproj/healpix/pkg/sky"
)

func TestCounts(t *testing.T) {
	if n := NumCells(0); n != 12 {
		t.Fatalf("NumCells(0) = %d", n)
	}
	if n := NumCells(2); n != 192 {
		t.Fatalf("NumCells(2) = %d", n)
	}
	if n := Nside(3); n != 8 {
		t.Fatalf("Nside(3) = %d", n)
	}
}

func TestValidation(t *testing.T) {
	if err := CheckDepth(29); err != nil {
		t.Fatalf("depth 29 must be valid: %v", err)
	}
	if err := CheckDepth(30); !errors.Is(err, sky.ErrRange) {
		t.Fatalf("expected ErrRange for depth 30, got %v", err)
	}
	if err := CheckIndex(191, 2); err != nil {
		t.Fatalf("index 191 at depth 2 must be valid: %v", err)
	}
	if err := CheckIndex(192, 2); !errors.Is(err, sky.ErrRange) {
		t.Fatalf("expected ErrRange for index 192 at depth 2, got %v", err)
	}
	if _, err := Hash(sky.Point{Lon: 0, Lat: 2}, 5); !errors.Is(err, sky.ErrRange) {
		t.Fatalf("expected ErrRange for lat 2, got %v", err)
	}
}

func TestInterleave(t *testing.T) {
	if got := interleave(3, 2); got != 13 {
		t.Fatalf("interleave(3, 2) = %d, want 13", got)
	}
	for _, c := range [][2]uint64{{0, 0}, {1, 0}, {0, 1}, {123456, 654321}, {1<<29 - 1, 1<<29 - 1}} {
		x, y := deinterleave(interleave(c[0], c[1]))
		if x != c[0] || y != c[1] {
			t.Fatalf("deinterleave(interleave(%d, %d)) = (%d, %d)", c[0], c[1], x, y)
		}
	}
}

func TestHashCenter_RoundTrip(t *testing.T) {
	pts := []sky.Point{
		{Lon: 0.1, Lat: 0.05},
		{Lon: 2.7, Lat: 1.3},
		{Lon: 4.3, Lat: -1.4},
		{Lon: 5.5, Lat: 0.67},
		{Lon: 3.14, Lat: -0.72},
	}
	for _, depth := range []uint8{0, 1, 2, 5, 10, 16, 20} {
		for _, p := range pts {
			ix, err := Hash(p, depth)
			if err != nil {
				t.Fatalf("Hash depth %d: %v", depth, err)
			}
			c, err := Center(ix, depth)
			if err != nil {
				t.Fatalf("Center depth %d: %v", depth, err)
			}
			back, err := Hash(c, depth)
			if err != nil {
				t.Fatalf("Hash of center: %v", err)
			}
			if back != ix {
				t.Fatalf("depth %d: center of cell %d hashes to %d", depth, ix, back)
			}
		}
	}
}

func TestFacetCodec(t *testing.T) {
	const depth = 4
	for face := 0; face < 12; face++ {
		for _, xy := range [][2]uint64{{0, 0}, {15, 15}, {7, 3}} {
			ix, err := FromFacet(face, xy[0], xy[1], depth)
			if err != nil {
				t.Fatalf("FromFacet: %v", err)
			}
			f, x, y, err := ToFacet(ix, depth)
			if err != nil {
				t.Fatalf("ToFacet: %v", err)
			}
			if f != face || x != xy[0] || y != xy[1] {
				t.Fatalf("round trip (%d, %d, %d) -> (%d, %d, %d)", face, xy[0], xy[1], f, x, y)
			}
		}
	}
	if _, err := FromFacet(12, 0, 0, 4); !errors.Is(err, sky.ErrRange) {
		t.Fatalf("expected ErrRange for face 12, got %v", err)
	}
	if _, err := FromFacet(0, 16, 0, 4); !errors.Is(err, sky.ErrRange) {
		t.Fatalf("expected ErrRange for ix=nside, got %v", err)
	}
}

func TestParentChildren(t *testing.T) {
	const index, depth = 777, 6
	parent, err := Parent(index, depth, 4)
	if err != nil {
		t.Fatalf("Parent: %v", err)
	}
	if parent != index>>4 {
		t.Fatalf("Parent = %d, want %d", parent, index>>4)
	}
	kids, err := Children(parent, 4, depth)
	if err != nil {
		t.Fatalf("Children: %v", err)
	}
	if len(kids) != 16 {
		t.Fatalf("expected 16 children, got %d", len(kids))
	}
	found := false
	for i, k := range kids {
		if i > 0 && k != kids[i-1]+1 {
			t.Fatalf("children not contiguous at %d", i)
		}
		if k == index {
			found = true
		}
	}
	if !found {
		t.Fatalf("cell %d missing from its parent's children", index)
	}
	if _, err := Parent(index, depth, 7); !errors.Is(err, sky.ErrRange) {
		t.Fatalf("expected ErrRange for parent deeper than cell, got %v", err)
	}
	if _, err := Children(index, depth, 5); !errors.Is(err, sky.ErrRange) {
		t.Fatalf("expected ErrRange for children shallower than cell, got %v", err)
	}
}

func TestVertices_SurroundCenter(t *testing.T) {
	for _, depth := range []uint8{0, 1, 3, 8} {
		step := NumCells(depth) / 7
		if step == 0 {
			step = 1
		}
		for ix := uint64(0); ix < NumCells(depth); ix += step {
			vs, err := Vertices(ix, depth)
			if err != nil {
				t.Fatalf("Vertices(%d, %d): %v", ix, depth, err)
			}
			c, err := Center(ix, depth)
			if err != nil {
				t.Fatalf("Center: %v", err)
			}
			// South corner must sit below the center, north above.
			if vs[0].Lat >= c.Lat && math.Abs(vs[0].Lat-c.Lat) > 1e-12 {
				t.Fatalf("cell %d depth %d: south corner above center", ix, depth)
			}
			if vs[2].Lat <= c.Lat && math.Abs(vs[2].Lat-c.Lat) > 1e-12 {
				t.Fatalf("cell %d depth %d: north corner below center", ix, depth)
			}
			for i, v := range vs {
				if v.Lat < -sky.HalfPi-1e-12 || v.Lat > sky.HalfPi+1e-12 {
					t.Fatalf("cell %d depth %d: corner %d lat %g out of range", ix, depth, i, v.Lat)
				}
			}
		}
	}
}

func BenchmarkHash(b *testing.B) {
	p := sky.Point{Lon: 2.345, Lat: 0.678}
	for i := 0; i < b.N; i++ {
		HashUnchecked(p, 12)
	}
}
