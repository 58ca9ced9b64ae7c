// Package ring implements the ring HEALPix numbering scheme: cells
// are numbered along iso-latitude rings from the north pole to the
// south pole, west to east within each ring. Ring lengths grow
// linearly through the polar caps and are constant 4*nside in the
// equatorial belt.
//
// Unlike the nested scheme, the ring numbering does not retain
// sub-pixel position, so Hash also reports the (dx, dy) offsets of
// the point inside its cell and Unhash accepts them back.
package ring

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/skyproj/healpix/pkg/nested"
	"github.com/skyproj/healpix/pkg/proj"
	"github.com/skyproj/healpix/pkg/sky"
)

// MaxNside is the largest supported nside, 2^29.
const MaxNside uint64 = 1 << 29

// Northmost ring index of each facet (in units of nside) and the
// phi offset of each facet on its ring (in units of nr), per the
// classic facet layout.
var (
	jrll = [12]uint64{2, 2, 2, 2, 3, 3, 3, 3, 4, 4, 4, 4}
	jpll = [12]int64{1, 3, 5, 7, 0, 2, 4, 6, 1, 3, 5, 7}
)

// CheckNside validates that nside is a power of two in [1, 2^29].
func CheckNside(nside uint64) error {
	if nside == 0 || nside > MaxNside || nside&(nside-1) != 0 {
		return fmt.Errorf("%w: nside %d must be a power of two in [1, 2^29]", sky.ErrRange, nside)
	}
	return nil
}

// NumCells returns the number of cells 12*nside^2.
func NumCells(nside uint64) uint64 { return 12 * nside * nside }

// CheckIndex validates a ring cell index against [0, 12*nside^2).
func CheckIndex(index, nside uint64) error {
	if err := CheckNside(nside); err != nil {
		return err
	}
	if npix := NumCells(nside); index >= npix {
		return fmt.Errorf("%w: index %d not in [0, %d) for nside %d", sky.ErrRange, index, npix, nside)
	}
	return nil
}

func checkOffset(name string, d float64) error {
	if math.IsNaN(d) || d < 0 || d > 1 {
		return fmt.Errorf("%w: %s %g not in [0, 1]", sky.ErrRange, name, d)
	}
	return nil
}

// Hash returns the ring index of the cell containing p, plus the
// sub-cell offsets (dx, dy) in [0, 1] of p inside that cell.
func Hash(p sky.Point, nside uint64) (index uint64, dx, dy float64, err error) {
	if err := CheckNside(nside); err != nil {
		return 0, 0, 0, err
	}
	if _, err := sky.NewPoint(p.Lon, p.Lat); err != nil {
		return 0, 0, 0, err
	}
	index, dx, dy = HashUnchecked(p, nside)
	return index, dx, dy, nil
}

// HashUnchecked is Hash without argument validation.
func HashUnchecked(p sky.Point, nside uint64) (index uint64, dx, dy float64) {
	face, ix, iy, dx, dy := proj.FacetXY(p, nside)
	return fromFacet(face, ix, iy, nside), dx, dy
}

// Unhash returns the sky position at offsets (dx, dy) inside the
// cell; (0.5, 0.5) is the cell center.
func Unhash(index, nside uint64, dx, dy float64) (sky.Point, error) {
	if err := CheckIndex(index, nside); err != nil {
		return sky.Point{}, err
	}
	if err := checkOffset("dx", dx); err != nil {
		return sky.Point{}, err
	}
	if err := checkOffset("dy", dy); err != nil {
		return sky.Point{}, err
	}
	face, ix, iy := toFacet(index, nside)
	x, y := proj.PlaneXY(face, float64(ix)+dx, float64(iy)+dy, nside)
	return proj.Unproject(x, y)
}

// Center returns the sky position of the cell center.
func Center(index, nside uint64) (sky.Point, error) {
	return Unhash(index, nside, 0.5, 0.5)
}

// ProjectedCenter returns the position of the cell center in the
// HEALPix plane, x in [0, 8), y in [-2, 2].
func ProjectedCenter(index, nside uint64) (x, y float64, err error) {
	if err := CheckIndex(index, nside); err != nil {
		return 0, 0, err
	}
	face, ix, iy := toFacet(index, nside)
	x, y = proj.PlaneXY(face, float64(ix)+0.5, float64(iy)+0.5, nside)
	return x, y, nil
}

// Vertices returns the corners of the cell in south, east, north,
// west order. The step parameter subdivides each edge in the nested
// scheme's reference API; the ring scheme does not support it, so any
// value other than 1 is rejected rather than silently ignored.
func Vertices(index, nside uint64, step int) ([]sky.Point, error) {
	if step != 1 {
		return nil, fmt.Errorf("%w: edge subdivision step=%d is not supported by the ring scheme (only step=1)", sky.ErrRange, step)
	}
	if err := CheckIndex(index, nside); err != nil {
		return nil, err
	}
	face, ix, iy := toFacet(index, nside)
	u, v := float64(ix), float64(iy)
	corners := [4][2]float64{{u, v}, {u + 1, v}, {u + 1, v + 1}, {u, v + 1}}
	out := make([]sky.Point, 4)
	for i, c := range corners {
		x, y := proj.PlaneXY(face, c[0], c[1], nside)
		p, err := proj.Unproject(x, y)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}

// ToNested converts a ring index to the nested index of the same cell.
func ToNested(index, nside uint64) (uint64, error) {
	if err := CheckIndex(index, nside); err != nil {
		return 0, err
	}
	face, ix, iy := toFacet(index, nside)
	depth := uint8(bits.TrailingZeros64(nside))
	n, err := nested.FromFacet(face, ix, iy, depth)
	if err != nil {
		return 0, err
	}
	return n, nil
}

// FromNested converts a nested index to the ring index of the same
// cell.
func FromNested(index, nside uint64) (uint64, error) {
	if err := CheckNside(nside); err != nil {
		return 0, err
	}
	depth := uint8(bits.TrailingZeros64(nside))
	face, ix, iy, err := nested.ToFacet(index, depth)
	if err != nil {
		return 0, err
	}
	return fromFacet(face, ix, iy, nside), nil
}

// fromFacet converts facet coordinates to a ring index.
func fromFacet(face int, ix, iy, nside uint64) uint64 {
	ncap := 2 * nside * (nside - 1)
	npix := NumCells(nside)
	jr := jrll[face]*nside - ix - iy - 1 // total ring index, 1-based

	var nr, nBefore, kshift uint64
	switch {
	case jr < nside: // north polar cap
		nr = jr
		nBefore = 2 * nr * (nr - 1)
	case jr > 3*nside: // south polar cap
		nr = 4*nside - jr
		nBefore = npix - 2*nr*(nr+1)
	default: // equatorial belt
		nr = nside
		nBefore = ncap + (jr-nside)*4*nside
		kshift = (jr - nside) & 1
	}

	jp := (jpll[face]*int64(nr) + int64(ix) - int64(iy) + 1 + int64(kshift)) / 2
	if m := int64(4 * nr); jp > m {
		jp -= m
	} else if jp < 1 {
		jp += m
	}
	return nBefore + uint64(jp) - 1
}

// toFacet converts a ring index to facet coordinates.
func toFacet(index, nside uint64) (face int, ix, iy uint64) {
	ncap := 2 * nside * (nside - 1)
	npix := NumCells(nside)

	var iring, iphi, nr, kshift uint64
	switch {
	case index < ncap: // north polar cap
		iring = (1 + isqrt(1+2*index)) >> 1
		iphi = index + 1 - 2*iring*(iring-1)
		nr = iring
		face = int((iphi - 1) / iring)
	case index < npix-ncap: // equatorial belt
		ip := index - ncap
		iring = ip/(4*nside) + nside
		iphi = ip%(4*nside) + 1
		kshift = (iring + nside) & 1
		nr = nside
		ire := iring - nside + 1
		irm := 2*nside + 2 - ire
		ifm := (iphi - ire/2 + nside - 1) / nside
		ifp := (iphi - irm/2 + nside - 1) / nside
		switch {
		case ifp == ifm:
			face = int(ifp&3) + 4
		case ifp < ifm:
			face = int(ifp)
		default:
			face = int(ifm) + 8
		}
	default: // south polar cap
		ip := npix - index
		iring = (1 + isqrt(2*ip-1)) >> 1
		iphi = 4*iring + 1 - (ip - 2*iring*(iring-1))
		nr = iring
		face = 8 + int((iphi-1)/iring)
		iring = 4*nside - iring // total ring index
	}

	irt := int64(iring) - int64(jrll[face]*nside) + 1
	ipt := 2*int64(iphi) - jpll[face]*int64(nr) - int64(kshift) - 1
	if ipt >= 2*int64(nside) {
		ipt -= 8 * int64(nside)
	}
	ix = uint64((ipt - irt) >> 1)
	iy = uint64((-ipt - irt) >> 1)
	return face, ix, iy
}

// isqrt returns floor(sqrt(v)), correcting the float rounding.
func isqrt(v uint64) uint64 {
	s := uint64(math.Sqrt(float64(v)))
	for s > 0 && s*s > v {
		s--
	}
	for (s+1)*(s+1) <= v {
		s++
	}
	return s
}
