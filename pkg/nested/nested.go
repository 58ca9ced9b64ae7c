// Package nested implements the nested HEALPix numbering scheme:
// hashing sky positions to cell indexes, cell geometry (center,
// vertices, neighbours) and hierarchy navigation. Cells are numbered
// facet by facet with the in-facet position bit-interleaved, so the
// four children of a cell are index<<2 .. index<<2|3.
package nested

import (
	"fmt"

	"github.com/skyproj/healpix/pkg/proj"
	"github.com/skyproj/healpix/pkg/sky"
)

// MaxDepth is the deepest resolution representable in a uint64 index.
const MaxDepth = 29

// Nside returns the grid size 2^depth of one facet side.
func Nside(depth uint8) uint64 { return 1 << depth }

// NumCells returns the number of cells 12*4^depth at the given depth.
func NumCells(depth uint8) uint64 { return 12 << (2 * depth) }

// CheckDepth validates a depth against [0, MaxDepth].
func CheckDepth(depth uint8) error {
	if depth > MaxDepth {
		return fmt.Errorf("%w: depth %d not in [0, %d]", sky.ErrRange, depth, MaxDepth)
	}
	return nil
}

// CheckIndex validates a cell index against [0, 12*4^depth).
func CheckIndex(index uint64, depth uint8) error {
	if err := CheckDepth(depth); err != nil {
		return err
	}
	if npix := NumCells(depth); index >= npix {
		return fmt.Errorf("%w: index %d not in [0, %d) at depth %d", sky.ErrRange, index, npix, depth)
	}
	return nil
}

// Hash returns the index of the cell containing p at the given depth.
// Points exactly on a cell boundary resolve deterministically toward
// the lower-index cell in both hemispheres.
func Hash(p sky.Point, depth uint8) (uint64, error) {
	if err := CheckDepth(depth); err != nil {
		return 0, err
	}
	if _, err := sky.NewPoint(p.Lon, p.Lat); err != nil {
		return 0, err
	}
	return HashUnchecked(p, depth), nil
}

// HashUnchecked is Hash without argument validation, for batch loops
// that have already validated their inputs.
func HashUnchecked(p sky.Point, depth uint8) uint64 {
	nside := Nside(depth)
	face, ix, iy, _, _ := proj.FacetXY(p, nside)
	return uint64(face)<<(2*depth) | interleave(ix, iy)
}

// Center returns the sky position of the cell center.
func Center(index uint64, depth uint8) (sky.Point, error) {
	if err := CheckIndex(index, depth); err != nil {
		return sky.Point{}, err
	}
	return CenterUnchecked(index, depth), nil
}

// CenterUnchecked is Center without argument validation.
func CenterUnchecked(index uint64, depth uint8) sky.Point {
	face, ix, iy := decode(index, depth)
	x, y := proj.PlaneXY(face, float64(ix)+0.5, float64(iy)+0.5, Nside(depth))
	p, _ := proj.Unproject(x, y)
	return p
}

// Vertices returns the four corners of the cell in south, east,
// north, west order, matching the reference layout.
func Vertices(index uint64, depth uint8) ([4]sky.Point, error) {
	var out [4]sky.Point
	if err := CheckIndex(index, depth); err != nil {
		return out, err
	}
	face, ix, iy := decode(index, depth)
	nside := Nside(depth)
	u, v := float64(ix), float64(iy)
	corners := [4][2]float64{
		{u, v},         // S
		{u + 1, v},     // E
		{u + 1, v + 1}, // N
		{u, v + 1},     // W
	}
	for i, c := range corners {
		x, y := proj.PlaneXY(face, c[0], c[1], nside)
		p, err := proj.Unproject(x, y)
		if err != nil {
			return out, err
		}
		out[i] = p
	}
	return out, nil
}

// Parent returns the ancestor of the cell at parentDepth.
func Parent(index uint64, depth, parentDepth uint8) (uint64, error) {
	if err := CheckIndex(index, depth); err != nil {
		return 0, err
	}
	if parentDepth > depth {
		return 0, fmt.Errorf("%w: parent depth %d exceeds cell depth %d", sky.ErrRange, parentDepth, depth)
	}
	return index >> (2 * (depth - parentDepth)), nil
}

// Children returns the descendants of the cell at childDepth, in
// ascending index order.
func Children(index uint64, depth, childDepth uint8) ([]uint64, error) {
	if err := CheckIndex(index, depth); err != nil {
		return nil, err
	}
	if childDepth < depth || childDepth > MaxDepth {
		return nil, fmt.Errorf("%w: child depth %d not in [%d, %d]", sky.ErrRange, childDepth, depth, MaxDepth)
	}
	shift := 2 * (childDepth - depth)
	first := index << shift
	out := make([]uint64, 1<<shift)
	for i := range out {
		out[i] = first + uint64(i)
	}
	return out, nil
}

// FromFacet returns the nested index of the cell at facet
// coordinates (face in [0, 12), ix, iy in [0, 2^depth)).
func FromFacet(face int, ix, iy uint64, depth uint8) (uint64, error) {
	if err := CheckDepth(depth); err != nil {
		return 0, err
	}
	nside := Nside(depth)
	if face < 0 || face > 11 || ix >= nside || iy >= nside {
		return 0, fmt.Errorf("%w: facet coordinates (%d, %d, %d) invalid at depth %d", sky.ErrRange, face, ix, iy, depth)
	}
	return uint64(face)<<(2*depth) | interleave(ix, iy), nil
}

// ToFacet decomposes a nested index into facet coordinates.
func ToFacet(index uint64, depth uint8) (face int, ix, iy uint64, err error) {
	if err := CheckIndex(index, depth); err != nil {
		return 0, 0, 0, err
	}
	face, ix, iy = decode(index, depth)
	return face, ix, iy, nil
}

func decode(index uint64, depth uint8) (face int, ix, iy uint64) {
	face = int(index >> (2 * depth))
	ix, iy = deinterleave(index & (NumCells(depth)/12 - 1))
	return face, ix, iy
}
