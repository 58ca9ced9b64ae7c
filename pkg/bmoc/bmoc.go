// Package bmoc implements the multi-order coverage set returned by
// the coverage engine: a sorted, depth-mixed sequence of nested cells
// forming an antichain of the cell hierarchy (no cell is an ancestor
// of another), each flagged as fully or partially covered.
//
// Entries are packed into uint64 raw values in the reference
// encoding: the index is followed by a sentinel bit and shifted left
// by 2*(depthMax-depth)+1, the low bit carries the coverage flag.
// The sentinel makes the depth recoverable from the trailing zero
// count, and raw values of disjoint cells order exactly like their
// index ranges at depthMax.
package bmoc

import (
	"math"
	"math/bits"
)

// Cell is one coverage record.
type Cell struct {
	Depth uint8
	Index uint64
	// Full is true when the cell lies entirely inside the region
	// covered by the BMOC.
	Full bool
}

// BMOC is an immutable packed coverage set.
type BMOC struct {
	depthMax uint8
	entries  []uint64
}

// DepthMax returns the deepest depth a cell of the set may have.
func (b *BMOC) DepthMax() uint8 { return b.depthMax }

// Len returns the number of cells.
func (b *BMOC) Len() int { return len(b.entries) }

// CellArea returns the solid angle of one cell at the given depth.
// All cells of a depth are equal-area: 4*pi / (12*4^depth).
func CellArea(depth uint8) float64 {
	return math.Pi / (3 * float64(uint64(1)<<(2*depth)))
}

func rawValue(depthMax, depth uint8, index uint64, full bool) uint64 {
	r := (index<<1 | 1) << (1 + (depthMax-depth)<<1)
	if full {
		r |= 1
	}
	return r
}

func (b *BMOC) cellAt(i int) Cell {
	raw := b.entries[i]
	tz := uint8(bits.TrailingZeros64(raw >> 1))
	return Cell{
		Depth: b.depthMax - tz/2,
		Index: raw >> (tz + 2),
		Full:  raw&1 != 0,
	}
}

// Cells returns all records in ascending depth-mixed order.
func (b *BMOC) Cells() []Cell {
	out := make([]Cell, len(b.entries))
	for i := range b.entries {
		out[i] = b.cellAt(i)
	}
	return out
}

// FlatCells re-expresses the set at exactly DepthMax: every cell
// coarser than DepthMax is expanded into its descendants, keeping its
// coverage flag. Trades compactness for a uniform depth.
func (b *BMOC) FlatCells() []Cell {
	var total uint64
	for i := range b.entries {
		c := b.cellAt(i)
		total += uint64(1) << (2 * (b.depthMax - c.Depth))
	}
	out := make([]Cell, 0, total)
	for i := range b.entries {
		c := b.cellAt(i)
		shift := 2 * (b.depthMax - c.Depth)
		first := c.Index << shift
		for j := uint64(0); j < uint64(1)<<shift; j++ {
			out = append(out, Cell{Depth: b.depthMax, Index: first + j, Full: c.Full})
		}
	}
	return out
}

// Area returns the total solid angle of the set. For partially
// covered cells this overestimates the covered region.
func (b *BMOC) Area() float64 {
	var a float64
	for i := range b.entries {
		a += CellArea(b.cellAt(i).Depth)
	}
	return a
}

// FullArea returns the solid angle of the fully covered cells only,
// a lower bound on the covered region.
func (b *BMOC) FullArea() float64 {
	var a float64
	for i := range b.entries {
		if c := b.cellAt(i); c.Full {
			a += CellArea(c.Depth)
		}
	}
	return a
}

// IsConsistent reports whether the set is sorted in ascending
// depth-mixed order and is an antichain: no two cells overlap, in
// particular no cell is an ancestor of another. Meant for tests, not
// for the hot path.
func (b *BMOC) IsConsistent() bool {
	var prevEnd uint64
	for i := range b.entries {
		c := b.cellAt(i)
		if c.Depth > b.depthMax {
			return false
		}
		shift := 2 * (b.depthMax - c.Depth)
		start := c.Index << shift
		if i > 0 && start < prevEnd {
			return false
		}
		prevEnd = (c.Index + 1) << shift
	}
	return true
}

// Degrade returns an equivalent set with no cell deeper than depth:
// deeper cells are replaced by their ancestor at that depth, flagged
// as partial, and groups of four fully covered siblings keep merging
// upward. Degrading a set that already satisfies the bound returns an
// identical set.
func (b *BMOC) Degrade(depth uint8) *BMOC {
	bld := NewBuilder(depth, len(b.entries))
	for i := range b.entries {
		c := b.cellAt(i)
		if c.Depth <= depth {
			bld.Push(c.Depth, c.Index, c.Full)
			continue
		}
		bld.pushAncestor(c.Index>>(2*(c.Depth-depth)), depth)
	}
	return bld.Build()
}
