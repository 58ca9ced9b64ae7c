package nested

// Sentinel reported for a neighbour that does not exist (the diagonal
// across a polar facet corner).
const NoNeighbour = -1

// Slot order of a neighbour record.
const (
	SlotNW = iota
	SlotW
	SlotSW
	SlotN
	SlotSelf
	SlotS
	SlotNE
	SlotE
	SlotSE
)

// Offsets in in-facet (u, v) coordinates for each slot; u grows
// towards NE, v towards NW. The self slot is handled separately.
var slotOffsets = [9][2]int64{
	{0, 1},   // NW
	{-1, 1},  // W
	{-1, 0},  // SW
	{1, 1},   // N
	{0, 0},   // self
	{-1, -1}, // S
	{1, 0},   // NE
	{1, -1},  // E
	{0, -1},  // SE
}

// Facet-boundary topology: crossing a facet edge lands on nbFace
// indexed by the overflow pattern, with the in-facet coordinates
// transformed per nbSwap (bit 0: flip x, bit 1: flip y, bit 2: swap).
// The overflow pattern is 4 + du + 3*dv for under/overflow du, dv in
// {-1, 0, 1}; -1 marks the missing diagonal across a polar corner.
// The swap column is the facet band: north polar, equatorial, south
// polar.
var nbFace = [9][12]int8{
	{8, 9, 10, 11, -1, -1, -1, -1, 10, 11, 8, 9},
	{5, 6, 7, 4, 8, 9, 10, 11, 9, 10, 11, 8},
	{-1, -1, -1, -1, 5, 6, 7, 4, -1, -1, -1, -1},
	{4, 5, 6, 7, 11, 8, 9, 10, 11, 8, 9, 10},
	{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11},
	{1, 2, 3, 0, 0, 1, 2, 3, 5, 6, 7, 4},
	{-1, -1, -1, -1, 7, 4, 5, 6, -1, -1, -1, -1},
	{3, 0, 1, 2, 3, 0, 1, 2, 4, 5, 6, 7},
	{2, 3, 0, 1, -1, -1, -1, -1, 0, 1, 2, 3},
}

var nbSwap = [9][3]uint8{
	{0, 0, 3},
	{0, 0, 6},
	{0, 0, 0},
	{0, 0, 5},
	{0, 0, 0},
	{5, 0, 0},
	{0, 0, 0},
	{6, 0, 0},
	{3, 0, 0},
}

// Neighbours returns the 9-slot record
// [NW, W, SW, N, self, S, NE, E, SE]. A missing neighbour is
// reported as NoNeighbour.
func Neighbours(index uint64, depth uint8) ([9]int64, error) {
	var out [9]int64
	if err := CheckIndex(index, depth); err != nil {
		return out, err
	}
	face, ix, iy := decode(index, depth)
	nside := int64(Nside(depth))
	for slot, off := range slotOffsets {
		if slot == SlotSelf {
			out[slot] = int64(index)
			continue
		}
		x := int64(ix) + off[0]
		y := int64(iy) + off[1]
		pattern := 4
		if x < 0 {
			x += nside
			pattern--
		} else if x >= nside {
			x -= nside
			pattern++
		}
		if y < 0 {
			y += nside
			pattern -= 3
		} else if y >= nside {
			y -= nside
			pattern += 3
		}
		f := nbFace[pattern][face]
		if f < 0 {
			out[slot] = NoNeighbour
			continue
		}
		if sw := nbSwap[pattern][face>>2]; sw != 0 {
			if sw&1 != 0 {
				x = nside - 1 - x
			}
			if sw&2 != 0 {
				y = nside - 1 - y
			}
			if sw&4 != 0 {
				x, y = y, x
			}
		}
		out[slot] = int64(uint64(f)<<(2*depth) | interleave(uint64(x), uint64(y)))
	}
	return out, nil
}
