package healpix

import (
	"fmt"

	"github.com/skyproj/healpix/internal/parallel"
	"github.com/skyproj/healpix/pkg/ring"
	"github.com/skyproj/healpix/pkg/sky"
)

func checkRingIndexes(index []uint64, nside uint64) error {
	if err := ring.CheckNside(nside); err != nil {
		return err
	}
	npix := ring.NumCells(nside)
	for i, ix := range index {
		if ix >= npix {
			return fmt.Errorf("index %d: %w: %d not in [0, %d) for nside %d", i, sky.ErrRange, ix, npix, nside)
		}
	}
	return nil
}

// RingHash returns the ring cell index of every position, plus the
// in-cell offsets (dx, dy) in [0, 1] of each point.
func RingHash(lon, lat []float64, nside uint64, workers int) (index []uint64, dx, dy []float64, err error) {
	if err := ring.CheckNside(nside); err != nil {
		return nil, nil, nil, err
	}
	pts, err := checkPoints(lon, lat)
	if err != nil {
		return nil, nil, nil, err
	}
	index = make([]uint64, len(pts))
	dx = make([]float64, len(pts))
	dy = make([]float64, len(pts))
	parallel.Map(len(pts), workers, func(i int) {
		index[i], dx[i], dy[i] = ring.HashUnchecked(pts[i], nside)
	})
	return index, dx, dy, nil
}

// RingCenters returns the position at offsets (dx, dy) inside every
// ring cell. Nil dx or dy means cell centers (0.5).
func RingCenters(index []uint64, nside uint64, dx, dy []float64, workers int) ([]sky.Point, error) {
	if err := checkRingIndexes(index, nside); err != nil {
		return nil, err
	}
	if dx != nil && len(dx) != len(index) {
		return nil, fmt.Errorf("%w: %d dx offsets vs %d indexes", sky.ErrStructural, len(dx), len(index))
	}
	if dy != nil && len(dy) != len(index) {
		return nil, fmt.Errorf("%w: %d dy offsets vs %d indexes", sky.ErrStructural, len(dy), len(index))
	}
	at := func(off []float64, i int) float64 {
		if off == nil {
			return 0.5
		}
		return off[i]
	}
	for i := range index {
		if _, err := ring.Unhash(index[i], nside, at(dx, i), at(dy, i)); err != nil {
			return nil, fmt.Errorf("index %d: %w", i, err)
		}
	}
	out := make([]sky.Point, len(index))
	parallel.Map(len(index), workers, func(i int) {
		out[i], _ = ring.Unhash(index[i], nside, at(dx, i), at(dy, i))
	})
	return out, nil
}

// RingVertices returns the corners of every ring cell in south, east,
// north, west order. Only step 1 is supported by the ring scheme.
func RingVertices(index []uint64, nside uint64, step, workers int) ([][]sky.Point, error) {
	if err := checkRingIndexes(index, nside); err != nil {
		return nil, err
	}
	if step != 1 {
		if _, err := ring.Vertices(0, nside, step); err != nil {
			return nil, err
		}
	}
	out := make([][]sky.Point, len(index))
	parallel.Map(len(index), workers, func(i int) {
		out[i], _ = ring.Vertices(index[i], nside, step)
	})
	return out, nil
}

// RingProjected returns the plane coordinates of every ring cell
// center, x in [0, 8), y in [-2, 2].
func RingProjected(index []uint64, nside uint64, workers int) (x, y []float64, err error) {
	if err := checkRingIndexes(index, nside); err != nil {
		return nil, nil, err
	}
	x = make([]float64, len(index))
	y = make([]float64, len(index))
	parallel.Map(len(index), workers, func(i int) {
		x[i], y[i], _ = ring.ProjectedCenter(index[i], nside)
	})
	return x, y, nil
}

// RingToNested converts ring indexes to nested indexes of the same
// cells.
func RingToNested(index []uint64, nside uint64, workers int) ([]uint64, error) {
	if err := checkRingIndexes(index, nside); err != nil {
		return nil, err
	}
	out := make([]uint64, len(index))
	parallel.Map(len(index), workers, func(i int) {
		out[i], _ = ring.ToNested(index[i], nside)
	})
	return out, nil
}

// NestedToRing converts nested indexes to ring indexes of the same
// cells.
func NestedToRing(index []uint64, nside uint64, workers int) ([]uint64, error) {
	if err := ring.CheckNside(nside); err != nil {
		return nil, err
	}
	for i := range index {
		if _, err := ring.FromNested(index[i], nside); err != nil {
			return nil, fmt.Errorf("index %d: %w", i, err)
		}
	}
	out := make([]uint64, len(index))
	parallel.Map(len(index), workers, func(i int) {
		out[i], _ = ring.FromNested(index[i], nside)
	})
	return out, nil
}
