// Package healpix is the batch front of the module: vectorized
// hashing, cell geometry and region searches over the hierarchical
// equal-area sphere tessellation. Scalar operations live in the
// scheme packages pkg/nested and pkg/ring; region coverage in
// pkg/coverage.
//
// Batch operations validate all inputs up front, then fan the work
// out over a worker pool. workers <= 0 selects GOMAXPROCS.
package healpix

import (
	"fmt"

	"github.com/skyproj/healpix/internal/parallel"
	"github.com/skyproj/healpix/pkg/nested"
	"github.com/skyproj/healpix/pkg/sky"
)

func checkPoints(lon, lat []float64) ([]sky.Point, error) {
	if len(lon) != len(lat) {
		return nil, fmt.Errorf("%w: %d longitudes vs %d latitudes", sky.ErrStructural, len(lon), len(lat))
	}
	pts := make([]sky.Point, len(lon))
	for i := range lon {
		p, err := sky.NewPoint(lon[i], lat[i])
		if err != nil {
			return nil, fmt.Errorf("point %d: %w", i, err)
		}
		pts[i] = p
	}
	return pts, nil
}

func checkIndexes(index []uint64, depth uint8) error {
	if err := nested.CheckDepth(depth); err != nil {
		return err
	}
	npix := nested.NumCells(depth)
	for i, ix := range index {
		if ix >= npix {
			return fmt.Errorf("index %d: %w: %d not in [0, %d) at depth %d", i, sky.ErrRange, ix, npix, depth)
		}
	}
	return nil
}

// Hash returns the nested cell index of every position at the given
// depth.
func Hash(lon, lat []float64, depth uint8, workers int) ([]uint64, error) {
	if err := nested.CheckDepth(depth); err != nil {
		return nil, err
	}
	pts, err := checkPoints(lon, lat)
	if err != nil {
		return nil, err
	}
	out := make([]uint64, len(pts))
	parallel.Map(len(pts), workers, func(i int) {
		out[i] = nested.HashUnchecked(pts[i], depth)
	})
	return out, nil
}

// Centers returns the center position of every nested cell.
func Centers(index []uint64, depth uint8, workers int) ([]sky.Point, error) {
	if err := checkIndexes(index, depth); err != nil {
		return nil, err
	}
	out := make([]sky.Point, len(index))
	parallel.Map(len(index), workers, func(i int) {
		out[i] = nested.CenterUnchecked(index[i], depth)
	})
	return out, nil
}

// Vertices returns the four corners of every nested cell in south,
// east, north, west order.
func Vertices(index []uint64, depth uint8, workers int) ([][4]sky.Point, error) {
	if err := checkIndexes(index, depth); err != nil {
		return nil, err
	}
	out := make([][4]sky.Point, len(index))
	parallel.Map(len(index), workers, func(i int) {
		out[i], _ = nested.Vertices(index[i], depth)
	})
	return out, nil
}

// Neighbours returns the 9-slot neighbour record of every nested
// cell; missing diagonal neighbours are nested.NoNeighbour.
func Neighbours(index []uint64, depth uint8, workers int) ([][9]int64, error) {
	if err := checkIndexes(index, depth); err != nil {
		return nil, err
	}
	out := make([][9]int64, len(index))
	parallel.Map(len(index), workers, func(i int) {
		out[i], _ = nested.Neighbours(index[i], depth)
	})
	return out, nil
}
