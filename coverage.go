package healpix

import (
	"github.com/skyproj/healpix/internal/covercache"
	"github.com/skyproj/healpix/pkg/bmoc"
	"github.com/skyproj/healpix/pkg/coverage"
	"github.com/skyproj/healpix/pkg/sky"
)

// The package-level searches share one engine with a small result
// cache. Callers needing their own logging, metrics or cache sizing
// build a coverage.Engine directly.
var defaultEngine = func() *coverage.Engine {
	cache, _ := covercache.New(128)
	return coverage.New(coverage.WithCache(cache))
}()

func cells(b *bmoc.BMOC, flat bool) []bmoc.Cell {
	if flat {
		return b.FlatCells()
	}
	return b.Cells()
}

// ConeSearch returns the cells covering the cone of the given center
// and angular radius at the given depth. With flat set, the result is
// expanded to a single depth instead of the compact multi-order form.
func ConeSearch(lon, lat, radius float64, depth uint8, flat bool) ([]bmoc.Cell, error) {
	b, err := defaultEngine.Cone(sky.Point{Lon: lon, Lat: lat}, radius, depth)
	if err != nil {
		return nil, err
	}
	return cells(b, flat), nil
}

// EllipticalConeSearch returns the cells covering an elliptical cone:
// semi-axes a >= b and position angle pa of the major axis, measured
// from north towards east.
func EllipticalConeSearch(lon, lat, a, b, pa float64, depth uint8, flat bool) ([]bmoc.Cell, error) {
	bm, err := defaultEngine.EllipticalCone(sky.Point{Lon: lon, Lat: lat}, a, b, pa, depth)
	if err != nil {
		return nil, err
	}
	return cells(bm, flat), nil
}

// PolygonSearch returns the cells covering the spherical polygon with
// the given vertices, joined by great-circle arcs.
func PolygonSearch(lon, lat []float64, depth uint8, flat bool) ([]bmoc.Cell, error) {
	pts, err := checkPoints(lon, lat)
	if err != nil {
		return nil, err
	}
	b, err := defaultEngine.Polygon(pts, depth)
	if err != nil {
		return nil, err
	}
	return cells(b, flat), nil
}
