// Package proj implements the HEALPix planar projection and its
// inverse, plus the decomposition of a sky position into a base facet
// and in-facet coordinates. Both indexing schemes are built on top of
// this package, so hashing and cell geometry cannot drift apart.
//
// Plane conventions follow the reference: x in [0, 8), y in [-2, 2].
// The 12 base facets are diamonds of half-diagonal 1; the north polar
// facets are centered on (1,1), (3,1), (5,1), (7,1), the equatorial
// ones on (0,0), (2,0), (4,0), (6,0) and the south polar ones on
// (1,-1), (3,-1), (5,-1), (7,-1).
package proj

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/skyproj/healpix/pkg/sky"
)

// TransitionZ is sin(lat) at the boundary between the equatorial and
// polar projection zones.
const TransitionZ = 2.0 / 3.0

const quarterPi = math.Pi / 4

var (
	facetCenterX = [12]float64{1, 3, 5, 7, 0, 2, 4, 6, 1, 3, 5, 7}
	facetCenterY = [12]float64{1, 1, 1, 1, 0, 0, 0, 0, -1, -1, -1, -1}
)

// Project maps a sky position to the HEALPix plane. The mapping is
// equal-area and iso-latitude: a horizontal line of the plane is a
// parallel of the sphere.
func Project(p sky.Point) (x, y float64) {
	z := math.Sin(p.Lat)
	xl := sky.WrapLon(p.Lon) / quarterPi
	if xl >= 8 {
		xl = 0
	}
	if math.Abs(z) <= TransitionZ {
		return xl, 1.5 * z
	}
	// Polar zone: shrink the parallel towards the facet center.
	col := math.Floor(xl / 2)
	if col > 3 {
		col = 3
	}
	xc := 2*col + 1
	sigma := math.Sqrt(3 * (1 - math.Abs(z)))
	x = xc + (xl-xc)*sigma
	y = 2 - sigma
	if z < 0 {
		y = -y
	}
	return x, y
}

// Unproject is the inverse of Project. At the poles (|y| = 2) the
// longitude is the canonical facet-center longitude, matching what
// Project produces for latitude +-pi/2.
func Unproject(x, y float64) (sky.Point, error) {
	if math.Abs(y) > 2 {
		return sky.Point{}, fmt.Errorf("%w: plane y %g not in [-2, 2]", sky.ErrRange, y)
	}
	x = math.Mod(x, 8)
	if x < 0 {
		x += 8
	}
	if math.Abs(y) <= 1 {
		return sky.Point{
			Lon: sky.WrapLon(x * quarterPi),
			Lat: math.Asin(y / 1.5),
		}, nil
	}
	sigma := 2 - math.Abs(y)
	z := 1 - sigma*sigma/3
	// cos(lat) = sqrt((1-z)(1+z)), expanded in sigma to stay exact
	// near the pole where z -> 1.
	cosLat := sigma * math.Sqrt((2-sigma*sigma/3)/3)
	lat := math.Atan2(z, cosLat)
	if y < 0 {
		lat = -lat
	}
	col := math.Floor(x / 2)
	if col > 3 {
		col = 3
	}
	xc := 2*col + 1
	lon := xc
	if sigma > 0 {
		lon = xc + (x-xc)/sigma
	}
	return sky.Point{Lon: sky.WrapLon(lon * quarterPi), Lat: lat}, nil
}

// FacetXY locates a sky position on the base-facet grid at the given
// nside (a power of two): the facet index in [0, 12), the discrete
// in-facet cell (ix, iy) in [0, nside) and the sub-cell offsets
// (dx, dy) in [0, 1]. Points exactly on a cell boundary resolve the
// same way in both hemispheres (floor on the ascending/descending
// edge indices), so ties are deterministic.
func FacetXY(p sky.Point, nside uint64) (face int, ix, iy uint64, dx, dy float64) {
	depth := uint(bits.TrailingZeros64(nside))
	n := float64(nside)
	z := math.Sin(p.Lat)
	tt := sky.WrapLon(p.Lon) / sky.HalfPi // [0, 4)
	if tt >= 4 {
		tt = 0
	}

	if math.Abs(z) <= TransitionZ {
		// Equatorial zone: jpf grows along the north-east facet edges,
		// jmf along the south-east ones.
		jpf := n * (0.5 + tt - z*0.75)
		jmf := n * (0.5 + tt + z*0.75)
		jp := uint64(jpf)
		jm := uint64(jmf)
		ifp := jp >> depth
		ifm := jm >> depth
		switch {
		case ifp == ifm:
			face = int(ifp&3) + 4
		case ifp < ifm:
			face = int(ifp & 3)
		default:
			face = int(ifm&3) + 8
		}
		ix = jm & (nside - 1)
		iy = nside - 1 - (jp & (nside - 1))
		dx = jmf - math.Floor(jmf)
		dy = 1 - (jpf - math.Floor(jpf))
		return face, ix, iy, dx, dy
	}

	// Polar caps.
	ntt := int(tt)
	if ntt > 3 {
		ntt = 3
	}
	tp := tt - float64(ntt)
	sig := n * math.Sqrt(3*(1-math.Abs(z)))
	jpf := tp * sig
	jmf := (1 - tp) * sig
	jp := uint64(jpf)
	if jp > nside-1 {
		jp = nside - 1
	}
	jm := uint64(jmf)
	if jm > nside-1 {
		jm = nside - 1
	}
	if z >= 0 {
		face = ntt
		ix = nside - 1 - jm
		iy = nside - 1 - jp
		dx = float64(jm+1) - jmf
		dy = float64(jp+1) - jpf
	} else {
		face = ntt + 8
		ix = jp
		iy = jm
		dx = math.Min(jpf-float64(jp), 1)
		dy = math.Min(jmf-float64(jm), 1)
	}
	return face, ix, iy, dx, dy
}

// PlaneXY maps continuous in-facet coordinates (u, v in [0, nside])
// to plane coordinates. u grows towards north-east, v towards
// north-west; (0, 0) is the south corner of the facet.
func PlaneXY(face int, u, v float64, nside uint64) (x, y float64) {
	n := float64(nside)
	x = facetCenterX[face] + (u-v)/n
	if x < 0 {
		x += 8
	} else if x >= 8 {
		x -= 8
	}
	y = facetCenterY[face] + (u+v-n)/n
	return x, y
}
