// Package sky defines the shared spherical-geometry primitives used by
// the indexing schemes and the coverage engine: positions on the unit
// sphere, unit vectors, angular distances and the error taxonomy.
package sky

import (
	"errors"
	"fmt"
	"math"
)

// Error taxonomy. Every error returned by this module wraps one of
// these sentinels, so callers can branch with errors.Is.
var (
	// ErrRange marks a depth, nside, index or coordinate outside its
	// valid bounds.
	ErrRange = errors.New("out of range")
	// ErrDomain marks geometrically invalid region parameters.
	ErrDomain = errors.New("invalid domain")
	// ErrStructural marks malformed input shapes.
	ErrStructural = errors.New("malformed input")
)

const (
	TwoPi  = 2 * math.Pi
	HalfPi = math.Pi / 2
)

// Point is a position on the unit sphere, in radians.
// Lon is in [0, 2pi), Lat in [-pi/2, pi/2].
type Point struct {
	Lon float64
	Lat float64
}

// NewPoint wraps lon into [0, 2pi) and validates lat.
func NewPoint(lon, lat float64) (Point, error) {
	if math.IsNaN(lon) || math.IsNaN(lat) {
		return Point{}, fmt.Errorf("%w: coordinate is NaN", ErrRange)
	}
	if lat < -HalfPi || lat > HalfPi {
		return Point{}, fmt.Errorf("%w: latitude %g rad not in [-pi/2, pi/2]", ErrRange, lat)
	}
	return Point{Lon: WrapLon(lon), Lat: lat}, nil
}

// WrapLon reduces a longitude to [0, 2pi).
func WrapLon(lon float64) float64 {
	lon = math.Mod(lon, TwoPi)
	if lon < 0 {
		lon += TwoPi
	}
	return lon
}

// Dist returns the great-circle angular distance to q, in radians.
// Haversine form, stable for small separations.
func (p Point) Dist(q Point) float64 {
	sdLat := math.Sin((q.Lat - p.Lat) / 2)
	sdLon := math.Sin((q.Lon - p.Lon) / 2)
	h := sdLat*sdLat + math.Cos(p.Lat)*math.Cos(q.Lat)*sdLon*sdLon
	if h >= 1 {
		return math.Pi
	}
	return 2 * math.Asin(math.Sqrt(h))
}

// Vec returns the unit vector of p.
func (p Point) Vec() Vec {
	cl := math.Cos(p.Lat)
	return Vec{X: cl * math.Cos(p.Lon), Y: cl * math.Sin(p.Lon), Z: math.Sin(p.Lat)}
}

// Vec is a vector in R^3. Vectors produced by Point.Vec have unit norm.
type Vec struct {
	X, Y, Z float64
}

// Point converts back to angular coordinates.
func (v Vec) Point() Point {
	return Point{
		Lon: WrapLon(math.Atan2(v.Y, v.X)),
		Lat: math.Atan2(v.Z, math.Hypot(v.X, v.Y)),
	}
}

func (v Vec) Dot(w Vec) float64 {
	return v.X*w.X + v.Y*w.Y + v.Z*w.Z
}

func (v Vec) Cross(w Vec) Vec {
	return Vec{
		X: v.Y*w.Z - v.Z*w.Y,
		Y: v.Z*w.X - v.X*w.Z,
		Z: v.X*w.Y - v.Y*w.X,
	}
}

func (v Vec) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

// Normalize scales v to unit norm. The zero vector is returned as is.
func (v Vec) Normalize() Vec {
	n := v.Norm()
	if n == 0 {
		return v
	}
	return Vec{X: v.X / n, Y: v.Y / n, Z: v.Z / n}
}

// Angle returns the angle between two unit vectors, in radians.
// atan2 form, accurate for both small and near-pi angles.
func (v Vec) Angle(w Vec) float64 {
	return math.Atan2(v.Cross(w).Norm(), v.Dot(w))
}
