// Package coverage computes multi-order coverage sets (BMOCs) for
// sky regions: cones, elliptical cones and spherical polygons. Cells
// are classified against a region through a bounding-cap test, so a
// cell is never reported outside when it actually intersects the
// region; full cells are guaranteed fully inside.
package coverage

import (
	"fmt"
	"math"

	"github.com/skyproj/healpix/pkg/sky"
)

// Class is the relation of a cell to a region.
type Class uint8

const (
	Outside Class = iota
	Partial
	Full
)

// Region is a sky region the engine can cover. Classify relates the
// spherical cap of the given center and radius to the region; it may
// report Partial for a cap that is actually outside or fully inside,
// but never the converse.
type Region interface {
	Contains(p sky.Point) bool
	Classify(center sky.Point, radius float64) Class
}

// Cone is a spherical cap: all points within an angular radius of a
// center.
type Cone struct {
	center sky.Point
	radius float64
}

// NewCone validates the center and an angular radius in (0, pi/2).
func NewCone(center sky.Point, radius float64) (*Cone, error) {
	c, err := sky.NewPoint(center.Lon, center.Lat)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(radius) || radius <= 0 || radius >= sky.HalfPi {
		return nil, fmt.Errorf("%w: cone radius %g rad not in (0, pi/2)", sky.ErrDomain, radius)
	}
	return &Cone{center: c, radius: radius}, nil
}

func (c *Cone) Contains(p sky.Point) bool {
	return c.center.Dist(p) <= c.radius
}

func (c *Cone) Classify(center sky.Point, radius float64) Class {
	d := c.center.Dist(center)
	switch {
	case d >= c.radius+radius:
		return Outside
	case d+radius <= c.radius:
		return Full
	default:
		return Partial
	}
}

// EllipticalCone is an elliptical cap: semi-major axis a, semi-minor
// axis b, position angle pa of the major axis measured from north
// towards east.
type EllipticalCone struct {
	center sky.Point
	a, b   float64
	pa     float64
}

// NewEllipticalCone validates a in (0, pi/2) and b in (0, a]. The
// position angle is reduced modulo pi.
func NewEllipticalCone(center sky.Point, a, b, pa float64) (*EllipticalCone, error) {
	c, err := sky.NewPoint(center.Lon, center.Lat)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(a) || a <= 0 || a >= sky.HalfPi {
		return nil, fmt.Errorf("%w: semi-major axis %g rad not in (0, pi/2)", sky.ErrDomain, a)
	}
	if math.IsNaN(b) || b <= 0 || b > a {
		return nil, fmt.Errorf("%w: semi-minor axis %g rad not in (0, %g]", sky.ErrDomain, b, a)
	}
	if math.IsNaN(pa) {
		return nil, fmt.Errorf("%w: position angle is NaN", sky.ErrDomain)
	}
	pa = math.Mod(pa, math.Pi)
	if pa < 0 {
		pa += math.Pi
	}
	return &EllipticalCone{center: c, a: a, b: b, pa: pa}, nil
}

// insideAxes reports whether p falls inside the ellipse with the
// given semi-axes, keeping the cone's center and orientation.
func (e *EllipticalCone) insideAxes(p sky.Point, a, b float64) bool {
	sinLat, cosLat := math.Sincos(p.Lat)
	sinLat0, cosLat0 := math.Sincos(e.center.Lat)
	sinDl, cosDl := math.Sincos(p.Lon - e.center.Lon)
	// Frame rotated so the cone center points along +z; x towards
	// east, y towards north.
	x := cosLat * sinDl
	y := sinLat*cosLat0 - cosLat*sinLat0*cosDl
	z := sinLat*sinLat0 + cosLat*cosLat0*cosDl
	r := math.Atan2(math.Hypot(x, y), z)
	theta := math.Atan2(x, y) // position angle of p, from north
	u := r * math.Cos(theta-e.pa)
	v := r * math.Sin(theta-e.pa)
	return (u/a)*(u/a)+(v/b)*(v/b) <= 1
}

func (e *EllipticalCone) Contains(p sky.Point) bool {
	return e.insideAxes(p, e.a, e.b)
}

// Classify uses shrunken and enlarged ellipses: a cap fully inside
// the ellipse shrunk by its radius is Full, a cap whose center falls
// outside the ellipse grown by its radius is Outside. The small-angle
// growth is approximate near the poles of the ellipse frame, erring
// towards Partial.
func (e *EllipticalCone) Classify(center sky.Point, radius float64) Class {
	if radius < e.b && e.insideAxes(center, e.a-radius, e.b-radius) {
		return Full
	}
	if !e.insideAxes(center, e.a+radius, e.b+radius) {
		return Outside
	}
	return Partial
}

// Polygon is a simple spherical polygon given by its vertices joined
// by great-circle arcs. The interior is the side not containing the
// south pole, unless the vertex walk winds around it.
type Polygon struct {
	vertices  []sky.Point
	vecs      []sky.Vec
	southPole bool
}

// NewPolygon validates at least three vertices with finite
// coordinates. The vertex order (clockwise or counter-clockwise) does
// not matter.
func NewPolygon(vertices []sky.Point) (*Polygon, error) {
	if len(vertices) < 3 {
		return nil, fmt.Errorf("%w: polygon needs at least 3 vertices, got %d", sky.ErrStructural, len(vertices))
	}
	pg := &Polygon{
		vertices: make([]sky.Point, len(vertices)),
		vecs:     make([]sky.Vec, len(vertices)),
	}
	for i, v := range vertices {
		p, err := sky.NewPoint(v.Lon, v.Lat)
		if err != nil {
			return nil, fmt.Errorf("vertex %d: %w", i, err)
		}
		pg.vertices[i] = p
		pg.vecs[i] = p.Vec()
	}
	pg.southPole = containsSouthPole(pg.vertices)
	return pg, nil
}

// containsSouthPole sums the signed longitude steps of the vertex
// walk. A walk that keeps heading west (sum below -pi over the loop)
// winds around the south pole.
func containsSouthPole(vertices []sky.Point) bool {
	var sum float64
	for i, v := range vertices {
		w := vertices[(i+1)%len(vertices)]
		sum += deltaLon(v.Lon, w.Lon)
	}
	return sum < -math.Pi
}

// deltaLon reduces lon2-lon1 to (-pi, pi].
func deltaLon(lon1, lon2 float64) float64 {
	d := lon2 - lon1
	if d > math.Pi {
		d -= sky.TwoPi
	} else if d <= -math.Pi {
		d += sky.TwoPi
	}
	return d
}

// Contains counts the polygon edges crossed by the meridian arc from
// p down to the south pole. An odd count means p and the pole are on
// opposite sides.
func (pg *Polygon) Contains(p sky.Point) bool {
	crossings := 0
	for i := range pg.vertices {
		j := (i + 1) % len(pg.vertices)
		if edgeCrossesSouthOf(p, pg.vertices[i], pg.vertices[j], pg.vecs[i], pg.vecs[j]) {
			crossings++
		}
	}
	return (crossings&1 == 1) != pg.southPole
}

// edgeCrossesSouthOf reports whether the great-circle arc a-b crosses
// the meridian of p strictly below p's latitude. Vertices landing
// exactly on the meridian count on the east side only, so shared
// vertices of adjacent edges are never double counted.
func edgeCrossesSouthOf(p, a, b sky.Point, va, vb sky.Vec) bool {
	d1 := deltaLon(p.Lon, a.Lon)
	d2 := deltaLon(p.Lon, b.Lon)
	if (d1 > 0) == (d2 > 0) {
		return false
	}
	// The shorter lon interval must straddle the meridian; an edge
	// straddling the antimeridian of p does not cross it.
	if math.Abs(d1-d2) > math.Pi {
		return false
	}
	// Intersection of the edge's great circle with the meridian plane,
	// picked on p's half of the meridian.
	sinL, cosL := math.Sincos(p.Lon)
	n := va.Cross(vb)
	m := sky.Vec{X: -sinL, Y: cosL, Z: 0}
	x := n.Cross(m)
	if x.X*cosL+x.Y*sinL < 0 {
		x = sky.Vec{X: -x.X, Y: -x.Y, Z: -x.Z}
	}
	crossLat := math.Atan2(x.Z, math.Hypot(x.X, x.Y))
	return crossLat < p.Lat
}

// Classify reports Partial as soon as an edge passes within the cap
// radius of its center, otherwise decides by point membership of the
// center. Never reports Outside for an intersecting cap.
func (pg *Polygon) Classify(center sky.Point, radius float64) Class {
	c := center.Vec()
	for i := range pg.vecs {
		j := (i + 1) % len(pg.vecs)
		if arcDist(c, pg.vecs[i], pg.vecs[j]) <= radius {
			return Partial
		}
	}
	if pg.Contains(center) {
		return Full
	}
	return Outside
}

// arcDist returns the angular distance from unit vector p to the
// great-circle arc a-b.
func arcDist(p, a, b sky.Vec) float64 {
	n := a.Cross(b)
	if n.Cross(a).Dot(p) >= 0 && b.Cross(n).Dot(p) >= 0 {
		nn := n.Norm()
		if nn == 0 {
			return p.Angle(a)
		}
		s := math.Abs(n.Dot(p)) / nn
		if s > 1 {
			s = 1
		}
		return math.Asin(s)
	}
	return math.Min(p.Angle(a), p.Angle(b))
}
