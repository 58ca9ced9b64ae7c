package coverage

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/skyproj/healpix/internal/covercache"
	"github.com/skyproj/healpix/internal/metrics"
	"github.com/skyproj/healpix/pkg/bmoc"
	"github.com/skyproj/healpix/pkg/nested"
	"github.com/skyproj/healpix/pkg/sky"
)

// DefaultDeltaDepth is how many levels deeper than the requested
// depth the engine evaluates cells before degrading the result back.
// Deeper evaluation tightens partial cells at the cost of visiting
// more of the hierarchy.
const DefaultDeltaDepth = 2

// Engine walks the cell hierarchy to cover regions. The zero-value
// configuration (no logger, no metrics, no cache) works; use New with
// options to attach them.
type Engine struct {
	log   zerolog.Logger
	stats *metrics.Coverage
	cache *covercache.Cache
	delta uint8
}

type Option func(*Engine)

func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

func WithMetrics(m *metrics.Coverage) Option {
	return func(e *Engine) { e.stats = m }
}

func WithCache(c *covercache.Cache) Option {
	return func(e *Engine) { e.cache = c }
}

// WithDeltaDepth overrides DefaultDeltaDepth.
func WithDeltaDepth(delta uint8) Option {
	return func(e *Engine) { e.delta = delta }
}

func New(opts ...Option) *Engine {
	e := &Engine{log: zerolog.Nop(), delta: DefaultDeltaDepth}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Cone returns the coverage of a spherical cap at the given depth.
func (e *Engine) Cone(center sky.Point, radius float64, depth uint8) (*bmoc.BMOC, error) {
	r, err := NewCone(center, radius)
	if err != nil {
		return nil, err
	}
	key := covercache.Key("cone", depth, e.delta, r.center.Lon, r.center.Lat, r.radius)
	return e.cover("cone", key, r, depth)
}

// EllipticalCone returns the coverage of an elliptical cap at the
// given depth.
func (e *Engine) EllipticalCone(center sky.Point, a, b, pa float64, depth uint8) (*bmoc.BMOC, error) {
	r, err := NewEllipticalCone(center, a, b, pa)
	if err != nil {
		return nil, err
	}
	key := covercache.Key("ellipse", depth, e.delta, r.center.Lon, r.center.Lat, r.a, r.b, r.pa)
	return e.cover("ellipse", key, r, depth)
}

// Polygon returns the coverage of a spherical polygon at the given
// depth.
func (e *Engine) Polygon(vertices []sky.Point, depth uint8) (*bmoc.BMOC, error) {
	r, err := NewPolygon(vertices)
	if err != nil {
		return nil, err
	}
	params := make([]float64, 0, 2*len(r.vertices))
	for _, v := range r.vertices {
		params = append(params, v.Lon, v.Lat)
	}
	key := covercache.Key("polygon", depth, e.delta, params...)
	return e.cover("polygon", key, r, depth)
}

// Cover runs the hierarchy walk for an arbitrary Region. Results of
// custom regions are not cached since their parameters are opaque.
func (e *Engine) Cover(r Region, depth uint8) (*bmoc.BMOC, error) {
	return e.cover("custom", 0, r, depth)
}

func (e *Engine) cover(kind string, key uint64, r Region, depth uint8) (*bmoc.BMOC, error) {
	if err := nested.CheckDepth(depth); err != nil {
		return nil, err
	}
	eval := uint16(depth) + uint16(e.delta)
	if eval > nested.MaxDepth {
		return nil, fmt.Errorf("%w: evaluation depth %d (depth %d + delta %d) exceeds %d",
			sky.ErrRange, eval, depth, e.delta, nested.MaxDepth)
	}
	e.stats.Query(kind)

	cacheable := kind != "custom"
	if cacheable {
		if b, ok := e.cache.Get(key); ok {
			e.stats.Cache(true)
			return b, nil
		}
		e.stats.Cache(false)
	}

	b := e.walk(r, depth, uint8(eval))
	if cacheable {
		e.cache.Add(key, b)
	}
	e.stats.Result(b.Len())
	e.log.Debug().
		Str("region", kind).
		Uint8("depth", depth).
		Int("cells", b.Len()).
		Msg("coverage computed")
	return b, nil
}

type walkItem struct {
	depth uint8
	index uint64
}

// walk runs a depth-first descent from the 12 base cells, classifying
// each cell through its bounding cap. Full cells stop the descent;
// partial cells split until evalDepth, where they are recorded as
// partial. Children are pushed in reverse so cells come out in
// ascending depth-mixed order.
func (e *Engine) walk(r Region, depth, evalDepth uint8) *bmoc.BMOC {
	radii := make([]float64, evalDepth+1)
	for d := range radii {
		radii[d] = MaxCellRadius(uint8(d))
	}

	bld := bmoc.NewBuilder(evalDepth, 256)
	stack := make([]walkItem, 0, 12+3*int(evalDepth)*4)
	for f := 11; f >= 0; f-- {
		stack = append(stack, walkItem{depth: 0, index: uint64(f)})
	}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		center := nested.CenterUnchecked(it.index, it.depth)
		switch r.Classify(center, radii[it.depth]) {
		case Outside:
		case Full:
			bld.Push(it.depth, it.index, true)
		default:
			if it.depth == evalDepth {
				bld.Push(it.depth, it.index, false)
				continue
			}
			first := it.index << 2
			for j := int64(3); j >= 0; j-- {
				stack = append(stack, walkItem{depth: it.depth + 1, index: first + uint64(j)})
			}
		}
	}
	return bld.Build().Degrade(depth)
}

// MaxCellRadius bounds the distance from any cell center to the
// farthest point of its cell at the given depth. The worst cell sits
// at the equatorial-polar transition; the bound is the distance from
// its center to its north corner.
func MaxCellRadius(depth uint8) float64 {
	n := float64(uint64(1) << depth)
	center := sky.Point{Lon: math.Pi / (4 * n), Lat: math.Asin(2.0 / 3.0)}
	t := 1 - 1/n
	corner := sky.Point{Lon: 0, Lat: math.Asin(1 - t*t/3)}
	return center.Dist(corner)
}
