// hpxquery runs sky queries from the command line: hash positions to
// cell indexes or cover a cone, ellipse or polygon region with cells.
//
// Coverage results print one cell per line as "depth index full".
// Hash mode reads "lon lat" pairs (degrees) from stdin and prints one
// index per line.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/skyproj/healpix/internal/config"
	"github.com/skyproj/healpix/internal/covercache"
	"github.com/skyproj/healpix/internal/logger"
	"github.com/skyproj/healpix/pkg/bmoc"
	"github.com/skyproj/healpix/pkg/coverage"
	"github.com/skyproj/healpix/pkg/nested"
	"github.com/skyproj/healpix/pkg/sky"
)

const degree = math.Pi / 180

func main() {
	cfg := config.FromEnv()

	mode := flag.String("mode", "cone", "query mode: cone, ellipse, polygon or hash")
	depth := flag.Int("depth", cfg.Depth, "cell depth of the result, 0..29")
	delta := flag.Int("delta", cfg.DeltaDepth, "extra evaluation depth for coverage queries")
	flat := flag.Bool("flat", false, "expand coverage results to a single depth")
	lon := flag.Float64("lon", 0, "region center longitude, degrees")
	lat := flag.Float64("lat", 0, "region center latitude, degrees")
	radius := flag.Float64("radius", 1, "cone radius, degrees")
	semiA := flag.Float64("a", 1, "ellipse semi-major axis, degrees")
	semiB := flag.Float64("b", 0.5, "ellipse semi-minor axis, degrees")
	pa := flag.Float64("pa", 0, "ellipse position angle, degrees east of north")
	verts := flag.String("vertices", "", "polygon vertices as lon1,lat1,lon2,lat2,... degrees")
	flag.Parse()

	log := logger.Build(logger.Config{
		Level:     cfg.LogLevel,
		Console:   cfg.LogConsole,
		Component: "hpxquery",
	}, os.Stderr)

	if *depth < 0 || *depth > nested.MaxDepth {
		log.Fatal().Int("depth", *depth).Msg("depth out of range")
	}
	d := uint8(*depth)

	if *mode == "hash" {
		if err := hashStdin(d); err != nil {
			log.Fatal().Err(err).Msg("hash failed")
		}
		return
	}

	cache, err := covercache.New(cfg.CacheSize)
	if err != nil {
		log.Fatal().Err(err).Msg("cache init failed")
	}
	eng := coverage.New(
		coverage.WithLogger(log),
		coverage.WithCache(cache),
		coverage.WithDeltaDepth(uint8(*delta)),
	)

	center := sky.Point{Lon: *lon * degree, Lat: *lat * degree}
	var b *bmoc.BMOC
	switch *mode {
	case "cone":
		b, err = eng.Cone(center, *radius*degree, d)
	case "ellipse":
		b, err = eng.EllipticalCone(center, *semiA*degree, *semiB*degree, *pa*degree, d)
	case "polygon":
		var pts []sky.Point
		pts, err = parseVertices(*verts)
		if err == nil {
			b, err = eng.Polygon(pts, d)
		}
	default:
		log.Fatal().Str("mode", *mode).Msg("unknown mode")
	}
	if err != nil {
		log.Fatal().Err(err).Str("mode", *mode).Msg("query failed")
	}

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()
	cs := b.Cells()
	if *flat {
		cs = b.FlatCells()
	}
	for _, c := range cs {
		full := 0
		if c.Full {
			full = 1
		}
		fmt.Fprintf(out, "%d %d %d\n", c.Depth, c.Index, full)
	}
	log.Info().Str("mode", *mode).Int("cells", len(cs)).Msg("done")
}

func parseVertices(s string) ([]sky.Point, error) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts)%2 != 0 {
		return nil, fmt.Errorf("odd number of vertex coordinates")
	}
	pts := make([]sky.Point, 0, len(parts)/2)
	for i := 0; i+1 < len(parts); i += 2 {
		vlon, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
		if err != nil {
			return nil, fmt.Errorf("vertex %d longitude: %w", i/2, err)
		}
		vlat, err := strconv.ParseFloat(strings.TrimSpace(parts[i+1]), 64)
		if err != nil {
			return nil, fmt.Errorf("vertex %d latitude: %w", i/2, err)
		}
		pts = append(pts, sky.Point{Lon: vlon * degree, Lat: vlat * degree})
	}
	return pts, nil
}

func hashStdin(depth uint8) error {
	sc := bufio.NewScanner(os.Stdin)
	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 2 {
			return fmt.Errorf("line %d: want \"lon lat\"", line)
		}
		vlon, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		vlat, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		p, err := sky.NewPoint(vlon*degree, vlat*degree)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		ix, err := nested.Hash(p, depth)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		fmt.Fprintf(out, "%d\n", ix)
	}
	return sc.Err()
}
