// Package covercache memoizes coverage results. Region parameters are
// digested into a single key, so repeated queries for the same region
// and depth skip the hierarchy walk entirely.
package covercache

import (
	"encoding/binary"
	"math"
	"sync"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/skyproj/healpix/pkg/bmoc"
)

// Key digests a region kind, the query depths and the region
// parameters into a cache key.
func Key(kind string, depth, delta uint8, params ...float64) uint64 {
	d := xxhash.New()
	var buf [8]byte
	_, _ = d.WriteString(kind)
	buf[0], buf[1] = depth, delta
	_, _ = d.Write(buf[:2])
	for _, p := range params {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(p))
		_, _ = d.Write(buf[:])
	}
	return d.Sum64()
}

type Cache struct {
	mu  sync.Mutex
	lru *lru.Cache[uint64, *bmoc.BMOC]
}

// New returns a cache holding up to size results. Size must be
// positive.
func New(size int) (*Cache, error) {
	l, err := lru.New[uint64, *bmoc.BMOC](size)
	if err != nil {
		return nil, err
	}
	return &Cache{lru: l}, nil
}

func (c *Cache) Get(key uint64) (*bmoc.BMOC, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Get(key)
}

func (c *Cache) Add(key uint64, b *bmoc.BMOC) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Add(key, b)
}

func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}
