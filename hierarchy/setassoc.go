// Package hierarchy wires together a set-associative L1 and L2, the
// victimcache, phasedetect and adaptive packages into the three
// configurations the simulator compares: no victim cache, a fixed-size
// victim cache, and an adaptively resized one.
package hierarchy

// way is one line of a set-associative cache.
type way struct {
	Tag         uint64
	Valid       bool
	LRUCounter  uint64
	AccessCount uint32
}

// Stats accumulates a set-associative cache's access counters.
type Stats struct {
	Accesses  uint64
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// HitRate returns Hits/Accesses, or 0 if there have been no accesses.
func (s Stats) HitRate() float64 {
	if s.Accesses == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.Accesses)
}

// MissRate returns Misses/Accesses, or 0 if there have been no accesses.
func (s Stats) MissRate() float64 {
	if s.Accesses == 0 {
		return 0
	}
	return float64(s.Misses) / float64(s.Accesses)
}

// SetAssociativeCache is a textbook set-associative cache with true LRU
// replacement, used to model L1 and L2 in the hierarchy.
//
// SetAssociativeCache is not safe for concurrent use.
type SetAssociativeCache struct {
	name          string
	numSets       uint32
	associativity uint32
	blockSize     uint64

	sets [][]way

	globalLRU uint64
	stats     Stats
}

// NewSetAssociativeCache constructs a cache with the given total number of
// lines split into sets of associativity ways each, using blockSize-byte
// blocks.
func NewSetAssociativeCache(name string, lines, associativity uint32, blockSize uint64) *SetAssociativeCache {
	numSets := lines / associativity

	sets := make([][]way, numSets)
	for i := range sets {
		sets[i] = make([]way, associativity)
	}

	return &SetAssociativeCache{
		name:          name,
		numSets:       numSets,
		associativity: associativity,
		blockSize:     blockSize,
		sets:          sets,
	}
}

// Name returns the cache's diagnostic name ("L1 Cache", "L2 Cache", ...).
func (c *SetAssociativeCache) Name() string {
	return c.name
}

// Stats returns a copy of the cache's access statistics.
func (c *SetAssociativeCache) Stats() Stats {
	return c.stats
}

// ResetStats zeroes the cache's access statistics.
func (c *SetAssociativeCache) ResetStats() {
	c.stats = Stats{}
}

func (c *SetAssociativeCache) setIndex(addr uint64) uint32 {
	return uint32((addr / c.blockSize) % uint64(c.numSets))
}

func (c *SetAssociativeCache) findWay(set uint32, tag uint64) (int, bool) {
	for i, w := range c.sets[set] {
		if w.Valid && w.Tag == tag {
			return i, true
		}
	}
	return -1, false
}

func (c *SetAssociativeCache) findLRUWay(set uint32) int {
	lruWay := 0
	minLRU := ^uint64(0)

	for i, w := range c.sets[set] {
		if !w.Valid {
			return i
		}
		if w.LRUCounter < minLRU {
			minLRU = w.LRUCounter
			lruWay = i
		}
	}

	return lruWay
}

func (c *SetAssociativeCache) stamp() uint64 {
	v := c.globalLRU
	c.globalLRU++
	return v
}

// EvictedBlock describes a block evicted by Access to make room for a
// miss, including the access count it had accumulated at this level —
// the out-channel the specification requires the driver to forward to
// the victim cache's smart insertion pipeline.
type EvictedBlock struct {
	Address     uint64
	AccessCount uint32
}

// Access probes the cache for addr. On a hit it restamps recency and bumps
// the line's access count. On a miss it installs addr's block in the LRU
// way of its set; if that way held a valid block, the evicted block (and
// the access count it had accrued) is returned.
func (c *SetAssociativeCache) Access(addr uint64) (hit bool, evicted *EvictedBlock) {
	c.stats.Accesses++

	set := c.setIndex(addr)
	tag := addr / c.blockSize

	if wayIdx, ok := c.findWay(set, tag); ok {
		c.stats.Hits++
		c.sets[set][wayIdx].LRUCounter = c.stamp()
		c.sets[set][wayIdx].AccessCount++
		return true, nil
	}

	c.stats.Misses++

	victimWay := c.findLRUWay(set)

	if c.sets[set][victimWay].Valid {
		c.stats.Evictions++
		evicted = &EvictedBlock{
			Address:     c.sets[set][victimWay].Tag * c.blockSize,
			AccessCount: c.sets[set][victimWay].AccessCount,
		}
	}

	c.sets[set][victimWay] = way{
		Tag:         tag,
		Valid:       true,
		LRUCounter:  c.stamp(),
		AccessCount: 0,
	}

	return false, evicted
}
