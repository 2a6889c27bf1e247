package victimcache

import "log"

// Cache is a fully-associative victim cache with true LRU replacement, a
// smart insertion filter, and a runtime-resizable logical capacity.
//
// The entries slice is allocated once at Config.MaxSize; CurrentSize is a
// logical window over the first CurrentSize entries. Resizing therefore
// never reallocates and is O(CurrentSize).
//
// Cache is not safe for concurrent use.
type Cache struct {
	config Config

	entries     []Entry
	currentSize uint32

	globalLRUCounter uint64

	stats Stats

	accessHistory []uint64
	historyHead   int
	historyLen    int

	reuseCounters []uint32

	lastSequentialAddr uint64
	haveSequentialAddr bool
	sequentialCount    uint32
}

// New constructs a Cache from the given configuration. CurrentSize starts
// at config.DefaultSize.
func New(config Config) *Cache {
	c := &Cache{
		config:        config,
		entries:       make([]Entry, config.MaxSize),
		currentSize:   config.DefaultSize,
		accessHistory: make([]uint64, accessHistoryCapacity),
		reuseCounters: make([]uint32, reuseCounterBuckets),
	}

	return c
}

// NewDefault constructs a Cache using DefaultConfig.
func NewDefault() *Cache {
	return New(DefaultConfig())
}

// CurrentSize returns the logical capacity.
func (c *Cache) CurrentSize() uint32 {
	return c.currentSize
}

// Stats returns a copy of the current statistics.
func (c *Cache) Stats() Stats {
	return c.stats
}

// ResetStats zeroes all counters and history.
func (c *Cache) ResetStats() {
	c.stats = Stats{}
}

// HitRate returns the hit rate last snapshotted by UpdatePhaseStats or
// SyncRates.
func (c *Cache) HitRate() float64 {
	return c.stats.HitRate
}

// ReuseFrequency returns the reuse frequency last snapshotted by
// UpdatePhaseStats or SyncRates.
func (c *Cache) ReuseFrequency() float64 {
	return c.stats.ReuseFrequency
}

// BlockTag derives the block identifier carried in Entry.Tag (address>>6,
// matching BlockSize=64). Callers constructing Insert/InsertSmart
// arguments from a raw address use this to derive the tag.
func BlockTag(addr uint64) uint64 {
	return addr >> 6
}

// findEntry returns the index of the valid entry matching addr, if any.
func (c *Cache) findEntry(addr uint64) (int, bool) {
	for i := uint32(0); i < c.currentSize; i++ {
		if c.entries[i].Valid && c.entries[i].Address == addr {
			return int(i), true
		}
	}
	return -1, false
}

// findLRUWay returns the entry to evict: the first invalid way, else the
// valid way with the smallest LRUCounter, breaking ties by lowest index.
func (c *Cache) findLRUWay() uint32 {
	lruWay := uint32(0)
	minLRU := ^uint64(0)

	for i := uint32(0); i < c.currentSize; i++ {
		if !c.entries[i].Valid {
			return i
		}
		if c.entries[i].LRUCounter < minLRU {
			minLRU = c.entries[i].LRUCounter
			lruWay = i
		}
	}

	return lruWay
}

// stampLRU assigns a freshly incremented, strictly monotonic LRU counter
// value to the entry at way.
func (c *Cache) stampLRU(way uint32) {
	c.entries[way].LRUCounter = c.globalLRUCounter
	c.globalLRUCounter++
}

// Lookup probes the cache for addr. It always counts the access; on a hit
// it bumps the entry's access count and restamps its recency.
func (c *Cache) Lookup(addr uint64) bool {
	c.stats.TotalAccesses++

	way, ok := c.findEntry(addr)
	if ok {
		c.stats.VictimHits++
		c.entries[way].AccessCount++
		c.stampLRU(uint32(way))
		return true
	}

	c.stats.VictimMisses++
	return false
}

// Insert is equivalent to InsertSmart(addr, tag, data, 0).
func (c *Cache) Insert(addr, tag uint64, data []byte) {
	c.InsertSmart(addr, tag, data, 0)
}

// InsertSmart runs the smart insertion pipeline: it records addr into the
// access history and reuse counters, decides whether to admit the block
// (rejecting streaming accesses and blocks with a low predicted reuse
// score), and if admitted either coalesces into an existing entry or
// evicts the LRU way.
func (c *Cache) InsertSmart(addr, tag uint64, data []byte, accessCount uint32) {
	c.updateAccessHistory(addr)

	if !c.shouldInsert(addr, accessCount) {
		return
	}

	c.stats.VictimInsertions++

	if way, ok := c.findEntry(addr); ok {
		c.stampLRU(uint32(way))
		c.entries[way].AccessCount++
		c.entries[way].HighReuseBlock = true
		c.stats.PredictedReuses++
		return
	}

	way := c.findLRUWay()

	if c.entries[way].Valid {
		c.stats.VictimEvictions++
	}

	e := &c.entries[way]
	e.Address = addr
	e.Tag = tag
	if data != nil {
		if e.Data == nil {
			e.Data = make([]byte, len(data))
		}
		copy(e.Data, data)
	}
	e.Valid = true
	e.InsertionTime = c.globalLRUCounter
	e.AccessCount = accessCount
	e.ReuseDistance = 0
	e.HighReuseBlock = accessCount >= c.config.ReusePredictionThreshold

	c.stampLRU(way)
}

// updateAccessHistory appends addr to the bounded access-history FIFO and
// bumps its reuse counter bucket.
func (c *Cache) updateAccessHistory(addr uint64) {
	if c.historyLen < accessHistoryCapacity {
		c.accessHistory[(c.historyHead+c.historyLen)%accessHistoryCapacity] = addr
		c.historyLen++
	} else {
		c.accessHistory[c.historyHead] = addr
		c.historyHead = (c.historyHead + 1) % accessHistoryCapacity
	}

	idx := (addr / c.config.BlockSize) % reuseCounterBuckets
	c.reuseCounters[idx]++
}

// shouldInsert implements the admission decision: streaming accesses are
// bypassed outright; otherwise a block is admitted when its upstream
// access count already meets ReusePredictionThreshold or its predicted
// reuse score is at least 2.
func (c *Cache) shouldInsert(addr uint64, accessCount uint32) bool {
	if c.isStreamingAccess(addr) {
		c.stats.BypassedInsertions++
		return false
	}

	reuseScore := c.predictReusePotential(addr)

	if accessCount >= c.config.ReusePredictionThreshold || reuseScore >= 2 {
		return true
	}

	c.stats.BypassedInsertions++
	return false
}

// isStreamingAccess tracks a run of strictly sequential block-aligned
// addresses. It always records addr as the new reference point; it
// reports streaming once the run exceeds BypassStreamingThreshold.
func (c *Cache) isStreamingAccess(addr uint64) bool {
	streaming := false

	if c.haveSequentialAddr && addr == c.lastSequentialAddr+c.config.BlockSize {
		c.sequentialCount++
		if c.sequentialCount > c.config.BypassStreamingThreshold {
			streaming = true
		}
	} else {
		c.sequentialCount = 0
	}

	c.lastSequentialAddr = addr
	c.haveSequentialAddr = true

	return streaming
}

// predictReusePotential scores addr by combining its reuse-counter bucket
// with the number of times it appears in the last reuseScanWindow entries
// of the access history.
func (c *Cache) predictReusePotential(addr uint64) uint32 {
	idx := (addr / c.config.BlockSize) % reuseCounterBuckets
	score := c.reuseCounters[idx]

	window := c.historyLen
	if window > reuseScanWindow {
		window = reuseScanWindow
	}

	for i := 0; i < window; i++ {
		pos := (c.historyHead + c.historyLen - 1 - i + accessHistoryCapacity) % accessHistoryCapacity
		if c.accessHistory[pos] == addr {
			score++
		}
	}

	return score
}

// EvictLRU evicts the way findLRUWay selects. It reports false without
// effect if that way is invalid, which is the case whenever any active
// way is invalid, since findLRUWay prefers invalid ways.
func (c *Cache) EvictLRU() (addr uint64, data []byte, ok bool) {
	way := c.findLRUWay()

	if !c.entries[way].Valid {
		return 0, nil, false
	}

	addr = c.entries[way].Address
	data = c.entries[way].Data

	c.entries[way].invalidate()
	c.stats.VictimEvictions++

	return addr, data, true
}

// PromoteToLLC invalidates the entry at way, counting it as an LLC
// promotion, if way names a valid active entry.
func (c *Cache) PromoteToLLC(way int) {
	if way < 0 || uint32(way) >= c.currentSize || !c.entries[way].Valid {
		return
	}

	c.stats.LLCPromotions++
	c.entries[way].invalidate()
}

// Resize changes the logical capacity. Out-of-range requests are rejected
// with a logged diagnostic and leave state unchanged; Resize reports
// whether it applied the change. Shrinking invalidates (and counts as
// evictions) every valid entry that falls outside the new window; growing
// exposes already-invalid slots as immediate LRU victims.
func (c *Cache) Resize(newSize uint32) bool {
	if newSize < c.config.MinSize || newSize > c.config.MaxSize {
		log.Printf("victimcache: rejecting resize to %d entries (valid range [%d,%d])",
			newSize, c.config.MinSize, c.config.MaxSize)
		return false
	}

	if newSize < c.currentSize {
		for i := newSize; i < c.currentSize; i++ {
			if c.entries[i].Valid {
				c.entries[i].invalidate()
				c.stats.VictimEvictions++
			}
		}
	}

	c.currentSize = newSize

	return true
}

// Occupancy returns the fraction of the logical window that holds valid
// entries.
func (c *Cache) Occupancy() float64 {
	if c.currentSize == 0 {
		return 0
	}
	return float64(c.validEntries()) / float64(c.currentSize)
}

func (c *Cache) validEntries() uint32 {
	count := uint32(0)
	for i := uint32(0); i < c.currentSize; i++ {
		if c.entries[i].Valid {
			count++
		}
	}
	return count
}

// SyncRates recomputes OccupancyRate, HitRate and ReuseFrequency from the
// current counters without appending to the phase history. A driver that
// needs a fresh read before consulting HitRate/Occupancy/ReuseFrequency
// (for example, an adaptation controller) calls this immediately
// beforehand; UpdatePhaseStats is the PhaseWindow-gated variant that also
// records a history point.
func (c *Cache) SyncRates() {
	c.stats.OccupancyRate = c.Occupancy()
	c.stats.updateRates()
}

// UpdatePhaseStats snapshots occupancy, hit-rate and miss-ratio once per
// config.PhaseWindow instructions.
func (c *Cache) UpdatePhaseStats(instructionCount uint64) {
	if c.config.PhaseWindow == 0 || instructionCount%c.config.PhaseWindow != 0 {
		return
	}

	c.stats.OccupancyRate = c.Occupancy()
	c.stats.updateRates()
	c.stats.recordPhase()
}
