package victimcache

import (
	ginkgo "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = ginkgo.Describe("Cache", func() {
	var c *Cache

	ginkgo.BeforeEach(func() {
		c = NewDefault()
	})

	ginkgo.Describe("Lookup", func() {
		ginkgo.It("misses on an empty cache and counts the access", func() {
			Expect(c.Lookup(0x1000)).To(BeFalse())

			stats := c.Stats()
			Expect(stats.TotalAccesses).To(Equal(uint64(1)))
			Expect(stats.VictimMisses).To(Equal(uint64(1)))
			Expect(stats.VictimHits).To(Equal(uint64(0)))
		})

		ginkgo.It("conserves total_accesses == hits + misses", func() {
			c.InsertSmart(0x40, BlockTag(0x40), nil, 2)

			c.Lookup(0x40)
			c.Lookup(0x80)
			c.Lookup(0x40)

			stats := c.Stats()
			Expect(stats.TotalAccesses).To(Equal(stats.VictimHits + stats.VictimMisses))
			Expect(stats.TotalAccesses).To(Equal(uint64(3)))
		})
	})

	ginkgo.Describe("LRU identity (S1)", func() {
		ginkgo.It("keeps the most recently touched entries under full capacity", func() {
			c.InsertSmart(0, BlockTag(0), nil, 2)
			c.InsertSmart(64, BlockTag(64), nil, 2)
			c.InsertSmart(128, BlockTag(128), nil, 2)

			c.Lookup(0)
			c.InsertSmart(192, BlockTag(192), nil, 2)

			Expect(c.Lookup(64)).To(BeTrue())
		})

		ginkgo.It("evicts the true LRU way at a capacity of 2", func() {
			small := New(Config{
				BlockSize:                64,
				MinSize:                  2,
				MaxSize:                  2,
				DefaultSize:              2,
				PhaseWindow:              10000,
				ReusePredictionThreshold: 2,
				BypassStreamingThreshold: 10,
			})

			small.InsertSmart(0, BlockTag(0), nil, 2)
			small.InsertSmart(64, BlockTag(64), nil, 2)
			small.InsertSmart(128, BlockTag(128), nil, 2)

			small.Lookup(0)
			small.InsertSmart(192, BlockTag(192), nil, 2)

			Expect(small.Lookup(64)).To(BeFalse())
		})
	})

	ginkgo.Describe("streaming bypass (S2)", func() {
		ginkgo.It("admits only the first entries of a long sequential stream", func() {
			cache := New(Config{
				BlockSize:                64,
				MinSize:                  64,
				MaxSize:                  256,
				DefaultSize:              64,
				PhaseWindow:              10000,
				ReusePredictionThreshold: 2,
				BypassStreamingThreshold: 10,
			})

			for i := uint64(0); i < 256; i++ {
				cache.InsertSmart(i*64, BlockTag(i*64), nil, 0)
			}

			stats := cache.Stats()
			Expect(stats.VictimInsertions).To(BeNumerically("<=", 11))
			Expect(stats.BypassedInsertions).To(BeNumerically(">=", 245))
			Expect(stats.VictimInsertions + stats.BypassedInsertions).To(Equal(uint64(256)))
		})
	})

	ginkgo.Describe("reuse admission (S3)", func() {
		ginkgo.It("admits a block with a high upstream access count", func() {
			c.InsertSmart(0x1000, BlockTag(0x1000), nil, 2)

			Expect(c.Lookup(0x1000)).To(BeTrue())
		})

		ginkgo.It("admits a block whose reuse score crosses the threshold", func() {
			for i := 0; i < 6; i++ {
				c.Lookup(0x2000)
			}

			c.InsertSmart(0x2000, BlockTag(0x2000), nil, 0)

			Expect(c.Lookup(0x2000)).To(BeTrue())
		})
	})

	ginkgo.Describe("re-insert coalescing", func() {
		ginkgo.It("produces exactly one valid entry and bumps access_count once", func() {
			c.InsertSmart(0x40, BlockTag(0x40), nil, 2)
			c.InsertSmart(0x40, BlockTag(0x40), nil, 2)

			Expect(c.validEntries()).To(Equal(uint32(1)))

			way, ok := c.findEntry(0x40)
			Expect(ok).To(BeTrue())
			Expect(c.entries[way].AccessCount).To(Equal(uint32(3)))
		})
	})

	ginkgo.Describe("insertion accounting", func() {
		ginkgo.It("conserves victim_insertions + bypassed_insertions across calls", func() {
			c.InsertSmart(0x40, BlockTag(0x40), nil, 2)
			c.InsertSmart(0x1000, BlockTag(0x1000), nil, 0)
			c.InsertSmart(0x2000, BlockTag(0x2000), nil, 0)

			stats := c.Stats()
			Expect(stats.VictimInsertions + stats.BypassedInsertions).To(Equal(uint64(3)))
		})
	})

	ginkgo.Describe("Resize", func() {
		ginkgo.It("rejects out-of-range sizes and leaves current_size unchanged", func() {
			before := c.CurrentSize()

			Expect(c.Resize(c.config.MinSize - 1)).To(BeFalse())
			Expect(c.Resize(c.config.MaxSize + 1)).To(BeFalse())
			Expect(c.CurrentSize()).To(Equal(before))
		})

		ginkgo.It("invalidates exactly the entries that fall outside a shrunken window", func() {
			cache := New(Config{
				BlockSize:                64,
				MinSize:                  4,
				MaxSize:                  8,
				DefaultSize:              8,
				PhaseWindow:              10000,
				ReusePredictionThreshold: 2,
				BypassStreamingThreshold: 10,
			})

			for i := uint64(0); i < 8; i++ {
				cache.InsertSmart(i*4096, BlockTag(i*4096), nil, 2)
			}

			before := cache.Stats().VictimEvictions

			Expect(cache.Resize(4)).To(BeTrue())

			after := cache.Stats().VictimEvictions
			Expect(after - before).To(Equal(uint64(4)))

			for i := uint32(4); i < 8; i++ {
				Expect(cache.entries[i].Valid).To(BeFalse())
			}
		})

		ginkgo.It("exposes newly grown slots as immediate LRU victims", func() {
			cache := New(Config{
				BlockSize:                64,
				MinSize:                  4,
				MaxSize:                  8,
				DefaultSize:              4,
				PhaseWindow:              10000,
				ReusePredictionThreshold: 2,
				BypassStreamingThreshold: 10,
			})

			for i := uint64(0); i < 4; i++ {
				cache.InsertSmart(i*4096, BlockTag(i*4096), nil, 2)
			}

			Expect(cache.Resize(8)).To(BeTrue())

			// The first grown slot is now the LRU choice; it is empty, so
			// EvictLRU reports false and evicts nothing.
			Expect(cache.findLRUWay()).To(Equal(uint32(4)))
			_, _, ok := cache.EvictLRU()
			Expect(ok).To(BeFalse())
		})
	})

	ginkgo.Describe("EvictLRU", func() {
		ginkgo.It("returns false on an empty cache", func() {
			_, _, ok := c.EvictLRU()
			Expect(ok).To(BeFalse())
		})

		ginkgo.It("evicts and invalidates the LRU way", func() {
			c.InsertSmart(0x40, BlockTag(0x40), nil, 2)

			// EvictLRU only evicts once every active way is valid, so
			// fill the rest of the cache after the oldest entry.
			for i := uint64(1); i < uint64(c.CurrentSize()); i++ {
				c.InsertSmart(i*4096, BlockTag(i*4096), nil, 2)
			}

			addr, _, ok := c.EvictLRU()
			Expect(ok).To(BeTrue())
			Expect(addr).To(Equal(uint64(0x40)))
			Expect(c.Lookup(0x40)).To(BeFalse())
		})
	})

	ginkgo.Describe("PromoteToLLC", func() {
		ginkgo.It("invalidates a valid in-range way and counts the promotion", func() {
			c.InsertSmart(0x40, BlockTag(0x40), nil, 2)
			way, ok := c.findEntry(0x40)
			Expect(ok).To(BeTrue())

			c.PromoteToLLC(way)

			Expect(c.Stats().LLCPromotions).To(Equal(uint64(1)))
			Expect(c.Lookup(0x40)).To(BeFalse())
		})

		ginkgo.It("is a no-op for an invalid way", func() {
			c.PromoteToLLC(0)
			Expect(c.Stats().LLCPromotions).To(Equal(uint64(0)))
		})
	})

	ginkgo.Describe("global LRU monotonicity", func() {
		ginkgo.It("never stamps the same counter value twice", func() {
			c.InsertSmart(0x40, BlockTag(0x40), nil, 2)
			c.InsertSmart(0x80, BlockTag(0x80), nil, 2)
			c.Lookup(0x40)
			c.Lookup(0x80)

			seen := map[uint64]bool{}
			for i := uint32(0); i < c.currentSize; i++ {
				if !c.entries[i].Valid {
					continue
				}
				Expect(seen[c.entries[i].LRUCounter]).To(BeFalse())
				seen[c.entries[i].LRUCounter] = true
			}
		})
	})

	ginkgo.Describe("Occupancy", func() {
		ginkgo.It("is zero on an empty cache and grows with valid entries", func() {
			Expect(c.Occupancy()).To(Equal(0.0))

			c.InsertSmart(0x40, BlockTag(0x40), nil, 2)
			Expect(c.Occupancy()).To(BeNumerically(">", 0))
		})
	})
})
