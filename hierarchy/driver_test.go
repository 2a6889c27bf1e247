package hierarchy

import "testing"

func TestSetAssociativeCacheHitAfterMiss(t *testing.T) {
	c := NewSetAssociativeCache("L1 Cache", 32, 4, 64)

	if hit, _ := c.Access(0x1000); hit {
		t.Fatalf("expected a miss on a cold cache")
	}
	if hit, _ := c.Access(0x1000); !hit {
		t.Fatalf("expected a hit on the second access")
	}

	stats := c.Stats()
	if stats.Accesses != 2 || stats.Hits != 1 || stats.Misses != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestSetAssociativeCacheReportsEvictedBlock(t *testing.T) {
	c := NewSetAssociativeCache("L1 Cache", 4, 4, 64)

	// Fill every way of the single set.
	for i := uint64(0); i < 4; i++ {
		if _, evicted := c.Access(i * 4096); evicted != nil {
			t.Fatalf("unexpected eviction while filling an empty set")
		}
	}

	// Access one more address to the same set; something must be
	// evicted now that all four ways are valid.
	_, evicted := c.Access(4 * 4096)
	if evicted == nil {
		t.Fatalf("expected an eviction once the set is full")
	}
}

// TestAccessMemoryOrdering exercises the mandatory ordering from the
// specification: a block evicted from L1 must be smart-inserted into the
// victim cache before the victim cache is probed for the incoming
// address, so a block evicted and immediately re-requested can hit.
func TestAccessMemoryOrdering(t *testing.T) {
	d := NewFixedVictim(64)

	// Touch one address three times (a miss, then two hits) so its L1
	// line accrues an access count of 2, then displace it by filling the rest of its L1 set with other
	// set-colliding addresses. Smart insertion admits a block outright
	// once its upstream access count reaches the reuse threshold (2), so
	// the evicted block must be visible in the victim cache immediately
	// — before this same address is looked up again.
	hot := uint64(0x10000)
	for i := 0; i < 3; i++ {
		d.AccessMemory(hot)
	}

	// Evict `hot` from L1 by filling the rest of its set with other
	// addresses that collide on the same set index (stride by the L1
	// set count * block size).
	stride := uint64(L1Lines/L1Associativity) * 64
	for i := uint64(1); i <= L1Associativity; i++ {
		d.AccessMemory(hot + i*stride)
	}

	// hot should now be evicted from L1 but, carrying an access count
	// of >= 2, should have been admitted into the victim cache and
	// should hit there.
	level := d.AccessMemory(hot)
	if level != LevelVictim {
		t.Fatalf("AccessMemory(hot) level = %v, want LevelVictim", level)
	}
}

func TestAccessMemoryBaselineHasNoVictim(t *testing.T) {
	d := NewBaseline()

	if d.Victim() != nil {
		t.Fatalf("expected a baseline driver to have no victim cache")
	}

	level := d.AccessMemory(0x1000)
	if level != LevelMemory {
		t.Fatalf("first access level = %v, want LevelMemory (a cold miss falls through L1 and L2)", level)
	}
}

func TestAdaptiveDriverCarriesController(t *testing.T) {
	d := NewAdaptive(80)

	for i := 0; i < int(DriverAdaptationInterval)+1; i++ {
		d.AccessMemory(uint64(i) * 64)
		d.Instruction()
	}

	if d.Controller() == nil {
		t.Fatalf("expected an adaptive driver to carry a controller")
	}
}
