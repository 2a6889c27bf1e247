package hierarchy

import (
	"github.com/sarchlab/cachesim/adaptive"
	"github.com/sarchlab/cachesim/phasedetect"
	"github.com/sarchlab/cachesim/simconfig"
	"github.com/sarchlab/cachesim/victimcache"
)

// Level identifies which stage of the hierarchy served an access.
type Level int

const (
	LevelL1 Level = iota
	LevelVictim
	LevelL2
	LevelMemory
)

func (l Level) String() string {
	switch l {
	case LevelL1:
		return "L1"
	case LevelVictim:
		return "Victim"
	case LevelL2:
		return "L2"
	default:
		return "Memory"
	}
}

// L1Lines, L1Associativity, L2Lines and L2Associativity size the two
// textbook caches the driver places around the victim cache, matching the
// reference simulator's defaults.
const (
	L1Lines         = 256
	L1Associativity = 8
	L2Lines         = 2048
	L2Associativity = 16
)

// Driver routes memory accesses through L1, an optional victim cache, and
// L2, and drives the phase detector and adaptive controller on the
// instruction stream. It owns L1 and L2; it borrows the victim cache,
// phase detector and controller rather than owning them.
//
// Driver is not safe for concurrent use; see NewSynchronizedDriver.
type Driver struct {
	l1 *SetAssociativeCache
	l2 *SetAssociativeCache

	victim     *victimcache.Cache
	detector   *phasedetect.Detector
	controller *adaptive.Controller

	useVictim   bool
	useAdaptive bool

	memory Stats

	totalInstructions      uint64
	instructionsSinceAdapt uint64
	adaptationInterval     uint64

	lastL1Accesses uint64
	lastL1Misses   uint64
}

// DriverAdaptationInterval is the instruction count at which the driver
// pushes windowed L1 stats into the phase detector and ticks the
// controller. It is distinct from, and smaller than, the controller's own
// AdaptationInterval gate, which governs when the controller acts.
const DriverAdaptationInterval = 5000

// NewBaseline builds a driver with no victim cache: L1 misses fall
// straight through to L2.
func NewBaseline() *Driver {
	return &Driver{
		l1:                 NewSetAssociativeCache("L1 Cache", L1Lines, L1Associativity, simconfig.Default().BlockSize),
		l2:                 NewSetAssociativeCache("L2 Cache", L2Lines, L2Associativity, simconfig.Default().BlockSize),
		adaptationInterval: DriverAdaptationInterval,
	}
}

// NewFixedVictim builds a driver with a victim cache of fixed logical size
// that is never resized by a controller.
func NewFixedVictim(size uint32) *Driver {
	d := NewBaseline()
	d.useVictim = true

	cfg := victimcache.DefaultConfig()
	cfg.DefaultSize = size
	d.victim = victimcache.New(cfg)

	return d
}

// NewAdaptive builds a driver with a victim cache, a phase detector, and
// an adaptive controller that resizes the cache on the driver's
// instruction stream. startSize is the victim cache's initial logical
// size.
func NewAdaptive(startSize uint32) *Driver {
	d := NewBaseline()
	d.useVictim = true
	d.useAdaptive = true

	cfg := victimcache.DefaultConfig()
	cfg.DefaultSize = startSize
	d.victim = victimcache.New(cfg)

	d.detector = phasedetect.New()
	d.controller = adaptive.New(d.victim, phaseAdapter{d.detector}, adaptive.DefaultConfig())

	return d
}

// phaseAdapter adapts *phasedetect.Detector to adaptive.PhaseView; the two
// packages define distinct Phase types with the same integer encoding so
// that neither needs to import the other.
type phaseAdapter struct {
	d *phasedetect.Detector
}

func (p phaseAdapter) GetCurrentPhase() adaptive.Phase {
	return adaptive.Phase(p.d.GetCurrentPhase())
}

// L1 returns the driver's L1 cache for inspection/reporting.
func (d *Driver) L1() *SetAssociativeCache { return d.l1 }

// L2 returns the driver's L2 cache for inspection/reporting.
func (d *Driver) L2() *SetAssociativeCache { return d.l2 }

// Victim returns the driver's victim cache, or nil for a baseline driver.
func (d *Driver) Victim() *victimcache.Cache { return d.victim }

// Controller returns the driver's adaptive controller, or nil if the
// driver is not adaptive.
func (d *Driver) Controller() *adaptive.Controller { return d.controller }

// MemoryStats returns the accesses that missed all the way through to
// main memory.
func (d *Driver) MemoryStats() Stats { return d.memory }

// AccessMemory routes one memory access through the hierarchy in the
// mandatory order: probe L1; if L1 missed and evicted a block, smart-
// insert that block into the victim cache before consulting it for the
// incoming address; on a victim miss, probe L2; on an L2 miss, count a
// memory access. It returns the level that served the access.
func (d *Driver) AccessMemory(addr uint64) Level {
	hit, evicted := d.l1.Access(addr)
	if hit {
		return LevelL1
	}

	if d.useVictim && d.victim != nil {
		if evicted != nil {
			d.victim.InsertSmart(evicted.Address, victimcache.BlockTag(evicted.Address), nil, evicted.AccessCount)
		}

		if d.victim.Lookup(addr) {
			return LevelVictim
		}
	}

	if l2Hit, _ := d.l2.Access(addr); l2Hit {
		return LevelL2
	}

	d.memory.Accesses++
	d.memory.Misses++

	return LevelMemory
}

// Instruction advances the instruction stream by one: it counts the
// instruction, snapshots the victim cache's phase statistics, and — once
// per DriverAdaptationInterval instructions, for an adaptive driver —
// pushes the L1 stats accumulated since the last push into the phase
// detector and ticks the controller.
func (d *Driver) Instruction() {
	d.totalInstructions++
	d.instructionsSinceAdapt++

	if d.victim != nil {
		d.victim.UpdatePhaseStats(d.totalInstructions)
	}

	if d.useAdaptive && d.instructionsSinceAdapt >= d.adaptationInterval {
		d.pushAdaptation()
	}
}

// pushAdaptation feeds the phase detector the L1 accesses/misses observed
// since the previous push (a true window, not a running total) and ticks
// the controller with the elapsed instruction count.
func (d *Driver) pushAdaptation() {
	l1Stats := d.l1.Stats()
	deltaAccesses := l1Stats.Accesses - d.lastL1Accesses
	deltaMisses := l1Stats.Misses - d.lastL1Misses
	d.lastL1Accesses = l1Stats.Accesses
	d.lastL1Misses = l1Stats.Misses

	d.detector.Update(d.instructionsSinceAdapt, deltaAccesses, deltaMisses)
	d.detector.CheckPhaseChange()

	d.victim.SyncRates()
	d.controller.Update(d.instructionsSinceAdapt)

	d.instructionsSinceAdapt = 0
}
