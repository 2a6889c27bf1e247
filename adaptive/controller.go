package adaptive

import "log"

// CacheView is the subset of victimcache.Cache the controller reads and
// mutates. Declaring it as an interface lets tests exercise the voting and
// apply logic against a fake without constructing a full cache.
type CacheView interface {
	CurrentSize() uint32
	Occupancy() float64
	HitRate() float64
	ReuseFrequency() float64
	Resize(newSize uint32) bool
}

// PhaseView is the subset of phasedetect.Detector the controller reads.
type PhaseView interface {
	GetCurrentPhase() Phase
}

// Phase mirrors phasedetect.Phase without importing that package, keeping
// the controller's dependency surface to the two small interfaces above.
// Its integer encoding matches phasedetect.Phase exactly.
type Phase int

const (
	PhaseMemoryIntensive Phase = iota
	PhaseComputeIntensive
	PhaseMixed
	PhaseUnknown
)

// Config holds the controller's tunable thresholds and step size.
type Config struct {
	AdaptationInterval uint64
	SizeAdjustmentStep uint32
	MinSize            uint32
	MaxSize            uint32

	HitRateHigh   float64
	HitRateLow    float64
	OccupancyHigh float64
	OccupancyLow  float64

	// HistoryCap bounds the number of AdaptationHistory records retained;
	// 0 means unbounded, matching the specification's default.
	HistoryCap int
}

// DefaultConfig returns the specification's defaults: a 50000-instruction
// adaptation interval, a 32-entry size step bounded to [64,256], hit-rate
// thresholds of 0.02/0.08, occupancy thresholds of 0.30/0.75, and a
// 4096-record history cap.
func DefaultConfig() Config {
	return Config{
		AdaptationInterval: 50000,
		SizeAdjustmentStep: 32,
		MinSize:            64,
		MaxSize:            256,
		HitRateHigh:        0.08,
		HitRateLow:         0.02,
		OccupancyHigh:      0.75,
		OccupancyLow:       0.30,
		HistoryCap:         4096,
	}
}

// Record is one entry of the adaptation history: the state observed at the
// moment a resize was applied.
type Record struct {
	Timestamp  uint64
	VictimSize uint32
	HitRate    float64
	Occupancy  float64
	Phase      Phase
	Decision   Decision
}

// Controller periodically reads a victim cache's occupancy and hit rate
// together with a phase detector's current phase, votes across three
// sub-policies, and resizes the cache when the vote calls for it.
//
// Controller holds non-owning references to the cache and phase source; it
// is not safe for concurrent use.
type Controller struct {
	cache  CacheView
	phase  PhaseView
	config Config

	instructionCount   uint64
	lastAdaptationTime uint64

	history []Record
}

// New constructs a Controller wired to the given cache and phase views.
func New(cache CacheView, phase PhaseView, config Config) *Controller {
	return &Controller{
		cache:  cache,
		phase:  phase,
		config: config,
	}
}

// Update accumulates instructions into the controller's running count and,
// once at least config.AdaptationInterval instructions have elapsed since
// the last adaptation, runs one adaptation step.
func (c *Controller) Update(instructions uint64) {
	c.instructionCount += instructions

	if c.instructionCount-c.lastAdaptationTime >= c.config.AdaptationInterval {
		c.checkAndAdapt()
	}
}

func (c *Controller) checkAndAdapt() {
	decision := c.hybridPolicy()
	c.applyDecision(decision)
	c.lastAdaptationTime = c.instructionCount
}

// hitRatePolicy votes Increase when the cache is both hot and nearly full,
// Decrease when it is both cold and nearly empty, else Maintain.
func (c *Controller) hitRatePolicy() Decision {
	hitRate := c.cache.HitRate()
	occupancy := c.cache.Occupancy()

	switch {
	case hitRate > c.config.HitRateHigh && occupancy > c.config.OccupancyHigh:
		return Increase
	case hitRate < c.config.HitRateLow && occupancy < c.config.OccupancyLow:
		return Decrease
	default:
		return Maintain
	}
}

// occupancyPolicy votes Increase when the cache is nearly full and either
// hot or frequently reused, Decrease when it is nearly empty, else
// Maintain.
func (c *Controller) occupancyPolicy() Decision {
	occupancy := c.cache.Occupancy()

	switch {
	case occupancy > c.config.OccupancyHigh:
		if c.cache.HitRate() > 0.05 || c.cache.ReuseFrequency() > 0.1 {
			return Increase
		}
	case occupancy < c.config.OccupancyLow:
		return Decrease
	}

	return Maintain
}

// phaseAwarePolicy dispatches on the current workload phase: memory-heavy
// workloads that are already paying off vote Increase, compute-heavy
// workloads vote Decrease outright, mixed workloads delegate to the
// occupancy policy, and an unclassified phase votes Maintain.
func (c *Controller) phaseAwarePolicy() Decision {
	phase := c.phase.GetCurrentPhase()

	switch phase {
	case PhaseMemoryIntensive:
		if c.cache.HitRate() > c.config.HitRateLow {
			return Increase
		}
	case PhaseComputeIntensive:
		return Decrease
	case PhaseMixed:
		return c.occupancyPolicy()
	}

	return Maintain
}

// hybridPolicy tallies Increase/Decrease votes across the three
// sub-policies. Increase wins on a single vote; Decrease requires two
// votes; otherwise the cache is left alone. This asymmetry is a
// deliberate aggressive-growth bias, not an oversight.
func (c *Controller) hybridPolicy() Decision {
	votes := [3]Decision{c.hitRatePolicy(), c.occupancyPolicy(), c.phaseAwarePolicy()}

	increaseVotes, decreaseVotes := 0, 0
	for _, v := range votes {
		switch v {
		case Increase:
			increaseVotes++
		case Decrease:
			decreaseVotes++
		}
	}

	switch {
	case increaseVotes >= 1:
		return Increase
	case decreaseVotes >= 2:
		return Decrease
	default:
		return Maintain
	}
}

// applyDecision resizes the cache per the decision and, if the size
// actually changed, appends an adaptation history record.
func (c *Controller) applyDecision(decision Decision) {
	currentSize := c.cache.CurrentSize()
	newSize := currentSize

	switch decision {
	case Increase:
		newSize = currentSize + c.config.SizeAdjustmentStep
		if newSize > c.config.MaxSize {
			newSize = c.config.MaxSize
		}
	case Decrease:
		shrunk := int64(currentSize) - int64(c.config.SizeAdjustmentStep)
		if shrunk < int64(c.config.MinSize) {
			newSize = c.config.MinSize
		} else {
			newSize = uint32(shrunk)
		}
	default:
		return
	}

	if newSize == currentSize {
		return
	}

	if !c.cache.Resize(newSize) {
		log.Printf("adaptive: cache rejected resize to %d entries", newSize)
		return
	}

	record := Record{
		Timestamp:  c.instructionCount,
		VictimSize: newSize,
		HitRate:    c.cache.HitRate(),
		Occupancy:  c.cache.Occupancy(),
		Phase:      c.phase.GetCurrentPhase(),
		Decision:   decision,
	}

	c.appendHistory(record)
}

func (c *Controller) appendHistory(r Record) {
	c.history = append(c.history, r)

	if c.config.HistoryCap > 0 && len(c.history) > c.config.HistoryCap {
		c.history = c.history[len(c.history)-c.config.HistoryCap:]
	}
}

// History returns a copy of the adaptation history, oldest first.
func (c *Controller) History() []Record {
	out := make([]Record, len(c.history))
	copy(out, c.history)
	return out
}
