// Package phasedetect classifies a trace's workload behavior over rolling
// windows of instructions and signals transitions between phases.
package phasedetect

// Phase is the workload regime classified for one window. The integer
// encoding is part of the CSV export contract used by package adaptive and
// must not be renumbered.
type Phase int

const (
	MemoryIntensive Phase = iota
	ComputeIntensive
	Mixed
	Unknown
)

// String renders the phase the way the original implementation's
// print_phase_info does.
func (p Phase) String() string {
	switch p {
	case MemoryIntensive:
		return "MEMORY_INTENSIVE"
	case ComputeIntensive:
		return "COMPUTE_INTENSIVE"
	case Mixed:
		return "MIXED"
	default:
		return "UNKNOWN"
	}
}

// Metrics describes one window of instruction execution, completed or in
// progress.
type Metrics struct {
	InstructionCount uint64
	MemoryAccesses   uint64
	CacheMisses      uint64

	MissRate        float64
	MemoryIntensity float64

	PhaseType Phase
	Timestamp uint64
}

// highMemoryIntensity and highMissRate are the classification thresholds
// from the specification: 100 memory accesses per 1000 instructions, and a
// 10% miss rate.
const (
	highMemoryIntensity = 100.0
	highMissRate        = 0.10
)

// classify implements the phase classification table: a window with no
// memory accesses is compute-intensive by definition; a window that is
// both memory-heavy and miss-heavy is memory-intensive; a window with low
// memory intensity is compute-intensive; everything else is mixed.
func classify(m Metrics) Phase {
	if m.MemoryAccesses == 0 {
		return ComputeIntensive
	}

	switch {
	case m.MemoryIntensity > highMemoryIntensity && m.MissRate > highMissRate:
		return MemoryIntensive
	case m.MemoryIntensity < highMemoryIntensity/2:
		return ComputeIntensive
	default:
		return Mixed
	}
}

// similarity compares two completed windows. Windows with no memory
// accesses are defined as maximally dissimilar to anything (similarity 0),
// since there is nothing meaningful to compare.
func similarity(m1, m2 Metrics) float64 {
	if m1.MemoryAccesses == 0 || m2.MemoryAccesses == 0 {
		return 0
	}

	missRateDiff := absFloat(m1.MissRate - m2.MissRate)

	maxIntensity := m1.MemoryIntensity
	if m2.MemoryIntensity > maxIntensity {
		maxIntensity = m2.MemoryIntensity
	}
	if maxIntensity == 0 {
		return 0
	}

	intensityDiff := absFloat(m1.MemoryIntensity-m2.MemoryIntensity) / maxIntensity

	return 1.0 - (missRateDiff+intensityDiff)/2.0
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
