package phasedetect

// DetectionWindow is the minimum instruction count a window must reach
// before check_phase_change will classify and close it.
const DetectionWindow uint64 = 50000

// HistoryLength bounds the FIFO of completed windows.
const HistoryLength = 10

// ChangeThreshold defines a phase transition as a drop in similarity below
// 1-ChangeThreshold (i.e. below 0.85 with the specification's default).
const ChangeThreshold = 0.15

// Detector classifies the workload over rolling windows of instructions
// and reports phase transitions. It is not safe for concurrent use.
type Detector struct {
	history []Metrics

	current Metrics

	windowStartInstruction uint64
	globalInstructionCount uint64
}

// New constructs an empty Detector.
func New() *Detector {
	return &Detector{current: Metrics{PhaseType: Unknown}}
}

// RecordInstruction advances both the global and the current window's
// instruction count by one.
func (d *Detector) RecordInstruction() {
	d.globalInstructionCount++
	d.current.InstructionCount++
}

// RecordMemoryAccess advances the current window's memory-access count,
// and its miss count when isMiss is true.
func (d *Detector) RecordMemoryAccess(isMiss bool) {
	d.current.MemoryAccesses++
	if isMiss {
		d.current.CacheMisses++
	}
}

// Update is the bulk equivalent of calling RecordInstruction instr times
// and RecordMemoryAccess mem times, misses of which report a miss.
func (d *Detector) Update(instr, mem, misses uint64) {
	d.current.InstructionCount += instr
	d.current.MemoryAccesses += mem
	d.current.CacheMisses += misses
	d.globalInstructionCount += instr
}

// CheckPhaseChange closes the current window once it has accumulated at
// least DetectionWindow instructions: it classifies the window, compares
// it against the most recently completed window, pushes it onto the
// bounded history, and resets the current window. It reports whether the
// classification represents a transition from the previous window.
func (d *Detector) CheckPhaseChange() bool {
	if d.current.InstructionCount < DetectionWindow {
		return false
	}

	if d.current.MemoryAccesses > 0 {
		d.current.MissRate = float64(d.current.CacheMisses) / float64(d.current.MemoryAccesses)
		d.current.MemoryIntensity = float64(d.current.MemoryAccesses) / (float64(d.current.InstructionCount) / 1000.0)
	}

	d.current.PhaseType = classify(d.current)
	d.current.Timestamp = d.globalInstructionCount

	changed := d.detectTransition()

	d.history = append(d.history, d.current)
	if len(d.history) > HistoryLength {
		d.history = d.history[1:]
	}

	d.windowStartInstruction = d.globalInstructionCount
	d.current = Metrics{PhaseType: Unknown}

	return changed
}

// detectTransition reports whether the current window's metrics have
// drifted from the most recently completed window beyond ChangeThreshold.
func (d *Detector) detectTransition() bool {
	if len(d.history) == 0 {
		return false
	}

	prev := d.history[len(d.history)-1]
	sim := similarity(prev, d.current)

	return sim < (1.0 - ChangeThreshold)
}

// GetCurrentPhase returns the phase classification of the in-progress
// window. A window is classified only by the CheckPhaseChange call that
// closes it, which then archives it and resets the in-progress window, so
// this reads Unknown; classifications of completed windows are available
// through GetHistory.
func (d *Detector) GetCurrentPhase() Phase {
	return d.current.PhaseType
}

// GetCurrentMetrics returns a copy of the in-progress window.
func (d *Detector) GetCurrentMetrics() Metrics {
	return d.current
}

// GetHistory returns a copy of the completed-window history, oldest
// first.
func (d *Detector) GetHistory() []Metrics {
	out := make([]Metrics, len(d.history))
	copy(out, d.history)
	return out
}

// GetMissRateTrend returns the ordinary least-squares slope of MissRate
// over the completed-window history, indexed 0..n-1. It is 0 when fewer
// than two windows have completed.
func (d *Detector) GetMissRateTrend() float64 {
	n := len(d.history)
	if n < 2 {
		return 0
	}

	var sumX, sumY, sumXY, sumXX float64

	for i, m := range d.history {
		x := float64(i)
		y := m.MissRate
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	denom := float64(n)*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}

	return (float64(n)*sumXY - sumX*sumY) / denom
}

// GetMemoryIntensity returns the memory intensity of the most recently
// completed window, or 0 if none has completed.
func (d *Detector) GetMemoryIntensity() float64 {
	if len(d.history) == 0 {
		return 0
	}
	return d.history[len(d.history)-1].MemoryIntensity
}

// IsMemoryIntensive reports whether the in-progress window's phase, as
// returned by GetCurrentPhase, is MemoryIntensive.
func (d *Detector) IsMemoryIntensive() bool {
	return d.GetCurrentPhase() == MemoryIntensive
}
