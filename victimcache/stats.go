package victimcache

// Stats accumulates the counters and derived rates of a Cache. All counters
// are non-decreasing between calls to Cache.ResetStats.
type Stats struct {
	VictimHits         uint64
	VictimMisses       uint64
	VictimInsertions   uint64
	VictimEvictions    uint64
	LLCPromotions      uint64
	TotalAccesses      uint64
	BypassedInsertions uint64
	PredictedReuses    uint64

	OccupancyRate  float64
	HitRate        float64
	ReuseFrequency float64
	AvgAccessCount float64

	// MissRatioTrend, HitRateHistory and OccupancyHistory are snapshots
	// appended once per PhaseWindow instructions by UpdatePhaseStats.
	MissRatioTrend   []float64
	HitRateHistory   []float64
	OccupancyHistory []float64
}

// updateRates recomputes HitRate, ReuseFrequency and AvgAccessCount from the
// raw counters, guarding every division by zero.
func (s *Stats) updateRates() {
	if s.TotalAccesses > 0 {
		s.HitRate = float64(s.VictimHits) / float64(s.TotalAccesses)
	}

	if s.VictimInsertions > 0 {
		s.ReuseFrequency = float64(s.VictimHits) / float64(s.VictimInsertions)
		s.AvgAccessCount = float64(s.VictimHits) / float64(s.VictimInsertions)
	}
}

// recordPhase appends the current rates onto the history vectors.
func (s *Stats) recordPhase() {
	s.HitRateHistory = append(s.HitRateHistory, s.HitRate)
	s.OccupancyHistory = append(s.OccupancyHistory, s.OccupancyRate)

	if s.TotalAccesses > 0 {
		missRatio := float64(s.VictimMisses) / float64(s.TotalAccesses)
		s.MissRatioTrend = append(s.MissRatioTrend, missRatio)
	}
}
