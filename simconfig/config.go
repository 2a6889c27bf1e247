// Package simconfig loads and saves the tunable constants of the
// simulator as a single JSON-serializable Config, mirroring the teacher's
// timing/latency.TimingConfig pattern.
package simconfig

import (
	"encoding/json"
	"os"
)

// Config carries every tunable constant named in the external interface:
// block and victim-cache sizing, phase detection windows, adaptation
// thresholds, and the smart-insertion thresholds.
type Config struct {
	BlockSize         uint64 `json:"block_size"`
	DefaultVictimSize uint32 `json:"default_victim_size"`
	MinVictimSize     uint32 `json:"min_victim_size"`
	MaxVictimSize     uint32 `json:"max_victim_size"`

	PhaseWindow          uint64  `json:"phase_window"`
	DetectionWindow      uint64  `json:"detection_window"`
	HistoryLength        int     `json:"history_length"`
	PhaseChangeThreshold float64 `json:"phase_change_threshold"`

	AdaptationInterval       uint64 `json:"adaptation_interval"`
	SizeAdjustmentStep       uint32 `json:"size_adjustment_step"`
	DriverAdaptationInterval uint64 `json:"driver_adaptation_interval"`

	HitRateHigh   float64 `json:"hit_rate_high"`
	HitRateLow    float64 `json:"hit_rate_low"`
	OccupancyHigh float64 `json:"occupancy_high"`
	OccupancyLow  float64 `json:"occupancy_low"`

	ReusePredictionThreshold uint32 `json:"reuse_prediction_threshold"`
	BypassStreamingThreshold uint32 `json:"bypass_streaming_threshold"`
}

// Default returns the specification's defaults.
func Default() Config {
	return Config{
		BlockSize:         64,
		DefaultVictimSize: 128,
		MinVictimSize:     64,
		MaxVictimSize:     256,

		PhaseWindow:          10000,
		DetectionWindow:      50000,
		HistoryLength:        10,
		PhaseChangeThreshold: 0.15,

		AdaptationInterval:       50000,
		SizeAdjustmentStep:       32,
		DriverAdaptationInterval: 5000,

		HitRateHigh:   0.08,
		HitRateLow:    0.02,
		OccupancyHigh: 0.75,
		OccupancyLow:  0.30,

		ReusePredictionThreshold: 2,
		BypassStreamingThreshold: 10,
	}
}

// Load reads a JSON-encoded Config from path, filling in any field the
// file omits from Default.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Save writes c to path as indented JSON.
func (c Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}
