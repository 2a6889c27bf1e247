package simconfig

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultMatchesSpecDefaults(t *testing.T) {
	cfg := Default()

	if cfg.BlockSize != 64 {
		t.Errorf("BlockSize = %d, want 64", cfg.BlockSize)
	}
	if cfg.DefaultVictimSize != 128 {
		t.Errorf("DefaultVictimSize = %d, want 128", cfg.DefaultVictimSize)
	}
	if cfg.AdaptationInterval != 50000 {
		t.Errorf("AdaptationInterval = %d, want 50000", cfg.AdaptationInterval)
	}
	if cfg.DriverAdaptationInterval != 5000 {
		t.Errorf("DriverAdaptationInterval = %d, want 5000", cfg.DriverAdaptationInterval)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.DefaultVictimSize = 192
	cfg.SizeAdjustmentStep = 16

	path := filepath.Join(t.TempDir(), "sim.json")
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save returned an error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned an error: %v", err)
	}

	if loaded != cfg {
		t.Fatalf("round-tripped config = %+v, want %+v", loaded, cfg)
	}
}

func TestLoadFillsOmittedFieldsFromDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.json")
	if err := os.WriteFile(path, []byte(`{"default_victim_size": 200}`), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned an error: %v", err)
	}

	if cfg.DefaultVictimSize != 200 {
		t.Errorf("DefaultVictimSize = %d, want 200", cfg.DefaultVictimSize)
	}
	if cfg.BlockSize != Default().BlockSize {
		t.Errorf("BlockSize = %d, want the default %d", cfg.BlockSize, Default().BlockSize)
	}
}

func TestLoadMissingFileReturnsError(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected an error loading a nonexistent file")
	}
}
