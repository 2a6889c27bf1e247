// Package victimcache implements a fully-associative, LRU, runtime-resizable
// victim cache with a smart insertion filter that rejects streaming blocks
// and admits blocks predicted to be reused.
package victimcache

// Config holds the tunable constants of the victim cache. The zero value is
// not useful; construct one with DefaultConfig and override fields as
// needed.
type Config struct {
	// BlockSize is the size in bytes of one cache block. Addresses are
	// identified by address/BlockSize; the low bits are ignored.
	BlockSize uint64

	// MinSize and MaxSize bound CurrentSize across Resize calls.
	MinSize uint32
	MaxSize uint32

	// DefaultSize is the logical capacity a freshly constructed cache
	// starts with.
	DefaultSize uint32

	// PhaseWindow is the instruction-count period at which
	// UpdatePhaseStats snapshots occupancy/hit-rate/miss-ratio history.
	PhaseWindow uint64

	// ReusePredictionThreshold is the minimum upstream access count that
	// admits a block regardless of its reuse score.
	ReusePredictionThreshold uint32

	// BypassStreamingThreshold is the run length of a strictly
	// sequential block-aligned stream after which further addresses are
	// treated as streaming and bypassed.
	BypassStreamingThreshold uint32
}

// DefaultConfig returns the constants from the system specification:
// a 64-byte block, a 128-entry default size bounded between 64 and 256
// entries, a 10000-instruction phase window, a reuse threshold of 2
// upstream accesses, and a streaming run length of 10.
func DefaultConfig() Config {
	return Config{
		BlockSize:                64,
		MinSize:                  64,
		MaxSize:                  256,
		DefaultSize:              128,
		PhaseWindow:              10000,
		ReusePredictionThreshold: 2,
		BypassStreamingThreshold: 10,
	}
}

// accessHistoryCapacity bounds the FIFO of recently accessed addresses used
// for reuse-score prediction.
const accessHistoryCapacity = 1000

// reuseCounterBuckets is the number of per-block-index reuse counters kept
// by the smart insertion filter.
const reuseCounterBuckets = 10000

// reuseScanWindow is how many of the most recent access-history entries are
// scanned for repeated occurrences of a candidate address. The original
// implementation this is ported from bounds the scan with a reverse
// iterator pair that is meant to cover the last 100 entries; this
// implementation takes that literally.
const reuseScanWindow = 100
