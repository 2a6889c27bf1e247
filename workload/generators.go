package workload

import "math/rand"

// blockSize matches victimcache.DefaultConfig's BlockSize; workload does
// not import victimcache to avoid a dependency cycle with packages that
// exercise both, so the constant is duplicated here deliberately.
const blockSize = 64

// wideStride separates successive addresses in MemoryIntensive and the
// memory-side runs of Mixed by far more than any cache modeled in this
// repository, so consecutive accesses never land on the same block.
const wideStride = 4096 * blockSize

// computeWorkingSetBlocks is the number of distinct blocks a
// ComputeIntensive trace cycles through, modeled on the reference
// implementation's RepeatedBenchmark working set.
const computeWorkingSetBlocks = 16

// MemoryIntensive returns n strictly increasing, widely strided block
// addresses. Driven one access per instruction, the resulting window has
// both high memory intensity and, since no address repeats, a high miss
// rate — the combination phasedetect classifies MEMORY_INTENSIVE.
func MemoryIntensive(n int) []uint64 {
	addrs := make([]uint64, n)
	for i := range addrs {
		addrs[i] = uint64(i) * wideStride
	}
	return addrs
}

// ComputeIntensive returns n addresses cycling through a small, loop-local
// working set. The pattern is the mirror image of MemoryIntensive: once
// warmed, almost every access hits. Paired with a driving loop that
// issues several compute-only instructions between memory references (so
// that memory intensity, not just miss rate, stays low), this is the
// trace phasedetect classifies COMPUTE_INTENSIVE.
func ComputeIntensive(n int) []uint64 {
	addrs := make([]uint64, n)
	for i := range addrs {
		addrs[i] = uint64(i%computeWorkingSetBlocks) * blockSize
	}
	return addrs
}

// Mixed interleaves the two patterns above, 70% compute-local and 30%
// memory-wide, matching the reference implementation's MixedBenchmark
// split. The random choice is seeded for reproducibility rather than
// drawn from a process-global source.
func Mixed(n int) []uint64 {
	rng := rand.New(rand.NewSource(1))

	addrs := make([]uint64, n)
	for i := range addrs {
		if rng.Intn(100) < 70 {
			addrs[i] = uint64(i%computeWorkingSetBlocks) * blockSize
		} else {
			addrs[i] = uint64(rng.Intn(1<<20)) * wideStride
		}
	}
	return addrs
}

// Streaming returns n strictly monotone, block-aligned addresses starting
// at base — a single pass over a large contiguous region with no reuse,
// used to exercise the victim cache's streaming-bypass law.
func Streaming(base uint64, n int) []uint64 {
	addrs := make([]uint64, n)
	for i := range addrs {
		addrs[i] = base + uint64(i)*blockSize
	}
	return addrs
}

// Phased concatenates segments in order into one address stream, for
// tests that drive a trace through phasedetect and assert a transition is
// reported at (or shortly after) a segment boundary.
func Phased(segments ...Segment) []uint64 {
	total := 0
	for _, s := range segments {
		total += len(s.Addresses)
	}

	out := make([]uint64, 0, total)
	for _, s := range segments {
		out = append(out, s.Addresses...)
	}

	return out
}
