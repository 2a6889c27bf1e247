package hierarchy

import "sync"

// SynchronizedDriver wraps a Driver with a single mutex covering every
// operation, matching the specification's guidance that an implementation
// exposing the single-threaded core across goroutines must serialize the
// victim cache, phase detector and controller together rather than
// locking each independently — their counters, LRU stamping and FIFO
// rotation are not individually atomic.
type SynchronizedDriver struct {
	mu     sync.Mutex
	driver *Driver
}

// NewSynchronizedDriver wraps driver for concurrent use.
func NewSynchronizedDriver(driver *Driver) *SynchronizedDriver {
	return &SynchronizedDriver{driver: driver}
}

// AccessMemory serializes Driver.AccessMemory.
func (s *SynchronizedDriver) AccessMemory(addr uint64) Level {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.driver.AccessMemory(addr)
}

// Instruction serializes Driver.Instruction.
func (s *SynchronizedDriver) Instruction() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.driver.Instruction()
}

// MemoryStats serializes Driver.MemoryStats.
func (s *SynchronizedDriver) MemoryStats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.driver.MemoryStats()
}
