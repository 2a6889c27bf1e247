// Command tracegen emits a synthetic address trace to a file, for reuse
// across multiple cachesim runs instead of regenerating (and potentially
// drifting) the workload on every invocation.
//
// Usage:
//
//	go run ./cmd/tracegen -kind mixed -n 200000 -out trace.txt
//
// -kind selects one of: memory, compute, mixed, streaming, phased.
package main

import (
	"flag"
	"log"

	"github.com/sarchlab/cachesim/workload"
)

func main() {
	kind := flag.String("kind", "mixed", "Workload kind: memory, compute, mixed, streaming, phased")
	n := flag.Int("n", 200000, "Number of addresses to generate")
	out := flag.String("out", "trace.txt", "Output trace file path")
	base := flag.Uint64("base", 0x10000, "Base address for the streaming kind")
	flag.Parse()

	var addrs []uint64

	switch *kind {
	case "memory":
		addrs = workload.MemoryIntensive(*n)
	case "compute":
		addrs = workload.ComputeIntensive(*n)
	case "mixed":
		addrs = workload.Mixed(*n)
	case "streaming":
		addrs = workload.Streaming(*base, *n)
	case "phased":
		quarter := *n / 4
		addrs = workload.Phased(
			workload.Segment{Name: "memory", Addresses: workload.MemoryIntensive(quarter)},
			workload.Segment{Name: "compute", Addresses: workload.ComputeIntensive(quarter)},
			workload.Segment{Name: "mixed", Addresses: workload.Mixed(quarter)},
			workload.Segment{Name: "streaming", Addresses: workload.Streaming(*base, *n-3*quarter)},
		)
	default:
		log.Fatalf("tracegen: unknown kind %q", *kind)
	}

	if err := workload.SaveTrace(*out, addrs); err != nil {
		log.Fatalf("tracegen: %v", err)
	}

	log.Printf("tracegen: wrote %d addresses to %s", len(addrs), *out)
}
