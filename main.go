// Package main provides the entry point banner for this module.
//
// For the full CLI, use: go run ./cmd/cachesim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("cachesim - adaptive victim cache hierarchy simulator")
	fmt.Println("")
	fmt.Println("Usage: cachesim [options]")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -trace <path>      Load addresses from a trace file")
	fmt.Println("  -accesses <n>      Number of addresses to generate when -trace is not set")
	fmt.Println("  -victim-size <n>   Starting victim cache size")
	fmt.Println("  -csv               Output the comparison as CSV")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/cachesim' for the full CLI, or 'go run ./cmd/tracegen' to write a reusable trace file.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/cachesim' instead.")
	}
}
