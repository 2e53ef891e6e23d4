// Package workload implements the synthetic workloads served by benchd,
// independently of the HTTP layer: SHA-256 hashing, a temporary file
// round-trip, a JSON encode/decode round-trip and a timer-driven chunk
// emitter.
//
// CPU and I/O jobs are meant to be run through a [Pool], which bounds how many
// of them execute at the same time.
package workload
