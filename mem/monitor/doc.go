// Package monitor provides read-only views of a memory manager for display
// and telemetry: a block map of which parts of memory are in use, a sliding
// window of allocated-size samples, a polling sampler, and a text report.
//
// Nothing here mutates the manager; every view is built from mem.Snapshot or
// the manager's read accessors, which return copies.
package monitor
